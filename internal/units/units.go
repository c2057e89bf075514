// Package units converts values between named units of the same category
// by linear scaling through the category's base unit. The table is written
// in CUE; a default is embedded and a replacement can be loaded from disk.
package units

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed units.cue
var defaultTable []byte

var (
	// ErrUnknownUnit is returned when either unit is not in the table.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrCategoryMismatch is returned for units in different categories.
	ErrCategoryMismatch = errors.New("category mismatch")

	// ErrInvalidValue is returned for NaN or infinite input.
	ErrInvalidValue = errors.New("invalid value")
)

// Error is a conversion failure rendered for the user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return "Error: " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Category is one group of mutually convertible units.
type Category struct {
	Name    string
	Base    string
	Factors map[string]float64 // unit -> base units per unit
}

// Table is a loaded unit table. It is immutable and safe for concurrent use.
type Table struct {
	categories []Category
	index      map[string]int // lower-case unit -> category
}

// Default returns the embedded table.
func Default() (*Table, error) {
	return Parse(defaultTable, "units.cue")
}

// LoadFile reads a table from a CUE file.
func LoadFile(path string) (*Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit table: %w", err)
	}
	return Parse(src, path)
}

// Parse compiles a CUE unit table. The source must define
// category: <name>: {base: string, units: {<unit>: factor}}.
func Parse(src []byte, filename string) (*Table, error) {
	value := cuecontext.New().CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("compile unit table: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate unit table: %w", err)
	}

	categories := value.LookupPath(cue.ParsePath("category"))
	if !categories.Exists() {
		return nil, fmt.Errorf("unit table %s: missing category", filename)
	}
	iter, err := categories.Fields()
	if err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	t := &Table{index: make(map[string]int)}
	for iter.Next() {
		c, err := parseCategory(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		for unit := range c.Factors {
			if prev, dup := t.index[unit]; dup {
				return nil, fmt.Errorf("unit %q in both %s and %s", unit, t.categories[prev].Name, c.Name)
			}
			t.index[unit] = len(t.categories)
		}
		t.categories = append(t.categories, c)
	}
	return t, nil
}

func parseCategory(name string, v cue.Value) (Category, error) {
	base, err := v.LookupPath(cue.ParsePath("base")).String()
	if err != nil {
		return Category{}, fmt.Errorf("category %s: base: %w", name, err)
	}

	iter, err := v.LookupPath(cue.ParsePath("units")).Fields()
	if err != nil {
		return Category{}, fmt.Errorf("category %s: units: %w", name, err)
	}
	c := Category{Name: name, Base: strings.ToLower(base), Factors: make(map[string]float64)}
	for iter.Next() {
		unit := iter.Selector().Unquoted()
		f, err := iter.Value().Float64()
		if err != nil {
			return Category{}, fmt.Errorf("category %s: unit %s: %w", name, unit, err)
		}
		key := strings.ToLower(unit)
		if _, dup := c.Factors[key]; dup {
			return Category{}, fmt.Errorf("category %s: unit %q declared twice (names are case-insensitive)", name, key)
		}
		c.Factors[key] = f
	}
	if f, ok := c.Factors[c.Base]; !ok || f != 1 {
		return Category{}, fmt.Errorf("category %s: base unit %s must have factor 1", name, c.Base)
	}
	return c, nil
}

// Categories returns the categories in declaration order.
func (t *Table) Categories() []Category {
	out := make([]Category, len(t.categories))
	copy(out, t.categories)
	return out
}

// Units returns the unit names of a category, sorted.
func (c Category) Units() []string {
	names := make([]string, 0, len(c.Factors))
	for name := range c.Factors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Convert converts value from one unit to another. Unit names are
// case-insensitive; the result is rounded to 6 decimal places.
func (t *Table) Convert(value float64, from, to string) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &Error{Kind: ErrInvalidValue, Message: "Invalid value for conversion."}
	}
	from, to = strings.ToLower(from), strings.ToLower(to)

	fi, okFrom := t.index[from]
	ti, okTo := t.index[to]
	if !okFrom || !okTo {
		return 0, &Error{Kind: ErrUnknownUnit, Message: "One or both units not recognized."}
	}
	if fi != ti {
		return 0, &Error{
			Kind: ErrCategoryMismatch,
			Message: fmt.Sprintf("Cannot convert between different categories (%s to %s).",
				t.categories[fi].Name, t.categories[ti].Name),
		}
	}

	c := t.categories[fi]
	converted := value * c.Factors[from] / c.Factors[to]
	return round6(converted), nil
}

func round6(f float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 6, 64), 64)
	if err != nil {
		return f
	}
	return r
}
