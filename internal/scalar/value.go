package scalar

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Value is a sealed interface representing the values a variable can hold.
// Only Number and Text implement this.
type Value interface {
	scalar() // Sealed - only these types implement it
	String() string
}

// Number is a finite numeric value.
type Number float64

func (Number) scalar() {}

// String renders the number the way the calculator displays it.
func (n Number) String() string {
	return FormatNumber(float64(n))
}

// Text is a string value that is not a lossless number.
type Text string

func (Text) scalar() {}

func (t Text) String() string {
	return string(t)
}

var (
	// ErrUnset is returned when a value is missing (nil).
	ErrUnset = errors.New("value is unset")

	// ErrNotFinite is returned for NaN and infinite numbers.
	ErrNotFinite = errors.New("value is not a finite number")
)

// Normalize converts an arbitrary Go value to a Value.
//
// Rules:
//   - nil is ErrUnset
//   - numeric kinds become Number; NaN and ±Inf are ErrNotFinite
//   - a string becomes Number only if FormatNumber of its parsed value
//     reproduces the string exactly, otherwise Text
//   - everything else becomes Text of its string form
func Normalize(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return nil, ErrUnset
	case Number:
		return number(float64(x))
	case Text:
		return normalizeString(string(x)), nil
	case string:
		return normalizeString(x), nil
	case float64:
		return number(x)
	case float32:
		return number(float64(x))
	case int:
		return Number(x), nil
	case int8:
		return Number(x), nil
	case int16:
		return Number(x), nil
	case int32:
		return Number(x), nil
	case int64:
		return Number(x), nil
	case uint:
		return Number(x), nil
	case uint8:
		return Number(x), nil
	case uint16:
		return Number(x), nil
	case uint32:
		return Number(x), nil
	case uint64:
		return Number(x), nil
	case json.Number:
		return normalizeString(x.String()), nil
	case bool:
		return Text(strconv.FormatBool(x)), nil
	case fmt.Stringer:
		return normalizeString(x.String()), nil
	default:
		return Text(fmt.Sprint(x)), nil
	}
}

func number(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, ErrNotFinite
	}
	return Number(f), nil
}

func normalizeString(s string) Value {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(s)
	}
	if FormatNumber(f) != s {
		return Text(s)
	}
	return Number(f)
}

// Map is a flat mapping from variable name to Value.
type Map map[string]Value

// SortedNames returns the names in lexical order.
func (m Map) SortedNames() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON encodes numbers as JSON numbers and text as JSON strings.
func (m Map) MarshalJSON() ([]byte, error) {
	raw := make(map[string]any, len(m))
	for name, v := range m {
		switch x := v.(type) {
		case Number:
			raw[name] = float64(x)
		case Text:
			raw[name] = string(x)
		default:
			return nil, fmt.Errorf("variable %q: unsupported value %T", name, v)
		}
	}
	return json.Marshal(raw)
}

// UnmarshalJSON restores the Number or Text variant of each entry.
func (m *Map) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = make(Map, len(raw))
	for name, msg := range raw {
		v, err := unmarshalValue(msg)
		if err != nil {
			return fmt.Errorf("variable %q: %w", name, err)
		}
		(*m)[name] = v
	}
	return nil
}

func unmarshalValue(data []byte) (Value, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Text(s), nil
	case 'n':
		return nil, ErrUnset
	case 't', 'f', '[', '{':
		return nil, fmt.Errorf("unsupported JSON value %s", data)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, err
		}
		return number(f)
	}
}
