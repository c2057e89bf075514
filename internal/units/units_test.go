package units

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTableT(t *testing.T) *Table {
	t.Helper()
	tbl, err := Default()
	require.NoError(t, err)
	return tbl
}

func TestDefaultCategories(t *testing.T) {
	cats := defaultTableT(t).Categories()
	require.Len(t, cats, 2)

	assert.Equal(t, "length", cats[0].Name)
	assert.Equal(t, "m", cats[0].Base)
	assert.Equal(t, []string{"cm", "ft", "in", "km", "m", "mi", "mm", "yd"}, cats[0].Units())

	assert.Equal(t, "mass", cats[1].Name)
	assert.Equal(t, "kg", cats[1].Base)
	assert.InDelta(t, 0.453592, cats[1].Factors["lb"], 1e-12)
}

func TestConvert(t *testing.T) {
	tbl := defaultTableT(t)

	tests := []struct {
		value    float64
		from, to string
		want     float64
	}{
		{100, "cm", "m", 1},
		{1, "km", "m", 1000},
		{1, "mi", "km", 1.60934},
		{12, "in", "ft", 1},
		{1, "ft", "in", 12},
		{1, "kg", "lb", 2.204624},
		{16, "oz", "lb", 1},
		{1, "g", "mg", 1000},
		{5, "M", "CM", 500},
		{0, "m", "km", 0},
		{-3, "km", "m", -3000},
	}

	for _, tt := range tests {
		got, err := tbl.Convert(tt.value, tt.from, tt.to)
		require.NoError(t, err, "%v %s->%s", tt.value, tt.from, tt.to)
		assert.InDelta(t, tt.want, got, 1e-6, "%v %s->%s", tt.value, tt.from, tt.to)
	}
}

func TestConvertRoundsToSixDecimals(t *testing.T) {
	got, err := defaultTableT(t).Convert(1, "mm", "mi")
	require.NoError(t, err)
	assert.Equal(t, 0.000001, got)
}

func TestConvertErrors(t *testing.T) {
	tbl := defaultTableT(t)

	_, err := tbl.Convert(1, "m", "parsec")
	assert.ErrorIs(t, err, ErrUnknownUnit)
	assert.Equal(t, "Error: One or both units not recognized.", err.Error())

	_, err = tbl.Convert(1, "m", "kg")
	assert.ErrorIs(t, err, ErrCategoryMismatch)
	assert.Equal(t, "Error: Cannot convert between different categories (length to mass).", err.Error())

	_, err = tbl.Convert(math.NaN(), "m", "km")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "Error: Invalid value for conversion.", err.Error())

	_, err = tbl.Convert(math.Inf(1), "m", "km")
	assert.ErrorIs(t, err, ErrInvalidValue)

	var ue *Error
	assert.True(t, errors.As(err, &ue))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "time.cue")
	src := `
category: time: {
	base: "s"
	units: {
		s:   1
		min: 60
		h:   3600
	}
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)

	got, err := tbl.Convert(2, "h", "min")
	require.NoError(t, err)
	assert.Equal(t, 120.0, got)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read unit table")
}

func TestParseRejectsBadTables(t *testing.T) {
	tests := map[string]string{
		"syntax":       `category: {`,
		"missing":      `other: 1`,
		"base factor":  `category: x: {base: "a", units: {a: 2, b: 1}}`,
		"missing base": `category: x: {base: "z", units: {a: 1}}`,
		"duplicate":    `category: x: {base: "a", units: {a: 1}}, category: y: {base: "a", units: {a: 1}}`,
		"case fold":    `category: x: {base: "m", units: {m: 1, Mm: 1000000, mm: 0.001}}`,
		"not a number": `category: x: {base: "a", units: {a: "one"}}`,
		"non-concrete": `category: x: {base: string, units: {a: 1}}`,
	}

	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), name+".cue")
			assert.Error(t, err)
		})
	}
}

func TestParseRejectsCaseFoldedDuplicate(t *testing.T) {
	_, err := Parse([]byte(`category: length: {base: "m", units: {m: 1, Mm: 1000000, mm: 0.001}}`), "units.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unit "mm" declared twice`)
}
