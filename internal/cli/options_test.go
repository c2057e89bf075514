package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	out, err := execute(t, NewOptionsCommand(testOptions(t)))
	require.NoError(t, err)
	assert.Equal(t, "theme: light\nfont-size: 16px\n", out)
}

func TestOptions_Update(t *testing.T) {
	opts := testOptions(t)

	out, err := execute(t, NewOptionsCommand(opts), "--theme", "dark", "--font-size", "1.25em")
	require.NoError(t, err)
	assert.Equal(t, "theme: dark\nfont-size: 1.25em\n", out)

	// Changing one option keeps the other.
	out, err = execute(t, NewOptionsCommand(opts), "--font-size", "18px")
	require.NoError(t, err)
	assert.Equal(t, "theme: dark\nfont-size: 18px\n", out)

	opts.Format = "json"
	out, err = execute(t, NewOptionsCommand(opts))
	require.NoError(t, err)
	var resp struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, map[string]string{"theme": "dark", "fontSize": "18px"}, resp.Data)
}

func TestOptions_BlankFontSizeFallsBack(t *testing.T) {
	opts := testOptions(t)
	_, err := execute(t, NewOptionsCommand(opts), "--font-size", "20px")
	require.NoError(t, err)

	out, err := execute(t, NewOptionsCommand(opts), "--font-size", " ")
	require.NoError(t, err)
	assert.Equal(t, "theme: light\nfont-size: 16px\n", out)
}

func TestOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"theme", []string{"--theme", "blue"}, "Error [VALIDATION]: theme must be light or dark: \"blue\"\n"},
		{"font size", []string{"--font-size", "big"}, "Error [VALIDATION]: font size must be a positive length such as 16px: \"big\"\n"},
		{"zero font size", []string{"--font-size", "0px"}, "Error [VALIDATION]: font size must be a positive length such as 16px: \"0px\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(t)
			out, err := execute(t, NewOptionsCommand(opts), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Equal(t, tt.want, out)

			// Nothing was saved.
			out, err = execute(t, NewOptionsCommand(opts))
			require.NoError(t, err)
			assert.Equal(t, "theme: light\nfont-size: 16px\n", out)
		})
	}
}
