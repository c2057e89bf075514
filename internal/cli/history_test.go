package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func seedHistory(t *testing.T, opts *RootOptions, lines ...[]string) {
	t.Helper()
	for _, args := range lines {
		_, err := evalLine(t, opts, args...)
		require.NoError(t, err, "args %v", args)
	}
}

func TestHistory_Text(t *testing.T) {
	opts := testOptions(t)
	seedHistory(t, opts, []string{"10 + 5"}, []string{"*2"})

	out, err := execute(t, NewHistoryCommand(opts))
	require.NoError(t, err)
	newGolden(t).Assert(t, "history_text", []byte(out))
}

func TestHistory_JSON(t *testing.T) {
	opts := testOptions(t)
	seedHistory(t, opts, []string{"10 + 5"}, []string{"*2"})
	opts.Format = "json"

	out, err := execute(t, NewHistoryCommand(opts))
	require.NoError(t, err)
	newGolden(t).Assert(t, "history_json", []byte(out))
}

func TestHistory_Limit(t *testing.T) {
	opts := testOptions(t)
	seedHistory(t, opts, []string{"1"}, []string{"+1"}, []string{"+1"})

	out, err := execute(t, NewHistoryCommand(opts), "--limit", "1")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T12:00:02Z  +1 = 3\n", out)

	_, err = execute(t, NewHistoryCommand(opts), "--limit", "-1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestHistory_Group(t *testing.T) {
	opts := testOptions(t)
	seedHistory(t, opts, []string{"1234567"}, []string{"/8"}, []string{"@big = 1e21"})

	out, err := execute(t, NewHistoryCommand(opts), "--group")
	require.NoError(t, err)
	assert.Contains(t, out, "1234567 = 1,234,567\n")
	assert.Contains(t, out, "/8 = 154,320.875\n")
	// Non-numeric results are left alone.
	assert.Contains(t, out, "@big = 1e21 = Variable 'big' set to 1e+21\n")
}

func TestHistory_GroupInvalidLanguage(t *testing.T) {
	opts := testOptions(t)

	_, err := execute(t, NewHistoryCommand(opts), "--group", "--lang", "!!")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid language")
}

func TestHistory_ClearKeepsVariables(t *testing.T) {
	opts := testOptions(t)
	seedHistory(t, opts, []string{"@x = 3"})

	out, err := execute(t, NewHistoryCommand(opts), "--clear")
	require.NoError(t, err)
	assert.Equal(t, "History cleared.\n", out)

	out, err = execute(t, NewHistoryCommand(opts))
	require.NoError(t, err)
	assert.Equal(t, "No history.\n", out)

	out, err = execute(t, NewVarsCommand(opts), "get", "x")
	require.NoError(t, err)
	assert.Equal(t, "x = 3\n", out)
}

func TestGroupDigits(t *testing.T) {
	p := message.NewPrinter(language.English)

	tests := []struct {
		in   string
		want string
	}{
		{"1234567", "1,234,567"},
		{"-1234", "-1,234"},
		{"999", "999"},
		{"1234.5", "1,234.5"},
		{"0.125", "0.125"},
		{"Infinity", "Infinity"},
		{"1e+21", "1e+21"},
		{"5 Meters", "5 Meters"},
		{"Error: Invalid input type", "Error: Invalid input type"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, groupDigits(p, tt.in))
		})
	}
}
