package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cloudycalc/internal/state"
)

func TestSessions_Empty(t *testing.T) {
	out, err := execute(t, NewSessionsCommand(testOptions(t)))
	require.NoError(t, err)
	assert.Equal(t, "No sessions.\n", out)
}

func TestSessions_List(t *testing.T) {
	opts := testOptions(t)
	_, err := evalLine(t, opts, "1 + 1")
	require.NoError(t, err)

	work := *opts
	work.Session = "work"
	_, err = execute(t, NewVarsCommand(&work), "set", "rate", "0.2")
	require.NoError(t, err)

	opts.Format = "json"
	out, err := execute(t, NewSessionsCommand(opts))
	require.NoError(t, err)

	var resp struct {
		Data struct {
			Sessions []state.SessionInfo `json:"sessions"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Sessions, 2)

	// "test" holds history and variables; "work" only variables.
	assert.Equal(t, "test", resp.Data.Sessions[0].Name)
	assert.Equal(t, 2, resp.Data.Sessions[0].Keys)
	assert.Equal(t, "work", resp.Data.Sessions[1].Name)
	assert.Equal(t, 1, resp.Data.Sessions[1].Keys)
	assert.False(t, resp.Data.Sessions[0].CreatedAt.IsZero())

	opts.Format = "text"
	out, err = execute(t, NewSessionsCommand(opts))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "test  created "), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "  1 keys"), lines[1])
}
