package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cloudycalc/internal/session"
)

func TestREPL_Transcript(t *testing.T) {
	opts := testOptions(t)
	input := strings.Join([]string{
		"10 + 5",
		"*2",
		"",
		"@x = ans",
		"x / 3",
		"clear",
		"exit",
		"1 + 1",
	}, "\n") + "\n"

	out, err := executeWithInput(t, NewREPLCommand(opts), input)
	require.NoError(t, err)
	// Piped input: no prompt is printed.
	newGolden(t).Assert(t, "repl_transcript", []byte(out))

	// Nothing after "exit" ran, and "clear" emptied the session.
	hist, err := execute(t, NewHistoryCommand(opts))
	require.NoError(t, err)
	assert.Equal(t, "No history.\n", hist)
}

func TestREPL_StatePersistsBetweenRuns(t *testing.T) {
	opts := testOptions(t)

	_, err := executeWithInput(t, NewREPLCommand(opts), "@base = 40\n")
	require.NoError(t, err)

	out, err := executeWithInput(t, NewREPLCommand(opts), "base + 2\n/6\n")
	require.NoError(t, err)
	assert.Equal(t, "42\n7\n", out)
}

func TestREPL_ReportsErrorsAndContinues(t *testing.T) {
	opts := testOptions(t)

	out, err := executeWithInput(t, NewREPLCommand(opts), "foo\n2 * 3\nfactorial(2.5)\n")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Error: "), lines[0])
	assert.Equal(t, "6", lines[1])
	assert.Equal(t, "Error: Factorial requires a non-negative integer", lines[2])
}

func TestREPL_JSONCarriesRequestIDs(t *testing.T) {
	root := testOptions(t)
	root.Format = "json"

	opts := &REPLOptions{
		RootOptions: root,
		Prompt:      "> ",
		IDGenerator: session.NewFixedGenerator("sess", "req-1", "req-2"),
	}
	a, err := openApp(opts.RootOptions)
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sess := session.Start(ctx, a.calc, session.WithIDGenerator(opts.IDGenerator))

	buf := &strings.Builder{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}
	require.NoError(t, readEvalLoop(ctx, sess, strings.NewReader("7 * 6\n+1\n"), "", formatter))
	sess.Close()
	sess.Wait()

	scanner := bufio.NewScanner(strings.NewReader(buf.String()))
	var ids, results []string
	for scanner.Scan() {
		var resp struct {
			Status    string     `json:"status"`
			Data      ResultView `json:"data"`
			RequestID string     `json:"request_id"`
		}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		ids = append(ids, resp.RequestID)
		results = append(results, resp.Data.Result)
	}
	assert.Equal(t, []string{"req-1", "req-2"}, ids)
	assert.Equal(t, []string{"42", "43"}, results)
}

func TestREPL_PromptOnlyWhenGiven(t *testing.T) {
	opts := testOptions(t)
	a, err := openApp(opts)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	sess := session.Start(ctx, a.calc)
	defer func() {
		sess.Close()
		sess.Wait()
	}()

	buf := &strings.Builder{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, readEvalLoop(ctx, sess, strings.NewReader("1 + 1\n"), "calc> ", formatter))
	assert.Equal(t, "calc> 2\ncalc> ", buf.String())
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, isTerminal(strings.NewReader("1+1")))
}
