package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/testutil"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// testOptions returns root options over a fresh database with a
// deterministic history clock.
func testOptions(t *testing.T) *RootOptions {
	t.Helper()
	clock := testutil.NewDeterministicClock(epoch, time.Second)
	return &RootOptions{
		Format:  "text",
		DB:      filepath.Join(t.TempDir(), "calc.db"),
		Session: "test",
		Now:     clock.Now,
	}
}

// execute runs cmd with args and returns what it wrote to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, cmd, "", args...)
}

func executeWithInput(t *testing.T, cmd *cobra.Command, input string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(input))
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// evalLine runs one eval command and returns its output.
func evalLine(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	return execute(t, NewEvalCommand(opts), args...)
}

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}
