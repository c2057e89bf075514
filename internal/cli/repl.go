package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/roach88/cloudycalc/internal/script"
	"github.com/roach88/cloudycalc/internal/session"
)

// REPLOptions holds flags for the repl command.
type REPLOptions struct {
	*RootOptions
	Prompt string

	// IDGenerator allows overriding the session id generator (for testing).
	// If nil, defaults to session.UUIDv7Generator.
	IDGenerator session.IDGenerator
}

// NewREPLCommand creates the repl command.
func NewREPLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &REPLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive calculator session",
		Long: `Read lines from stdin and evaluate each one in order.

"clear" wipes history and variables, "exit" or "quit" ends the session.
The prompt is shown only when stdin is a terminal, so the command also
works on piped input.

Example:
  calc repl
  printf '10 + 5\n*2\n' | calc repl --session scratch`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Prompt, "prompt", "> ", "prompt shown on interactive terminals")

	return cmd
}

func runREPL(opts *REPLOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	sessOpts := []session.Option{session.WithLogger(slog.Default().With("session", opts.Session))}
	if opts.IDGenerator != nil {
		sessOpts = append(sessOpts, session.WithIDGenerator(opts.IDGenerator))
	}
	sess := session.Start(ctx, a.calc, sessOpts...)
	defer func() {
		sess.Close()
		sess.Wait()
	}()

	in := cmd.InOrStdin()
	prompt := ""
	if isTerminal(in) {
		prompt = opts.Prompt
	}

	return readEvalLoop(ctx, sess, in, prompt, opts.formatter(cmd))
}

// readEvalLoop feeds each non-blank line of in to sess until EOF, "exit"
// or cancellation.
func readEvalLoop(ctx context.Context, sess *session.Session, in io.Reader, prompt string, out *OutputFormatter) error {
	scanner := bufio.NewScanner(in)
	for {
		if prompt != "" {
			fmt.Fprint(out.Writer, prompt)
		}
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		resp, err := sess.Do(ctx, line)
		if errors.Is(err, context.Canceled) || errors.Is(err, session.ErrClosed) {
			return nil
		}
		if err != nil {
			// Reset after "clear" failed; the session is still usable.
			slog.Error("clear failed", "request_id", resp.RequestID, "error", err)
			fmt.Fprintln(out.Writer, script.ClearFailedMessage)
			continue
		}

		res := resp.Result
		if resp.Cleared {
			res.Text = script.ClearedMessage
		}
		if err := out.Result(res, resp.RequestID); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
