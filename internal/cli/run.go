package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/script"
	"github.com/roach88/cloudycalc/internal/session"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Reset bool

	// IDGenerator allows overriding the session id generator (for testing).
	// If nil, defaults to session.UUIDv7Generator.
	IDGenerator session.IDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a batch script",
		Long: `Feed every input of a YAML script to one calculator session and
print the transcript.

Scripts may list the expected output of each input and the expected final
variables; any mismatch makes the command fail.

Exit codes:
  0 - Script ran and every expectation held
  1 - One or more expectations failed
  2 - Command error (script not found, unknown fields, etc.)

Example:
  calc run ./scripts/shopping.yaml
  calc run --session tmp --reset ./scripts/shopping.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "clear history and variables before running")

	return cmd
}

func runScript(opts *RunOptions, path string, cmd *cobra.Command) error {
	s, err := script.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load script", err)
	}
	out := opts.formatter(cmd)
	out.VerboseLog("loaded script %s: %d inputs", s.Name, len(s.Inputs))

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

	if opts.Reset {
		if err := a.calc.Reset(ctx); err != nil {
			return WrapExitError(ExitCommandError, "failed to reset session", err)
		}
	}

	sessOpts := []session.Option{session.WithLogger(slog.Default().With("session", opts.Session))}
	if opts.IDGenerator != nil {
		sessOpts = append(sessOpts, session.WithIDGenerator(opts.IDGenerator))
	}
	sess := session.Start(ctx, a.calc, sessOpts...)
	defer func() {
		sess.Close()
		sess.Wait()
	}()

	slog.Info("running script", "name", s.Name, "inputs", len(s.Inputs))
	transcript, err := script.Run(ctx, sess, a.calc, s)
	if err != nil {
		return WrapExitError(ExitFailure, "script interrupted", err)
	}

	if err := out.Success(transcript); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	if !transcript.Pass {
		return errReported
	}
	return nil
}
