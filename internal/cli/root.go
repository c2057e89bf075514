package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	DB      string // SQLite database path; CALC_DB or ~/.cloudycalc/calc.db when empty
	Session string // session namespace; CALC_SESSION or "default" when empty
	Units   string // CUE unit table override; CALC_UNITS when empty

	// Now overrides the history clock (for testing).
	Now func() time.Time

	logLevel slog.Level
	resolved bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the calc CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "calc - a persistent command-line calculator",
		Long: `A calculator that remembers.

Results, variables and history are kept per session in a SQLite database,
so "ans" and @name assignments survive between invocations. Lines that begin
with an operator continue from the previous answer.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := opts.resolve(); err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			setupLogging(cmd.ErrOrStderr(), opts.logLevel)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "", "path to SQLite database (default $CALC_DB or ~/.cloudycalc/calc.db)")
	cmd.PersistentFlags().StringVar(&opts.Session, "session", "", "session namespace (default $CALC_SESSION or \"default\")")

	// Add subcommands
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewREPLCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewVarsCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewOptionsCommand(opts))
	cmd.AddCommand(NewSessionsCommand(opts))

	return cmd
}

// resolve fills unset options from the environment. Flags win.
func (o *RootOptions) resolve() error {
	if o.resolved {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if o.DB == "" {
		o.DB = cfg.DBPath
	}
	if o.Session == "" {
		o.Session = cfg.Session
	}
	if o.Units == "" {
		o.Units = cfg.Units
	}
	o.logLevel = cfg.LogLevel
	if o.Verbose {
		o.logLevel = slog.LevelDebug
	}
	o.resolved = true
	return nil
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// setupLogging installs a text handler on w as the default logger.
func setupLogging(w io.Writer, level slog.Level) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
