package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/state"
)

// SessionsView is the listing returned by the sessions command.
type SessionsView struct {
	Sessions []state.SessionInfo `json:"sessions"`
}

// RenderText writes one line per session.
func (v SessionsView) RenderText(w io.Writer) error {
	if len(v.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions.")
		return err
	}
	for _, s := range v.Sessions {
		if _, err := fmt.Fprintf(w, "%s  created %s  %d keys\n", s.Name, s.CreatedAt.UTC().Format(time.RFC3339), s.Keys); err != nil {
			return err
		}
	}
	return nil
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List the sessions stored in the database",
		Long: `List every session namespace that has saved state, with its
creation time and the number of stored keys.

Example:
  calc sessions --db ./calc.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessions(rootOpts, cmd)
		},
	}

	return cmd
}

func runSessions(opts *RootOptions, cmd *cobra.Command) error {
	st, err := openStore(opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error closing database: %v\n", closeErr)
		}
	}()

	sessions, err := st.Sessions(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list sessions", err)
	}
	if sessions == nil {
		sessions = []state.SessionInfo{}
	}
	return opts.formatter(cmd).Success(SessionsView{Sessions: sessions})
}
