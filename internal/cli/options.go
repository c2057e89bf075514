package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/calc"
	"github.com/roach88/cloudycalc/internal/options"
)

// OptionsOptions holds flags for the options command.
type OptionsOptions struct {
	*RootOptions
	Theme    string
	FontSize string
}

// OptionsView is the preferences shown by the options command.
type OptionsView struct {
	Theme    options.Theme `json:"theme"`
	FontSize string        `json:"fontSize"`
}

// RenderText writes one "key: value" line per preference.
func (v OptionsView) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "theme: %s\nfont-size: %s\n", v.Theme, v.FontSize)
	return err
}

// NewOptionsCommand creates the options command.
func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show or update display preferences",
		Long: `Show the session's display preferences, or update them when
--theme or --font-size is given.

Examples:
  calc options
  calc options --theme dark --font-size 18px`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptions(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Theme, "theme", "", "color theme (light|dark)")
	cmd.Flags().StringVar(&opts.FontSize, "font-size", "", "font size such as 16px or 1.2em")

	return cmd
}

func runOptions(opts *OptionsOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	out := opts.formatter(cmd)
	st := options.New(a.backend)

	current, err := st.Load(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load options", err)
	}

	changed := false
	if cmd.Flags().Changed("theme") {
		current.Theme = options.Theme(opts.Theme)
		changed = true
	}
	if cmd.Flags().Changed("font-size") {
		current.FontSize = opts.FontSize
		changed = true
	}

	if changed {
		if err := st.Save(ctx, current); err != nil {
			if errors.Is(err, options.ErrInvalidTheme) || errors.Is(err, options.ErrInvalidFontSize) {
				if err := out.Error(string(calc.ErrCodeValidation), errors.Unwrap(err).Error(), nil); err != nil {
					return err
				}
				return errReported
			}
			return WrapExitError(ExitFailure, "failed to save options", err)
		}
		// Reload so a defaulted font size is shown as stored.
		if current, err = st.Load(ctx); err != nil {
			return WrapExitError(ExitFailure, "failed to load options", err)
		}
	}

	return out.Success(OptionsView{Theme: current.Theme, FontSize: current.FontSize})
}
