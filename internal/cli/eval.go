package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/calc"
	"github.com/roach88/cloudycalc/internal/script"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <expression...>",
		Short: "Evaluate one line of input",
		Long: `Evaluate one line of calculator input and print the result.

The arguments are joined with spaces. Besides ordinary expressions the
line may be "clear", "factorial(n)" or an assignment "@name = expr".

Exit codes:
  0 - The line produced a result
  1 - The line produced an error
  2 - Command error (database not found, invalid flags, etc.)

Examples:
  calc eval 10 + 5
  calc eval '*2'
  calc eval '@rate = 0.2'
  calc eval 'factorial(5)' --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(opts, strings.Join(args, " "), cmd)
		},
	}

	return cmd
}

func runEval(opts *EvalOptions, line string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	out := opts.formatter(cmd)

	res := a.calc.Process(ctx, line)
	if res.Kind == calc.KindClear {
		if err := a.calc.Reset(ctx); err != nil {
			return WrapExitError(ExitFailure, "failed to clear calculator", err)
		}
		res.Text = script.ClearedMessage
	}

	if err := out.Result(res, ""); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	if res.Err != nil {
		return errReported
	}
	return nil
}
