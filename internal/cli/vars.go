package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/calc"
	"github.com/roach88/cloudycalc/internal/scalar"
	"github.com/roach88/cloudycalc/internal/vars"
)

// VarsOptions holds flags for the vars commands.
type VarsOptions struct {
	*RootOptions
}

// VariableView is one variable in command output.
type VariableView struct {
	Name  string       `json:"name"`
	Value scalar.Value `json:"value"`
}

func (v VariableView) String() string {
	return fmt.Sprintf("%s = %s", v.Name, v.Value)
}

// VariablesView is the listing returned by "vars list".
type VariablesView struct {
	Variables scalar.Map `json:"variables"`
}

// RenderText writes one "name = value" line per variable, sorted by name.
func (v VariablesView) RenderText(w io.Writer) error {
	if len(v.Variables) == 0 {
		_, err := fmt.Fprintln(w, "No variables.")
		return err
	}
	for _, name := range v.Variables.SortedNames() {
		if _, err := fmt.Fprintln(w, VariableView{Name: name, Value: v.Variables[name]}); err != nil {
			return err
		}
	}
	return nil
}

// NewVarsCommand creates the vars command group.
func NewVarsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VarsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "vars",
		Short: "Manage stored variables",
		Long: `List, read, write and delete the session's variables.

Values are stored canonically: "42" is stored as the number 42, while
"5 Meters" stays text. The answer register is the variable "ans".`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List all variables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVarsList(opts, cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "get <name>",
		Short:         "Print one variable",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVarsGet(opts, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "set <name> <value>",
		Short:         "Store a value without evaluating it",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVarsSet(opts, args[0], args[1], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete one variable",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVarsDelete(opts, args[0], cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Delete every variable (history is kept)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVarsClear(opts, cmd)
		},
	})

	return cmd
}

func runVarsList(opts *VarsOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.calc.AllVariables(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read variables", err)
	}
	return opts.formatter(cmd).Success(VariablesView{Variables: all})
}

func runVarsGet(opts *VarsOptions, name string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	out := opts.formatter(cmd)
	v, ok, err := a.calc.GetVariable(commandContext(cmd), name)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read variables", err)
	}
	if !ok {
		if err := out.Error("NOT_FOUND", fmt.Sprintf("Variable '%s' is not set.", name), nil); err != nil {
			return err
		}
		return errReported
	}
	return out.Success(VariableView{Name: name, Value: v})
}

func runVarsSet(opts *VarsOptions, name, value string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	out := opts.formatter(cmd)
	if err := a.calc.SetVariable(ctx, name, value); err != nil {
		if errors.Is(err, vars.ErrInvalidName) {
			if err := out.Error(string(calc.ErrCodeValidation), fmt.Sprintf("Invalid variable name '%s'.", name), nil); err != nil {
				return err
			}
			return errReported
		}
		return WrapExitError(ExitFailure, "failed to store variable", err)
	}

	v, _, err := a.calc.GetVariable(ctx, name)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read variables", err)
	}
	return out.Success(VariableView{Name: name, Value: v})
}

func runVarsDelete(opts *VarsOptions, name string, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.calc.DeleteVariable(commandContext(cmd), name); err != nil {
		return WrapExitError(ExitFailure, "failed to delete variable", err)
	}
	return opts.formatter(cmd).Success(fmt.Sprintf("Variable '%s' deleted.", name))
}

func runVarsClear(opts *VarsOptions, cmd *cobra.Command) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.calc.ClearAllVariables(commandContext(cmd)); err != nil {
		return WrapExitError(ExitFailure, "failed to clear variables", err)
	}
	return opts.formatter(cmd).Success("Variables cleared.")
}
