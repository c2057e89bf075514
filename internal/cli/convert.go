package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cloudycalc/internal/scalar"
	"github.com/roach88/cloudycalc/internal/units"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	List bool
}

// ConversionView is the result of one conversion.
type ConversionView struct {
	Value  float64 `json:"value"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Result float64 `json:"result"`
}

func (v ConversionView) String() string {
	return fmt.Sprintf("%s %s = %s %s", scalar.FormatNumber(v.Value), v.From, scalar.FormatNumber(v.Result), v.To)
}

// CategoryView describes one unit category.
type CategoryView struct {
	Name  string   `json:"name"`
	Base  string   `json:"base"`
	Units []string `json:"units"`
}

// CategoriesView is the listing returned by "convert --list".
type CategoriesView struct {
	Categories []CategoryView `json:"categories"`
}

// RenderText writes one line per category.
func (v CategoriesView) RenderText(w io.Writer) error {
	for _, c := range v.Categories {
		if _, err := fmt.Fprintf(w, "%s (base %s): %s\n", c.Name, c.Base, strings.Join(c.Units, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <value> <from> <to>",
		Short: "Convert a value between units",
		Long: `Convert a value between two units of the same category.

Unit names are case-insensitive and results are rounded to 6 decimal
places. The built-in table covers length and mass; --units (or CALC_UNITS)
loads a CUE table instead.

Examples:
  calc convert 1 kg lb
  calc convert 5280 ft mi
  calc convert --list`,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.List {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(3)(cmd, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.List, "list", false, "list unit categories")
	cmd.Flags().StringVar(&opts.Units, "units", "", "path to a CUE unit table (default $CALC_UNITS or built-in)")

	return cmd
}

func runConvert(opts *ConvertOptions, args []string, cmd *cobra.Command) error {
	if err := opts.resolve(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	table, err := loadUnits(opts.Units)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load unit table", err)
	}

	out := opts.formatter(cmd)
	if opts.Units != "" {
		out.VerboseLog("using unit table %s", opts.Units)
	}
	if opts.List {
		view := CategoriesView{}
		for _, c := range table.Categories() {
			view.Categories = append(view.Categories, CategoryView{Name: c.Name, Base: c.Base, Units: c.Units()})
		}
		return out.Success(view)
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return reportUnitsError(out, &units.Error{Kind: units.ErrInvalidValue, Message: "Invalid value for conversion."})
	}

	result, err := table.Convert(value, args[1], args[2])
	if err != nil {
		return reportUnitsError(out, err)
	}
	return out.Success(ConversionView{Value: value, From: args[1], To: args[2], Result: result})
}

func loadUnits(path string) (*units.Table, error) {
	if path == "" {
		return units.Default()
	}
	return units.LoadFile(path)
}

// reportUnitsError prints a conversion failure the way the calculator
// prints its errors.
func reportUnitsError(out *OutputFormatter, err error) error {
	var ue *units.Error
	if !errors.As(err, &ue) {
		return WrapExitError(ExitFailure, "conversion failed", err)
	}

	if out.Format == "json" {
		if err := out.Error("UNITS", ue.Message, nil); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out.Writer, ue.Error())
	}
	return errReported
}
