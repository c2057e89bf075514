package cli

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/cloudycalc/internal/history"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Clear bool
	Group bool
	Lang  string
	Limit int
}

// HistoryView is the history listing returned by the history command.
type HistoryView struct {
	Entries []history.Entry `json:"entries"`

	printer *message.Printer
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear the calculation history",
		Long: `List the session's calculation history, oldest first.

With --group, numeric results are shown with locale digit grouping
(1234567 becomes 1,234,567 for --lang en). Grouping affects display only.

Examples:
  calc history
  calc history --limit 10 --group
  calc history --clear`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Clear, "clear", false, "clear the history (variables are kept)")
	cmd.Flags().BoolVar(&opts.Group, "group", false, "group digits of numeric results")
	cmd.Flags().StringVar(&opts.Lang, "lang", "en", "BCP 47 language tag used by --group")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show only the most recent N entries (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid limit %d: must be non-negative", opts.Limit))
	}

	view := &HistoryView{}
	if opts.Group {
		tag, err := language.Parse(opts.Lang)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("invalid language %q", opts.Lang), err)
		}
		view.printer = message.NewPrinter(tag)
	}

	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := commandContext(cmd)
	out := opts.formatter(cmd)

	if opts.Clear {
		if err := a.calc.ClearHistory(ctx); err != nil {
			return WrapExitError(ExitFailure, "failed to clear history", err)
		}
		return out.Success("History cleared.")
	}

	entries, err := a.calc.History(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read history", err)
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[len(entries)-opts.Limit:]
	}

	view.Entries = entries
	if view.printer != nil {
		for i := range view.Entries {
			view.Entries[i].Result = groupDigits(view.printer, view.Entries[i].Result)
		}
	}
	return out.Success(view)
}

// RenderText writes one "timestamp  expression = result" line per entry.
func (v *HistoryView) RenderText(w io.Writer) error {
	if len(v.Entries) == 0 {
		_, err := fmt.Fprintln(w, "No history.")
		return err
	}
	for _, e := range v.Entries {
		if _, err := fmt.Fprintf(w, "%s  %s = %s\n", e.Timestamp.UTC().Format(time.RFC3339), e.Expression, e.Result); err != nil {
			return err
		}
	}
	return nil
}

// plainDecimal matches results that are a bare decimal number.
var plainDecimal = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// groupDigits renders a plain decimal result with the printer's digit
// grouping, keeping every fraction digit. Other results are returned as is.
func groupDigits(p *message.Printer, result string) string {
	if !plainDecimal.MatchString(result) {
		return result
	}

	frac := 0
	if i := strings.IndexByte(result, '.'); i >= 0 {
		frac = len(result) - i - 1
	}

	f, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return result
	}
	return p.Sprint(number.Decimal(f, number.MinFractionDigits(frac), number.MaxFractionDigits(frac)))
}
