package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/cloudycalc/internal/calc"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The calculation or one of the script inputs produced an error
	ExitCommandError = 2 // Command error (bad flags, database not found, unreadable script, etc.)
)

// ExitError represents an error with a specific exit code.
// An empty Message means the failure was already reported on stdout.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// errReported signals a failed calculation whose error text is already on
// stdout.
var errReported = NewExitError(ExitFailure, "")

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string    `json:"status"`               // "ok" or "error"
	Data      any       `json:"data,omitempty"`       // success payload
	Error     *CLIError `json:"error,omitempty"`      // error details
	RequestID string    `json:"request_id,omitempty"` // session request id (repl only)
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // calc.ErrorCode or a CLI code such as "UNITS"
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// textRenderer is implemented by payloads that need more than one line of
// text output.
type textRenderer interface {
	RenderText(w io.Writer) error
}

// ResultView is the JSON shape of one calculator result.
type ResultView struct {
	Input      string `json:"input"`
	Kind       string `json:"kind"`
	Expression string `json:"expression,omitempty"`
	Result     string `json:"result,omitempty"`
	Token      string `json:"token,omitempty"`
}

// newResultView converts a calc.Result for output.
func newResultView(res calc.Result) ResultView {
	v := ResultView{
		Input:      res.Input,
		Kind:       res.Kind.String(),
		Expression: res.Expression,
	}
	var ce *calc.Error
	if errors.As(res.Err, &ce) {
		v.Token = ce.Token
	} else {
		v.Result = res.Text
	}
	return v
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	if r, ok := data.(textRenderer); ok {
		return r.RenderText(f.Writer)
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Result outputs one calculator result. Text mode prints exactly what the
// user would see; JSON mode wraps it in a CLIResponse tagged with
// requestID.
func (f *OutputFormatter) Result(res calc.Result, requestID string) error {
	if f.Format != "json" {
		if res.Text == "" {
			return nil
		}
		_, err := fmt.Fprintln(f.Writer, res.Text)
		return err
	}

	resp := CLIResponse{Status: "ok", Data: newResultView(res), RequestID: requestID}
	var ce *calc.Error
	if errors.As(res.Err, &ce) {
		resp.Status = "error"
		resp.Data = nil
		resp.Error = &CLIError{
			Code:    string(ce.Code),
			Message: ce.Message,
			Details: newResultView(res),
		}
	}
	return json.NewEncoder(f.Writer).Encode(resp)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
