package cli

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/cloudycalc/internal/calc"
	"github.com/roach88/cloudycalc/internal/evaluator"
	"github.com/roach88/cloudycalc/internal/history"
	"github.com/roach88/cloudycalc/internal/state"
	"github.com/roach88/cloudycalc/internal/vars"
)

// app is the per-invocation wiring: one database, one session namespace,
// one calculator.
type app struct {
	store   *state.Store
	backend state.Backend
	calc    *calc.Calculator
}

// openApp opens the database named by opts and builds a calculator over
// the configured session.
func openApp(opts *RootOptions) (*app, error) {
	st, err := openStore(opts)
	if err != nil {
		return nil, err
	}

	backend := st.Session(opts.Session)
	logger := slog.Default().With("session", opts.Session)
	c := calc.New(
		vars.New(backend, logger),
		history.New(backend, opts.Now),
		evaluator.New(),
		calc.WithLogger(logger),
	)
	return &app{store: st, backend: backend, calc: c}, nil
}

// openStore opens the database named by opts, creating its directory.
func openStore(opts *RootOptions) (*state.Store, error) {
	if err := opts.resolve(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	if dir := filepath.Dir(opts.DB); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to create database directory", err)
		}
	}

	slog.Debug("opening database", "path", opts.DB, "session", opts.Session)
	st, err := state.Open(opts.DB)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
