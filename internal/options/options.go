// Package options stores display preferences (theme and font size).
package options

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/cloudycalc/internal/state"
)

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Defaults.
const (
	DefaultTheme    = ThemeLight
	DefaultFontSize = "16px"
)

var (
	// ErrInvalidTheme is returned for a theme other than light or dark.
	ErrInvalidTheme = errors.New("theme must be light or dark")

	// ErrInvalidFontSize is returned for a font size that is not a
	// positive CSS length.
	ErrInvalidFontSize = errors.New("font size must be a positive length such as 16px")
)

var fontSize = regexp.MustCompile(`^(\d+(?:\.\d+)?)(px|pt|em|rem|%)$`)

// Options are the user's display preferences.
type Options struct {
	Theme    Theme  `json:"theme"`
	FontSize string `json:"fontSize"`
}

// Defaults returns the options used when nothing is stored.
func Defaults() Options {
	return Options{Theme: DefaultTheme, FontSize: DefaultFontSize}
}

// Validate checks both fields.
func (o Options) Validate() error {
	if o.Theme != ThemeLight && o.Theme != ThemeDark {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, o.Theme)
	}
	m := fontSize.FindStringSubmatch(o.FontSize)
	if m == nil {
		return fmt.Errorf("%w: %q", ErrInvalidFontSize, o.FontSize)
	}
	if n, err := strconv.ParseFloat(m[1], 64); err != nil || n <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidFontSize, o.FontSize)
	}
	return nil
}

// Store reads and writes Options through a state.Backend.
type Store struct {
	backend state.Backend
}

// New creates a Store.
func New(backend state.Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the stored options. Missing or empty values fall back to
// the defaults.
func (s *Store) Load(ctx context.Context) (Options, error) {
	docs, err := s.backend.LoadState(ctx, state.KeyTheme, state.KeyFontSize)
	if err != nil {
		return Options{}, fmt.Errorf("load options: %w", err)
	}

	o := Defaults()
	theme, err := decodeString(docs, state.KeyTheme)
	if err != nil {
		return Options{}, fmt.Errorf("load options: %w", err)
	}
	if theme != "" {
		o.Theme = Theme(theme)
	}
	size, err := decodeString(docs, state.KeyFontSize)
	if err != nil {
		return Options{}, fmt.Errorf("load options: %w", err)
	}
	if size != "" {
		o.FontSize = size
	}
	return o, nil
}

// Save validates o and writes both keys in one save. A blank font size is
// replaced by the default.
func (s *Store) Save(ctx context.Context, o Options) error {
	o.FontSize = strings.TrimSpace(o.FontSize)
	if o.FontSize == "" {
		o.FontSize = DefaultFontSize
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("save options: %w", err)
	}

	theme, err := json.Marshal(string(o.Theme))
	if err != nil {
		return fmt.Errorf("save options: %w", err)
	}
	size, err := json.Marshal(o.FontSize)
	if err != nil {
		return fmt.Errorf("save options: %w", err)
	}
	if err := s.backend.SaveState(ctx, map[string][]byte{
		state.KeyTheme:    theme,
		state.KeyFontSize: size,
	}); err != nil {
		return fmt.Errorf("save options: %w", err)
	}
	return nil
}

func decodeString(docs map[string][]byte, key string) (string, error) {
	doc, ok := docs[key]
	if !ok || len(doc) == 0 {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(doc, &s); err != nil {
		return "", fmt.Errorf("decode %s: %w", key, err)
	}
	return s, nil
}
