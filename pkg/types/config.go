package types

import (
	"errors"
	"log/slog"
)

// Default limits, the bounds historically used by the ngi file format. Zero
// in a Limits field means "no bound".
const (
	DefaultMaxSections   = 8192
	DefaultMaxProperties = 8192
	DefaultMaxNameLength = 4096
	DefaultMaxLineLength = 8192
)

// Limits bounds the tree store and the line scanner.
type Limits struct {
	MaxSections   int `json:"max_sections" yaml:"max_sections"`     // sections per header
	MaxProperties int `json:"max_properties" yaml:"max_properties"` // properties per section
	MaxNameLength int `json:"max_name_length" yaml:"max_name_length"`
	MaxLineLength int `json:"max_line_length" yaml:"max_line_length"` // bytes per line, terminator included
}

// DefaultLimits returns the limits used when a Config leaves them unset.
func DefaultLimits() Limits {
	return Limits{
		MaxSections:   DefaultMaxSections,
		MaxProperties: DefaultMaxProperties,
		MaxNameLength: DefaultMaxNameLength,
		MaxLineLength: DefaultMaxLineLength,
	}
}

// Config holds the parameters for opening an ngi file.
type Config struct {
	Path   string `json:"path" yaml:"path"`
	Limits Limits `json:"limits" yaml:"limits"`

	// Logger receives debug and info records from the engine. A nil Logger
	// discards everything.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// Config validation errors.
var (
	ErrPathEmpty     = errors.New("path must not be empty")
	ErrLimitInvalid  = errors.New("limits must not be negative")
	ErrLineTooNarrow = errors.New("max line length must exceed max name length")
)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure. Path is only required by Open; OpenStream
// callers may leave it empty and call Limits.Validate directly.
func (c Config) Validate() error {
	if c.Path == "" {
		return ErrPathEmpty
	}
	return c.Limits.Validate()
}

// Validate checks that no limit is negative and that a line can hold a
// maximal name.
func (l Limits) Validate() error {
	if l.MaxSections < 0 || l.MaxProperties < 0 || l.MaxNameLength < 0 || l.MaxLineLength < 0 {
		return ErrLimitInvalid
	}
	if l.MaxLineLength > 0 && l.MaxNameLength > 0 && l.MaxLineLength <= l.MaxNameLength {
		return ErrLineTooNarrow
	}
	return nil
}
