package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/ngi/pkg/ngi"
	"github.com/mesh-intelligence/ngi/pkg/types"
)

// openFile opens path with the configured limits and logger. The caller
// must Close the header.
func (o *options) openFile(path string) (*ngi.Header, error) {
	h, err := ngi.Open(types.Config{
		Path:   path,
		Limits: limitsFrom(o.cfg),
		Logger: o.log,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("open %s: %w", path, err))
	}
	return h, nil
}

// classify attaches an exit code to err: problems with the arguments or
// the file contents are user errors, everything else is a system error.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidValue),
		errors.Is(err, types.ErrExists),
		errors.Is(err, types.ErrAllocation),
		errors.Is(err, types.ErrLineTooLong),
		errors.Is(err, types.ErrLimitInvalid):
		return userError(err)
	default:
		return sysError(err)
	}
}

// closeFile closes h and logs a failure.
func (o *options) closeFile(h *ngi.Header) {
	if err := h.Close(); err != nil {
		o.log.Error("close failed", "file", h.Path(), "error", err)
	}
}

// findSection returns the first section called name.
func findSection(h *ngi.Header, name string) (*ngi.Section, error) {
	s := h.SectionByName(name)
	if s == nil {
		return nil, userError(fmt.Errorf("section %q: %w", name, types.ErrNotFound))
	}
	return s, nil
}

// findProperty returns the first property called name in the first section
// called section.
func findProperty(h *ngi.Header, section, name string) (*ngi.Property, error) {
	s, err := findSection(h, section)
	if err != nil {
		return nil, err
	}
	p := s.PropertyByName(name)
	if p == nil {
		return nil, userError(fmt.Errorf("property %s/%s: %w", section, name, types.ErrNotFound))
	}
	return p, nil
}

// printJSON writes v to the command output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	return writeJSON(cmd.OutOrStdout(), v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return sysError(fmt.Errorf("encode json: %w", err))
	}
	return nil
}

// recordsOf returns the records of section s.
func recordsOf(h *ngi.Header, s *ngi.Section) []types.Record {
	i := h.SectionIndex(s)
	var out []types.Record
	for _, r := range h.Records() {
		if r.SectionIndex == i {
			out = append(out, r)
		}
	}
	return out
}
