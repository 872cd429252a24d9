package ngi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// Parse reads the whole file and appends every section and property it
// finds to the tree. It never updates or removes existing nodes; it is the
// first load of a fresh Header, and Open calls it. Use Recache to pick up
// later changes to the file.
//
// An allocation failure frees the section being built and aborts the parse
// with ErrAllocation.
func (h *Header) Parse() error {
	if err := h.check(); err != nil {
		return err
	}
	off, err := h.FindNextSection(0)
	for err == nil {
		var next int64
		if next, err = h.parseSection(off); err != nil {
			return err
		}
		off, err = h.FindNextSection(next)
	}
	if !errors.Is(err, types.ErrNotFound) {
		return err
	}

	h.log.Debug("file parsed", "sections", len(h.sections))
	if h.log.Enabled(context.Background(), slog.LevelDebug) {
		var b strings.Builder
		_ = h.WriteMap(&b)
		h.log.Debug("tree map", "map", b.String())
	}
	return nil
}

// parseSection materializes the section whose header line starts at off,
// together with its properties. It returns the offset just past the header
// line, where the search for the next section resumes.
func (h *Header) parseSection(off int64) (int64, error) {
	line, next, err := h.readLine(off)
	if err != nil {
		return 0, err
	}
	name, _ := StripSectionName(line)
	s, err := h.allocSection(name)
	if err != nil {
		return 0, fmt.Errorf("section %q: %w", name, err)
	}
	if err := h.parseProperties(s, off); err != nil {
		h.freeSection(s)
		return 0, fmt.Errorf("section %q: %w", name, err)
	}
	h.log.Debug("section parsed", "section", name, "offset", off, "properties", s.Len())
	return next, nil
}

// parseProperties appends to s every property line of the section whose
// header starts at off.
func (h *Header) parseProperties(s *Section, off int64) error {
	name := s.Name()
	poff, err := h.FindNextProperty(name, off)
	for err == nil {
		var line string
		if line, _, err = h.readLine(poff); err != nil {
			return err
		}
		if err = h.parseProperty(s, line); err != nil {
			return err
		}
		poff, err = h.FindNextProperty(name, poff)
	}
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	return err
}

// parseProperty appends the property held by line to s.
func (h *Header) parseProperty(s *Section, line string) error {
	name, value, _ := splitProperty(line)
	p, err := h.allocProperty(s, len(name), len(value))
	if err != nil {
		return fmt.Errorf("property %q: %w", name, err)
	}
	p.name = append(p.name, name...)
	p.value = append(p.value, value...)
	return nil
}
