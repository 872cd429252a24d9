package ngi

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// ReplaceOption selects a property field for ReplaceProperty. Fields without
// an option keep their current text.
type ReplaceOption func(*replacement)

type replacement struct {
	name, value       string
	setName, setValue bool
}

// WithName replaces the property name.
func WithName(name string) ReplaceOption {
	return func(r *replacement) { r.name, r.setName = name, true }
}

// WithValue replaces the property value.
func WithValue(value string) ReplaceOption {
	return func(r *replacement) { r.value, r.setValue = value, true }
}

// ReplaceSection renames s and rewrites the whole file from the tree.
func (h *Header) ReplaceSection(s *Section, name string) error {
	if err := h.check(); err != nil {
		return err
	}
	if !h.owns(s) {
		return types.ErrDetached
	}
	if err := h.checkSectionLine(name); err != nil {
		return err
	}
	if err := h.setSectionName(s, name); err != nil {
		return err
	}
	return h.rewrite()
}

// ReplaceProperty applies opts to p and rewrites the whole file from the
// tree. With no options the file is still rewritten.
func (h *Header) ReplaceProperty(p *Property, opts ...ReplaceOption) error {
	if err := h.check(); err != nil {
		return err
	}
	if p == nil || !h.owns(p.section) {
		return types.ErrDetached
	}
	var r replacement
	for _, opt := range opts {
		opt(&r)
	}
	name, value := p.Name(), p.Value()
	if r.setName {
		name = r.name
	}
	if r.setValue {
		value = r.value
	}
	if err := h.checkPropertyLine(name, value); err != nil {
		return err
	}
	if r.setName {
		if err := h.setPropertyName(p, r.name); err != nil {
			return err
		}
	}
	if r.setValue {
		if err := h.setPropertyValue(p, r.value); err != nil {
			return err
		}
	}
	return h.rewrite()
}

// Flush rewrites the whole file from the tree, committing changes made with
// the in-memory setters.
func (h *Header) Flush() error {
	if err := h.check(); err != nil {
		return err
	}
	return h.rewrite()
}

// rewrite overwrites the file from offset 0 with the serialized tree and
// cuts off whatever followed the previous contents.
func (h *Header) rewrite() error {
	if _, err := h.stream.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind %s: %w", h.path, err)
	}
	lw := &lineWriter{w: h.stream}
	if err := h.dump(lw); err != nil {
		return err
	}
	if err := h.stream.Truncate(lw.off); err != nil {
		return fmt.Errorf("truncate %s at %d: %w", h.path, lw.off, err)
	}
	h.log.Debug("file rewritten", "bytes", lw.off, "sections", len(h.sections))
	return h.sync()
}
