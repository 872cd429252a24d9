package ngi

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// CreateSection appends a section named name to the end of the file and of
// the tree. On failure the tree is left as it was.
func (h *Header) CreateSection(name string) (*Section, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	if err := h.checkSectionLine(name); err != nil {
		return nil, err
	}
	if err := h.canAllocSection(len(name)); err != nil {
		return nil, err
	}

	end, err := h.stream.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek end of %s: %w", h.path, err)
	}
	lw := &lineWriter{w: h.stream, off: end}
	if err := h.terminate(lw); err != nil {
		return nil, err
	}
	if err := lw.section(name); err != nil {
		return nil, fmt.Errorf("write section %q: %w", name, err)
	}
	if err := h.sync(); err != nil {
		return nil, err
	}

	s, err := h.allocSection(name)
	if err != nil {
		return nil, err
	}
	h.log.Debug("section created", "section", name, "offset", end)
	return s, nil
}

// CreateProperty writes a property line after the last property of s in
// the file, moving the rest of the file down, and appends the property to
// s. On failure the tree is left as it was.
func (h *Header) CreateProperty(s *Section, name, value string) (*Property, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	if !h.owns(s) {
		return nil, types.ErrDetached
	}
	if err := h.checkPropertyLine(name, value); err != nil {
		return nil, err
	}
	if err := h.canAllocProperty(s, len(name), len(value)); err != nil {
		return nil, err
	}

	off, err := h.sectionAt(h.SectionIndex(s))
	if err != nil {
		return nil, fmt.Errorf("locate section %q: %w", s.name, err)
	}
	at, err := h.sectionEnd(off)
	if err != nil {
		return nil, fmt.Errorf("locate end of section %q: %w", s.name, err)
	}
	if err := h.insertProperty(at, name, value); err != nil {
		return nil, err
	}

	p, err := h.allocProperty(s, len(name), len(value))
	if err != nil {
		return nil, err
	}
	p.name = append(p.name, name...)
	p.value = append(p.value, value...)
	h.log.Debug("property created", "section", s.Name(), "property", name, "offset", at)
	return p, nil
}

// insertProperty writes a property line at offset at and shifts the bytes
// that followed it.
func (h *Header) insertProperty(at int64, name, value string) error {
	if _, err := h.stream.Seek(at, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", at, err)
	}
	rest, err := io.ReadAll(h.stream)
	if err != nil {
		return fmt.Errorf("read tail at %d: %w", at, err)
	}
	if _, err := h.stream.Seek(at, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", at, err)
	}
	lw := &lineWriter{w: h.stream, off: at}
	if err := h.terminate(lw); err != nil {
		return err
	}
	if err := lw.property(name, value); err != nil {
		return fmt.Errorf("write property %q: %w", name, err)
	}
	if err := lw.write(string(rest)); err != nil {
		return fmt.Errorf("write tail: %w", err)
	}
	return h.sync()
}

// terminate ends an unterminated last line before lw writes at its offset,
// and leaves the stream positioned at that offset.
func (h *Header) terminate(lw *lineWriter) error {
	ok, err := h.lineEndsAt(lw.off)
	if err != nil {
		return err
	}
	if _, err := h.stream.Seek(lw.off, io.SeekStart); err != nil {
		return fmt.Errorf("seek to %d: %w", lw.off, err)
	}
	if ok {
		return nil
	}
	return lw.write("\n")
}

// DeleteSection frees s with its properties and rewrites the whole file.
func (h *Header) DeleteSection(s *Section) error {
	if err := h.check(); err != nil {
		return err
	}
	if !h.owns(s) {
		return types.ErrDetached
	}
	h.freeSection(s)
	return h.rewrite()
}

// DeleteProperty frees p and rewrites the whole file.
func (h *Header) DeleteProperty(p *Property) error {
	if err := h.check(); err != nil {
		return err
	}
	if p == nil || !h.owns(p.section) {
		return types.ErrDetached
	}
	h.freeProperty(p.section, p)
	return h.rewrite()
}
