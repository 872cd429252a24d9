package ngi

import (
	"fmt"
	"io"
	"slices"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// Section is a named, ordered group of properties. A Section belongs to one
// Header; it becomes detached when it is freed or its Header is closed.
type Section struct {
	header *Header
	name   []byte
	props  []*Property
}

// Property is a name/value pair. Its reference to the owning Section is a
// relation, not ownership: freeing the section clears it.
type Property struct {
	section *Section
	name    []byte
	value   []byte
}

// Name returns the section name.
func (s *Section) Name() string { return string(s.name) }

// NameCap returns the capacity of the name buffer.
func (s *Section) NameCap() int { return cap(s.name) }

// Len returns the number of properties.
func (s *Section) Len() int { return len(s.props) }

// Detached reports whether s no longer belongs to a Header.
func (s *Section) Detached() bool { return s.header == nil }

// Property returns the property at index i, or nil when i is out of range.
func (s *Section) Property(i int) *Property {
	if i < 0 || i >= len(s.props) {
		return nil
	}
	return s.props[i]
}

// PropertyByName returns the first property named name, or nil.
func (s *Section) PropertyByName(name string) *Property {
	for _, p := range s.props {
		if string(p.name) == name {
			return p
		}
	}
	return nil
}

// PropertyIndex returns the position of p in s, or -1.
func (s *Section) PropertyIndex(p *Property) int {
	return slices.Index(s.props, p)
}

// Properties returns the properties of s in file order. The slice is a copy.
func (s *Section) Properties() []*Property {
	return slices.Clone(s.props)
}

// SetName changes the name in memory only. The file is untouched until the
// next Replace or DumpTree. Names that would not read back unchanged are
// rejected with ErrInvalidName or ErrLineTooLong.
func (s *Section) SetName(name string) error {
	if s.header == nil {
		return types.ErrDetached
	}
	if err := s.header.checkSectionLine(name); err != nil {
		return err
	}
	return s.header.setSectionName(s, name)
}

// Name returns the property name.
func (p *Property) Name() string { return string(p.name) }

// Value returns the property value.
func (p *Property) Value() string { return string(p.value) }

// NameCap returns the capacity of the name buffer.
func (p *Property) NameCap() int { return cap(p.name) }

// ValueCap returns the capacity of the value buffer.
func (p *Property) ValueCap() int { return cap(p.value) }

// Section returns the owning section, or nil once that section was freed.
func (p *Property) Section() *Section { return p.section }

// SetName changes the name in memory only. It applies the same checks as
// SetValue.
func (p *Property) SetName(name string) error {
	if p.section == nil || p.section.header == nil {
		return types.ErrDetached
	}
	if err := p.section.header.checkPropertyLine(name, p.Value()); err != nil {
		return err
	}
	return p.section.header.setPropertyName(p, name)
}

// SetValue changes the value in memory only. A value holding a line break,
// or one that makes the property line longer than MaxLineLength, is
// rejected.
func (p *Property) SetValue(value string) error {
	if p.section == nil || p.section.header == nil {
		return types.ErrDetached
	}
	if err := p.section.header.checkPropertyLine(p.Name(), value); err != nil {
		return err
	}
	return p.section.header.setPropertyValue(p, value)
}

// Len returns the number of sections.
func (h *Header) Len() int { return len(h.sections) }

// Section returns the section at index i, or nil when i is out of range.
func (h *Header) Section(i int) *Section {
	if i < 0 || i >= len(h.sections) {
		return nil
	}
	return h.sections[i]
}

// SectionByName returns the first section named name, or nil.
func (h *Header) SectionByName(name string) *Section {
	for _, s := range h.sections {
		if string(s.name) == name {
			return s
		}
	}
	return nil
}

// SectionIndex returns the position of s in h, or -1.
func (h *Header) SectionIndex(s *Section) int {
	return slices.Index(h.sections, s)
}

// Sections returns the sections in file order. The slice is a copy.
func (h *Header) Sections() []*Section {
	return slices.Clone(h.sections)
}

// allocSection appends a new section named name.
func (h *Header) allocSection(name string) (*Section, error) {
	if err := h.canAllocSection(len(name)); err != nil {
		return nil, err
	}
	s := &Section{header: h, name: append(make([]byte, 0, len(name)), name...)}
	h.sections = append(h.sections, s)
	return s, nil
}

// allocProperty appends a new empty property to s with buffers of the
// given capacities.
func (h *Header) allocProperty(s *Section, nameCap, valueCap int) (*Property, error) {
	if err := h.canAllocProperty(s, nameCap, valueCap); err != nil {
		return nil, err
	}
	p := &Property{
		section: s,
		name:    make([]byte, 0, nameCap),
		value:   make([]byte, 0, valueCap),
	}
	s.props = append(s.props, p)
	return p, nil
}

func (h *Header) canAllocSection(nameLen int) error {
	if m := h.limits.MaxSections; m > 0 && len(h.sections) >= m {
		return fmt.Errorf("%w: section count limit %d reached", types.ErrAllocation, m)
	}
	return checkSize("section name", nameLen, h.limits.MaxNameLength)
}

func (h *Header) canAllocProperty(s *Section, nameCap, valueCap int) error {
	if m := h.limits.MaxProperties; m > 0 && len(s.props) >= m {
		return fmt.Errorf("%w: property count limit %d reached in section %q", types.ErrAllocation, m, s.name)
	}
	if err := checkSize("property name", nameCap, h.limits.MaxNameLength); err != nil {
		return err
	}
	return checkSize("property value", valueCap, h.limits.MaxLineLength)
}

// reallocName grows the name buffer of s to hold at least size bytes.
func (h *Header) reallocName(s *Section, size int) error {
	buf, err := grow(s.name, size, "section name", h.limits.MaxNameLength)
	if err != nil {
		return err
	}
	s.name = buf
	return nil
}

// reallocBuffers grows the buffers of p to hold at least nameSize and
// valueSize bytes. A size of zero leaves the matching buffer alone.
func (h *Header) reallocBuffers(p *Property, nameSize, valueSize int) error {
	name, err := grow(p.name, nameSize, "property name", h.limits.MaxNameLength)
	if err != nil {
		return err
	}
	value, err := grow(p.value, valueSize, "property value", h.limits.MaxLineLength)
	if err != nil {
		return err
	}
	p.name, p.value = name, value
	return nil
}

// setSectionName copies name into the buffer of s, reallocating it first
// when name does not fit.
func (h *Header) setSectionName(s *Section, name string) error {
	if err := checkSize("section name", len(name), h.limits.MaxNameLength); err != nil {
		return err
	}
	if len(name) > cap(s.name) {
		if err := h.reallocName(s, len(name)); err != nil {
			return err
		}
	}
	s.name = append(s.name[:0], name...)
	return nil
}

func (h *Header) setPropertyName(p *Property, name string) error {
	if err := checkSize("property name", len(name), h.limits.MaxNameLength); err != nil {
		return err
	}
	if len(name) > cap(p.name) {
		if err := h.reallocBuffers(p, len(name), 0); err != nil {
			return err
		}
	}
	p.name = append(p.name[:0], name...)
	return nil
}

func (h *Header) setPropertyValue(p *Property, value string) error {
	if err := checkSize("property value", len(value), h.limits.MaxLineLength); err != nil {
		return err
	}
	if len(value) > cap(p.value) {
		if err := h.reallocBuffers(p, 0, len(value)); err != nil {
			return err
		}
	}
	p.value = append(p.value[:0], value...)
	return nil
}

// freeSection removes s from h, keeping the order of the remaining
// sections, and detaches s and its properties.
func (h *Header) freeSection(s *Section) {
	i := h.SectionIndex(s)
	if i < 0 {
		return
	}
	h.sections = slices.Delete(h.sections, i, i+1)
	release(s)
}

// freeProperty removes p from s, keeping the order of the remaining
// properties.
func (h *Header) freeProperty(s *Section, p *Property) {
	i := s.PropertyIndex(p)
	if i < 0 {
		return
	}
	s.props = slices.Delete(s.props, i, i+1)
	p.section, p.name, p.value = nil, nil, nil
}

// truncateProperties frees every property of s from index keep onwards and
// returns how many were freed.
func (h *Header) truncateProperties(s *Section, keep int) int {
	n := 0
	for len(s.props) > keep {
		h.freeProperty(s, s.props[len(s.props)-1])
		n++
	}
	return n
}

// freeAll releases every section.
func (h *Header) freeAll() {
	for _, s := range h.sections {
		release(s)
	}
	h.sections = nil
}

func release(s *Section) {
	for _, p := range s.props {
		p.section, p.name, p.value = nil, nil, nil
	}
	s.header, s.name, s.props = nil, nil, nil
}

// grow returns buf with capacity for at least size bytes. It never shrinks.
func grow(buf []byte, size int, what string, limit int) ([]byte, error) {
	if size <= cap(buf) {
		return buf, nil
	}
	if err := checkSize(what, size, limit); err != nil {
		return nil, err
	}
	nb := make([]byte, len(buf), size)
	copy(nb, buf)
	return nb, nil
}

// checkSectionLine reports whether a section called name can be written
// and parsed back as the same name.
func (h *Header) checkSectionLine(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", types.ErrInvalidName, name)
	}
	return h.fitLine(sectionLineLen(name))
}

// checkPropertyLine reports whether a property line for name and value can
// be written and parsed back unchanged.
func (h *Header) checkPropertyLine(name, value string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", types.ErrInvalidName, name)
	}
	if !validValue(value) {
		return fmt.Errorf("%w: value spans several lines", types.ErrInvalidValue)
	}
	return h.fitLine(propertyLineLen(name, value))
}

// fitLine fails with ErrLineTooLong when a written line of n bytes would
// be rejected by the reader.
func (h *Header) fitLine(n int) error {
	if m := h.limits.MaxLineLength; m > 0 && n > m {
		return fmt.Errorf("%w: %d byte line exceeds limit %d", types.ErrLineTooLong, n, m)
	}
	return nil
}

func checkSize(what string, size, limit int) error {
	if limit > 0 && size > limit {
		return fmt.Errorf("%w: %s of %d bytes exceeds limit %d", types.ErrAllocation, what, size, limit)
	}
	return nil
}

// WriteMap writes a human-readable outline of the tree to w.
func (h *Header) WriteMap(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Header with %d sections\n", len(h.sections)); err != nil {
		return err
	}
	for _, s := range h.sections {
		if _, err := fmt.Fprintf(w, "├── Section %q with %d properties\n", s.name, len(s.props)); err != nil {
			return err
		}
		for _, p := range s.props {
			if _, err := fmt.Fprintf(w, "│   ├── %s -> %s\n", p.name, p.value); err != nil {
				return err
			}
		}
	}
	return nil
}
