package ngi

import (
	"errors"
	"io"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// NotFound is the offset returned together with types.ErrNotFound.
const NotFound int64 = -1

// FindSection returns the offset at which the first section line named name
// starts. The scan always begins at byte 0. Returns ErrNotFound if no such
// section exists or the header has no stream.
func (h *Header) FindSection(name string) (int64, error) {
	if h.stream == nil {
		return NotFound, types.ErrNotFound
	}
	lr, err := h.scan(0)
	if err != nil {
		return NotFound, err
	}
	for {
		line, off, err := lr.next()
		if err != nil {
			return NotFound, notFoundAtEOF(err)
		}
		if got, ok := StripSectionName(line); ok && got == name {
			return off, nil
		}
	}
}

// FindNextSection returns the offset of the first section line starting at
// or after from. Returns ErrNotFound when the rest of the file holds no
// section.
func (h *Header) FindNextSection(from int64) (int64, error) {
	if h.stream == nil {
		return NotFound, types.ErrNotFound
	}
	lr, err := h.scan(from)
	if err != nil {
		return NotFound, err
	}
	for {
		line, off, err := lr.next()
		if err != nil {
			return NotFound, notFoundAtEOF(err)
		}
		if Classify(line) == LineSection {
			return off, nil
		}
	}
}

// FindProperty returns the offset of the property line named name inside
// section. The search never crosses into the following section.
func (h *Header) FindProperty(section, name string) (int64, error) {
	if h.stream == nil {
		return NotFound, types.ErrNotFound
	}
	off, err := h.FindSection(section)
	if err != nil {
		return NotFound, err
	}
	lr, err := h.bodyOf(off)
	if err != nil {
		return NotFound, err
	}
	for {
		line, off, err := lr.next()
		if err != nil {
			return NotFound, notFoundAtEOF(err)
		}
		switch Classify(line) {
		case LineSection:
			return NotFound, types.ErrNotFound
		case LineProperty:
			if got, _ := StripPropertyName(line); got == name {
				return off, nil
			}
		}
	}
}

// FindNextProperty returns the offset of the property line following the
// line at previous. When previous is not positive the scan starts at the
// section header of section instead. The search stops at the next section.
func (h *Header) FindNextProperty(section string, previous int64) (int64, error) {
	if h.stream == nil {
		return NotFound, types.ErrNotFound
	}
	start := previous
	if previous <= 0 {
		off, err := h.FindSection(section)
		if err != nil {
			return NotFound, err
		}
		start = off
	}
	lr, err := h.bodyOf(start)
	if err != nil {
		return NotFound, err
	}
	for {
		line, off, err := lr.next()
		if err != nil {
			return NotFound, notFoundAtEOF(err)
		}
		switch Classify(line) {
		case LineSection:
			return NotFound, types.ErrNotFound
		case LineProperty:
			return off, nil
		}
	}
}

// FindSectionEnd returns the offset just past the last property line of
// section, or just past its header when it has no properties. New
// properties of the section are inserted there.
func (h *Header) FindSectionEnd(section string) (int64, error) {
	if h.stream == nil {
		return NotFound, types.ErrNotFound
	}
	off, err := h.FindSection(section)
	if err != nil {
		return NotFound, err
	}
	return h.sectionEnd(off)
}

// sectionEnd is FindSectionEnd for the section header at off.
func (h *Header) sectionEnd(off int64) (int64, error) {
	lr, err := h.bodyOf(off)
	if err != nil {
		return NotFound, err
	}
	end := lr.off
	for {
		line, _, err := lr.next()
		if errors.Is(err, io.EOF) {
			return end, nil
		}
		if err != nil {
			return NotFound, err
		}
		switch Classify(line) {
		case LineSection:
			return end, nil
		case LineProperty:
			end = lr.off
		}
	}
}

// sectionAt returns the offset of the index-th section line of the file.
func (h *Header) sectionAt(index int) (int64, error) {
	off, err := h.FindNextSection(0)
	for i := 0; err == nil && i < index; i++ {
		var next int64
		if _, next, err = h.readLine(off); err != nil {
			return NotFound, err
		}
		off, err = h.FindNextSection(next)
	}
	if err != nil {
		return NotFound, err
	}
	return off, nil
}

// bodyOf returns a reader positioned after the line at off.
func (h *Header) bodyOf(off int64) (*lineReader, error) {
	lr, err := h.scan(off)
	if err != nil {
		return nil, err
	}
	if _, _, err := lr.next(); err != nil {
		return nil, notFoundAtEOF(err)
	}
	return lr, nil
}

// notFoundAtEOF maps an exhausted scan to ErrNotFound and passes read
// failures through.
func notFoundAtEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return types.ErrNotFound
	}
	return err
}
