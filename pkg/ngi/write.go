package ngi

import (
	"fmt"
	"io"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// lineWriter emits ngi lines and tracks the stream offset, so that a blank
// separator is written before every section except one at offset 0.
type lineWriter struct {
	w   io.Writer
	off int64
}

// newLineWriter wraps w. When w is an io.Seeker its current position is the
// starting offset; otherwise w is assumed to be at its start.
func newLineWriter(w io.Writer) (*lineWriter, error) {
	lw := &lineWriter{w: w}
	if s, ok := w.(io.Seeker); ok {
		off, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, fmt.Errorf("stream position: %w", err)
		}
		lw.off = off
	}
	return lw, nil
}

func (lw *lineWriter) write(s string) error {
	n, err := io.WriteString(lw.w, s)
	lw.off += int64(n)
	if n < len(s) {
		if err == nil {
			err = io.ErrShortWrite
		}
		return fmt.Errorf("%w: wrote %d of %d bytes: %w", types.ErrShortWrite, n, len(s), err)
	}
	return err
}

func (lw *lineWriter) section(name string) error {
	if lw.off != 0 {
		if err := lw.write("\n"); err != nil {
			return err
		}
	}
	return lw.write(name + sectionSeparator + SectionToken + "\n")
}

func (lw *lineWriter) property(name, value string) error {
	return lw.write(name + PropertyToken + value + "\n")
}

// WriteSection writes a section header line for name to w, preceded by a
// blank line unless w is a stream positioned at offset 0.
func WriteSection(w io.Writer, name string) error {
	lw, err := newLineWriter(w)
	if err != nil {
		return err
	}
	return lw.section(name)
}

// WriteProperty writes a property line for name and value to w.
func WriteProperty(w io.Writer, name, value string) error {
	return (&lineWriter{w: w}).property(name, value)
}

// DumpTree serializes the whole tree to w: every section in order, each
// followed by its properties.
func (h *Header) DumpTree(w io.Writer) error {
	lw, err := newLineWriter(w)
	if err != nil {
		return err
	}
	return h.dump(lw)
}

func (h *Header) dump(lw *lineWriter) error {
	for _, s := range h.sections {
		if err := lw.section(s.Name()); err != nil {
			return fmt.Errorf("write section %q: %w", s.name, err)
		}
		for _, p := range s.props {
			if err := lw.property(p.Name(), p.Value()); err != nil {
				return fmt.Errorf("write property %q: %w", p.name, err)
			}
		}
	}
	return nil
}
