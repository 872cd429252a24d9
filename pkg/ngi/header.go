package ngi

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// Stream is the byte stream behind a Header. *os.File satisfies it.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
	Truncate(size int64) error
}

// Header is the root of an ngi tree. It owns the sections, in file order,
// and the stream they were read from.
type Header struct {
	stream   Stream
	closer   io.Closer // set when Open opened the stream itself
	path     string
	sections []*Section
	limits   types.Limits
	log      *slog.Logger
	closed   bool
}

// discard is the logger used when a Config carries none.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Create creates an empty ngi file. It fails with ErrExists if path already
// exists.
func Create(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", types.ErrExists, path)
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	return f.Close()
}

// Open opens the ngi file at cfg.Path for reading and writing, creating it
// when it does not exist, and parses it into a new Header.
func Open(cfg types.Config) (*Header, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}
	h, err := OpenStream(f, cfg)
	if err != nil {
		f.Close()
		return nil, err
	}
	h.closer = f
	return h, nil
}

// OpenStream parses stream into a new Header. cfg.Path is informational
// here and may be empty. The caller keeps ownership of stream: Close does
// not close it.
func OpenStream(stream Stream, cfg types.Config) (*Header, error) {
	if err := cfg.Limits.Validate(); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = discard
	}
	h := &Header{
		stream: stream,
		path:   cfg.Path,
		limits: cfg.Limits,
		log:    log.With("file", cfg.Path),
	}
	if err := h.Parse(); err != nil {
		h.freeAll()
		return nil, fmt.Errorf("parse %s: %w", cfg.Path, err)
	}
	return h, nil
}

// Close releases the tree and the stream. Every Section and Property of the
// Header becomes detached. Close is idempotent.
func (h *Header) Close() error {
	if h.closed {
		return nil
	}
	h.freeAll()
	h.closed = true
	h.stream = nil
	if h.closer != nil {
		if err := h.closer.Close(); err != nil {
			return fmt.Errorf("close %s: %w", h.path, err)
		}
	}
	return nil
}

// Path returns the path the Header was opened from, if any.
func (h *Header) Path() string { return h.path }

// Limits returns the limits the Header enforces.
func (h *Header) Limits() types.Limits { return h.limits }

// Records flattens the tree into one Record per property. Sections without
// properties yield a single section Record.
func (h *Header) Records() []types.Record {
	var out []types.Record
	for i, s := range h.sections {
		if len(s.props) == 0 {
			out = append(out, types.Record{Section: s.Name(), SectionIndex: i, PropertyIndex: -1})
			continue
		}
		for j, p := range s.props {
			out = append(out, types.Record{
				Section:       s.Name(),
				SectionIndex:  i,
				Name:          p.Name(),
				PropertyIndex: j,
				Value:         p.Value(),
			})
		}
	}
	return out
}

func (h *Header) check() error {
	if h.closed || h.stream == nil {
		return types.ErrClosed
	}
	return nil
}

// owns reports whether s belongs to h.
func (h *Header) owns(s *Section) bool {
	return s != nil && s.header == h
}

// sync flushes the stream to stable storage when it supports it.
func (h *Header) sync() error {
	if s, ok := h.stream.(interface{ Sync() error }); ok {
		if err := s.Sync(); err != nil {
			return fmt.Errorf("sync %s: %w", h.path, err)
		}
	}
	return nil
}
