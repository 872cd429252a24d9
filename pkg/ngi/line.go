package ngi

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// minLineBuffer is the smallest buffer bufio accepts.
const minLineBuffer = 16

// lineReader reads newline-terminated lines from a stream and tracks the
// byte offset at which each one starts. Lines longer than max bytes are
// rejected with ErrLineTooLong rather than split.
type lineReader struct {
	r   *bufio.Reader
	off int64 // offset of the next unread byte
	max int
}

// scan positions the stream at from and returns a reader for it.
func (h *Header) scan(from int64) (*lineReader, error) {
	if _, err := h.stream.Seek(from, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to %d: %w", from, err)
	}
	lr := &lineReader{off: from, max: h.limits.MaxLineLength}
	if lr.max > 0 {
		lr.r = bufio.NewReaderSize(h.stream, max(lr.max, minLineBuffer))
	} else {
		lr.r = bufio.NewReader(h.stream)
	}
	return lr, nil
}

// next returns the next line, terminator included, and the offset it starts
// at. It returns io.EOF once the stream is exhausted. A final line without a
// terminator is returned as is.
func (lr *lineReader) next() (string, int64, error) {
	start := lr.off
	var (
		line []byte
		err  error
	)
	if lr.max > 0 {
		line, err = lr.r.ReadSlice('\n')
	} else {
		var s string
		s, err = lr.r.ReadString('\n')
		line = []byte(s)
	}
	switch {
	case errors.Is(err, bufio.ErrBufferFull):
		return "", start, fmt.Errorf("%w: offset %d", types.ErrLineTooLong, start)
	case errors.Is(err, io.EOF) && len(line) == 0:
		return "", start, io.EOF
	case err != nil && !errors.Is(err, io.EOF):
		return "", start, fmt.Errorf("read line at %d: %w", start, err)
	}
	if lr.max > 0 && len(line) > lr.max {
		return "", start, fmt.Errorf("%w: %d bytes at offset %d", types.ErrLineTooLong, len(line), start)
	}
	lr.off += int64(len(line))
	return string(line), start, nil
}

// readLine returns the line starting at off and the offset just past it.
func (h *Header) readLine(off int64) (string, int64, error) {
	lr, err := h.scan(off)
	if err != nil {
		return "", 0, err
	}
	line, _, err := lr.next()
	if err != nil {
		return "", 0, err
	}
	return line, lr.off, nil
}

// lineEndsAt reports whether the byte before off is a line terminator, or
// off is the start of the stream.
func (h *Header) lineEndsAt(off int64) (bool, error) {
	if off <= 0 {
		return true, nil
	}
	if _, err := h.stream.Seek(off-1, io.SeekStart); err != nil {
		return false, fmt.Errorf("seek to %d: %w", off-1, err)
	}
	var b [1]byte
	if _, err := io.ReadFull(h.stream, b[:]); err != nil {
		return false, fmt.Errorf("read byte at %d: %w", off-1, err)
	}
	return b[0] == '\n', nil
}
