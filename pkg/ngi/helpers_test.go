package ngi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

// writeFile creates test.ngi holding content in a temp dir and returns its path.
func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.ngi")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// openFile writes content to a temp file and opens it with limits.
func openFile(t *testing.T, content string, limits types.Limits) (*Header, string) {
	t.Helper()
	path := writeFile(t, content)
	h, err := Open(types.Config{Path: path, Limits: limits})
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h, path
}

// readFile returns the contents of path.
func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

// appendFile appends text to path outside of any Header.
func appendFile(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(text)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

// outline returns section names and name=value pairs in tree order.
func outline(h *Header) []string {
	var out []string
	for _, s := range h.Sections() {
		out = append(out, "["+s.Name()+"]")
		for _, p := range s.Properties() {
			out = append(out, p.Name()+"="+p.Value())
		}
	}
	return out
}

// shortWriter accepts at most n bytes in total and then reports success
// without writing.
type shortWriter struct {
	n int
}

func (w *shortWriter) Write(p []byte) (int, error) {
	if len(p) <= w.n {
		w.n -= len(p)
		return len(p), nil
	}
	written := w.n
	w.n = 0
	return written, nil
}
