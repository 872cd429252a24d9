package ngi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestDumpTreeGolden(t *testing.T) {
	tests := []struct {
		golden  string
		content string
	}{
		{"dump_tree", "net ->\nhost: localhost\nport: 8080\n\ndb ->\n\nlog ->\nlevel: debug\n"},
		{"dump_normalized", "# settings\nnet->\nhost: localhost\ndb ->\npath: /tmp/db\n\n\n\nlog ->\n"},
	}
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			h, _ := openFile(t, tt.content, types.DefaultLimits())

			var buf bytes.Buffer
			require.NoError(t, h.DumpTree(&buf))
			newGoldie(t).Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestWriteSectionSeparator(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "w.ngi"))
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, WriteSection(f, "a"))
	require.NoError(t, WriteProperty(f, "k", "v"))
	require.NoError(t, WriteSection(f, "b"))

	b, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "a ->\nk: v\n\nb ->\n", string(b))
}

func TestShortWrite(t *testing.T) {
	err := WriteProperty(&shortWriter{n: 3}, "host", "localhost")
	assert.ErrorIs(t, err, types.ErrShortWrite)

	h, _ := openFile(t, "net ->\nhost: localhost\n", types.DefaultLimits())
	err = h.DumpTree(&shortWriter{n: 10})
	assert.ErrorIs(t, err, types.ErrShortWrite)
}

func TestReplaceSection(t *testing.T) {
	h, path := openFile(t, "network ->\nhost: localhost\n\ndb ->\n", types.DefaultLimits())

	require.NoError(t, h.ReplaceSection(h.Section(0), "net"))
	assert.Equal(t, "net ->\nhost: localhost\n\ndb ->\n", readFile(t, path), "shorter tree truncates the file")

	assert.ErrorIs(t, h.ReplaceSection(h.Section(0), "bad:name"), types.ErrInvalidName)
	assert.Equal(t, "net", h.Section(0).Name())
}

func TestReplaceProperty(t *testing.T) {
	h, path := openFile(t, "net ->\nhost: localhost\nport: 80\n", types.DefaultLimits())
	host := h.Section(0).Property(0)

	require.NoError(t, h.ReplaceProperty(host, WithValue("127.0.0.1")))
	assert.Equal(t, "net ->\nhost: 127.0.0.1\nport: 80\n", readFile(t, path))

	require.NoError(t, h.ReplaceProperty(host, WithName("addr")))
	assert.Equal(t, "addr", host.Name())
	assert.Equal(t, "127.0.0.1", host.Value(), "value without option is kept")

	require.NoError(t, h.ReplaceProperty(host, WithName("address"), WithValue("")))
	assert.Equal(t, "net ->\naddress: \nport: 80\n", readFile(t, path))

	assert.ErrorIs(t, h.ReplaceProperty(host, WithValue("two\nlines")), types.ErrInvalidValue)
	assert.ErrorIs(t, h.ReplaceProperty(host, WithName("")), types.ErrInvalidName)
}

func TestFlushCommitsSetters(t *testing.T) {
	h, path := openFile(t, "net ->\nhost: localhost\n", types.DefaultLimits())
	require.NoError(t, h.Section(0).Property(0).SetValue("example.com"))
	assert.Equal(t, "net ->\nhost: localhost\n", readFile(t, path), "setters only touch memory")

	require.NoError(t, h.Flush())
	assert.Equal(t, "net ->\nhost: example.com\n", readFile(t, path))
}
