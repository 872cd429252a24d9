package ngi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

func TestParseEmptyFile(t *testing.T) {
	h, _ := openFile(t, "", types.DefaultLimits())
	assert.Equal(t, 0, h.Len())
}

func TestParse(t *testing.T) {
	content := "net ->\nhost: localhost\nport: 8080\n\ndb ->\n\nlog ->\nlevel: debug\n"
	h, _ := openFile(t, content, types.DefaultLimits())

	assert.Equal(t, []string{
		"[net]", "host=localhost", "port=8080",
		"[db]",
		"[log]", "level=debug",
	}, outline(h))

	p := h.Section(0).Property(1)
	require.NotNil(t, p)
	assert.Same(t, h.Section(0), p.Section())
}

func TestParseSkipsStrayLines(t *testing.T) {
	content := "orphan: before any section\n# comment\nnet ->\njunk line\nhost: localhost\n"
	h, _ := openFile(t, content, types.DefaultLimits())

	assert.Equal(t, []string{"[net]", "host=localhost"}, outline(h))
}

func TestParseDuplicateSectionNames(t *testing.T) {
	h, _ := openFile(t, "a ->\nx: 1\n\na ->\ny: 2\n", types.DefaultLimits())

	assert.Equal(t, []string{"[a]", "x=1", "[a]", "y=2"}, outline(h))
	assert.Same(t, h.Section(0), h.SectionByName("a"))
}

func TestParseWithoutTrailingNewline(t *testing.T) {
	h, _ := openFile(t, "net ->\nhost: localhost", types.DefaultLimits())

	assert.Equal(t, []string{"[net]", "host=localhost"}, outline(h))
}

func TestParseTokensInsideValues(t *testing.T) {
	h, _ := openFile(t, "links ->\nnext: page two ->\nurl: http://host: 80\n", types.DefaultLimits())

	require.Equal(t, 1, h.Len())
	assert.Equal(t, []string{"[links]", "next=page two ->", "url=http://host: 80"}, outline(h))
}

func TestParseAllocationFailure(t *testing.T) {
	path := writeFile(t, "net ->\nhost: localhost\nport: 8080\n")

	_, err := Open(types.Config{Path: path, Limits: types.Limits{MaxProperties: 1}})
	assert.ErrorIs(t, err, types.ErrAllocation)

	_, err = Open(types.Config{Path: path, Limits: types.Limits{MaxSections: 0, MaxNameLength: 2, MaxLineLength: 64}})
	assert.ErrorIs(t, err, types.ErrAllocation)
}

func TestParseAfterClose(t *testing.T) {
	h, _ := openFile(t, "net ->\n", types.DefaultLimits())
	require.NoError(t, h.Close())
	assert.ErrorIs(t, h.Parse(), types.ErrClosed)
}
