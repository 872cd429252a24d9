package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

var sampleRecords = []types.Record{
	{Section: "net", SectionIndex: 0, Name: "host", PropertyIndex: 0, Value: "localhost"},
	{Section: "net", SectionIndex: 0, Name: "port", PropertyIndex: 1, Value: "8080"},
	{Section: "db", SectionIndex: 1, PropertyIndex: -1},
	{Section: "net", SectionIndex: 2, Name: "host", PropertyIndex: 0, Value: "example.org"},
}

func newMirror(t *testing.T) *Mirror {
	t.Helper()
	m, err := NewMirror("", nil)
	require.NoError(t, err)
	t.Cleanup(func() { m.Close() })
	require.NoError(t, m.Load(sampleRecords))
	return m
}

func TestNewMirrorCreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	m, err := NewMirror(dir, nil)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, filepath.Join(dir, DBFile), m.Path())
	_, err = os.Stat(m.Path())
	assert.NoError(t, err)
}

func TestNewMirrorStartsEmpty(t *testing.T) {
	dir := t.TempDir()

	first, err := NewMirror(dir, nil)
	require.NoError(t, err)
	require.NoError(t, first.Load(sampleRecords))
	require.NoError(t, first.Close())

	second, err := NewMirror(dir, nil)
	require.NoError(t, err)
	defer second.Close()

	sections, properties, err := second.Counts()
	require.NoError(t, err)
	assert.Zero(t, sections)
	assert.Zero(t, properties)
}

func TestMirrorLoad(t *testing.T) {
	m := newMirror(t)

	sections, properties, err := m.Counts()
	require.NoError(t, err)
	assert.Equal(t, 3, sections)
	assert.Equal(t, 3, properties)

	require.NoError(t, m.Load(sampleRecords[:1]))
	sections, properties, err = m.Counts()
	require.NoError(t, err)
	assert.Equal(t, 1, sections)
	assert.Equal(t, 1, properties)
}

func TestMirrorLoadIsTransactional(t *testing.T) {
	m := newMirror(t)

	bad := []types.Record{
		{Section: "a", SectionIndex: 0, Name: "x", PropertyIndex: 0, Value: "1"},
		{Section: "a", SectionIndex: 0, Name: "y", PropertyIndex: 0, Value: "2"},
	}
	assert.Error(t, m.Load(bad))

	value, err := m.Lookup("net", "port")
	require.NoError(t, err)
	assert.Equal(t, "8080", value)
}

func TestMirrorLookup(t *testing.T) {
	m := newMirror(t)

	tests := []struct {
		name    string
		section string
		prop    string
		want    string
		wantErr error
	}{
		{name: "first match in file order", section: "net", prop: "host", want: "localhost"},
		{name: "second property", section: "net", prop: "port", want: "8080"},
		{name: "section without properties", section: "db", prop: "path", wantErr: types.ErrNotFound},
		{name: "missing section", section: "log", prop: "level", wantErr: types.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Lookup(tt.section, tt.prop)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMirrorSearch(t *testing.T) {
	m := newMirror(t)

	tests := []struct {
		name    string
		pattern string
		want    []types.Record
	}{
		{
			name:    "by value",
			pattern: "%.org",
			want:    sampleRecords[3:],
		},
		{
			name:    "by property name",
			pattern: "host",
			want:    []types.Record{sampleRecords[0], sampleRecords[3]},
		},
		{
			name:    "bare section by name",
			pattern: "d_",
			want:    sampleRecords[2:3],
		},
		{
			name:    "section name returns all its properties",
			pattern: "net",
			want:    []types.Record{sampleRecords[0], sampleRecords[1], sampleRecords[3]},
		},
		{
			name:    "no match",
			pattern: "nothing%",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Search(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMirrorClose(t *testing.T) {
	m, err := NewMirror("", nil)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")

	assert.ErrorIs(t, m.Load(sampleRecords), types.ErrIndexClosed)
	_, err = m.Lookup("net", "host")
	assert.ErrorIs(t, err, types.ErrIndexClosed)
	_, err = m.Search("%")
	assert.ErrorIs(t, err, types.ErrIndexClosed)
}
