package sqlite

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

func TestEncodeJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeJSONL(&buf, sampleRecords[1:3]))

	want := `{"section":"net","section_index":0,"name":"port","property_index":1,"value":"8080"}
{"section":"db","section_index":1,"property_index":-1}
`
	assert.Equal(t, want, buf.String())
}

func TestDecodeJSONLSkipsBadLines(t *testing.T) {
	input := strings.Join([]string{
		`{"section":"net","section_index":0,"name":"host","property_index":0,"value":"localhost","origin":"future"}`,
		``,
		`not json`,
		`{"section":"db","section_index":1}`,
		`{"name":"orphan","property_index":0}`,
		`["array"]`,
	}, "\n")

	got, err := DecodeJSONL(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []types.Record{
		{Section: "net", SectionIndex: 0, Name: "host", PropertyIndex: 0, Value: "localhost"},
		{Section: "db", SectionIndex: 1, PropertyIndex: -1},
	}, got)
}

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	require.NoError(t, WriteJSONL(path, sampleRecords))

	got, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, sampleRecords, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed away")
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, err := ReadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
