package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ngi/internal/sqlite"
	"github.com/mesh-intelligence/ngi/pkg/types"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestExportFormats(t *testing.T) {
	for _, format := range []string{formatJSONL, formatJSON, formatYAML} {
		t.Run(format, func(t *testing.T) {
			e := newEnv(t, sample)
			out, _, code := e.ngi("export", e.file, "--format", format)
			require.Equal(t, exitSuccess, code)
			newGoldie(t).Assert(t, "export_"+format, []byte(out))
		})
	}
}

func TestExportInvalidFormat(t *testing.T) {
	e := newEnv(t, sample)
	_, stderr, code := e.ngi("export", e.file, "--format", "toml")
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "invalid format")
}

func TestExportImportRoundTrip(t *testing.T) {
	e := newEnv(t, sample)
	records := filepath.Join(e.dir, "records.jsonl")
	copyFile := filepath.Join(e.dir, "copy.ngi")

	_, _, code := e.ngi("export", e.file, "-o", records)
	require.Equal(t, exitSuccess, code)

	out, _, code := e.ngi("import", records, copyFile)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "imported 2 sections, 2 properties into "+copyFile+"\n", out)

	got, err := os.ReadFile(copyFile)
	require.NoError(t, err)
	assert.Equal(t, sample, string(got))

	_, _, code = e.ngi("import", records, copyFile)
	assert.Equal(t, exitUserError, code, "import refuses to overwrite")
}

func TestImportOrdersRecords(t *testing.T) {
	e := newEnv(t, "")
	records := filepath.Join(e.dir, "records.jsonl")
	require.NoError(t, sqlite.WriteJSONL(records, []types.Record{
		{Section: "b", SectionIndex: 1, Name: "y", PropertyIndex: 0, Value: "2"},
		{Section: "a", SectionIndex: 0, Name: "x2", PropertyIndex: 1, Value: "1b"},
		{Section: "a", SectionIndex: 0, Name: "x1", PropertyIndex: 0, Value: "1a"},
	}))

	_, _, code := e.ngi("import", records, e.file)
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "a ->\nx1: 1a\nx2: 1b\n\nb ->\ny: 2\n", e.content())
}

func TestImportRemovesPartialFile(t *testing.T) {
	e := newEnv(t, "")
	records := filepath.Join(e.dir, "records.jsonl")
	require.NoError(t, sqlite.WriteJSONL(records, []types.Record{
		{Section: "net", SectionIndex: 0, Name: "host", PropertyIndex: 0, Value: "localhost"},
		{Section: "net", SectionIndex: 0, Name: "bad: name", PropertyIndex: 1, Value: "x"},
	}))

	_, stderr, code := e.ngi("import", records, e.file)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, "file removed")
	_, err := os.Stat(e.file)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSearch(t *testing.T) {
	e := newEnv(t, sample)

	out, _, code := e.ngi("search", e.file, "%host%")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "net/host: localhost\n", out)

	out, _, code = e.ngi("search", e.file, "db")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "db\n", out)

	_, err := os.Stat(filepath.Join(e.dataDir, sqlite.DBFile))
	assert.NoError(t, err, "index lives in the data dir")

	_, stderr, code := e.ngi("--log-level", "debug", "search", "--memory", e.file, "net")
	require.Equal(t, exitSuccess, code)
	var done string
	for _, line := range strings.Split(stderr, "\n") {
		if strings.Contains(line, "search done") {
			done = line
		}
	}
	assert.Contains(t, done, "sections=2")
	assert.Contains(t, done, "properties=2")

	out, _, code = e.ngi("--json", "search", "--memory", e.file, "nothing")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "[]\n", out)
}

func TestWatchLoop(t *testing.T) {
	e := newEnv(t, "net ->\nhost: localhost\n")
	opts := &options{}
	opts.cfg, _ = loadConfig(e.config)
	opts.log, _ = newLogger(os.Stderr, "error")

	h, err := opts.openFile(e.file)
	require.NoError(t, err)

	var out strings.Builder
	w := &watcher{opts: opts, path: e.file, h: h, out: &out, maxEvents: 2}
	defer func() { opts.closeFile(w.h) }()

	events := make(chan fsnotify.Event, 4)
	errs := make(chan error)

	f, err := os.OpenFile(e.file, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("\ndb ->\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events <- fsnotify.Event{Name: filepath.Join(e.dir, "other.ngi"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: e.file, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: e.file, Op: fsnotify.Chmod}
	events <- fsnotify.Event{Name: e.file, Op: fsnotify.Create}

	require.NoError(t, w.loop(context.Background(), events, errs))
	assert.Equal(t, 2, w.h.Len())
	assert.Equal(t,
		e.file+": 2 sections, 1 created, 0 updated, 0 deleted\n"+
			e.file+": 2 sections, 3 created, 0 updated, 0 deleted\n",
		out.String())
}

func TestWatchLoopStopsOnCancel(t *testing.T) {
	w := &watcher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.loop(ctx, make(chan fsnotify.Event), make(chan error)))
}
