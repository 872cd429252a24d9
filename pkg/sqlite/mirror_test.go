package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ngi/pkg/types"
)

func TestNewMirror(t *testing.T) {
	idx, err := NewMirror(t.TempDir(), nil)
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Load([]types.Record{
		{Section: "log", SectionIndex: 0, Name: "level", PropertyIndex: 0, Value: "debug"},
	}))
	got, err := idx.Lookup("log", "level")
	require.NoError(t, err)
	assert.Equal(t, "debug", got)
}
