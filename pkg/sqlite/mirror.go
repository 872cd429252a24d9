// Package sqlite exposes the SQLite search index for ngi trees while
// keeping its implementation internal.
package sqlite

import (
	"log/slog"

	"github.com/mesh-intelligence/ngi/internal/sqlite"
	"github.com/mesh-intelligence/ngi/pkg/types"
)

// NewMirror opens a fresh SQLite index in dataDir. An empty dataDir keeps
// the index in memory.
//
// Example:
//
//	idx, err := sqlite.NewMirror(".ngi", nil)
//	if err != nil {
//	    return err
//	}
//	defer idx.Close()
//	err = idx.Load(h.Records())
func NewMirror(dataDir string, log *slog.Logger) (types.Index, error) {
	return sqlite.NewMirror(dataDir, log)
}
