// Package assets embeds the default arenas shipped with the server.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tracerfps/tracer/shared/leveldata"
)

//go:embed all:levels
var assetFS embed.FS

// DefaultLevel is the arena used when no level path is configured.
const DefaultLevel = "levels/arena.tmx"

// LevelLoader loads arenas from the embedded levels or from disk.
type LevelLoader struct {
	PixelsPerUnit float64
}

func NewLevelLoader(pixelsPerUnit float64) *LevelLoader {
	return &LevelLoader{PixelsPerUnit: pixelsPerUnit}
}

// Load reads path from disk, or the embedded default arena when path is
// empty.
func (l *LevelLoader) Load(path string) (*leveldata.Arena, error) {
	if path == "" {
		return leveldata.LoadArena(assetFS, DefaultLevel, l.PixelsPerUnit)
	}
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	arena, err := leveldata.LoadArena(os.DirFS(dir), name, l.PixelsPerUnit)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return arena, nil
}

// ListLevelNames returns the stem names of the embedded arenas.
func (l *LevelLoader) ListLevelNames() ([]string, error) {
	_, names, err := leveldata.LoadAllArenas(assetFS, "levels", l.PixelsPerUnit)
	return names, err
}

// LevelFS exposes the embedded levels directory.
func LevelFS() fs.FS {
	return assetFS
}
