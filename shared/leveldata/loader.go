package leveldata

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"
)

const (
	SolidLayer        = "solid"
	ObstacleGroup     = "Obstacles"
	PlayerSpawnGroup  = "PlayerSpawn"
	EnemySpawnGroup   = "EnemySpawn"
	spawnIndexProp    = "spawnIndex"
	defaultPixelsUnit = 16
)

// LoadArena parses a TMX file from fsys. Solid tiles are merged into
// horizontal runs so each row of wall becomes one obstacle. pixelsPerUnit
// converts Tiled pixels into world units; <= 0 uses 16.
func LoadArena(fsys fs.FS, tmxPath string, pixelsPerUnit float64) (*Arena, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = defaultPixelsUnit
	}

	pxW := float64(levelMap.Width * levelMap.TileWidth)
	pxH := float64(levelMap.Height * levelMap.TileHeight)
	arena := &Arena{
		Name:  strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width: pxW / pixelsPerUnit,
		Depth: pxH / pixelsPerUnit,
	}
	toWorld := func(px, py float64) (float64, float64) {
		return px/pixelsPerUnit - arena.Width/2, py/pixelsPerUnit - arena.Depth/2
	}
	addRect := func(px, py, pw, ph float64) {
		minX, minZ := toWorld(px, py)
		maxX, maxZ := toWorld(px+pw, py+ph)
		arena.Obstacles = append(arena.Obstacles, Obstacle{MinX: minX, MinZ: minZ, MaxX: maxX, MaxZ: maxZ})
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, layer := range levelMap.Layers {
		if layer.Name != SolidLayer {
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			runStart := -1
			for x := 0; x <= levelMap.Width; x++ {
				solid := x < levelMap.Width && !layer.Tiles[y*levelMap.Width+x].IsNil()
				switch {
				case solid && runStart < 0:
					runStart = x
				case !solid && runStart >= 0:
					addRect(float64(runStart)*tileW, float64(y)*tileH, float64(x-runStart)*tileW, tileH)
					runStart = -1
				}
			}
		}
		break
	}

	for _, og := range levelMap.ObjectGroups {
		switch og.Name {
		case ObstacleGroup:
			for _, o := range og.Objects {
				if o.Width <= 0 || o.Height <= 0 {
					continue
				}
				addRect(o.X, o.Y, o.Width, o.Height)
			}
		case PlayerSpawnGroup, EnemySpawnGroup:
			spawns := make([]Spawn, 0, len(og.Objects))
			for _, o := range og.Objects {
				x, z := toWorld(o.X, o.Y)
				spawns = append(spawns, Spawn{X: x, Z: z, Index: o.Properties.GetInt(spawnIndexProp)})
			}
			sortSpawns(spawns)
			if og.Name == PlayerSpawnGroup {
				arena.PlayerSpawns = spawns
			} else {
				arena.EnemySpawns = spawns
			}
		}
	}

	return arena, nil
}

// sortSpawns orders by spawnIndex, then left-to-right for consistent
// assignment.
func sortSpawns(spawns []Spawn) {
	sort.SliceStable(spawns, func(i, j int) bool {
		if spawns[i].Index != spawns[j].Index {
			return spawns[i].Index < spawns[j].Index
		}
		return spawns[i].X < spawns[j].X
	})
}

// LoadAllArenas discovers all .tmx files in dir within fsys and returns them
// keyed by stem name plus a sorted list of names.
func LoadAllArenas(fsys fs.FS, dir string, pixelsPerUnit float64) (map[string]*Arena, []string, error) {
	pattern := dir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", dir)
	}

	arenas := make(map[string]*Arena, len(matches))
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		arena, err := LoadArena(fsys, path, pixelsPerUnit)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		arenas[arena.Name] = arena
		names = append(names, arena.Name)
	}

	sort.Strings(names)
	return arenas, names, nil
}
