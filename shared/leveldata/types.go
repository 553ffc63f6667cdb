// Package leveldata parses TMX arenas into plain data shared by the server
// and tooling. Tiled pixel coordinates are converted to world units on the XZ
// plane with the arena centered on the origin.
package leveldata

// Arena holds everything the simulation needs from a level file.
type Arena struct {
	Name         string
	Width        float64 // world units along X
	Depth        float64 // world units along Z
	Obstacles    []Obstacle
	PlayerSpawns []Spawn
	EnemySpawns  []Spawn
}

// Obstacle is the XZ footprint of a solid block.
type Obstacle struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

// Spawn is a spawn point on the ground plane.
type Spawn struct {
	X, Z  float64
	Index int // "spawnIndex" property, used for ordering
}
