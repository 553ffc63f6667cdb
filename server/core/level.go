package core

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/server/physics"
	"github.com/tracerfps/tracer/shared/leveldata"
	"go.uber.org/zap"
)

// ServerLevel holds the server's collision world and spawn data for an arena.
type ServerLevel struct {
	Name         string
	Physics      *physics.World
	PlayerSpawns []mgl64.Vec3
	EnemySpawns  []mgl64.Vec3
}

// NewServerLevel builds a physics world from a parsed arena. Obstacles rise
// from the ground plane to config.Physics.ObstacleHeight.
func NewServerLevel(arena *leveldata.Arena, log *zap.SugaredLogger) *ServerLevel {
	cfg := physics.ConfigFromGlobals()
	cfg.Width = arena.Width
	cfg.Depth = arena.Depth
	world := physics.NewWorld(cfg)

	ground := world.GroundHeight()
	for _, o := range arena.Obstacles {
		world.AddObstacle(physics.Box{
			Min: mgl64.Vec3{o.MinX, ground, o.MinZ},
			Max: mgl64.Vec3{o.MaxX, ground + cfg.ObstacleHeight, o.MaxZ},
		})
	}

	level := &ServerLevel{Name: arena.Name, Physics: world}
	for _, s := range arena.PlayerSpawns {
		level.PlayerSpawns = append(level.PlayerSpawns, mgl64.Vec3{s.X, config.Player.SpawnHeight, s.Z})
	}
	for _, s := range arena.EnemySpawns {
		level.EnemySpawns = append(level.EnemySpawns, mgl64.Vec3{s.X, config.Enemy.GroundHeight, s.Z})
	}

	log.Infow("[level] loaded arena",
		"name", arena.Name,
		"obstacles", len(arena.Obstacles),
		"player_spawns", len(level.PlayerSpawns),
		"enemy_spawns", len(level.EnemySpawns),
		"width", arena.Width,
		"depth", arena.Depth,
	)
	return level
}
