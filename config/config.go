package config

import "time"

// ServerConfig contains process-level server settings
type ServerConfig struct {
	Name           string
	Port           uint
	AdminAddr      string // HTTP listen address for /metrics, /healthz, /state
	TickRate       int    // simulation ticks per second
	MaxPlayers     int
	InboundBuffer  int    // capacity of the inbound message queue
	MasterURL      string // empty = no server-browser registration
	PublicAddress  string // address advertised to the master server
	Region         string
	LevelPath      string // TMX file on disk; empty = embedded arena
	HeartbeatEvery time.Duration
}

// PlayerConfig contains player actor tuning
type PlayerConfig struct {
	MaxHealth   float64
	MoveSpeed   float64 // units per second, horizontal
	SpawnRadius float64 // ring radius used when the level has no spawn points
	SpawnHeight float64
	SpawnSlots  int // number of evenly spaced slots on the spawn ring
}

// EnemyConfig contains enemy actor tuning
type EnemyConfig struct {
	ChaseRange  float64
	AttackRange float64 // must be < ChaseRange
	PatrolSpeed float64
	ChaseSpeed  float64

	PatrolRadius      float64
	WaypointReached   float64 // distance below which the current waypoint counts as reached
	GroundHeight      float64 // enemies are clamped to this Y after every move
	DefaultSpawn      [3]float64
	SteeringThreshold float64 // min steering magnitude before flocking nudges direction
	SeekWeight        float64
	SteeringWeight    float64
}

// FlockingConfig contains cohesion/alignment/separation tuning for chasing enemies
type FlockingConfig struct {
	NeighborRange      float64
	CohesionWeight     float64
	AlignmentWeight    float64
	SeparationWeight   float64
	SeparationDistance float64
}

// CombatConfig contains hitscan combat tuning
type CombatConfig struct {
	Damage       float64
	MaxRayLength float64
	RespawnDelay time.Duration
}

// PhysicsConfig contains the physics collaborator's tuning
type PhysicsConfig struct {
	Gravity           float64
	GroundHeight      float64 // static ground plane Y
	CapsuleRadius     float64
	CapsuleHalfHeight float64
	ObstacleHeight    float64
	SpaceScale        float64 // resolv units per world unit
	SpaceCellSize     int
}

// WorldConfig describes how TMX pixel coordinates map into the XZ plane
type WorldConfig struct {
	PixelsPerUnit float64
	Width         float64 // world units, used when no level is loaded
	Depth         float64
}

// LogConfig contains logger settings
type LogConfig struct {
	Level      string
	File       string // empty = console only
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Global configuration instances
var Server ServerConfig
var Player PlayerConfig
var Enemy EnemyConfig
var Flocking FlockingConfig
var Combat CombatConfig
var Physics PhysicsConfig
var World WorldConfig
var Log LogConfig

func init() {
	Reset()
}

// Reset restores every configuration section to its built-in defaults.
func Reset() {
	Server = ServerConfig{
		Name:           "Tracer Server",
		Port:           5000,
		AdminAddr:      ":8080",
		TickRate:       30,
		MaxPlayers:     10,
		InboundBuffer:  512,
		Region:         "local",
		HeartbeatEvery: 30 * time.Second,
	}

	Player = PlayerConfig{
		MaxHealth:   100,
		MoveSpeed:   5.0,
		SpawnRadius: 3.0,
		SpawnHeight: 5.0,
		SpawnSlots:  4,
	}

	Enemy = EnemyConfig{
		ChaseRange:  4.0,
		AttackRange: 2.5,
		PatrolSpeed: 2.0,
		ChaseSpeed:  4.0, // slower than a player

		PatrolRadius:      5.0,
		WaypointReached:   0.5,
		GroundHeight:      1.0,
		DefaultSpawn:      [3]float64{10, 1, 10},
		SteeringThreshold: 0.01,
		SeekWeight:        0.7,
		SteeringWeight:    0.3,
	}

	Flocking = FlockingConfig{
		NeighborRange:      5.0,
		CohesionWeight:     1.0,
		AlignmentWeight:    1.0,
		SeparationWeight:   1.5,
		SeparationDistance: 1.5,
	}

	Combat = CombatConfig{
		Damage:       25,
		MaxRayLength: 1000,
		RespawnDelay: 3 * time.Second,
	}

	Physics = PhysicsConfig{
		Gravity:           9.81,
		GroundHeight:      -1.0,
		CapsuleRadius:     0.5,
		CapsuleHalfHeight: 0.5,
		ObstacleHeight:    3.0,
		SpaceScale:        8,
		SpaceCellSize:     8,
	}

	World = WorldConfig{
		PixelsPerUnit: 16,
		Width:         40,
		Depth:         40,
	}

	Log = LogConfig{
		Level:      "info",
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
	}
}
