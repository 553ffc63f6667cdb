package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/server/ai"
	"github.com/yohamta/donburi"
)

// EnemyMovement is the static per-enemy movement tuning.
type EnemyMovement struct {
	ai.Ranges
	PatrolSpeed float64
	ChaseSpeed  float64
}

// EnemyData is the server-private AI state of an enemy actor. None of it is
// replicated.
type EnemyData struct {
	State    ai.State
	Patrol   ai.Patrol
	Movement EnemyMovement
	Flocking ai.FlockParams

	// Steering is the last flocking output, overwritten every tick.
	Steering mgl64.Vec3
	Yaw      float64
}

var Enemy = donburi.NewComponentType[EnemyData]()
