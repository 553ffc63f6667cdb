package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/yohamta/donburi"
)

// PlayerData is the server-private part of a player actor.
type PlayerData struct {
	Conn uint64 // owning connection, equal to the replicated player id

	// Velocity mirrors the physics body. Movement input writes X and Z only.
	Velocity mgl64.Vec3
	Spawn    mgl64.Vec3

	Kills  int
	Deaths int
}

var Player = donburi.NewComponentType[PlayerData]()
