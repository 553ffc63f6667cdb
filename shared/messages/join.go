package messages

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
)

// JoinAccepted is sent to a client once its player actor exists.
type JoinAccepted struct {
	PlayerID   uint64
	NetworkID  esync.NetworkId
	ServerName string
	TickRate   int
	Spawn      mgl64.Vec3
	MoveSpeed  float64 // horizontal units per second, for client prediction
}

// JoinRejected is sent by the server when a client cannot be admitted.
type JoinRejected struct {
	Reason string
}
