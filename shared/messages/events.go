package messages

// Target kinds reported in HitEvent
const (
	TargetPlayer = "player"
	TargetEnemy  = "enemy"
)

// HitEvent is broadcast when a shot connects with an actor
type HitEvent struct {
	ShooterID       uint64
	TargetID        uint64 // player id or enemy id, see TargetKind
	TargetKind      string
	Distance        float64
	Damage          float64 // 0 for enemies
	RemainingHealth float64
}

// KillEvent is broadcast when a player's health reaches zero
type KillEvent struct {
	VictimID uint64
	KillerID uint64
}

// RespawnEvent is broadcast when a dead player is put back into play
type RespawnEvent struct {
	PlayerID uint64
	X, Y, Z  float64
}
