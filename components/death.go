package components

import "github.com/yohamta/donburi"

// DeadData marks a killed player waiting to respawn. RespawnIn counts down in
// simulation seconds.
type DeadData struct {
	RespawnIn float64
	KillerID  uint64
}

var Dead = donburi.NewComponentType[DeadData]()
