package netcomponents

import "github.com/yohamta/donburi"

// PlayerColors is the size of the player color palette. ColorIndex cycles
// through it in join order.
const PlayerColors = 8

// NetPlayerData identifies a player actor. ID equals the owning connection id.
type NetPlayerData struct {
	ID         uint64
	ColorIndex uint8
}

var NetPlayer = donburi.NewComponentType[NetPlayerData]()
