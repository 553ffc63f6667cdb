package netcomponents

import "github.com/yohamta/donburi"

// NetHealthData mirrors a player's health. Current is always within [0, Max].
type NetHealthData struct {
	Current float64
	Max     float64
}

var NetHealth = donburi.NewComponentType[NetHealthData]()
