package netcomponents

import "github.com/yohamta/donburi"

// NetRotationData is a player's view orientation in degrees.
type NetRotationData struct {
	Yaw, Pitch float64
}

var NetRotation = donburi.NewComponentType[NetRotationData]()

// LerpNetRotation interpolates pitch linearly and yaw along the shortest arc.
func LerpNetRotation(from, to NetRotationData, t float64) *NetRotationData {
	dy := to.Yaw - from.Yaw
	for dy > 180 {
		dy -= 360
	}
	for dy < -180 {
		dy += 360
	}
	return &NetRotationData{
		Yaw:   from.Yaw + dy*t,
		Pitch: from.Pitch + (to.Pitch-from.Pitch)*t,
	}
}
