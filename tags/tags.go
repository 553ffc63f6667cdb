package tags

import "github.com/yohamta/donburi"

var (
	Player = donburi.NewTag().SetName("Player")
	Enemy  = donburi.NewTag().SetName("Enemy")
)

// Resolv tags for physics collision
const (
	ResolvSolid  = "solid"
	ResolvBody   = "body" // every actor body, used by ray broadphase probes
	ResolvPlayer = "player"
	ResolvEnemy  = "enemy"
	ResolvProbe  = "probe"
)
