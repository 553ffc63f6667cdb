package netcomponents

import "github.com/yohamta/donburi"

// NetEnemyData identifies an enemy actor. AI state is never replicated.
type NetEnemyData struct {
	ID uint32
}

var NetEnemy = donburi.NewComponentType[NetEnemyData]()
