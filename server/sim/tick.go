package sim

import "time"

// Tick advances the simulation by dt seconds. Stages run in a fixed order and
// a tick always runs to completion.
func (c *Context) Tick(dt float64) {
	start := time.Now()
	c.elapsed += dt

	ProcessInbound(c)
	UpdateRespawns(c, dt)
	UpdateEnemyStates(c)
	UpdateFlocking(c)
	MoveEnemies(c, dt)
	MovePlayers(c, dt)

	c.tick++
	publish(c)
	c.Stats.addTick(time.Since(start))
}
