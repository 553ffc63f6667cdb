package sim

import (
	"github.com/tracerfps/tracer/components"
	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/tracerfps/tracer/tags"
	"github.com/yohamta/donburi"
)

// MovePlayers advances the physics world and reads player positions back.
// Players are never translated directly; only their target horizontal
// velocity is written, by ApplyMovement.
func MovePlayers(c *Context, dt float64) {
	if !c.physicsAvailable() {
		return
	}

	c.Physics.Step(dt)

	tags.Player.Each(c.World, func(entry *donburi.Entry) {
		body := bodyOf(entry)
		if body == nil {
			return
		}
		netcomponents.NetPosition.SetValue(entry, toNetPosition(body.Position))
		components.Player.Get(entry).Velocity = body.Velocity
	})
}
