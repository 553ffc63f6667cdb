package components

import (
	"github.com/tracerfps/tracer/server/physics"
	"github.com/yohamta/donburi"
)

// BodyData links an actor to its physics capsule.
type BodyData struct {
	Body *physics.Body
}

var Body = donburi.NewComponentType[BodyData]()
