package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/tracerfps/tracer/components"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/shared/gamemath"
	"github.com/tracerfps/tracer/shared/messages"
	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/yohamta/donburi"
)

var errInvalidInput = errors.New("invalid input")

// ProcessInbound drains the queue and applies every delivery in arrival
// order. Nothing here aborts the tick: failures are logged and dropped.
func ProcessInbound(c *Context) {
	for _, in := range c.Queue.Drain() {
		if err := Apply(c, in); err != nil {
			switch {
			case errors.Is(err, ErrUnknownConnection), errors.Is(err, ErrUnknownActor):
				c.Stats.Unresolved.Add(1)
				c.Log.Warnw("[input] dropping message from unresolved sender",
					"conn", in.Conn, "type", fmt.Sprintf("%T", in.Msg), "error", err)
			case errors.Is(err, errInvalidInput):
				c.Stats.InputsRejected.Add(1)
				c.Log.Debugw("[input] rejected message", "conn", in.Conn, "error", err)
			default:
				c.Log.Warnw("[sim] inbound message failed", "conn", in.Conn, "error", err)
			}
		}
	}
}

// Apply handles one inbound delivery.
func Apply(c *Context, in Inbound) error {
	switch msg := in.Msg.(type) {
	case Connected:
		_, err := Connect(c, in.Conn)
		return err
	case Disconnected:
		if msg.Err != nil {
			c.Log.Infow("[sim] connection closed with error", "conn", in.Conn, "error", msg.Err)
		}
		return Disconnect(c, in.Conn)
	case messages.RotationInput:
		return ApplyRotation(c, in.Conn, msg)
	case messages.MovementInput:
		return ApplyMovement(c, in.Conn, msg)
	case messages.ShootEvent:
		return Shoot(c, in.Conn, msg)
	default:
		return fmt.Errorf("unsupported message %T", in.Msg)
	}
}

// ApplyRotation sets the sender's view orientation.
func ApplyRotation(c *Context, conn ConnID, in messages.RotationInput) error {
	entry, err := c.Entry(conn)
	if err != nil {
		return fmt.Errorf("rotation from %d: %w", conn, err)
	}
	if !finite(in.Yaw, in.Pitch) {
		return fmt.Errorf("rotation from %d: %w: non-finite angles", conn, errInvalidInput)
	}
	if isDead(entry) {
		return fmt.Errorf("rotation from %d: %w: player is dead", conn, errInvalidInput)
	}

	netcomponents.NetRotation.SetValue(entry, netcomponents.NetRotationData{
		Yaw:   in.Yaw,
		Pitch: in.Pitch,
	})
	c.Stats.InputsAccepted.Add(1)
	return nil
}

// ApplyMovement converts movement intent into the sender's horizontal
// velocity using its current yaw. The vertical component is left to physics.
func ApplyMovement(c *Context, conn ConnID, in messages.MovementInput) error {
	entry, err := c.Entry(conn)
	if err != nil {
		return fmt.Errorf("movement from %d: %w", conn, err)
	}
	if !finite(in.Forward, in.Right) {
		return fmt.Errorf("movement from %d: %w: non-finite axes", conn, errInvalidInput)
	}
	if isDead(entry) {
		return fmt.Errorf("movement from %d: %w: player is dead", conn, errInvalidInput)
	}

	yaw := netcomponents.NetRotation.Get(entry).Yaw
	v := gamemath.MovementVelocity(yaw, in.Forward, in.Right, config.Player.MoveSpeed)
	setHorizontalVelocity(entry, v.X(), v.Z())
	c.Stats.InputsAccepted.Add(1)
	return nil
}

func setHorizontalVelocity(entry *donburi.Entry, x, z float64) {
	player := components.Player.Get(entry)
	player.Velocity[0] = x
	player.Velocity[2] = z
	if body := bodyOf(entry); body != nil {
		body.SetHorizontalVelocity(player.Velocity)
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
