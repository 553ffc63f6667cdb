package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/components"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/shared/messages"
	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/tracerfps/tracer/tags"
	"github.com/yohamta/donburi"
)

// Shoot resolves one ShootEvent from conn. The ray comes from the client but
// the shooter is resolved from the connection table and excluded from the
// cast. Each call applies damage at most once.
func Shoot(c *Context, conn ConnID, ev messages.ShootEvent) error {
	shooter, err := c.Entry(conn)
	if err != nil {
		return fmt.Errorf("shot from %d: %w", conn, err)
	}
	if !finite(ev.Origin[:]...) || !finite(ev.Direction[:]...) {
		return fmt.Errorf("shot from %d: %w: non-finite ray", conn, errInvalidInput)
	}
	if isDead(shooter) {
		return fmt.Errorf("shot from %d: %w: player is dead", conn, errInvalidInput)
	}
	c.Stats.Shots.Add(1)

	if !c.physicsAvailable() {
		return fmt.Errorf("shot from %d: %w", conn, ErrNoPhysics)
	}

	hit, ok := c.Physics.Raycast(ev.Origin, ev.Direction, config.Combat.MaxRayLength, bodyOf(shooter))
	if !ok || hit.Body == nil {
		c.Log.Debugw("[combat] miss", "shooter", conn)
		return nil
	}
	if !c.World.Valid(hit.Body.Owner) {
		return nil
	}
	target := c.World.Entry(hit.Body.Owner)

	switch {
	case target.HasComponent(tags.Enemy):
		hitEnemy(c, conn, target, hit.Distance)
	case target.HasComponent(tags.Player) && target.Entity() != shooter.Entity():
		hitPlayer(c, shooter, target, hit.Distance)
	}
	return nil
}

// hitEnemy records a hit. Enemies have no health and take no damage.
func hitEnemy(c *Context, conn ConnID, target *donburi.Entry, dist float64) {
	id := netcomponents.NetEnemy.Get(target).ID
	c.Stats.Hits.Add(1)
	c.Log.Debugw("[combat] enemy hit", "shooter", conn, "enemy", id, "distance", dist)
	c.broadcast(messages.HitEvent{
		ShooterID:  uint64(conn),
		TargetID:   uint64(id),
		TargetKind: messages.TargetEnemy,
		Distance:   dist,
	})
}

func hitPlayer(c *Context, shooter, target *donburi.Entry, dist float64) {
	shooterID := netcomponents.NetPlayer.Get(shooter).ID
	targetID := netcomponents.NetPlayer.Get(target).ID

	damage := config.Combat.Damage
	health := netcomponents.NetHealth.Get(target)
	health.Current = math.Max(0, health.Current-damage)
	c.Stats.Hits.Add(1)

	c.Log.Infow("[combat] player hit", "shooter", shooterID, "target", targetID,
		"distance", dist, "health", health.Current, "max", health.Max)
	c.broadcast(messages.HitEvent{
		ShooterID:       shooterID,
		TargetID:        targetID,
		TargetKind:      messages.TargetPlayer,
		Distance:        dist,
		Damage:          damage,
		RemainingHealth: health.Current,
	})

	if health.Current == 0 {
		kill(c, shooter, target)
	}
}

// kill marks target dead: its body stops colliding and input is ignored until
// UpdateRespawns brings it back.
func kill(c *Context, killer, target *donburi.Entry) {
	killerID := netcomponents.NetPlayer.Get(killer).ID
	victimID := netcomponents.NetPlayer.Get(target).ID

	target.AddComponent(components.Dead)
	components.Dead.SetValue(target, components.DeadData{
		RespawnIn: config.Combat.RespawnDelay.Seconds(),
		KillerID:  killerID,
	})

	victim := components.Player.Get(target)
	victim.Deaths++
	victim.Velocity = mgl64.Vec3{}
	components.Player.Get(killer).Kills++

	if body := bodyOf(target); body != nil {
		body.Disabled = true
		body.Velocity = victim.Velocity
	}

	c.Stats.Kills.Add(1)
	c.Log.Infow("[combat] player killed", "killer", killerID, "victim", victimID)
	c.broadcast(messages.KillEvent{VictimID: victimID, KillerID: killerID})
}

func (c *Context) broadcast(msg any) {
	if err := c.Net.Broadcast(msg); err != nil {
		c.Log.Warnw("[sim] broadcast failed", "type", fmt.Sprintf("%T", msg), "error", err)
	}
}
