package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/leap-fish/necs/esync"
	"github.com/tracerfps/tracer/components"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/server/physics"
	"github.com/tracerfps/tracer/shared/messages"
	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/tracerfps/tracer/tags"
	"github.com/yohamta/donburi"
)

// Connect creates the player actor for a new connection. The player id is the
// connection id.
func Connect(c *Context, conn ConnID) (*donburi.Entry, error) {
	if _, exists := c.conns[conn]; exists {
		return nil, fmt.Errorf("connect %d: %w", conn, ErrDuplicateConnection)
	}
	if limit := config.Server.MaxPlayers; limit > 0 && len(c.conns) >= limit {
		const reason = "server full"
		if err := c.Net.Send(conn, messages.JoinRejected{Reason: reason}); err != nil {
			c.Log.Warnw("[sim] failed to send join rejection", "conn", conn, "error", err)
		}
		if err := c.Net.Drop(conn, reason); err != nil {
			c.Log.Warnw("[sim] failed to drop rejected connection", "conn", conn, "error", err)
		}
		return nil, fmt.Errorf("connect %d: server full (%d players)", conn, len(c.conns))
	}

	spawn := c.nextPlayerSpawn()
	colorIndex := uint8(c.joins % netcomponents.PlayerColors)
	c.joins++

	entity := c.World.Create(
		tags.Player,
		netcomponents.NetPlayer,
		netcomponents.NetPosition,
		netcomponents.NetRotation,
		netcomponents.NetHealth,
		components.Player,
		components.Body,
	)
	entry := c.World.Entry(entity)

	netcomponents.NetPlayer.SetValue(entry, netcomponents.NetPlayerData{
		ID:         uint64(conn),
		ColorIndex: colorIndex,
	})
	netcomponents.NetPosition.SetValue(entry, toNetPosition(spawn))
	netcomponents.NetHealth.SetValue(entry, netcomponents.NetHealthData{
		Current: config.Player.MaxHealth,
		Max:     config.Player.MaxHealth,
	})
	components.Player.SetValue(entry, components.PlayerData{
		Conn:  uint64(conn),
		Spawn: spawn,
	})
	if c.Physics != nil {
		components.Body.SetValue(entry, components.BodyData{
			Body: c.Physics.AddBody(entity, physics.Dynamic, spawn),
		})
	}

	c.conns[conn] = entity
	c.Stats.Players.Store(int64(len(c.conns)))

	if err := c.Net.Track(entity); err != nil {
		c.Log.Warnw("[sim] failed to set up replication for player", "conn", conn, "error", err)
	}

	accepted := messages.JoinAccepted{
		PlayerID:   uint64(conn),
		ServerName: config.Server.Name,
		TickRate:   config.Server.TickRate,
		Spawn:      spawn,
		MoveSpeed:  config.Player.MoveSpeed,
	}
	if entry.HasComponent(esync.NetworkIdComponent) {
		accepted.NetworkID = *esync.NetworkIdComponent.Get(entry)
	}
	if err := c.Net.Send(conn, accepted); err != nil {
		c.Log.Warnw("[sim] failed to send join acceptance", "conn", conn, "error", err)
	}

	c.Log.Infow("[sim] player spawned", "player", conn, "color", colorIndex,
		"x", spawn.X(), "y", spawn.Y(), "z", spawn.Z())
	return entry, nil
}

// Disconnect removes the player actor, its body and its connection entry.
func Disconnect(c *Context, conn ConnID) error {
	entity, ok := c.conns[conn]
	if !ok {
		return fmt.Errorf("disconnect %d: %w", conn, ErrUnknownConnection)
	}
	delete(c.conns, conn)
	c.Stats.Players.Store(int64(len(c.conns)))

	if !c.World.Valid(entity) {
		return nil
	}
	entry := c.World.Entry(entity)
	if body := bodyOf(entry); body != nil && c.Physics != nil {
		c.Physics.RemoveBody(body)
	}
	c.World.Remove(entity)

	c.Log.Infow("[sim] player removed", "player", conn)
	return nil
}

// nextPlayerSpawn cycles through the level spawn points, or places the n-th
// join on a ring around the origin when the level has none.
func (c *Context) nextPlayerSpawn() mgl64.Vec3 {
	if len(c.playerSpawns) > 0 {
		return c.playerSpawns[c.joins%len(c.playerSpawns)]
	}
	slots := config.Player.SpawnSlots
	if slots <= 0 {
		slots = 4
	}
	angle := float64(c.joins) * 2 * math.Pi / float64(slots)
	r := config.Player.SpawnRadius
	return mgl64.Vec3{math.Cos(angle) * r, config.Player.SpawnHeight, math.Sin(angle) * r}
}

// UpdateRespawns counts down dead players and puts them back at their spawn
// point with full health once the delay has elapsed.
func UpdateRespawns(c *Context, dt float64) {
	var ready []*donburi.Entry
	components.Dead.Each(c.World, func(entry *donburi.Entry) {
		dead := components.Dead.Get(entry)
		dead.RespawnIn -= dt
		if dead.RespawnIn <= 0 {
			ready = append(ready, entry)
		}
	})

	for _, entry := range ready {
		respawn(c, entry)
	}
}

func respawn(c *Context, entry *donburi.Entry) {
	entry.RemoveComponent(components.Dead)

	player := components.Player.Get(entry)
	health := netcomponents.NetHealth.Get(entry)
	health.Current = health.Max
	player.Velocity = mgl64.Vec3{}
	netcomponents.NetPosition.SetValue(entry, toNetPosition(player.Spawn))

	if body := bodyOf(entry); body != nil && c.Physics != nil {
		body.Disabled = false
		c.Physics.Teleport(body, player.Spawn)
	}

	id := netcomponents.NetPlayer.Get(entry).ID
	c.Stats.Respawns.Add(1)
	c.Log.Infow("[sim] player respawned", "player", id)
	c.broadcast(messages.RespawnEvent{
		PlayerID: id,
		X:        player.Spawn.X(),
		Y:        player.Spawn.Y(),
		Z:        player.Spawn.Z(),
	})
}

func isDead(entry *donburi.Entry) bool {
	return entry.HasComponent(components.Dead)
}

func bodyOf(entry *donburi.Entry) *physics.Body {
	if !entry.HasComponent(components.Body) {
		return nil
	}
	return components.Body.Get(entry).Body
}

func positionOf(entry *donburi.Entry) mgl64.Vec3 {
	p := netcomponents.NetPosition.Get(entry)
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

func toNetPosition(v mgl64.Vec3) netcomponents.NetPositionData {
	return netcomponents.NetPositionData{X: v.X(), Y: v.Y(), Z: v.Z()}
}
