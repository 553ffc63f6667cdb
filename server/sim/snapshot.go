package sim

import (
	"sort"

	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/tracerfps/tracer/tags"
	"github.com/yohamta/donburi"
)

// Snapshot is the replicated view of the actor store at the end of a tick.
// It holds only replicated fields; enemy AI state never appears here.
type Snapshot struct {
	Tick    uint64        `json:"tick"`
	Time    float64       `json:"time"`
	Players []PlayerState `json:"players"`
	Enemies []EnemyState  `json:"enemies"`
}

type PlayerState struct {
	ID         uint64                        `json:"id"`
	ColorIndex uint8                         `json:"color_index"`
	Position   netcomponents.NetPositionData `json:"position"`
	Rotation   netcomponents.NetRotationData `json:"rotation"`
	Health     netcomponents.NetHealthData   `json:"health"`
}

type EnemyState struct {
	ID       uint32                        `json:"id"`
	Position netcomponents.NetPositionData `json:"position"`
}

// BuildSnapshot collects the replicated fields of every actor, ordered by id.
func BuildSnapshot(c *Context) Snapshot {
	snap := Snapshot{
		Tick:    c.tick,
		Time:    c.elapsed,
		Players: []PlayerState{},
		Enemies: []EnemyState{},
	}

	tags.Player.Each(c.World, func(entry *donburi.Entry) {
		p := netcomponents.NetPlayer.Get(entry)
		snap.Players = append(snap.Players, PlayerState{
			ID:         p.ID,
			ColorIndex: p.ColorIndex,
			Position:   *netcomponents.NetPosition.Get(entry),
			Rotation:   *netcomponents.NetRotation.Get(entry),
			Health:     *netcomponents.NetHealth.Get(entry),
		})
	})
	tags.Enemy.Each(c.World, func(entry *donburi.Entry) {
		snap.Enemies = append(snap.Enemies, EnemyState{
			ID:       netcomponents.NetEnemy.Get(entry).ID,
			Position: *netcomponents.NetPosition.Get(entry),
		})
	})

	sort.Slice(snap.Players, func(i, j int) bool { return snap.Players[i].ID < snap.Players[j].ID })
	sort.Slice(snap.Enemies, func(i, j int) bool { return snap.Enemies[i].ID < snap.Enemies[j].ID })
	return snap
}

// LastSnapshot returns the most recently published snapshot. Safe to call
// from any goroutine.
func (c *Context) LastSnapshot() Snapshot {
	c.snapshotMu.RLock()
	defer c.snapshotMu.RUnlock()
	return c.lastSnapshot
}

func publish(c *Context) {
	snap := BuildSnapshot(c)

	c.snapshotMu.Lock()
	c.lastSnapshot = snap
	c.snapshotMu.Unlock()

	if err := c.Net.Publish(&snap); err != nil {
		c.Log.Warnw("[sim] publish failed", "tick", snap.Tick, "error", err)
	}
}
