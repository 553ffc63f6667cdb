// Package sim is the authoritative simulation core. A Context owns the actor
// store (a donburi world), the connection table and the inbound queue, and
// Tick advances everything by one step in a fixed stage order.
package sim

import (
	"errors"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/server/physics"
	"github.com/yohamta/donburi"
	"go.uber.org/zap"
)

// ConnID is the transport's identifier for a client session. It is the only
// source of sender identity for inbound messages.
type ConnID uint64

var (
	ErrUnknownConnection   = errors.New("unknown connection")
	ErrUnknownActor        = errors.New("unknown actor")
	ErrNoPhysics           = errors.New("physics world unavailable")
	ErrDuplicateConnection = errors.New("connection already has a player")
)

// Physics is the collision collaborator. *physics.World implements it.
type Physics interface {
	AddBody(owner donburi.Entity, kind physics.Kind, pos mgl64.Vec3) *physics.Body
	RemoveBody(b *physics.Body)
	Teleport(b *physics.Body, pos mgl64.Vec3)
	MoveKinematic(b *physics.Body, pos mgl64.Vec3)
	Raycast(origin, dir mgl64.Vec3, maxDist float64, exclude *physics.Body) (physics.Hit, bool)
	Step(dt float64)
}

// Replicator is the transport collaborator.
type Replicator interface {
	// Track marks a freshly created actor entity for replication.
	Track(e donburi.Entity) error
	Send(conn ConnID, msg any) error
	Broadcast(msg any) error
	// Drop closes conn's transport without touching the simulation. Used for
	// clients that never got a player.
	Drop(conn ConnID, reason string) error
	// Publish hands the end-of-tick snapshot to the transport.
	Publish(snap *Snapshot) error
}

// Options configures a Context. Physics may be nil, in which case ray casts
// are skipped and players do not move.
type Options struct {
	Physics      Physics
	Net          Replicator
	Logger       *zap.SugaredLogger
	Queue        *Queue
	Stats        *Stats
	PlayerSpawns []mgl64.Vec3
	EnemySpawns  []mgl64.Vec3
}

// Context is the explicit simulation state passed to every stage.
type Context struct {
	World   donburi.World
	Physics Physics
	Net     Replicator
	Log     *zap.SugaredLogger
	Queue   *Queue
	Stats   *Stats

	conns        map[ConnID]donburi.Entity
	joins        int
	playerSpawns []mgl64.Vec3
	enemySpawns  []mgl64.Vec3

	tick          uint64
	elapsed       float64
	warnedPhysics bool
	snapshotMu    sync.RWMutex
	lastSnapshot  Snapshot
}

// New creates a Context around world.
func New(world donburi.World, opts Options) *Context {
	c := &Context{
		World:        world,
		Physics:      opts.Physics,
		Net:          opts.Net,
		Log:          opts.Logger,
		Queue:        opts.Queue,
		Stats:        opts.Stats,
		conns:        make(map[ConnID]donburi.Entity),
		playerSpawns: opts.PlayerSpawns,
		enemySpawns:  opts.EnemySpawns,
	}
	if c.Log == nil {
		c.Log = zap.NewNop().Sugar()
	}
	if c.Net == nil {
		c.Net = nopReplicator{}
	}
	if c.Stats == nil {
		c.Stats = &Stats{}
	}
	if c.Queue == nil {
		c.Queue = NewQueue(0, c.Stats)
	}
	return c
}

// TickCount returns the number of completed ticks.
func (c *Context) TickCount() uint64 {
	return c.tick
}

// PlayerCount returns the number of connected players.
func (c *Context) PlayerCount() int {
	return len(c.conns)
}

// Entry resolves a connection to its player entry through the connection
// table. This is the Input Reconciler: message payloads are never consulted.
func (c *Context) Entry(conn ConnID) (*donburi.Entry, error) {
	e, ok := c.conns[conn]
	if !ok {
		return nil, ErrUnknownConnection
	}
	if !c.World.Valid(e) {
		return nil, ErrUnknownActor
	}
	return c.World.Entry(e), nil
}

// physicsAvailable logs the missing physics collaborator once.
func (c *Context) physicsAvailable() bool {
	if c.Physics != nil {
		return true
	}
	if !c.warnedPhysics {
		c.warnedPhysics = true
		c.Log.Warnw("[sim] no physics world, ray casts and player integration are skipped")
	}
	return false
}

type nopReplicator struct{}

func (nopReplicator) Track(donburi.Entity) error { return nil }
func (nopReplicator) Send(ConnID, any) error     { return nil }
func (nopReplicator) Broadcast(any) error        { return nil }
func (nopReplicator) Drop(ConnID, string) error  { return nil }
func (nopReplicator) Publish(*Snapshot) error    { return nil }
