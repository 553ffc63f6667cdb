package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/components"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/server/physics"
	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/yohamta/donburi"
	"go.uber.org/zap/zaptest"
)

// recorder is an in-memory Replicator.
type recorder struct {
	tracked    []donburi.Entity
	sent       map[ConnID][]any
	broadcasts []any
	dropped    []ConnID
	published  []*Snapshot
}

func (r *recorder) Track(e donburi.Entity) error {
	r.tracked = append(r.tracked, e)
	return nil
}

func (r *recorder) Send(conn ConnID, msg any) error {
	if r.sent == nil {
		r.sent = make(map[ConnID][]any)
	}
	r.sent[conn] = append(r.sent[conn], msg)
	return nil
}

func (r *recorder) Broadcast(msg any) error {
	r.broadcasts = append(r.broadcasts, msg)
	return nil
}

func (r *recorder) Drop(conn ConnID, _ string) error {
	r.dropped = append(r.dropped, conn)
	return nil
}

func (r *recorder) Publish(snap *Snapshot) error {
	r.published = append(r.published, snap)
	return nil
}

func testPhysics() *physics.World {
	return physics.NewWorld(physics.Config{
		Gravity:           9.81,
		GroundHeight:      -1,
		CapsuleRadius:     0.5,
		CapsuleHalfHeight: 0.5,
		ObstacleHeight:    3,
		Scale:             8,
		CellSize:          8,
		Width:             40,
		Depth:             40,
	})
}

// newTestContext resets the global config and returns a context with an
// in-memory replicator. opts.Physics, spawns and the queue are kept.
func newTestContext(t *testing.T, opts Options) (*Context, *recorder) {
	t.Helper()
	config.Reset()
	t.Cleanup(config.Reset)

	rec := &recorder{}
	opts.Net = rec
	opts.Logger = zaptest.NewLogger(t).Sugar()
	return New(donburi.NewWorld(), opts), rec
}

func mustConnect(t *testing.T, c *Context, conn ConnID) *donburi.Entry {
	t.Helper()
	entry, err := Connect(c, conn)
	if err != nil {
		t.Fatalf("Connect(%d): %v", conn, err)
	}
	return entry
}

// place moves an actor's authoritative position and its body.
func place(c *Context, entry *donburi.Entry, pos mgl64.Vec3) {
	netcomponents.NetPosition.SetValue(entry, toNetPosition(pos))
	if body := bodyOf(entry); body != nil {
		c.Physics.Teleport(body, pos)
	}
}

func enemyByID(t *testing.T, c *Context, id uint32) *donburi.Entry {
	t.Helper()
	for _, entry := range enemyEntries(c) {
		if netcomponents.NetEnemy.Get(entry).ID == id {
			return entry
		}
	}
	t.Fatalf("enemy %d not found", id)
	return nil
}

func health(entry *donburi.Entry) netcomponents.NetHealthData {
	return *netcomponents.NetHealth.Get(entry)
}

func velocity(entry *donburi.Entry) mgl64.Vec3 {
	return components.Player.Get(entry).Velocity
}

func nearVec(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}
