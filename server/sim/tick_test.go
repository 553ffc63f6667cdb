package sim

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/shared/messages"
)

func TestTickIntegratesPlayersThroughPhysics(t *testing.T) {
	c, rec := newTestContext(t, Options{Physics: testPhysics()})
	SpawnEnemies(c)

	c.Queue.PushLifecycle(1, Connected{})
	for i := 0; i < 90; i++ {
		c.Tick(1.0 / 30)
	}

	entry, err := c.Entry(1)
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	pos := positionOf(entry)
	if math.Abs(pos.Y()) > 1e-9 {
		t.Fatalf("player should rest on the ground at y=0, got %v", pos)
	}
	if !nearVec(pos, bodyOf(entry).Position) {
		t.Fatalf("store position %v out of sync with body %v", pos, bodyOf(entry).Position)
	}

	c.Queue.Push(1, messages.MovementInput{Forward: 1})
	c.Tick(1.0 / 30)
	after := positionOf(entry)
	if dz := after.Z() - pos.Z(); math.Abs(dz+5.0/30) > 1e-9 {
		t.Fatalf("moved %v along Z, want %v", dz, -5.0/30)
	}

	if len(rec.published) != 91 || rec.published[90].Tick != 91 {
		t.Fatalf("published %d snapshots", len(rec.published))
	}
	if c.TickCount() != 91 {
		t.Fatalf("tick count = %d", c.TickCount())
	}
}

func TestSnapshotHasOnlyReplicatedFields(t *testing.T) {
	c, _ := newTestContext(t, Options{})
	SpawnEnemies(c)
	mustConnect(t, c, 3)
	c.Tick(1.0 / 30)

	snap := c.LastSnapshot()
	if len(snap.Players) != 1 || len(snap.Enemies) != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Players[0].ID != 3 || snap.Enemies[0].ID != 1 {
		t.Fatalf("snapshot ids = %d/%d", snap.Players[0].ID, snap.Enemies[0].ID)
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, private := range []string{"State", "state", "Patrol", "patrol", "Steering", "steering", "Waypoints"} {
		if strings.Contains(string(raw), private) {
			t.Fatalf("snapshot leaks %q: %s", private, raw)
		}
	}
}

func TestTickEnemyChasesNearbyPlayer(t *testing.T) {
	c, _ := newTestContext(t, Options{})
	SpawnEnemies(c)
	place(c, mustConnect(t, c, 1), mgl64.Vec3{10, 1, 13})

	c.Tick(0.1)
	e := enemyByID(t, c, 1)
	if got := positionOf(e); !nearVec(got, mgl64.Vec3{10, 1, 10.4}) {
		t.Fatalf("enemy after one chase tick = %v, want (10,1,10.4)", got)
	}
}
