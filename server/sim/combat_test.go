package sim

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/shared/messages"
)

func TestShootDamagesPlayerOncePerEvent(t *testing.T) {
	c, rec := newTestContext(t, Options{Physics: testPhysics()})

	shooter := mustConnect(t, c, 1)
	target := mustConnect(t, c, 2)
	place(c, shooter, mgl64.Vec3{0, 0, 0})
	place(c, target, mgl64.Vec3{0, 0, -8})

	shot := messages.ShootEvent{Origin: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{0, 0, -1}}

	if err := Shoot(c, 1, shot); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if h := health(target); h.Current != 75 || h.Max != 100 {
		t.Fatalf("health after one hit = %+v, want 75/100", h)
	}
	if h := health(shooter); h.Current != 100 {
		t.Fatalf("shooter damaged itself: %+v", h)
	}

	if err := Shoot(c, 1, shot); err != nil {
		t.Fatalf("Shoot: %v", err)
	}
	if h := health(target); h.Current != 50 {
		t.Fatalf("health after two hits = %+v, want 50/100", h)
	}

	if len(rec.broadcasts) != 2 {
		t.Fatalf("broadcasts = %d, want 2", len(rec.broadcasts))
	}
	hit, ok := rec.broadcasts[1].(messages.HitEvent)
	if !ok || hit.ShooterID != 1 || hit.TargetID != 2 || hit.TargetKind != messages.TargetPlayer {
		t.Fatalf("unexpected hit event %#v", rec.broadcasts[1])
	}
	if hit.RemainingHealth != 50 || hit.Damage != 25 {
		t.Fatalf("hit event = %+v", hit)
	}
}

func TestShootHealthFloorsAtZeroAndKills(t *testing.T) {
	c, rec := newTestContext(t, Options{Physics: testPhysics()})

	shooter := mustConnect(t, c, 1)
	target := mustConnect(t, c, 2)
	place(c, shooter, mgl64.Vec3{0, 0, 0})
	place(c, target, mgl64.Vec3{0, 0, -3})

	shot := messages.ShootEvent{Direction: mgl64.Vec3{0, 0, -1}}
	for i := 0; i < 5; i++ {
		if err := Shoot(c, 1, shot); err != nil {
			t.Fatalf("shot %d: %v", i, err)
		}
	}

	if h := health(target); h.Current != 0 {
		t.Fatalf("health = %v, want 0", h.Current)
	}
	if !isDead(target) {
		t.Fatalf("target not marked dead")
	}
	if !bodyOf(target).Disabled {
		t.Fatalf("dead body still collides")
	}

	var kills int
	for _, msg := range rec.broadcasts {
		if ev, ok := msg.(messages.KillEvent); ok {
			kills++
			if ev.KillerID != 1 || ev.VictimID != 2 {
				t.Fatalf("kill event = %+v", ev)
			}
		}
	}
	if kills != 1 {
		t.Fatalf("kill events = %d, want 1", kills)
	}
	if c.Stats.Hits.Load() != 4 || c.Stats.Shots.Load() != 5 {
		t.Fatalf("hits=%d shots=%d, want 4/5", c.Stats.Hits.Load(), c.Stats.Shots.Load())
	}
}

func TestShootEnemyIsLoggedNotDamaged(t *testing.T) {
	c, rec := newTestContext(t, Options{Physics: testPhysics()})

	shooter := mustConnect(t, c, 1)
	place(c, shooter, mgl64.Vec3{10, 1, 0})
	SpawnEnemies(c)

	shot := messages.ShootEvent{Origin: mgl64.Vec3{10, 1, 0}, Direction: mgl64.Vec3{0, 0, 1}}
	if err := Shoot(c, 1, shot); err != nil {
		t.Fatalf("Shoot: %v", err)
	}

	if len(rec.broadcasts) != 1 {
		t.Fatalf("broadcasts = %d, want 1", len(rec.broadcasts))
	}
	hit, ok := rec.broadcasts[0].(messages.HitEvent)
	if !ok || hit.TargetKind != messages.TargetEnemy || hit.TargetID != 1 || hit.Damage != 0 {
		t.Fatalf("unexpected event %#v", rec.broadcasts[0])
	}
	if d := hit.Distance; d < 9.49 || d > 9.51 {
		t.Fatalf("enemy hit distance = %v, want 9.5", d)
	}
}

func TestShootMissChangesNothing(t *testing.T) {
	c, rec := newTestContext(t, Options{Physics: testPhysics()})

	shooter := mustConnect(t, c, 1)
	target := mustConnect(t, c, 2)
	place(c, shooter, mgl64.Vec3{0, 0, 0})
	place(c, target, mgl64.Vec3{0, 0, -5})

	for _, dir := range []mgl64.Vec3{{0, 0, 1}, {}} {
		if err := Shoot(c, 1, messages.ShootEvent{Direction: dir}); err != nil {
			t.Fatalf("Shoot: %v", err)
		}
	}
	if h := health(target); h.Current != 100 {
		t.Fatalf("miss damaged target: %+v", h)
	}
	if len(rec.broadcasts) != 0 {
		t.Fatalf("miss broadcast %#v", rec.broadcasts)
	}
}

func TestShootWithoutPhysicsIsSkipped(t *testing.T) {
	c, _ := newTestContext(t, Options{})
	mustConnect(t, c, 1)
	target := mustConnect(t, c, 2)

	err := Shoot(c, 1, messages.ShootEvent{Direction: mgl64.Vec3{0, 0, -1}})
	if !errors.Is(err, ErrNoPhysics) {
		t.Fatalf("error = %v, want ErrNoPhysics", err)
	}
	if h := health(target); h.Current != 100 {
		t.Fatalf("health changed without physics: %+v", h)
	}
}

func TestShootFromUnknownConnection(t *testing.T) {
	c, _ := newTestContext(t, Options{Physics: testPhysics()})
	target := mustConnect(t, c, 2)
	place(c, target, mgl64.Vec3{0, 0, -5})

	err := Shoot(c, 99, messages.ShootEvent{Direction: mgl64.Vec3{0, 0, -1}})
	if !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("error = %v, want ErrUnknownConnection", err)
	}
	if h := health(target); h.Current != 100 {
		t.Fatalf("unresolved shot applied damage: %+v", h)
	}
}
