package assets

import (
	"math"
	"testing"
)

func TestDefaultArena(t *testing.T) {
	arena, err := NewLevelLoader(16).Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if arena.Width != 40 || arena.Depth != 40 {
		t.Fatalf("arena extent = %vx%v, want 40x40", arena.Width, arena.Depth)
	}
	if len(arena.PlayerSpawns) != 4 {
		t.Fatalf("got %d player spawns, want 4", len(arena.PlayerSpawns))
	}
	for i, s := range arena.PlayerSpawns {
		if s.Index != i {
			t.Fatalf("spawn %d has index %d", i, s.Index)
		}
		if r := math.Hypot(s.X, s.Z); math.Abs(r-3) > 1e-9 {
			t.Fatalf("spawn %d at radius %v, want 3", i, r)
		}
	}
	if len(arena.EnemySpawns) != 1 || arena.EnemySpawns[0].X != 10 || arena.EnemySpawns[0].Z != 10 {
		t.Fatalf("enemy spawns = %+v", arena.EnemySpawns)
	}
	if len(arena.Obstacles) == 0 {
		t.Fatalf("arena has no obstacles")
	}
	for _, o := range arena.Obstacles {
		if o.MinX < -20 || o.MaxX > 20 || o.MinZ < -20 || o.MaxZ > 20 || o.MinX >= o.MaxX || o.MinZ >= o.MaxZ {
			t.Fatalf("obstacle out of bounds: %+v", o)
		}
	}
}

func TestListLevelNames(t *testing.T) {
	names, err := NewLevelLoader(16).ListLevelNames()
	if err != nil {
		t.Fatalf("ListLevelNames: %v", err)
	}
	if len(names) != 1 || names[0] != "arena" {
		t.Fatalf("names = %v, want [arena]", names)
	}
}
