package leveldata

import (
	"math"
	"testing"
	"testing/fstest"
)

const testTMX = `<?xml version="1.0" encoding="UTF-8"?>
<map version="1.10" tiledversion="1.10.2" orientation="orthogonal" renderorder="right-down" width="4" height="3" tilewidth="16" tileheight="16" infinite="0" nextlayerid="5" nextobjectid="5">
 <tileset firstgid="1" name="solid" tilewidth="16" tileheight="16" tilecount="1" columns="1">
  <image source="solid.png" width="16" height="16"/>
 </tileset>
 <layer id="1" name="solid" width="4" height="3">
  <data encoding="csv">
1,1,0,1,
0,0,0,0,
0,1,1,1
</data>
 </layer>
 <objectgroup id="2" name="Obstacles">
  <object id="1" x="8" y="16" width="16" height="8"/>
 </objectgroup>
 <objectgroup id="3" name="PlayerSpawn">
  <object id="2" x="48" y="24">
   <properties>
    <property name="spawnIndex" type="int" value="1"/>
   </properties>
   <point/>
  </object>
  <object id="3" x="16" y="24">
   <properties>
    <property name="spawnIndex" type="int" value="0"/>
   </properties>
   <point/>
  </object>
 </objectgroup>
 <objectgroup id="4" name="EnemySpawn">
  <object id="4" x="32" y="8">
   <point/>
  </object>
 </objectgroup>
</map>
`

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLoadArena(t *testing.T) {
	fsys := fstest.MapFS{"levels/tiny.tmx": {Data: []byte(testTMX)}}

	arena, err := LoadArena(fsys, "levels/tiny.tmx", 16)
	if err != nil {
		t.Fatalf("LoadArena: %v", err)
	}
	if arena.Name != "tiny" || !near(arena.Width, 4) || !near(arena.Depth, 3) {
		t.Fatalf("arena = %q %vx%v, want tiny 4x3", arena.Name, arena.Width, arena.Depth)
	}

	wantObstacles := []Obstacle{
		{MinX: -2, MinZ: -1.5, MaxX: 0, MaxZ: -0.5},
		{MinX: 1, MinZ: -1.5, MaxX: 2, MaxZ: -0.5},
		{MinX: -1, MinZ: 0.5, MaxX: 2, MaxZ: 1.5},
		{MinX: -1.5, MinZ: -0.5, MaxX: -0.5, MaxZ: 0},
	}
	if len(arena.Obstacles) != len(wantObstacles) {
		t.Fatalf("got %d obstacles, want %d: %+v", len(arena.Obstacles), len(wantObstacles), arena.Obstacles)
	}
	for i, want := range wantObstacles {
		got := arena.Obstacles[i]
		if !near(got.MinX, want.MinX) || !near(got.MinZ, want.MinZ) || !near(got.MaxX, want.MaxX) || !near(got.MaxZ, want.MaxZ) {
			t.Fatalf("obstacle %d = %+v, want %+v", i, got, want)
		}
	}

	if len(arena.PlayerSpawns) != 2 {
		t.Fatalf("got %d player spawns, want 2", len(arena.PlayerSpawns))
	}
	if s := arena.PlayerSpawns[0]; s.Index != 0 || !near(s.X, -1) || !near(s.Z, 0) {
		t.Fatalf("first player spawn = %+v", s)
	}
	if s := arena.PlayerSpawns[1]; s.Index != 1 || !near(s.X, 1) || !near(s.Z, 0) {
		t.Fatalf("second player spawn = %+v", s)
	}

	if len(arena.EnemySpawns) != 1 || !near(arena.EnemySpawns[0].X, 0) || !near(arena.EnemySpawns[0].Z, -1) {
		t.Fatalf("enemy spawns = %+v", arena.EnemySpawns)
	}
}

func TestLoadArenaPixelScale(t *testing.T) {
	fsys := fstest.MapFS{"tiny.tmx": {Data: []byte(testTMX)}}

	arena, err := LoadArena(fsys, "tiny.tmx", 32)
	if err != nil {
		t.Fatalf("LoadArena: %v", err)
	}
	if !near(arena.Width, 2) || !near(arena.Depth, 1.5) {
		t.Fatalf("arena extent = %vx%v, want 2x1.5", arena.Width, arena.Depth)
	}
	if s := arena.EnemySpawns[0]; !near(s.X, 0) || !near(s.Z, -0.5) {
		t.Fatalf("enemy spawn = %+v", s)
	}
}

func TestLoadArenaErrors(t *testing.T) {
	if _, err := LoadArena(fstest.MapFS{}, "missing.tmx", 16); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, _, err := LoadAllArenas(fstest.MapFS{}, "levels", 16); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestLoadAllArenas(t *testing.T) {
	fsys := fstest.MapFS{
		"levels/b.tmx": {Data: []byte(testTMX)},
		"levels/a.tmx": {Data: []byte(testTMX)},
	}
	arenas, names, err := LoadAllArenas(fsys, "levels", 16)
	if err != nil {
		t.Fatalf("LoadAllArenas: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("names = %v", names)
	}
	if arenas["a"] == nil || arenas["b"] == nil {
		t.Fatalf("arenas = %v", arenas)
	}
}
