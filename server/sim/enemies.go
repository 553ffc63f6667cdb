package sim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/components"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/server/ai"
	"github.com/tracerfps/tracer/server/physics"
	"github.com/tracerfps/tracer/shared/gamemath"
	"github.com/tracerfps/tracer/shared/netcomponents"
	"github.com/tracerfps/tracer/tags"
	"github.com/yohamta/donburi"
)

// SpawnEnemies creates one enemy per configured spawn point, or a single enemy
// at the default spawn. It refuses to spawn if any enemy already exists and
// returns the number created.
func SpawnEnemies(c *Context) int {
	if _, exists := tags.Enemy.First(c.World); exists {
		return 0
	}

	spawns := c.enemySpawns
	if len(spawns) == 0 {
		d := config.Enemy.DefaultSpawn
		spawns = []mgl64.Vec3{{d[0], d[1], d[2]}}
	}

	for i, pos := range spawns {
		pos[1] = config.Enemy.GroundHeight
		spawnEnemy(c, uint32(i+1), pos)
	}
	c.Stats.Enemies.Store(int64(len(spawns)))
	return len(spawns)
}

func spawnEnemy(c *Context, id uint32, pos mgl64.Vec3) {
	entity := c.World.Create(
		tags.Enemy,
		netcomponents.NetEnemy,
		netcomponents.NetPosition,
		components.Enemy,
		components.Body,
	)
	entry := c.World.Entry(entity)

	netcomponents.NetEnemy.SetValue(entry, netcomponents.NetEnemyData{ID: id})
	netcomponents.NetPosition.SetValue(entry, toNetPosition(pos))
	components.Enemy.SetValue(entry, components.EnemyData{
		State:  ai.StatePatrol,
		Patrol: ai.NewPatrol(pos, config.Enemy.PatrolRadius),
		Movement: components.EnemyMovement{
			Ranges: ai.Ranges{
				ChaseRange:  config.Enemy.ChaseRange,
				AttackRange: config.Enemy.AttackRange,
			},
			PatrolSpeed: config.Enemy.PatrolSpeed,
			ChaseSpeed:  config.Enemy.ChaseSpeed,
		},
		Flocking: ai.FlockParams{
			NeighborRange:      config.Flocking.NeighborRange,
			CohesionWeight:     config.Flocking.CohesionWeight,
			AlignmentWeight:    config.Flocking.AlignmentWeight,
			SeparationWeight:   config.Flocking.SeparationWeight,
			SeparationDistance: config.Flocking.SeparationDistance,
		},
	})
	if c.Physics != nil {
		components.Body.SetValue(entry, components.BodyData{
			Body: c.Physics.AddBody(entity, physics.Kinematic, pos),
		})
	}

	if err := c.Net.Track(entity); err != nil {
		c.Log.Warnw("[sim] failed to set up replication for enemy", "enemy", id, "error", err)
	}
	c.Log.Infow("[sim] enemy spawned", "enemy", id, "x", pos.X(), "y", pos.Y(), "z", pos.Z())
}

// UpdateEnemyStates runs the FSM for every enemy. All decisions read the
// positions as they were at the start of the tick.
func UpdateEnemyStates(c *Context) {
	targets := targetPositions(c)

	for _, entry := range enemyEntries(c) {
		enemy := components.Enemy.Get(entry)
		_, dist, ok := gamemath.Nearest(positionOf(entry), targets)

		next := ai.NextState(enemy.State, dist, ok, enemy.Movement.Ranges)
		if next != enemy.State {
			c.Log.Infow("[sim] enemy state changed",
				"enemy", netcomponents.NetEnemy.Get(entry).ID,
				"from", enemy.State, "to", next, "distance", dist)
			enemy.State = next
		}
	}
}

// UpdateFlocking computes steering for chasing enemies from a frozen snapshot
// of every enemy's position and previous steering. Others get zero.
func UpdateFlocking(c *Context) {
	entries := enemyEntries(c)
	flock := make([]ai.Boid, len(entries))
	for i, entry := range entries {
		flock[i] = ai.Boid{
			ID:       netcomponents.NetEnemy.Get(entry).ID,
			Position: positionOf(entry),
			Steering: components.Enemy.Get(entry).Steering,
		}
	}

	steering := make([]mgl64.Vec3, len(entries))
	for i, entry := range entries {
		enemy := components.Enemy.Get(entry)
		if enemy.State == ai.StateChase {
			steering[i] = ai.Steer(flock, i, enemy.Flocking)
		}
	}

	for i, entry := range entries {
		components.Enemy.Get(entry).Steering = steering[i]
	}
}

// MoveEnemies translates every enemy according to its state and clamps it to
// the enemy ground height.
func MoveEnemies(c *Context, dt float64) {
	targets := targetPositions(c)

	for _, entry := range enemyEntries(c) {
		enemy := components.Enemy.Get(entry)
		pos := positionOf(entry)

		switch enemy.State {
		case ai.StatePatrol:
			pos = movePatrol(enemy, pos, dt)
		case ai.StateChase, ai.StateAttack:
			pos = moveHunt(enemy, pos, targets, dt)
		}
		pos[1] = config.Enemy.GroundHeight

		netcomponents.NetPosition.SetValue(entry, toNetPosition(pos))
		if body := bodyOf(entry); body != nil && c.Physics != nil {
			c.Physics.MoveKinematic(body, pos)
		}
	}
}

func movePatrol(enemy *components.EnemyData, pos mgl64.Vec3, dt float64) mgl64.Vec3 {
	waypoint := enemy.Patrol.CurrentWaypoint()
	dir := gamemath.NormalizeOrZero(waypoint.Sub(pos))
	if gamemath.Distance(pos, waypoint) < config.Enemy.WaypointReached {
		enemy.Patrol.Advance()
	}
	return pos.Add(dir.Mul(enemy.Movement.PatrolSpeed * dt))
}

func moveHunt(enemy *components.EnemyData, pos mgl64.Vec3, targets []mgl64.Vec3, dt float64) mgl64.Vec3 {
	idx, _, ok := gamemath.Nearest(pos, targets)
	if !ok {
		return pos
	}
	target := targets[idx]

	speed := 0.0
	if enemy.State == ai.StateChase {
		speed = enemy.Movement.ChaseSpeed
	}

	dir := gamemath.BlendDirection(
		gamemath.NormalizeOrZero(target.Sub(pos)),
		enemy.Steering,
		config.Enemy.SteeringThreshold,
		config.Enemy.SeekWeight,
		config.Enemy.SteeringWeight,
	)
	pos = pos.Add(dir.Mul(speed * dt))

	if yaw, ok := gamemath.YawFacing(target.Sub(pos)); ok {
		enemy.Yaw = yaw
	}
	return pos
}

// targetPositions returns the positions of living players ordered by player
// id, so nearest-player ties resolve the same way every tick.
func targetPositions(c *Context) []mgl64.Vec3 {
	type target struct {
		id  uint64
		pos mgl64.Vec3
	}
	var ts []target
	tags.Player.Each(c.World, func(entry *donburi.Entry) {
		if isDead(entry) {
			return
		}
		ts = append(ts, target{netcomponents.NetPlayer.Get(entry).ID, positionOf(entry)})
	})
	sort.Slice(ts, func(i, j int) bool { return ts[i].id < ts[j].id })

	out := make([]mgl64.Vec3, len(ts))
	for i, t := range ts {
		out[i] = t.pos
	}
	return out
}

// enemyEntries returns every enemy ordered by enemy id.
func enemyEntries(c *Context) []*donburi.Entry {
	var entries []*donburi.Entry
	tags.Enemy.Each(c.World, func(entry *donburi.Entry) {
		entries = append(entries, entry)
	})
	sort.Slice(entries, func(i, j int) bool {
		return netcomponents.NetEnemy.Get(entries[i]).ID < netcomponents.NetEnemy.Get(entries[j]).ID
	})
	return entries
}
