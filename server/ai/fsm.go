// Package ai contains the enemy decision making: the patrol loop, the
// Patrol/Chase/Attack state machine and cooperative flocking. Every function
// is pure so the simulation can run them over a frozen per-tick snapshot.
package ai

// State is an enemy's behavioral state. It is private to the server and is
// never replicated.
type State int

const (
	StatePatrol State = iota
	StateChase
	StateAttack
)

func (s State) String() string {
	switch s {
	case StatePatrol:
		return "patrol"
	case StateChase:
		return "chase"
	case StateAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Ranges holds the distance thresholds that drive transitions.
// AttackRange < ChaseRange.
type Ranges struct {
	ChaseRange  float64
	AttackRange float64
}

// NextState returns the state an enemy moves to given its current state and
// the distance to the nearest player. hasTarget=false forces Patrol.
//
// Chase->Attack uses <= AttackRange while Attack->Chase needs > AttackRange,
// so exactly AttackRange holds Attack. Patrol<->Chase are plain thresholds at
// ChaseRange with no band.
func NextState(current State, dist float64, hasTarget bool, r Ranges) State {
	if !hasTarget {
		return StatePatrol
	}

	switch current {
	case StatePatrol:
		if dist <= r.ChaseRange {
			return StateChase
		}
	case StateChase:
		if dist <= r.AttackRange {
			return StateAttack
		}
		if dist > r.ChaseRange {
			return StatePatrol
		}
	case StateAttack:
		if dist > r.AttackRange && dist <= r.ChaseRange {
			return StateChase
		}
		if dist > r.ChaseRange {
			return StatePatrol
		}
	}
	return current
}
