package sim

import (
	"sync/atomic"
	"time"
)

// Stats holds simulation counters. All fields are safe to read from other
// goroutines.
type Stats struct {
	Ticks          atomic.Int64
	TickNanos      atomic.Int64
	InputsAccepted atomic.Int64
	InputsRejected atomic.Int64 // non-finite or from dead players
	Unresolved     atomic.Int64 // sender not in the connection table
	QueueDropped   atomic.Int64
	Shots          atomic.Int64
	Hits           atomic.Int64
	Kills          atomic.Int64
	Respawns       atomic.Int64
	Players        atomic.Int64
	Enemies        atomic.Int64
}

func (s *Stats) addTick(d time.Duration) {
	s.Ticks.Add(1)
	s.TickNanos.Add(d.Nanoseconds())
}

// Snapshot returns a read-only copy for HTTP output.
func (s *Stats) Snapshot() map[string]any {
	ticks := s.Ticks.Load()
	var avgMs float64
	if ticks > 0 {
		avgMs = float64(s.TickNanos.Load()) / float64(ticks) / 1e6
	}
	return map[string]any{
		"tick_count":      ticks,
		"avg_tick_ms":     avgMs,
		"inputs_accepted": s.InputsAccepted.Load(),
		"inputs_rejected": s.InputsRejected.Load(),
		"unresolved":      s.Unresolved.Load(),
		"queue_dropped":   s.QueueDropped.Load(),
		"shots":           s.Shots.Load(),
		"hits":            s.Hits.Load(),
		"kills":           s.Kills.Load(),
		"respawns":        s.Respawns.Load(),
		"players":         s.Players.Load(),
		"enemies":         s.Enemies.Load(),
	}
}
