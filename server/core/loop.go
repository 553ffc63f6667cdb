package core

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// GameLoop drives the simulation at a fixed tick rate. Every tick runs on the
// loop goroutine; nothing else touches the simulation context.
type GameLoop struct {
	server   *Server
	tickRate int
	log      *zap.SugaredLogger
	stopChan chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

func NewGameLoop(server *Server, tickRate int, log *zap.SugaredLogger) *GameLoop {
	return &GameLoop{
		server:   server,
		tickRate: tickRate,
		log:      log,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the loop on its own goroutine. Calls after the first are no-ops.
func (g *GameLoop) Start() {
	if g.started.CompareAndSwap(false, true) {
		go g.run()
	}
}

func (g *GameLoop) run() {
	defer close(g.done)

	ticker := time.NewTicker(time.Second / time.Duration(g.tickRate))
	defer ticker.Stop()

	g.log.Infow("[loop] game loop started", "tick_rate", g.tickRate)

	last := time.Now()
	for {
		select {
		case <-g.stopChan:
			g.log.Info("[loop] game loop stopped")
			return
		case now := <-ticker.C:
			g.tick(now.Sub(last).Seconds())
			last = now
		}
	}
}

// Stop ends the loop and waits for the current tick to finish. It is safe to
// call more than once, or on a loop that was never started.
func (g *GameLoop) Stop() {
	g.stopOnce.Do(func() {
		close(g.stopChan)
	})
	if g.started.Load() {
		<-g.done
	}
}

// tick clamps dt so a stalled process does not integrate one huge step.
func (g *GameLoop) tick(dt float64) {
	maxDt := 4.0 / float64(g.tickRate)
	if dt > maxDt {
		g.log.Warnw("[loop] tick overran, clamping dt", "dt", dt, "max", maxDt)
		dt = maxDt
	}
	g.server.sim.Tick(dt)
}
