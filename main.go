// Command tracer is a headless bot that joins a Tracer server, wanders with
// random movement and rotation, and fires periodically. It is meant for
// smoke-testing a running server.
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/network"
	"github.com/tracerfps/tracer/server/logging"
	"github.com/tracerfps/tracer/shared/gamemath"
	"github.com/tracerfps/tracer/shared/messages"
	"github.com/tracerfps/tracer/shared/protocol"
	"go.uber.org/zap"
)

const eyeHeight = 0.5

func main() {
	addr := flag.String("addr", "localhost:5000", "Server address (host:port)")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	rate := flag.Int("rate", 10, "Input messages per second")
	shootEvery := flag.Duration("shoot-every", 500*time.Millisecond, "Interval between shots")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Random seed")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	logCfg := config.Log
	logCfg.Level = *logLevel
	log, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalw("failed to register components", "error", err)
	}

	client := network.NewClient(log)
	client.Connect(*addr)
	defer client.Disconnect()

	var join messages.JoinAccepted
	select {
	case join = <-client.Joined():
	case <-time.After(10 * time.Second):
		log.Fatalw("timed out waiting to join", "addr", *addr, "state", client.State(), "error", client.LastError())
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	var stop <-chan time.Time
	if *duration > 0 {
		stop = time.After(*duration)
	}

	rng := rand.New(rand.NewPCG(*seed, *seed>>1))
	predictor := network.NewPredictor(join.Spawn, join.MoveSpeed)
	dt := time.Second / time.Duration(*rate)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()

	var (
		yaw, pitch float64
		move       messages.MovementInput
		lastShot   time.Time
		shots      int
	)
	for {
		select {
		case <-sigChan:
			log.Infow("[bot] interrupted", "shots", shots)
			return
		case <-stop:
			log.Infow("[bot] done", "shots", shots)
			return
		case now := <-ticker.C:
			if client.State() != network.StateJoinedGame {
				log.Warnw("[bot] connection lost", "state", client.State(), "error", client.LastError())
				return
			}

			yaw += rng.Float64()*30 - 15
			pitch = mgl64.Clamp(pitch+rng.Float64()*6-3, -20, 20)
			if rng.IntN(10) == 0 {
				move = messages.MovementInput{
					Forward: float64(rng.IntN(3) - 1),
					Right:   float64(rng.IntN(3) - 1),
				}
			}
			if err := client.SendRotation(yaw, pitch); err != nil {
				log.Warnw("[bot] send rotation", "error", err)
			}
			if err := client.SendMovement(move.Forward, move.Right); err != nil {
				log.Warnw("[bot] send movement", "error", err)
			}
			pos := predictor.Apply(yaw, move, dt.Seconds())

			if now.Sub(lastShot) >= *shootEvery {
				lastShot = now
				origin := mgl64.Vec3{pos.X(), eyeHeight, pos.Z()}
				if err := client.SendShot(origin, gamemath.LookDirection(yaw, pitch)); err != nil {
					log.Warnw("[bot] send shot", "error", err)
				}
				shots++
			}

			report(log, join.PlayerID, client, predictor)
		}
	}
}

// report logs combat events that concern this bot and resyncs the predictor
// on respawn.
func report(log *zap.SugaredLogger, self uint64, client *network.Client, predictor *network.Predictor) {
	for _, hit := range client.DrainHitEvents() {
		switch {
		case hit.ShooterID == self:
			log.Infow("[bot] hit", "target", hit.TargetID, "kind", hit.TargetKind, "distance", hit.Distance, "remaining", hit.RemainingHealth)
		case hit.TargetKind == messages.TargetPlayer && hit.TargetID == self:
			log.Infow("[bot] took damage", "shooter", hit.ShooterID, "damage", hit.Damage, "remaining", hit.RemainingHealth)
		}
	}
	for _, kill := range client.DrainKillEvents() {
		if kill.KillerID == self || kill.VictimID == self {
			log.Infow("[bot] kill", "killer", kill.KillerID, "victim", kill.VictimID)
		}
	}
	for _, ev := range client.DrainRespawnEvents() {
		if ev.PlayerID == self {
			predictor.Reset(mgl64.Vec3{ev.X, ev.Y, ev.Z})
			log.Infow("[bot] respawned", "x", ev.X, "y", ev.Y, "z", ev.Z)
		}
	}
}
