package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tracerfps/tracer/assets"
	"github.com/tracerfps/tracer/config"
	"github.com/tracerfps/tracer/server/core"
	"github.com/tracerfps/tracer/server/logging"
	"github.com/tracerfps/tracer/shared/protocol"
)

func main() {
	configPath := flag.String("config", "tracer.yaml", "YAML config file (missing = defaults)")
	envFile := flag.String("env", ".env", "dotenv file (missing = skipped)")
	port := flag.Uint("port", 0, "Server port (overrides config)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate (overrides config)")
	name := flag.String("name", "", "Server display name (overrides config)")
	level := flag.String("level", "", "TMX arena on disk (default: embedded arena)")
	version := flag.String("version", "", "Version advertised to the master server")
	noPhysics := flag.Bool("no-physics", false, "Run without the physics world (no ray casts, players do not move)")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := config.LoadEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "env: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		config.Server.Port = *port
	}
	if *tickRate > 0 {
		config.Server.TickRate = *tickRate
	}
	if *name != "" {
		config.Server.Name = *name
	}
	if *level != "" {
		config.Server.LevelPath = *level
	}

	log, err := logging.New(config.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(log)

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalw("failed to register components", "error", err)
	}

	opts := core.Options{Logger: log, Version: *version}
	if !*noPhysics {
		arena, err := assets.NewLevelLoader(config.World.PixelsPerUnit).Load(config.Server.LevelPath)
		if err != nil {
			log.Fatalw("failed to load level", "error", err)
		}
		opts.Level = core.NewServerLevel(arena, log)
	}
	server := core.NewServer(opts)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info("shutting down server")
		server.Stop()
		logging.Sync(log)
		os.Exit(0)
	}()

	log.Infow("starting Tracer server",
		"name", config.Server.Name,
		"port", config.Server.Port,
		"tick_rate", config.Server.TickRate,
		"max_players", config.Server.MaxPlayers,
	)
	if err := server.Start(config.Server.Port); err != nil {
		log.Fatalw("server error", "error", err)
	}
}
