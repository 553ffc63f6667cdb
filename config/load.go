package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the tunable subset of the global config. Pointer fields
// distinguish "absent from the file" from a zero value.
type fileConfig struct {
	Server struct {
		Name       *string `yaml:"name"`
		Port       *uint   `yaml:"port"`
		AdminAddr  *string `yaml:"admin_addr"`
		TickRate   *int    `yaml:"tick_rate"`
		MaxPlayers *int    `yaml:"max_players"`
		MasterURL  *string `yaml:"master_url"`
		LevelPath  *string `yaml:"level"`
	} `yaml:"server"`
	Player struct {
		MaxHealth *float64 `yaml:"max_health"`
		MoveSpeed *float64 `yaml:"move_speed"`
	} `yaml:"player"`
	Enemy struct {
		ChaseRange   *float64 `yaml:"chase_range"`
		AttackRange  *float64 `yaml:"attack_range"`
		PatrolSpeed  *float64 `yaml:"patrol_speed"`
		ChaseSpeed   *float64 `yaml:"chase_speed"`
		PatrolRadius *float64 `yaml:"patrol_radius"`
	} `yaml:"enemy"`
	Flocking struct {
		NeighborRange      *float64 `yaml:"neighbor_range"`
		CohesionWeight     *float64 `yaml:"cohesion_weight"`
		AlignmentWeight    *float64 `yaml:"alignment_weight"`
		SeparationWeight   *float64 `yaml:"separation_weight"`
		SeparationDistance *float64 `yaml:"separation_distance"`
	} `yaml:"flocking"`
	Combat struct {
		Damage       *float64       `yaml:"damage"`
		RespawnDelay *time.Duration `yaml:"respawn_delay"`
	} `yaml:"combat"`
	Log struct {
		Level *string `yaml:"level"`
		File  *string `yaml:"file"`
	} `yaml:"log"`
}

// Load overlays the YAML file at path onto the current configuration and
// validates the result. A missing file is not an error.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Validate()
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse overlays YAML bytes onto the current configuration.
func Parse(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	set(&Server.Name, fc.Server.Name)
	set(&Server.Port, fc.Server.Port)
	set(&Server.AdminAddr, fc.Server.AdminAddr)
	set(&Server.TickRate, fc.Server.TickRate)
	set(&Server.MaxPlayers, fc.Server.MaxPlayers)
	set(&Server.MasterURL, fc.Server.MasterURL)
	set(&Server.LevelPath, fc.Server.LevelPath)

	set(&Player.MaxHealth, fc.Player.MaxHealth)
	set(&Player.MoveSpeed, fc.Player.MoveSpeed)

	set(&Enemy.ChaseRange, fc.Enemy.ChaseRange)
	set(&Enemy.AttackRange, fc.Enemy.AttackRange)
	set(&Enemy.PatrolSpeed, fc.Enemy.PatrolSpeed)
	set(&Enemy.ChaseSpeed, fc.Enemy.ChaseSpeed)
	set(&Enemy.PatrolRadius, fc.Enemy.PatrolRadius)

	set(&Flocking.NeighborRange, fc.Flocking.NeighborRange)
	set(&Flocking.CohesionWeight, fc.Flocking.CohesionWeight)
	set(&Flocking.AlignmentWeight, fc.Flocking.AlignmentWeight)
	set(&Flocking.SeparationWeight, fc.Flocking.SeparationWeight)
	set(&Flocking.SeparationDistance, fc.Flocking.SeparationDistance)

	set(&Combat.Damage, fc.Combat.Damage)
	set(&Combat.RespawnDelay, fc.Combat.RespawnDelay)

	set(&Log.Level, fc.Log.Level)
	set(&Log.File, fc.Log.File)

	return Validate()
}

// LoadEnv reads .env files (missing files are skipped) and applies TRACER_*
// environment overrides.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env %s: %w", f, err)
		}
	}

	if v := os.Getenv("TRACER_NAME"); v != "" {
		Server.Name = v
	}
	if v := os.Getenv("TRACER_PORT"); v != "" {
		port, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("TRACER_PORT: %w", err)
		}
		Server.Port = uint(port)
	}
	if v := os.Getenv("TRACER_TICK_RATE"); v != "" {
		rate, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TRACER_TICK_RATE: %w", err)
		}
		Server.TickRate = rate
	}
	if v := os.Getenv("TRACER_MASTER_URL"); v != "" {
		Server.MasterURL = v
	}
	if v := os.Getenv("TRACER_LOG_LEVEL"); v != "" {
		Log.Level = v
	}
	return Validate()
}

// Validate checks cross-field invariants of the loaded configuration.
func Validate() error {
	if Server.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", Server.TickRate)
	}
	if Server.InboundBuffer <= 0 {
		return fmt.Errorf("inbound buffer must be positive, got %d", Server.InboundBuffer)
	}
	if Enemy.AttackRange >= Enemy.ChaseRange {
		return fmt.Errorf("attack range %.2f must be below chase range %.2f", Enemy.AttackRange, Enemy.ChaseRange)
	}
	if Player.MaxHealth <= 0 {
		return fmt.Errorf("max health must be positive, got %.2f", Player.MaxHealth)
	}
	if Flocking.SeparationDistance <= 0 || Flocking.NeighborRange <= 0 {
		return fmt.Errorf("flocking ranges must be positive")
	}
	if Physics.SpaceCellSize <= 0 || Physics.SpaceScale <= 0 {
		return fmt.Errorf("physics space scale and cell size must be positive")
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
