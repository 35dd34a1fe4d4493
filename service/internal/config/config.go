package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	engine "github.com/jason-s-yu/dobon/engine"
	"github.com/jason-s-yu/dobon/engine/agent"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DOBON_CPU_DELAY.
const EnvPrefix = "DOBON"

// Config holds every tunable of the host and the simulator.
type Config struct {
	Seed           uint64        `mapstructure:"seed"`             // 0 picks random seeds
	CardsPerPlayer int           `mapstructure:"cards_per_player"` // hand size at the deal
	MaxTurns       int           `mapstructure:"max_turns"`        // 0 = unlimited
	CPUDelay       time.Duration `mapstructure:"cpu_delay"`
	CPU1Level      string        `mapstructure:"cpu1_level"`
	CPU2Level      string        `mapstructure:"cpu2_level"`
	CPU3Level      string        `mapstructure:"cpu3_level"`
	HumanLevel     string        `mapstructure:"human_level"` // autopilot for simulations
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"` // text, json
	SimGames       int           `mapstructure:"sim_games"`
	SimWorkers     int           `mapstructure:"sim_workers"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("seed", 0)
	v.SetDefault("cards_per_player", 5)
	v.SetDefault("max_turns", 0)
	v.SetDefault("cpu_delay", "600ms")
	v.SetDefault("cpu1_level", agent.LevelGreedy.String())
	v.SetDefault("cpu2_level", agent.LevelWeighted.String())
	v.SetDefault("cpu3_level", agent.LevelKeepField.String())
	v.SetDefault("human_level", agent.LevelWeighted.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("sim_games", 1000)
	v.SetDefault("sim_workers", 4)
}

// Load reads configuration in increasing priority: defaults, the YAML file
// at path (optional when empty), then DOBON_* environment variables. Each
// envFile is loaded into the environment first; with none given an optional
// ".env" in the working directory is used.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("loading env files: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the engine or host cannot run with.
func (c *Config) Validate() error {
	if c.CardsPerPlayer < 1 || c.CardsPerPlayer > 255 {
		return fmt.Errorf("cards_per_player must be positive, got %d", c.CardsPerPlayer)
	}
	if err := c.Rules().Validate(); err != nil {
		return fmt.Errorf("cards_per_player: %w", err)
	}
	if c.MaxTurns < 0 || c.MaxTurns > 65535 {
		return fmt.Errorf("max_turns out of range: %d", c.MaxTurns)
	}
	if c.CPUDelay < 0 {
		return fmt.Errorf("cpu_delay must not be negative, got %s", c.CPUDelay)
	}
	if _, err := c.Seats(); err != nil {
		return err
	}
	if _, err := agent.ParseLevel(c.HumanLevel); err != nil {
		return fmt.Errorf("human_level: %w", err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.SimGames < 1 {
		return fmt.Errorf("sim_games must be positive, got %d", c.SimGames)
	}
	if c.SimWorkers < 1 {
		return fmt.Errorf("sim_workers must be positive, got %d", c.SimWorkers)
	}
	return nil
}

// Rules converts the match settings for the engine.
func (c *Config) Rules() engine.HouseRules {
	return engine.HouseRules{
		CardsPerPlayer: uint8(c.CardsPerPlayer),
		MaxTurns:       uint16(c.MaxTurns),
	}
}

// Seats returns the CPU seat levels; the human seat is left to the host.
func (c *Config) Seats() (agent.Seats, error) {
	var seats agent.Seats
	for i, s := range []string{c.CPU1Level, c.CPU2Level, c.CPU3Level} {
		level, err := agent.ParseLevel(s)
		if err != nil {
			return seats, fmt.Errorf("cpu%d_level: %w", i+1, err)
		}
		if level == agent.LevelNone {
			return seats, fmt.Errorf("cpu%d_level must name a strategy", i+1)
		}
		seats[i+1] = level
	}
	return seats, nil
}

// SimSeats is Seats with the human seat on autopilot.
func (c *Config) SimSeats() (agent.Seats, error) {
	seats, err := c.Seats()
	if err != nil {
		return seats, err
	}
	level, err := agent.ParseLevel(c.HumanLevel)
	if err != nil {
		return seats, fmt.Errorf("human_level: %w", err)
	}
	if level == agent.LevelNone {
		return seats, errors.New("human_level must name a strategy for simulations")
	}
	seats[engine.RoleHuman] = level
	return seats, nil
}
