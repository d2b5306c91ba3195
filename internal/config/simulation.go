// Package config loads runner settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// TeamConfig selects how one side orders its creatures.
type TeamConfig struct {
	Mode    string `yaml:"mode"`     // front, back, optimise
	SortKey string `yaml:"sort_key"` // hp, attack, defense, speed, level (optimise only)
}

// Simulation holds all configuration for the battle runner.
type Simulation struct {
	LogLevel string `yaml:"log_level"`

	// Data files; empty means the embedded defaults.
	EffectivenessPath string `yaml:"effectiveness_path"`
	SpeciesPath       string `yaml:"species_path"`

	// Batch
	Seed     uint64 `yaml:"seed"`
	Battles  int    `yaml:"battles"`
	Workers  int    `yaml:"workers"`
	MaxTurns int    `yaml:"max_turns"` // 0 = unlimited

	// Teams
	Level int        `yaml:"level"`
	Team1 TeamConfig `yaml:"team1"`
	Team2 TeamConfig `yaml:"team2"`
}

// DefaultSimulation returns Simulation config with sensible defaults.
func DefaultSimulation() Simulation {
	return Simulation{
		LogLevel: "info",
		Seed:     1,
		Battles:  100,
		Workers:  4,
		MaxTurns: 1000,
		Level:    5,
		Team1:    TeamConfig{Mode: "front", SortKey: "hp"},
		Team2:    TeamConfig{Mode: "optimise", SortKey: "hp"},
	}
}

// Validate checks numeric bounds. Mode names are parsed by the runner.
func (s Simulation) Validate() error {
	switch {
	case s.Battles < 1:
		return fmt.Errorf("%w: battles must be positive, got %d", ErrInvalidConfig, s.Battles)
	case s.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, s.Workers)
	case s.MaxTurns < 0:
		return fmt.Errorf("%w: max_turns must not be negative, got %d", ErrInvalidConfig, s.MaxTurns)
	case s.Level < 1:
		return fmt.Errorf("%w: level must be at least 1, got %d", ErrInvalidConfig, s.Level)
	}
	return nil
}

// LoadSimulation loads runner config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulation(path string) (Simulation, error) {
	cfg := DefaultSimulation()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
