// Package config provides Viper-based configuration loading for the skirmish simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// MatchConfig holds the settings a Game is constructed from.
type MatchConfig struct {
	// Rows is the number of grid rows (the y extent).
	Rows int `mapstructure:"rows"`
	// Cols is the number of grid columns (the x extent).
	Cols int `mapstructure:"cols"`
	// Teams is the number of teams in the match.
	Teams int `mapstructure:"teams"`
	// Seed seeds the deterministic random source. Zero selects crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// MoveHitDamage is the default collision damage for characters that do not set their own.
	MoveHitDamage int `mapstructure:"move_hit_damage"`
}

// SimulationConfig holds settings for the command-line simulator.
type SimulationConfig struct {
	// Rounds is how many rounds the simulator runs before stopping.
	Rounds int `mapstructure:"rounds"`
	// Scenario is the path of the YAML scenario to load.
	Scenario string `mapstructure:"scenario"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Match      MatchConfig      `mapstructure:"match"`
	Simulation SimulationConfig `mapstructure:"simulation"`
}

// DefaultMatch returns the match settings used when no configuration file is supplied.
//
// Postcondition: DefaultMatch().Validate() returns nil.
func DefaultMatch() MatchConfig {
	return MatchConfig{Rows: 11, Cols: 12, Teams: 2}
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := c.Match.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Validate checks the match settings.
//
// Postcondition: Returns nil iff Rows, Cols and Teams are positive and MoveHitDamage is non-negative.
func (m MatchConfig) Validate() error {
	var errs []string
	if m.Rows < 1 {
		errs = append(errs, fmt.Sprintf("match.rows must be >= 1, got %d", m.Rows))
	}
	if m.Cols < 1 {
		errs = append(errs, fmt.Sprintf("match.cols must be >= 1, got %d", m.Cols))
	}
	if m.Teams < 1 {
		errs = append(errs, fmt.Sprintf("match.teams must be >= 1, got %d", m.Teams))
	}
	if m.MoveHitDamage < 0 {
		errs = append(errs, fmt.Sprintf("match.move_hit_damage must be >= 0, got %d", m.MoveHitDamage))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	if s.Rounds < 0 {
		return fmt.Errorf("simulation.rounds must be >= 0, got %d", s.Rounds)
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKIRMISH_ prefix
	v.SetEnvPrefix("SKIRMISH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	m := DefaultMatch()
	v.SetDefault("match.rows", m.Rows)
	v.SetDefault("match.cols", m.Cols)
	v.SetDefault("match.teams", m.Teams)
	v.SetDefault("match.seed", 0)
	v.SetDefault("match.move_hit_damage", 0)

	v.SetDefault("simulation.rounds", 10)
	v.SetDefault("simulation.scenario", "content/scenarios/duel.yaml")
}
