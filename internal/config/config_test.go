package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Match: DefaultMatch(),
		Simulation: SimulationConfig{
			Rounds:   10,
			Scenario: "content/scenarios/duel.yaml",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultMatch(t *testing.T) {
	m := DefaultMatch()
	assert.Equal(t, 11, m.Rows)
	assert.Equal(t, 12, m.Cols)
	assert.Equal(t, 2, m.Teams)
	assert.NoError(t, m.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
match:
  rows: 5
  cols: 7
  teams: 3
  seed: 42
  move_hit_damage: 15
simulation:
  rounds: 3
  scenario: /tmp/arena.yaml
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Match.Rows)
	assert.Equal(t, 7, cfg.Match.Cols)
	assert.Equal(t, 3, cfg.Match.Teams)
	assert.Equal(t, uint64(42), cfg.Match.Seed)
	assert.Equal(t, 15, cfg.Match.MoveHitDamage)
	assert.Equal(t, 3, cfg.Simulation.Rounds)
	assert.Equal(t, "/tmp/arena.yaml", cfg.Simulation.Scenario)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, DefaultMatch().Rows, cfg.Match.Rows)
	assert.Equal(t, DefaultMatch().Cols, cfg.Match.Cols)
	assert.Equal(t, 10, cfg.Simulation.Rounds)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "env.yaml")
	require.NoError(t, os.WriteFile(path, []byte("match:\n  rows: 4\n"), 0644))
	t.Setenv("SKIRMISH_MATCH_ROWS", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Match.Rows)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadFromViper_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("logging.level", "info")
	v.Set("logging.format", "json")
	v.Set("match.rows", 0)
	v.Set("match.cols", 3)
	v.Set("match.teams", 2)
	_, err := LoadFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match.rows")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateMatch_ReportsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Match.Rows = 0
	cfg.Match.Teams = 0
	cfg.Match.MoveHitDamage = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match.rows")
	assert.Contains(t, err.Error(), "match.teams")
	assert.Contains(t, err.Error(), "match.move_hit_damage")
}

func TestValidateSimulationRounds(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.Rounds = -1
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyPositiveDimensionsValid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Match.Rows = rapid.IntRange(1, 500).Draw(t, "rows")
		cfg.Match.Cols = rapid.IntRange(1, 500).Draw(t, "cols")
		cfg.Match.Teams = rapid.IntRange(1, 16).Draw(t, "teams")
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid match %+v rejected: %v", cfg.Match, err)
		}
	})
}

func TestPropertyNonPositiveDimensionsInvalid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.Match.Cols = rapid.IntRange(-100, 0).Draw(t, "cols")
		if err := cfg.Validate(); err == nil {
			t.Fatalf("cols=%d accepted", cfg.Match.Cols)
		}
	})
}
