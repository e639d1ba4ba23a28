// Package config provides YAML-based configuration loading and
// difficulty management for the match-3 game.
package config

import (
	"errors"
	"fmt"
)

// Match3Config contains all configuration for a match-3 session.
type Match3Config struct {
	Board      Match3Board      `yaml:"board"`
	Scoring    Match3Scoring    `yaml:"scoring"`
	Timer      Match3Timer      `yaml:"timer"`
	Hint       Match3Hint       `yaml:"hint"`
	Motion     Match3Motion     `yaml:"motion"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// Match3Board defines the board geometry and tile palette.
type Match3Board struct {
	Width               int  `yaml:"width"`
	Height              int  `yaml:"height"`
	Types               int  `yaml:"types"`                 // Number of distinct tile types
	AllowInitialMatches bool `yaml:"allow_initial_matches"` // Skip safe-type selection on refill
	PoolHeadroom        int  `yaml:"pool_headroom"`         // Tiles preallocated per cell
}

// Match3Scoring defines how resolved matches turn into points.
type Match3Scoring struct {
	// CascadeBonus adds this many percent per cascade round to a match score.
	CascadeBonus int `yaml:"cascade_bonus"`
	// TimeBonus is the number of seconds a match of four or more adds in timed mode.
	TimeBonus float64 `yaml:"time_bonus"`
}

// Match3Timer defines the level countdown.
type Match3Timer struct {
	Enabled bool `yaml:"enabled"`
	Seconds int  `yaml:"seconds"`
}

// Match3Hint defines the idle hint indicator.
type Match3Hint struct {
	Enabled    bool `yaml:"enabled"`
	DelayTicks int  `yaml:"delay_ticks"` // Idle ticks before the hint shows
}

// Match3Motion defines transition lengths in simulation ticks. Zero is instant.
type Match3Motion struct {
	SwapTicks  int `yaml:"swap_ticks"`
	FallTicks  int `yaml:"fall_ticks"`
	SpawnTicks int `yaml:"spawn_ticks"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over a session.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	HintDelayGrowth float64 `yaml:"hint_delay_growth"` // Fraction added to the hint delay at max difficulty
	TimeBonusDecay  float64 `yaml:"time_bonus_decay"`  // Fraction removed from the time bonus at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a flag value to a preset. Unknown names are normal.
func ParsePreset(name string) DifficultyPreset {
	switch p := DifficultyPreset(name); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p
	default:
		return DifficultyNormal
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

var errInvalid = errors.New("config: invalid value")

// Validate rejects configurations the board cannot be built from.
func (c Match3Config) Validate() error {
	var errs []error
	check := func(bad bool, format string, args ...any) {
		if bad {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{errInvalid}, args...)...))
		}
	}

	check(c.Board.Width < 1, "board.width must be at least 1, got %d", c.Board.Width)
	check(c.Board.Height < 0, "board.height must not be negative, got %d", c.Board.Height)
	check(c.Board.Types < 2, "board.types must be at least 2, got %d", c.Board.Types)
	check(c.Board.PoolHeadroom < 1, "board.pool_headroom must be at least 1, got %d", c.Board.PoolHeadroom)
	check(c.Timer.Enabled && c.Timer.Seconds <= 0, "timer.seconds must be positive, got %d", c.Timer.Seconds)
	check(c.Hint.DelayTicks < 0, "hint.delay_ticks must not be negative, got %d", c.Hint.DelayTicks)
	check(c.Motion.SwapTicks < 0 || c.Motion.FallTicks < 0 || c.Motion.SpawnTicks < 0,
		"motion ticks must not be negative")
	check(c.Scoring.CascadeBonus < 0, "scoring.cascade_bonus must not be negative, got %d", c.Scoring.CascadeBonus)

	return errors.Join(errs...)
}

// IsInvalid reports whether err came from Validate.
func IsInvalid(err error) bool {
	return errors.Is(err, errInvalid)
}
