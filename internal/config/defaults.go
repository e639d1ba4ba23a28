package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the built-in configuration.
// It mirrors defaults/match3.yaml and is used when the embed cannot be parsed.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: Match3Board{
			Width:        8,
			Height:       8,
			Types:        6,
			PoolHeadroom: 2,
		},
		Scoring: Match3Scoring{
			TimeBonus: 2,
		},
		Timer: Match3Timer{
			Enabled: true,
			Seconds: 120,
		},
		Hint: Match3Hint{
			Enabled:    true,
			DelayTicks: 300,
		},
		Motion: Match3Motion{
			SwapTicks:  8,
			FallTicks:  6,
			SpawnTicks: 10,
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 5000,
			},
			Scaling: ScalingConfig{
				HintDelayGrowth: 1.0,
				TimeBonusDecay:  0.75,
			},
		},
	}
}
