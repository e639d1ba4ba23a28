package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/games/match3/autoplay"
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

var (
	flagSimMoves    int
	flagSimWidth    int
	flagSimHeight   int
	flagSimTypes    int
	flagSimStrategy string
	flagSimJSON     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Autoplay a board and print the results",
	Long: `Play a board without a player and print score, cascades, power-ups
and deadlock reshuffles. Board size and tile types default to the config.

Strategies:
  greedy - Take the swap that clears the most tiles right away
  random - Take any legal swap
  first  - Take the first legal swap found

Examples:
  match3 simulate
  match3 simulate --moves 500 --seed 7
  match3 simulate --width 6 --height 6 --types 4 --strategy random
  match3 simulate --json`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimMoves, "moves", 100, "Number of moves to play")
	simulateCmd.Flags().IntVar(&flagSimWidth, "width", 0, "Board width (0 = config)")
	simulateCmd.Flags().IntVar(&flagSimHeight, "height", 0, "Board height (0 = config)")
	simulateCmd.Flags().IntVar(&flagSimTypes, "types", 0, "Tile types (0 = config)")
	simulateCmd.Flags().StringVar(&flagSimStrategy, "strategy", string(autoplay.StrategyGreedy), "Move strategy: greedy, random, first")
	simulateCmd.Flags().BoolVar(&flagSimJSON, "json", false, "Print the result as JSON")
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfg := simulateConfig()
	player, err := autoplay.New(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	res, err := player.Run(cmd.Context(), flagSimMoves)
	if err != nil && !errors.Is(err, autoplay.ErrStuck) {
		return err
	}
	elapsed := time.Since(start)

	if flagSimJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(cmd.OutOrStdout(), cfg, res, elapsed)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "\nStopped early: %v\n", err)
	}
	return nil
}

func simulateConfig() autoplay.Config {
	cfg := autoplay.Config{
		Width:        settings.Board.Width,
		Height:       settings.Board.Height,
		Types:        settings.Board.Types,
		CascadeBonus: settings.Scoring.CascadeBonus,
		Seed:         flagSeed,
		Strategy:     autoplay.ParseStrategy(flagSimStrategy),
		Logger:       newLogger("match3-sim"),
	}
	if flagSimWidth > 0 {
		cfg.Width = flagSimWidth
	}
	if flagSimHeight > 0 {
		cfg.Height = flagSimHeight
	}
	if flagSimTypes > 0 {
		cfg.Types = flagSimTypes
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

func printResult(out io.Writer, cfg autoplay.Config, res autoplay.Result, elapsed time.Duration) {
	rows := []struct {
		label string
		value any
	}{
		{"Board", fmt.Sprintf("%dx%d, %d types", cfg.Width, cfg.Height, cfg.Types)},
		{"Strategy", cfg.Strategy},
		{"Seed", cfg.Seed},
		{"Moves", res.Moves},
		{"Score", res.Score},
		{"Matches", res.Scoring.Matches},
		{"Longest cascade", res.Scoring.LongestCascade},
		{"Bombs", res.Board.Bombs},
		{"Row/col clearers", res.Board.RowCols},
		{"Gems", res.Board.Gems},
		{"Detonations", res.Board.Detonations},
		{"Reshuffles", res.Reshuffles},
		{"No safe type", res.Board.NoSafeType},
		{"Elapsed", elapsed.Round(time.Millisecond)},
	}

	fmt.Fprintln(out, "Simulation")
	fmt.Fprintln(out)
	for _, r := range rows {
		fmt.Fprintf(out, "  %-18s %v\n", r.label, r.value)
	}

	if len(res.Scoring.ByType) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-10s %s\n", "Match", "Count")
	fmt.Fprintf(out, "  %-10s %s\n", "-----", "-----")
	for _, t := range []m3.MatchType{m3.Match3, m3.Match4, m3.Match5, m3.MatchCross} {
		if n := res.Scoring.ByType[t]; n > 0 {
			fmt.Fprintf(out, "  %-10s %d\n", t, n)
		}
	}
}
