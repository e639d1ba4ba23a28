package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top high scores and the latest sessions of a mode.

Examples:
  match3 scores match3
  match3 scores match3_zen --limit 25`,
	Args: cobra.ExactArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", storage.DefaultLimit, "Number of scores to show")
}

func runScores(cmd *cobra.Command, args []string) error {
	mode := args[0]
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'match3 list' to see available modes", mode)
	}
	game, err := registry.Create(mode)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return printScores(cmd.Context(), cmd, store, mode, game.Title(), flagScoresLimit)
}

func printScores(ctx context.Context, cmd *cobra.Command, store storage.Store, mode, title string, limit int) error {
	out := cmd.OutOrStdout()
	scores, err := store.TopScores(ctx, mode, limit)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "High Scores - %s\n\n", title)
	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Play 'match3 play %s' to set the first high score!\n", mode)
		return nil
	}

	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Fprintf(out, "  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Fprintf(out, "  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Fprintln(out)
	if best, err := store.HighScore(ctx, mode); err == nil {
		fmt.Fprintf(out, "Best: %d\n", best)
	}

	recent, err := store.RecentSessions(ctx, mode, 5)
	if err != nil || len(recent) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Recent sessions:")
	for _, s := range recent {
		fmt.Fprintf(out, "  %s  %-12s %6d pts  %3d swaps  x%d cascade  %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.Player, s.Score, s.Swaps, s.LongestCascade, s.EndReason)
	}
	return nil
}
