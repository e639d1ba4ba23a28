package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to pick a mode, left/right or h/l to pick the
difficulty, Enter to play. After a game you return to the menu.

Controls:
  Up/Down/j/k     - Navigate modes
  Left/Right/h/l  - Change difficulty
  Enter/Space     - Play
  Tab             - Scoreboard
  Q               - Quit

Examples:
  match3 menu
  match3 menu --fps 30
  match3 menu --db ./scores.db`,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, logFile := tuiLogger()
	defer logFile.Close()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		warnf("could not open scores database: %v", err)
	}
	var rec *tui.Recorder
	if store != nil {
		rec = tui.NewRecorder(store, "", logger)
		defer store.Close()
	}

	cfg := runtimeConfig()
	chosen := preset()

	for {
		res, err := tui.RunMenu(cfg, chosen)
		if err != nil {
			return err
		}
		cfg = res.Config
		chosen = res.Preset

		switch {
		case res.Quit:
			return nil

		case res.WantsScoreboard:
			goBack, err := tui.RunScoreboard(rec.Store(), cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return err
			}
			if !goBack {
				return nil
			}
			continue
		}

		game, err := registry.Create(res.GameID)
		if err != nil {
			logger.Error("cannot create game", "mode", res.GameID, "err", err)
			continue
		}
		tui.ApplyPreset(game, chosen)

		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}
		if err := tui.Run(game, rec, cfg); err != nil {
			return fmt.Errorf("running game: %w", err)
		}
	}
}
