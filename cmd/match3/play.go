package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/platform/tui"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

const defaultMode = "match3"

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the given mode, match3 when none is given.

Controls:
  Arrows/WASD  - Move the cursor
  Space/Enter  - Select a tile, then a neighbor to swap
  Mouse        - Click two neighboring tiles
  H/?          - Show a hint
  P            - Pause
  R            - Restart (after time is up)
  Esc/B        - Back (when paused or over)
  Q/Ctrl+C     - Quit
  Ctrl+S       - Save a screenshot

Difficulty options:
  easy   - 5 tile types, 3:00 on the clock
  normal - 6 tile types, 2:00 on the clock
  hard   - 7 tile types, 1:30 on the clock
  fixed  - Config values as written, no progression

Examples:
  match3 play
  match3 play match3_zen
  match3 play --difficulty hard
  match3 play --config ./my-match3.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	mode := defaultMode
	if len(args) == 1 {
		mode = args[0]
	}
	if !registry.Exists(mode) {
		return fmt.Errorf("unknown mode %q, run 'match3 list' to see available modes", mode)
	}

	game, err := registry.Create(mode)
	if err != nil {
		return err
	}
	tui.ApplyPreset(game, preset())

	logger, logFile := tuiLogger()
	defer logFile.Close()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		// The game still works without scores.
		warnf("could not open scores database: %v", err)
	}

	var rec *tui.Recorder
	if store != nil {
		rec = tui.NewRecorder(store, "", logger)
		defer store.Close()
	}

	if err := tui.Run(game, rec, runtimeConfig()); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
