package match3

import (
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateResolving   GameStateType = "resolving"
	StatePaused      GameStateType = "paused"
	StateTimeUp      GameStateType = "time_up"
	StatePausedSmall GameStateType = "paused_small_window"
	StateError       GameStateType = "error"
)

// Snapshot captures the game state for determinism tests and screenshots.
type Snapshot struct {
	Tick     uint64        `json:"tick"`
	Mode     string        `json:"mode"`
	Score    int           `json:"score"`
	Moves    int           `json:"moves"`
	TimeLeft int           `json:"time_left,omitempty"`
	Cursor   m3.Coord      `json:"cursor"`
	Selected *m3.Coord     `json:"selected,omitempty"`
	Hint     *m3.Coord     `json:"hint,omitempty"`
	Board    m3.Snapshot   `json:"board"`
	Stats    m3.Stats      `json:"stats"`
	State    GameStateType `json:"state"`
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.board == nil:
		state = StateError
	case g.tooSmall:
		state = StatePausedSmall
	case g.gameOver || g.timer.Expired():
		state = StateTimeUp
	case g.paused:
		state = StatePaused
	case g.running.Load():
		state = StateResolving
	}

	s := Snapshot{
		Tick:   g.tick,
		Mode:   string(g.mode),
		Moves:  g.moves,
		Cursor: g.cursor.Pos(),
		State:  state,
	}
	if g.keeper != nil {
		s.Score = g.keeper.Score()
	}
	if g.timer.Enabled() {
		s.TimeLeft = g.timer.Remaining()
	}
	if sel, ok := g.cursor.Selected(); ok {
		s.Selected = &sel
	}
	if at, ok := g.hint.Visible(); ok {
		s.Hint = &at
	}
	if g.board != nil {
		s.Board = g.board.Snapshot()
		s.Stats = g.board.Stats()
	}
	return s
}
