package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

const saveTimeout = 3 * time.Second

// reporter is implemented by games that summarize a session.
type reporter interface {
	Report() match3.Report
}

// Recorder saves finished sessions for one player. A nil Recorder or one
// without a store records nothing.
type Recorder struct {
	store     storage.Store
	player    string
	logger    *log.Logger
	sessionID string
}

// NewRecorder creates a recorder. An empty player name is recorded as
// "local".
func NewRecorder(store storage.Store, player string, logger *log.Logger) *Recorder {
	if player == "" {
		player = "local"
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Recorder{
		store:     store,
		player:    player,
		logger:    logger,
		sessionID: uuid.NewString(),
	}
}

// Store returns the backing store, which may be nil.
func (r *Recorder) Store() storage.Store {
	if r == nil {
		return nil
	}
	return r.store
}

// SessionID returns the ID the next recorded session is saved under.
func (r *Recorder) SessionID() string {
	if r == nil {
		return ""
	}
	return r.sessionID
}

// Renew starts a new session ID.
func (r *Recorder) Renew() {
	if r != nil {
		r.sessionID = uuid.NewString()
	}
}

// Result builds the session result for game.
func (r *Recorder) Result(game registry.Game, reason string) storage.SessionResult {
	state := game.State()
	res := storage.SessionResult{
		SessionID: r.sessionID,
		GameID:    game.ID(),
		Player:    r.player,
		Score:     state.Score,
		Swaps:     state.Moves,
		EndReason: reason,
	}
	if rep, ok := game.(reporter); ok {
		report := rep.Report()
		res.Score = report.Score
		res.Swaps = report.Moves
		res.Matches = report.Scoring.Matches
		res.LongestCascade = report.Scoring.LongestCascade
		res.Powerups = report.Powerups()
		res.Reshuffles = report.Reshuffles
		res.Duration = report.Seconds
	}
	return res
}

// Record saves the score and session of game. Sessions without a swap or
// a point are skipped. Errors are logged.
func (r *Recorder) Record(game registry.Game, reason string) {
	if r == nil || r.store == nil {
		return
	}
	res := r.Result(game, reason)
	if res.Score <= 0 && res.Swaps <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if res.Score > 0 {
		if _, err := r.store.SaveScore(ctx, res.GameID, res.Score); err != nil {
			r.logger.Error("cannot save score", "game", res.GameID, "err", err)
		}
	}
	if _, err := r.store.SaveSession(ctx, res); err != nil {
		r.logger.Error("cannot save session", "session", res.SessionID, "err", err)
		return
	}
	r.logger.Info("session recorded",
		"session", res.SessionID,
		"game", res.GameID,
		"player", res.Player,
		"score", res.Score,
		"reason", reason,
	)
}
