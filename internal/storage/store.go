// Package storage persists match-3 scores and finished session results.
// SQLite is the local backend; internal/storage/redis shares a leaderboard
// between server instances.
package storage

import (
	"context"
	"errors"
	"time"
)

// DefaultLimit is used when a query is given a non-positive limit.
const DefaultLimit = 10

// ErrNotFound is returned when a session lookup has no row.
var ErrNotFound = errors.New("storage: not found")

// Store is implemented by every score backend.
type Store interface {
	SaveScore(ctx context.Context, gameID string, score int) (int64, error)
	TopScores(ctx context.Context, gameID string, limit int) ([]ScoreEntry, error)
	HighScore(ctx context.Context, gameID string) (int, error)
	ClearScores(ctx context.Context, gameID string) error

	SaveSession(ctx context.Context, result SessionResult) (int64, error)
	Session(ctx context.Context, sessionID string) (*SessionResult, error)
	RecentSessions(ctx context.Context, gameID string, limit int) ([]SessionResult, error)

	GameStats(ctx context.Context, gameID string) (*GameStats, error)
	Close() error
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	GameID    string    `json:"game_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// End reasons recorded with a session.
const (
	EndTimeout = "timeout"
	EndQuit    = "quit"
	EndRestart = "restart"
)

// SessionResult summarizes one finished play session.
type SessionResult struct {
	ID             int64     `json:"id"`
	SessionID      string    `json:"session_id"`
	GameID         string    `json:"game_id"`
	Player         string    `json:"player"`
	Score          int       `json:"score"`
	Swaps          int       `json:"swaps"`
	Matches        int       `json:"matches"`
	LongestCascade int       `json:"longest_cascade"`
	Powerups       int       `json:"powerups"`
	Reshuffles     int       `json:"reshuffles"`
	EndReason      string    `json:"end_reason"`
	Duration       int       `json:"duration_secs"`
	CreatedAt      time.Time `json:"created_at"`
}

// GameStats contains aggregated statistics for a game mode.
type GameStats struct {
	GameID     string    `json:"game_id"`
	GamesCount int       `json:"games_count"`
	HighScore  int       `json:"high_score"`
	AvgScore   float64   `json:"avg_score"`
	TotalScore int64     `json:"total_score"`
	LastPlayed time.Time `json:"last_played"`
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
