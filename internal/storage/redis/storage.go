// Package redis is a storage.Store backed by Redis, used when several
// server instances share one leaderboard.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/tui-match3/internal/storage"
)

// Storage keeps scores in sorted sets and sessions as JSON documents.
type Storage struct {
	client *redis.Client
	cfg    Config
	now    func() time.Time
}

var _ storage.Store = (*Storage)(nil)

// New connects to Redis and verifies the connection.
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("storage: redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: redis ping: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client (for testing).
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Close closes the Redis connection.
func (s *Storage) Close() error {
	return s.client.Close()
}

// Score operations

func (s *Storage) SaveScore(ctx context.Context, gameID string, score int) (int64, error) {
	id, err := s.client.Incr(ctx, scoreSeqKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	now := s.now().UTC()

	// Equal scores rank older entries first.
	rank := float64(score) + 1/(float64(id)+1)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, scoreEntryKey(id),
		"game_id", gameID,
		"score", score,
		"created_at", now.Unix(),
	)
	pipe.ZAdd(ctx, scoresKey(gameID), redis.Z{Score: rank, Member: id})
	pipe.HIncrBy(ctx, statsKey(gameID), "count", 1)
	pipe.HIncrBy(ctx, statsKey(gameID), "total", int64(score))
	pipe.HSet(ctx, statsKey(gameID), "last", now.Unix())
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}
	return id, nil
}

func (s *Storage) TopScores(ctx context.Context, gameID string, limit int) ([]storage.ScoreEntry, error) {
	if limit <= 0 {
		limit = storage.DefaultLimit
	}

	ids, err := s.client.ZRevRange(ctx, scoresKey(gameID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("storage: bad score id %q: %w", raw, err)
		}
		cmds[i] = pipe.HGetAll(ctx, scoreEntryKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}

	entries := make([]storage.ScoreEntry, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		id, _ := strconv.ParseInt(ids[i], 10, 64)
		score, _ := strconv.Atoi(fields["score"])
		created, _ := strconv.ParseInt(fields["created_at"], 10, 64)
		entries = append(entries, storage.ScoreEntry{
			ID:        id,
			GameID:    fields["game_id"],
			Score:     score,
			CreatedAt: time.Unix(created, 0).UTC(),
		})
	}
	return entries, nil
}

func (s *Storage) HighScore(ctx context.Context, gameID string) (int, error) {
	top, err := s.TopScores(ctx, gameID, 1)
	if err != nil {
		return 0, err
	}
	if len(top) == 0 {
		return 0, nil
	}
	return top[0].Score, nil
}

func (s *Storage) ClearScores(ctx context.Context, gameID string) error {
	ids, err := s.client.ZRange(ctx, scoresKey(gameID), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	sessions, err := s.client.LRange(ctx, sessionsForGameKey(gameID), 0, -1).Result()
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}

	keys := []string{scoresKey(gameID), statsKey(gameID), sessionsForGameKey(gameID)}
	for _, raw := range ids {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			keys = append(keys, scoreEntryKey(id))
		}
	}
	for _, sid := range sessions {
		keys = append(keys, sessionKey(sid))
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Session operations

// sessionDoc is the stored shape of a session. CreatedAt travels as unix seconds.
type sessionDoc struct {
	storage.SessionResult
	CreatedUnix int64 `json:"created_unix"`
}

func (s *Storage) SaveSession(ctx context.Context, r storage.SessionResult) (int64, error) {
	id, err := s.client.Incr(ctx, sessionSeqKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}
	r.ID = id
	doc := sessionDoc{SessionResult: r, CreatedUnix: s.now().Unix()}
	doc.CreatedAt = time.Time{}

	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode session: %w", err)
	}

	ok, err := s.client.SetNX(ctx, sessionKey(r.SessionID), data, 0).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("storage: cannot save session: duplicate session id %q", r.SessionID)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, sessionsForGameKey(r.GameID), r.SessionID)
	if s.cfg.MaxSessions > 0 {
		pipe.LTrim(ctx, sessionsForGameKey(r.GameID), 0, s.cfg.MaxSessions-1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("storage: cannot index session: %w", err)
	}
	return id, nil
}

func (s *Storage) Session(ctx context.Context, sessionID string) (*storage.SessionResult, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return decodeSession(data)
}

func (s *Storage) RecentSessions(ctx context.Context, gameID string, limit int) ([]storage.SessionResult, error) {
	if limit <= 0 {
		limit = storage.DefaultLimit
	}

	ids, err := s.client.LRange(ctx, sessionsForGameKey(gameID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}

	results := make([]storage.SessionResult, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		r, err := decodeSession([]byte(raw))
		if err != nil {
			return nil, err
		}
		results = append(results, *r)
	}
	return results, nil
}

func decodeSession(data []byte) (*storage.SessionResult, error) {
	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("storage: cannot decode session: %w", err)
	}
	r := doc.SessionResult
	r.CreatedAt = time.Unix(doc.CreatedUnix, 0).UTC()
	return &r, nil
}

// Stats

func (s *Storage) GameStats(ctx context.Context, gameID string) (*storage.GameStats, error) {
	fields, err := s.client.HGetAll(ctx, statsKey(gameID)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	high, err := s.HighScore(ctx, gameID)
	if err != nil {
		return nil, err
	}

	stats := &storage.GameStats{GameID: gameID, HighScore: high}
	stats.GamesCount, _ = strconv.Atoi(fields["count"])
	stats.TotalScore, _ = strconv.ParseInt(fields["total"], 10, 64)
	if stats.GamesCount > 0 {
		stats.AvgScore = float64(stats.TotalScore) / float64(stats.GamesCount)
	}
	if last, err := strconv.ParseInt(fields["last"], 10, 64); err == nil {
		stats.LastPlayed = time.Unix(last, 0).UTC()
	}
	return stats, nil
}
