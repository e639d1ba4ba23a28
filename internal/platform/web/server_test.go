package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/storage"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestServer(t *testing.T, store storage.Store) *Server {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DemoInterval = 1
	cfg.DemoMoves = 3
	cfg.Demo.Width = 6
	cfg.Demo.Height = 6
	cfg.Demo.Seed = 5
	return NewServer(cfg, store, quietLogger())
}

func newTestStore(t *testing.T) *storage.SQLite {
	t.Helper()
	store, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestModes(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/api/modes")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"match3"`)
	assert.Contains(t, rec.Body.String(), `"match3_zen"`)
}

func TestScores(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, s := range []int{40, 90, 10} {
		_, err := store.SaveScore(ctx, "match3", s)
		require.NoError(t, err)
	}
	h := newTestServer(t, store).Handler()

	rec := get(t, h, "/api/scores/match3?limit=2")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[scoresResponse](t, rec)
	assert.Equal(t, "match3", resp.Mode)
	assert.Equal(t, 90, resp.Best)
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, 40, resp.Scores[1].Score)

	rec = get(t, h, "/api/scores/match3_zen")
	require.Equal(t, http.StatusOK, rec.Code)
	empty := decode[scoresResponse](t, rec)
	assert.Zero(t, empty.Best)
	assert.NotNil(t, empty.Scores)
	assert.Empty(t, empty.Scores)
}

func TestScoresErrors(t *testing.T) {
	h := newTestServer(t, newTestStore(t)).Handler()

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"unknown mode", "/api/scores/tetris", http.StatusNotFound},
		{"bad limit", "/api/scores/match3?limit=abc", http.StatusBadRequest},
		{"zero limit", "/api/scores/match3?limit=0", http.StatusBadRequest},
		{"missing mode", "/api/scores", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, get(t, h, tt.path).Code)
		})
	}

	noStore := newTestServer(t, nil).Handler()
	rec := get(t, noStore, "/api/scores/match3")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "no score store")
}

func TestParseLimitCaps(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/scores/match3?limit=5000", nil)
	n, err := parseLimit(r)
	require.NoError(t, err)
	assert.Equal(t, maxLimit, n)

	n, err = parseLimit(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, storage.DefaultLimit, n)
}

func TestStatsAndSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	_, err := store.SaveScore(ctx, "match3", 30)
	require.NoError(t, err)
	_, err = store.SaveSession(ctx, storage.SessionResult{
		SessionID: "abc",
		GameID:    "match3",
		Player:    "ana",
		Score:     30,
		Swaps:     4,
		EndReason: storage.EndTimeout,
	})
	require.NoError(t, err)
	h := newTestServer(t, store).Handler()

	rec := get(t, h, "/api/stats/match3")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[storage.GameStats](t, rec)
	assert.Equal(t, 1, stats.GamesCount)
	assert.Equal(t, 30, stats.HighScore)

	rec = get(t, h, "/api/sessions/match3")
	require.Equal(t, http.StatusOK, rec.Code)
	recent := decode[[]storage.SessionResult](t, rec)
	require.Len(t, recent, 1)
	assert.Equal(t, "ana", recent[0].Player)

	rec = get(t, h, "/api/session/abc")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 4, decode[storage.SessionResult](t, rec).Swaps)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/api/session/missing").Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recovery(quietLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestLoggingKeepsStatus(t *testing.T) {
	h := logging(quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("tea"))
	}))
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "tea", rec.Body.String())
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Address = "127.0.0.1:0"
	s := NewServer(cfg, nil, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.ListenAndServe(ctx))
}
