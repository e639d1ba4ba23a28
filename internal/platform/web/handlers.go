package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

// maxLimit caps the limit query parameter.
const maxLimit = 100

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// parseLimit reads ?limit=. Missing gives storage.DefaultLimit.
func parseLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return storage.DefaultLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New("limit must be a positive integer")
	}
	return min(n, maxLimit), nil
}

// modeFor resolves {mode} and checks a store is configured. It writes the
// error response and returns false when the request cannot be served.
func (s *Server) modeFor(w http.ResponseWriter, r *http.Request) (string, bool) {
	mode := mux.Vars(r)["mode"]
	if !registry.Exists(mode) {
		writeError(w, http.StatusNotFound, "unknown mode "+strconv.Quote(mode))
		return "", false
	}
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no score store configured")
		return "", false
	}
	return mode, true
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.logger.Error("store request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "store unavailable")
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) modes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, registry.List())
}

type scoresResponse struct {
	Mode   string               `json:"mode"`
	Best   int                  `json:"best"`
	Scores []storage.ScoreEntry `json:"scores"`
}

// scores handles GET /api/scores/{mode}?limit=N.
func (s *Server) scores(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.modeFor(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.store.TopScores(r.Context(), mode, limit)
	if err != nil {
		s.storeError(w, err)
		return
	}
	resp := scoresResponse{Mode: mode, Scores: entries}
	if resp.Scores == nil {
		resp.Scores = []storage.ScoreEntry{}
	}
	if len(entries) > 0 {
		resp.Best = entries[0].Score
	}
	writeJSON(w, http.StatusOK, resp)
}

// stats handles GET /api/stats/{mode}.
func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.modeFor(w, r)
	if !ok {
		return
	}
	st, err := s.store.GameStats(r.Context(), mode)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// sessions handles GET /api/sessions/{mode}?limit=N.
func (s *Server) sessions(w http.ResponseWriter, r *http.Request) {
	mode, ok := s.modeFor(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	recent, err := s.store.RecentSessions(r.Context(), mode, limit)
	if err != nil {
		s.storeError(w, err)
		return
	}
	if recent == nil {
		recent = []storage.SessionResult{}
	}
	writeJSON(w, http.StatusOK, recent)
}

// session handles GET /api/session/{id}.
func (s *Server) session(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "no score store configured")
		return
	}
	res, err := s.store.Session(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
