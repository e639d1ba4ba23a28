package web

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-match3/internal/games/match3/autoplay"
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The stream is read-only and public.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Frame types sent on /ws/demo.
const (
	FrameTurn = "turn"
	FrameEnd  = "end"
)

// DemoFrame is one message of the demo stream.
type DemoFrame struct {
	Type   string           `json:"type"`
	Turn   *autoplay.Turn   `json:"turn,omitempty"`
	Board  *m3.Snapshot     `json:"board,omitempty"`
	Result *autoplay.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// demoConfig returns the board config for one stream. ?seed= overrides
// the configured seed.
func (s *Server) demoConfig(r *http.Request) (autoplay.Config, error) {
	cfg := s.config.Demo
	cfg.Logger = s.logger.WithPrefix("demo")
	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, errors.New("seed must be an integer")
		}
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, nil
}

// demo handles GET /ws/demo, streaming one frame per autoplayed move.
func (s *Server) demo(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.demoConfig(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	player, err := autoplay.New(cfg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	s.logger.Debug("demo stream started", "remote", r.RemoteAddr, "seed", cfg.Seed)
	err = s.stream(ctx, conn, player)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("demo stream ended", "remote", r.RemoteAddr, "err", err)
	}
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn, player *autoplay.Player) error {
	ticker := time.NewTicker(s.config.DemoInterval)
	defer ticker.Stop()

	for {
		turn, err := player.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return s.finish(conn, player, err)
		}

		board := player.Board().Snapshot()
		if err := send(conn, DemoFrame{Type: FrameTurn, Turn: &turn, Board: &board}); err != nil {
			return err
		}
		if s.config.DemoMoves > 0 && turn.Number >= s.config.DemoMoves {
			return s.finish(conn, player, nil)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// finish sends the end frame and closes the stream normally.
func (s *Server) finish(conn *websocket.Conn, player *autoplay.Player, cause error) error {
	res := player.Result()
	frame := DemoFrame{Type: FrameEnd, Result: &res}
	if cause != nil {
		frame.Error = cause.Error()
	}
	if err := send(conn, frame); err != nil {
		return err
	}
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func send(conn *websocket.Conn, frame DemoFrame) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}
