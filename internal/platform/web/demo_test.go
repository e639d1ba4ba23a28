package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialDemo(t *testing.T, s *Server, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/demo" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) DemoFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f DemoFrame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestDemoStreamsTurns(t *testing.T) {
	conn := dialDemo(t, newTestServer(t, nil), "")

	for i := 1; i <= 3; i++ {
		f := readFrame(t, conn)
		require.Equal(t, FrameTurn, f.Type)
		require.NotNil(t, f.Turn)
		require.NotNil(t, f.Board)
		assert.Equal(t, i, f.Turn.Number)
		assert.Equal(t, 6, f.Board.Width)
		assert.Len(t, f.Board.Cells, 36)
	}

	end := readFrame(t, conn)
	assert.Equal(t, FrameEnd, end.Type)
	require.NotNil(t, end.Result)
	assert.Equal(t, 3, end.Result.Moves)
	assert.Empty(t, end.Error)

	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestDemoSeedIsDeterministic(t *testing.T) {
	s := newTestServer(t, nil)
	a := readFrame(t, dialDemo(t, s, "?seed=42"))
	b := readFrame(t, dialDemo(t, s, "?seed=42"))
	assert.Equal(t, a.Turn.Move, b.Turn.Move)
	assert.Equal(t, a.Turn.Score, b.Turn.Score)
}

func TestDemoRejectsBadSeed(t *testing.T) {
	rec := get(t, newTestServer(t, nil).Handler(), "/ws/demo?seed=x")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDemoRejectsBadBoard(t *testing.T) {
	s := newTestServer(t, nil)
	s.config.Demo.Width = 0
	rec := get(t, s.Handler(), "/ws/demo")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
