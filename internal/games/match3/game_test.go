package match3

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

// testConfig is a small board with instant motion and no hints.
func testConfig() config.Match3Config {
	cfg := config.DefaultMatch3Config()
	cfg.Board.Width = 4
	cfg.Board.Height = 3
	cfg.Motion = config.Match3Motion{}
	cfg.Hint.Enabled = false
	cfg.Difficulty.Enabled = false
	cfg.Timer.Seconds = 60
	return cfg
}

func newTestGame(t *testing.T, mode Mode, cfg config.Match3Config) *Game {
	t.Helper()
	prev := Settings()
	Configure(cfg)
	t.Cleanup(func() { Configure(prev) })

	g := New(mode)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 1})
	t.Cleanup(func() { _ = g.Close() })
	settle(t, g)
	return g
}

// settle steps the game until the worker is idle and its result collected.
func settle(t *testing.T, g *Game) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for g.running.Load() || len(g.done) > 0 {
		if time.Now().After(deadline) {
			t.Fatal("board did not settle")
		}
		g.Step(core.NewInputFrame())
		time.Sleep(time.Millisecond)
	}
	g.Step(core.NewInputFrame())
}

// load replaces the board with a fixed layout, bottom row last.
func load(t *testing.T, g *Game, rows ...string) {
	t.Helper()
	require.NoError(t, g.board.Load(m3.MustParseLayout(rows...)))
}

func press(g *Game, c m3.Coord) core.StepResult {
	g.cursor.MoveTo(c)
	in := core.NewInputFrame()
	in.Set(core.ActionSelect)
	return g.Step(in)
}

func TestGameResetPopulates(t *testing.T) {
	g := newTestGame(t, ModeTimed, testConfig())

	snap := g.board.Snapshot()
	for i, cell := range snap.Cells {
		assert.False(t, cell.Empty, "cell %d", i)
	}
	assert.Equal(t, 0, g.State().Score, "populate does not score")
	assert.False(t, g.State().Busy)
	assert.NoError(t, g.Err())
}

func TestGameSwapScores(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())
	load(t, g,
		"3453",
		"4514",
		"1120",
	)

	press(g, m3.C(2, 0))
	sel, ok := g.cursor.Selected()
	require.True(t, ok)
	assert.Equal(t, m3.C(2, 0), sel)

	press(g, m3.C(2, 1))
	assert.Equal(t, 1, g.State().Moves)
	settle(t, g)

	assert.Equal(t, m3.SwapMatched, g.lastOutcome)
	assert.GreaterOrEqual(t, g.State().Score, 9)
	assert.GreaterOrEqual(t, g.Report().Scoring.ByType[m3.Match3], 1)
	_, ok = g.cursor.Selected()
	assert.False(t, ok)
}

func TestGameRevertedSwap(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())
	load(t, g,
		"3453",
		"4514",
		"1120",
	)

	press(g, m3.C(0, 2))
	press(g, m3.C(1, 2))
	settle(t, g)

	assert.Equal(t, m3.SwapReverted, g.lastOutcome)
	assert.Equal(t, 0, g.State().Score)
	assert.Equal(t, 1, g.State().Moves, "a reverted swap still costs a move")
	assert.Equal(t, "no match", g.notice)
	assert.Equal(t, 1, g.Report().Board.Reverts)
}

func TestGameIgnoresSwapWhileBusy(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())
	g.running.Store(true)
	defer g.running.Store(false)

	assert.False(t, g.attemptSwap(m3.C(0, 0), m3.C(1, 0)))
	assert.Equal(t, 0, g.moves)
}

func TestGameRejectsInvalidSwap(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())

	assert.False(t, g.attemptSwap(m3.C(0, 0), m3.C(2, 0)))
	assert.Equal(t, "tiles must touch", g.notice)

	assert.False(t, g.attemptSwap(m3.C(0, 0), m3.C(0, 5)))
	assert.Equal(t, "off the board", g.notice)
	assert.Equal(t, 0, g.moves)
}

func TestGameReshufflesOnDeadlock(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())
	load(t, g,
		"3453",
		"4514",
		"1120",
	)
	before := g.reshuffles
	g.orch.OnNoMovesAvailable()

	require.True(t, g.attemptSwap(m3.C(0, 2), m3.C(1, 2)))
	settle(t, g)

	got := g.reshuffles - before
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, maxReshuffles)
	assert.Equal(t, g.reshuffles, g.Report().Reshuffles)
}

func TestGameTimeUp(t *testing.T) {
	cfg := testConfig()
	cfg.Timer.Seconds = 1
	g := newTestGame(t, ModeTimed, cfg)

	var events []string
	deadline := time.Now().Add(5 * time.Second)
	for !g.State().GameOver {
		require.False(t, time.Now().After(deadline), "timer never ran out")
		res := g.Step(core.NewInputFrame())
		events = append(events, res.Events...)
	}

	assert.Contains(t, events, "time up")
	assert.Equal(t, StateTimeUp, g.Snapshot().State)

	press(g, m3.C(0, 0))
	_, ok := g.cursor.Selected()
	assert.False(t, ok, "input is ignored after time up")
}

func TestGameBigMatchExtendsTimer(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.TimeBonus = 3
	g := newTestGame(t, ModeTimed, cfg)
	load(t, g,
		"3453",
		"4514",
		"1121",
	)
	before := g.timer.RemainingTicks()

	require.True(t, g.attemptSwap(m3.C(2, 0), m3.C(2, 1)))
	settle(t, g)

	assert.Greater(t, g.timer.RemainingTicks(), before, "a match of four adds time")
}

func TestGameZenHasNoTimer(t *testing.T) {
	cfg := testConfig()
	cfg.Timer.Seconds = 1
	g := newTestGame(t, ModeZen, cfg)

	for i := 0; i < 50; i++ {
		g.Step(core.NewInputFrame())
	}
	assert.False(t, g.State().GameOver)
	assert.Zero(t, g.Snapshot().TimeLeft)
}

func TestGamePause(t *testing.T) {
	cfg := testConfig()
	cfg.Timer.Seconds = 1
	g := newTestGame(t, ModeTimed, cfg)
	left := g.timer.RemainingTicks()

	in := core.NewInputFrame()
	in.Set(core.ActionPause)
	g.Step(in)
	require.True(t, g.State().Paused)
	assert.Equal(t, StatePaused, g.Snapshot().State)

	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}
	assert.Equal(t, left, g.timer.RemainingTicks())
	assert.False(t, g.State().GameOver)

	g.Step(in)
	assert.False(t, g.State().Paused)
}

func TestGameHint(t *testing.T) {
	cfg := testConfig()
	cfg.Hint = config.Match3Hint{Enabled: true, DelayTicks: 3}
	g := newTestGame(t, ModeZen, cfg)
	load(t, g,
		"3453",
		"4514",
		"1120",
	)
	g.hint.Reset()

	for i := 0; i < 3; i++ {
		g.Step(core.NewInputFrame())
	}
	at, ok := g.hint.Visible()
	require.True(t, ok)

	var froms []m3.Coord
	for _, mv := range g.board.Moves() {
		froms = append(froms, mv.From)
	}
	assert.Contains(t, froms, at)
	require.NotNil(t, g.Snapshot().Hint)
}

func TestGameHintOnRequest(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())
	load(t, g,
		"3453",
		"4514",
		"1120",
	)

	in := core.NewInputFrame()
	in.Set(core.ActionHint)
	g.Step(in)

	_, ok := g.hint.Visible()
	assert.True(t, ok)
}

func TestGameTooSmall(t *testing.T) {
	prev := Settings()
	Configure(testConfig())
	t.Cleanup(func() { Configure(prev) })

	g := New(ModeTimed)
	g.Reset(core.RuntimeConfig{ScreenW: 10, ScreenH: 5, TickRate: 10})
	defer g.Close()

	g.Step(core.NewInputFrame())
	assert.True(t, g.State().Paused)
	assert.Equal(t, StatePausedSmall, g.Snapshot().State)

	screen := core.NewScreen(40, 5)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Window too small")

	g.Resize(80, 24)
	settle(t, g)
	assert.False(t, g.State().Paused)
	assert.Equal(t, StatePlaying, g.Snapshot().State)
}

func TestGameClickSelects(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	require.True(t, g.geom.set)

	sx, sy := g.geom.screenOf(1, 2)
	in := core.NewInputFrame()
	in.Click(sx+1, sy)
	g.Step(in)

	sel, ok := g.cursor.Selected()
	require.True(t, ok)
	assert.Equal(t, m3.C(1, 2), sel)

	in = core.NewInputFrame()
	in.Click(0, 0)
	g.Step(in)
	sel, _ = g.cursor.Selected()
	assert.Equal(t, m3.C(1, 2), sel, "clicks off the board are ignored")
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, ModeTimed, testConfig())
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	assert.Contains(t, out, "Match-3")
	assert.Contains(t, out, "Score: 0")
	assert.Contains(t, out, "Time 1:00")
	assert.LessOrEqual(t, len([]rune(g.Controls())), screen.Width())
	assert.Contains(t, out, g.Controls(), "the footer fits on one line")

	sx, sy := g.geom.screenOf(float64(g.cursor.Pos().X), float64(g.cursor.Pos().Y))
	assert.Equal(t, '[', screen.Get(sx, sy))
	assert.Equal(t, ']', screen.Get(sx+cellWidth-1, sy))
}

func TestGameRenderWideBoardKeepsOneStatusLine(t *testing.T) {
	cfg := testConfig()
	cfg.Board.Width = 8
	g := newTestGame(t, ModeTimed, cfg)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	row := screen.Row(g.geom.y - 2)
	assert.Contains(t, row, "Score: 0")
	assert.Contains(t, row, "Time 1:00")
}

func TestGameRenderWhileWorkerRuns(t *testing.T) {
	cfg := testConfig()
	cfg.Motion = config.Match3Motion{SwapTicks: 2, FallTicks: 2, SpawnTicks: 2}
	g := newTestGame(t, ModeZen, cfg)
	screen := core.NewScreen(80, 24)

	for i := 0; i < 5; i++ {
		require.True(t, g.start(opPopulate, func(ctx context.Context) (m3.SwapOutcome, error) {
			return m3.SwapNone, g.board.Reset(ctx)
		}))
		deadline := time.Now().Add(5 * time.Second)
		for g.running.Load() || len(g.done) > 0 {
			if time.Now().After(deadline) {
				t.Fatal("board did not settle")
			}
			g.Step(core.NewInputFrame())
			g.Render(screen)
		}
	}
	assert.NoError(t, g.Err())
	assert.Contains(t, screen.String(), "Match-3")
}

func TestGameCloseStopsWorker(t *testing.T) {
	cfg := testConfig()
	cfg.Motion = config.Match3Motion{SwapTicks: 1000, FallTicks: 1000, SpawnTicks: 1000}
	prev := Settings()
	Configure(cfg)
	t.Cleanup(func() { Configure(prev) })

	g := New(ModeZen)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10})
	require.True(t, g.State().Busy, "populate waits on the animator")

	closed := make(chan struct{})
	go func() {
		_ = g.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not stop the worker")
	}
	assert.False(t, g.State().Busy)
	assert.NoError(t, g.Err(), "cancellation is not an error")
}

func TestGameReport(t *testing.T) {
	g := newTestGame(t, ModeZen, testConfig())
	load(t, g,
		"3453",
		"4514",
		"1121",
	)
	require.True(t, g.attemptSwap(m3.C(2, 0), m3.C(2, 1)))
	settle(t, g)

	r := g.Report()
	assert.Equal(t, "zen", r.Mode)
	assert.Equal(t, 1, r.Moves)
	assert.Equal(t, g.State().Score, r.Score)
	assert.GreaterOrEqual(t, r.Powerups(), 1)
	assert.Equal(t, int(g.tick)/10, r.Seconds)
}

func TestGameSnapshot(t *testing.T) {
	g := newTestGame(t, ModeTimed, testConfig())
	press(g, m3.C(0, 0))

	s := g.Snapshot()
	assert.Equal(t, "timed", s.Mode)
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, m3.C(0, 0), s.Cursor)
	require.NotNil(t, s.Selected)
	assert.Equal(t, m3.C(0, 0), *s.Selected)
	assert.Equal(t, 4, s.Board.Width)
	assert.Equal(t, 3, s.Board.Height)
	assert.Equal(t, 60, s.TimeLeft)
}

func TestGameBoardError(t *testing.T) {
	cfg := testConfig()
	cfg.Board.Types = 0
	g := newTestGame(t, ModeTimed, cfg)

	require.Error(t, g.Err())
	assert.True(t, g.State().GameOver)
	assert.Equal(t, StateError, g.Snapshot().State)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	assert.Contains(t, screen.String(), "Board error")
}

func TestRegisteredModes(t *testing.T) {
	for _, id := range []string{"match3", "match3_zen"} {
		g, err := registry.Create(id)
		require.NoError(t, err)
		assert.Equal(t, id, g.ID())
		d, ok := g.(registry.Describer)
		require.True(t, ok)
		assert.NotEmpty(t, d.Description())
	}
}

func TestSwapNotice(t *testing.T) {
	assert.Equal(t, "tile is moving", swapNotice(m3.ErrTileBusy))
	assert.Equal(t, "pick another tile", swapNotice(m3.ErrSameTile))
	assert.Equal(t, "cannot swap", swapNotice(errors.New("boom")))
	assert.True(t, strings.HasPrefix(new(Game).Controls(), "WASD"))
}

func TestGameUseConfig(t *testing.T) {
	prev := Settings()
	Configure(testConfig())
	t.Cleanup(func() { Configure(prev) })

	cfg := testConfig()
	cfg.Board.Width = 5
	g := New(ModeZen)
	g.UseConfig(cfg)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10})
	defer g.Close()
	settle(t, g)

	w, h := g.board.Dimensions()
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)
	assert.Equal(t, 4, Settings().Board.Width, "package settings are untouched")
}
