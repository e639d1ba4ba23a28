// Package match3 is the playable front-end of the match-3 engine: cursor
// input, scoring, the level timer, hints and rendering into a platform
// screen buffer.
package match3

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeTimed Mode = "timed"
	ModeZen   Mode = "zen"
)

// maxReshuffles bounds the reshuffles run after one operation.
const maxReshuffles = 10

var (
	settingsMu sync.RWMutex
	settings   = config.DefaultMatch3Config()
	logger     = log.New(io.Discard)
)

// Configure sets the configuration used by the next Reset of any game.
func Configure(cfg config.Match3Config) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = cfg
}

// Settings returns the configuration games are built from.
func Settings() config.Match3Config {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// SetLogger sets the logger handed to boards created afterwards.
func SetLogger(l *log.Logger) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func currentLogger() *log.Logger {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return logger
}

func init() {
	registry.Register("match3", func() registry.Game {
		return New(ModeTimed)
	})
	registry.Register("match3_zen", func() registry.Game {
		return New(ModeZen)
	})
}

type opKind uint8

const (
	opPopulate opKind = iota
	opSwap
)

type opResult struct {
	kind       opKind
	outcome    m3.SwapOutcome
	reshuffles int
	err        error
}

// Game is one match-3 session driven by the platform tick loop. Board
// operations run on a worker goroutine; Step advances their animations and
// collects their results.
type Game struct {
	mode     Mode
	cfg      config.Match3Config
	override *config.Match3Config
	logger   *log.Logger

	tick     uint64
	tickRate int

	board  *m3.Board
	anim   *m3.TickAnimator
	keeper *ScoreKeeper
	orch   *stability
	diff   *config.DifficultyManager

	cursor Cursor
	timer  LevelTimer
	hint   HintIndicator

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
	done    chan opResult

	moves       int
	reshuffles  int
	lastOutcome m3.SwapOutcome
	notice      string
	noticeTicks int
	events      []string

	screenW, screenH int
	geom             boardGeom

	paused   bool
	gameOver bool
	tooSmall bool
	err      error
}

// New creates a game in the given mode.
func New(mode Mode) *Game {
	return &Game{mode: mode}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeZen {
		return "match3_zen"
	}
	return "match3"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeZen {
		return "Match-3 (Zen)"
	}
	return "Match-3"
}

// Description implements registry.Describer.
func (g *Game) Description() string {
	if g.mode == ModeZen {
		return "No clock, play until you quit"
	}
	return "Score as much as you can before the timer runs out"
}

// UseConfig makes every later Reset of this game use cfg instead of the
// package settings.
func (g *Game) UseConfig(cfg config.Match3Config) {
	g.override = &cfg
}

// Reset starts a fresh session. A running board operation is cancelled
// first.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.shutdown()

	g.cfg = Settings()
	if g.override != nil {
		g.cfg = *g.override
	}
	if g.mode == ModeZen {
		g.cfg.Timer.Enabled = false
	}
	g.logger = currentLogger().With("mode", string(g.mode))
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}

	g.tick = 0
	g.moves = 0
	g.reshuffles = 0
	g.lastOutcome = m3.SwapNone
	g.notice, g.noticeTicks = "", 0
	g.paused = false
	g.gameOver = false
	g.err = nil

	b := g.cfg.Board
	g.keeper = NewScoreKeeper(g.cfg.Scoring.CascadeBonus)
	g.orch = &stability{}
	g.diff = config.NewDifficultyManager(g.cfg.Difficulty)
	g.anim = m3.NewTickAnimator(m3.Durations{
		Swap:  g.cfg.Motion.SwapTicks,
		Fall:  g.cfg.Motion.FallTicks,
		Spawn: g.cfg.Motion.SpawnTicks,
	})
	g.cursor = NewCursor(b.Width, b.Height)
	g.timer = NewLevelTimer(g.cfg.Timer.Enabled, g.cfg.Timer.Seconds, g.tickRate)
	g.hint = NewHintIndicator(g.cfg.Hint.Enabled, g.cfg.Hint.DelayTicks)
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	board, err := m3.NewBoard(b.Width, b.Height, b.Types,
		m3.WithSeed(cfg.Seed),
		m3.WithAnimator(g.anim),
		m3.WithSink(g.keeper),
		m3.WithOrchestrator(g.orch),
		m3.WithLogger(g.logger),
		m3.WithAllowMatches(b.AllowInitialMatches),
		m3.WithPoolHeadroom(b.PoolHeadroom),
	)
	if err != nil {
		g.logger.Error("cannot create board", "err", err)
		g.board = nil
		g.err = err
		g.gameOver = true
		return
	}
	g.board = board

	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.done = make(chan opResult, 1)
	g.start(opPopulate, func(ctx context.Context) (m3.SwapOutcome, error) {
		g.keeper.SetMuted(true)
		defer g.keeper.SetMuted(false)
		return m3.SwapNone, g.board.Populate(ctx)
	})
}

// Resize updates the screen dimensions without restarting the session.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	bw, bh := boardSize(g.cfg.Board.Width, g.cfg.Board.Height)
	g.tooSmall = w < bw || h < bh+hudHeight+footerHeight
}

// Close stops the worker goroutine.
func (g *Game) Close() error {
	g.shutdown()
	return nil
}

func (g *Game) shutdown() {
	if g.cancel == nil {
		return
	}
	g.cancel()
	g.anim.Flush()
	g.wg.Wait()
	g.cancel = nil
}

// start runs op on the worker goroutine. It returns false while another
// operation is running.
func (g *Game) start(kind opKind, op func(ctx context.Context) (m3.SwapOutcome, error)) bool {
	if !g.running.CompareAndSwap(false, true) {
		return false
	}
	ctx, done := g.ctx, g.done
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		res := opResult{kind: kind}
		res.outcome, res.err = op(ctx)

		for res.err == nil && g.orch.takeDeadlock() && res.reshuffles < maxReshuffles {
			res.reshuffles++
			g.logger.Debug("reshuffling", "attempt", res.reshuffles)
			g.keeper.SetMuted(true)
			res.err = g.board.Reset(ctx)
			g.keeper.SetMuted(false)
		}

		select {
		case done <- res:
		case <-ctx.Done():
		}
		g.running.Store(false)
	}()
	return true
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.events = nil

	if g.board == nil || g.tooSmall {
		return g.result()
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return g.result()
	}

	g.anim.Advance()
	g.collect()

	if g.gameOver {
		return g.result()
	}

	if g.timer.Tick() {
		g.cursor.Cancel()
		g.events = append(g.events, "time up")
	}
	if !g.timer.Expired() {
		g.handleInput(in)
		g.updateHint()
	} else if !g.running.Load() {
		g.gameOver = true
		g.logger.Info("level over", "score", g.keeper.Score(), "moves", g.moves)
	}

	if g.noticeTicks > 0 {
		g.noticeTicks--
	}
	return g.result()
}

func (g *Game) result() core.StepResult {
	return core.StepResult{State: g.State(), Events: g.events}
}

// collect picks up a finished worker operation and the keeper's notices.
func (g *Game) collect() {
	select {
	case res := <-g.done:
		g.finish(res)
	default:
	}

	if ev := g.keeper.TakeEvents(); len(ev) > 0 {
		g.events = append(g.events, ev...)
		g.note(ev[len(ev)-1])
	}
	if n := g.keeper.TakeBigMatches(); n > 0 && g.timer.Enabled() {
		bonus := g.diff.TimeBonus(g.cfg.Scoring.TimeBonus, g.keeper.Score(), int(g.tick))
		g.timer.Extend(float64(n) * bonus)
	}
}

func (g *Game) finish(res opResult) {
	if res.err != nil && !errors.Is(res.err, context.Canceled) {
		g.logger.Error("board operation failed", "err", res.err)
		g.err = res.err
	}
	if res.reshuffles > 0 {
		g.reshuffles += res.reshuffles
		g.events = append(g.events, "reshuffle")
		g.note("no moves left, reshuffled")
	}
	if res.kind == opSwap {
		g.lastOutcome = res.outcome
		if res.outcome == m3.SwapReverted {
			g.note("no match")
		}
	}
	g.hint.Reset()
}

func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Move(m3.DirUp)
	case in.Has(core.ActionDown):
		g.cursor.Move(m3.DirDown)
	case in.Has(core.ActionLeft):
		g.cursor.Move(m3.DirLeft)
	case in.Has(core.ActionRight):
		g.cursor.Move(m3.DirRight)
	}

	for _, p := range in.Clicks {
		if c, ok := g.geom.cellAt(p.X, p.Y); ok {
			g.cursor.MoveTo(c)
			g.press()
		}
	}

	if in.Has(core.ActionSelect) || in.Has(core.ActionConfirm) {
		g.press()
	}
	if in.Has(core.ActionBack) {
		g.cursor.Cancel()
	}
	if in.Has(core.ActionHint) {
		g.showHint()
	}
}

func (g *Game) press() {
	if first, second, ready := g.cursor.Press(); ready {
		g.attemptSwap(first, second)
	}
}

// attemptSwap validates a player swap and hands it to the worker.
func (g *Game) attemptSwap(p, q m3.Coord) bool {
	if g.running.Load() {
		return false
	}
	a, errA := g.board.TileAt(p)
	b, errB := g.board.TileAt(q)
	if err := errors.Join(errA, errB); err != nil {
		g.note("off the board")
		return false
	}
	if err := g.board.ValidateSwap(a, b); err != nil {
		g.note(swapNotice(err))
		return false
	}

	started := g.start(opSwap, func(ctx context.Context) (m3.SwapOutcome, error) {
		return g.board.TrySwap(ctx, a, b)
	})
	if started {
		g.moves++
		g.hint.Reset()
	}
	return started
}

func swapNotice(err error) string {
	switch {
	case errors.Is(err, m3.ErrNotAdjacent):
		return "tiles must touch"
	case errors.Is(err, m3.ErrTileBusy):
		return "tile is moving"
	case errors.Is(err, m3.ErrSameTile):
		return "pick another tile"
	default:
		return "cannot swap"
	}
}

func (g *Game) updateHint() {
	if g.running.Load() {
		return
	}
	g.hint.SetDelay(g.diff.HintDelay(g.cfg.Hint.DelayTicks, g.keeper.Score(), int(g.tick)))
	if g.hint.Tick() {
		g.showHint()
	}
}

func (g *Game) showHint() {
	if g.running.Load() {
		return
	}
	if t := g.board.Hint(); t != nil {
		g.hint.Show(t.Pos())
	}
}

func (g *Game) note(msg string) {
	g.notice = msg
	g.noticeTicks = g.tickRate * 2
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	score := 0
	if g.keeper != nil {
		score = g.keeper.Score()
	}
	return core.GameState{
		Score:    score,
		GameOver: g.gameOver,
		Paused:   g.paused || g.tooSmall,
		Busy:     g.running.Load(),
		Moves:    g.moves,
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "WASD move | Space swap | ? hint | P pause | R restart | Q quit"
}

// Report summarizes the session for storage.
type Report struct {
	Mode       string       `json:"mode"`
	Score      int          `json:"score"`
	Moves      int          `json:"moves"`
	Reshuffles int          `json:"reshuffles"`
	Seconds    int          `json:"seconds"`
	Scoring    ScoreSummary `json:"scoring"`
	Board      m3.Stats     `json:"board"`
}

// Powerups returns the number of power-ups created.
func (r Report) Powerups() int {
	return r.Board.Bombs + r.Board.RowCols + r.Board.Gems
}

// Report returns the session summary so far.
func (g *Game) Report() Report {
	r := Report{Mode: string(g.mode), Moves: g.moves, Reshuffles: g.reshuffles}
	if g.tickRate > 0 {
		r.Seconds = int(g.tick) / g.tickRate
	}
	if g.keeper != nil {
		r.Scoring = g.keeper.Summary()
		r.Score = r.Scoring.Score
	}
	if g.board != nil {
		r.Board = g.board.Stats()
	}
	return r
}

// Err returns the last board error, if any.
func (g *Game) Err() error { return g.err }
