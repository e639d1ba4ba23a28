// Package autoplay plays a match-3 board without a player. It backs the
// simulate command and the web demo stream.
package autoplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// MaxReshuffles bounds the reshuffles after one move.
const MaxReshuffles = 10

// ErrStuck is returned when the board still has no moves after
// MaxReshuffles reshuffles.
var ErrStuck = errors.New("autoplay: board has no moves after reshuffling")

// Strategy picks a move from the legal ones.
type Strategy string

const (
	StrategyFirst  Strategy = "first"
	StrategyRandom Strategy = "random"
	StrategyGreedy Strategy = "greedy"
)

// ParseStrategy parses a strategy name. Unknown names give StrategyGreedy.
func ParseStrategy(name string) Strategy {
	switch Strategy(name) {
	case StrategyFirst, StrategyRandom:
		return Strategy(name)
	default:
		return StrategyGreedy
	}
}

// Config describes a headless game.
type Config struct {
	Width        int
	Height       int
	Types        int
	Seed         int64
	CascadeBonus int
	Strategy     Strategy
	Animator     m3.Animator
	Logger       *log.Logger
}

// Turn is the result of one move.
type Turn struct {
	Number     int            `json:"number"`
	Move       m3.Move        `json:"move"`
	Outcome    m3.SwapOutcome `json:"outcome"`
	Reshuffles int            `json:"reshuffles"`
	Score      int            `json:"score"`
}

// Result summarizes a run.
type Result struct {
	Moves      int                 `json:"moves"`
	Score      int                 `json:"score"`
	Reshuffles int                 `json:"reshuffles"`
	Scoring    match3.ScoreSummary `json:"scoring"`
	Board      m3.Stats            `json:"board"`
}

// Powerups returns the number of power-ups created.
func (r Result) Powerups() int {
	return r.Board.Bombs + r.Board.RowCols + r.Board.Gems
}

type deadlockFlag struct {
	set atomic.Bool
}

func (d *deadlockFlag) OnBoardStable()      {}
func (d *deadlockFlag) OnNoMovesAvailable() { d.set.Store(true) }

// Player drives one board. It is not safe for concurrent use.
type Player struct {
	board    *m3.Board
	keeper   *match3.ScoreKeeper
	flag     *deadlockFlag
	strategy Strategy
	rng      *rand.Rand
	logger   *log.Logger
	types    int

	populated  bool
	turns      int
	reshuffles int
}

// New creates a player for a fresh board. The board is populated on the
// first Step.
func New(cfg Config) (*Player, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Animator == nil {
		cfg.Animator = m3.Instant{}
	}

	p := &Player{
		keeper:   match3.NewScoreKeeper(cfg.CascadeBonus),
		flag:     &deadlockFlag{},
		strategy: ParseStrategy(string(cfg.Strategy)),
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		logger:   cfg.Logger,
		types:    cfg.Types,
	}
	board, err := m3.NewBoard(cfg.Width, cfg.Height, cfg.Types,
		m3.WithSeed(cfg.Seed),
		m3.WithAnimator(cfg.Animator),
		m3.WithSink(p.keeper),
		m3.WithOrchestrator(p.flag),
		m3.WithLogger(cfg.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("autoplay: %w", err)
	}
	p.board = board
	return p, nil
}

// Board returns the board being played.
func (p *Player) Board() *m3.Board { return p.board }

// Score returns the current score.
func (p *Player) Score() int { return p.keeper.Score() }

func (p *Player) populate(ctx context.Context) error {
	p.keeper.SetMuted(true)
	defer p.keeper.SetMuted(false)
	if err := p.board.Populate(ctx); err != nil {
		return err
	}
	p.populated = true
	_, err := p.reshuffle(ctx)
	return err
}

// reshuffle resets the board while the last operation reported no moves.
func (p *Player) reshuffle(ctx context.Context) (n int, err error) {
	defer func() { p.reshuffles += n }()
	for p.flag.set.Swap(false) {
		if n == MaxReshuffles {
			return n, ErrStuck
		}
		n++
		p.keeper.SetMuted(true)
		err = p.board.Reset(ctx)
		p.keeper.SetMuted(false)
		if err != nil {
			return n, err
		}
	}
	if n > 0 {
		p.logger.Debug("reshuffled", "times", n)
	}
	return n, nil
}

// Step plays one move.
func (p *Player) Step(ctx context.Context) (Turn, error) {
	if !p.populated {
		if err := p.populate(ctx); err != nil {
			return Turn{}, err
		}
	}

	pre := 0
	moves := p.board.Moves()
	if len(moves) == 0 {
		// Loaded or externally changed boards are never scanned by the
		// engine on their own.
		p.flag.OnNoMovesAvailable()
		n, err := p.reshuffle(ctx)
		pre = n
		if err != nil {
			return Turn{Reshuffles: pre}, err
		}
		if moves = p.board.Moves(); len(moves) == 0 {
			return Turn{Reshuffles: pre}, ErrStuck
		}
	}

	mv := p.choose(moves)
	outcome, err := p.board.SwapAt(ctx, mv.From, mv.To())
	if err != nil {
		return Turn{Move: mv}, err
	}
	p.turns++

	n, err := p.reshuffle(ctx)
	turn := Turn{
		Number:     p.turns,
		Move:       mv,
		Outcome:    outcome,
		Reshuffles: pre + n,
		Score:      p.keeper.Score(),
	}
	p.logger.Debug("turn", "n", turn.Number, "move", mv, "outcome", outcome, "score", turn.Score)
	return turn, err
}

// Run plays up to n moves and returns the summary.
func (p *Player) Run(ctx context.Context, n int) (Result, error) {
	for i := 0; i < n; i++ {
		if _, err := p.Step(ctx); err != nil {
			return p.Result(), err
		}
	}
	return p.Result(), nil
}

// Result returns the summary so far.
func (p *Player) Result() Result {
	sum := p.keeper.Summary()
	return Result{
		Moves:      p.turns,
		Score:      sum.Score,
		Reshuffles: p.reshuffles,
		Scoring:    sum,
		Board:      p.board.Stats(),
	}
}

func (p *Player) choose(moves []m3.Move) m3.Move {
	switch p.strategy {
	case StrategyFirst:
		return moves[0]
	case StrategyRandom:
		return moves[p.rng.Intn(len(moves))]
	}

	layout := p.board.Snapshot().Layout()
	best, bestScore := moves[0], -1
	for _, mv := range moves {
		if s := preview(layout, p.types, mv); s > bestScore {
			best, bestScore = mv, s
		}
	}
	return best
}
