package core

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// ResolutionSink consumes resolved matches. It is called with the board
// locked and must not call back into the Board. Every tile listed in the
// match is still on the grid at call time.
type ResolutionSink interface {
	OnMatchResolved(m *Match)
}

// Orchestrator receives board-level events. Its methods are called after
// the board lock is released, but still on the goroutine running the
// board operation, so they must not start another board operation
// synchronously.
type Orchestrator interface {
	OnBoardStable()
	OnNoMovesAvailable()
}

type nopSink struct{}

func (nopSink) OnMatchResolved(*Match) {}

type nopOrchestrator struct{}

func (nopOrchestrator) OnBoardStable()      {}
func (nopOrchestrator) OnNoMovesAvailable() {}

// Stats counts what the board has done since it was created.
type Stats struct {
	Swaps          int `json:"swaps"`
	Reverts        int `json:"reverts"`
	GemSwaps       int `json:"gem_swaps"`
	Matches        int `json:"matches"`
	CascadeRounds  int `json:"cascade_rounds"`
	LongestCascade int `json:"longest_cascade"`
	Bombs          int `json:"bombs"`
	RowCols        int `json:"rowcols"`
	Gems           int `json:"gems"`
	Detonations    int `json:"detonations"`
	Deadlocks      int `json:"deadlocks"`
	NoSafeType     int `json:"no_safe_type"`
}

// Board owns one grid and one pool and runs every operation that mutates
// them. Only one entry operation (Populate, Load, TrySwap, Reset) runs at a
// time; the others return ErrBoardBusy meanwhile. Read methods may be
// called concurrently from other goroutines.
type Board struct {
	mu   sync.Mutex
	grid *Grid[*Tile]
	pool *Pool

	rng          Random
	anim         Animator
	sink         ResolutionSink
	orch         Orchestrator
	logger       *log.Logger
	allowMatches bool
	headroom     int

	busy  atomic.Bool
	round int
	stats Stats
}

// Option configures a Board.
type Option func(*Board)

// WithRandom sets the randomness source for types, nominees and hints.
func WithRandom(r Random) Option {
	return func(b *Board) { b.rng = r }
}

// WithSeed is shorthand for WithRandom(NewRandom(seed)).
func WithSeed(seed int64) Option {
	return func(b *Board) { b.rng = NewRandom(seed) }
}

// WithAnimator sets the animator. The default is Instant.
func WithAnimator(a Animator) Option {
	return func(b *Board) { b.anim = a }
}

// WithSink sets the resolution sink.
func WithSink(s ResolutionSink) Option {
	return func(b *Board) { b.sink = s }
}

// WithOrchestrator sets the receiver of stable and no-moves events.
func WithOrchestrator(o Orchestrator) Option {
	return func(b *Board) { b.orch = o }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithAllowMatches lets refill and population create ready-made matches.
func WithAllowMatches(allow bool) Option {
	return func(b *Board) { b.allowMatches = allow }
}

// WithPoolHeadroom preallocates w*h*n tiles.
func WithPoolHeadroom(n int) Option {
	return func(b *Board) { b.headroom = n }
}

// NewBoard creates a board of w by h cells using types tile types.
// The grid starts empty; call Populate or Load to fill it.
func NewBoard(w, h, types int, opts ...Option) (*Board, error) {
	b := &Board{
		anim:     Instant{},
		sink:     nopSink{},
		orch:     nopOrchestrator{},
		headroom: 1,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = NewRandom(1)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}

	grid, err := NewGrid[*Tile](w, h)
	if err != nil {
		return nil, err
	}
	if types < 2 {
		return nil, fmt.Errorf("board: %w: got %d", ErrTooFewTypes, types)
	}
	b.grid = grid
	b.pool = NewPool(types, b.rng)
	if b.headroom > 0 {
		if err := b.pool.Prealloc(w * h * b.headroom); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Board) acquire() error {
	if !b.busy.CompareAndSwap(false, true) {
		return ErrBoardBusy
	}
	return nil
}

func (b *Board) releaseBusy() { b.busy.Store(false) }

// Busy reports whether an entry operation is running.
func (b *Board) Busy() bool { return b.busy.Load() }

// Dimensions returns the grid size.
func (b *Board) Dimensions() (int, int) { return b.grid.Dimensions() }

// Types returns the size of the type palette.
func (b *Board) Types() int { return b.pool.Types() }

// Pool exposes the pool for inspection. Callers must not mutate tiles.
func (b *Board) Pool() *Pool { return b.pool }

// Stats returns a copy of the board counters.
func (b *Board) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// TileAt returns the tile at c, or nil when the cell is empty.
func (b *Board) TileAt(c Coord) (*Tile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Get(c)
}

// FindMatch runs match detection rooted at t without resolving anything.
func (b *Board) FindMatch(t *Tile) *Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	return FindMatch(b.grid, t)
}

// String renders the board top row first: type digits, "*" for gems,
// "x" for empty cells.
func (b *Board) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.grid.Format(tileGlyph)
}

func tileGlyph(t *Tile) string {
	if t.IsGem() {
		return "*"
	}
	return strconv.Itoa(t.typ)
}

// Populate fills every empty cell and then settles the board. Unless
// matches are allowed, each new tile gets a type that does not complete a
// match. Any matches present afterwards are resolved as a cascade.
func (b *Board) Populate(ctx context.Context) error {
	if err := b.acquire(); err != nil {
		return err
	}
	defer b.releaseBusy()
	return b.populate(ctx)
}

func (b *Board) populate(ctx context.Context) error {
	if err := b.refill(ctx); err != nil {
		return err
	}
	b.mu.Lock()
	b.round = 0
	found := b.rescan()
	b.mu.Unlock()
	if found {
		return b.collapseAndRefill(ctx)
	}
	b.settle()
	return nil
}

// Reset empties the grid, returns every tile to the pool and populates
// the board again.
func (b *Board) Reset(ctx context.Context) error {
	if err := b.acquire(); err != nil {
		return err
	}
	defer b.releaseBusy()

	b.mu.Lock()
	b.clearLocked()
	b.mu.Unlock()
	b.logger.Debug("board reset")
	return b.populate(ctx)
}

func (b *Board) clearLocked() {
	w, h := b.grid.Dimensions()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if t := b.grid.peek(C(x, y)); t != nil {
				_, _ = b.grid.Remove(C(x, y))
				b.pool.Release(t)
			}
		}
	}
}

// Load replaces the board contents with a layout. No matching or
// settling happens; the layout is taken as is.
func (b *Board) Load(l Layout) error {
	if err := b.acquire(); err != nil {
		return err
	}
	defer b.releaseBusy()

	w, h := b.grid.Dimensions()
	if l.Width != w || l.Height != h {
		return fmt.Errorf("board: %w: layout %dx%d for board %dx%d",
			ErrInvalidDimensions, l.Width, l.Height, w, h)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := l.At(C(x, y))
			if cell.Empty {
				continue
			}
			t := b.pool.Acquire()
			b.pool.ChangeType(t, cell.Type)
			if cell.Kind != PowerupNone {
				b.pool.Upgrade(t, cell.Kind)
			}
			t.pos = C(x, y)
			if _, err := b.grid.Put(t, t.pos, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// place puts t at c and records the position on the tile.
func (b *Board) place(t *Tile, c Coord) error {
	ok, err := b.grid.Put(t, c, false)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("board: cell %v already occupied", c)
	}
	t.pos = c
	return nil
}

// onGrid reports whether t currently occupies its recorded cell.
func (b *Board) onGrid(t *Tile) bool {
	return t != nil && b.grid.peek(t.pos) == t
}

// settle reports a stable board and checks for remaining moves.
func (b *Board) settle() {
	b.orch.OnBoardStable()
	if len(b.ScanForMoves()) == 0 {
		b.mu.Lock()
		b.stats.Deadlocks++
		b.mu.Unlock()
		b.logger.Debug("no moves available")
		b.orch.OnNoMovesAvailable()
	}
}
