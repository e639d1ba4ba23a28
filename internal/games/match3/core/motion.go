package core

import (
	"context"
	"sync"
)

// MotionKind names the reason a tile moves.
type MotionKind uint8

const (
	MotionSwap MotionKind = iota
	MotionFall
	MotionSpawn
)

// Transition is a started tile movement.
type Transition interface {
	// Wait blocks until the movement finishes or ctx is done.
	Wait(ctx context.Context) error
}

// Animator starts visual transitions. A tile must report Idle() == false
// for the whole duration of its transition.
type Animator interface {
	Move(t *Tile, from, to Coord, kind MotionKind) Transition
}

type doneTransition struct{}

func (doneTransition) Wait(ctx context.Context) error { return ctx.Err() }

// Instant completes every transition immediately. Tiles stay idle.
type Instant struct{}

// Move returns an already finished transition.
func (Instant) Move(*Tile, Coord, Coord, MotionKind) Transition {
	return doneTransition{}
}

// Durations sets the length of each motion kind in ticks.
type Durations struct {
	Swap  int
	Fall  int
	Spawn int
}

func (d Durations) of(kind MotionKind) int {
	switch kind {
	case MotionSwap:
		return d.Swap
	case MotionFall:
		return d.Fall
	default:
		return d.Spawn
	}
}

type tween struct {
	tile     *Tile
	id       int
	from, to Coord
	elapsed  int
	total    int
	done     chan struct{}
}

func (w *tween) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *tween) finish() {
	w.tile.setIdle(true)
	close(w.done)
}

// TickAnimator runs transitions on a fixed tick clock. The game loop calls
// Advance once per tick; the board waits on the returned transitions.
type TickAnimator struct {
	mu        sync.Mutex
	durations Durations
	active    map[*Tile]*tween
	order     []*tween
}

// NewTickAnimator creates an animator with the given durations. A
// non-positive duration makes that motion kind instant.
func NewTickAnimator(d Durations) *TickAnimator {
	return &TickAnimator{
		durations: d,
		active:    make(map[*Tile]*tween),
	}
}

// Move starts moving t. A transition already running for t is finished
// first.
func (a *TickAnimator) Move(t *Tile, from, to Coord, kind MotionKind) Transition {
	total := a.durations.of(kind)
	if total <= 0 {
		return doneTransition{}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if prev, ok := a.active[t]; ok {
		a.removeLocked(prev)
		prev.finish()
	}
	w := &tween{tile: t, id: t.id, from: from, to: to, total: total, done: make(chan struct{})}
	t.setIdle(false)
	a.active[t] = w
	a.order = append(a.order, w)
	return w
}

// Advance moves every transition forward by one tick and returns the
// number still running.
func (a *TickAnimator) Advance() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	kept := a.order[:0]
	for _, w := range a.order {
		w.elapsed++
		if w.elapsed >= w.total {
			delete(a.active, w.tile)
			w.finish()
			continue
		}
		kept = append(kept, w)
	}
	for i := len(kept); i < len(a.order); i++ {
		a.order[i] = nil
	}
	a.order = kept
	return len(a.order)
}

// Flush finishes all running transitions.
func (a *TickAnimator) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, w := range a.order {
		w.finish()
	}
	a.order = nil
	a.active = make(map[*Tile]*tween)
}

// Pending returns the number of running transitions.
func (a *TickAnimator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.order)
}

// Position returns the eased on-screen position of t in cell units. ok is
// false when t is not moving.
func (a *TickAnimator) Position(t *Tile) (x, y float64, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, found := a.active[t]
	if !found {
		return 0, 0, false
	}
	x, y = w.position()
	return x, y, true
}

// PositionOf is Position for the tile with the given ID. Renderers working
// from a Snapshot use it so they never touch live tiles.
func (a *TickAnimator) PositionOf(id int) (x, y float64, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, w := range a.order {
		if w.id == id {
			x, y = w.position()
			return x, y, true
		}
	}
	return 0, 0, false
}

func (w *tween) position() (x, y float64) {
	p := Ease(float64(w.elapsed) / float64(w.total))
	x = float64(w.from.X) + float64(w.to.X-w.from.X)*p
	y = float64(w.from.Y) + float64(w.to.Y-w.from.Y)*p
	return x, y
}

func (a *TickAnimator) removeLocked(w *tween) {
	delete(a.active, w.tile)
	for i, o := range a.order {
		if o == w {
			a.order = append(a.order[:i], a.order[i+1:]...)
			return
		}
	}
}

// Ease maps linear progress in [0, 1] to quadratic ease-in progress.
func Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t
}
