package core

import "context"

// collapseAndRefill runs gravity, refill and rescan rounds until a rescan
// finds nothing, then reports the board stable.
func (b *Board) collapseAndRefill(ctx context.Context) error {
	rounds := 0
	for {
		if err := b.collapse(ctx); err != nil {
			return err
		}
		if err := b.refill(ctx); err != nil {
			return err
		}

		b.mu.Lock()
		b.round++
		found := b.rescan()
		if found {
			rounds++
			b.stats.CascadeRounds++
			if rounds > b.stats.LongestCascade {
				b.stats.LongestCascade = rounds
			}
		}
		round := b.round
		b.mu.Unlock()

		if !found {
			break
		}
		b.logger.Debug("cascade", "round", round)
	}
	b.settle()
	return nil
}

// collapse drops tiles into the empty cells below them, one column at a
// time. A tile still in transition blocks its column above it.
func (b *Board) collapse(ctx context.Context) error {
	b.mu.Lock()
	var last Transition
	w, h := b.grid.Dimensions()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if b.grid.peek(C(x, y)) != nil {
				continue
			}
			for above := y + 1; above < h; above++ {
				t := b.grid.peek(C(x, above))
				if t == nil {
					continue
				}
				if !t.Idle() {
					break
				}
				from := t.pos
				_, _ = b.grid.Remove(from)
				if err := b.place(t, C(x, y)); err != nil {
					b.mu.Unlock()
					return err
				}
				last = b.anim.Move(t, from, t.pos, MotionFall)
				break
			}
		}
	}
	b.mu.Unlock()
	return wait(ctx, last)
}

// refill draws a tile from the pool for every empty cell. New tiles enter
// from above the board.
func (b *Board) refill(ctx context.Context) error {
	b.mu.Lock()
	var last Transition
	w, h := b.grid.Dimensions()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := C(x, y)
			if b.grid.peek(c) != nil {
				continue
			}
			t := b.pool.AcquireRandom()
			if err := b.place(t, c); err != nil {
				b.mu.Unlock()
				return err
			}
			if !b.allowMatches {
				b.pickSafeType(t)
			}
			last = b.anim.Move(t, C(x, y+h), c, MotionSpawn)
		}
	}
	b.mu.Unlock()
	return wait(ctx, last)
}

// pickSafeType cycles t through the palette until it no longer completes a
// match. When every type matches, the last one is kept and a warning is
// logged.
func (b *Board) pickSafeType(t *Tile) {
	initial := t.typ
	for IsPartOfMatch(b.grid, t) {
		if b.pool.NextType(t) == initial {
			b.stats.NoSafeType++
			b.logger.Warn("refill kept a matching tile",
				"err", ErrNoSafeTypeFound, "x", t.pos.X, "y", t.pos.Y, "type", t.typ)
			return
		}
	}
}

// rescan resolves every match found on the board, visiting occupied idle
// cells in row-major order. It reports whether anything was resolved.
func (b *Board) rescan() bool {
	found := false
	w, h := b.grid.Dimensions()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := b.grid.peek(C(x, y))
			if t == nil || !t.Idle() {
				continue
			}
			m := FindMatch(b.grid, t)
			if m == nil {
				continue
			}
			m.round = b.round
			b.resolve(m)
			found = true
		}
	}
	return found
}

func wait(ctx context.Context, t Transition) error {
	if t == nil {
		return ctx.Err()
	}
	return t.Wait(ctx)
}
