package core

import (
	"context"
	"fmt"
)

// SwapOutcome tells which path a completed swap took.
type SwapOutcome uint8

const (
	// SwapNone is returned together with an error.
	SwapNone SwapOutcome = iota
	SwapReverted
	SwapMatched
	SwapGem
)

// String returns the outcome name.
func (o SwapOutcome) String() string {
	switch o {
	case SwapReverted:
		return "reverted"
	case SwapMatched:
		return "matched"
	case SwapGem:
		return "gem"
	default:
		return "none"
	}
}

// ValidateSwap checks that a and c are distinct, adjacent, idle tiles on
// the board.
func (b *Board) ValidateSwap(a, c *Tile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.validateSwap(a, c)
}

func (b *Board) validateSwap(a, c *Tile) error {
	switch {
	case a == nil || c == nil:
		return ErrTileNotOnBoard
	case a == c:
		return ErrSameTile
	case !b.onGrid(a) || !b.onGrid(c):
		return ErrTileNotOnBoard
	case !a.pos.Adjacent(c.pos):
		return fmt.Errorf("%w: %v and %v", ErrNotAdjacent, a.pos, c.pos)
	case !a.Idle() || !c.Idle():
		return ErrTileBusy
	}
	return nil
}

// TrySwap swaps two adjacent tiles and keeps the swap only if it produces
// a match or involves a gem. Otherwise the swap is undone. On success the
// board cascades until stable before TrySwap returns.
func (b *Board) TrySwap(ctx context.Context, a, c *Tile) (SwapOutcome, error) {
	if err := b.acquire(); err != nil {
		return SwapNone, err
	}
	defer b.releaseBusy()

	b.mu.Lock()
	if err := b.validateSwap(a, c); err != nil {
		b.mu.Unlock()
		return SwapNone, err
	}
	// Keep our own references; the caller may reuse its selection.
	first, second := a, c
	b.stats.Swaps++
	b.round = 0
	last := b.swapLocked(first, second)
	b.mu.Unlock()

	if err := wait(ctx, last); err != nil {
		// Cancelled before the swap could be judged: put both tiles back
		// without animating so the board never keeps an unchecked swap.
		b.mu.Lock()
		b.exchangeLocked(first, second)
		b.stats.Reverts++
		b.mu.Unlock()
		return SwapReverted, err
	}

	b.mu.Lock()
	if first.IsGem() || second.IsGem() {
		b.stats.GemSwaps++
		b.resolve(b.gemMatch(first, second))
		b.mu.Unlock()
		b.logger.Debug("gem swap", "a", first.pos, "b", second.pos)
		return SwapGem, b.collapseAndRefill(ctx)
	}

	ma := FindMatch(b.grid, first)
	mb := FindMatch(b.grid, second)
	if ma != nil || mb != nil {
		if ma != nil {
			ma.nominee = first
			b.resolve(ma)
		}
		if mb != nil && b.stale(mb) {
			mb = FindMatch(b.grid, second)
		}
		if mb != nil {
			mb.nominee = second
			b.resolve(mb)
		}
		b.mu.Unlock()
		return SwapMatched, b.collapseAndRefill(ctx)
	}

	b.stats.Reverts++
	last = b.swapLocked(first, second)
	b.mu.Unlock()
	b.logger.Debug("swap reverted", "a", first.pos, "b", second.pos)

	if err := wait(ctx, last); err != nil {
		return SwapReverted, err
	}

	// A stable board has nothing to find here; the scan catches boards
	// loaded or mutated into an unstable state.
	b.mu.Lock()
	found := b.rescan()
	b.mu.Unlock()
	if found {
		return SwapReverted, b.collapseAndRefill(ctx)
	}
	return SwapReverted, nil
}

// SwapAt is TrySwap for two coordinates.
func (b *Board) SwapAt(ctx context.Context, p, q Coord) (SwapOutcome, error) {
	a, err := b.TileAt(p)
	if err != nil {
		return SwapNone, err
	}
	c, err := b.TileAt(q)
	if err != nil {
		return SwapNone, err
	}
	return b.TrySwap(ctx, a, c)
}

// swapLocked exchanges two tiles structurally and starts their motion.
// It returns the transition of the second tile.
func (b *Board) swapLocked(a, c *Tile) Transition {
	pa, pc := a.pos, c.pos
	b.exchangeLocked(a, c)
	b.anim.Move(a, pa, pc, MotionSwap)
	return b.anim.Move(c, pc, pa, MotionSwap)
}

// exchangeLocked swaps the grid slots of a and c together with their
// recorded positions.
func (b *Board) exchangeLocked(a, c *Tile) {
	pa, pc := a.pos, c.pos
	_ = b.grid.Swap(pa, pc)
	a.pos, c.pos = pc, pa
}

// stale reports whether any tile of m has left the grid.
func (b *Board) stale(m *Match) bool {
	for _, t := range m.tiles {
		if !b.onGrid(t) {
			return true
		}
	}
	return false
}
