package match3

import (
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// Cursor tracks the highlighted cell and the first tile of a pending swap.
type Cursor struct {
	pos      m3.Coord
	selected *m3.Coord
	w, h     int
}

// NewCursor places a cursor in the middle of a w by h board.
func NewCursor(w, h int) Cursor {
	return Cursor{pos: m3.C(w/2, h/2), w: w, h: h}
}

// Pos returns the highlighted cell.
func (c *Cursor) Pos() m3.Coord { return c.pos }

// Selected returns the first tile of a pending swap, if any.
func (c *Cursor) Selected() (m3.Coord, bool) {
	if c.selected == nil {
		return m3.Coord{}, false
	}
	return *c.selected, true
}

// Move steps the cursor one cell, staying on the board.
func (c *Cursor) Move(d m3.Dir) {
	next := c.pos.Step(d)
	if next.X < 0 || next.X >= c.w || next.Y < 0 || next.Y >= c.h {
		return
	}
	c.pos = next
}

// MoveTo puts the cursor on p if it is on the board.
func (c *Cursor) MoveTo(p m3.Coord) bool {
	if p.X < 0 || p.X >= c.w || p.Y < 0 || p.Y >= c.h {
		return false
	}
	c.pos = p
	return true
}

// Press selects the cell under the cursor. The second press on a
// neighbor of the selection returns the pair to swap and clears the
// selection. Pressing the selected cell again cancels it; pressing a
// cell further away moves the selection there.
func (c *Cursor) Press() (first, second m3.Coord, ready bool) {
	if c.selected == nil {
		p := c.pos
		c.selected = &p
		return m3.Coord{}, m3.Coord{}, false
	}

	sel := *c.selected
	switch {
	case sel == c.pos:
		c.selected = nil
	case sel.Adjacent(c.pos):
		c.selected = nil
		return sel, c.pos, true
	default:
		p := c.pos
		c.selected = &p
	}
	return m3.Coord{}, m3.Coord{}, false
}

// Cancel drops the pending selection.
func (c *Cursor) Cancel() {
	c.selected = nil
}
