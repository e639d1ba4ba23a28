package core

import (
	"fmt"
	"strings"
)

// Grid is a fixed-size 2D store mapping each cell to an optional item.
// The zero value of T is the empty sentinel. Cells are stored row-major
// with index = y*W + x.
//
// A Grid must be initialized before use, either through NewGrid or by
// calling Initialize on a zero Grid. Using an uninitialized grid returns
// ErrUninitializedGrid.
type Grid[T comparable] struct {
	w, h  int
	cells []T
	ready bool
}

// NewGrid creates an initialized grid of the given dimensions.
func NewGrid[T comparable](w, h int) (*Grid[T], error) {
	g := &Grid[T]{}
	if err := g.Initialize(w, h); err != nil {
		return nil, err
	}
	return g, nil
}

// Initialize (re)allocates the grid. All cells start empty. A height of
// zero yields a valid grid with no cells.
func (g *Grid[T]) Initialize(w, h int) error {
	if w < 1 || h < 0 {
		return fmt.Errorf("grid: %w: %dx%d", ErrInvalidDimensions, w, h)
	}
	g.w, g.h = w, h
	g.cells = make([]T, w*h)
	g.ready = true
	return nil
}

// IsReady reports whether the grid has been initialized.
func (g *Grid[T]) IsReady() bool {
	return g.ready
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.h }

// Dimensions returns (width, height).
func (g *Grid[T]) Dimensions() (int, int) {
	return g.w, g.h
}

// CheckBounds reports whether c lies inside the grid. It is always false
// for an uninitialized grid.
func (g *Grid[T]) CheckBounds(c Coord) bool {
	return g.ready && c.X >= 0 && c.X < g.w && c.Y >= 0 && c.Y < g.h
}

func (g *Grid[T]) check(c Coord) error {
	if !g.ready {
		return fmt.Errorf("grid: %w", ErrUninitializedGrid)
	}
	if c.X < 0 || c.X >= g.w || c.Y < 0 || c.Y >= g.h {
		return fmt.Errorf("grid: %w: %v not in %dx%d", ErrOutOfBounds, c, g.w, g.h)
	}
	return nil
}

func (g *Grid[T]) index(c Coord) int {
	return c.Y*g.w + c.X
}

// IsEmpty reports whether the cell at c holds no item.
func (g *Grid[T]) IsEmpty(c Coord) (bool, error) {
	if err := g.check(c); err != nil {
		return false, err
	}
	var zero T
	return g.cells[g.index(c)] == zero, nil
}

// Get returns the item at c, or the zero value when the cell is empty.
func (g *Grid[T]) Get(c Coord) (T, error) {
	var zero T
	if err := g.check(c); err != nil {
		return zero, err
	}
	return g.cells[g.index(c)], nil
}

// Put places item at c. It returns false without changing the grid if the
// cell is occupied and allowOverwrite is false.
func (g *Grid[T]) Put(item T, c Coord, allowOverwrite bool) (bool, error) {
	if err := g.check(c); err != nil {
		return false, err
	}
	var zero T
	i := g.index(c)
	if g.cells[i] != zero && !allowOverwrite {
		return false, nil
	}
	g.cells[i] = item
	return true, nil
}

// Remove empties the cell at c and returns its prior occupant.
func (g *Grid[T]) Remove(c Coord) (T, error) {
	var zero T
	if err := g.check(c); err != nil {
		return zero, err
	}
	i := g.index(c)
	prev := g.cells[i]
	g.cells[i] = zero
	return prev, nil
}

// Swap exchanges the occupants of two cells. It does not touch any
// position the items themselves may record.
func (g *Grid[T]) Swap(a, b Coord) error {
	if err := g.check(a); err != nil {
		return err
	}
	if err := g.check(b); err != nil {
		return err
	}
	ia, ib := g.index(a), g.index(b)
	g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
	return nil
}

// Clear empties every cell, keeping the dimensions.
func (g *Grid[T]) Clear() {
	var zero T
	for i := range g.cells {
		g.cells[i] = zero
	}
}

// peek returns the item at c, or the zero value when c is outside the grid.
func (g *Grid[T]) peek(c Coord) T {
	var zero T
	if !g.CheckBounds(c) {
		return zero
	}
	return g.cells[g.index(c)]
}

// Format renders the grid top row first, one line per row, with "x" for
// empty cells. cell formats an occupied cell.
func (g *Grid[T]) Format(cell func(T) string) string {
	var sb strings.Builder
	var zero T
	for y := g.h - 1; y >= 0; y-- {
		for x := 0; x < g.w; x++ {
			item := g.cells[g.index(C(x, y))]
			if item == zero {
				sb.WriteString("x")
			} else {
				sb.WriteString(cell(item))
			}
			if x < g.w-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// String renders the grid using fmt.Sprint for each item.
func (g *Grid[T]) String() string {
	return g.Format(func(item T) string { return fmt.Sprint(item) })
}
