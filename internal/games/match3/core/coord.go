// Package core implements the match-3 resolution engine: grid storage,
// match detection, the swap protocol, gravity and refill, cascades,
// power-ups, and the move availability scan.
//
// The package is UI-agnostic. Coordinates are board coordinates with the
// origin in the bottom-left corner: X increases to the right and Y
// increases upward, so gravity pulls tiles toward Y=0.
package core

import "fmt"

// Coord is a cell coordinate on the board.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns the coordinate as "(x, y)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Add returns the sum of two coordinates.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Scale multiplies both components by n.
func (c Coord) Scale(n int) Coord {
	return Coord{X: c.X * n, Y: c.Y * n}
}

// Step returns the neighbor one cell away in direction d.
func (c Coord) Step(d Dir) Coord {
	return c.Add(d.Delta())
}

// Adjacent reports whether o is an orthogonal neighbor of c.
func (c Coord) Adjacent(o Coord) bool {
	dx := c.X - o.X
	dy := c.Y - o.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// Dir is one of the four axis directions.
type Dir uint8

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Directions lists all four directions in clockwise order.
var Directions = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the direction name.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the unit offset for d. Up increases Y.
func (d Dir) Delta() Coord {
	switch d {
	case DirUp:
		return C(0, 1)
	case DirRight:
		return C(1, 0)
	case DirDown:
		return C(0, -1)
	case DirLeft:
		return C(-1, 0)
	default:
		return C(0, 0)
	}
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

// Clockwise returns the direction a quarter turn clockwise.
func (d Dir) Clockwise() Dir {
	return (d + 1) % 4
}

// CounterClockwise returns the direction a quarter turn counterclockwise.
func (d Dir) CounterClockwise() Dir {
	return (d + 3) % 4
}

// Axis is a line of cells through a tile, either a row or a column.
type Axis uint8

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// Dirs returns the two directions that walk along the axis.
func (a Axis) Dirs() (Dir, Dir) {
	if a == AxisHorizontal {
		return DirLeft, DirRight
	}
	return DirDown, DirUp
}

// Perpendicular returns the other axis.
func (a Axis) Perpendicular() Axis {
	if a == AxisHorizontal {
		return AxisVertical
	}
	return AxisHorizontal
}

// Orientation returns the match orientation produced by a run along a.
func (a Axis) Orientation() Orientation {
	if a == AxisHorizontal {
		return OrientationHorizontal
	}
	return OrientationVertical
}
