package core

import (
	"fmt"
	"strings"
)

// LayoutCell describes one cell of a Layout.
type LayoutCell struct {
	Empty bool
	Type  int
	Kind  PowerupKind
}

// Layout is a fixed board arrangement. Cells are row-major from y = 0.
type Layout struct {
	Width  int
	Height int
	Cells  []LayoutCell
}

// At returns the cell at c. Out-of-range coordinates read as empty.
func (l Layout) At(c Coord) LayoutCell {
	if c.X < 0 || c.X >= l.Width || c.Y < 0 || c.Y >= l.Height {
		return LayoutCell{Empty: true}
	}
	return l.Cells[c.Y*l.Width+c.X]
}

// ParseLayout reads rows given top row first, one rune per cell:
//
//	0-9  plain tile of that type
//	A-J  bomb of type 0-9
//	a-j  row/column tile of type 0-9
//	*    gem
//	.    empty cell
//
// Spaces are ignored so rows can be written "0 1 2".
func ParseLayout(rows ...string) (Layout, error) {
	l := Layout{Height: len(rows)}
	parsed := make([][]LayoutCell, len(rows))
	for i, row := range rows {
		row = strings.ReplaceAll(row, " ", "")
		cells := make([]LayoutCell, 0, len(row))
		for _, r := range row {
			cell, err := parseCell(r)
			if err != nil {
				return Layout{}, fmt.Errorf("%w: row %d: %v", ErrInvalidLayout, i, err)
			}
			cells = append(cells, cell)
		}
		if i == 0 {
			l.Width = len(cells)
		} else if len(cells) != l.Width {
			return Layout{}, fmt.Errorf("%w: row %d has %d cells, expected %d",
				ErrInvalidLayout, i, len(cells), l.Width)
		}
		parsed[i] = cells
	}
	if l.Width < 1 && l.Height > 0 {
		return Layout{}, fmt.Errorf("%w: empty rows", ErrInvalidLayout)
	}

	l.Cells = make([]LayoutCell, 0, l.Width*l.Height)
	for y := 0; y < l.Height; y++ {
		l.Cells = append(l.Cells, parsed[l.Height-1-y]...)
	}
	return l, nil
}

// MustParseLayout is ParseLayout that panics on error, for fixtures.
func MustParseLayout(rows ...string) Layout {
	l, err := ParseLayout(rows...)
	if err != nil {
		panic(err)
	}
	return l
}

func parseCell(r rune) (LayoutCell, error) {
	switch {
	case r == '.':
		return LayoutCell{Empty: true}, nil
	case r == '*':
		return LayoutCell{Type: GemType, Kind: PowerupGem}, nil
	case r >= '0' && r <= '9':
		return LayoutCell{Type: int(r - '0')}, nil
	case r >= 'A' && r <= 'J':
		return LayoutCell{Type: int(r - 'A'), Kind: PowerupBomb}, nil
	case r >= 'a' && r <= 'j':
		return LayoutCell{Type: int(r - 'a'), Kind: PowerupRowCol}, nil
	default:
		return LayoutCell{}, fmt.Errorf("unknown cell %q", r)
	}
}

// String renders the layout in ParseLayout syntax, top row first.
func (l Layout) String() string {
	var sb strings.Builder
	for y := l.Height - 1; y >= 0; y-- {
		for x := 0; x < l.Width; x++ {
			sb.WriteRune(cellRune(l.At(C(x, y))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func cellRune(c LayoutCell) rune {
	switch {
	case c.Empty:
		return '.'
	case c.Kind == PowerupGem:
		return '*'
	case c.Kind == PowerupBomb:
		return 'A' + rune(c.Type)
	case c.Kind == PowerupRowCol:
		return 'a' + rune(c.Type)
	default:
		return '0' + rune(c.Type)
	}
}
