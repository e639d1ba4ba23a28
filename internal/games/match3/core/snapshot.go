package core

import (
	"fmt"
	"strings"
)

// CellView is an immutable copy of one cell.
type CellView struct {
	Empty bool        `json:"empty,omitempty"`
	ID    int         `json:"id"`
	Type  int         `json:"type"`
	Kind  PowerupKind `json:"kind"`
	Idle  bool        `json:"idle"`
}

// Snapshot is an immutable copy of the board, row-major from y = 0.
type Snapshot struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  []CellView `json:"cells"`
}

// Snapshot copies the current board state.
func (b *Board) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	w, h := b.grid.Dimensions()
	s := Snapshot{Width: w, Height: h, Cells: make([]CellView, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := b.grid.peek(C(x, y))
			if t == nil {
				s.Cells[y*w+x] = CellView{Empty: true}
				continue
			}
			s.Cells[y*w+x] = CellView{ID: t.id, Type: t.typ, Kind: t.kind, Idle: t.Idle()}
		}
	}
	return s
}

// At returns the cell at c. Out-of-range coordinates read as empty.
func (s Snapshot) At(c Coord) CellView {
	if c.X < 0 || c.X >= s.Width || c.Y < 0 || c.Y >= s.Height {
		return CellView{Empty: true}
	}
	return s.Cells[c.Y*s.Width+c.X]
}

// Layout converts the snapshot to a Layout.
func (s Snapshot) Layout() Layout {
	l := Layout{Width: s.Width, Height: s.Height, Cells: make([]LayoutCell, len(s.Cells))}
	for i, c := range s.Cells {
		l.Cells[i] = LayoutCell{Empty: c.Empty, Type: c.Type, Kind: c.Kind}
	}
	return l
}

// MarshalText encodes the kind by name.
func (k PowerupKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MarshalText encodes the match type by name.
func (t MatchType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MarshalText encodes the outcome by name.
func (o SwapOutcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// MarshalText encodes the direction in lower case.
func (d Dir) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(d.String())), nil
}

// UnmarshalText decodes a kind name.
func (k *PowerupKind) UnmarshalText(text []byte) (err error) {
	*k, err = parseName(text, "powerup kind", PowerupNone, PowerupBomb, PowerupRowCol, PowerupGem)
	return err
}

// UnmarshalText decodes a match type name.
func (t *MatchType) UnmarshalText(text []byte) (err error) {
	*t, err = parseName(text, "match type", MatchInvalid, Match3, Match4, Match5, MatchCross)
	return err
}

// UnmarshalText decodes an outcome name.
func (o *SwapOutcome) UnmarshalText(text []byte) (err error) {
	*o, err = parseName(text, "swap outcome", SwapNone, SwapReverted, SwapMatched, SwapGem)
	return err
}

// UnmarshalText decodes a direction name in any case.
func (d *Dir) UnmarshalText(text []byte) (err error) {
	*d, err = parseName(text, "direction", Directions[:]...)
	return err
}

func parseName[T fmt.Stringer](text []byte, what string, values ...T) (T, error) {
	name := string(text)
	for _, v := range values {
		if strings.EqualFold(v.String(), name) {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("core: unknown %s %q", what, name)
}
