package core

import (
	"fmt"
	"sync/atomic"
)

// GemType is the type carried by gem tiles. It never matches normally.
const GemType = -1

// PowerupKind tags the special behavior of a tile.
type PowerupKind uint8

const (
	PowerupNone PowerupKind = iota
	PowerupBomb
	PowerupRowCol
	PowerupGem
)

// String returns the kind name.
func (k PowerupKind) String() string {
	switch k {
	case PowerupNone:
		return "none"
	case PowerupBomb:
		return "bomb"
	case PowerupRowCol:
		return "rowcol"
	case PowerupGem:
		return "gem"
	default:
		return "unknown"
	}
}

// Tile is an entity occupying one cell. Tiles are owned by a Pool and
// mutated only by the Board that owns the pool.
type Tile struct {
	id   int
	typ  int
	kind PowerupKind
	pos  Coord

	// idle is cleared by an Animator while the tile is in transition.
	// It is atomic because animators complete on the render goroutine.
	idle   atomic.Bool
	active bool
}

func newTile(id int) *Tile {
	t := &Tile{id: id}
	t.idle.Store(true)
	return t
}

// ID returns the stable pool identity of the tile.
func (t *Tile) ID() int { return t.id }

// Type returns the tile type, or GemType for gems.
func (t *Tile) Type() int { return t.typ }

// Kind returns the power-up kind.
func (t *Tile) Kind() PowerupKind { return t.kind }

// Pos returns the tile's recorded coordinate. It is authoritative only
// while the tile is on the grid.
func (t *Tile) Pos() Coord { return t.pos }

// Idle reports whether the tile is not mid-transition.
func (t *Tile) Idle() bool { return t.idle.Load() }

// IsGem reports whether the tile is a gem power-up.
func (t *Tile) IsGem() bool { return t.kind == PowerupGem }

// Active reports whether the tile is checked out of its pool.
func (t *Tile) Active() bool { return t.active }

func (t *Tile) setIdle(idle bool) { t.idle.Store(idle) }

// upgrade sets the power-up kind. Gems lose their type.
func (t *Tile) upgrade(kind PowerupKind) {
	t.kind = kind
	if kind == PowerupGem {
		t.typ = GemType
	}
}

// String returns a compact description such as "#12 type 3 bomb (1, 2)".
func (t *Tile) String() string {
	if t == nil {
		return "<nil>"
	}
	if t.kind == PowerupNone {
		return fmt.Sprintf("#%d type %d %v", t.id, t.typ, t.pos)
	}
	return fmt.Sprintf("#%d type %d %s %v", t.id, t.typ, t.kind, t.pos)
}
