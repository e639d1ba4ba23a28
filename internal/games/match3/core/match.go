package core

import (
	"fmt"
	"strings"
)

// Orientation records which axes contributed runs to a match.
type Orientation uint8

const (
	OrientationNone Orientation = iota
	OrientationHorizontal
	OrientationVertical
	OrientationBoth
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case OrientationNone:
		return "none"
	case OrientationHorizontal:
		return "horizontal"
	case OrientationVertical:
		return "vertical"
	case OrientationBoth:
		return "both"
	default:
		return "unknown"
	}
}

// Combine merges two orientations. Both dominates, none yields to the
// other side, and horizontal with vertical gives both.
func (o Orientation) Combine(other Orientation) Orientation {
	switch {
	case o == OrientationBoth || other == OrientationBoth:
		return OrientationBoth
	case o == OrientationNone:
		return other
	case other == OrientationNone || o == other:
		return o
	default:
		return OrientationBoth
	}
}

// MatchType classifies a match by shape and size.
type MatchType uint8

const (
	MatchInvalid MatchType = iota
	Match3
	Match4
	Match5
	MatchCross
)

// String returns the match type name.
func (t MatchType) String() string {
	switch t {
	case Match3:
		return "match3"
	case Match4:
		return "match4"
	case Match5:
		return "match5"
	case MatchCross:
		return "cross"
	default:
		return "invalid"
	}
}

// Match is an accumulating set of tiles. Tiles keep insertion order.
type Match struct {
	tiles       []*Tile
	members     map[*Tile]struct{}
	orientation Orientation

	// unlisted counts tiles in a run that were already claimed by the tree
	// being built, so the run's size is right without listing them twice.
	unlisted int

	nominee *Tile
	origin  PowerupKind
	class   MatchType
	round   int
}

// NewMatch creates a match holding the given tiles.
func NewMatch(tiles ...*Tile) *Match {
	m := &Match{members: make(map[*Tile]struct{}, len(tiles))}
	for _, t := range tiles {
		m.Add(t)
	}
	return m
}

// newEffectMatch creates a match produced by a power-up. Its type is fixed
// to class regardless of size.
func newEffectMatch(origin PowerupKind, class MatchType, tiles ...*Tile) *Match {
	m := NewMatch(tiles...)
	m.origin = origin
	m.class = class
	return m
}

// Add appends t unless it is already a member. It reports whether t was added.
func (m *Match) Add(t *Tile) bool {
	if t == nil || m.Contains(t) {
		return false
	}
	m.members[t] = struct{}{}
	m.tiles = append(m.tiles, t)
	return true
}

// Contains reports membership.
func (m *Match) Contains(t *Tile) bool {
	_, ok := m.members[t]
	return ok
}

// Merge adds every tile of other that is not yet a member and combines
// orientations. The unlisted counter of other is not carried over.
func (m *Match) Merge(other *Match) {
	if other == nil {
		return
	}
	for _, t := range other.tiles {
		m.Add(t)
	}
	m.orientation = m.orientation.Combine(other.orientation)
}

// Tiles returns a copy of the member list.
func (m *Match) Tiles() []*Tile {
	out := make([]*Tile, len(m.tiles))
	copy(out, m.tiles)
	return out
}

// Len returns the number of listed tiles.
func (m *Match) Len() int { return len(m.tiles) }

// Count returns listed plus unlisted tiles.
func (m *Match) Count() int { return len(m.tiles) + m.unlisted }

// Unlisted returns the number of already-claimed tiles counted by this run.
func (m *Match) Unlisted() int { return m.unlisted }

// Orientation returns the combined orientation.
func (m *Match) Orientation() Orientation { return m.orientation }

// Origin returns the power-up whose effect produced the match, or
// PowerupNone for a match found by detection.
func (m *Match) Origin() PowerupKind { return m.origin }

// Prompted reports whether the match was caused by resolving a power-up.
// Prompted matches never create power-ups.
func (m *Match) Prompted() bool { return m.origin != PowerupNone }

// Nominee returns the tile that survives as a power-up when the match is
// large enough, or nil when not yet chosen.
func (m *Match) Nominee() *Tile { return m.nominee }

// Round returns the cascade round the match was resolved in. Round 0 is
// the swap itself.
func (m *Match) Round() int { return m.round }

// Type classifies the match.
func (m *Match) Type() MatchType {
	if m.class != MatchInvalid {
		return m.class
	}
	n := m.Count()
	switch {
	case m.orientation == OrientationBoth && n >= 3:
		return MatchCross
	case n >= 5:
		return Match5
	case n == 4:
		return Match4
	case n == 3:
		return Match3
	default:
		return MatchInvalid
	}
}

// TileType returns the type of the first tile, or GemType for an empty match.
func (m *Match) TileType() int {
	for _, t := range m.tiles {
		if t.typ != GemType {
			return t.typ
		}
	}
	return GemType
}

// String lists the match type and member coordinates.
func (m *Match) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Match of type %d :", m.TileType())
	for _, t := range m.tiles {
		fmt.Fprintf(&sb, " %v", t.pos)
	}
	return sb.String()
}
