package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type resolved struct {
	typ    MatchType
	origin PowerupKind
	round  int
	count  int
	ids    []int
	coords []Coord
}

// recordingSink copies each match at call time; tiles are recycled later.
type recordingSink struct {
	matches []resolved
}

func (s *recordingSink) OnMatchResolved(m *Match) {
	r := resolved{typ: m.Type(), origin: m.Origin(), round: m.Round(), count: m.Count()}
	for _, t := range m.Tiles() {
		r.ids = append(r.ids, t.ID())
		r.coords = append(r.coords, t.Pos())
	}
	s.matches = append(s.matches, r)
}

type recordingOrchestrator struct {
	stable  int
	noMoves int
}

func (o *recordingOrchestrator) OnBoardStable()      { o.stable++ }
func (o *recordingOrchestrator) OnNoMovesAvailable() { o.noMoves++ }

type fixture struct {
	board *Board
	sink  *recordingSink
	orch  *recordingOrchestrator
}

func newFixture(t *testing.T, types int, rows []string, opts ...Option) *fixture {
	t.Helper()
	l := MustParseLayout(rows...)
	f := &fixture{sink: &recordingSink{}, orch: &recordingOrchestrator{}}
	opts = append([]Option{
		WithRandom(NewSequenceRandom(0)),
		WithSink(f.sink),
		WithOrchestrator(f.orch),
	}, opts...)
	b, err := NewBoard(l.Width, l.Height, types, opts...)
	require.NoError(t, err)
	require.NoError(t, b.Load(l))
	f.board = b
	return f
}

func (f *fixture) tile(t *testing.T, x, y int) *Tile {
	t.Helper()
	tile, err := f.board.TileAt(C(x, y))
	require.NoError(t, err)
	require.NotNil(t, tile, "no tile at (%d, %d)", x, y)
	return tile
}

func (f *fixture) swap(t *testing.T, p, q Coord) SwapOutcome {
	t.Helper()
	out, err := f.board.SwapAt(context.Background(), p, q)
	require.NoError(t, err)
	return out
}

// requireSettled checks gravity, a full board, position bookkeeping and
// the absence of matches.
func requireSettled(t *testing.T, b *Board) {
	t.Helper()
	w, h := b.Dimensions()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			tile := b.grid.peek(C(x, y))
			require.NotNil(t, tile, "empty cell at (%d, %d)", x, y)
			require.Equal(t, C(x, y), tile.Pos(), "tile position out of sync")
			require.True(t, tile.Active())
			require.Nil(t, FindMatch(b.grid, tile), "unresolved match at (%d, %d)", x, y)
		}
	}
}

// requireGravity checks that no column has an empty cell under a tile.
func requireGravity(t *testing.T, b *Board) {
	t.Helper()
	w, h := b.Dimensions()
	for x := 0; x < w; x++ {
		seenEmpty := false
		for y := 0; y < h; y++ {
			tile := b.grid.peek(C(x, y))
			if tile == nil {
				seenEmpty = true
				continue
			}
			require.False(t, seenEmpty, "tile at (%d, %d) floats over an empty cell", x, y)
			require.Equal(t, C(x, y), tile.Pos())
		}
	}
}

func coordsOf(tiles []*Tile) []Coord {
	out := make([]Coord, len(tiles))
	for i, t := range tiles {
		out[i] = t.Pos()
	}
	return out
}
