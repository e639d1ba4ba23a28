package autoplay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

func newPlayer(t *testing.T, strategy Strategy, seed int64) *Player {
	t.Helper()
	p, err := New(Config{Width: 8, Height: 8, Types: 6, Seed: seed, Strategy: strategy})
	require.NoError(t, err)
	return p
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, StrategyFirst, ParseStrategy("first"))
	assert.Equal(t, StrategyRandom, ParseStrategy("random"))
	assert.Equal(t, StrategyGreedy, ParseStrategy("greedy"))
	assert.Equal(t, StrategyGreedy, ParseStrategy("bogus"))
}

func TestNewRejectsBadBoard(t *testing.T) {
	_, err := New(Config{Width: 0, Height: 4, Types: 6})
	assert.ErrorIs(t, err, m3.ErrInvalidDimensions)
}

func TestRunPlaysMoves(t *testing.T) {
	for _, s := range []Strategy{StrategyFirst, StrategyRandom, StrategyGreedy} {
		t.Run(string(s), func(t *testing.T) {
			p := newPlayer(t, s, 5)

			res, err := p.Run(context.Background(), 25)
			require.NoError(t, err)

			assert.Equal(t, 25, res.Moves)
			assert.Equal(t, 25, res.Board.Swaps)
			assert.Zero(t, res.Board.Reverts, "listed moves always match")
			assert.Positive(t, res.Score)
			assert.Equal(t, res.Score, res.Scoring.Score)
			assert.GreaterOrEqual(t, res.Scoring.Matches, 25)
			assert.False(t, p.Board().Busy())
		})
	}
}

func TestRunIsDeterministic(t *testing.T) {
	a, err := newPlayer(t, StrategyRandom, 11).Run(context.Background(), 20)
	require.NoError(t, err)
	b, err := newPlayer(t, StrategyRandom, 11).Run(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStepReportsTurn(t *testing.T) {
	p := newPlayer(t, StrategyFirst, 2)

	turn, err := p.Step(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, turn.Number)
	assert.Contains(t, []m3.SwapOutcome{m3.SwapMatched, m3.SwapGem}, turn.Outcome)
	assert.Equal(t, p.Score(), turn.Score)
}

func TestGreedyPrefersBiggerMatch(t *testing.T) {
	p, err := New(Config{Width: 5, Height: 3, Types: 6, Strategy: StrategyGreedy})
	require.NoError(t, err)
	p.populated = true
	l := m3.MustParseLayout(
		"34534",
		"45145",
		"11211",
	)
	require.NoError(t, p.board.Load(l))

	moves := p.board.Moves()
	require.NotEmpty(t, moves)
	mv := p.choose(moves)

	assert.Equal(t, 5, preview(l, 6, mv))
	for _, other := range moves {
		assert.LessOrEqual(t, preview(l, 6, other), 5, "move %v", other)
	}
}

func TestPreviewCountsSwapMatch(t *testing.T) {
	l := m3.MustParseLayout(
		"3453",
		"4514",
		"1120",
	)
	assert.Equal(t, 3, preview(l, 6, m3.Move{From: m3.C(2, 1), Dir: m3.DirDown}))
	assert.Zero(t, preview(l, 6, m3.Move{From: m3.C(0, 2), Dir: m3.DirRight}))
}

func TestStepReshufflesDeadBoard(t *testing.T) {
	p := newPlayer(t, StrategyFirst, 4)
	p.populated = true
	require.NoError(t, p.board.Load(m3.MustParseLayout(
		"01234501",
		"23450123",
		"45012345",
		"01234501",
		"23450123",
		"45012345",
		"01234501",
		"23450123",
	)))
	require.Empty(t, p.board.Moves())

	turn, err := p.Step(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, turn.Reshuffles, 1)
	assert.Equal(t, 1, turn.Number)
	assert.Equal(t, p.Result().Reshuffles, turn.Reshuffles, "the turn reports reshuffles before and after its move")
}

func TestStepStopsOnCancel(t *testing.T) {
	p := newPlayer(t, StrategyFirst, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Step(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
