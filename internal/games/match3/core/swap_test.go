package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrySwapMatch3(t *testing.T) {
	f := newFixture(t, 6, []string{
		"3453",
		"4514",
		"1120",
	})
	moved := f.tile(t, 2, 1)

	out := f.swap(t, C(2, 0), C(2, 1))

	assert.Equal(t, SwapMatched, out)
	require.NotEmpty(t, f.sink.matches)
	first := f.sink.matches[0]
	assert.Equal(t, Match3, first.typ)
	assert.Equal(t, 0, first.round)
	assert.Equal(t, PowerupNone, first.origin)
	assert.Contains(t, first.ids, moved.ID())
	assert.ElementsMatch(t, []Coord{C(0, 0), C(1, 0), C(2, 0)}, first.coords)

	stats := f.board.Stats()
	assert.Equal(t, 0, stats.Bombs+stats.RowCols+stats.Gems)
	assert.Equal(t, 1, stats.Swaps)
	assert.Equal(t, 0, stats.Reverts)
	assert.Equal(t, 1, f.orch.stable)
	requireSettled(t, f.board)
}

func TestTrySwapMatch4CreatesBomb(t *testing.T) {
	f := newFixture(t, 6, []string{
		"3453",
		"4514",
		"1121",
	})
	moved := f.tile(t, 2, 1)

	out := f.swap(t, C(2, 0), C(2, 1))

	assert.Equal(t, SwapMatched, out)
	require.Len(t, f.sink.matches, 1)
	assert.Equal(t, Match4, f.sink.matches[0].typ)

	survivor := f.tile(t, 2, 0)
	assert.Same(t, moved, survivor, "the swapped tile becomes the power-up")
	assert.Equal(t, PowerupBomb, survivor.Kind())
	assert.Equal(t, 1, survivor.Type())
	assert.Equal(t, 1, f.board.Stats().Bombs)
	requireSettled(t, f.board)
}

func TestTrySwapRevert(t *testing.T) {
	f := newFixture(t, 6, []string{
		"3453",
		"4514",
		"1120",
	})
	before := f.board.String()
	a, b := f.tile(t, 0, 2), f.tile(t, 1, 2)

	out := f.swap(t, C(0, 2), C(1, 2))

	assert.Equal(t, SwapReverted, out)
	assert.Equal(t, before, f.board.String())
	assert.Equal(t, C(0, 2), a.Pos())
	assert.Equal(t, C(1, 2), b.Pos())
	assert.Empty(t, f.sink.matches)
	assert.Equal(t, 1, f.board.Stats().Reverts)
	assert.Equal(t, 0, f.orch.stable, "a plain revert does not settle")
}

func TestTrySwapRevertRescansLatentMatch(t *testing.T) {
	f := newFixture(t, 6, []string{
		"3453",
		"2224",
		"1010",
	})

	out := f.swap(t, C(0, 0), C(1, 0))

	assert.Equal(t, SwapReverted, out)
	require.NotEmpty(t, f.sink.matches)
	assert.ElementsMatch(t, []Coord{C(0, 1), C(1, 1), C(2, 1)}, f.sink.matches[0].coords)
	assert.Equal(t, 1, f.orch.stable)
	requireSettled(t, f.board)
}

func TestTrySwapGemWithType(t *testing.T) {
	f := newFixture(t, 6, []string{
		"2021",
		"1302",
		"2413",
		"*232",
	})
	gem := f.tile(t, 0, 0)
	var twos []int
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if tile := f.tile(t, x, y); tile.Type() == 2 {
				twos = append(twos, tile.ID())
			}
		}
	}
	require.Len(t, twos, 6)

	out := f.swap(t, C(0, 0), C(1, 0))

	assert.Equal(t, SwapGem, out)
	require.NotEmpty(t, f.sink.matches)
	first := f.sink.matches[0]
	assert.Equal(t, Match5, first.typ)
	assert.Equal(t, PowerupGem, first.origin)
	assert.ElementsMatch(t, append(twos, gem.ID()), first.ids)
	for _, m := range f.sink.matches[1:] {
		assert.Greater(t, m.round, 0, "later matches come from cascades")
	}
	assert.Equal(t, 1, f.board.Stats().GemSwaps)
	requireSettled(t, f.board)
}

func TestTrySwapTwoGems(t *testing.T) {
	f := newFixture(t, 6, []string{
		"012",
		"**3",
	})

	out := f.swap(t, C(0, 0), C(1, 0))

	assert.Equal(t, SwapGem, out)
	require.NotEmpty(t, f.sink.matches)
	assert.Len(t, f.sink.matches[0].ids, 6, "two gems take the whole board")
	requireSettled(t, f.board)
}

func TestTrySwapRejectsInvalidPairs(t *testing.T) {
	f := newFixture(t, 6, []string{
		"3453",
		"4514",
		"1120",
	})
	ctx := context.Background()
	a := f.tile(t, 0, 0)

	_, err := f.board.TrySwap(ctx, a, a)
	assert.ErrorIs(t, err, ErrSameTile)

	_, err = f.board.TrySwap(ctx, a, f.tile(t, 2, 0))
	assert.ErrorIs(t, err, ErrNotAdjacent)

	_, err = f.board.TrySwap(ctx, a, nil)
	assert.ErrorIs(t, err, ErrTileNotOnBoard)

	busy := f.tile(t, 1, 0)
	busy.setIdle(false)
	_, err = f.board.TrySwap(ctx, a, busy)
	assert.ErrorIs(t, err, ErrTileBusy)
	busy.setIdle(true)

	_, err = f.board.SwapAt(ctx, C(-1, 0), C(0, 0))
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.Equal(t, 0, f.board.Stats().Swaps)
}

func TestTrySwapCancelled(t *testing.T) {
	f := newFixture(t, 6, []string{
		"3453",
		"4514",
		"1120",
	})
	before := f.board.String()
	a, b := f.tile(t, 2, 0), f.tile(t, 2, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := f.board.SwapAt(ctx, C(2, 0), C(2, 1))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, SwapReverted, out, "a cancelled swap is undone")
	assert.Equal(t, before, f.board.String())
	assert.Equal(t, C(2, 0), a.Pos())
	assert.Equal(t, C(2, 1), b.Pos())
	assert.Empty(t, f.sink.matches)
	assert.False(t, f.board.Busy())
}

func TestTrySwapCancelledMidTransition(t *testing.T) {
	anim := NewTickAnimator(Durations{Swap: 100})
	f := newFixture(t, 6, []string{
		"3453",
		"4514",
		"1120",
	}, WithAnimator(anim))
	before := f.board.String()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan SwapOutcome, 1)
	go func() {
		out, _ := f.board.SwapAt(ctx, C(2, 0), C(2, 1))
		done <- out
	}()
	require.Eventually(t, func() bool { return anim.Pending() > 0 }, 5*time.Second, time.Millisecond)
	cancel()

	select {
	case out := <-done:
		assert.Equal(t, SwapReverted, out)
	case <-time.After(5 * time.Second):
		t.Fatal("swap did not return after cancel")
	}
	anim.Flush()
	assert.Equal(t, before, f.board.String())
	assert.Empty(t, f.sink.matches)
}

func TestTrySwapOutcomeIsExclusive(t *testing.T) {
	sink := &recordingSink{}
	orch := &recordingOrchestrator{}
	b, err := NewBoard(7, 7, 5, WithSeed(7), WithSink(sink), WithOrchestrator(orch))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, b.Populate(ctx))

	for i := 0; i < 40; i++ {
		for orch.noMoves > 0 {
			orch.noMoves = 0
			require.NoError(t, b.Reset(ctx))
		}
		hint := b.Hint()
		require.NotNil(t, hint)

		var partner *Tile
		for _, d := range Directions {
			p, err := b.TileAt(hint.Pos().Step(d))
			if err == nil && p != nil {
				partner = p
				break
			}
		}
		require.NotNil(t, partner)

		before := len(sink.matches)
		out, err := b.TrySwap(ctx, hint, partner)
		require.NoError(t, err)

		switch out {
		case SwapReverted:
			assert.Equal(t, before, len(sink.matches), "stable boards revert without dispatching")
		case SwapMatched, SwapGem:
			assert.Greater(t, len(sink.matches), before)
		default:
			t.Fatalf("unexpected outcome %v", out)
		}
		requireSettled(t, b)
	}
}

func TestTrySwapIntoUniformBoard(t *testing.T) {
	f := newFixture(t, 3, []string{
		"1111",
		"1111",
		"1111",
		"0111",
	})
	moved := f.tile(t, 1, 0)

	out := f.swap(t, C(0, 0), C(1, 0))

	assert.Equal(t, SwapMatched, out)
	require.NotEmpty(t, f.sink.matches)
	first := f.sink.matches[0]
	assert.Contains(t, first.ids, moved.ID())
	assert.GreaterOrEqual(t, first.count, 3)
	assert.Equal(t, MatchCross, first.typ, "every other tile joins the cluster")
	requireGravity(t, f.board)
}

func TestTrySwapCompletesColumn(t *testing.T) {
	f := newFixture(t, 6, []string{
		"2020",
		"1202",
		"1020",
		"0121",
	})
	moved := f.tile(t, 1, 0)

	out := f.swap(t, C(0, 0), C(1, 0))

	assert.Equal(t, SwapMatched, out)
	require.NotEmpty(t, f.sink.matches)
	first := f.sink.matches[0]
	assert.Equal(t, Match3, first.typ)
	assert.Contains(t, first.ids, moved.ID())
	assert.ElementsMatch(t, []Coord{C(0, 0), C(0, 1), C(0, 2)}, first.coords)
	assert.Zero(t, f.board.Stats().Bombs)
	requireGravity(t, f.board)
}
