package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout(
		"0 1 *",
		"A a .",
	)
	require.NoError(t, err)

	assert.Equal(t, 3, l.Width)
	assert.Equal(t, 2, l.Height)
	assert.Equal(t, LayoutCell{Type: 0, Kind: PowerupBomb}, l.At(C(0, 0)), "bottom row is the last one given")
	assert.Equal(t, LayoutCell{Type: 0, Kind: PowerupRowCol}, l.At(C(1, 0)))
	assert.True(t, l.At(C(2, 0)).Empty)
	assert.Equal(t, LayoutCell{Type: 1}, l.At(C(1, 1)))
	assert.Equal(t, PowerupGem, l.At(C(2, 1)).Kind)
	assert.True(t, l.At(C(9, 9)).Empty)
	assert.Equal(t, "01*\nAa.\n", l.String())
}

func TestParseLayoutErrors(t *testing.T) {
	_, err := ParseLayout("012", "01")
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = ParseLayout("0?1")
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = ParseLayout("", "")
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestLoadRejectsMismatchedLayout(t *testing.T) {
	b, err := NewBoard(3, 3, 4)
	require.NoError(t, err)

	err = b.Load(MustParseLayout("012"))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestSnapshotRoundTrip(t *testing.T) {
	f := newFixture(t, 6, []string{
		"0B*",
		"1.c",
	})

	snap := f.board.Snapshot()

	assert.Equal(t, "0B*\n1.c\n", snap.Layout().String())
	assert.True(t, snap.At(C(1, 0)).Empty)
	assert.Equal(t, PowerupBomb, snap.At(C(1, 1)).Kind)
	assert.True(t, snap.At(C(0, 0)).Idle)
}
