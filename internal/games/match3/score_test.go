package match3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

func tiles(t *testing.T, n int) []*m3.Tile {
	t.Helper()
	pool := m3.NewPool(6, m3.NewSequenceRandom(0))
	out := make([]*m3.Tile, n)
	for i := range out {
		out[i] = pool.Acquire()
		require.NotNil(t, out[i])
	}
	return out
}

func TestScoreKeeperPoints(t *testing.T) {
	tests := []struct {
		bonus, count, round, want int
	}{
		{bonus: 0, count: 3, round: 0, want: 9},
		{bonus: 0, count: 4, round: 3, want: 16},
		{bonus: 50, count: 3, round: 0, want: 9},
		{bonus: 50, count: 3, round: 2, want: 18},
		{bonus: 25, count: 5, round: 1, want: 31},
		{bonus: -10, count: 3, round: 2, want: 9},
	}
	for _, tt := range tests {
		k := NewScoreKeeper(tt.bonus)
		assert.Equal(t, tt.want, k.Points(tt.count, tt.round), "bonus=%d count=%d round=%d", tt.bonus, tt.count, tt.round)
	}
}

func TestScoreKeeperResolvesMatches(t *testing.T) {
	k := NewScoreKeeper(0)

	k.OnMatchResolved(m3.NewMatch(tiles(t, 3)...))
	assert.Equal(t, 9, k.Score())
	assert.Empty(t, k.TakeEvents())
	assert.Zero(t, k.TakeBigMatches())

	k.OnMatchResolved(m3.NewMatch(tiles(t, 4)...))
	assert.Equal(t, 25, k.Score())
	assert.Equal(t, []string{"+bomb"}, k.TakeEvents())
	assert.Equal(t, 1, k.TakeBigMatches())
	assert.Zero(t, k.TakeBigMatches(), "taking clears the count")

	k.OnMatchResolved(m3.NewMatch(tiles(t, 5)...))
	assert.Equal(t, []string{"+gem"}, k.TakeEvents())

	sum := k.Summary()
	assert.Equal(t, 50, sum.Score)
	assert.Equal(t, 3, sum.Matches)
	assert.Equal(t, map[m3.MatchType]int{m3.Match3: 1, m3.Match4: 1, m3.Match5: 1}, sum.ByType)
	assert.Zero(t, sum.LongestCascade)
}

func TestScoreKeeperMuted(t *testing.T) {
	k := NewScoreKeeper(0)
	k.SetMuted(true)
	k.OnMatchResolved(m3.NewMatch(tiles(t, 4)...))
	assert.Zero(t, k.Score())
	assert.Empty(t, k.TakeEvents())
	assert.Zero(t, k.Summary().Matches)

	k.SetMuted(false)
	k.OnMatchResolved(m3.NewMatch(tiles(t, 3)...))
	assert.Equal(t, 9, k.Score())
}

func TestScoreKeeperSummaryIsCopy(t *testing.T) {
	k := NewScoreKeeper(0)
	k.OnMatchResolved(m3.NewMatch(tiles(t, 3)...))

	sum := k.Summary()
	sum.ByType[m3.Match3] = 100
	assert.Equal(t, 1, k.Summary().ByType[m3.Match3])
}
