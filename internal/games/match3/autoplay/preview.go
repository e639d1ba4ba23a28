package autoplay

import (
	"context"

	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// swapCounter counts the tiles cleared by the swap itself. Cascades are
// ignored since refills are random.
type swapCounter struct {
	tiles int
}

func (c *swapCounter) OnMatchResolved(m *m3.Match) {
	if m.Round() == 0 {
		c.tiles += m.Count()
	}
}

// preview plays mv on a copy of the layout and returns the tiles it clears.
func preview(l m3.Layout, types int, mv m3.Move) int {
	counter := &swapCounter{}
	b, err := m3.NewBoard(l.Width, l.Height, types,
		m3.WithRandom(m3.NewSequenceRandom(0)),
		m3.WithSink(counter),
		m3.WithPoolHeadroom(0),
	)
	if err != nil {
		return 0
	}
	if err := b.Load(l); err != nil {
		return 0
	}
	if _, err := b.SwapAt(context.Background(), mv.From, mv.To()); err != nil {
		return 0
	}
	return counter.tiles
}
