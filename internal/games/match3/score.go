package match3

import (
	"fmt"
	"sync"

	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// ScoreKeeper turns resolved matches into points. It is the board's
// resolution sink, so it is called from the worker goroutine with the board
// locked and guards its own state.
type ScoreKeeper struct {
	mu sync.Mutex

	score          int
	matches        int
	byType         map[m3.MatchType]int
	longestCascade int
	bigMatches     int
	cascadeBonus   int
	muted          bool
	events         []string
}

// upgrades names the power-up a match type leaves behind.
var upgrades = map[m3.MatchType]m3.PowerupKind{
	m3.Match4:     m3.PowerupBomb,
	m3.Match5:     m3.PowerupGem,
	m3.MatchCross: m3.PowerupRowCol,
}

// NewScoreKeeper creates a keeper that adds cascadeBonus percent per
// cascade round on top of count*count.
func NewScoreKeeper(cascadeBonus int) *ScoreKeeper {
	return &ScoreKeeper{
		byType:       make(map[m3.MatchType]int),
		cascadeBonus: max(cascadeBonus, 0),
	}
}

// Points returns the score for a match of count tiles in cascade round.
func (k *ScoreKeeper) Points(count, round int) int {
	pts := count * count
	if round > 0 && k.cascadeBonus > 0 {
		pts += pts * k.cascadeBonus * round / 100
	}
	return pts
}

// OnMatchResolved implements m3.ResolutionSink.
func (k *ScoreKeeper) OnMatchResolved(m *m3.Match) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.muted {
		return
	}

	k.score += k.Points(m.Count(), m.Round())
	k.matches++
	typ := m.Type()
	k.byType[typ]++
	if m.Round() > k.longestCascade {
		k.longestCascade = m.Round()
	}
	if m.Count() >= 4 {
		k.bigMatches++
	}

	if m.Prompted() {
		k.events = append(k.events, fmt.Sprintf("%s fired", m.Origin()))
	} else if kind, ok := upgrades[typ]; ok {
		k.events = append(k.events, "+"+kind.String())
	}
	if m.Round() >= 2 {
		k.events = append(k.events, fmt.Sprintf("cascade x%d", m.Round()))
	}
}

// SetMuted stops matches from scoring while the board populates.
func (k *ScoreKeeper) SetMuted(muted bool) {
	k.mu.Lock()
	k.muted = muted
	k.mu.Unlock()
}

// Score returns the current score.
func (k *ScoreKeeper) Score() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.score
}

// TakeBigMatches returns and clears the number of matches of four or more
// since the last call.
func (k *ScoreKeeper) TakeBigMatches() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	n := k.bigMatches
	k.bigMatches = 0
	return n
}

// TakeEvents returns and clears pending notices.
func (k *ScoreKeeper) TakeEvents() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	ev := k.events
	k.events = nil
	return ev
}

// ScoreSummary is a copy of the keeper's counters.
type ScoreSummary struct {
	Score          int                  `json:"score"`
	Matches        int                  `json:"matches"`
	ByType         map[m3.MatchType]int `json:"by_type"`
	LongestCascade int                  `json:"longest_cascade"`
}

// Summary copies the counters.
func (k *ScoreKeeper) Summary() ScoreSummary {
	k.mu.Lock()
	defer k.mu.Unlock()

	byType := make(map[m3.MatchType]int, len(k.byType))
	for t, n := range k.byType {
		byType[t] = n
	}
	return ScoreSummary{
		Score:          k.score,
		Matches:        k.matches,
		ByType:         byType,
		LongestCascade: k.longestCascade,
	}
}
