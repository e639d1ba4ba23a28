package match3

import "sync/atomic"

// stability answers board events. It only raises flags; the worker acts
// on them once the current board operation has returned.
type stability struct {
	stable     atomic.Int64
	deadlocked atomic.Bool
}

// OnBoardStable implements m3.Orchestrator.
func (s *stability) OnBoardStable() {
	s.stable.Add(1)
}

// OnNoMovesAvailable implements m3.Orchestrator.
func (s *stability) OnNoMovesAvailable() {
	s.deadlocked.Store(true)
}

// takeDeadlock reports and clears a pending no-moves event.
func (s *stability) takeDeadlock() bool {
	return s.deadlocked.Swap(false)
}
