package match3

// LevelTimer counts a timed level down in ticks.
type LevelTimer struct {
	enabled   bool
	tickRate  int
	remaining int
	expired   bool
}

// NewLevelTimer creates a countdown of seconds at tickRate ticks per second.
// A disabled timer never expires.
func NewLevelTimer(enabled bool, seconds, tickRate int) LevelTimer {
	if tickRate <= 0 {
		tickRate = 60
	}
	return LevelTimer{
		enabled:   enabled,
		tickRate:  tickRate,
		remaining: seconds * tickRate,
	}
}

// Tick counts one tick down and reports whether the timer ran out on this tick.
func (t *LevelTimer) Tick() bool {
	if !t.enabled || t.expired {
		return false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.expired = true
		return true
	}
	return false
}

// Extend adds seconds to a running timer.
func (t *LevelTimer) Extend(seconds float64) {
	if !t.enabled || t.expired || seconds <= 0 {
		return
	}
	t.remaining += int(seconds * float64(t.tickRate))
}

// Enabled reports whether the level is timed.
func (t *LevelTimer) Enabled() bool { return t.enabled }

// Expired reports whether the countdown reached zero.
func (t *LevelTimer) Expired() bool { return t.expired }

// Remaining returns the time left in whole seconds, rounded up.
func (t *LevelTimer) Remaining() int {
	return (t.remaining + t.tickRate - 1) / t.tickRate
}

// RemainingTicks returns the time left in ticks.
func (t *LevelTimer) RemainingTicks() int { return t.remaining }
