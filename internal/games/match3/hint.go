package match3

import (
	m3 "github.com/vovakirdan/tui-match3/internal/games/match3/core"
)

// HintIndicator shows a movable tile after the player has been idle for a
// while.
type HintIndicator struct {
	enabled bool
	delay   int
	idle    int
	shown   bool
	at      m3.Coord
}

// NewHintIndicator creates an indicator that fires after delay idle ticks.
func NewHintIndicator(enabled bool, delay int) HintIndicator {
	return HintIndicator{enabled: enabled, delay: delay}
}

// Tick counts one idle tick and reports whether a hint is due now.
func (h *HintIndicator) Tick() bool {
	if !h.enabled || h.shown {
		return false
	}
	h.idle++
	return h.idle >= h.delay
}

// SetDelay changes the idle ticks needed before a hint.
func (h *HintIndicator) SetDelay(delay int) { h.delay = delay }

// Show displays the hint at c.
func (h *HintIndicator) Show(c m3.Coord) {
	h.shown = true
	h.at = c
}

// Reset hides the hint and restarts the idle count.
func (h *HintIndicator) Reset() {
	h.shown = false
	h.idle = 0
}

// Visible returns the hinted cell while the hint is shown.
func (h *HintIndicator) Visible() (m3.Coord, bool) {
	return h.at, h.shown
}
