// Package tui runs match-3 sessions in a terminal with Bubble Tea, locally
// or over SSH.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick. Each game model only
// accepts ticks of its own loop.
type TickMsg struct {
	At   time.Time
	loop uint64
}

var loops atomic.Uint64

func nextLoop() uint64 { return loops.Add(1) }

// tickCmd schedules the next tick of loop. A non-positive rate falls back
// to 60.
func tickCmd(tickRate int, loop uint64) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg{At: t, loop: loop}
	})
}
