// Package tui provides the Bubble Tea front end for sleepwalk.
// It maps keys to moves, drives the campaign controller from tick and frame
// messages, and renders boards, prompts and scoreboards.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameInterval is how often deferred controller work and the clock refresh.
const frameInterval = 100 * time.Millisecond

// TickMsg advances hazards. Owner and Epoch tie it to the controller and
// session that scheduled it, so ticks of a replaced session die out on
// their own.
type TickMsg struct {
	Owner string
	Epoch uint64
	Time  time.Time
}

// FrameMsg drives deferred work and redraws for the controller Owner.
type FrameMsg struct {
	Owner string
	Time  time.Time
}

// tickCmd returns a command that sends one tick for epoch after period.
func tickCmd(owner string, epoch uint64, period time.Duration) tea.Cmd {
	return tea.Tick(period, func(t time.Time) tea.Msg {
		return TickMsg{Owner: owner, Epoch: epoch, Time: t}
	})
}

// frameCmd returns a command that sends the next frame message.
func frameCmd(owner string) tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{Owner: owner, Time: t}
	})
}
