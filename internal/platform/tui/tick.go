// Package tui provides the Bubble Tea integration for the maze.
// It handles the terminal UI loop, input mapping, and session teardown,
// locally and over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is sent to trigger one physics frame.
type FrameMsg time.Time

// frameCmd returns a Bubble Tea command that sends a frame message at the specified rate.
func frameCmd(fps int) tea.Cmd {
	return tea.Tick(frameInterval(fps), func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(fps)
}
