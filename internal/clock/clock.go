// Package clock formats the header readout and drives its once-a-second tick.
package clock

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const Interval = time.Second

// TickMsg carries the wall-clock time of a tick.
type TickMsg time.Time

// Tick schedules the next TickMsg, aligned to the start of the next second.
func Tick() tea.Cmd {
	return tea.Every(Interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Time renders t on a 24-hour clock, e.g. "17:04:05".
func Time(t time.Time) string {
	return t.Format("15:04:05")
}

// Date renders t as "Monday, January 2, 2006".
func Date(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}
