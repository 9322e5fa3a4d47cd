package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/vision-station/pkg/browser"
	"gitlab.com/tinyland/lab/vision-station/pkg/collectors"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// ClockTickCmd sends a ClockTickEvent after d.
func ClockTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return ClockTickEvent{Time: t}
	})
}

// WaitForState blocks on the controller's update channel and delivers the
// next snapshot. Re-issue it after each StateEvent to keep listening.
func WaitForState(updates <-chan dashboard.State) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return StateClosedEvent{}
		}
		return StateEvent{State: s}
	}
}

// WaitForUpdate delivers the next collector update as a DataUpdateEvent.
// A closed channel ends the subscription with a nil message.
func WaitForUpdate(updates <-chan collectors.Update) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return nil
		}
		return DataUpdateEvent{
			Source:    u.Source,
			Data:      u.Data,
			Err:       u.Error,
			Timestamp: u.Timestamp,
		}
	}
}

// OpenLinkCmd opens url with o off the update loop.
func OpenLinkCmd(o browser.Opener, url string) tea.Cmd {
	return func() tea.Msg {
		return LinkOpenedEvent{URL: url, Err: o.Open(url)}
	}
}

// Emit wraps a message in a Cmd.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
