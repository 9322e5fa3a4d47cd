package app

import tea "github.com/charmbracelet/bubbletea"

// Widget is one dashboard panel. View must return at most height lines,
// each at most width cells wide.
type Widget interface {
	ID() string
	Title() string
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	MinSize() (width, height int)
	HandleKey(key tea.KeyMsg) tea.Cmd
}

// Clickable is implemented by widgets that react to mouse clicks. The root
// model forwards left-button releases that land inside the widget.
type Clickable interface {
	HandleClick(msg tea.MouseMsg) tea.Cmd
}
