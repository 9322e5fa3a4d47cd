package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/vision-station/pkg/app"
	"gitlab.com/tinyland/lab/vision-station/pkg/components"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
	"gitlab.com/tinyland/lab/vision-station/pkg/layout"
)

// StartupMessage is shown until the terminal reports its size.
const StartupMessage = "Starting Vision Station..."

// View renders header, widget grid and footer.
func (m Model) View() string {
	if !m.ready || m.width <= 0 || m.height <= 0 {
		return StartupMessage
	}

	header := m.header.View(m.width)
	footer := m.footer.View(m.width)
	body := m.renderBody()

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	if m.opts.Zones != nil {
		out = m.opts.Zones.Scan(out)
	}
	return out
}

// bodyRect is the area between header and footer, in screen coordinates.
func (m Model) bodyRect() layout.Rect {
	top := m.header.Height()
	bottom := m.footer.Height(m.width)
	return layout.Rect{X: 0, Y: top, Width: m.width, Height: max(m.height-top-bottom, 0)}
}

func (m Model) renderBody() string {
	area := m.bodyRect()
	if area.Empty() {
		return ""
	}

	if id := m.focus.ExpandedID(); id != "" {
		return m.renderCell(m.byID[id], area.Width, area.Height, true)
	}

	cells := m.cells.Cells(area)
	focused := m.focus.FocusedID()

	var rows []string
	var row []string
	rowY := -1
	for _, c := range cells {
		if c.Rect.Y != rowY && len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
		rowY = c.Rect.Y
		row = append(row, m.renderCell(m.byID[c.ID], c.Rect.Width, c.Rect.Height, c.ID == focused))
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCell draws w inside a rounded box; the focused panel gets a double
// border in the focus colour.
func (m Model) renderCell(w app.Widget, width, height int, focused bool) string {
	style := components.BoxStyle{
		Border:     components.BorderRounded,
		TitleAlign: components.AlignLeft,
		Color:      m.opts.Theme.Border,
	}
	if focused {
		style.Border = components.BorderDouble
		style.Color = m.opts.Theme.BorderFocus
	}
	content := ""
	if w != nil {
		style.Title = w.Title()
		content = w.View(max(width-2, 0), max(height-2, 0))
	}
	box := components.RenderBox(content, width, height, style)
	if box == "" {
		// Too small for a border; keep the grid aligned with blanks.
		line := strings.Repeat(" ", max(width, 0))
		lines := make([]string, max(height, 0))
		for i := range lines {
			lines[i] = line
		}
		return strings.Join(lines, "\n")
	}
	return box
}

// Snapshot renders one frame of the dashboard for state at width x height
// without a terminal program. It backs the plain one-shot mode.
func Snapshot(opts Options, state dashboard.State, width, height int) string {
	opts.Zones = nil
	opts.States = nil
	opts.Updates = nil
	m := New(opts)
	next, _ := m.Update(app.StateEvent{State: state})
	next, _ = next.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return next.View()
}
