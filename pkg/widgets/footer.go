package widgets

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/vision-station/pkg/app"
	"gitlab.com/tinyland/lab/vision-station/pkg/collectors/node"
	"gitlab.com/tinyland/lab/vision-station/pkg/components"
)

// loadHistory is how many node samples the footer sparkline keeps.
const loadHistory = 30

// Footer is the bottom bar: key help on the left, node status on the right.
// With ShowAll set the full help table replaces the short line.
type Footer struct {
	styles Styles
	help   help.Model
	keys   help.KeyMap
	info   *node.Info
	loads  []float64
	notice string
}

// NewFooter creates the footer for keys.
func NewFooter(styles Styles, keys help.KeyMap) *Footer {
	h := help.New()
	h.Styles.ShortKey = fg(styles.Theme.HelpKey).Bold(true)
	h.Styles.ShortDesc = fg(styles.Theme.HelpDesc)
	h.Styles.ShortSeparator = fg(styles.Theme.Dim)
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc
	h.Styles.FullSeparator = h.Styles.ShortSeparator
	return &Footer{styles: styles, help: h, keys: keys}
}

// SetShowAll switches between the short and full help.
func (f *Footer) SetShowAll(all bool) { f.help.ShowAll = all }

// ShowAll reports whether the full help is shown.
func (f *Footer) ShowAll() bool { return f.help.ShowAll }

// SetNotice shows a transient message in place of the node status, e.g. a
// link that failed to open. An empty string clears it.
func (f *Footer) SetNotice(msg string) { f.notice = msg }

// Info returns the latest node sample, or nil.
func (f *Footer) Info() *node.Info { return f.info }

// Update records node samples from the collector runner.
func (f *Footer) Update(msg tea.Msg) tea.Cmd {
	ev, ok := msg.(app.DataUpdateEvent)
	if !ok || ev.Source != "node" {
		return nil
	}
	var info node.Info
	switch d := ev.Data.(type) {
	case node.Info:
		info = d
	case *node.Info:
		if d == nil {
			return nil
		}
		info = *d
	default:
		return nil
	}
	f.info = &info
	f.loads = append(f.loads, info.Load1)
	if len(f.loads) > loadHistory {
		f.loads = f.loads[len(f.loads)-loadHistory:]
	}
	return nil
}

// Height returns the number of lines View renders.
func (f *Footer) Height(width int) int {
	return strings.Count(f.View(width), "\n") + 1
}

// View renders the footer at width.
func (f *Footer) View(width int) string {
	if width <= 0 {
		return ""
	}
	f.help.Width = width
	if f.help.ShowAll {
		full := f.help.FullHelpView(f.keys.FullHelp())
		return lipgloss.JoinVertical(lipgloss.Left, full, f.status(width))
	}

	left := " " + f.help.ShortHelpView(f.keys.ShortHelp())
	right := f.status(width - components.VisibleLen(left) - 2)
	gap := width - components.VisibleLen(left) - components.VisibleLen(right)
	if right == "" || gap < 1 {
		return components.Fit(left, width)
	}
	return left + strings.Repeat(" ", gap) + right
}

// status renders the node summary, trimmed to fit room. Less important
// parts are dropped first.
func (f *Footer) status(room int) string {
	s := f.styles
	if f.notice != "" {
		return components.Fit(s.Banner.Render(f.notice), max(room, 0))
	}
	if f.info == nil || room <= 0 {
		return ""
	}
	summary := f.info.Summary()
	spark := components.Sparkline(f.loads, 12)
	mem := components.Bar(f.info.MemPercent/100, 6)

	candidates := []string{
		s.Dim.Render(summary) + "  " + s.StatusSync.Render(spark) + "  " + s.Dim.Render(mem) + " ",
		s.Dim.Render(summary) + " ",
	}
	for _, c := range candidates {
		if components.VisibleLen(c) <= room {
			return c
		}
	}
	return ""
}
