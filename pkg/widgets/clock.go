package widgets

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goodsign/monday"

	"gitlab.com/tinyland/lab/vision-station/pkg/app"
	"gitlab.com/tinyland/lab/vision-station/pkg/components"
)

// DateLayout is the long date shown under the clock, e.g.
// "lundi 19 octobre 2026".
const DateLayout = "Monday 2 January 2006"

// ClockLocale names weekdays and months on the clock face.
const ClockLocale = monday.LocaleFrFR

// FormatDate renders t's local date with French weekday and month names.
func FormatDate(t time.Time) string {
	return monday.Format(t.Local(), DateLayout, ClockLocale)
}

// ClockWidget shows the local time in block digits with the seconds and the
// long date. It keeps its own one-second tick, independent of the refresh
// controller.
type ClockWidget struct {
	styles Styles
	now    time.Time
}

// NewClockWidget creates a clock showing now until the first tick.
func NewClockWidget(styles Styles, now time.Time) *ClockWidget {
	return &ClockWidget{styles: styles, now: now}
}

// ID returns the unique identifier for this widget.
func (w *ClockWidget) ID() string { return "clock" }

// Title returns the display name for this widget.
func (w *ClockWidget) Title() string { return "Paris" }

// MinSize returns the minimum width and height this widget requires.
func (w *ClockWidget) MinSize() (int, int) { return 12, 2 }

// Init starts the one-second tick.
func (w *ClockWidget) Init() tea.Cmd {
	return app.ClockTickCmd(time.Second)
}

// Now returns the time currently displayed.
func (w *ClockWidget) Now() time.Time { return w.now }

// Update advances the displayed time on each ClockTickEvent and schedules
// the next tick.
func (w *ClockWidget) Update(msg tea.Msg) tea.Cmd {
	if ev, ok := msg.(app.ClockTickEvent); ok {
		w.now = ev.Time
		return app.ClockTickCmd(time.Second)
	}
	return nil
}

// HandleKey is a no-op; the clock has no interactions.
func (w *ClockWidget) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

// View renders block digits when the area is large enough, otherwise a
// single line of time and date.
func (w *ClockWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	local := w.now.Local()
	hm := local.Format("15:04")
	secs := local.Format("05")
	date := FormatDate(local)

	bigW := components.BigTextWidth(hm) + 3
	if width >= bigW && height >= components.BigTextHeight+2 {
		rows := components.BigText(hm)
		lines := make([]string, 0, len(rows)+2)
		for i, r := range rows {
			line := w.styles.ClockDigits.Render(r)
			if i == len(rows)-1 {
				line += " " + w.styles.ClockSeconds.Render(secs)
			} else {
				line += "   "
			}
			lines = append(lines, line)
		}
		lines = append(lines, "", w.styles.Date.Render(date))
		return centerBlock(lines, width, height)
	}

	lines := []string{w.styles.ClockDigits.Render(local.Format("15:04:05"))}
	if height > 1 {
		lines = append(lines, w.styles.Date.Render(date))
	}
	return centerBlock(lines, width, height)
}
