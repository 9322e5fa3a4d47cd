package widgets

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/vision-station/pkg/app"
	"gitlab.com/tinyland/lab/vision-station/pkg/components"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// Header labels.
const (
	Brand          = "VISION STATION"
	SyncingLabel   = "Background Syncing"
	LoadingLabel   = "Loading"
	LiveLabel      = "Live"
	RefreshLabel   = "↻ Refresh"
	refreshZoneKey = "refresh"
)

// Header is the top bar: brand, sync status, last sync time, a clickable
// refresh badge and, when the last fetch failed, the error banner.
type Header struct {
	styles   Styles
	zones    *zone.Manager
	zoneID   string
	spinner  spinner.Model
	state    dashboard.State
	spinning bool
}

// NewHeader creates the header bar. zones may be nil.
func NewHeader(styles Styles, zones *zone.Manager) *Header {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = styles.StatusSync
	h := &Header{styles: styles, zones: zones, spinner: sp, zoneID: refreshZoneKey}
	if zones != nil {
		h.zoneID = zones.NewPrefix() + refreshZoneKey
	}
	return h
}

// State returns the snapshot the header last saw.
func (h *Header) State() dashboard.State { return h.state }

// Spinning reports whether the sync spinner is animating.
func (h *Header) Spinning() bool { return h.spinning }

// Update tracks the dashboard state and drives the spinner while a fetch
// is in flight.
func (h *Header) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.StateEvent:
		h.state = msg.State
		busy := msg.State.Syncing() || msg.State.Loading
		if busy && !h.spinning {
			h.spinning = true
			return h.spinner.Tick
		}
		h.spinning = busy
	case spinner.TickMsg:
		if !h.spinning {
			return nil
		}
		var cmd tea.Cmd
		h.spinner, cmd = h.spinner.Update(msg)
		return cmd
	}
	return nil
}

// HandleClick requests a refresh when the refresh badge is clicked.
func (h *Header) HandleClick(msg tea.MouseMsg) tea.Cmd {
	if h.zones == nil || !h.zones.Get(h.zoneID).InBounds(msg) {
		return nil
	}
	return app.Emit(app.RefreshRequestEvent{})
}

// Height returns the number of lines View renders: two with the error
// banner, one without.
func (h *Header) Height() int {
	if h.state.Error != "" {
		return 2
	}
	return 1
}

// View renders the header at width.
func (h *Header) View(width int) string {
	if width <= 0 {
		return ""
	}
	s := h.styles

	left := " " + s.Brand.Render(Brand) + s.Dim.Render(" · Paris")
	right := h.status() + s.Dim.Render("  sync "+h.state.LastUpdated+"  ") + h.badge() + " "

	gap := width - components.VisibleLen(left) - components.VisibleLen(right)
	var line string
	if gap >= 1 {
		line = left + components.PadRight("", gap) + right
	} else {
		line = components.Fit(left, width)
	}
	if h.state.Error == "" {
		return line
	}
	banner := s.Banner.Render(components.PadCenter("⚠ "+h.state.Error, width))
	return line + "\n" + components.Fit(banner, width)
}

func (h *Header) status() string {
	s := h.styles
	switch {
	case h.state.Loading:
		return h.spinner.View() + " " + s.StatusSync.Render(LoadingLabel)
	case h.state.Syncing():
		return h.spinner.View() + " " + s.StatusSync.Render(SyncingLabel)
	case h.state.Phase == dashboard.PhaseError:
		return s.Banner.Render("● Offline")
	case h.state.Phase == dashboard.PhaseReady:
		return s.StatusOK.Render("● " + LiveLabel)
	default:
		return s.Dim.Render("○ Starting")
	}
}

func (h *Header) badge() string {
	b := h.styles.Accent.Render("[" + RefreshLabel + "]")
	if h.zones == nil {
		return b
	}
	return h.zones.Mark(h.zoneID, b)
}
