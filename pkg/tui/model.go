// Package tui is the kiosk's root bubbletea model. It lays the widgets out
// on the configured grid, routes keys and clicks, and relays refresh
// controller snapshots and collector updates to the widgets.
package tui

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/vision-station/pkg/app"
	"gitlab.com/tinyland/lab/vision-station/pkg/browser"
	"gitlab.com/tinyland/lab/vision-station/pkg/collectors"
	"gitlab.com/tinyland/lab/vision-station/pkg/config"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
	"gitlab.com/tinyland/lab/vision-station/pkg/layout"
	"gitlab.com/tinyland/lab/vision-station/pkg/theme"
	"gitlab.com/tinyland/lab/vision-station/pkg/widgets"
)

// Refresher receives manual refresh requests. *dashboard.Controller
// satisfies it.
type Refresher interface {
	TriggerRefresh()
}

// Options wires the model to the rest of the program. Only Layout is
// required; nil channels and collaborators disable the matching feature.
type Options struct {
	Theme     theme.Theme
	Layout    config.LayoutConfig
	City      string
	Refresher Refresher
	Initial   dashboard.State
	States    <-chan dashboard.State
	Updates   <-chan collectors.Update
	Opener    browser.Opener
	Zones     *zone.Manager
	Logger    *slog.Logger
	Now       func() time.Time
}

// Model is the root bubbletea model.
type Model struct {
	opts Options
	log  *slog.Logger
	keys keyMap

	widgets []app.Widget
	byID    map[string]app.Widget
	focus   *app.FocusRing
	cells   *layout.Cache
	header  *widgets.Header
	footer  *widgets.Footer

	state  dashboard.State
	width  int
	height int
	ready  bool
}

// New builds the model and its widgets from opts.
func New(opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Opener == nil {
		opts.Opener = browser.System
	}
	if opts.Theme.Name == "" {
		opts.Theme = theme.Current
	}
	if len(opts.Layout.Rows) == 0 {
		opts.Layout = config.LayoutPreset(config.DefaultPreset)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	styles := widgets.NewStyles(opts.Theme)
	keys := defaultKeyMap()
	m := Model{
		opts:   opts,
		log:    logger.With("component", "tui"),
		keys:   keys,
		byID:   make(map[string]app.Widget),
		cells:  layout.NewCache(opts.Layout),
		header: widgets.NewHeader(styles, opts.Zones),
		footer: widgets.NewFooter(styles, keys),
		state:  opts.Initial,
	}

	ids := layout.IDs(opts.Layout)
	for _, id := range ids {
		var w app.Widget
		switch id {
		case "clock":
			w = widgets.NewClockWidget(styles, opts.Now())
		case "weather":
			w = widgets.NewWeatherWidget(styles, opts.City)
		case "news":
			w = widgets.NewNewsWidget(styles, opts.Zones)
		default:
			m.log.Warn("unknown widget in layout", "type", id)
			continue
		}
		m.widgets = append(m.widgets, w)
		m.byID[id] = w
	}
	focusIDs := make([]string, len(m.widgets))
	for i, w := range m.widgets {
		focusIDs[i] = w.ID()
	}
	m.focus = app.NewFocusRing(focusIDs...)
	// Start on the news list, the only panel with interactions.
	m.focus.Focus("news")

	for _, w := range m.widgets {
		w.Update(app.StateEvent{State: opts.Initial})
	}
	return m
}

// Init starts the clock tick and subscribes to state and collector updates.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.header.Update(app.StateEvent{State: m.opts.Initial})}
	if c, ok := m.byID["clock"].(*widgets.ClockWidget); ok {
		cmds = append(cmds, c.Init())
	}
	cmds = append(cmds,
		app.WaitForState(m.opts.States),
		app.WaitForUpdate(m.opts.Updates),
	)
	return tea.Batch(cmds...)
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.cells.Invalidate()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case app.StateEvent:
		m.state = msg.State
		cmd := m.broadcast(msg)
		return m, tea.Batch(cmd, app.WaitForState(m.opts.States))

	case app.StateClosedEvent:
		m.log.Debug("state stream closed")
		return m, nil

	case app.DataUpdateEvent:
		if msg.Err != nil {
			m.log.Debug("collector update failed", "source", msg.Source, "error", msg.Err)
		}
		m.footer.Update(msg)
		cmd := m.broadcast(msg)
		return m, tea.Batch(cmd, app.WaitForUpdate(m.opts.Updates))

	case app.ClockTickEvent:
		return m, m.broadcast(msg)

	case spinner.TickMsg:
		return m, m.header.Update(msg)

	case app.RefreshRequestEvent:
		return m, m.refresh()

	case app.OpenLinkEvent:
		m.log.Info("opening link", "url", msg.URL)
		return m, app.OpenLinkCmd(m.opts.Opener, msg.URL)

	case app.LinkOpenedEvent:
		if msg.Err != nil {
			m.log.Warn("open link failed", "url", msg.URL, "error", msg.Err)
			m.footer.SetNotice("Could not open link")
		} else {
			m.footer.SetNotice("")
		}
		return m, nil
	}
	return m, nil
}

// broadcast forwards msg to the header and every widget.
func (m Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := []tea.Cmd{m.header.Update(msg)}
	for _, w := range m.widgets {
		cmds = append(cmds, w.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (m Model) refresh() tea.Cmd {
	r := m.opts.Refresher
	if r == nil {
		return nil
	}
	m.log.Info("manual refresh requested")
	return func() tea.Msg {
		r.TriggerRefresh()
		return nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit), key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.footer.SetShowAll(!m.footer.ShowAll())
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.footer.ShowAll() {
			m.footer.SetShowAll(false)
			return m, nil
		}
		m.focus.Collapse()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()
	case key.Matches(msg, m.keys.Next):
		m.focus.Next()
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.focus.Prev()
		return m, nil
	case key.Matches(msg, m.keys.Expand):
		m.focus.ToggleExpand()
		m.cells.Invalidate()
		return m, nil
	}
	if w := m.focusedWidget(); w != nil {
		return m, w.HandleKey(msg)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown) {
		news, ok := m.byID["news"]
		if !ok {
			return nil
		}
		k := tea.KeyMsg{Type: tea.KeyDown}
		if msg.Button == tea.MouseButtonWheelUp {
			k = tea.KeyMsg{Type: tea.KeyUp}
		}
		return news.HandleKey(k)
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if cmd := m.header.HandleClick(msg); cmd != nil {
		return cmd
	}

	if m.focus.Expanded() < 0 {
		cells := m.cells.Cells(m.bodyRect())
		if i := layout.CellAt(cells, msg.X, msg.Y); i >= 0 {
			m.focus.Focus(cells[i].ID)
		}
	}
	if c, ok := m.focusedWidget().(app.Clickable); ok {
		return c.HandleClick(msg)
	}
	return nil
}

func (m Model) focusedWidget() app.Widget {
	return m.byID[m.focus.FocusedID()]
}

// Accessors for tests and the one-shot renderer.

// Width returns the terminal width.
func (m Model) Width() int { return m.width }

// Height returns the terminal height.
func (m Model) Height() int { return m.height }

// Ready reports whether a window size has been received.
func (m Model) Ready() bool { return m.ready }

// FocusedID returns the focused widget ID.
func (m Model) FocusedID() string { return m.focus.FocusedID() }

// ExpandedID returns the expanded widget ID, or "".
func (m Model) ExpandedID() string { return m.focus.ExpandedID() }

// ShowHelp reports whether the full help is shown.
func (m Model) ShowHelp() bool { return m.footer.ShowAll() }

// State returns the last dashboard snapshot the model received.
func (m Model) State() dashboard.State { return m.state }

// Widget returns the widget with id, or nil.
func (m Model) Widget(id string) app.Widget { return m.byID[id] }
