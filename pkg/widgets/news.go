package widgets

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/vision-station/pkg/app"
	"gitlab.com/tinyland/lab/vision-station/pkg/components"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// NewsPlaceholder is shown while the headline list is empty.
const NewsPlaceholder = "Synchronizing Headlines..."

// NewsWidget lists the headlines as cards. The selected card opens with
// Enter; any card opens on a mouse click.
type NewsWidget struct {
	styles   Styles
	zones    *zone.Manager
	prefix   string
	items    []dashboard.NewsItem
	selected int
	offset   int // first card drawn
}

// NewNewsWidget creates the news panel. zones may be nil, which disables
// mouse hit-testing.
func NewNewsWidget(styles Styles, zones *zone.Manager) *NewsWidget {
	w := &NewsWidget{styles: styles, zones: zones}
	if zones != nil {
		w.prefix = zones.NewPrefix()
	}
	return w
}

// ID returns the unique identifier for this widget.
func (w *NewsWidget) ID() string { return "news" }

// Title returns the display name for this widget.
func (w *NewsWidget) Title() string {
	if len(w.items) == 0 {
		return "À la une"
	}
	return fmt.Sprintf("À la une · %d/%d", w.selected+1, len(w.items))
}

// MinSize returns the minimum width and height this widget requires.
func (w *NewsWidget) MinSize() (int, int) { return 24, 4 }

// Items returns the headlines being displayed.
func (w *NewsWidget) Items() []dashboard.NewsItem { return w.items }

// Selected returns the selected card index.
func (w *NewsWidget) Selected() int { return w.selected }

// Update replaces the headlines on each StateEvent. The selection is kept
// when it still fits, otherwise reset to the first card.
func (w *NewsWidget) Update(msg tea.Msg) tea.Cmd {
	if ev, ok := msg.(app.StateEvent); ok {
		w.items = append([]dashboard.NewsItem(nil), ev.State.News...)
		if w.selected >= len(w.items) {
			w.selected = 0
			w.offset = 0
		}
	}
	return nil
}

// HandleKey moves the selection and opens links.
func (w *NewsWidget) HandleKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "up", "k":
		if w.selected > 0 {
			w.selected--
		}
	case "down", "j":
		if w.selected < len(w.items)-1 {
			w.selected++
		}
	case "home", "g":
		w.selected = 0
	case "end", "G":
		w.selected = max(len(w.items)-1, 0)
	case "enter", "o":
		return w.open(w.selected)
	}
	return nil
}

// HandleClick selects and opens the card under the pointer.
func (w *NewsWidget) HandleClick(msg tea.MouseMsg) tea.Cmd {
	if w.zones == nil {
		return nil
	}
	for i := range w.items {
		if w.zones.Get(w.zoneID(i)).InBounds(msg) {
			w.selected = i
			return w.open(i)
		}
	}
	return nil
}

func (w *NewsWidget) open(i int) tea.Cmd {
	if i < 0 || i >= len(w.items) {
		return nil
	}
	url := w.items[i].URL
	if url == "" {
		url = dashboard.SearchURL(w.items[i].Title)
	}
	return app.Emit(app.OpenLinkEvent{URL: url})
}

func (w *NewsWidget) zoneID(i int) string {
	return fmt.Sprintf("%snews-%d", w.prefix, i)
}

// View renders the placeholder or as many cards as fit, scrolled so the
// selected card is visible.
func (w *NewsWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(w.items) == 0 {
		return centerBlock([]string{w.styles.Dim.Render(NewsPlaceholder)}, width, height)
	}

	cards := make([][]string, len(w.items))
	for i := range w.items {
		cards[i] = w.card(i, width)
	}
	w.scrollTo(cards, height)

	var lines []string
	for i := w.offset; i < len(cards); i++ {
		c := cards[i]
		if len(lines) > 0 {
			if len(lines)+1 >= height {
				break
			}
			lines = append(lines, "")
		}
		room := height - len(lines)
		if len(c) > room {
			c = c[:room]
		}
		lines = append(lines, w.mark(i, c)...)
	}
	return fitLines(lines, width, height)
}

// card renders item i: badge line, up to two title lines, up to two
// snippet lines and the link. Every line already fits width.
func (w *NewsWidget) card(i, width int) []string {
	s := w.styles
	it := w.items[i]

	marker := "  "
	if i == w.selected {
		marker = s.Selected.Render("▌ ")
	}
	inner := max(width-2, 1)

	head := s.Badge.Render(components.Truncate(it.Source, max(inner-2, 1)))
	if it.Category != "" {
		head += " " + s.Category.Render(it.Category)
	}
	lines := []string{marker + components.Fit(head, inner)}

	for _, l := range components.Clamp(it.Title, inner, 2) {
		lines = append(lines, marker+s.Headline.Render(l))
	}
	for _, l := range components.Clamp(it.Snippet, inner, 2) {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, marker+s.Text.Render(l))
	}
	if it.URL != "" {
		lines = append(lines, marker+s.Link.Render(components.Fit(it.URL, inner)))
	}
	return lines
}

// scrollTo adjusts offset so the selected card is on screen, keeping as
// many earlier cards as fit above it.
func (w *NewsWidget) scrollTo(cards [][]string, height int) {
	if w.offset > w.selected {
		w.offset = w.selected
	}
	for w.offset < w.selected && cardSpan(cards, w.offset, w.selected) > height {
		w.offset++
	}
}

// cardSpan counts the lines cards[from..to] take, separators included.
func cardSpan(cards [][]string, from, to int) int {
	n := 0
	for i := from; i <= to; i++ {
		if i > from {
			n++
		}
		n += len(cards[i])
	}
	return n
}

// mark wraps card i in its click zone. Zone markers are zero-width, so
// line widths are unchanged.
func (w *NewsWidget) mark(i int, lines []string) []string {
	if w.zones == nil || len(lines) == 0 {
		return lines
	}
	return strings.Split(w.zones.Mark(w.zoneID(i), strings.Join(lines, "\n")), "\n")
}
