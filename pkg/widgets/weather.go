package widgets

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/vision-station/pkg/app"
	"gitlab.com/tinyland/lab/vision-station/pkg/components"
	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

// WeatherPending is shown until the first real reading arrives.
const WeatherPending = "Paris Weather Active"

// Icon is the weather pictogram chosen from a condition string.
type Icon int

const (
	IconCloud Icon = iota
	IconSun
	IconStorm
	IconSnow
	IconRain
	IconFog
)

var iconRules = []struct {
	icon  Icon
	words []string
}{
	{IconSun, []string{"sun", "clear"}},
	{IconStorm, []string{"storm", "thunder"}},
	{IconSnow, []string{"snow"}},
	{IconRain, []string{"rain", "shower", "drizzle"}},
	{IconFog, []string{"fog", "mist"}},
	{IconCloud, []string{"cloud", "overcast"}},
}

// IconFor picks the icon for condition by case-insensitive substring. The
// first matching rule wins; anything unmatched is cloud.
func IconFor(condition string) Icon {
	c := strings.ToLower(condition)
	for _, r := range iconRules {
		for _, w := range r.words {
			if strings.Contains(c, w) {
				return r.icon
			}
		}
	}
	return IconCloud
}

// Glyph returns the single-cell symbol for the icon.
func (i Icon) Glyph() string {
	switch i {
	case IconSun:
		return "☀"
	case IconStorm:
		return "ϟ"
	case IconSnow:
		return "❄"
	case IconRain:
		return "☂"
	case IconFog:
		return "≡"
	default:
		return "☁"
	}
}

// String returns the icon name.
func (i Icon) String() string {
	switch i {
	case IconSun:
		return "sun"
	case IconStorm:
		return "storm"
	case IconSnow:
		return "snow"
	case IconRain:
		return "rain"
	case IconFog:
		return "fog"
	default:
		return "cloud"
	}
}

var pendingFrames = []string{"◐", "◓", "◑", "◒"}

// WeatherWidget shows the current conditions from the latest snapshot.
type WeatherWidget struct {
	styles  Styles
	city    string
	weather *dashboard.WeatherSnapshot
	frame   int
}

// NewWeatherWidget creates a weather panel for city.
func NewWeatherWidget(styles Styles, city string) *WeatherWidget {
	if city == "" {
		city = "Paris"
	}
	return &WeatherWidget{styles: styles, city: city}
}

// ID returns the unique identifier for this widget.
func (w *WeatherWidget) ID() string { return "weather" }

// Title returns the display name for this widget.
func (w *WeatherWidget) Title() string { return "Météo" }

// MinSize returns the minimum width and height this widget requires.
func (w *WeatherWidget) MinSize() (int, int) { return 20, 3 }

// Snapshot returns the snapshot being displayed, or nil.
func (w *WeatherWidget) Snapshot() *dashboard.WeatherSnapshot { return w.weather }

// Update takes the weather from each StateEvent and animates the pending
// glyph on clock ticks.
func (w *WeatherWidget) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case app.StateEvent:
		if msg.State.Weather == nil {
			w.weather = nil
			return nil
		}
		snap := *msg.State.Weather
		w.weather = &snap
	case app.ClockTickEvent:
		w.frame = (w.frame + 1) % len(pendingFrames)
	}
	return nil
}

// HandleKey is a no-op.
func (w *WeatherWidget) HandleKey(tea.KeyMsg) tea.Cmd { return nil }

// View renders the reading, or the pending placeholder when there is no
// reading or the condition is the Unknown sentinel.
func (w *WeatherWidget) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	s := w.styles
	if w.weather.Pending() {
		return centerBlock([]string{
			s.Accent.Render(pendingFrames[w.frame] + " " + WeatherPending),
			s.Dim.Render("awaiting first reading"),
		}, width, height)
	}

	ws := w.weather
	icon := IconFor(ws.Condition)
	lines := []string{
		s.WeatherIcon.Render(icon.Glyph()) + "  " +
			s.Temperature.Render(FormatTemp(ws.Temp)) + "  " +
			s.Text.Render(ws.Condition),
		s.Dim.Render(fmt.Sprintf("H %s · L %s · %s humidity",
			FormatTemp(ws.High), FormatTemp(ws.Low), FormatPercent(ws.Humidity))),
	}
	if ws.Description != "" && height > 3 {
		lines = append(lines, "")
		for _, l := range components.Clamp(ws.Description, width, height-3) {
			lines = append(lines, s.Dim.Render(l))
		}
	}
	return centerBlock(lines, width, height)
}

// FormatTemp rounds a Celsius reading for display.
func FormatTemp(c float64) string {
	r := math.Round(c)
	if r == 0 {
		r = 0 // avoid "-0"
	}
	return fmt.Sprintf("%.0f°C", r)
}

// FormatPercent renders a 0-100 value as a whole percentage.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.0f%%", math.Round(p))
}
