package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/vision-station/pkg/theme"
)

// Styles are the lipgloss styles every widget draws with, derived from one
// theme.
type Styles struct {
	Theme theme.Theme

	Text         lipgloss.Style
	Dim          lipgloss.Style
	Accent       lipgloss.Style
	Brand        lipgloss.Style
	ClockDigits  lipgloss.Style
	ClockSeconds lipgloss.Style
	Date         lipgloss.Style
	Temperature  lipgloss.Style
	WeatherIcon  lipgloss.Style
	Badge        lipgloss.Style
	Category     lipgloss.Style
	Headline     lipgloss.Style
	Link         lipgloss.Style
	Selected     lipgloss.Style
	StatusOK     lipgloss.Style
	StatusSync   lipgloss.Style
	Banner       lipgloss.Style
}

// fg returns a style with foreground c, or a plain style for an empty c.
func fg(c string) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c != "" {
		s = s.Foreground(lipgloss.Color(c))
	}
	return s
}

// NewStyles builds the widget styles for t. Colours may be hex or the
// palette indexes produced by theme.Adapt; lipgloss accepts both.
func NewStyles(t theme.Theme) Styles {
	badge := fg(t.BadgeText).Bold(true).Padding(0, 1)
	if t.Badge != "" {
		badge = badge.Background(lipgloss.Color(t.Badge))
	}
	banner := fg(t.StatusError).Bold(true)

	return Styles{
		Theme:        t,
		Text:         fg(t.Foreground),
		Dim:          fg(t.Dim),
		Accent:       fg(t.Accent),
		Brand:        fg(t.Accent).Bold(true),
		ClockDigits:  fg(t.ClockDigits).Bold(true),
		ClockSeconds: fg(t.ClockSeconds),
		Date:         fg(t.Date),
		Temperature:  fg(t.Temperature).Bold(true),
		WeatherIcon:  fg(t.WeatherIcon),
		Badge:        badge,
		Category:     fg(t.Dim).Italic(true),
		Headline:     fg(t.Foreground).Bold(true),
		Link:         fg(t.Link).Underline(true),
		Selected:     fg(t.Selected).Bold(true),
		StatusOK:     fg(t.StatusOK),
		StatusSync:   fg(t.StatusSync),
		Banner:       banner,
	}
}
