package theme

import (
	"bytes"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// tomlTheme is the file representation of a Theme.
type tomlTheme struct {
	Name    string      `toml:"name"`
	Base    tomlBase    `toml:"base"`
	Panel   tomlPanel   `toml:"panel"`
	Status  tomlStatus  `toml:"status"`
	Clock   tomlClock   `toml:"clock"`
	Weather tomlWeather `toml:"weather"`
	News    tomlNews    `toml:"news"`
	Help    tomlHelp    `toml:"help"`
}

type tomlBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type tomlPanel struct {
	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`
	Title       string `toml:"title"`
}

type tomlStatus struct {
	OK    string `toml:"ok"`
	Sync  string `toml:"sync"`
	Error string `toml:"error"`
}

type tomlClock struct {
	Digits  string `toml:"digits"`
	Seconds string `toml:"seconds"`
	Date    string `toml:"date"`
}

type tomlWeather struct {
	Temperature string `toml:"temperature"`
	Icon        string `toml:"icon"`
}

type tomlNews struct {
	Badge     string `toml:"badge"`
	BadgeText string `toml:"badge_text"`
	Link      string `toml:"link"`
	Selected  string `toml:"selected"`
}

type tomlHelp struct {
	Key  string `toml:"key"`
	Desc string `toml:"desc"`
}

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// colorFieldNames matches the order of Theme.colors.
var colorFieldNames = []string{
	"base.background", "base.foreground", "base.dim", "base.accent",
	"panel.border", "panel.border_focus", "panel.title",
	"status.ok", "status.sync", "status.error",
	"clock.digits", "clock.seconds", "clock.date",
	"weather.temperature", "weather.icon",
	"news.badge", "news.badge_text", "news.link", "news.selected",
	"help.key", "help.desc",
}

// LoadFromTOML parses a TOML theme definition.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt tomlTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}

	t := Theme{
		Name:       tt.Name,
		Background: tt.Base.Background,
		Foreground: tt.Base.Foreground,
		Dim:        tt.Base.Dim,
		Accent:     tt.Base.Accent,

		Border:      tt.Panel.Border,
		BorderFocus: tt.Panel.BorderFocus,
		Title:       tt.Panel.Title,

		StatusOK:    tt.Status.OK,
		StatusSync:  tt.Status.Sync,
		StatusError: tt.Status.Error,

		ClockDigits:  tt.Clock.Digits,
		ClockSeconds: tt.Clock.Seconds,
		Date:         tt.Clock.Date,

		Temperature: tt.Weather.Temperature,
		WeatherIcon: tt.Weather.Icon,

		Badge:     tt.News.Badge,
		BadgeText: tt.News.BadgeText,
		Link:      tt.News.Link,
		Selected:  tt.News.Selected,

		HelpKey:  tt.Help.Key,
		HelpDesc: tt.Help.Desc,
	}

	if err := validate(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a theme file and registers it, returning the theme.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: %w", err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	Register(t)
	return t, nil
}

// SaveToTOML serializes a theme to TOML bytes.
func SaveToTOML(t Theme) ([]byte, error) {
	tt := tomlTheme{
		Name:    t.Name,
		Base:    tomlBase{t.Background, t.Foreground, t.Dim, t.Accent},
		Panel:   tomlPanel{t.Border, t.BorderFocus, t.Title},
		Status:  tomlStatus{t.StatusOK, t.StatusSync, t.StatusError},
		Clock:   tomlClock{t.ClockDigits, t.ClockSeconds, t.Date},
		Weather: tomlWeather{t.Temperature, t.WeatherIcon},
		News:    tomlNews{t.Badge, t.BadgeText, t.Link, t.Selected},
		Help:    tomlHelp{t.HelpKey, t.HelpDesc},
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tt); err != nil {
		return nil, fmt.Errorf("theme: encode TOML: %w", err)
	}
	return buf.Bytes(), nil
}

// validate checks that the name is set and every colour is a #RRGGBB value.
func validate(t Theme) error {
	if t.Name == "" {
		return fmt.Errorf("theme: missing required field %q", "name")
	}
	for i, c := range t.colors() {
		if *c == "" {
			return fmt.Errorf("theme: missing required field %q", colorFieldNames[i])
		}
		if !hexColorRegex.MatchString(*c) {
			return fmt.Errorf("theme: invalid hex color %q for field %q (expected #RRGGBB)", *c, colorFieldNames[i])
		}
	}
	return nil
}
