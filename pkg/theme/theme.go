// Package theme holds the kiosk colour palettes. Themes are plain hex
// strings; Adapt downgrades them for terminals without true colour.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// DefaultName is the theme used when none (or an unknown one) is requested.
const DefaultName = "paris-night"

// Theme defines the complete colour palette for the dashboard.
type Theme struct {
	Name string

	// Base colors
	Background string // hex color e.g. "#0f1724"
	Foreground string
	Dim        string // secondary text, placeholders
	Accent     string

	// Panels
	Border      string
	BorderFocus string
	Title       string

	// Status
	StatusOK    string // live / in sync
	StatusSync  string // background sync in progress
	StatusError string // error banner

	// Clock
	ClockDigits  string
	ClockSeconds string
	Date         string

	// Weather
	Temperature string
	WeatherIcon string

	// News
	Badge     string // source badge background
	BadgeText string
	Link      string
	Selected  string // selected card marker

	// Help footer
	HelpKey  string
	HelpDesc string
}

// colors returns pointers to every colour field, for bulk transforms.
func (t *Theme) colors() []*string {
	return []*string{
		&t.Background, &t.Foreground, &t.Dim, &t.Accent,
		&t.Border, &t.BorderFocus, &t.Title,
		&t.StatusOK, &t.StatusSync, &t.StatusError,
		&t.ClockDigits, &t.ClockSeconds, &t.Date,
		&t.Temperature, &t.WeatherIcon,
		&t.Badge, &t.BadgeText, &t.Link, &t.Selected,
		&t.HelpKey, &t.HelpDesc,
	}
}

// Current holds the active theme (set via SetCurrent).
var Current Theme

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	registerBuiltins()
	Current = parisNight()
}

// Get returns a named theme, falling back to the default if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry[DefaultName]
}

// Lookup is Get without the fallback.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetCurrent sets the active theme by name.
func SetCurrent(name string) {
	Current = Get(name)
}

// Register adds or replaces a theme under its lowercase name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
