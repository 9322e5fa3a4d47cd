// Package dashboard owns the kiosk's data model and the refresh state
// machine. A pure Transition function decides what happens on each event;
// the Controller runs that function on a single goroutine and performs the
// side effects it asks for (fetches, retry timers).
package dashboard

import (
	"net/url"
	"strings"
	"time"
)

// UnknownCondition is the sentinel weather condition meaning "no reading
// yet". It distinguishes a missing snapshot from a genuine zero reading.
const UnknownCondition = "Unknown"

// ErrorMessage is the single user-facing error shown when the data source
// cannot be reached, whatever the underlying cause.
const ErrorMessage = "Reconnecting to Paris..."

// SearchBase prefixes headline search links when the source gives no URL.
const SearchBase = "https://www.google.com/search?q="

// SyncTimeLayout formats the last-updated stamp (local time, 24h).
const SyncTimeLayout = "15:04"

// NewsItem is one headline returned by the briefing source.
type NewsItem struct {
	Title    string `json:"title"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
	Category string `json:"category,omitempty"`
}

// WeatherSnapshot is the current weather for the city.
type WeatherSnapshot struct {
	Temp        float64 `json:"temp"`
	Condition   string  `json:"condition"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
}

// UnknownWeather returns the placeholder snapshot used when the source
// returned no weather block.
func UnknownWeather() WeatherSnapshot {
	return WeatherSnapshot{Condition: UnknownCondition}
}

// Pending reports whether w carries no real reading yet. A nil snapshot is
// pending too.
func (w *WeatherSnapshot) Pending() bool {
	return w == nil || w.Condition == UnknownCondition
}

// Briefing is the result of one successful fetch.
type Briefing struct {
	News    []NewsItem      `json:"news"`
	Weather WeatherSnapshot `json:"weather"`
}

// Phase is the controller's logical state.
type Phase int

const (
	// PhaseUninitialized means no refresh has been requested yet.
	PhaseUninitialized Phase = iota
	// PhaseLoading is the very first fetch of the controller's lifetime.
	PhaseLoading
	// PhaseReady holds data and nothing is in flight.
	PhaseReady
	// PhaseRefreshing is a background fetch after the first one.
	PhaseRefreshing
	// PhaseError means the last fetch failed; previous data is retained.
	PhaseError
)

// String returns the lowercase phase name used in logs and /healthz.
func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the dashboard snapshot handed to presentation code. Values
// published by the Controller are deep copies; receivers may keep them.
type State struct {
	Phase       Phase            `json:"phase"`
	News        []NewsItem       `json:"news"`
	Weather     *WeatherSnapshot `json:"weather,omitempty"`
	Loading     bool             `json:"loading"`
	Error       string           `json:"error,omitempty"`
	LastUpdated string           `json:"last_updated"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Syncing reports whether a background refresh is in flight.
func (s State) Syncing() bool {
	return s.Phase == PhaseRefreshing
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	if s.News != nil {
		out.News = make([]NewsItem, len(s.News))
		copy(out.News, s.News)
	}
	if s.Weather != nil {
		w := *s.Weather
		out.Weather = &w
	}
	return out
}

// FormatSyncTime renders t as the last-updated stamp in local time.
func FormatSyncTime(t time.Time) string {
	return t.Local().Format(SyncTimeLayout)
}

// componentEscaper turns QueryEscape output into URI component encoding:
// spaces become %20 and !'()* stay literal.
var componentEscaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// SearchURL returns a web search link for a headline title.
func SearchURL(title string) string {
	return SearchBase + componentEscaper.Replace(url.QueryEscape(title))
}
