package gemini

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

type call struct {
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

type reply struct {
	resp *genai.GenerateContentResponse
	err  error
}

// fakeGenerator replays scripted replies in order and records every call.
type fakeGenerator struct {
	mu      sync.Mutex
	replies []reply
	calls   []call
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var prompt strings.Builder
	for _, c := range contents {
		for _, p := range c.Parts {
			prompt.WriteString(p.Text)
		}
	}
	f.calls = append(f.calls, call{model: model, prompt: prompt.String(), config: config})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(f.replies) == 0 {
		return nil, errors.New("unexpected call")
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	return r.resp, r.err
}

func textResponse(text string, links ...string) *genai.GenerateContentResponse {
	cand := &genai.Candidate{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
	}
	if len(links) > 0 {
		meta := &genai.GroundingMetadata{}
		for _, l := range links {
			chunk := &genai.GroundingChunk{}
			if l != "" {
				chunk.Web = &genai.GroundingChunkWeb{URI: l}
			}
			meta.GroundingChunks = append(meta.GroundingChunks, chunk)
		}
		cand.GroundingMetadata = meta
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}
}

const sampleExtraction = `{
  "weather": {"temp": 14.6, "condition": "Light Rain Showers", "high": 17, "low": 9, "humidity": 81, "description": "Showers clearing by evening"},
  "news": [
    {"title": "Nuit Blanche returns", "source": "Sortir à Paris", "snippet": "All-night art trail.", "category": "Culture"},
    {"title": "Metro line 14 record", "source": "Le Monde", "snippet": "Ridership up."},
    {"title": "Seine swimming update", "source": "Le Parisien", "snippet": "Three sites confirmed."}
  ]
}`

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClientDefaults(t *testing.T) {
	c := newClient(&fakeGenerator{}, Config{})
	assert.Equal(t, DefaultModel, c.Model())
	assert.Equal(t, DefaultCity, c.city)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.Equal(t, "gemini", c.Name())
	assert.Zero(t, c.Interval())
	assert.True(t, c.Healthy())
}

func TestFetchTwoStepFlow(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{
		{resp: textResponse(`Paris is "wet" today. Headlines follow.`,
			"https://sortiraparis.com/nuit-blanche", "", "https://leparisien.fr/seine")},
		{resp: textResponse(sampleExtraction)},
	}}
	c := newClient(gen, Config{Model: "test-model"})

	b, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, gen.calls, 2)

	search, extract := gen.calls[0], gen.calls[1]
	assert.Equal(t, "test-model", search.model)
	assert.Contains(t, search.prompt, "Paris, France")
	assert.Contains(t, search.prompt, "Top 5 latest news stories")
	require.Len(t, search.config.Tools, 1)
	assert.NotNil(t, search.config.Tools[0].GoogleSearch)
	assert.Empty(t, search.config.ResponseMIMEType)

	assert.Equal(t, "application/json", extract.config.ResponseMIMEType)
	require.NotNil(t, extract.config.ResponseSchema)
	assert.Empty(t, extract.config.Tools)
	assert.Contains(t, extract.prompt, `BRIEFING: "Paris is 'wet' today. Headlines follow."`)

	assert.Equal(t, dashboard.WeatherSnapshot{
		Temp: 14.6, Condition: "Light Rain Showers", High: 17, Low: 9, Humidity: 81,
		Description: "Showers clearing by evening",
	}, b.Weather)

	require.Len(t, b.News, 3)
	assert.Equal(t, "https://sortiraparis.com/nuit-blanche", b.News[0].URL)
	assert.Equal(t, "Culture", b.News[0].Category)
	assert.Equal(t, dashboard.SearchURL("Metro line 14 record"), b.News[1].URL, "chunk without web source falls back to search")
	assert.Equal(t, "https://leparisien.fr/seine", b.News[2].URL)
	assert.True(t, c.Healthy())
}

func TestFetchSearchError(t *testing.T) {
	boom := errors.New("429 resource exhausted")
	gen := &fakeGenerator{replies: []reply{{err: boom}}}
	c := newClient(gen, Config{})

	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Len(t, gen.calls, 1, "extraction must not run after a failed search")
	assert.False(t, c.Healthy())
}

func TestFetchEmptyBriefing(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{resp: textResponse("   ")}}}
	c := newClient(gen, Config{})

	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrEmptyBriefing)
}

func TestFetchExtractionError(t *testing.T) {
	boom := errors.New("backend unavailable")
	gen := &fakeGenerator{replies: []reply{
		{resp: textResponse("briefing")},
		{err: boom},
	}}
	_, err := newClient(gen, Config{}).Fetch(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFetchMalformedJSON(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{
		{resp: textResponse("briefing")},
		{resp: textResponse("{not json")},
	}}
	_, err := newClient(gen, Config{}).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode extraction")
}

func TestFetchEmptyExtractionYieldsSentinels(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{
		{resp: textResponse("briefing")},
		{resp: textResponse("")},
	}}
	b, err := newClient(gen, Config{}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, b.News)
	assert.Equal(t, dashboard.UnknownWeather(), b.Weather)
	assert.True(t, b.Weather.Pending())
}

func TestFetchHonoursTimeout(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{resp: textResponse("late")}}}
	c := newClient(gen, Config{Timeout: time.Nanosecond})

	_, err := c.Fetch(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchTimeoutMarksUnhealthy(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{resp: textResponse("late")}}}
	c := newClient(gen, Config{Timeout: time.Nanosecond})

	_, err := c.Fetch(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, c.Healthy())
}

func TestFetchCancelledKeepsHealth(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newClient(&fakeGenerator{}, Config{})
	_, err := c.Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, c.Healthy(), "a superseded fetch must not mark a healthy source down")

	// After a real failure, a cancelled fetch must not mark it healthy again.
	boom := errors.New("503")
	gen := &fakeGenerator{replies: []reply{{err: boom}}}
	c = newClient(gen, Config{})
	_, err = c.Fetch(context.Background())
	require.ErrorIs(t, err, boom)
	_, err = c.Fetch(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, c.Healthy())
}

func TestCollectReturnsBriefing(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{
		{resp: textResponse("briefing")},
		{resp: textResponse(sampleExtraction)},
	}}
	data, err := newClient(gen, Config{}).Collect(context.Background())
	require.NoError(t, err)
	b, ok := data.(dashboard.Briefing)
	require.True(t, ok, "Collect returned %T", data)
	assert.Len(t, b.News, 3)
}

func TestCollectErrorReturnsNilData(t *testing.T) {
	gen := &fakeGenerator{replies: []reply{{err: errors.New("down")}}}
	data, err := newClient(gen, Config{}).Collect(context.Background())
	assert.Error(t, err)
	assert.Nil(t, data)
}
