// Package gemini implements the briefing collector backed by the Gemini API.
// A fetch is two model calls: a grounded Google Search that produces a
// free-text briefing for the city, then a schema-constrained extraction that
// turns the briefing into news items and a weather snapshot.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"google.golang.org/genai"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

const (
	// DefaultModel is used for both the search and extraction calls.
	DefaultModel = "gemini-3-flash-preview"

	// DefaultCity is the city the kiosk reports on.
	DefaultCity = "Paris, France"

	// DefaultTimeout bounds one complete fetch (both calls).
	DefaultTimeout = 90 * time.Second

	// MaxNewsItems caps the headlines kept from one briefing.
	MaxNewsItems = 5

	collectorName = "gemini"
)

var (
	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("gemini: missing API key")

	// ErrEmptyBriefing is returned when the grounded search yields no text.
	ErrEmptyBriefing = errors.New("gemini: empty briefing")
)

// generator is the subset of *genai.Models the collector calls.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config configures a Client.
type Config struct {
	APIKey  string
	Model   string
	City    string
	Timeout time.Duration
	Logger  *slog.Logger
}

// Client fetches dashboard briefings from Gemini. It implements
// collectors.Collector; wrap it with collectors.AsSource for the refresh
// controller.
type Client struct {
	gen     generator
	model   string
	city    string
	timeout time.Duration
	log     *slog.Logger
	healthy atomic.Bool
}

// New creates a Client with a Gemini API backend.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newClient(gc.Models, cfg), nil
}

func newClient(gen generator, cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.City == "" {
		cfg.City = DefaultCity
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	c := &Client{
		gen:     gen,
		model:   cfg.Model,
		city:    cfg.City,
		timeout: cfg.Timeout,
		log:     logger.With("collector", collectorName),
	}
	c.healthy.Store(true)
	return c
}

// Name returns "gemini".
func (c *Client) Name() string { return collectorName }

// Interval returns 0: the refresh controller, not the Runner, schedules
// briefing fetches.
func (c *Client) Interval() time.Duration { return 0 }

// Healthy reports whether the last fetch succeeded.
func (c *Client) Healthy() bool { return c.healthy.Load() }

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Collect implements collectors.Collector. The data is a dashboard.Briefing.
func (c *Client) Collect(ctx context.Context) (any, error) {
	b, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Fetch runs the search and extraction calls and maps the result.
// A fetch cancelled by the caller says nothing about the service and
// leaves Healthy unchanged; a timeout still counts as a failure.
func (c *Client) Fetch(ctx context.Context) (dashboard.Briefing, error) {
	fctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	b, err := c.fetch(fctx)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled)) {
		c.log.Debug("fetch cancelled", "error", err)
		return b, err
	}
	c.healthy.Store(err == nil)
	return b, err
}

func (c *Client) fetch(ctx context.Context) (dashboard.Briefing, error) {
	start := time.Now()

	search, err := c.gen.GenerateContent(ctx, c.model, genai.Text(buildSearchPrompt(c.city)), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return dashboard.Briefing{}, fmt.Errorf("gemini: grounded search: %w", err)
	}

	raw := responseText(search)
	if strings.TrimSpace(raw) == "" {
		return dashboard.Briefing{}, ErrEmptyBriefing
	}
	links := groundingLinks(search)
	c.log.Debug("grounded search complete",
		"chars", len(raw),
		"links", len(links),
		"elapsed", time.Since(start),
	)

	extraction, err := c.gen.GenerateContent(ctx, c.model, genai.Text(buildExtractionPrompt(raw)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   briefingSchema(),
	})
	if err != nil {
		return dashboard.Briefing{}, fmt.Errorf("gemini: extraction: %w", err)
	}

	ext, err := decodeExtraction(responseText(extraction))
	if err != nil {
		return dashboard.Briefing{}, err
	}

	b := ext.briefing(links)
	c.log.Debug("briefing mapped",
		"news", len(b.News),
		"condition", b.Weather.Condition,
		"elapsed", time.Since(start),
	)
	return b, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Text()
}

// groundingLinks returns the web URI of each grounding chunk of the first
// candidate, in order. Chunks without a web source yield "".
func groundingLinks(resp *genai.GenerateContentResponse) []string {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.GroundingMetadata == nil {
		return nil
	}
	chunks := cand.GroundingMetadata.GroundingChunks
	links := make([]string, len(chunks))
	for i, ch := range chunks {
		if ch != nil && ch.Web != nil {
			links[i] = ch.Web.URI
		}
	}
	return links
}
