package gemini

import (
	"encoding/json"
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

type extraction struct {
	Weather *extractedWeather `json:"weather"`
	News    []extractedItem   `json:"news"`
}

type extractedWeather struct {
	Temp        float64 `json:"temp"`
	Condition   string  `json:"condition"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Humidity    float64 `json:"humidity"`
	Description string  `json:"description"`
}

type extractedItem struct {
	Title    string `json:"title"`
	Source   string `json:"source"`
	Snippet  string `json:"snippet"`
	Category string `json:"category"`
}

// decodeExtraction parses the extraction response. Blank text is treated as
// an empty object.
func decodeExtraction(text string) (extraction, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "{}"
	}
	var ext extraction
	if err := json.Unmarshal([]byte(text), &ext); err != nil {
		return extraction{}, fmt.Errorf("gemini: decode extraction: %w", err)
	}
	return ext, nil
}

// briefing maps the extraction onto the dashboard model. Item i links to
// grounding source i when there is one, otherwise to a search for its title.
func (e extraction) briefing(links []string) dashboard.Briefing {
	news := make([]dashboard.NewsItem, 0, min(len(e.News), MaxNewsItems))
	for i, it := range e.News {
		if i >= MaxNewsItems {
			break
		}
		title := strings.TrimSpace(it.Title)
		url := dashboard.SearchURL(title)
		if i < len(links) && links[i] != "" {
			url = links[i]
		}
		news = append(news, dashboard.NewsItem{
			Title:    title,
			Source:   strings.TrimSpace(it.Source),
			URL:      url,
			Snippet:  strings.TrimSpace(it.Snippet),
			Category: strings.TrimSpace(it.Category),
		})
	}

	weather := dashboard.UnknownWeather()
	if w := e.Weather; w != nil {
		weather = dashboard.WeatherSnapshot{
			Temp:        w.Temp,
			Condition:   strings.TrimSpace(w.Condition),
			High:        w.High,
			Low:         w.Low,
			Humidity:    w.Humidity,
			Description: strings.TrimSpace(w.Description),
		}
		if weather.Condition == "" {
			weather.Condition = dashboard.UnknownCondition
		}
	}

	return dashboard.Briefing{News: news, Weather: weather}
}
