package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// searchPrompt asks the grounded model for a free-text briefing.
const searchPrompt = `Find the following information for %[1]s:
1. Current weather: temperature (Celsius), conditions, high/low, and humidity.
2. Top %[2]d latest news stories from "Sortir à Paris" and general French news (e.g., Le Monde).
Provide a detailed summary.`

// extractionPrompt turns the briefing text into JSON matching briefingSchema.
const extractionPrompt = `Extract the following information into JSON from this briefing:
BRIEFING: "%s"

JSON Structure:
{
  "weather": { "temp": number, "condition": string, "high": number, "low": number, "humidity": number, "description": string },
  "news": [ { "title": string, "source": string, "snippet": string, "category": string } ]
}`

func buildSearchPrompt(city string) string {
	return fmt.Sprintf(searchPrompt, city, MaxNewsItems)
}

// buildExtractionPrompt embeds the briefing. Double quotes would close the
// quoted BRIEFING literal, so they become single quotes.
func buildExtractionPrompt(briefing string) string {
	return fmt.Sprintf(extractionPrompt, strings.ReplaceAll(briefing, `"`, "'"))
}

// briefingSchema constrains the extraction response.
func briefingSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	num := func() *genai.Schema { return &genai.Schema{Type: genai.TypeNumber} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"weather": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"temp":        num(),
					"condition":   str(),
					"high":        num(),
					"low":         num(),
					"humidity":    num(),
					"description": str(),
				},
				Required: []string{"temp", "condition", "high", "low", "humidity"},
			},
			"news": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":    str(),
						"source":   str(),
						"snippet":  str(),
						"category": str(),
					},
					Required: []string{"title", "source", "snippet"},
				},
			},
		},
		Required: []string{"weather", "news"},
	}
}
