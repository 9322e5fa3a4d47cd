package gemini

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/tinyland/lab/vision-station/pkg/dashboard"
)

func TestBriefingCapsNewsAtFive(t *testing.T) {
	var ext extraction
	for i := 0; i < 8; i++ {
		ext.News = append(ext.News, extractedItem{Title: fmt.Sprintf("story %d", i)})
	}
	b := ext.briefing(nil)
	require.Len(t, b.News, MaxNewsItems)
	assert.Equal(t, "story 4", b.News[4].Title)
}

func TestBriefingLinksByIndex(t *testing.T) {
	ext := extraction{News: []extractedItem{
		{Title: "first"}, {Title: "second & third"},
	}}
	b := ext.briefing([]string{"https://example.com/1"})
	assert.Equal(t, "https://example.com/1", b.News[0].URL)
	assert.Equal(t, "https://www.google.com/search?q=second%20%26%20third", b.News[1].URL)
}

func TestBriefingMissingWeather(t *testing.T) {
	b := extraction{}.briefing(nil)
	assert.Equal(t, dashboard.WeatherSnapshot{Condition: dashboard.UnknownCondition}, b.Weather)
}

func TestBriefingBlankCondition(t *testing.T) {
	ext := extraction{Weather: &extractedWeather{Temp: 18, Condition: "  "}}
	b := ext.briefing(nil)
	assert.Equal(t, dashboard.UnknownCondition, b.Weather.Condition)
	assert.Equal(t, 18.0, b.Weather.Temp)
}

func TestDecodeExtraction(t *testing.T) {
	ext, err := decodeExtraction(" \n")
	require.NoError(t, err)
	assert.Nil(t, ext.Weather)
	assert.Empty(t, ext.News)

	ext, err = decodeExtraction(`{"weather":{"temp":-2,"condition":"Snow","high":0,"low":-4,"humidity":90}}`)
	require.NoError(t, err)
	require.NotNil(t, ext.Weather)
	assert.Equal(t, "Snow", ext.Weather.Condition)
	assert.Equal(t, -2.0, ext.Weather.Temp)

	_, err = decodeExtraction(`[]`)
	assert.Error(t, err)
}

func TestPrompts(t *testing.T) {
	assert.Contains(t, buildSearchPrompt("Paris, France"), "Find the following information for Paris, France:")
	assert.Equal(t, `BRIEFING: "it's 'sunny'"`, lineWithPrefix(buildExtractionPrompt(`it's "sunny"`), "BRIEFING:"))

	s := briefingSchema()
	assert.ElementsMatch(t, []string{"weather", "news"}, s.Required)
	assert.Contains(t, s.Properties["news"].Items.Properties, "category")
	assert.NotContains(t, s.Properties["news"].Items.Required, "category")
}

func lineWithPrefix(text, prefix string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			return line
		}
	}
	return ""
}
