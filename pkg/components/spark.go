package components

import (
	"math"
	"strings"
)

// sparkBlocks are the eight vertical levels of a sparkline cell.
var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the last width points of data as block characters,
// scaled between the minimum and maximum of those points. A flat series
// renders at the lowest level.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	top := len(sparkBlocks) - 1
	for _, v := range data {
		level := 0
		if hi > lo {
			level = int(math.Round((v - lo) / (hi - lo) * float64(top)))
		}
		b.WriteRune(sparkBlocks[min(max(level, 0), top)])
	}
	return b.String()
}

// Bar renders a horizontal fill bar of width cells for ratio in [0,1].
// Out-of-range ratios are clamped.
func Bar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(ratio) {
		ratio = 0
	}
	ratio = math.Min(math.Max(ratio, 0), 1)
	filled := int(math.Round(ratio * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
