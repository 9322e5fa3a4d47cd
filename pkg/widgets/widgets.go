// Package widgets provides the kiosk panels: clock, weather and news in the
// body grid, plus the header and footer bars. Each body widget implements
// app.Widget and receives its data through the bubbletea Update loop.
package widgets

import (
	"strings"

	"gitlab.com/tinyland/lab/vision-station/pkg/components"
)

// fitLines clips lines to height and fits each to width.
func fitLines(lines []string, width, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = components.Fit(l, width)
	}
	return strings.Join(out, "\n")
}

// centerBlock centers lines horizontally and vertically in width x height.
func centerBlock(lines []string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	top := (height - len(lines)) / 2
	out := make([]string, 0, height)
	for range top {
		out = append(out, "")
	}
	for _, l := range lines {
		if components.VisibleLen(l) > width {
			l = components.TruncateWithTail(l, width, "…")
		}
		out = append(out, components.PadCenter(l, width))
	}
	return strings.Join(out, "\n")
}
