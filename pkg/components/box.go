package components

import (
	"strings"

	"gitlab.com/tinyland/lab/vision-station/pkg/theme"
)

// BorderStyle selects which set of box-drawing characters to use.
type BorderStyle int

const (
	// BorderNone renders no border; only padding applies.
	BorderNone BorderStyle = iota
	// BorderRounded uses single-line characters with rounded corners.
	BorderRounded
	// BorderDouble uses double-line characters, for the focused panel.
	BorderDouble
	// BorderHeavy uses thick characters, for the error banner.
	BorderHeavy
)

// borderChars holds: top-left, top-right, bottom-left, bottom-right,
// horizontal, vertical.
type borderChars struct {
	tl, tr, bl, br, h, v string
}

var borderSets = map[BorderStyle]borderChars{
	BorderRounded: {"╭", "╮", "╰", "╯", "─", "│"},
	BorderDouble:  {"╔", "╗", "╚", "╝", "═", "║"},
	BorderHeavy:   {"┏", "┓", "┗", "┛", "━", "┃"},
}

// BoxStyle controls the visual appearance of a rendered box.
type BoxStyle struct {
	Border     BorderStyle
	Title      string
	TitleAlign Align
	Padding    Padding
	// Color is a theme colour (hex or adapted palette index) for the
	// border and title. Empty leaves the border uncoloured.
	Color string
}

// RenderBox renders content inside a box of exactly width x height cells.
// Content lines are fitted to the interior; missing lines are blank.
// A bordered box smaller than 2x2 renders as "".
func RenderBox(content string, width, height int, style BoxStyle) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	chars, bordered := borderSets[style.Border]
	edge := 0
	if bordered {
		if width < 2 || height < 2 {
			return ""
		}
		edge = 1
	}

	innerW := max(width-2*edge-style.Padding.Left-style.Padding.Right, 0)
	innerH := max(height-2*edge-style.Padding.Top-style.Padding.Bottom, 0)

	var contentLines []string
	if content != "" {
		contentLines = strings.Split(content, "\n")
	}

	paint := func(s string) string { return theme.Colorize(s, style.Color) }
	left, right := "", ""
	if bordered {
		left, right = paint(chars.v), paint(chars.v)
	}
	padL := strings.Repeat(" ", style.Padding.Left)
	padR := strings.Repeat(" ", style.Padding.Right)
	blank := strings.Repeat(" ", innerW)

	lines := make([]string, 0, height)
	if bordered {
		lines = append(lines, paint(chars.tl)+titleBar(style, chars.h, width-2)+paint(chars.tr))
	}
	for range style.Padding.Top {
		lines = append(lines, left+padL+blank+padR+right)
	}
	for i := range innerH {
		body := blank
		if i < len(contentLines) {
			body = fitLine(contentLines[i], innerW)
		}
		lines = append(lines, left+padL+body+padR+right)
	}
	for range style.Padding.Bottom {
		lines = append(lines, left+padL+blank+padR+right)
	}
	if bordered {
		lines = append(lines, paint(chars.bl+strings.Repeat(chars.h, width-2)+chars.br))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// fitLine truncates or pads one content line to exactly w cells.
func fitLine(line string, w int) string {
	if w <= 0 {
		return ""
	}
	if VisibleLen(line) > w {
		return Truncate(line, w)
	}
	return PadRight(line, w)
}

// titleBar renders the top edge with the title embedded as " title ".
// At least one horizontal rune stays on each side of the title.
func titleBar(style BoxStyle, h string, barWidth int) string {
	maxTitle := barWidth - 4
	if style.Title == "" || maxTitle <= 0 {
		return theme.Colorize(strings.Repeat(h, max(barWidth, 0)), style.Color)
	}
	title := style.Title
	if VisibleLen(title) > maxTitle {
		title = TruncateWithTail(title, maxTitle, "…")
	}
	remaining := barWidth - VisibleLen(title) - 2

	var l, r int
	switch style.TitleAlign {
	case AlignRight:
		l, r = remaining-1, 1
	case AlignCenter:
		l = remaining / 2
		r = remaining - l
	default:
		l, r = 1, remaining-1
	}
	return theme.Colorize(strings.Repeat(h, l)+" "+title+" "+strings.Repeat(h, r), style.Color)
}
