package components

import "strings"

// BigTextHeight is the number of rows every block glyph occupies.
const BigTextHeight = 5

// bigGlyphs are 5-row block glyphs for clock faces. Digits are four cells
// wide; separators are narrower.
var bigGlyphs = map[rune][BigTextHeight]string{
	'0': {"████", "█  █", "█  █", "█  █", "████"},
	'1': {"  █ ", " ██ ", "  █ ", "  █ ", " ███"},
	'2': {"████", "   █", "████", "█   ", "████"},
	'3': {"████", "   █", " ███", "   █", "████"},
	'4': {"█  █", "█  █", "████", "   █", "   █"},
	'5': {"████", "█   ", "████", "   █", "████"},
	'6': {"████", "█   ", "████", "█  █", "████"},
	'7': {"████", "   █", "  █ ", " █  ", " █  "},
	'8': {"████", "█  █", "████", "█  █", "████"},
	'9': {"████", "█  █", "████", "   █", "████"},
	':': {" ", "█", " ", "█", " "},
	'.': {" ", " ", " ", " ", "█"},
	' ': {"  ", "  ", "  ", "  ", "  "},
}

// BigText renders s in block glyphs, one space between glyphs. Runes
// without a glyph are skipped. The result always has BigTextHeight lines.
func BigText(s string) []string {
	rows := make([]strings.Builder, BigTextHeight)
	first := true
	for _, r := range s {
		g, ok := bigGlyphs[r]
		if !ok {
			continue
		}
		for i := range rows {
			if !first {
				rows[i].WriteByte(' ')
			}
			rows[i].WriteString(g[i])
		}
		first = false
	}
	out := make([]string, BigTextHeight)
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}

// BigTextWidth returns the cell width BigText(s) would occupy.
func BigTextWidth(s string) int {
	return VisibleLen(BigText(s)[0])
}
