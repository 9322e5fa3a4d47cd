package theme

import (
	"math"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Depth returns the colour depth in bits for a termenv profile.
func Depth(p termenv.Profile) int {
	switch p {
	case termenv.TrueColor:
		return 24
	case termenv.ANSI256:
		return 8
	case termenv.ANSI:
		return 4
	default:
		return 1
	}
}

// Adapt converts all hex colors in a theme for the given colour depth:
// 24 keeps hex, 8 maps to the 256-colour palette, 4 to the 16 basic colours,
// and anything lower drops colour entirely.
func Adapt(t Theme, colorDepth int) Theme {
	var conv func(string) string
	switch {
	case colorDepth >= 24:
		return t
	case colorDepth >= 8:
		conv = to256Color
	case colorDepth >= 4:
		conv = to16Color
	default:
		conv = func(string) string { return "" }
	}
	for _, c := range t.colors() {
		*c = conv(*c)
	}
	return t
}

// AdaptForProfile is Adapt with the depth taken from a termenv profile.
func AdaptForProfile(t Theme, p termenv.Profile) Theme {
	return Adapt(t, Depth(p))
}

// to16Color maps a hex colour to a basic ANSI index ("0".."15").
func to16Color(hex string) string {
	if !strings.HasPrefix(hex, "#") {
		return hex
	}
	if c, ok := termenv.ANSI.Color(hex).(termenv.ANSIColor); ok {
		return strconv.Itoa(int(c))
	}
	return hex
}

var cubeLevels = [6]int{0, 95, 135, 175, 215, 255}

// to256Color converts a hex color string (e.g. "#ff5500") to the nearest
// 256-color index, picking whichever of the 6x6x6 cube and the grey ramp is
// closer. Unparseable input is returned unchanged.
func to256Color(hex string) string {
	r, g, b, ok := parseHex(hex)
	if !ok {
		return hex
	}

	ri, gi, bi := nearestLevel(r), nearestLevel(g), nearestLevel(b)
	cubeIdx := 16 + 36*ri + 6*gi + bi
	cubeDist := distance(r, g, b, cubeLevels[ri], cubeLevels[gi], cubeLevels[bi])

	grayIdx := nearestGray(r, g, b)
	gv := 8 + (grayIdx-232)*10
	grayDist := distance(r, g, b, gv, gv, gv)

	if grayDist < cubeDist {
		return strconv.Itoa(grayIdx)
	}
	return strconv.Itoa(cubeIdx)
}

// nearestLevel maps a 0-255 component to the closest cube level index.
func nearestLevel(v int) int {
	best, bestDist := 0, math.MaxInt32
	for i, lv := range cubeLevels {
		d := v - lv
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// nearestGray returns the closest index in the grey ramp 232-255
// (values 8, 18, ..., 238).
func nearestGray(r, g, b int) int {
	gray := (r + g + b) / 3
	idx := (gray - 8 + 5) / 10
	idx = max(0, min(23, idx))
	return 232 + idx
}

func distance(r1, g1, b1, r2, g2, b2 int) float64 {
	dr, dg, db := float64(r1-r2), float64(g1-g2), float64(b1-b2)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// parseHex parses "#RRGGBB" or "RRGGBB".
func parseHex(hex string) (r, g, b int, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
