// Package components holds the ANSI-aware drawing primitives the dashboard
// widgets share: text fitting, bordered boxes, block digits and small
// inline charts.
package components

// Align controls horizontal text alignment within a box or cell.
type Align int

const (
	// AlignLeft aligns text to the left edge (default).
	AlignLeft Align = iota
	// AlignCenter centers text horizontally.
	AlignCenter
	// AlignRight aligns text to the right edge.
	AlignRight
)

// AlignText pads s to width according to a.
func AlignText(s string, width int, a Align) string {
	switch a {
	case AlignCenter:
		return PadCenter(s, width)
	case AlignRight:
		return PadLeft(s, width)
	default:
		return PadRight(s, width)
	}
}

// Padding defines spacing on each side of a content area.
type Padding struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// NewPaddingHV creates a Padding with separate horizontal and vertical values.
func NewPaddingHV(horiz, vert int) Padding {
	horiz = max(horiz, 0)
	vert = max(vert, 0)
	return Padding{Top: vert, Right: horiz, Bottom: vert, Left: horiz}
}
