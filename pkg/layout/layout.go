// Package layout splits the terminal into the dashboard's widget cells.
// A small constraint solver divides one axis at a time; Grid applies it to
// the configured rows and children.
//
// Constraint types:
//   - Length{n}: fixed size in cells
//   - Min{n}: at least n cells, shares surplus with Fill items
//   - Fill{w}: remaining space proportional to weight
//
// When the constraints ask for more than the area holds, items are shrunk
// from the end so the leading cells keep their size.
package layout

// Rect is a rectangular area in terminal cells.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Inner shrinks r by margin on every side.
func (r Rect) Inner(margin int) Rect {
	if margin <= 0 {
		return r
	}
	out := Rect{
		X:      r.X + margin,
		Y:      r.Y + margin,
		Width:  r.Width - 2*margin,
		Height: r.Height - 2*margin,
	}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Contains reports whether the cell (px, py) lies inside r.
func (r Rect) Contains(px, py int) bool {
	return px >= r.X && px < r.X+r.Width && py >= r.Y && py < r.Y+r.Height
}

// Direction is the axis Split divides along.
type Direction int

const (
	// Horizontal lays items out left to right.
	Horizontal Direction = iota
	// Vertical lays items out top to bottom.
	Vertical
)

// Constraint sizes one item along the split axis.
type Constraint interface {
	constraint()
}

// Length is a fixed size.
type Length struct{ Value int }

// Min is a lower bound that also takes a share of the surplus.
type Min struct{ Value int }

// Fill takes surplus proportional to Weight. Weights below 1 count as 1.
type Fill struct{ Weight int }

func (Length) constraint() {}
func (Min) constraint()    {}
func (Fill) constraint()   {}

// Split divides area into one Rect per constraint along dir, leaving
// spacing cells between neighbours.
func Split(area Rect, dir Direction, spacing int, constraints ...Constraint) []Rect {
	n := len(constraints)
	if n == 0 {
		return nil
	}
	if spacing < 0 {
		spacing = 0
	}

	total := area.Width
	if dir == Vertical {
		total = area.Height
	}
	available := total - spacing*(n-1)
	if available < 0 {
		available = 0
	}

	sizes := make([]int, n)
	weights := make([]int, n)
	used, weightSum := 0, 0
	for i, c := range constraints {
		switch v := c.(type) {
		case Length:
			sizes[i] = max(v.Value, 0)
		case Min:
			sizes[i] = max(v.Value, 0)
			weights[i] = 1
		case Fill:
			weights[i] = max(v.Weight, 1)
		}
		used += sizes[i]
		weightSum += weights[i]
	}

	if surplus := available - used; surplus > 0 && weightSum > 0 {
		distributeSurplus(sizes, weights, weightSum, surplus)
	} else if surplus < 0 {
		shrinkFromEnd(sizes, -surplus)
	}

	rects := make([]Rect, n)
	offset := 0
	for i, size := range sizes {
		if dir == Horizontal {
			rects[i] = Rect{X: area.X + offset, Y: area.Y, Width: size, Height: area.Height}
		} else {
			rects[i] = Rect{X: area.X, Y: area.Y + offset, Width: area.Width, Height: size}
		}
		offset += size + spacing
	}
	return rects
}

// distributeSurplus hands out surplus by weight. The last weighted item
// absorbs the rounding remainder.
func distributeSurplus(sizes, weights []int, weightSum, surplus int) {
	last := -1
	for i, w := range weights {
		if w > 0 {
			last = i
		}
	}
	given := 0
	for i, w := range weights {
		if w == 0 {
			continue
		}
		share := surplus * w / weightSum
		if i == last {
			share = surplus - given
		}
		sizes[i] += share
		given += share
	}
}

func shrinkFromEnd(sizes []int, excess int) {
	for i := len(sizes) - 1; i >= 0 && excess > 0; i-- {
		cut := min(sizes[i], excess)
		sizes[i] -= cut
		excess -= cut
	}
}
