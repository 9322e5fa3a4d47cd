package layout

import "gitlab.com/tinyland/lab/vision-station/pkg/config"

// Cell is one placed widget.
type Cell struct {
	ID   string
	Rect Rect
}

// Grid places the children of each configured row. Rows split the area
// vertically by ratio; children split their row horizontally by ratio.
// Cells that end up with no area are dropped.
func Grid(lc config.LayoutConfig, area Rect) []Cell {
	if area.Empty() || len(lc.Rows) == 0 {
		return nil
	}

	rowConstraints := make([]Constraint, len(lc.Rows))
	for i, row := range lc.Rows {
		rowConstraints[i] = Fill{Weight: row.Ratio}
	}
	rowRects := Split(area, Vertical, 0, rowConstraints...)

	var cells []Cell
	for i, row := range lc.Rows {
		if len(row.Children) == 0 {
			continue
		}
		childConstraints := make([]Constraint, len(row.Children))
		for j, ch := range row.Children {
			childConstraints[j] = Fill{Weight: ch.Ratio}
		}
		for j, r := range Split(rowRects[i], Horizontal, 0, childConstraints...) {
			if r.Empty() {
				continue
			}
			cells = append(cells, Cell{ID: row.Children[j].Type, Rect: r})
		}
	}
	return cells
}

// CellAt returns the index of the cell containing (x, y), or -1.
func CellAt(cells []Cell, x, y int) int {
	for i, c := range cells {
		if c.Rect.Contains(x, y) {
			return i
		}
	}
	return -1
}
