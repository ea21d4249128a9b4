// Package core provides the character canvas and grid geometry used to draw
// the board. It has no Bubble Tea dependency so layout stays testable.
package core

// Rect is an axis-aligned area on the screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Grid lays out equally sized cells in rows, left to right.
type Grid struct {
	Cols  int // Cells per row, at least 1
	CellW int
	CellH int
	Gap   int // Horizontal gap between cells
}

// NewGrid fits as many cells of the given size as the width allows.
func NewGrid(width, cellW, cellH, gap int) Grid {
	cols := 1
	if cellW > 0 {
		cols = max(1, (width+gap)/(cellW+gap))
	}
	return Grid{Cols: cols, CellW: cellW, CellH: cellH, Gap: gap}
}

// Cell returns the rectangle of the i-th cell.
func (g Grid) Cell(i int) Rect {
	col, row := i%g.Cols, i/g.Cols
	return NewRect(col*(g.CellW+g.Gap), row*g.CellH, g.CellW, g.CellH)
}

// Rows returns the number of rows needed for n cells.
func (g Grid) Rows(n int) int {
	return (n + g.Cols - 1) / g.Cols
}

// Size returns the width and height needed for n cells.
func (g Grid) Size(n int) (int, int) {
	cols := min(n, g.Cols)
	if cols == 0 {
		return 0, 0
	}
	return cols*g.CellW + (cols-1)*g.Gap, g.Rows(n) * g.CellH
}
