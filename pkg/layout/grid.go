package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Grid maps canvas coordinates onto a block of terminal cells. Terminal
// cells are roughly twice as tall as wide, so a grid whose Rows is about
// 3/8 of Cols keeps the ring circular on screen.
type Grid struct {
	Cols   int
	Rows   int
	Canvas Canvas
}

// NewGrid returns a grid over the default canvas sized to fit within cols x
// rows while keeping the ring round.
func NewGrid(cols, rows int) Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	// Shrink whichever side is too large for a 8:3 cell ratio.
	if want := cols * 3 / 8; want < rows && want > 0 {
		rows = want
	} else if want := rows * 8 / 3; want < cols {
		cols = want
	}
	return Grid{Cols: cols, Rows: rows, Canvas: Default}
}

func (g Grid) scale() (sx, sy float64) {
	return float64(g.Cols) / g.Canvas.Width, float64(g.Rows) / g.Canvas.Height
}

// Project returns the cell containing canvas point p, clamped to the grid.
func (g Grid) Project(p r2.Vec) (col, row int) {
	sx, sy := g.scale()
	col = clamp(int(math.Floor(p.X*sx)), 0, g.Cols-1)
	row = clamp(int(math.Floor(p.Y*sy)), 0, g.Rows-1)
	return col, row
}

// Unproject returns the canvas point at the center of a cell.
func (g Grid) Unproject(col, row int) r2.Vec {
	sx, sy := g.scale()
	return r2.Vec{
		X: (float64(col) + 0.5) / sx,
		Y: (float64(row) + 0.5) / sy,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
