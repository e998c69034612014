package ui

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// chipRect is the on-screen box of a node label in map-local cells.
type chipRect struct {
	ID         int
	X0, Y0     int
	X1, Y1     int // exclusive
	Index      int
	IsSelected bool
}

func (c chipRect) contains(x, y int) bool {
	return x >= c.X0 && x < c.X1 && y >= c.Y0 && y < c.Y1
}

// mapView is one rendered frame of the mind map.
type mapView struct {
	Grid  layout.Grid
	Nodes []layout.Node
	Chips []chipRect
	Lines []string
}

// hit resolves a map-local cell to a principle id. Label chips win; a click
// elsewhere falls back to the node circles in canvas space.
func (v mapView) hit(col, row int) (int, bool) {
	for _, c := range v.Chips {
		if c.contains(col, row) {
			return c.ID, true
		}
	}
	if col < 0 || row < 0 || col >= v.Grid.Cols || row >= v.Grid.Rows {
		return 0, false
	}
	return v.Grid.Canvas.HitTest(v.Grid.Unproject(col, row), v.Nodes)
}

type cell struct {
	r     rune
	style string
}

// cellCanvas is a character raster with a style key per cell.
type cellCanvas struct {
	cols, rows int
	cells      [][]cell
	styles     map[string]lipgloss.Style
}

func newCellCanvas(cols, rows int) *cellCanvas {
	c := &cellCanvas{cols: cols, rows: rows, styles: map[string]lipgloss.Style{}}
	c.cells = make([][]cell, rows)
	for y := range c.cells {
		c.cells[y] = make([]cell, cols)
		for x := range c.cells[y] {
			c.cells[y][x] = cell{r: ' '}
		}
	}
	return c
}

func (c *cellCanvas) set(x, y int, r rune, style string) {
	if x < 0 || y < 0 || x >= c.cols || y >= c.rows {
		return
	}
	c.cells[y][x] = cell{r: r, style: style}
}

func (c *cellCanvas) text(x, y int, s, style string) {
	for _, r := range s {
		c.set(x, y, r, style)
		x++
	}
}

// render joins runs of equally styled cells.
func (c *cellCanvas) render() []string {
	lines := make([]string, c.rows)
	for y, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		cur := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if st, ok := c.styles[cur]; ok && cur != "" {
				b.WriteString(st.Render(run.String()))
			} else {
				b.WriteString(run.String())
			}
			run.Reset()
		}
		for _, cl := range row {
			if cl.style != cur {
				flush()
				cur = cl.style
			}
			run.WriteRune(cl.r)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

// line draws a Bresenham segment. dashed leaves every other cell blank.
func (c *cellCanvas) line(x0, y0, x1, y1 int, r rune, style string, dashed bool) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	step := 0
	for {
		if !dashed || step%2 == 0 {
			c.set(x0, y0, r, style)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
		step++
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// renderMindMap draws the ring for ds on a grid of at most cols x rows cells.
// cursor is the ring index under keyboard focus, -1 for none.
func renderMindMap(ds *model.Dataset, selectedID, cursor, cols, rows int, theme Theme) mapView {
	grid := layout.NewGrid(cols, rows)
	v := mapView{Grid: grid}
	if grid.Cols <= 0 || grid.Rows <= 0 || ds.Len() == 0 {
		return v
	}

	r := theme.Renderer
	cv := newCellCanvas(grid.Cols, grid.Rows)
	cv.styles["line"] = r.NewStyle().Foreground(theme.Line)
	// Cells are already padded to the label width.
	cv.styles["center"] = theme.Header.UnsetPadding()

	v.Nodes = grid.Canvas.Nodes(ds.Principles, selectedID)
	cx, cy := grid.Project(grid.Canvas.Center)

	// connection lines
	for _, n := range v.Nodes {
		nx, ny := grid.Project(n.Center)
		if n.Selected {
			key := "line-sel"
			cv.styles[key] = r.NewStyle().Foreground(PrincipleColor(n.Line.Color)).Bold(true)
			cv.line(cx, cy, nx, ny, '•', key, false)
		} else {
			cv.line(cx, cy, nx, ny, '·', "line", true)
		}
	}

	// center node
	center := append([]string(nil), ds.CenterLabel...)
	if len(center) == 0 {
		center = []string{ds.Title}
	}
	maxChip := max(6, grid.Cols/5)
	cw := 0
	for i := range center {
		center[i] = runewidth.Truncate(center[i], maxChip+4, "…")
		cw = max(cw, runewidth.StringWidth(center[i]))
	}
	top := cy - (len(center)-1)/2
	for i, l := range center {
		padded := padCenter(l, cw+2)
		cv.text(cx-(cw+2)/2, top+i, padded, "center")
	}

	// principle chips
	for i, n := range v.Nodes {
		nx, ny := grid.Project(n.Center)
		label := make([]string, len(n.Label))
		w := 0
		for j, l := range n.Label {
			label[j] = runewidth.Truncate(l, maxChip, "…")
			w = max(w, runewidth.StringWidth(label[j]))
		}
		w += 2 // side padding

		x0 := clampInt(nx-w/2, 0, grid.Cols-w)
		y0 := clampInt(ny-(len(label)-1)/2, 0, grid.Rows-len(label))

		key := "chip-" + strconv.Itoa(n.ID)
		style := r.NewStyle().Foreground(PrincipleColor(n.Color))
		if n.Selected {
			style = r.NewStyle().
				Background(lipgloss.Color(n.Color)).
				Foreground(lipgloss.Color(layout.SelectedStroke)).
				Bold(true)
		}
		if i == cursor {
			style = style.Underline(true).Bold(true)
		}
		cv.styles[key] = style

		for j, l := range label {
			cv.text(x0, y0+j, padCenter(l, w), key)
		}
		v.Chips = append(v.Chips, chipRect{
			ID: n.ID, Index: i,
			X0: x0, Y0: y0, X1: x0 + w, Y1: y0 + len(label),
			IsSelected: n.Selected,
		})
	}

	v.Lines = cv.render()
	return v
}

func padCenter(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
