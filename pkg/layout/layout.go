// Package layout places principles on the radial mind map.
//
// All coordinates live in canvas space (the 800x600 viewBox of the map).
// Grid projects canvas space onto terminal cells for the TUI.
package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/model"

	"gonum.org/v1/gonum/spatial/r2"
)

// Node and line emphasis constants.
const (
	CenterNodeRadius   = 70.0
	NodeRadius         = 45.0
	SelectedNodeRadius = 55.0

	NodeOpacity         = 0.85
	SelectedNodeOpacity = 1.0

	FontSize         = 10.0
	SelectedFontSize = 11.0

	LineColor         = "#475569"
	LineWidth         = 1.5
	SelectedLineWidth = 3.0
	LineDash          = "4,4"

	SelectedStroke = "#FFFFFF"
)

// Canvas describes the drawing area and the ring nodes sit on.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Center r2.Vec  `json:"center"`
	Radius float64 `json:"radius"`
}

// Default is the canvas every renderer uses unless told otherwise.
var Default = Canvas{
	Width:  800,
	Height: 600,
	Center: r2.Vec{X: 400, Y: 300},
	Radius: 220,
}

// Position places index out of total on the default canvas.
func Position(index, total int) r2.Vec {
	return Default.Position(index, total)
}

// Position returns the point for index on the ring. Index 0 sits at the top
// and the rest follow clockwise. total must be positive.
func (c Canvas) Position(index, total int) r2.Vec {
	angle := float64(index)*2*math.Pi/float64(total) - math.Pi/2
	return r2.Add(c.Center, r2.Scale(c.Radius, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}))
}

// Line is the connector drawn from the canvas center to a node.
type Line struct {
	From  r2.Vec  `json:"from"`
	To    r2.Vec  `json:"to"`
	Color string  `json:"color"`
	Width float64 `json:"width"`
	Dash  string  `json:"dash,omitempty"` // empty means solid
}

// Node is the fully resolved geometry and emphasis of one principle.
type Node struct {
	ID       int      `json:"id"`
	Index    int      `json:"index"`
	Name     string   `json:"name"`
	Color    string   `json:"color"`
	Center   r2.Vec   `json:"center"`
	Radius   float64  `json:"radius"`
	Opacity  float64  `json:"opacity"`
	Stroke   string   `json:"stroke,omitempty"`
	FontSize float64  `json:"font_size"`
	Label    []string `json:"label"`
	Selected bool     `json:"selected"`
	Line     Line     `json:"line"`
}

// Nodes resolves every principle into a Node. selectedID 0 means nothing is
// selected; an id that matches no principle emphasizes nothing.
func (c Canvas) Nodes(principles []model.Principle, selectedID int) []Node {
	nodes := make([]Node, len(principles))
	for i, p := range principles {
		pos := c.Position(i, len(principles))
		selected := selectedID != 0 && p.ID == selectedID

		n := Node{
			ID:       p.ID,
			Index:    i,
			Name:     p.Name,
			Color:    p.Color,
			Center:   pos,
			Radius:   NodeRadius,
			Opacity:  NodeOpacity,
			FontSize: FontSize,
			Label:    Label(p.ID, p.Name),
			Selected: selected,
			Line: Line{
				From:  c.Center,
				To:    pos,
				Color: LineColor,
				Width: LineWidth,
				Dash:  LineDash,
			},
		}
		if selected {
			n.Radius = SelectedNodeRadius
			n.Opacity = SelectedNodeOpacity
			n.Stroke = SelectedStroke
			n.FontSize = SelectedFontSize
			n.Line.Color = p.Color
			n.Line.Width = SelectedLineWidth
			n.Line.Dash = ""
		}
		nodes[i] = n
	}
	return nodes
}

// Label wraps a node caption: "<id>. <first word>" then the remaining words.
// One-word names produce a single line.
func Label(id int, name string) []string {
	words := strings.Fields(name)
	prefix := strconv.Itoa(id) + "."
	if len(words) == 0 {
		return []string{prefix}
	}
	lines := []string{prefix + " " + words[0]}
	if len(words) > 1 {
		lines = append(lines, strings.Join(words[1:], " "))
	}
	return lines
}

// HitTest returns the id of the node whose circle contains p. When circles
// overlap the node with the nearest center wins.
func (c Canvas) HitTest(p r2.Vec, nodes []Node) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, n := range nodes {
		d := r2.Norm(r2.Sub(p, n.Center))
		if d <= n.Radius && d < bestDist {
			best = i
			bestDist = d
		}
	}
	if best < 0 {
		return 0, false
	}
	return nodes[best].ID, true
}

// InCenter reports whether p falls inside the center node.
func (c Canvas) InCenter(p r2.Vec) bool {
	return r2.Norm(r2.Sub(p, c.Center)) <= CenterNodeRadius
}
