package layout

import (
	"math"
	"testing"

	"github.com/vanderheijden86/mindmap/pkg/model"

	"gonum.org/v1/gonum/spatial/r2"
	"pgregory.net/rapid"
)

const eps = 1e-9

func TestPosition_OnRingForAnyTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(1, 5000).Draw(t, "total")
		index := rapid.IntRange(0, total-1).Draw(t, "index")

		p := Position(index, total)
		d := r2.Norm(r2.Sub(p, Default.Center))
		if math.Abs(d-Default.Radius) > 1e-6 {
			t.Fatalf("Position(%d, %d) = %v is %.9f from center, want %.1f", index, total, p, d, Default.Radius)
		}
	})
}

func TestPosition_ArbitraryCanvas(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := Canvas{
			Center: r2.Vec{
				X: rapid.Float64Range(-1000, 1000).Draw(t, "cx"),
				Y: rapid.Float64Range(-1000, 1000).Draw(t, "cy"),
			},
			Radius: rapid.Float64Range(0.5, 2000).Draw(t, "r"),
		}
		total := rapid.IntRange(1, 64).Draw(t, "total")
		index := rapid.IntRange(0, total-1).Draw(t, "index")

		d := r2.Norm(r2.Sub(c.Position(index, total), c.Center))
		if math.Abs(d-c.Radius) > 1e-6*c.Radius {
			t.Fatalf("distance %.9f, want %.9f", d, c.Radius)
		}
	})
}

func TestPosition_FirstOfTenIsStraightUp(t *testing.T) {
	p := Position(0, 10)
	if math.Abs(p.X-400) > eps {
		t.Errorf("x = %v, want 400", p.X)
	}
	if math.Abs(p.Y-(300-220)) > eps {
		t.Errorf("y = %v, want 80", p.Y)
	}
}

func TestPosition_Clockwise(t *testing.T) {
	// A quarter turn from the top lands on the right of center.
	p := Position(1, 4)
	if math.Abs(p.X-620) > eps || math.Abs(p.Y-300) > eps {
		t.Errorf("Position(1, 4) = %v, want (620, 300)", p)
	}
	p = Position(2, 4)
	if math.Abs(p.X-400) > eps || math.Abs(p.Y-520) > eps {
		t.Errorf("Position(2, 4) = %v, want (400, 520)", p)
	}
}

func TestPosition_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if Position(i, 10) != Position(i, 10) {
			t.Fatalf("Position(%d, 10) not deterministic", i)
		}
	}
}

func samplePrinciples() []model.Principle {
	return []model.Principle{
		{ID: 1, Name: "Interoperability", Color: "#E74C3C"},
		{ID: 2, Name: "Customer Support", Color: "#1ABC9C"},
		{ID: 3, Name: "Price Transparency", Color: "#C0392B"},
	}
}

func TestNodes_Emphasis(t *testing.T) {
	nodes := Default.Nodes(samplePrinciples(), 2)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	for _, n := range nodes {
		if n.Selected != (n.ID == 2) {
			t.Errorf("node %d selected = %v", n.ID, n.Selected)
		}
		if n.Line.From != Default.Center || n.Line.To != n.Center {
			t.Errorf("node %d line does not connect center to node", n.ID)
		}
		if n.Selected {
			if n.Radius != SelectedNodeRadius || n.Opacity != 1 || n.Stroke == "" {
				t.Errorf("selected node emphasis wrong: %+v", n)
			}
			if n.Line.Dash != "" || n.Line.Color != "#1ABC9C" || n.Line.Width != SelectedLineWidth {
				t.Errorf("selected line should be solid and colored: %+v", n.Line)
			}
		} else {
			if n.Radius != NodeRadius || n.Opacity != NodeOpacity || n.Stroke != "" {
				t.Errorf("unselected node emphasis wrong: %+v", n)
			}
			if n.Line.Dash != LineDash || n.Line.Color != LineColor {
				t.Errorf("unselected line should be dashed gray: %+v", n.Line)
			}
		}
	}
}

func TestNodes_NoSelection(t *testing.T) {
	for _, n := range Default.Nodes(samplePrinciples(), 0) {
		if n.Selected {
			t.Errorf("node %d should not be selected", n.ID)
		}
	}
	for _, n := range Default.Nodes(samplePrinciples(), 42) {
		if n.Selected {
			t.Errorf("unknown id should emphasize nothing, node %d selected", n.ID)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		id   int
		name string
		want []string
	}{
		{1, "Interoperability", []string{"1. Interoperability"}},
		{6, "Customer Support", []string{"6. Customer", "Support"}},
		{11, "A Very Long Name", []string{"11. A", "Very Long Name"}},
		{3, "  ", []string{"3."}},
	}
	for _, tt := range tests {
		got := Label(tt.id, tt.name)
		if len(got) != len(tt.want) {
			t.Errorf("Label(%d, %q) = %q, want %q", tt.id, tt.name, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Label(%d, %q)[%d] = %q, want %q", tt.id, tt.name, i, got[i], tt.want[i])
			}
		}
	}
}

func TestHitTest(t *testing.T) {
	nodes := Default.Nodes(samplePrinciples(), 0)
	for _, n := range nodes {
		id, ok := Default.HitTest(n.Center, nodes)
		if !ok || id != n.ID {
			t.Errorf("HitTest at center of %d = %d, %v", n.ID, id, ok)
		}
		edge := r2.Add(n.Center, r2.Vec{X: n.Radius - 1})
		if id, ok := Default.HitTest(edge, nodes); !ok || id != n.ID {
			t.Errorf("HitTest near edge of %d = %d, %v", n.ID, id, ok)
		}
	}
	if _, ok := Default.HitTest(Default.Center, nodes); ok {
		t.Error("canvas center should not hit a ring node")
	}
	if !Default.InCenter(Default.Center) {
		t.Error("canvas center should be inside the center node")
	}
}

func TestGrid_ProjectUnprojectRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := NewGrid(rapid.IntRange(8, 300).Draw(t, "cols"), rapid.IntRange(3, 120).Draw(t, "rows"))
		col := rapid.IntRange(0, g.Cols-1).Draw(t, "col")
		row := rapid.IntRange(0, g.Rows-1).Draw(t, "row")
		c, r := g.Project(g.Unproject(col, row))
		if c != col || r != row {
			t.Fatalf("round trip (%d,%d) -> (%d,%d) on %dx%d", col, row, c, r, g.Cols, g.Rows)
		}
	})
}

func TestGrid_ClampsOutside(t *testing.T) {
	g := NewGrid(80, 30)
	c, r := g.Project(r2.Vec{X: -50, Y: 5000})
	if c != 0 || r != g.Rows-1 {
		t.Errorf("Project outside = (%d,%d)", c, r)
	}
}

func TestNewGrid_KeepsAspect(t *testing.T) {
	tests := []struct {
		cols, rows         int
		wantCols, wantRows int
	}{
		{80, 40, 80, 30},
		{80, 20, 53, 20},
		{64, 24, 64, 24},
	}
	for _, tt := range tests {
		g := NewGrid(tt.cols, tt.rows)
		if g.Cols != tt.wantCols || g.Rows != tt.wantRows {
			t.Errorf("NewGrid(%d, %d) = %dx%d, want %dx%d", tt.cols, tt.rows, g.Cols, g.Rows, tt.wantCols, tt.wantRows)
		}
	}
}
