package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/mindmap/pkg/compose"
	"github.com/vanderheijden86/mindmap/pkg/dataset"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"
)

func testTheme() Theme {
	return DefaultTheme(lipgloss.DefaultRenderer())
}

func TestQuickIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 0, true},
		{"9", 8, true},
		{"0", 9, true},
		{"a", 0, false},
		{"10", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := quickIndex(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("quickIndex(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRenderMindMap_ChipsAndHits(t *testing.T) {
	ds := dataset.Default()
	v := renderMindMap(ds, 3, 0, 80, 30, testTheme())

	if len(v.Chips) != ds.Len() {
		t.Fatalf("chips = %d, want %d", len(v.Chips), ds.Len())
	}
	if len(v.Lines) != v.Grid.Rows {
		t.Errorf("lines = %d, want %d", len(v.Lines), v.Grid.Rows)
	}
	for _, line := range v.Lines {
		if w := lipgloss.Width(line); w != v.Grid.Cols {
			t.Fatalf("line width = %d, want %d", w, v.Grid.Cols)
		}
	}

	selected := 0
	for _, c := range v.Chips {
		if c.IsSelected {
			selected++
			if c.ID != 3 {
				t.Errorf("selected chip id = %d", c.ID)
			}
		}
		if c.X0 < 0 || c.X1 > v.Grid.Cols || c.Y0 < 0 || c.Y1 > v.Grid.Rows {
			t.Errorf("chip %d out of grid: %+v", c.ID, c)
		}
	}
	if selected != 1 {
		t.Errorf("selected chips = %d, want 1", selected)
	}

	first := v.Chips[0]
	if id, ok := v.hit(first.X0, first.Y0); !ok || id != first.ID {
		t.Errorf("hit on first chip = %d, %v", id, ok)
	}
	if _, ok := v.hit(-1, 0); ok {
		t.Error("hit outside the grid should miss")
	}
}

func TestRenderMindMap_RowsMatchGridWidth(t *testing.T) {
	ds := dataset.Default()
	tests := []struct {
		cols, rows int
		selected   int
	}{
		{80, 30, 0},
		{80, 30, 3},
		{55, 40, 10},
		{120, 45, 1},
		{40, 12, 0},
	}
	for _, tt := range tests {
		v := renderMindMap(ds, tt.selected, -1, tt.cols, tt.rows, testTheme())
		for i, line := range v.Lines {
			if w := lipgloss.Width(line); w != v.Grid.Cols {
				t.Errorf("%dx%d selected=%d: row %d width = %d, want %d",
					tt.cols, tt.rows, tt.selected, i, w, v.Grid.Cols)
			}
		}

		// Wide grids show the first center label line untruncated on the
		// center row.
		if v.Grid.Cols >= 80 {
			_, cy := v.Grid.Project(v.Grid.Canvas.Center)
			if !strings.Contains(v.Lines[cy], ds.CenterLabel[0]) {
				t.Errorf("%dx%d: center row %q lacks %q", tt.cols, tt.rows, v.Lines[cy], ds.CenterLabel[0])
			}
		}
	}
}

func TestRenderMindMap_CenterLabelUntouched(t *testing.T) {
	ds := dataset.Default()
	before := append([]string(nil), ds.CenterLabel...)
	renderMindMap(ds, 0, -1, 40, 12, testTheme())
	for i := range before {
		if ds.CenterLabel[i] != before[i] {
			t.Fatalf("center label mutated: %q", ds.CenterLabel)
		}
	}
}

func TestRenderMindMap_Empty(t *testing.T) {
	v := renderMindMap(&model.Dataset{}, 0, -1, 80, 30, testTheme())
	if len(v.Chips) != 0 || len(v.Lines) != 0 {
		t.Errorf("empty dataset should render nothing, got %d chips", len(v.Chips))
	}
}

func TestCellCanvasDashedLine(t *testing.T) {
	c := newCellCanvas(10, 1)
	c.line(0, 0, 9, 0, '·', "", true)
	got := c.render()[0]
	if got != "· · · · · " {
		t.Errorf("dashed line = %q", got)
	}

	c = newCellCanvas(5, 1)
	c.line(0, 0, 4, 0, '•', "", false)
	if got := c.render()[0]; got != "•••••" {
		t.Errorf("solid line = %q", got)
	}
}

func TestRenderPanel_Prompt(t *testing.T) {
	ds := dataset.Default()
	p := renderPanel(compose.Compose(selection.New(), ds), testTheme(), 60)

	quick := 0
	for _, z := range p.Zones {
		if z.Kind == zoneQuick {
			quick++
		}
	}
	if quick != ds.Len() {
		t.Errorf("quick zones = %d, want %d", quick, ds.Len())
	}
	if !strings.Contains(p.Content, compose.PromptTitle) {
		t.Error("prompt title missing")
	}

	// Narrow panels fall back to one column.
	narrow := renderPanel(compose.Compose(selection.New(), ds), testTheme(), 30)
	lines := map[int]bool{}
	for _, z := range narrow.Zones {
		lines[z.Line] = true
	}
	if len(lines) != ds.Len() {
		t.Errorf("narrow quick list should use one line per entry, got %d lines", len(lines))
	}
}

func TestRenderPanel_DetailTabs(t *testing.T) {
	ds := dataset.Default()
	p := renderPanel(compose.Compose(selection.Focused(1, model.TabExamples), ds), testTheme(), 60)

	var tabs []zone
	for _, z := range p.Zones {
		if z.Kind == zoneTab {
			tabs = append(tabs, z)
		}
	}
	if len(tabs) != len(model.Tabs) {
		t.Fatalf("tab zones = %d", len(tabs))
	}
	for i, z := range tabs {
		if z.Tab != model.Tabs[i] {
			t.Errorf("tab zone %d = %s", i, z.Tab)
		}
		if got, ok := p.zoneAt(z.Line, z.X0); !ok || got.Tab != z.Tab {
			t.Errorf("zoneAt(%d, %d) = %+v, %v", z.Line, z.X0, got, ok)
		}
	}
	if !strings.Contains(p.Content, strings.ToUpper(compose.QuoteHeading)) {
		t.Error("examples tab should show the quote heading")
	}
	if _, ok := p.zoneAt(-1, 0); ok {
		t.Error("zoneAt off the content should miss")
	}
}

func TestRenderPanel_EmptyViewModel(t *testing.T) {
	if p := renderPanel(compose.ViewModel{}, testTheme(), 40); p.Content != "" || len(p.Zones) != 0 {
		t.Errorf("empty view model rendered %q", p.Content)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Access", 10, "Access"},
		{"Interoperability", 6, "Inter…"},
		{"Discovery", 0, ""},
		{"Discovery", 1, "…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestContextHelp(t *testing.T) {
	theme := testTheme()
	for ctx, heading := range map[Context]string{
		ContextMap:    "Mind Map",
		ContextDetail: "Principle Detail",
		ContextReader: "Markdown Reader",
		Context("x"):  "Quick Reference",
	} {
		out := RenderContextHelp(ctx, theme, 80, 40)
		if !strings.Contains(out, heading) {
			t.Errorf("%s help missing %q", ctx, heading)
		}
	}
	if out := RenderContextHelp(ContextDetail, theme, 80, 5); lipgloss.Height(out) > 5 {
		t.Errorf("help should clip to the height, got %d lines", lipgloss.Height(out))
	}
}

func TestPrincipleBadge(t *testing.T) {
	badge := testTheme().PrincipleBadge(10, "#8E44AD")
	if !strings.Contains(badge, "10") {
		t.Errorf("badge = %q", badge)
	}
}

func TestKeyMapHelp(t *testing.T) {
	k := DefaultKeyMap()
	if len(k.ShortHelp()) == 0 {
		t.Error("short help empty")
	}
	n := 0
	for _, col := range k.FullHelp() {
		n += len(col)
	}
	if n != 16 {
		t.Errorf("full help lists %d bindings, want 16", n)
	}
}
