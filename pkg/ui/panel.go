package ui

import (
	"strconv"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/compose"
	"github.com/vanderheijden86/mindmap/pkg/model"

	"github.com/charmbracelet/lipgloss"
)

type zoneKind int

const (
	zoneTab zoneKind = iota
	zoneQuick
)

// zone is a clickable span of the panel content, in content lines (before
// viewport scrolling) and panel-local columns.
type zone struct {
	Kind   zoneKind
	Line   int
	X0, X1 int // exclusive
	ID     int
	Tab    model.Tab
}

// panelView is the rendered panel content plus its click zones.
type panelView struct {
	Content string
	Zones   []zone
}

// panelBuilder accumulates lines and keeps track of the current line index.
type panelBuilder struct {
	lines []string
	zones []zone
}

func (b *panelBuilder) add(block string) {
	b.lines = append(b.lines, strings.Split(block, "\n")...)
}

func (b *panelBuilder) blank() {
	b.lines = append(b.lines, "")
}

func (b *panelBuilder) line() int {
	return len(b.lines)
}

// renderPanel turns a view model into styled panel content of the given width.
func renderPanel(vm compose.ViewModel, theme Theme, width int) panelView {
	if width < 10 {
		width = 10
	}
	b := &panelBuilder{}
	r := theme.Renderer
	wrap := r.NewStyle().Width(width)

	if vm.Kind != compose.KindDetail || vm.Header == nil {
		if vm.Prompt == nil {
			return panelView{}
		}
		renderPrompt(b, vm.Prompt, theme, width)
		return panelView{Content: strings.Join(b.lines, "\n"), Zones: b.zones}
	}

	accent := PrincipleColor(vm.Header.Color)
	h := vm.Header
	b.add(r.NewStyle().Foreground(accent).Bold(true).Width(width).
		Render(strconv.Itoa(h.ID) + ". " + h.Name))
	if h.Description != "" {
		b.add(wrap.Foreground(theme.Secondary).Render(h.Description))
	}
	b.blank()

	// tab strip
	x := 0
	var tabs []string
	for _, t := range vm.Tabs {
		style := r.NewStyle().Padding(0, 1).Foreground(theme.Secondary).Background(theme.Highlight)
		if t.Active {
			style = r.NewStyle().Padding(0, 1).Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(lipgloss.Color(h.Color))
		}
		rendered := style.Render(t.Label)
		w := lipgloss.Width(rendered)
		b.zones = append(b.zones, zone{Kind: zoneTab, Line: b.line(), X0: x, X1: x + w, Tab: t.Tab})
		tabs = append(tabs, rendered)
		x += w + 1
	}
	b.add(strings.Join(tabs, " "))
	b.blank()

	b.add(r.NewStyle().Foreground(theme.Muted).Bold(true).Render(strings.ToUpper(vm.Heading)))
	b.blank()

	body := width - 2
	for _, item := range vm.Needs {
		mark := r.NewStyle().Foreground(theme.Check).Render(item.Marker)
		text := r.NewStyle().Width(body).Foreground(theme.Subtext).Render(item.Text)
		b.add(lipgloss.JoinHorizontal(lipgloss.Top, mark+" ", text))
	}
	for _, blk := range vm.Recommendations {
		b.add(r.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(PrincipleColor(blk.Color)).
			PaddingLeft(1).
			Width(body).
			Foreground(theme.Subtext).
			Render(blk.Text))
		b.blank()
	}
	for _, pair := range vm.Pairs {
		b.add(r.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.Weakness).
			PaddingLeft(1).Width(body).
			Render(r.NewStyle().Foreground(theme.Weakness).Bold(true).Render(compose.WeaknessMarker) + " " + pair.Weakness))
		b.add(r.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.Strength).
			PaddingLeft(1).Width(body).
			Render(r.NewStyle().Foreground(theme.Strength).Bold(true).Render(compose.StrengthMarker) + " " + pair.Strength))
		b.blank()
	}
	if vm.Quote != nil {
		b.add(r.NewStyle().Foreground(theme.Quote).Bold(true).Render(strings.ToUpper(vm.Quote.Heading)))
		b.add(r.NewStyle().Italic(true).Width(body).Foreground(theme.Quote).Render("\"" + vm.Quote.Text + "\""))
	}

	return panelView{Content: strings.Join(b.lines, "\n"), Zones: b.zones}
}

func renderPrompt(b *panelBuilder, p *compose.Prompt, theme Theme, width int) {
	r := theme.Renderer
	b.add(r.NewStyle().Bold(true).Foreground(theme.Primary).Render(p.Title))
	b.blank()
	b.add(r.NewStyle().Width(width).Foreground(theme.Secondary).Render(p.Text))
	b.blank()
	b.add(r.NewStyle().Foreground(theme.Muted).Bold(true).Render(compose.QuickTitle))

	cols := 2
	if width < 36 {
		cols = 1
	}
	colW := width / cols
	for i := 0; i < len(p.Quick); i += cols {
		var cells []string
		for c := 0; c < cols && i+c < len(p.Quick); c++ {
			q := p.Quick[i+c]
			badge := theme.PrincipleBadge(q.ID, q.Color)
			nameW := colW - lipgloss.Width(badge) - 2
			name := truncate(q.Name, nameW)
			cell := r.NewStyle().Width(colW).Render(badge + " " + name)
			b.zones = append(b.zones, zone{Kind: zoneQuick, Line: b.line(), X0: c * colW, X1: (c + 1) * colW, ID: q.ID})
			cells = append(cells, cell)
		}
		b.add(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
}

// zoneAt returns the zone under a content line and panel column.
func (p panelView) zoneAt(line, col int) (zone, bool) {
	for _, z := range p.Zones {
		if z.Line == line && col >= z.X0 && col < z.X1 {
			return z, true
		}
	}
	return zone{}, false
}
