package export

import (
	"fmt"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/compose"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"

	"github.com/goccy/go-json"
)

// InteractiveOptions configures HTML mind map generation.
type InteractiveOptions struct {
	Dataset     *model.Dataset
	State       selection.State // Initial selection baked into the page
	Title       string
	Path        string // Output path - if empty, auto-generates based on project
	ProjectName string // Project name for auto-naming
}

// pagePayload is the JSON blob the page script renders from.
type pagePayload struct {
	Title       string            `json:"title"`
	CenterLabel []string          `json:"center_label"`
	Source      model.Source      `json:"source"`
	Canvas      layout.Canvas     `json:"canvas"`
	Emphasis    pageEmphasis      `json:"emphasis"`
	Headings    map[string]string `json:"headings"`
	Principles  []pagePrinciple   `json:"principles"`
	Initial     selection.State   `json:"initial"`
}

type pagePrinciple struct {
	model.Principle
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Label []string `json:"label"`
}

type pageEmphasis struct {
	CenterRadius      float64 `json:"center_radius"`
	NodeRadius        float64 `json:"node_radius"`
	SelectedRadius    float64 `json:"selected_radius"`
	NodeOpacity       float64 `json:"node_opacity"`
	FontSize          float64 `json:"font_size"`
	SelectedFontSize  float64 `json:"selected_font_size"`
	LineColor         string  `json:"line_color"`
	LineWidth         float64 `json:"line_width"`
	SelectedLineWidth float64 `json:"selected_line_width"`
	LineDash          string  `json:"line_dash"`
}

// GenerateFilename creates an auto-generated filename
// Format: {project}_{YYYYMMDD}_{HHMMSS}_{gitshort}.html
func GenerateFilename(projectName string) string {
	now := time.Now()
	dateStr := now.Format("20060102_150405")

	gitShort := "nogit"
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	if output, err := cmd.Output(); err == nil {
		gitShort = strings.TrimSpace(string(output))
	}

	safeName := strings.ReplaceAll(projectName, " ", "_")
	safeName = strings.ReplaceAll(safeName, "/", "_")

	return fmt.Sprintf("%s_%s_%s.html", safeName, dateStr, gitShort)
}

// RenderInteractiveHTML returns a self-contained page for ds.
func RenderInteractiveHTML(ds *model.Dataset, state selection.State, title string) (string, error) {
	if ds.Len() == 0 {
		return "", fmt.Errorf("no principles to export")
	}
	if title == "" {
		title = ds.Title
	}

	canvas := layout.Default
	principles := make([]pagePrinciple, len(ds.Principles))
	for i, p := range ds.Principles {
		pos := canvas.Position(i, len(ds.Principles))
		principles[i] = pagePrinciple{
			Principle: p,
			X:         pos.X,
			Y:         pos.Y,
			Label:     layout.Label(p.ID, p.Name),
		}
	}

	// An initial selection that does not resolve starts the page idle.
	if _, ok := ds.Find(state.SelectedID); !ok {
		state = selection.New()
	}

	payload := pagePayload{
		Title:       title,
		CenterLabel: ds.CenterLabel,
		Source:      ds.Source,
		Canvas:      canvas,
		Emphasis: pageEmphasis{
			CenterRadius:      layout.CenterNodeRadius,
			NodeRadius:        layout.NodeRadius,
			SelectedRadius:    layout.SelectedNodeRadius,
			NodeOpacity:       layout.NodeOpacity,
			FontSize:          layout.FontSize,
			SelectedFontSize:  layout.SelectedFontSize,
			LineColor:         layout.LineColor,
			LineWidth:         layout.LineWidth,
			SelectedLineWidth: layout.SelectedLineWidth,
			LineDash:          layout.LineDash,
		},
		Headings: map[string]string{
			"prompt_title":    compose.PromptTitle,
			"quick_title":     compose.QuickTitle,
			"needs":           compose.NeedsHeading,
			"recommendations": compose.RecommendationsHeading,
			"examples":        compose.ExamplesHeading,
			"quote":           compose.QuoteHeading,
		},
		Principles: principles,
		Initial:    state,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal page data: %w", err)
	}

	r := strings.NewReplacer(
		"{{TITLE}}", html.EscapeString(title),
		"{{DATA}}", string(data),
		"{{GENERATED}}", time.Now().Format("2006-01-02 15:04:05"),
	)
	return r.Replace(pageTemplate), nil
}

// GenerateInteractiveHTML writes the page and returns the path written.
func GenerateInteractiveHTML(opts InteractiveOptions) (string, error) {
	page, err := RenderInteractiveHTML(opts.Dataset, opts.State, opts.Title)
	if err != nil {
		return "", err
	}

	outputPath := opts.Path
	if outputPath == "" {
		projectName := opts.ProjectName
		if projectName == "" {
			projectName = "mindmap"
		}
		outputPath = GenerateFilename(projectName)
	}

	// Ensure .html extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".html") {
		outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".html"
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create dir: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, []byte(page), 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{TITLE}} | mm</title>
    <style>
        :root { --bg: #0f172a; --panel: #1e293b; --text: #f8fafc; --muted: #94a3b8; --line: #334155; }
        * { box-sizing: border-box; }
        body { margin: 0; background: linear-gradient(135deg, #0f172a, #1e293b); color: var(--text); font-family: system-ui, sans-serif; min-height: 100vh; padding: 1.5rem; }
        h1 { text-align: center; font-size: 1.8rem; margin: 0 0 0.25rem; }
        .sub { text-align: center; color: var(--muted); margin: 0 0 1.5rem; font-size: 0.9rem; }
        .layout { display: flex; flex-wrap: wrap; gap: 1.5rem; max-width: 1400px; margin: 0 auto; }
        .map { flex: 1 1 560px; background: rgba(30,41,59,0.5); border-radius: 1rem; padding: 1rem; }
        .map svg { width: 100%; height: auto; }
        .node { cursor: pointer; transition: opacity 0.2s; }
        .node:hover circle { opacity: 1 !important; }
        .panel { flex: 0 1 420px; background: var(--panel); border-radius: 1rem; padding: 1.5rem; max-height: 80vh; overflow-y: auto; }
        .panel h2 { margin: 0 0 0.5rem; }
        .desc { color: var(--muted); font-size: 0.9rem; }
        .tabs { display: flex; gap: 0.5rem; margin: 1rem 0; }
        .tabs button { flex: 1; padding: 0.5rem; border: none; border-radius: 0.5rem; background: #334155; color: var(--muted); cursor: pointer; font-weight: 600; }
        .tabs button.active { color: #fff; }
        .heading { text-transform: uppercase; font-size: 0.75rem; letter-spacing: 0.05em; color: var(--muted); margin: 0.75rem 0; }
        .need { display: flex; gap: 0.5rem; padding: 0.4rem 0; }
        .need .mark { color: #4ade80; }
        .rec { padding: 0.75rem; border-left: 4px solid; background: rgba(51,65,85,0.5); border-radius: 0.25rem; margin-bottom: 0.5rem; }
        .pair { margin-bottom: 0.75rem; }
        .weak { padding: 0.5rem; background: rgba(127,29,29,0.3); border-left: 3px solid #f87171; }
        .strong { padding: 0.5rem; background: rgba(20,83,45,0.3); border-left: 3px solid #4ade80; }
        .quote { padding: 1rem; background: rgba(30,58,138,0.3); border-radius: 0.5rem; font-style: italic; }
        .quick { display: grid; grid-template-columns: 1fr 1fr; gap: 0.5rem; margin-top: 1rem; }
        .quick button { text-align: left; display: flex; gap: 0.5rem; align-items: center; padding: 0.5rem; border: none; border-radius: 0.5rem; background: #334155; color: var(--text); cursor: pointer; font-size: 0.8rem; }
        .badge { width: 1.5rem; height: 1.5rem; border-radius: 50%; display: inline-flex; align-items: center; justify-content: center; font-size: 0.7rem; font-weight: 700; flex: none; }
        footer { text-align: center; color: var(--muted); font-size: 0.75rem; margin-top: 1.5rem; }
    </style>
</head>
<body>
<h1 id="title"></h1>
<p class="sub">Click a node to explore it. Click it again to close. Generated {{GENERATED}}</p>
<div class="layout">
    <div class="map"><svg id="map" xmlns="http://www.w3.org/2000/svg"></svg></div>
    <div class="panel" id="panel"></div>
</div>
<footer id="source"></footer>
<script>
const DATA = {{DATA}};
const TABS = ['needs', 'recommendations', 'examples'];
const TAB_TITLES = { needs: 'Needs', recommendations: 'Recommendations', examples: 'Examples' };
let state = { selected: DATA.initial.selected_id || 0, tab: DATA.initial.tab || 'needs' };

const NS = 'http://www.w3.org/2000/svg';
function el(tag, attrs, text) {
    const e = document.createElementNS(NS, tag);
    for (const k in attrs) e.setAttribute(k, attrs[k]);
    if (text !== undefined) e.textContent = text;
    return e;
}
function h(tag, cls, text) {
    const e = document.createElement(tag);
    if (cls) e.className = cls;
    if (text !== undefined) e.textContent = text;
    return e;
}
function find(id) { return DATA.principles.find(p => p.id === id); }

function clickNode(id) {
    if (state.selected === id) { state.selected = 0; } else { state.selected = id; state.tab = 'needs'; }
    render();
}
function clickQuick(id) {
    if (state.selected !== id) { state.selected = id; state.tab = 'needs'; }
    render();
}
function clickTab(tab) { state.tab = tab; render(); }

function renderMap() {
    const c = DATA.canvas, e = DATA.emphasis;
    const svg = document.getElementById('map');
    svg.innerHTML = '';
    svg.setAttribute('viewBox', '0 0 ' + c.width + ' ' + c.height);
    const defs = el('defs', {});
    const grad = el('radialGradient', { id: 'centerGradient' });
    grad.appendChild(el('stop', { offset: '0%', 'stop-color': '#3b82f6' }));
    grad.appendChild(el('stop', { offset: '100%', 'stop-color': '#1e40af' }));
    defs.appendChild(grad);
    svg.appendChild(defs);

    DATA.principles.forEach(p => {
        const sel = state.selected === p.id;
        const line = el('line', {
            x1: c.center.X, y1: c.center.Y, x2: p.x, y2: p.y,
            stroke: sel ? p.color : e.line_color,
            'stroke-width': sel ? e.selected_line_width : e.line_width,
        });
        if (!sel) line.setAttribute('stroke-dasharray', e.line_dash);
        svg.appendChild(line);
    });

    svg.appendChild(el('circle', { cx: c.center.X, cy: c.center.Y, r: e.center_radius, fill: 'url(#centerGradient)', stroke: '#60a5fa', 'stroke-width': 3 }));
    DATA.center_label.forEach((l, i) => {
        const y = DATA.center_label.length === 1 ? c.center.Y + 5 : c.center.Y - 10 + 20 * i;
        svg.appendChild(el('text', { x: c.center.X, y: y, 'text-anchor': 'middle', fill: 'white', 'font-size': 14, 'font-weight': 'bold' }, l));
    });

    DATA.principles.forEach(p => {
        const sel = state.selected === p.id;
        const g = el('g', { class: 'node' });
        const circle = el('circle', { cx: p.x, cy: p.y, r: sel ? e.selected_radius : e.node_radius, fill: p.color, opacity: sel ? 1 : e.node_opacity });
        if (sel) { circle.setAttribute('stroke', 'white'); circle.setAttribute('stroke-width', 3); }
        g.appendChild(circle);
        p.label.forEach((l, i) => {
            const y = p.label.length === 1 ? p.y + 4 : p.y - 8 + 16 * i;
            g.appendChild(el('text', { x: p.x, y: y, 'text-anchor': 'middle', fill: 'white', 'font-size': sel ? e.selected_font_size : e.font_size, 'font-weight': 'bold', 'pointer-events': 'none' }, l));
        });
        g.addEventListener('click', () => clickNode(p.id));
        svg.appendChild(g);
    });
}

function renderPanel() {
    const panel = document.getElementById('panel');
    panel.innerHTML = '';
    const p = find(state.selected);
    if (!p || TABS.indexOf(state.tab) < 0) {
        panel.appendChild(h('h2', '', DATA.headings.prompt_title));
        panel.appendChild(h('p', 'desc', 'Click on any of the ' + DATA.principles.length + ' principles in the mind map to explore its details, user needs, and recommendations.'));
        panel.appendChild(h('div', 'heading', DATA.headings.quick_title));
        const quick = h('div', 'quick');
        DATA.principles.forEach(q => {
            const b = h('button');
            const badge = h('span', 'badge', String(q.id));
            badge.style.background = q.color;
            b.appendChild(badge);
            b.appendChild(h('span', '', q.name));
            b.addEventListener('click', () => clickQuick(q.id));
            quick.appendChild(b);
        });
        panel.appendChild(quick);
        return;
    }

    const head = h('h2', '', p.id + '. ' + p.name);
    head.style.color = p.color;
    panel.appendChild(head);
    panel.appendChild(h('p', 'desc', p.description));

    const tabs = h('div', 'tabs');
    TABS.forEach(t => {
        const b = h('button', t === state.tab ? 'active' : '', TAB_TITLES[t]);
        if (t === state.tab) b.style.background = p.color;
        b.addEventListener('click', () => clickTab(t));
        tabs.appendChild(b);
    });
    panel.appendChild(tabs);

    if (state.tab === 'needs') {
        panel.appendChild(h('div', 'heading', DATA.headings.needs));
        p.needs.forEach(n => {
            const row = h('div', 'need');
            row.appendChild(h('span', 'mark', '✓'));
            row.appendChild(h('span', '', n));
            panel.appendChild(row);
        });
    } else if (state.tab === 'recommendations') {
        panel.appendChild(h('div', 'heading', DATA.headings.recommendations));
        p.recommendations.forEach(r => {
            const block = h('div', 'rec', r);
            block.style.borderColor = p.color;
            panel.appendChild(block);
        });
    } else {
        panel.appendChild(h('div', 'heading', DATA.headings.examples));
        (p.examples.pairs || []).forEach(pair => {
            const block = h('div', 'pair');
            block.appendChild(h('div', 'weak', '− ' + pair.weakness));
            block.appendChild(h('div', 'strong', '+ ' + pair.strength));
            panel.appendChild(block);
        });
        panel.appendChild(h('div', 'heading', DATA.headings.quote));
        panel.appendChild(h('div', 'quote', '"' + p.examples.userQuote + '"'));
    }
}

function render() { renderMap(); renderPanel(); }

document.getElementById('title').textContent = DATA.title;
const src = DATA.source || {};
document.getElementById('source').textContent = [src.citation, src.doi ? 'DOI: ' + src.doi : '', src.report_id].filter(Boolean).join(' | ');
render();
</script>
</body>
</html>
`
