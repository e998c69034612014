package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/compose"
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"
)

// SnapshotOptions controls static map export.
type SnapshotOptions struct {
	Path    string          // Output path; format inferred from extension when Format empty
	Format  string          // "svg" or "png" (case-insensitive). If empty, inferred from Path.
	Title   string          // Optional title; defaults to the dataset title
	Dataset *model.Dataset  // Principles to render
	State   selection.State // Selection to emphasize; Idle renders the plain map
}

const (
	headerH  = 64.0
	footerH  = 36.0
	panelW   = 380.0
	panelPad = 16.0
	lineH    = 18.0

	// panelCols is the panel wrap width in 7px basicfont cells.
	panelCols = int(panelW-2*panelPad) / 7
)

var (
	colorBackdrop = color.RGBA{0x0F, 0x17, 0x2A, 0xFF}
	colorPanelBG  = color.RGBA{0x1E, 0x29, 0x3B, 0xFF}
	colorText     = color.RGBA{0xF8, 0xFA, 0xFC, 0xFF}
	colorSubtle   = color.RGBA{0x94, 0xA3, 0xB8, 0xFF}
	colorCenterA  = color.RGBA{0x3B, 0x82, 0xF6, 0xFF}
	colorCenterB  = color.RGBA{0x1E, 0x40, 0xAF, 0xFF}
	colorCenterSt = color.RGBA{0x60, 0xA5, 0xFA, 0xFF}
	colorWeakness = color.RGBA{0xF8, 0x71, 0x71, 0xFF}
	colorStrength = color.RGBA{0x4A, 0xDE, 0x80, 0xFF}
	colorQuote    = color.RGBA{0x60, 0xA5, 0xFA, 0xFF}
)

// snapshotLayout is the resolved drawing plan shared by both renderers.
type snapshotLayout struct {
	Width, Height int
	Title         string
	Footer        string
	Center        []string
	Canvas        layout.Canvas
	Nodes         []layout.Node
	Panel         []panelLine
}

// panelLine is one line of the detail panel text.
type panelLine struct {
	Text   string
	Color  color.RGBA
	Bold   bool
	Indent float64
}

// SaveSnapshot renders the map (and the detail panel for a focused state)
// to SVG or PNG.
func SaveSnapshot(opts SnapshotOptions) error {
	defer debug.LogEnterExit("export.SaveSnapshot")()

	if opts.Dataset.Len() == 0 {
		return fmt.Errorf("no principles to export")
	}

	format := strings.ToLower(strings.TrimPrefix(opts.Format, "."))
	if format == "" {
		switch strings.ToLower(filepath.Ext(opts.Path)) {
		case ".svg":
			format = "svg"
		case ".png":
			format = "png"
		default:
			format = "svg" // safe default
			if opts.Path != "" && filepath.Ext(opts.Path) == "" {
				opts.Path = opts.Path + ".svg"
			}
		}
	}
	if format != "svg" && format != "png" {
		return fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	plan := buildSnapshotLayout(opts)

	switch format {
	case "svg":
		return renderSVG(opts.Path, plan)
	case "png":
		return renderPNG(opts.Path, plan)
	default:
		return fmt.Errorf("unhandled format %q", format)
	}
}

func buildSnapshotLayout(opts SnapshotOptions) snapshotLayout {
	ds := opts.Dataset
	canvas := layout.Default
	canvas.Center.Y += headerH
	title := opts.Title
	if title == "" {
		title = ds.Title
	}

	plan := snapshotLayout{
		Width:  int(layout.Default.Width + panelW),
		Height: int(layout.Default.Height + headerH + footerH),
		Title:  title,
		Footer: sourceLine(ds.Source),
		Center: ds.CenterLabel,
		Canvas: canvas,
		Nodes:  canvas.Nodes(ds.Principles, opts.State.SelectedID),
	}
	plan.Panel = panelLines(compose.Compose(opts.State, ds), panelCols)
	return plan
}

// panelLines flattens a view model into wrapped text lines. maxCols is the
// wrap width in 7px basicfont cells.
func panelLines(vm compose.ViewModel, maxCols int) []panelLine {
	var lines []panelLine
	add := func(text string, c color.RGBA, bold bool, indent float64) {
		for _, l := range wrapText(text, maxCols-int(indent/7)) {
			lines = append(lines, panelLine{Text: l, Color: c, Bold: bold, Indent: indent})
		}
	}
	blank := func() { lines = append(lines, panelLine{}) }

	if vm.Kind != compose.KindDetail || vm.Header == nil {
		if vm.Prompt == nil {
			return nil
		}
		add(vm.Prompt.Title, colorText, true, 0)
		blank()
		add(vm.Prompt.Text, colorSubtle, false, 0)
		blank()
		add(compose.QuickTitle, colorSubtle, false, 0)
		for _, q := range vm.Prompt.Quick {
			add(fmt.Sprintf("%d  %s", q.ID, q.Name), parseHex(q.Color), false, 8)
		}
		return lines
	}

	accent := parseHex(vm.Header.Color)
	add(fmt.Sprintf("%d. %s", vm.Header.ID, vm.Header.Name), accent, true, 0)
	add(vm.Header.Description, colorSubtle, false, 0)
	blank()
	var tabs []string
	for _, t := range vm.Tabs {
		if t.Active {
			tabs = append(tabs, "["+t.Label+"]")
		} else {
			tabs = append(tabs, t.Label)
		}
	}
	add(strings.Join(tabs, "  "), colorText, false, 0)
	blank()
	add(strings.ToUpper(vm.Heading), colorSubtle, true, 0)
	for _, item := range vm.Needs {
		add(item.Marker+" "+item.Text, colorText, false, 8)
	}
	for _, b := range vm.Recommendations {
		add("| "+b.Text, parseHex(b.Color), false, 8)
	}
	for _, p := range vm.Pairs {
		add(compose.WeaknessMarker+" "+p.Weakness, colorWeakness, false, 8)
		add(compose.StrengthMarker+" "+p.Strength, colorStrength, false, 8)
		blank()
	}
	if vm.Quote != nil {
		add(strings.ToUpper(vm.Quote.Heading), colorQuote, true, 0)
		add("\""+vm.Quote.Text+"\"", colorText, false, 8)
	}
	return lines
}

func sourceLine(s model.Source) string {
	parts := []string{}
	if s.Citation != "" {
		parts = append(parts, "Source: "+s.Citation)
	}
	if s.DOI != "" {
		parts = append(parts, "DOI: "+s.DOI)
	}
	if s.ReportID != "" {
		parts = append(parts, s.ReportID)
	}
	return strings.Join(parts, " | ")
}

func renderSVG(path string, plan snapshotLayout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSVGToWriter(file, plan)
}

// RenderSVG writes the map for ds and state as SVG.
func RenderSVG(w io.Writer, ds *model.Dataset, state selection.State) error {
	if ds.Len() == 0 {
		return fmt.Errorf("no principles to export")
	}
	return renderSVGToWriter(w, buildSnapshotLayout(SnapshotOptions{Dataset: ds, State: state}))
}

func renderSVGToWriter(w io.Writer, plan snapshotLayout) error {
	canvas := svg.New(w)
	canvas.Start(plan.Width, plan.Height)
	canvas.Title(plan.Title)
	canvas.Def()
	canvas.RadialGradient("centerGradient", 50, 50, 50, 50, 50, []svg.Offcolor{
		{Offset: 0, Color: css(colorCenterA), Opacity: 1},
		{Offset: 100, Color: css(colorCenterB), Opacity: 1},
	})
	canvas.DefEnd()

	canvas.Rect(0, 0, plan.Width, plan.Height, fmt.Sprintf("fill:%s", css(colorBackdrop)))
	canvas.Text(plan.Width/2, 40, plan.Title,
		fmt.Sprintf("text-anchor:middle;fill:%s;font-size:24px;font-family:sans-serif;font-weight:bold", css(colorText)))

	// connection lines
	for _, n := range plan.Nodes {
		style := fmt.Sprintf("stroke:%s;stroke-width:%s", n.Line.Color, ftoa(n.Line.Width))
		if n.Line.Dash != "" {
			style += ";stroke-dasharray:" + n.Line.Dash
		}
		canvas.Line(px(n.Line.From.X), px(n.Line.From.Y), px(n.Line.To.X), px(n.Line.To.Y), style)
	}

	// center node
	cx, cy := px(plan.Canvas.Center.X), px(plan.Canvas.Center.Y)
	canvas.Circle(cx, cy, int(layout.CenterNodeRadius),
		fmt.Sprintf("fill:url(#centerGradient);stroke:%s;stroke-width:3", css(colorCenterSt)))
	for i, l := range plan.Center {
		y := cy - 10 + 20*i
		if len(plan.Center) == 1 {
			y = cy + 5
		}
		canvas.Text(cx, y, l, "text-anchor:middle;fill:white;font-size:14px;font-family:sans-serif;font-weight:bold")
	}

	// principle nodes
	for _, n := range plan.Nodes {
		x, y := px(n.Center.X), px(n.Center.Y)
		canvas.Gid(fmt.Sprintf("principle-%d", n.ID))
		style := fmt.Sprintf("fill:%s;opacity:%s", n.Color, ftoa(n.Opacity))
		if n.Stroke != "" {
			style += fmt.Sprintf(";stroke:%s;stroke-width:3", n.Stroke)
		}
		canvas.Circle(x, y, int(n.Radius), style)
		textStyle := fmt.Sprintf("text-anchor:middle;fill:white;font-size:%spx;font-family:sans-serif;font-weight:bold", ftoa(n.FontSize))
		for i, l := range n.Label {
			ly := y - 8 + 16*i
			if len(n.Label) == 1 {
				ly = y + 4
			}
			canvas.Text(x, ly, l, textStyle)
		}
		canvas.Gend()
	}

	// detail panel
	panelX := int(layout.Default.Width)
	canvas.Roundrect(panelX, int(headerH), int(panelW)-int(panelPad), int(layout.Default.Height), 16, 16,
		fmt.Sprintf("fill:%s", css(colorPanelBG)))
	for i, l := range plan.Panel {
		if l.Text == "" {
			continue
		}
		style := fmt.Sprintf("fill:%s;font-size:12px;font-family:sans-serif", css(l.Color))
		if l.Bold {
			style += ";font-weight:bold"
		}
		canvas.Text(panelX+int(panelPad+l.Indent), int(headerH+panelPad+lineH)+i*int(lineH), l.Text, style)
	}

	if plan.Footer != "" {
		canvas.Text(plan.Width/2, plan.Height-14, plan.Footer,
			fmt.Sprintf("text-anchor:middle;fill:%s;font-size:11px;font-family:sans-serif", css(colorSubtle)))
	}

	canvas.End()
	return nil
}

func renderPNG(path string, plan snapshotLayout) error {
	dc := gg.NewContext(plan.Width, plan.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(plan.Title, float64(plan.Width)/2, 36, 0.5, 0.5)

	// connection lines
	for _, n := range plan.Nodes {
		dc.SetColor(parseHex(n.Line.Color))
		dc.SetLineWidth(n.Line.Width)
		if n.Line.Dash != "" {
			dc.SetDash(4, 4)
		} else {
			dc.SetDash()
		}
		dc.DrawLine(n.Line.From.X, n.Line.From.Y, n.Line.To.X, n.Line.To.Y)
		dc.Stroke()
	}
	dc.SetDash()

	// center node
	c := plan.Canvas.Center
	dc.SetColor(colorCenterB)
	dc.DrawCircle(c.X, c.Y, layout.CenterNodeRadius)
	dc.Fill()
	dc.SetColor(colorCenterA)
	dc.DrawCircle(c.X, c.Y, layout.CenterNodeRadius*0.6)
	dc.Fill()
	dc.SetColor(colorCenterSt)
	dc.SetLineWidth(3)
	dc.DrawCircle(c.X, c.Y, layout.CenterNodeRadius)
	dc.Stroke()
	dc.SetColor(colorText)
	for i, l := range plan.Center {
		dc.DrawStringAnchored(l, c.X, c.Y-8+16*float64(i), 0.5, 0.5)
	}

	// principle nodes
	for _, n := range plan.Nodes {
		fill := parseHex(n.Color)
		fill.A = uint8(math.Round(n.Opacity * 255))
		dc.SetColor(fill)
		dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
		dc.Fill()
		if n.Stroke != "" {
			dc.SetColor(parseHex(n.Stroke))
			dc.SetLineWidth(3)
			dc.DrawCircle(n.Center.X, n.Center.Y, n.Radius)
			dc.Stroke()
		}
		dc.SetColor(colorText)
		for i, l := range n.Label {
			y := n.Center.Y - 8 + 16*float64(i)
			if len(n.Label) == 1 {
				y = n.Center.Y
			}
			dc.DrawStringAnchored(l, n.Center.X, y, 0.5, 0.5)
		}
	}

	// detail panel
	panelX := layout.Default.Width
	dc.SetColor(colorPanelBG)
	dc.DrawRoundedRectangle(panelX, headerH, panelW-panelPad, layout.Default.Height, 16)
	dc.Fill()
	for i, l := range plan.Panel {
		if l.Text == "" {
			continue
		}
		dc.SetColor(l.Color)
		dc.DrawStringAnchored(l.Text, panelX+panelPad+l.Indent, headerH+panelPad+lineH+float64(i)*lineH, 0, 0.5)
	}

	if plan.Footer != "" {
		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(plan.Footer, float64(plan.Width)/2, float64(plan.Height)-16, 0.5, 0.5)
	}

	return dc.SavePNG(path)
}

// --- helpers ---------------------------------------------------------------

func px(v float64) int {
	return int(math.Round(v))
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// parseHex converts #RRGGBB to an opaque color. Malformed input yields gray.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return colorSubtle
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return colorSubtle
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}
}
