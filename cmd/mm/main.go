package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/compose"
	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/dataset"
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/export"
	"github.com/vanderheijden86/mindmap/pkg/layout"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"
	"github.com/vanderheijden86/mindmap/pkg/ui"
	"github.com/vanderheijden86/mindmap/pkg/version"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
	"golang.org/x/term"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	dataPath := flag.String("data", "", "Load principles from a YAML file instead of the built-in table")
	selectID := flag.Int("select", 0, "Initial selected principle id (0 = none)")
	tabName := flag.String("tab", "", "Initial tab: needs, recommendations or examples")
	noMouse := flag.Bool("no-mouse", false, "Do not capture the mouse in the TUI")
	robotPrinciples := flag.Bool("robot-principles", false, "Output the principle table as JSON")
	robotLayout := flag.Bool("robot-layout", false, "Output node geometry as JSON (honors --select)")
	robotView := flag.Bool("robot-view", false, "Output the composed panel as JSON (honors --select/--tab)")
	printView := flag.Bool("print", false, "Render the composed panel as markdown to the terminal")
	exportSVG := flag.String("export-svg", "", "Export the mind map as SVG")
	exportPNG := flag.String("export-png", "", "Export the mind map as PNG")
	exportHTML := flag.String("export-html", "", "Export a self-contained interactive HTML page")
	exportMD := flag.String("export-md", "", "Export every principle as a Markdown report")
	exportAll := flag.String("export-all", "", "Export all formats into a directory")
	exportWizard := flag.Bool("export-wizard", false, "Choose export formats and destination interactively")
	serveAddr := flag.String("serve", "", "Serve a live preview of the HTML page (e.g. 127.0.0.1:9010)")
	preview := flag.Bool("preview", false, "Serve the live preview on the configured address")
	title := flag.String("title", "", "Title for exports (defaults to the dataset title)")
	flag.Parse()

	if *help {
		fmt.Println("Usage: mm [options]")
		fmt.Println("\nAn interactive mind map of the heuristic principles for cloud platforms.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("mm %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}
	ui.ApplyMode(lipgloss.DefaultRenderer(), cfg.UI.Theme)

	path := config.ResolveDatasetPath(*dataPath, cfg)
	loadStart := time.Now()
	ds, err := dataset.LoadOrDefault(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading principles: %v\n", err)
		os.Exit(1)
	}
	debug.LogTiming("load dataset", time.Since(loadStart))

	state, err := resolveState(ds, *selectID, *tabName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	exportTitle := *title
	if exportTitle == "" {
		exportTitle = cfg.Export.Title
	}

	switch {
	case *robotPrinciples:
		exitOn(writeJSON(os.Stdout, ds), "encoding principles")
		return
	case *robotLayout:
		exitOn(writeJSON(os.Stdout, buildRobotLayout(ds, state)), "encoding layout")
		return
	case *robotView:
		exitOn(writeJSON(os.Stdout, buildRobotView(ds, state)), "encoding view")
		return
	case *printView:
		exitOn(renderPrint(os.Stdout, ds, state, terminalWidth()), "rendering view")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if ran, err := runExports(ctx, ds, state, exportTitle, exportFlags{
		SVG: *exportSVG, PNG: *exportPNG, HTML: *exportHTML, Markdown: *exportMD, All: *exportAll,
	}, os.Stdout); ran {
		exitOn(err, "exporting")
		return
	}

	if *exportWizard {
		wc, err := export.NewWizard(ds, cfg).Run()
		exitOn(err, "running export wizard")
		opts := wc.Options()
		if opts.Title == "" {
			opts.Title = exportTitle
		}
		paths, err := export.ExportAll(ctx, ds, opts)
		exitOn(err, "exporting")
		printPaths(os.Stdout, paths)
		return
	}

	if addr := previewAddr(*serveAddr, *preview, cfg); addr != "" {
		exitOn(serve(ctx, addr, path, exportTitle, os.Stdout), "serving preview")
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: mm needs a terminal; use --print, --robot-view or an --export flag")
		os.Exit(1)
	}

	mouse := cfg.MouseEnabled() && !*noMouse
	exitOn(runTUI(ds, state, path, mouse, cfg.WatchEnabled()), "running TUI")
}

// resolveState turns --select/--tab into an initial selection.
func resolveState(ds *model.Dataset, id int, tabName string) (selection.State, error) {
	tab := model.DefaultTab
	if strings.TrimSpace(tabName) != "" {
		t, err := model.ParseTab(tabName)
		if err != nil {
			return selection.State{}, err
		}
		tab = t
	}
	if id == 0 {
		return selection.New().ClickTab(tab), nil
	}
	if _, err := dataset.Lookup(ds, id); err != nil {
		return selection.State{}, fmt.Errorf("--select: %w", err)
	}
	return selection.Focused(id, tab), nil
}

func exitOn(err error, what string) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// RobotLayout is the --robot-layout payload.
type RobotLayout struct {
	Canvas layout.Canvas   `json:"canvas"`
	State  selection.State `json:"state"`
	Nodes  []layout.Node   `json:"nodes"`
}

func buildRobotLayout(ds *model.Dataset, state selection.State) RobotLayout {
	return RobotLayout{
		Canvas: layout.Default,
		State:  state,
		Nodes:  layout.Default.Nodes(ds.Principles, state.SelectedID),
	}
}

// RobotView is the --robot-view payload.
type RobotView struct {
	State selection.State   `json:"state"`
	View  compose.ViewModel `json:"view"`
}

func buildRobotView(ds *model.Dataset, state selection.State) RobotView {
	return RobotView{State: state, View: compose.Compose(state, ds)}
}

// renderPrint writes the composed panel through glamour.
func renderPrint(w io.Writer, ds *model.Dataset, state selection.State, width int) error {
	md := compose.Markdown(compose.Compose(state, ds))
	theme := ui.DefaultTheme(lipgloss.DefaultRenderer())
	out, err := ui.NewMarkdownRendererWithTheme(width, theme).Render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return min(w, 100)
	}
	return 80
}

type exportFlags struct {
	SVG      string
	PNG      string
	HTML     string
	Markdown string
	All      string
}

// runExports performs every requested export. ran is false when no export
// flag was given.
func runExports(ctx context.Context, ds *model.Dataset, state selection.State, title string, f exportFlags, out io.Writer) (ran bool, err error) {
	var paths []string

	if f.SVG != "" {
		ran = true
		if err := export.SaveSnapshot(export.SnapshotOptions{Path: f.SVG, Format: export.FormatSVG, Title: title, Dataset: ds, State: state}); err != nil {
			return ran, err
		}
		paths = append(paths, f.SVG)
	}
	if f.PNG != "" {
		ran = true
		if err := export.SaveSnapshot(export.SnapshotOptions{Path: f.PNG, Format: export.FormatPNG, Title: title, Dataset: ds, State: state}); err != nil {
			return ran, err
		}
		paths = append(paths, f.PNG)
	}
	if f.HTML != "" {
		ran = true
		p, err := export.GenerateInteractiveHTML(export.InteractiveOptions{Dataset: ds, State: state, Title: title, Path: f.HTML})
		if err != nil {
			return ran, err
		}
		paths = append(paths, p)
	}
	if f.Markdown != "" {
		ran = true
		if err := export.SaveMarkdownToFile(ds, title, f.Markdown); err != nil {
			return ran, err
		}
		paths = append(paths, f.Markdown)
	}
	if f.All != "" {
		ran = true
		written, err := export.ExportAll(ctx, ds, export.AllOptions{Dir: f.All, Title: title, State: state})
		if err != nil {
			return ran, err
		}
		paths = append(paths, written...)
	}

	if ran {
		printPaths(out, paths)
	}
	return ran, nil
}

func printPaths(w io.Writer, paths []string) {
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		fmt.Fprintf(w, "Wrote %s\n", p)
	}
}

// previewAddr picks the preview address; --serve wins over --preview.
func previewAddr(flagAddr string, usePreview bool, cfg config.Config) string {
	if flagAddr != "" {
		return flagAddr
	}
	if usePreview {
		return cfg.Serve.Addr
	}
	return ""
}

func serve(ctx context.Context, addr, path, title string, out io.Writer) error {
	srv, err := export.NewPreviewServer(export.PreviewOptions{
		Addr:        addr,
		DatasetPath: path,
		Title:       title,
		Load:        func() (*model.Dataset, error) { return dataset.LoadOrDefault(path) },
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, func(bound string) {
		fmt.Fprintf(out, "Preview at http://%s (Ctrl+C to stop)\n", bound)
		if path != "" {
			fmt.Fprintf(out, "Watching %s for changes\n", path)
		}
	})
}

func runTUI(ds *model.Dataset, state selection.State, path string, mouse, watch bool) error {
	m := ui.NewModel(ds, ui.Options{Mouse: mouse, Initial: state})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, opts...)

	if watch && path != "" {
		worker, err := ui.NewDatasetWorker(ui.WorkerConfig{Path: path, Program: p})
		if err != nil {
			return err
		}
		if err := worker.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: not watching %s: %v\n", path, err)
		}
		defer worker.Stop()
	}

	_, err := p.Run()
	return err
}
