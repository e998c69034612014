// Package ui provides the terminal user interface for mm: the principle ring
// on the left, the detail panel on the right, driven by the selection state
// machine.
package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/compose"
	"github.com/vanderheijden86/mindmap/pkg/debug"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// SplitViewThreshold is the width at which map and panel sit side by side.
	SplitViewThreshold = 100

	headerHeight = 1
	footerHeight = 1
	minMapRows   = 8
)

// Options configures a Model.
type Options struct {
	Theme     *Theme
	Mouse     bool
	Initial   selection.State
	Clipboard func(string) error // defaults to the system clipboard
}

// Model is the bubbletea model of the mind map.
type Model struct {
	ds    *model.Dataset
	state selection.State

	cursor int // ring index under keyboard focus

	keys     KeyMap
	help     help.Model
	viewport viewport.Model
	theme    Theme
	md       *MarkdownRenderer
	copy     func(string) error

	ready     bool
	width     int
	height    int
	split     bool
	mouse     bool
	reader    bool
	showHelp  bool
	status    string
	statusErr bool

	// Last rendered frame, used for mouse hit testing.
	mapView mapView
	panel   panelView
	mapW    int
	mapH    int
	mapX    int // screen column of grid cell 0
	mapY    int // screen row of grid cell 0
	panelW  int
	panelH  int
	panelX  int // screen column of panel content
	panelY  int // screen row of panel content
	bodyH   int
}

// NewModel creates the model over ds. An initial selection that does not
// resolve falls back to Idle.
func NewModel(ds *model.Dataset, opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	cp := opts.Clipboard
	if cp == nil {
		cp = clipboard.WriteAll
	}

	m := Model{
		ds:    ds,
		state: selection.New(),
		keys:  DefaultKeyMap(),
		help:  help.New(),
		theme: theme,
		copy:  cp,
		mouse: opts.Mouse,
	}
	if _, ok := ds.Find(opts.Initial.SelectedID); ok {
		m.state = selection.Focused(opts.Initial.SelectedID, opts.Initial.Tab)
		m.cursor = ds.IndexOf(opts.Initial.SelectedID)
	} else if opts.Initial.Tab.IsValid() {
		m.state = m.state.ClickTab(opts.Initial.Tab)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.ds != nil && m.ds.Title != "" {
		return tea.SetWindowTitle(m.ds.Title)
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.relayout()
		return m, nil

	case DatasetReadyMsg:
		m.applyDataset(msg.Dataset)
		return m, nil

	case DatasetErrorMsg:
		m.setStatus(fmt.Sprintf("Reload failed, keeping current data: %v", msg.Err), true)
		return m, nil

	case tea.MouseMsg:
		if !m.mouse {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	m.status = ""

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Deselect) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Reader):
		m.reader = !m.reader
		m.relayout()

	case key.Matches(msg, m.keys.Copy):
		m.copyPanel()

	case key.Matches(msg, m.keys.Up):
		m.viewport.ScrollUp(1)

	case key.Matches(msg, m.keys.Down):
		m.viewport.ScrollDown(1)

	case key.Matches(msg, m.keys.Deselect):
		if m.reader {
			m.reader = false
			m.relayout()
			break
		}
		m.apply(m.state.Deselect())

	case key.Matches(msg, m.keys.Prev):
		m.moveCursor(-1)

	case key.Matches(msg, m.keys.Next):
		m.moveCursor(1)

	case key.Matches(msg, m.keys.Click):
		if id, ok := m.cursorID(); ok {
			m.apply(m.state.ClickNode(id))
		}

	case key.Matches(msg, m.keys.Quick):
		// The quick list is only on screen while nothing is selected.
		if !m.state.IsIdle() {
			break
		}
		if idx, ok := quickIndex(msg.String()); ok && idx < m.ds.Len() {
			m.apply(m.state.ClickQuick(m.ds.Principles[idx].ID))
		}

	case key.Matches(msg, m.keys.NextTab):
		m.clickTab(m.state.Tab.Next())

	case key.Matches(msg, m.keys.PrevTab):
		m.clickTab(m.state.Tab.Prev())

	case key.Matches(msg, m.keys.Needs):
		m.clickTab(model.TabNeeds)

	case key.Matches(msg, m.keys.Recs):
		m.clickTab(model.TabRecommendations)

	case key.Matches(msg, m.keys.Examples):
		m.clickTab(model.TabExamples)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	inPanel := msg.X >= m.panelX && msg.X < m.panelX+m.panelW &&
		msg.Y >= m.panelY && msg.Y < m.panelY+m.panelH

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if inPanel {
			m.viewport.ScrollUp(3)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if inPanel {
			m.viewport.ScrollDown(3)
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft || m.showHelp {
		return m, nil
	}

	if inPanel && !m.reader {
		line := msg.Y - m.panelY + m.viewport.YOffset
		if z, ok := m.panel.zoneAt(line, msg.X-m.panelX); ok {
			switch z.Kind {
			case zoneTab:
				m.apply(m.state.ClickTab(z.Tab))
			case zoneQuick:
				m.apply(m.state.ClickQuick(z.ID))
			}
		}
		return m, nil
	}

	if m.reader {
		return m, nil
	}
	if id, ok := m.mapView.hit(msg.X-m.mapX, msg.Y-m.mapY); ok {
		m.apply(m.state.ClickNode(id))
	}
	return m, nil
}

// apply moves to next and refreshes everything derived from the state.
func (m *Model) apply(next selection.State) {
	prev := m.state
	m.state = next
	if next.SelectedID != 0 {
		if idx := m.ds.IndexOf(next.SelectedID); idx >= 0 {
			m.cursor = idx
		}
	}
	debug.LogIf(prev != next, "selection: %s -> %s", prev, next)
	if prev != next {
		m.viewport.GotoTop()
	}
	m.refresh()
}

func (m *Model) clickTab(tab model.Tab) {
	// The tab strip only exists in the detail view.
	if m.state.IsIdle() {
		return
	}
	m.apply(m.state.ClickTab(tab))
}

func (m *Model) moveCursor(delta int) {
	n := m.ds.Len()
	if n == 0 {
		return
	}
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.refresh()
}

func (m Model) cursorID() (int, bool) {
	if m.cursor < 0 || m.cursor >= m.ds.Len() {
		return 0, false
	}
	return m.ds.Principles[m.cursor].ID, true
}

// applyDataset swaps in a reloaded table, keeping the selection when its
// principle still exists.
func (m *Model) applyDataset(ds *model.Dataset) {
	if ds == nil {
		return
	}
	m.ds = ds
	if m.state.SelectedID != 0 {
		if _, ok := ds.Find(m.state.SelectedID); !ok {
			m.state = m.state.Deselect()
		}
	}
	if m.cursor >= ds.Len() {
		m.cursor = max(0, ds.Len()-1)
	}
	m.setStatus(fmt.Sprintf("Reloaded %d principles", ds.Len()), false)
	m.refresh()
}

func (m *Model) copyPanel() {
	text := compose.Markdown(compose.Compose(m.state, m.ds))
	if err := m.copy(text); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), true)
		return
	}
	if p, ok := m.ds.Find(m.state.SelectedID); ok {
		m.setStatus(fmt.Sprintf("Copied %q as markdown", p.Name), false)
		return
	}
	m.setStatus("Copied principle list as markdown", false)
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// relayout recomputes the screen split and rebuilds the frame.
func (m *Model) relayout() {
	if !m.ready {
		return
	}
	m.bodyH = max(1, m.height-headerHeight-footerHeight)
	m.split = m.width >= SplitViewThreshold
	m.help.Width = m.width

	switch {
	case m.reader:
		m.mapW, m.mapH = 0, 0
		m.panelW = max(10, m.width-4)
		m.panelH = max(1, m.bodyH-2)
		m.panelX, m.panelY = 2, headerHeight+1
	case m.split:
		m.mapW = m.width * 55 / 100
		m.mapH = m.bodyH
		m.panelW = max(10, m.width-m.mapW-4)
		m.panelH = max(1, m.bodyH-2)
		m.panelX, m.panelY = m.mapW+2, headerHeight+1
	default:
		m.mapW = m.width
		m.mapH = max(minMapRows, min(m.width*3/8, m.bodyH/2))
		m.panelW = max(10, m.width-4)
		m.panelH = max(1, m.bodyH-m.mapH-2)
		m.panelX, m.panelY = 2, headerHeight+m.mapH+1
	}

	offset := m.viewport.YOffset
	m.viewport = viewport.New(m.panelW, m.panelH)
	if m.md == nil {
		m.md = NewMarkdownRendererWithTheme(m.panelW, m.theme)
	} else {
		m.md.SetWidth(m.panelW)
	}
	m.refresh()
	m.viewport.SetYOffset(offset)
}

// refresh re-renders the map and panel for the current state.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	vm := compose.Compose(m.state, m.ds)

	if m.reader {
		m.panel = panelView{}
		rendered, err := m.md.Render(compose.Markdown(vm))
		if err != nil {
			rendered = fmt.Sprintf("Error rendering markdown: %v", err)
		}
		m.viewport.SetContent(rendered)
		return
	}

	m.mapView = renderMindMap(m.ds, m.state.SelectedID, m.cursor, m.mapW, m.mapH, m.theme)
	m.mapX = (m.mapW - m.mapView.Grid.Cols) / 2
	m.mapY = headerHeight + (m.mapH-m.mapView.Grid.Rows)/2

	m.panel = renderPanel(vm, m.theme, m.panelW)
	m.viewport.SetContent(m.panel.Content)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	switch {
	case m.showHelp:
		body = lipgloss.Place(m.width, m.bodyH, lipgloss.Center, lipgloss.Center,
			RenderContextHelp(m.helpContext(), m.theme, m.width, m.bodyH))
	case m.reader:
		body = m.renderPanelBox(m.width)
	case m.split:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderMapBlock(), m.renderPanelBox(m.width-m.mapW))
	default:
		body = lipgloss.JoinVertical(lipgloss.Left, m.renderMapBlock(), m.renderPanelBox(m.width))
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) helpContext() Context {
	switch {
	case m.reader:
		return ContextReader
	case m.state.IsIdle():
		return ContextMap
	default:
		return ContextDetail
	}
}

func (m Model) renderHeader() string {
	title := m.ds.Title
	if title == "" {
		title = "Mind Map"
	}
	left := m.theme.Header.Render(truncate(title, max(1, m.width-24)))
	right := m.theme.Status.Render(m.state.String() + " ")
	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// renderMapBlock pads the grid into its mapW x mapH block.
func (m Model) renderMapBlock() string {
	lines := make([]string, 0, m.mapH)
	blank := strings.Repeat(" ", m.mapW)
	top := m.mapY - headerHeight
	for i := 0; i < top; i++ {
		lines = append(lines, blank)
	}
	pad := strings.Repeat(" ", max(0, m.mapX))
	tail := strings.Repeat(" ", max(0, m.mapW-m.mapX-m.mapView.Grid.Cols))
	for _, l := range m.mapView.Lines {
		lines = append(lines, pad+l+tail)
	}
	for len(lines) < m.mapH {
		lines = append(lines, blank)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPanelBox(outerW int) string {
	return m.theme.Panel.
		Width(max(1, outerW-2)).
		Height(m.panelH).
		Render(m.viewport.View())
}

func (m Model) renderFooter() string {
	var left string
	if m.status != "" {
		style := m.theme.Status
		if m.statusErr {
			style = m.theme.Renderer.NewStyle().Foreground(m.theme.Weakness).Bold(true)
		}
		left = style.Render(m.status)
	} else {
		left = m.help.View(m.keys)
	}

	var right string
	if src := m.ds.Source; src.DOI != "" {
		right = m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render(" doi:" + src.DOI)
	}
	if lipgloss.Width(left)+lipgloss.Width(right) > m.width {
		right = ""
	}
	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

// State returns the current selection.
func (m Model) State() selection.State { return m.state }

// Cursor returns the ring index under keyboard focus.
func (m Model) Cursor() int { return m.cursor }

// Dataset returns the dataset on screen.
func (m Model) Dataset() *model.Dataset { return m.ds }

// IsSplitView reports whether map and panel are side by side.
func (m Model) IsSplitView() bool { return m.split }

// ShowingHelp reports whether the help modal is open.
func (m Model) ShowingHelp() bool { return m.showHelp }

// ReaderMode reports whether the markdown reader replaces the map.
func (m Model) ReaderMode() bool { return m.reader }

// Status returns the footer status message, if any.
func (m Model) Status() string { return m.status }

// NodeCell returns a screen cell that resolves to principle id, for driving
// mouse clicks in tests.
func (m Model) NodeCell(id int) (x, y int, ok bool) {
	for _, c := range m.mapView.Chips {
		if c.ID != id {
			continue
		}
		for row := c.Y0; row < c.Y1; row++ {
			for col := c.X0; col < c.X1; col++ {
				if hit, found := m.mapView.hit(col, row); found && hit == id {
					return m.mapX + col, m.mapY + row, true
				}
			}
		}
	}
	return 0, 0, false
}

// TabCell returns the screen cell of a tab label in the detail panel.
func (m Model) TabCell(tab model.Tab) (x, y int, ok bool) {
	return m.zoneCell(func(z zone) bool { return z.Kind == zoneTab && z.Tab == tab })
}

// QuickCell returns the screen cell of a quick-list entry.
func (m Model) QuickCell(id int) (x, y int, ok bool) {
	return m.zoneCell(func(z zone) bool { return z.Kind == zoneQuick && z.ID == id })
}

func (m Model) zoneCell(match func(zone) bool) (int, int, bool) {
	for _, z := range m.panel.Zones {
		if !match(z) {
			continue
		}
		row := z.Line - m.viewport.YOffset
		if row < 0 || row >= m.panelH {
			return 0, 0, false
		}
		return m.panelX + z.X0 + 1, m.panelY + row, true
	}
	return 0, 0, false
}
