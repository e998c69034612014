package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Context identifies which part of the screen the help modal describes.
type Context string

const (
	ContextMap    Context = "map"
	ContextDetail Context = "detail"
	ContextReader Context = "reader"
)

// ContextHelpContent holds one screen of help per context.
var ContextHelpContent = map[Context]string{
	ContextMap:    contextHelpMap,
	ContextDetail: contextHelpDetail,
	ContextReader: contextHelpReader,
}

// GetContextHelp returns the help content for ctx, or the generic page.
func GetContextHelp(ctx Context) string {
	if content, ok := ContextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpGeneric
}

// RenderContextHelp renders the compact help modal.
func RenderContextHelp(ctx Context, theme Theme, width, height int) string {
	content := GetContextHelp(ctx)
	r := theme.Renderer

	modalWidth := 56
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	titleStyle := r.NewStyle().Bold(true).Foreground(theme.Primary)
	contentStyle := r.NewStyle().Foreground(theme.Subtext)
	footerStyle := r.NewStyle().Foreground(theme.Muted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(content))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("? or Esc to close"))

	modal := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	if height > 0 && lipgloss.Height(modal) > height {
		lines := strings.Split(modal, "\n")
		modal = strings.Join(lines[:height], "\n")
	}
	return modal
}

const contextHelpMap = `## Mind Map

**Select a principle**
  ←/h →/l   Move between nodes
  Enter     Open the node under the cursor
  1-9, 0    Quick pick principle 1-10
  Click     Open a node or quick list entry

**Screen**
  ?         This help
  q         Quit`

const contextHelpDetail = `## Principle Detail

**Tabs**
  Tab       Next tab
  Shift+Tab Previous tab
  n/r/e     Needs, recommendations, examples
  Click     Switch tab

**Selection**
  Enter     Close the open principle
  Esc       Back to the overview
  Click     Clicking the open node closes it

**Panel**
  ↑/k ↓/j   Scroll
  y         Copy as markdown
  m         Markdown reader`

const contextHelpReader = `## Markdown Reader

  ↑/k ↓/j   Scroll
  m         Back to the mind map
  y         Copy as markdown
  Esc       Close`

const contextHelpGeneric = `## Quick Reference

  ?         Help
  Esc       Close/back
  q         Quit`
