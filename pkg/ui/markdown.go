package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/lipgloss"
)

// Document colors of the themed reader.
const (
	readerDarkFg  = "#E2E8F0"
	readerDarkBg  = "#0F172A"
	readerLightFg = "#0F172A"
)

// MarkdownRenderer renders the principle detail as glamour markdown for the
// reader view and --print.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	isDark   bool
	theme    *Theme // nil when using the built-in glamour styles
	useTheme bool
}

// NewMarkdownRenderer creates a renderer with the built-in dracula or light
// style, depending on the terminal background.
func NewMarkdownRenderer(width int) *MarkdownRenderer {
	isDark := lipgloss.HasDarkBackground()
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStylePath(builtinStyle(isDark)),
		glamour.WithWordWrap(width),
	)
	return &MarkdownRenderer{
		renderer: renderer,
		width:    width,
		isDark:   isDark,
	}
}

// NewMarkdownRendererWithTheme creates a renderer whose colors follow theme.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	isDark := lipgloss.HasDarkBackground()
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyleFromTheme(theme, isDark)),
		glamour.WithWordWrap(width),
	)
	return &MarkdownRenderer{
		renderer: renderer,
		width:    width,
		isDark:   isDark,
		theme:    &theme,
		useTheme: true,
	}
}

func builtinStyle(isDark bool) string {
	if isDark {
		return "dracula"
	}
	return "light"
}

// Render converts markdown to styled terminal output. Without a renderer the
// input is returned as is.
func (mr *MarkdownRenderer) Render(markdown string) (string, error) {
	if mr.renderer == nil {
		return markdown, nil
	}
	return mr.renderer.Render(markdown)
}

// SetWidth rebuilds the renderer for a new wrap width, keeping the theme.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width == mr.width || width <= 0 {
		return
	}

	opt := glamour.WithStylePath(builtinStyle(mr.isDark))
	if mr.useTheme && mr.theme != nil {
		opt = glamour.WithStyles(buildStyleFromTheme(*mr.theme, mr.isDark))
	}
	if r, err := glamour.NewTermRenderer(opt, glamour.WithWordWrap(width)); err == nil {
		mr.renderer = r
		mr.width = width
	}
}

// SetWidthWithTheme rebuilds the renderer with theme colors, even when the
// width is unchanged.
func (mr *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	if width <= 0 {
		return
	}
	if r, err := glamour.NewTermRenderer(
		glamour.WithStyles(buildStyleFromTheme(theme, mr.isDark)),
		glamour.WithWordWrap(width),
	); err == nil {
		mr.renderer = r
		mr.width = width
		mr.theme = &theme
		mr.useTheme = true
	}
}

func (mr *MarkdownRenderer) IsDarkMode() bool {
	return mr.isDark
}

// buildStyleFromTheme maps the mind map theme onto a glamour style.
func buildStyleFromTheme(theme Theme, isDark bool) ansi.StyleConfig {
	primary := extractHex(theme.Primary, isDark)
	secondary := extractHex(theme.Secondary, isDark)
	check := extractHex(theme.Check, isDark)
	quote := extractHex(theme.Quote, isDark)
	muted := extractHex(theme.Muted, isDark)
	weakness := extractHex(theme.Weakness, isDark)

	var docBg *string
	docFg := readerLightFg
	if isDark {
		docBg = stringPtr(readerDarkBg)
		docFg = readerDarkFg
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:           stringPtr(docFg),
				BackgroundColor: docBg,
			},
			Margin: uintPtr(0),
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr(quote),
				Italic: boolPtr(true),
			},
			Indent:      uintPtr(1),
			IndentToken: stringPtr("│ "),
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(docFg)},
		},
		List: ansi.StyleList{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: stringPtr(docFg)},
			},
			LevelIndent: 2,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr(primary),
				Bold:  boolPtr(true),
			},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr(primary),
				Bold:   boolPtr(true),
				Prefix: "# ",
			},
		},
		H2: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr(primary),
				Bold:   boolPtr(true),
				Prefix: "## ",
			},
		},
		H3: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color:  stringPtr(secondary),
				Bold:   boolPtr(true),
				Prefix: "### ",
			},
		},
		H4: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Color: stringPtr(muted),
				Bold:  boolPtr(true),
			},
		},
		Strong: ansi.StylePrimitive{
			Color: stringPtr(primary),
			Bold:  boolPtr(true),
		},
		Emph: ansi.StylePrimitive{
			Color:  stringPtr(quote),
			Italic: boolPtr(true),
		},
		Strikethrough: ansi.StylePrimitive{
			CrossedOut: boolPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  stringPtr(muted),
			Format: "──────────────────────────────",
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			Color: stringPtr(secondary),
		},
		Task: ansi.StyleTask{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(check)},
			Ticked:         "[✓] ",
			Unticked:       "[ ] ",
		},
		Link: ansi.StylePrimitive{
			Color:     stringPtr(secondary),
			Underline: boolPtr(true),
		},
		LinkText: ansi.StylePrimitive{
			Color: stringPtr(primary),
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(weakness)},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: stringPtr(secondary)},
				Margin:         uintPtr(1),
			},
		},
		Table: ansi.StyleTable{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: stringPtr(docFg)},
			},
			CenterSeparator: stringPtr("┼"),
			ColumnSeparator: stringPtr("│"),
			RowSeparator:    stringPtr("─"),
		},
	}
}

func extractHex(ac lipgloss.AdaptiveColor, isDark bool) string {
	if isDark {
		return ac.Dark
	}
	return ac.Light
}

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func uintPtr(u uint) *uint { return &u }
