package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vanderheijden86/mindmap/pkg/compose"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"
)

// GenerateMarkdown creates a full Markdown report of every principle, with
// all three tabs expanded.
func GenerateMarkdown(ds *model.Dataset, title string) (string, error) {
	if ds.Len() == 0 {
		return "", fmt.Errorf("no principles to export")
	}
	if title == "" {
		title = ds.Title
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))
	if s := ds.Source; s.Citation != "" {
		sb.WriteString(fmt.Sprintf("> Source: %s", s.Citation))
		if s.DOI != "" {
			sb.WriteString(fmt.Sprintf(" DOI: [%s](https://doi.org/%s)", s.DOI, s.DOI))
		}
		sb.WriteString("\n\n")
		if s.Summary != "" {
			sb.WriteString(s.Summary + "\n\n")
		}
	}

	sb.WriteString("## Table of Contents\n\n")
	for _, p := range ds.Principles {
		sb.WriteString(fmt.Sprintf("- [%d. %s](#%s)\n", p.ID, p.Name, anchor(p)))
	}
	sb.WriteString("\n")

	// Mind map (Mermaid)
	sb.WriteString("## Mind Map\n\n")
	sb.WriteString("```mermaid\nmindmap\n")
	sb.WriteString(fmt.Sprintf("  root((%s))\n", mermaidSafe(strings.Join(ds.CenterLabel, " "))))
	for _, p := range ds.Principles {
		sb.WriteString(fmt.Sprintf("    p%d[\"%d. %s\"]\n", p.ID, p.ID, mermaidSafe(p.Name)))
	}
	sb.WriteString("```\n\n")
	sb.WriteString("---\n\n")

	for _, p := range ds.Principles {
		sb.WriteString(fmt.Sprintf("## %d. %s\n\n", p.ID, p.Name))
		if p.Description != "" {
			sb.WriteString(fmt.Sprintf("_%s_\n\n", p.Description))
		}
		for _, tab := range model.Tabs {
			vm := compose.Compose(selection.Focused(p.ID, tab), ds)
			writeTabBody(&sb, vm)
		}
		sb.WriteString("---\n\n")
	}

	return sb.String(), nil
}

// writeTabBody writes one tab's section without the principle header.
func writeTabBody(sb *strings.Builder, vm compose.ViewModel) {
	if vm.Kind != compose.KindDetail {
		return
	}
	sb.WriteString(fmt.Sprintf("### %s\n\n", vm.Heading))
	for _, item := range vm.Needs {
		sb.WriteString(fmt.Sprintf("- %s %s\n", item.Marker, item.Text))
	}
	for _, block := range vm.Recommendations {
		sb.WriteString(fmt.Sprintf("- %s\n", block.Text))
	}
	if len(vm.Pairs) > 0 {
		sb.WriteString("| Weakness | Strength |\n")
		sb.WriteString("|---|---|\n")
		for _, pair := range vm.Pairs {
			sb.WriteString(fmt.Sprintf("| %s %s | %s %s |\n",
				compose.WeaknessMarker, tableSafe(pair.Weakness),
				compose.StrengthMarker, tableSafe(pair.Strength)))
		}
	}
	if vm.Quote != nil {
		sb.WriteString(fmt.Sprintf("\n#### %s\n\n", vm.Quote.Heading))
		sb.WriteString(fmt.Sprintf("> \"%s\"\n", vm.Quote.Text))
	}
	sb.WriteString("\n")
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(ds *model.Dataset, title, filename string) error {
	content, err := GenerateMarkdown(ds, title)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	return os.WriteFile(filename, []byte(content), 0o644)
}

// anchor mirrors the GitHub heading slug for "<id>. <name>".
func anchor(p model.Principle) string {
	heading := strings.ToLower(fmt.Sprintf("%d. %s", p.ID, p.Name))
	var b strings.Builder
	for _, r := range heading {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r > 127:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func mermaidSafe(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.ReplaceAll(s, "(", "")
	s = strings.ReplaceAll(s, ")", "")
	return s
}

func tableSafe(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
