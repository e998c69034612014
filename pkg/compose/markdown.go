package compose

import (
	"fmt"
	"strings"
)

// Markdown renders a view model as a Markdown fragment. The output is used
// for the clipboard, the --print path and the Markdown export.
func Markdown(vm ViewModel) string {
	var sb strings.Builder

	if vm.Kind != KindDetail || vm.Header == nil {
		if vm.Prompt == nil {
			return ""
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", vm.Prompt.Title))
		sb.WriteString(vm.Prompt.Text + "\n\n")
		sb.WriteString(fmt.Sprintf("**%s**\n\n", QuickTitle))
		for _, q := range vm.Prompt.Quick {
			sb.WriteString(fmt.Sprintf("%d. %s\n", q.ID, q.Name))
		}
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("## %d. %s\n\n", vm.Header.ID, vm.Header.Name))
	if vm.Header.Description != "" {
		sb.WriteString(fmt.Sprintf("_%s_\n\n", vm.Header.Description))
	}
	sb.WriteString(fmt.Sprintf("### %s\n\n", vm.Heading))

	for _, item := range vm.Needs {
		sb.WriteString(fmt.Sprintf("- %s %s\n", item.Marker, item.Text))
	}
	for _, block := range vm.Recommendations {
		sb.WriteString(fmt.Sprintf("- %s\n", block.Text))
	}
	for i, pair := range vm.Pairs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("- **%s** %s\n", WeaknessMarker, pair.Weakness))
		sb.WriteString(fmt.Sprintf("- **%s** %s\n", StrengthMarker, pair.Strength))
	}
	if vm.Quote != nil {
		sb.WriteString(fmt.Sprintf("\n#### %s\n\n", vm.Quote.Heading))
		sb.WriteString(fmt.Sprintf("> \"%s\"\n", vm.Quote.Text))
	}
	return sb.String()
}
