package export

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks s into lines no wider than width cells. Words wider than
// width are truncated with an ellipsis.
func wrapText(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var cur strings.Builder
	curW := 0
	for _, w := range words {
		ww := runewidth.StringWidth(w)
		if ww > width {
			w = runewidth.Truncate(w, width, "…")
			ww = runewidth.StringWidth(w)
		}
		switch {
		case curW == 0:
			cur.WriteString(w)
			curW = ww
		case curW+1+ww <= width:
			cur.WriteByte(' ')
			cur.WriteString(w)
			curW += 1 + ww
		default:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
			curW = ww
		}
	}
	if curW > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
