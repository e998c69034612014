package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds every binding of the mind map view.
type KeyMap struct {
	Prev     key.Binding
	Next     key.Binding
	Click    key.Binding
	Quick    key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Needs    key.Binding
	Recs     key.Binding
	Examples key.Binding
	Deselect key.Binding
	Up       key.Binding
	Down     key.Binding
	Copy     key.Binding
	Reader   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev node")),
		Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next node")),
		Click:    key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "open/close")),
		Quick:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9", "0"), key.WithHelp("1-0", "quick pick")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Needs:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "needs")),
		Recs:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recommendations")),
		Examples: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "examples")),
		Deselect: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Reader:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "markdown view")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Click, k.NextTab, k.Deselect, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Click, k.Quick},
		{k.NextTab, k.PrevTab, k.Needs, k.Recs, k.Examples},
		{k.Up, k.Down, k.Deselect, k.Copy, k.Reader},
		{k.Help, k.Quit},
	}
}

// quickIndex maps a quick pick key to a zero-based principle index; "0"
// stands for the tenth entry.
func quickIndex(s string) (int, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	if s[0] == '0' {
		return 9, true
	}
	return int(s[0] - '1'), true
}
