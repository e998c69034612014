// Package selection holds the mind map's interaction state.
//
// State is a plain value: transitions return the next State and never
// mutate the receiver, so the state machine can be driven and inspected
// without any rendering environment.
//
//	Idle --ClickNode(P)--> Focused(P, needs)
//	Focused(P) --ClickNode(P)--> Idle
//	Focused(P) --ClickNode(Q)--> Focused(Q, needs)
//	Focused(P) --ClickTab(T)--> Focused(P, T)
//	any --ClickQuick(P)--> Focused(P, needs)
package selection

import (
	"fmt"

	"github.com/vanderheijden86/mindmap/pkg/model"
)

// Phase names the two states of the machine.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseFocused Phase = "focused"
)

// State is the selected principle (by id, 0 for none) and the active tab.
type State struct {
	SelectedID int       `json:"selected_id,omitempty" yaml:"selected_id,omitempty"`
	Tab        model.Tab `json:"tab" yaml:"tab"`
}

// New returns the initial Idle state.
func New() State {
	return State{Tab: model.DefaultTab}
}

// Focused returns a state focused on id with the given tab.
func Focused(id int, tab model.Tab) State {
	if !tab.IsValid() {
		tab = model.DefaultTab
	}
	if id <= 0 {
		return State{Tab: tab}
	}
	return State{SelectedID: id, Tab: tab}
}

// Phase reports whether a principle is selected.
func (s State) Phase() Phase {
	if s.SelectedID > 0 {
		return PhaseFocused
	}
	return PhaseIdle
}

// IsIdle is shorthand for Phase() == PhaseIdle.
func (s State) IsIdle() bool {
	return s.Phase() == PhaseIdle
}

// IsSelected reports whether id is the selected principle.
func (s State) IsSelected(id int) bool {
	return id > 0 && s.SelectedID == id
}

// ClickNode handles a click on a node of the ring. Clicking the selected
// node deselects it; any other node becomes selected on the default tab.
func (s State) ClickNode(id int) State {
	if id <= 0 {
		return s
	}
	if s.SelectedID == id {
		return State{Tab: s.Tab}
	}
	return State{SelectedID: id, Tab: model.DefaultTab}
}

// ClickQuick handles a click on a quick-list entry. Unlike ClickNode it
// never toggles the selection off.
func (s State) ClickQuick(id int) State {
	if id <= 0 {
		return s
	}
	if s.SelectedID == id {
		return s
	}
	return State{SelectedID: id, Tab: model.DefaultTab}
}

// ClickTab switches the active tab. The selection is never affected and
// unknown tabs are ignored.
func (s State) ClickTab(tab model.Tab) State {
	if !tab.IsValid() {
		return s
	}
	s.Tab = tab
	return s
}

// Deselect returns to Idle, keeping the tab value.
func (s State) Deselect() State {
	return State{Tab: s.Tab}
}

// Reset returns the initial state.
func (s State) Reset() State {
	return New()
}

func (s State) String() string {
	if s.IsIdle() {
		return "Idle"
	}
	return fmt.Sprintf("Focused(%d, %s)", s.SelectedID, s.Tab)
}
