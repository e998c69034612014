// Package compose derives the detail panel content from the selection.
package compose

import (
	"strconv"

	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"
)

// Kind tells renderers which layout a ViewModel needs.
type Kind string

const (
	KindPrompt Kind = "prompt"
	KindDetail Kind = "detail"
)

// Panel headings and markers.
const (
	PromptTitle = "Select a Principle"
	QuickTitle  = "All Principles:"

	NeedsHeading           = "User Needs & Wishes"
	RecommendationsHeading = "Actionable Recommendations"
	ExamplesHeading        = "Weakness → Strength Pairs"
	QuoteHeading           = "User Quote"

	CheckMarker    = "✓"
	WeaknessMarker = "−"
	StrengthMarker = "+"
)

// ViewModel is everything the detail panel shows for one state.
type ViewModel struct {
	Kind Kind `json:"kind"`

	// Prompt view
	Prompt *Prompt `json:"prompt,omitempty"`

	// Detail view
	Header  *Header    `json:"header,omitempty"`
	Tabs    []TabEntry `json:"tabs,omitempty"`
	Heading string     `json:"heading,omitempty"`

	Needs           []Item      `json:"needs,omitempty"`
	Recommendations []Block     `json:"recommendations,omitempty"`
	Pairs           []PairBlock `json:"pairs,omitempty"`
	Quote           *QuoteBlock `json:"quote,omitempty"`
}

// Prompt is shown while nothing is selected.
type Prompt struct {
	Title string       `json:"title"`
	Text  string       `json:"text"`
	Quick []QuickEntry `json:"quick"`
}

// QuickEntry is one row of the quick list.
type QuickEntry struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Header identifies the selected principle.
type Header struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// TabEntry is one tab of the tab strip.
type TabEntry struct {
	Tab    model.Tab `json:"tab"`
	Label  string    `json:"label"`
	Active bool      `json:"active"`
}

// Item is a checklist entry.
type Item struct {
	Marker string `json:"marker"`
	Text   string `json:"text"`
}

// Block is a text block accented with a color.
type Block struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// PairBlock renders the weakness first, then the strength.
type PairBlock struct {
	Weakness string `json:"weakness"`
	Strength string `json:"strength"`
}

// QuoteBlock is the closing user quote of the examples tab.
type QuoteBlock struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// Compose builds the view model for state over ds. It is pure, and a
// selection that does not resolve (unknown id or tab) yields the prompt
// view instead of an error.
func Compose(state selection.State, ds *model.Dataset) ViewModel {
	if state.IsIdle() {
		return promptView(ds)
	}
	p, ok := ds.Find(state.SelectedID)
	if !ok || !state.Tab.IsValid() {
		return promptView(ds)
	}

	vm := ViewModel{
		Kind: KindDetail,
		Header: &Header{
			ID:          p.ID,
			Name:        p.Name,
			Color:       p.Color,
			Description: p.Description,
		},
		Tabs: tabStrip(state.Tab),
	}

	switch state.Tab {
	case model.TabNeeds:
		vm.Heading = NeedsHeading
		vm.Needs = make([]Item, len(p.Needs))
		for i, need := range p.Needs {
			vm.Needs[i] = Item{Marker: CheckMarker, Text: need}
		}
	case model.TabRecommendations:
		vm.Heading = RecommendationsHeading
		vm.Recommendations = make([]Block, len(p.Recommendations))
		for i, rec := range p.Recommendations {
			vm.Recommendations[i] = Block{Text: rec, Color: p.Color}
		}
	case model.TabExamples:
		vm.Heading = ExamplesHeading
		vm.Pairs = make([]PairBlock, len(p.Examples.Pairs))
		for i, pair := range p.Examples.Pairs {
			vm.Pairs[i] = PairBlock{Weakness: pair.Weakness, Strength: pair.Strength}
		}
		vm.Quote = &QuoteBlock{Heading: QuoteHeading, Text: p.Examples.UserQuote}
	}
	return vm
}

func promptView(ds *model.Dataset) ViewModel {
	quick := make([]QuickEntry, 0, ds.Len())
	if ds != nil {
		for _, p := range ds.Principles {
			quick = append(quick, QuickEntry{ID: p.ID, Name: p.Name, Color: p.Color})
		}
	}
	return ViewModel{
		Kind: KindPrompt,
		Prompt: &Prompt{
			Title: PromptTitle,
			Text:  promptText(len(quick)),
			Quick: quick,
		},
	}
}

func promptText(n int) string {
	return "Click on any of the " + strconv.Itoa(n) + " principles in the mind map to explore its details, user needs, and recommendations."
}

func tabStrip(active model.Tab) []TabEntry {
	tabs := make([]TabEntry, len(model.Tabs))
	for i, t := range model.Tabs {
		tabs[i] = TabEntry{Tab: t, Label: t.Title(), Active: t == active}
	}
	return tabs
}

// ActiveTab returns the active tab of a detail view, or "" for the prompt.
func (vm ViewModel) ActiveTab() model.Tab {
	for _, t := range vm.Tabs {
		if t.Active {
			return t.Tab
		}
	}
	return ""
}
