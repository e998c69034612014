package model

import (
	"fmt"
	"regexp"
	"strings"
)

// Principle is one of the heuristic dimensions shown as a node on the map
type Principle struct {
	ID              int      `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Color           string   `json:"color" yaml:"color"`
	Description     string   `json:"description" yaml:"description"`
	Needs           []string `json:"needs" yaml:"needs"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
	Examples        Examples `json:"examples" yaml:"examples"`
}

// Examples groups the illustrative evidence for a principle
type Examples struct {
	Pairs     []ExamplePair `json:"pairs" yaml:"pairs"`
	UserQuote string        `json:"userQuote" yaml:"user_quote"`
}

// ExamplePair contrasts a platform shortcoming with an observed improvement
type ExamplePair struct {
	Weakness string `json:"weakness" yaml:"weakness"`
	Strength string `json:"strength" yaml:"strength"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validate checks if the principle fields are valid
func (p *Principle) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("principle id must be positive, got %d", p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("principle %d: name cannot be empty", p.ID)
	}
	if !hexColor.MatchString(p.Color) {
		return fmt.Errorf("principle %d: invalid color %q (want #RRGGBB)", p.ID, p.Color)
	}
	if len(p.Needs) == 0 {
		return fmt.Errorf("principle %d: needs cannot be empty", p.ID)
	}
	if len(p.Recommendations) == 0 {
		return fmt.Errorf("principle %d: recommendations cannot be empty", p.ID)
	}
	if strings.TrimSpace(p.Examples.UserQuote) == "" {
		return fmt.Errorf("principle %d: user quote cannot be empty", p.ID)
	}
	return nil
}

// Clone creates a deep copy of the principle
func (p Principle) Clone() Principle {
	clone := p
	if p.Needs != nil {
		clone.Needs = append([]string(nil), p.Needs...)
	}
	if p.Recommendations != nil {
		clone.Recommendations = append([]string(nil), p.Recommendations...)
	}
	if p.Examples.Pairs != nil {
		clone.Examples.Pairs = append([]ExamplePair(nil), p.Examples.Pairs...)
	}
	return clone
}

// Tab identifies which content section of a principle is shown
type Tab string

const (
	TabNeeds           Tab = "needs"
	TabRecommendations Tab = "recommendations"
	TabExamples        Tab = "examples"
)

// Tabs lists every tab in display order
var Tabs = []Tab{TabNeeds, TabRecommendations, TabExamples}

// DefaultTab is the tab shown whenever a principle becomes selected
const DefaultTab = TabNeeds

// IsValid returns true if the tab is a recognized value
func (t Tab) IsValid() bool {
	switch t {
	case TabNeeds, TabRecommendations, TabExamples:
		return true
	}
	return false
}

// Title returns the capitalized label used on tab headers
func (t Tab) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

// Next returns the tab after t, wrapping around
func (t Tab) Next() Tab {
	for i, tab := range Tabs {
		if tab == t {
			return Tabs[(i+1)%len(Tabs)]
		}
	}
	return DefaultTab
}

// Prev returns the tab before t, wrapping around
func (t Tab) Prev() Tab {
	for i, tab := range Tabs {
		if tab == t {
			return Tabs[(i+len(Tabs)-1)%len(Tabs)]
		}
	}
	return DefaultTab
}

// ParseTab resolves a tab name, accepting any case and unique prefixes
// ("rec", "ex").
func ParseTab(s string) (Tab, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTab, nil
	}
	for _, tab := range Tabs {
		if strings.HasPrefix(string(tab), s) {
			return tab, nil
		}
	}
	return "", fmt.Errorf("unknown tab %q (want needs, recommendations or examples)", s)
}

// Source is the bibliographic reference the principles come from
type Source struct {
	Citation string `json:"citation" yaml:"citation"`
	DOI      string `json:"doi" yaml:"doi"`
	URL      string `json:"url" yaml:"url"`
	ReportID string `json:"report_id,omitempty" yaml:"report_id,omitempty"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Dataset is the ordered, read-only table rendered by the map
type Dataset struct {
	Title       string      `json:"title" yaml:"title"`
	CenterLabel []string    `json:"center_label" yaml:"center_label"`
	Source      Source      `json:"source" yaml:"source"`
	Principles  []Principle `json:"principles" yaml:"principles"`
}

// Len returns the number of principles
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Principles)
}

// Find returns the principle with the given id
func (d *Dataset) Find(id int) (*Principle, bool) {
	if d == nil {
		return nil, false
	}
	for i := range d.Principles {
		if d.Principles[i].ID == id {
			return &d.Principles[i], true
		}
	}
	return nil, false
}

// IndexOf returns the display position of the principle with the given id,
// or -1.
func (d *Dataset) IndexOf(id int) int {
	if d == nil {
		return -1
	}
	for i := range d.Principles {
		if d.Principles[i].ID == id {
			return i
		}
	}
	return -1
}
