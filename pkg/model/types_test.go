package model

import (
	"strings"
	"testing"
)

func validPrinciple() Principle {
	return Principle{
		ID:              1,
		Name:            "Interoperability",
		Color:           "#E74C3C",
		Description:     "Seamless integration",
		Needs:           []string{"Federation"},
		Recommendations: []string{"Data interoperability"},
		Examples: Examples{
			Pairs:     []ExamplePair{{Weakness: "w", Strength: "s"}},
			UserQuote: "quote",
		},
	}
}

func TestPrinciple_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Principle)
		wantErr string
	}{
		{"Valid", func(p *Principle) {}, ""},
		{"ZeroID", func(p *Principle) { p.ID = 0 }, "must be positive"},
		{"EmptyName", func(p *Principle) { p.Name = "  " }, "name cannot be empty"},
		{"BadColor", func(p *Principle) { p.Color = "red" }, "invalid color"},
		{"ShortColor", func(p *Principle) { p.Color = "#FFF" }, "invalid color"},
		{"NoNeeds", func(p *Principle) { p.Needs = nil }, "needs cannot be empty"},
		{"NoRecommendations", func(p *Principle) { p.Recommendations = []string{} }, "recommendations cannot be empty"},
		{"NoQuote", func(p *Principle) { p.Examples.UserQuote = "" }, "user quote"},
		{"NoPairsAllowed", func(p *Principle) { p.Examples.Pairs = nil }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPrinciple()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestPrinciple_CloneIsDeep(t *testing.T) {
	p := validPrinciple()
	c := p.Clone()
	c.Needs[0] = "changed"
	c.Examples.Pairs[0].Weakness = "changed"
	if p.Needs[0] == "changed" {
		t.Error("Clone shares Needs backing array")
	}
	if p.Examples.Pairs[0].Weakness == "changed" {
		t.Error("Clone shares Pairs backing array")
	}
}

func TestTab_IsValid(t *testing.T) {
	tests := []struct {
		tab  Tab
		want bool
	}{
		{TabNeeds, true},
		{TabRecommendations, true},
		{TabExamples, true},
		{"", false},
		{"Needs", false},
		{"quotes", false},
	}
	for _, tt := range tests {
		if got := tt.tab.IsValid(); got != tt.want {
			t.Errorf("Tab(%q).IsValid() = %v, want %v", tt.tab, got, tt.want)
		}
	}
}

func TestTab_Title(t *testing.T) {
	if got := TabRecommendations.Title(); got != "Recommendations" {
		t.Errorf("Title() = %q", got)
	}
	if got := Tab("").Title(); got != "" {
		t.Errorf("empty Title() = %q", got)
	}
}

func TestTab_NextPrevWrap(t *testing.T) {
	if TabNeeds.Next() != TabRecommendations {
		t.Error("needs -> recommendations")
	}
	if TabExamples.Next() != TabNeeds {
		t.Error("examples should wrap to needs")
	}
	if TabNeeds.Prev() != TabExamples {
		t.Error("needs should wrap back to examples")
	}
	if Tab("bogus").Next() != DefaultTab {
		t.Error("unknown tab should fall back to default")
	}
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    Tab
		wantErr bool
	}{
		{"", TabNeeds, false},
		{"needs", TabNeeds, false},
		{"REC", TabRecommendations, false},
		{" ex ", TabExamples, false},
		{"quote", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTab(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTab(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTab(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDataset_FindAndIndexOf(t *testing.T) {
	ds := &Dataset{Principles: []Principle{{ID: 3, Name: "C"}, {ID: 7, Name: "G"}}}
	p, ok := ds.Find(7)
	if !ok || p.Name != "G" {
		t.Fatalf("Find(7) = %v, %v", p, ok)
	}
	if _, ok := ds.Find(1); ok {
		t.Error("Find(1) should miss")
	}
	if got := ds.IndexOf(7); got != 1 {
		t.Errorf("IndexOf(7) = %d, want 1", got)
	}
	if got := ds.IndexOf(99); got != -1 {
		t.Errorf("IndexOf(99) = %d, want -1", got)
	}

	var nilDS *Dataset
	if nilDS.Len() != 0 || nilDS.IndexOf(1) != -1 {
		t.Error("nil dataset should behave as empty")
	}
	if _, ok := nilDS.Find(1); ok {
		t.Error("nil dataset Find should miss")
	}
}
