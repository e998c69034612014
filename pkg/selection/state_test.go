package selection

import (
	"encoding/json"
	"testing"

	"github.com/vanderheijden86/mindmap/pkg/model"

	"pgregory.net/rapid"
)

func TestNew_IsIdleOnNeeds(t *testing.T) {
	s := New()
	if !s.IsIdle() || s.Phase() != PhaseIdle {
		t.Fatalf("New() = %v, want Idle", s)
	}
	if s.Tab != model.TabNeeds {
		t.Errorf("initial tab = %q, want needs", s.Tab)
	}
}

func TestClickNode_Toggle(t *testing.T) {
	s := New().ClickNode(3)
	if s != Focused(3, model.TabNeeds) {
		t.Fatalf("after first click: %v", s)
	}
	s = s.ClickNode(3)
	if !s.IsIdle() {
		t.Fatalf("clicking the selected node again should deselect, got %v", s)
	}
}

func TestClickNode_SwitchResetsTab(t *testing.T) {
	s := Focused(2, model.TabExamples).ClickNode(5)
	if s.SelectedID != 5 || s.Tab != model.TabNeeds {
		t.Fatalf("switching selection from examples = %v, want Focused(5, needs)", s)
	}
}

func TestClickNode_IgnoresInvalidID(t *testing.T) {
	s := Focused(2, model.TabExamples)
	if got := s.ClickNode(0); got != s {
		t.Errorf("ClickNode(0) changed state to %v", got)
	}
	if got := s.ClickNode(-4); got != s {
		t.Errorf("ClickNode(-4) changed state to %v", got)
	}
}

func TestClickQuick_SelectsWithoutToggle(t *testing.T) {
	s := New().ClickQuick(7)
	if s != Focused(7, model.TabNeeds) {
		t.Fatalf("ClickQuick from Idle = %v", s)
	}
	if again := s.ClickQuick(7); again != s {
		t.Errorf("ClickQuick on the selected entry should not deselect, got %v", again)
	}
	if other := Focused(7, model.TabExamples).ClickQuick(2); other != Focused(2, model.TabNeeds) {
		t.Errorf("ClickQuick on another entry = %v", other)
	}
}

func TestClickTab_KeepsSelection(t *testing.T) {
	s := Focused(4, model.TabNeeds).ClickTab(model.TabRecommendations)
	if s != Focused(4, model.TabRecommendations) {
		t.Fatalf("ClickTab = %v", s)
	}
	if got := s.ClickTab("bogus"); got != s {
		t.Errorf("unknown tab should be ignored, got %v", got)
	}
}

func TestClickTab_WhileIdleStaysIdle(t *testing.T) {
	s := New().ClickTab(model.TabExamples)
	if !s.IsIdle() {
		t.Fatalf("tab click while idle selected something: %v", s)
	}
	if next := s.ClickNode(1); next.Tab != model.TabNeeds {
		t.Errorf("selecting after idle tab click should reset to needs, got %v", next)
	}
}

func TestTabSequenceNeverChangesSelection(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := rapid.IntRange(1, 10).Draw(t, "id")
		s := Focused(id, model.DefaultTab)
		clicks := rapid.SliceOf(rapid.SampledFrom(model.Tabs)).Draw(t, "tabs")
		for _, tab := range clicks {
			s = s.ClickTab(tab)
			if s.SelectedID != id {
				t.Fatalf("tab %q changed selection to %d", tab, s.SelectedID)
			}
		}
		if len(clicks) > 0 && s.Tab != clicks[len(clicks)-1] {
			t.Fatalf("active tab %q, want last clicked %q", s.Tab, clicks[len(clicks)-1])
		}
	})
}

func TestAnyEventSequenceKeepsStateWellFormed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := New()
		steps := rapid.IntRange(0, 50).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			prev := s
			switch rapid.IntRange(0, 2).Draw(t, "event") {
			case 0:
				id := rapid.IntRange(1, 10).Draw(t, "node")
				s = s.ClickNode(id)
				if prev.SelectedID == id && !s.IsIdle() {
					t.Fatalf("%v ClickNode(%d) should toggle off, got %v", prev, id, s)
				}
				if prev.SelectedID != id && s != Focused(id, model.TabNeeds) {
					t.Fatalf("%v ClickNode(%d) = %v", prev, id, s)
				}
			case 1:
				id := rapid.IntRange(1, 10).Draw(t, "quick")
				s = s.ClickQuick(id)
				if s.SelectedID != id {
					t.Fatalf("%v ClickQuick(%d) = %v", prev, id, s)
				}
			case 2:
				s = s.ClickTab(rapid.SampledFrom(model.Tabs).Draw(t, "tab"))
				if s.SelectedID != prev.SelectedID {
					t.Fatalf("tab click changed selection: %v -> %v", prev, s)
				}
			}
			if !s.Tab.IsValid() {
				t.Fatalf("invalid tab %q", s.Tab)
			}
		}
	})
}

func TestFocused_NormalizesInput(t *testing.T) {
	if s := Focused(0, model.TabExamples); !s.IsIdle() {
		t.Errorf("Focused(0) should be idle, got %v", s)
	}
	if s := Focused(2, "junk"); s.Tab != model.DefaultTab {
		t.Errorf("Focused with junk tab = %v", s)
	}
}

func TestDeselectAndReset(t *testing.T) {
	s := Focused(9, model.TabExamples)
	if d := s.Deselect(); !d.IsIdle() {
		t.Errorf("Deselect = %v", d)
	}
	if r := s.Reset(); r != New() {
		t.Errorf("Reset = %v", r)
	}
}

func TestState_JSONRoundTrip(t *testing.T) {
	s := Focused(6, model.TabRecommendations)
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"selected_id":6,"tab":"recommendations"}` {
		t.Errorf("json = %s", data)
	}
	var back State
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back != s {
		t.Errorf("round trip = %v, want %v", back, s)
	}
}

func TestState_String(t *testing.T) {
	if New().String() != "Idle" {
		t.Errorf("New().String() = %q", New().String())
	}
	if got := Focused(3, model.TabExamples).String(); got != "Focused(3, examples)" {
		t.Errorf("String() = %q", got)
	}
}
