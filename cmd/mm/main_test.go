package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/dataset"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"
)

func TestResolveState(t *testing.T) {
	ds := dataset.Default()

	tests := []struct {
		name    string
		id      int
		tab     string
		want    selection.State
		wantErr bool
	}{
		{"idle default", 0, "", selection.New(), false},
		{"focused default tab", 4, "", selection.Focused(4, model.TabNeeds), false},
		{"focused prefix tab", 4, "rec", selection.Focused(4, model.TabRecommendations), false},
		{"idle keeps tab", 0, "examples", selection.New().ClickTab(model.TabExamples), false},
		{"unknown tab", 1, "bogus", selection.State{}, true},
		{"unknown id", 42, "", selection.State{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveState(ds, tt.id, tt.tab)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("state = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveState_UnknownIDWrapsNotFound(t *testing.T) {
	_, err := resolveState(dataset.Default(), 11, "")
	if !errors.Is(err, dataset.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWriteJSON_Principles(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, dataset.Default()); err != nil {
		t.Fatal(err)
	}

	var out model.Dataset
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Len() != 10 {
		t.Errorf("principles = %d, want 10", out.Len())
	}
	if !strings.Contains(buf.String(), "\n  ") {
		t.Error("output should be indented")
	}
}

func TestBuildRobotLayout(t *testing.T) {
	ds := dataset.Default()
	got := buildRobotLayout(ds, selection.Focused(2, model.TabNeeds))

	if len(got.Nodes) != ds.Len() {
		t.Fatalf("nodes = %d", len(got.Nodes))
	}
	for _, n := range got.Nodes {
		if n.ID == 2 && !n.Selected {
			t.Error("node 2 should be selected")
		}
	}
	if got.Canvas.Width == 0 {
		t.Error("canvas missing")
	}
}

func TestBuildRobotView(t *testing.T) {
	ds := dataset.Default()

	idle := buildRobotView(ds, selection.New())
	if idle.View.Prompt == nil {
		t.Error("idle view should carry the prompt")
	}

	focused := buildRobotView(ds, selection.Focused(6, model.TabExamples))
	if focused.View.Header == nil || focused.View.Header.Name != "Customer Support" {
		t.Errorf("header = %+v", focused.View.Header)
	}

	var buf bytes.Buffer
	if err := writeJSON(&buf, focused); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"selected_id": 6`) {
		t.Errorf("robot view JSON missing state: %s", buf.String())
	}
}

func TestRenderPrint(t *testing.T) {
	var buf bytes.Buffer
	if err := renderPrint(&buf, dataset.Default(), selection.Focused(9, model.TabNeeds), 80); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Sustainability") {
		t.Errorf("print output missing principle name:\n%s", buf.String())
	}
}

func TestRunExports_NoFlags(t *testing.T) {
	ran, err := runExports(context.Background(), dataset.Default(), selection.New(), "", exportFlags{}, &bytes.Buffer{})
	if ran || err != nil {
		t.Errorf("ran = %v, err = %v", ran, err)
	}
}

func TestRunExports_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	f := exportFlags{
		SVG:      filepath.Join(dir, "map.svg"),
		Markdown: filepath.Join(dir, "map.md"),
	}

	var out bytes.Buffer
	ran, err := runExports(context.Background(), dataset.Default(), selection.New(), "Test", f, &out)
	if !ran || err != nil {
		t.Fatalf("ran = %v, err = %v", ran, err)
	}
	for _, p := range []string{f.SVG, f.Markdown} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing %s: %v", p, err)
		}
	}
	if got := strings.Count(out.String(), "Wrote "); got != 2 {
		t.Errorf("reported %d paths:\n%s", got, out.String())
	}
}

func TestPreviewAddr(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		flag    string
		preview bool
		want    string
	}{
		{"", false, ""},
		{":8080", false, ":8080"},
		{":8080", true, ":8080"},
		{"", true, cfg.Serve.Addr},
	}
	for _, tt := range tests {
		if got := previewAddr(tt.flag, tt.preview, cfg); got != tt.want {
			t.Errorf("previewAddr(%q, %v) = %q, want %q", tt.flag, tt.preview, got, tt.want)
		}
	}
}
