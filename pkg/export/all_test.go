package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/mindmap/pkg/dataset"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"
)

func TestExportAll_WritesEveryFormat(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	paths, err := ExportAll(context.Background(), dataset.Default(), AllOptions{
		Dir:   dir,
		State: selection.Focused(7, model.TabRecommendations),
	})
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(paths) != len(AllFormats) {
		t.Fatalf("got %d paths, want %d", len(paths), len(AllFormats))
	}
	for _, ext := range []string{".html", ".md", ".png", ".svg"} {
		path := filepath.Join(dir, "mindmap"+ext)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("%s not written: %v", path, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", path)
		}
	}
}

func TestExportAll_SubsetAndBaseName(t *testing.T) {
	dir := t.TempDir()
	paths, err := ExportAll(context.Background(), dataset.Default(), AllOptions{
		Dir:      dir,
		BaseName: "principles",
		Formats:  []string{"SVG", FormatMarkdown},
	})
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	want := []string{filepath.Join(dir, "principles.md"), filepath.Join(dir, "principles.svg")}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("paths = %v, want %v", paths, want)
	}
}

func TestExportAll_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := ExportAll(ctx, nil, AllOptions{Dir: t.TempDir()}); err == nil {
		t.Error("expected error for nil dataset")
	}
	if _, err := ExportAll(ctx, dataset.Default(), AllOptions{}); err == nil {
		t.Error("expected error for missing dir")
	}
	_, err := ExportAll(ctx, dataset.Default(), AllOptions{Dir: t.TempDir(), Formats: []string{"pdf"}})
	if err == nil || !strings.Contains(err.Error(), "pdf") {
		t.Errorf("expected unsupported format error, got %v", err)
	}
}

func TestExportAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExportAll(ctx, dataset.Default(), AllOptions{Dir: t.TempDir()}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestWizardConfig_Options(t *testing.T) {
	cfg := WizardConfig{Formats: []string{"svg"}, OutputDir: "out", SelectedID: 4, Tab: "ex"}
	opts := cfg.Options()
	if opts.State != selection.Focused(4, model.TabExamples) {
		t.Errorf("state = %v", opts.State)
	}
	if opts.Dir != "out" || len(opts.Formats) != 1 {
		t.Errorf("opts = %+v", opts)
	}

	idle := WizardConfig{OutputDir: "out"}.Options()
	if !idle.State.IsIdle() {
		t.Errorf("no selection should be idle, got %v", idle.State)
	}
}

func TestWizardConfig_SaveLoad(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if got, err := LoadWizardConfig(); err != nil || got != nil {
		t.Fatalf("expected no saved config, got %v %v", got, err)
	}
	want := &WizardConfig{Formats: []string{"png", "md"}, OutputDir: "/tmp/x", Title: "T", SelectedID: 2, Tab: "needs"}
	if err := SaveWizardConfig(want); err != nil {
		t.Fatalf("SaveWizardConfig: %v", err)
	}
	got, err := LoadWizardConfig()
	if err != nil {
		t.Fatalf("LoadWizardConfig: %v", err)
	}
	if got.OutputDir != want.OutputDir || got.SelectedID != 2 || strings.Join(got.Formats, ",") != "png,md" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"", 10, nil},
		{"one two three", 0, nil},
		{"one two three", 7, []string{"one two", "three"}},
		{"one two three", 20, []string{"one two three"}},
		{"supercalifragilistic ok", 6, []string{"super…", "ok"}},
	}
	for _, tc := range tests {
		got := wrapText(tc.in, tc.width)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tc.in, tc.width, got, tc.want)
		}
	}
}
