package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProjectDataset(t *testing.T, root string) string {
	t.Helper()
	dir := filepath.Join(root, ProjectDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, ProjectDatasetName)
	if err := os.WriteFile(path, []byte("principles: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFindProjectDataset_WalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeProjectDataset(t, root)

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, ok := findProjectDataset(nested)
	if !ok {
		t.Fatal("expected to find project dataset")
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindProjectDataset_NotFound(t *testing.T) {
	root := t.TempDir()
	if _, ok := findProjectDataset(root); ok {
		t.Error("expected no dataset in empty tree")
	}
}

func TestFindProjectDataset_IgnoresDirectoryNamedLikeFile(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ProjectDirName, ProjectDatasetName), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, ok := findProjectDataset(root); ok {
		t.Error("a directory named principles.yaml is not a dataset")
	}
}

func TestResolveDatasetPath_Priority(t *testing.T) {
	root := t.TempDir()
	project := writeProjectDataset(t, root)

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(root); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := DefaultConfig()
	cfg.Dataset.Path = "/configured.yaml"

	if got := ResolveDatasetPath("/flag.yaml", cfg); got != "/flag.yaml" {
		t.Errorf("flag should win, got %q", got)
	}
	got := ResolveDatasetPath("", cfg)
	// macOS temp dirs resolve through /private; compare real paths.
	gotReal, _ := filepath.EvalSymlinks(got)
	wantReal, _ := filepath.EvalSymlinks(project)
	if gotReal != wantReal {
		t.Errorf("project dataset should beat config, got %q want %q", got, project)
	}
}
