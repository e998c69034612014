package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ProjectDirName is the per-project directory that may hold a dataset.
const ProjectDirName = ".mm"

// ProjectDatasetName is the dataset file inside ProjectDirName.
const ProjectDatasetName = "principles.yaml"

// ResolveDatasetPath picks the dataset file to load, in priority order: an
// explicit flag value, a project-local .mm/principles.yaml found from the
// working directory, then the configured path. Empty means "use the
// embedded dataset".
func ResolveDatasetPath(flagPath string, cfg Config) string {
	if p := strings.TrimSpace(flagPath); p != "" {
		return expandHome(p)
	}
	if p, ok := DetectProjectDataset(); ok {
		return p
	}
	return cfg.Dataset.Path
}

// DetectProjectDataset attempts to find a project dataset by walking up
// from the current directory looking for .mm/principles.yaml.
func DetectProjectDataset() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findProjectDataset(dir)
}

// findProjectDataset walks up from dir looking for .mm/principles.yaml.
func findProjectDataset(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, ProjectDirName, ProjectDatasetName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
