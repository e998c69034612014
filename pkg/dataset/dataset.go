// Package dataset loads the principle table rendered by the mind map.
//
// The default table is embedded in the binary (principles.yaml) and parsed
// once on first use. A replacement table can be loaded from any YAML file
// with the same shape; every table is validated before it is handed out:
//
//   - ids are unique and form the contiguous range 1..N
//   - needs and recommendations are non-empty, a user quote is present
//   - colors are #RRGGBB
//
// Callers treat the returned *model.Dataset as read-only.
package dataset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/vanderheijden86/mindmap/pkg/model"

	"gopkg.in/yaml.v3"
)

//go:embed principles.yaml
var embedded []byte

var (
	defaultOnce sync.Once
	defaultDS   *model.Dataset
	defaultErr  error
)

// Default returns the embedded dataset. It panics if the embedded table is
// invalid, which can only happen through a broken build.
func Default() *model.Dataset {
	defaultOnce.Do(func() {
		defaultDS, defaultErr = Parse(embedded)
	})
	if defaultErr != nil {
		panic(fmt.Sprintf("embedded principles.yaml: %v", defaultErr))
	}
	return defaultDS
}

// Embedded returns the raw embedded YAML, e.g. to seed a user copy.
func Embedded() []byte {
	return append([]byte(nil), embedded...)
}

// Load reads and validates a dataset from a YAML file.
func Load(path string) (*model.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// LoadOrDefault loads path when it is non-empty and falls back to the
// embedded table otherwise.
func LoadOrDefault(path string) (*model.Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (*model.Dataset, error) {
	var ds model.Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	if err := Validate(&ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// ErrNotFound is returned by Lookup for an id that is not in the table.
var ErrNotFound = errors.New("principle not found")

// Lookup returns the principle with the given id.
func Lookup(ds *model.Dataset, id int) (*model.Principle, error) {
	if p, ok := ds.Find(id); ok {
		return p, nil
	}
	return nil, fmt.Errorf("principle %d: %w", id, ErrNotFound)
}

// ValidationError aggregates every invariant a dataset violates.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid dataset: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid dataset (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the dataset invariants.
func Validate(ds *model.Dataset) error {
	if ds == nil || len(ds.Principles) == 0 {
		return &ValidationError{Problems: []string{"no principles defined"}}
	}

	var problems []string
	seen := make(map[int]bool, len(ds.Principles))
	ids := make([]int, 0, len(ds.Principles))
	for i := range ds.Principles {
		p := &ds.Principles[i]
		if err := p.Validate(); err != nil {
			problems = append(problems, err.Error())
		}
		if seen[p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate principle id %d", p.ID))
			continue
		}
		seen[p.ID] = true
		ids = append(ids, p.ID)
	}

	sort.Ints(ids)
	for want, id := range ids {
		if id != want+1 {
			problems = append(problems, fmt.Sprintf("principle ids must form the range 1..%d (missing %d)", len(ds.Principles), want+1))
			break
		}
	}

	if len(ds.CenterLabel) > 2 {
		problems = append(problems, fmt.Sprintf("center label has %d lines, at most 2 fit", len(ds.CenterLabel)))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
