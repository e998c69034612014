// This file implements the interactive export wizard for --export-wizard.
// It collects formats, output directory, title and an initial selection,
// then hands the result to ExportAll.

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vanderheijden86/mindmap/pkg/config"
	"github.com/vanderheijden86/mindmap/pkg/model"
	"github.com/vanderheijden86/mindmap/pkg/selection"

	"github.com/charmbracelet/huh"
	"github.com/goccy/go-json"
	"golang.org/x/term"
)

// WizardConfig holds the answers of a wizard run. It is saved so the next
// run can offer the same settings.
type WizardConfig struct {
	Formats    []string `json:"formats"`
	OutputDir  string   `json:"output_dir"`
	Title      string   `json:"title,omitempty"`
	SelectedID int      `json:"selected_id,omitempty"`
	Tab        string   `json:"tab,omitempty"`
}

// Options converts the answers into ExportAll options.
func (c WizardConfig) Options() AllOptions {
	state := selection.New()
	if c.SelectedID > 0 {
		tab, err := model.ParseTab(c.Tab)
		if err != nil {
			tab = model.DefaultTab
		}
		state = selection.Focused(c.SelectedID, tab)
	}
	return AllOptions{
		Dir:     c.OutputDir,
		Title:   c.Title,
		Formats: c.Formats,
		State:   state,
	}
}

// Wizard handles the interactive export flow.
type Wizard struct {
	config  *WizardConfig
	dataset *model.Dataset
}

// NewWizard creates a wizard over ds, seeded from the user config.
func NewWizard(ds *model.Dataset, cfg config.Config) *Wizard {
	return &Wizard{
		config: &WizardConfig{
			Formats:   append([]string(nil), AllFormats...),
			OutputDir: cfg.Export.Dir,
			Title:     cfg.Export.Title,
			Tab:       string(model.DefaultTab),
		},
		dataset: ds,
	}
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run executes the wizard and returns the collected configuration.
func (w *Wizard) Run() (*WizardConfig, error) {
	fmt.Println("")
	fmt.Println("mm export wizard")
	fmt.Println("────────────────")
	fmt.Println("")

	if saved, err := LoadWizardConfig(); err == nil && saved != nil && len(saved.Formats) > 0 {
		useSaved := true
		form := newForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title("Reuse the settings from the last export?").
					Description(fmt.Sprintf("%s into %s", strings.Join(saved.Formats, ", "), saved.OutputDir)).
					Value(&useSaved).
					Affirmative("Yes").
					Negative("No, reconfigure"),
			),
		)
		if err := form.Run(); err != nil {
			return nil, err
		}
		if useSaved {
			w.config = saved
			return w.config, nil
		}
	}

	if err := w.collectOutput(); err != nil {
		return nil, err
	}
	if err := w.collectSelection(); err != nil {
		return nil, err
	}

	if err := SaveWizardConfig(w.config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save wizard settings: %v\n", err)
	}
	return w.config, nil
}

func (w *Wizard) collectOutput() error {
	form := newForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Formats").
				Options(
					huh.NewOption("SVG image", FormatSVG).Selected(true),
					huh.NewOption("PNG image", FormatPNG).Selected(true),
					huh.NewOption("Interactive HTML page", FormatHTML).Selected(true),
					huh.NewOption("Markdown report", FormatMarkdown).Selected(true),
				).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("pick at least one format")
					}
					return nil
				}).
				Value(&w.config.Formats),
			huh.NewInput().
				Title("Output directory").
				Value(&w.config.OutputDir).
				Placeholder("mindmap-export").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Title (optional)").
				Value(&w.config.Title).
				Placeholder(w.dataset.Title),
		),
	)
	return form.Run()
}

func (w *Wizard) collectSelection() error {
	options := []huh.Option[string]{huh.NewOption("None (overview)", "0")}
	for _, p := range w.dataset.Principles {
		options = append(options, huh.NewOption(fmt.Sprintf("%d. %s", p.ID, p.Name), strconv.Itoa(p.ID)))
	}
	tabOptions := make([]huh.Option[string], len(model.Tabs))
	for i, t := range model.Tabs {
		tabOptions[i] = huh.NewOption(t.Title(), string(t))
	}

	selected := strconv.Itoa(w.config.SelectedID)
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Highlight a principle").
				Options(options...).
				Value(&selected),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Open tab").
				Options(tabOptions...).
				Value(&w.config.Tab),
		).WithHideFunc(func() bool { return selected == "0" }),
	)
	if err := form.Run(); err != nil {
		return err
	}
	w.config.SelectedID, _ = strconv.Atoi(selected)
	return nil
}

// WizardConfigPath returns the path to the wizard config file.
func WizardConfigPath() string {
	dir := config.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "export-wizard.json")
}

// LoadWizardConfig loads previously saved wizard configuration.
func LoadWizardConfig() (*WizardConfig, error) {
	path := WizardConfigPath()
	if path == "" {
		return nil, fmt.Errorf("could not determine config path")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No saved config
		}
		return nil, err
	}

	var cfg WizardConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveWizardConfig saves wizard configuration for future runs.
func SaveWizardConfig(cfg *WizardConfig) error {
	path := WizardConfigPath()
	if path == "" {
		return fmt.Errorf("could not determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
