package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario is one conformance case: a script, a word list and what the run
// must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Script is inline script source. Exactly one of Script and ScriptFile
	// is set.
	Script string `yaml:"script,omitempty"`

	// ScriptFile is a path to a script, relative to the scenario file.
	ScriptFile string `yaml:"script_file,omitempty"`

	Words  []string `yaml:"words,omitempty"`
	Stage  string   `yaml:"stage,omitempty"`
	Strict bool     `yaml:"strict,omitempty"`

	// RunID fixes the run ID. If empty, "run-<name>" is used so golden
	// files stay stable.
	RunID string `yaml:"run_id,omitempty"`

	Expect Expect `yaml:"expect"`

	// Path is the file the scenario was loaded from, if any.
	Path string `yaml:"-"`
}

// Expect lists what a run must produce. Absent fields are not checked.
type Expect struct {
	// Words is the exact final word list.
	Words []string `yaml:"words,omitempty"`

	// Report is the exact text report, one line per tagged phone.
	Report []string `yaml:"report,omitempty"`

	// RuleErrors holds one substring per expected rule error, in order.
	// An explicitly empty list asserts that no rule was rejected.
	RuleErrors []string `yaml:"rule_errors"`

	// Warnings holds one substring per expected warning, in order.
	Warnings []string `yaml:"warnings,omitempty"`

	StageFound *bool `yaml:"stage_found,omitempty"`

	// Error is a substring of the error that must abort the run.
	Error string `yaml:"error,omitempty"`
}

// LoadScenario reads a scenario file, validates it against the embedded
// CUE schema and decodes it.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	s, err := ParseScenario(path, data)
	if err != nil {
		return nil, err
	}
	s.Path = path
	return s, nil
}

// ParseScenario validates and decodes scenario YAML. filename is used in
// error messages.
func ParseScenario(filename string, data []byte) (*Scenario, error) {
	if err := validateSchema(filename, data); err != nil {
		return nil, err
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks the cross-field rules the schema does not express.
func validateScenario(s *Scenario) error {
	switch {
	case s.Script == "" && s.ScriptFile == "":
		return fmt.Errorf("one of script or script_file is required")
	case s.Script != "" && s.ScriptFile != "":
		return fmt.Errorf("script and script_file are mutually exclusive")
	}
	if s.Expect.Error != "" && (s.Expect.Words != nil || s.Expect.Report != nil) {
		return fmt.Errorf("expect.error cannot be combined with expect.words or expect.report")
	}
	return nil
}

// scriptPath resolves ScriptFile relative to the scenario file.
func (s *Scenario) scriptPath() string {
	if filepath.IsAbs(s.ScriptFile) || s.Path == "" {
		return s.ScriptFile
	}
	return filepath.Join(filepath.Dir(s.Path), s.ScriptFile)
}

func (s *Scenario) runID() string {
	if s.RunID != "" {
		return s.RunID
	}
	return "run-" + s.Name
}

// FindScenarioFiles returns the .yaml and .yml files under dir, sorted. A
// non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	slices.Sort(files)
	return files, err
}
