package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/LFalch/broytari/internal/ir"
)

// Snapshot renders the golden content of a scenario run as canonical JSON.
// An aborted run records its error instead of a run snapshot.
func Snapshot(s *Scenario, r *Result) ([]byte, error) {
	snap := map[string]any{"scenario": s.Name}
	if r.RunErr != nil {
		snap["error"] = r.RunErr.Error()
	} else {
		snap["run"] = r.Run.Snapshot()
	}
	data, err := ir.MarshalCanonical(snap)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.Name, err)
	}
	return data, nil
}

// GoldenDir is where the golden files of scenarios in dir live.
func GoldenDir(dir string) string {
	return filepath.Join(dir, "golden")
}

// GoldenPath returns <scenario dir>/golden/<name>.golden.
func GoldenPath(s *Scenario) string {
	return filepath.Join(GoldenDir(filepath.Dir(s.Path)), s.Name+".golden")
}

// UpdateGolden writes the current snapshot as the golden file.
func UpdateGolden(s *Scenario, r *Result) error {
	data, err := Snapshot(s, r)
	if err != nil {
		return err
	}
	path := GoldenPath(s)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the snapshot matches the golden file. A
// missing golden file returns an error satisfying errors.Is(err, os.ErrNotExist).
func CompareGolden(s *Scenario, r *Result) (bool, error) {
	want, err := os.ReadFile(GoldenPath(s))
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := Snapshot(s, r)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}

// RunWithGolden executes a scenario, fails t on any unmet expectation and
// compares the snapshot against the golden file via goldie.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	result, err := Run(context.Background(), s)
	if err != nil {
		t.Fatalf("scenario %s: %v", s.Name, err)
	}
	for _, e := range result.Errors {
		t.Errorf("scenario %s: %s", s.Name, e)
	}

	data, err := Snapshot(s, result)
	if err != nil {
		t.Fatalf("scenario %s: %v", s.Name, err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir(filepath.Dir(s.Path))),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)
	return result
}
