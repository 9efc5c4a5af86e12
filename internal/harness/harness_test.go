package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "testdata/scenarios"

// TestScenarios runs every scenario under testdata. Scenarios with a golden
// file are also compared byte for byte against it.
func TestScenarios(t *testing.T) {
	files, err := FindScenarioFiles(scenarioDir, "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(file)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name, "scenario name matches its file name")

			if _, err := os.Stat(GoldenPath(s)); err == nil {
				result := RunWithGolden(t, s)
				assert.True(t, result.Pass)
				return
			}

			result, err := Run(context.Background(), s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestFindScenarioFiles_Filter(t *testing.T) {
	files, err := FindScenarioFiles(scenarioDir, "*stage*")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, filepath.Join(scenarioDir, "missing_stage.yaml"), files[0])
	assert.Equal(t, filepath.Join(scenarioDir, "stage_truncation.yaml"), files[1])

	_, err = FindScenarioFiles(scenarioDir, "[")
	assert.Error(t, err)
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	s := mustParse(t, `
name: wrong_expectations
description: every expectation is wrong
script: |
  %category V : a
  =# Old
  a > e
  a > [nope]
words: [ta]
stage: Middle
expect:
  words: [ta]
  report: ["a: [W]"]
  rule_errors: []
  warnings: []
  stage_found: true
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 5)
	assert.Contains(t, result.Errors[0], "expect.words failed (-want +got)")
	assert.Contains(t, result.Errors[0], "te")
	assert.Contains(t, result.Errors[1], "expect.report failed")
	assert.Contains(t, result.Errors[2], "expect.rule_errors failed")
	assert.Contains(t, result.Errors[3], "expect.warnings failed")
	assert.Contains(t, result.Errors[4], "expect.stage_found failed")
}

func TestRun_ExpectedErrorMissing(t *testing.T) {
	s := mustParse(t, `
name: no_error
description: the run succeeds although an error is expected
script: "a > e"
expect:
  error: UNDECLARED_REFERENCE
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "run succeeded")
}

func TestRun_UnexpectedRunError(t *testing.T) {
	s := mustParse(t, `
name: unexpected
description: a syntax error nobody expected
script: "p b"
expect:
  words: []
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Nil(t, result.Run)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "run failed")
}

func TestRun_MissingScriptFile(t *testing.T) {
	s := mustParse(t, `
name: missing_file
description: script file does not exist
script_file: nowhere.sc
expect: {}
`)
	s.Path = filepath.Join(t.TempDir(), "missing_file.yaml")
	_, err := Run(context.Background(), s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGolden_UpdateAndCompare(t *testing.T) {
	dir := t.TempDir()
	s := mustParse(t, `
name: roundtrip
description: golden files written by update compare equal
script: "a > e"
words: [ta]
expect:
  words: [te]
`)
	s.Path = filepath.Join(dir, "roundtrip.yaml")

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.True(t, result.Pass)

	_, err = CompareGolden(s, result)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, UpdateGolden(s, result))
	assert.FileExists(t, filepath.Join(dir, "golden", "roundtrip.golden"))

	match, err := CompareGolden(s, result)
	require.NoError(t, err)
	assert.True(t, match)

	s.Words = []string{"to"}
	changed, err := Run(context.Background(), s)
	require.NoError(t, err)
	match, err = CompareGolden(s, changed)
	require.NoError(t, err)
	assert.False(t, match)
}

func TestSnapshot_AbortedRun(t *testing.T) {
	s := mustParse(t, `
name: aborted
description: an aborted run records its error
script: "= m : nasal"
expect:
  error: nasal
`)
	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.True(t, result.Pass)

	data, err := Snapshot(s, result)
	require.NoError(t, err)
	assert.Equal(t, `{"error":"UNDECLARED_REFERENCE: line 1: undeclared category \"nasal\"","scenario":"aborted"}`, string(data))
}
