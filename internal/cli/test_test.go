package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const passingScenario = `name: voicing
description: plosives voice between vowels
script: |
  %category V : a
  p t k > b d g / V_V
words: [apa, pa]
expect:
  words: [aba, pa]
`

const failingScenario = `name: wrong
description: expects the wrong output
script: "a > e"
words: [ta]
expect:
  words: [to]
`

func TestTestCommand_HarnessScenarios(t *testing.T) {
	stdout, _, err := execute(t, "test", harnessScenarios)
	require.NoError(t, err, stdout)
	assert.Contains(t, stdout, "✓ linked_correspondence")
	assert.Contains(t, stdout, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "test", harnessScenarios, "--filter", "*stage*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, resp.Data.Passed)
}

func TestTestCommand_Failure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "voicing.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	stdout, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✓ voicing")
	assert.Contains(t, stdout, "✗ wrong")
	assert.Contains(t, stdout, "expect.words failed")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_FailureJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wrong.yaml", failingScenario)

	stdout, _, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
}

func TestTestCommand_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "voicing.yaml", passingScenario)

	stdout, _, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ voicing (golden updated)")
	golden := filepath.Join(dir, "golden", "voicing.golden")
	assert.FileExists(t, golden)

	_, _, err = execute(t, "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario":"voicing"}`), 0o644))
	stdout, _, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "does not match golden file")
}

func TestTestCommand_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "name: bad\ndescription: no script\nexpect: {}\nunknown: 1\n")

	stdout, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ bad.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTestCommand_Empty(t *testing.T) {
	stdout, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "No scenarios found.\n", stdout)
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}
