package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFalch/broytari/internal/phonology"
)

func TestDemoPhonology(t *testing.T) {
	ph := DemoPhonology()

	assert.Equal(t, []string{
		"plosive", "nasal", "fricative", "approximant", "rhotic",
		"labial", "alveolar", "palatal", "velar", "glottal",
	}, ph.CategoryNames())
	assert.Equal(t, []string{"voiced"}, ph.FeatureNames())

	voiced, ok := ph.Feature("voiced")
	require.True(t, ok)
	assert.Equal(t, phonology.Plus, voiced.Value("ng"))
	assert.Equal(t, phonology.Minus, voiced.Value("kj"))
}

func TestDemo_Text(t *testing.T) {
	stdout, _, err := execute(t, "demo")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 18)
	assert.Equal(t, "p: [plosive] [labial] [-voiced]", lines[0])
	assert.Contains(t, lines, "ng: [nasal] [velar] [+voiced]")
	assert.Contains(t, lines, "h: [fricative] [glottal] [-voiced]")
	assert.Contains(t, lines, "r: [rhotic] [alveolar] [+voiced]")
}

func TestDemo_IsDefault(t *testing.T) {
	demo, _, err := execute(t, "demo")
	require.NoError(t, err)

	bare, _, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, demo, bare)
}

func TestDemo_JSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "demo")
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   phonology.Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Entries, 18)
	assert.Equal(t, []string{"plosive", "labial"}, resp.Data.Entries[0].Categories)
}
