package testutil

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/LFalch/broytari/internal/compiler"
	"github.com/LFalch/broytari/internal/ir"
)

// MustParse parses script source or fails the test.
func MustParse(t testing.TB, src string) []ir.Line {
	t.Helper()
	lines, err := compiler.ParseString(src)
	require.NoError(t, err, "parse script")
	return lines
}

// Script joins lines with newlines, for readable multi-line scripts in tests.
func Script(lines ...string) string {
	return strings.Join(lines, "\n")
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
