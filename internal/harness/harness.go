package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/LFalch/broytari/internal/compiler"
	"github.com/LFalch/broytari/internal/engine"
	"github.com/LFalch/broytari/internal/ir"
	"github.com/LFalch/broytari/internal/testutil"
)

// Result is the outcome of one scenario.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool

	// Errors describes every failed expectation.
	Errors []string

	// Run is the interpreter result, nil when the run aborted.
	Run *engine.Result

	// RunErr is the error that aborted the run: syntax errors, a fatal
	// undeclared reference, or a rejected rule under strict mode.
	RunErr error
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}

// Run interprets a scenario with a fixed run ID and a silent logger, then
// checks its expectations.
//
// The returned error covers problems with the scenario itself, such as an
// unreadable script_file. Failures of the script under test land in
// Result.RunErr and are judged by the expectations.
func Run(ctx context.Context, s *Scenario) (*Result, error) {
	lines, err := loadScript(s)
	result := &Result{Pass: true}
	if err != nil {
		if !compiler.IsSyntaxError(err) {
			return nil, err
		}
		result.RunErr = err
	} else {
		result.Run, result.RunErr = engine.Run(ctx, lines, s.Words, engine.Options{
			Stage:  s.Stage,
			Strict: s.Strict,
			Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
			RunIDs: testutil.NewFixedRunIDs(s.runID()),
		})
	}

	for _, e := range evaluate(s.Expect, result) {
		result.AddError(e.Error())
	}
	return result, nil
}

func loadScript(s *Scenario) ([]ir.Line, error) {
	if s.ScriptFile != "" {
		lines, err := compiler.ReadFile(s.scriptPath())
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		return lines, nil
	}
	return compiler.Parse(strings.NewReader(s.Script), s.Name+".script")
}
