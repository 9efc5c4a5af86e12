package engine

import (
	"github.com/LFalch/broytari/internal/ir"
)

// Snapshot renders the result in the value shape accepted by
// ir.MarshalCanonical. The run ID is left out so identical runs produce
// identical snapshots.
func (r *Result) Snapshot() map[string]any {
	words := make([]any, len(r.Words))
	for i, w := range r.Words {
		in := ""
		if i < len(r.Input) {
			in = r.Input[i]
		}
		words[i] = map[string]any{"input": in, "output": w}
	}

	steps := make([]any, len(r.Steps))
	for i, s := range r.Steps {
		changes := make([]any, len(s.Changes))
		for j, c := range s.Changes {
			changes[j] = map[string]any{"index": c.Index, "before": c.Before, "after": c.After}
		}
		step := map[string]any{
			"seq":     s.Seq,
			"line":    s.Line,
			"stage":   s.Stage,
			"rule":    s.Rule,
			"special": nonNil(s.Special),
			"changes": changes,
		}
		if s.Err != nil {
			step["error"] = s.Err.Error()
		}
		steps[i] = step
	}

	return map[string]any{
		"stage":       r.Stage,
		"stage_found": r.StageFound,
		"report":      r.Phonology.Report().Canonical(),
		"words":       words,
		"steps":       steps,
		"rule_errors": errorStrings(r.RuleErrors),
		"warnings":    errorStrings(r.Warnings),
	}
}

// SnapshotHash is the content hash of Snapshot.
func (r *Result) SnapshotHash() (string, error) {
	return ir.SnapshotHash(r.Snapshot())
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
