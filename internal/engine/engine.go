package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/LFalch/broytari/internal/ir"
	"github.com/LFalch/broytari/internal/phonology"
)

// State is the mutable context threaded through one interpretation pass.
// It is owned by the pass and never shared.
type State struct {
	Phonology *phonology.Phonology
	Symbols   phonology.SymbolTable
	Words     []string
}

// NewState returns an empty phonology and symbol table over a copy of words.
func NewState(words []string) *State {
	return &State{
		Phonology: phonology.New(),
		Symbols:   make(phonology.SymbolTable),
		Words:     slices.Clone(words),
	}
}

// Options configures a run. The zero value interprets the whole script,
// logs through slog.Default and stamps a UUIDv7 run ID.
type Options struct {
	// Stage stops the pass at the first marker with this name. Empty makes
	// stage markers inert.
	Stage string

	// Strict turns the first rejected rule into a run failure.
	Strict bool

	Logger *slog.Logger
	RunIDs RunIDGenerator
}

// Result is the outcome of a run.
type Result struct {
	RunID string
	Stage string

	// StageFound is true when the pass stopped at the requested stage.
	StageFound bool

	Phonology *phonology.Phonology
	Symbols   phonology.SymbolTable

	Input []string
	Words []string

	// Steps has one entry per rule line reached, rejected ones included.
	Steps []Step

	Warnings   []error
	RuleErrors []error
}

// Step records one executed rule.
type Step struct {
	Seq     int64
	Line    int
	Stage   string // last stage marker passed, "" before the first
	Rule    string
	Special []string
	Changes []Change

	// Err is set when the rule was rejected. Words are then unchanged.
	Err error
}

// Change is one word rewritten by a step.
type Change struct {
	Index  int
	Before string
	After  string
}

// Err joins every rule error of the run, or returns nil.
func (r *Result) Err() error {
	return errors.Join(r.RuleErrors...)
}

// Run interprets lines over words.
//
// It returns an error, and no result, when ctx is cancelled, when a phone
// declaration references an undeclared name, or in strict mode when a rule
// is rejected.
func Run(ctx context.Context, lines []ir.Line, words []string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = UUIDv7Generator{}
	}

	st := NewState(words)
	clock := NewClock()
	res := &Result{
		RunID: runIDs.Generate(),
		Stage: opts.Stage,
		Input: slices.Clone(words),
	}
	logger.Debug("run started", "run_id", res.RunID, "lines", len(lines), "words", len(words), "stage", opts.Stage)

	current := ""
pass:
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch l := line.(type) {
		case *ir.StageLine:
			if opts.Stage != "" && l.Name == opts.Stage {
				res.StageFound = true
				logger.Debug("stage reached", "stage", l.Name, "line", l.No)
				break pass
			}
			current = l.Name

		case *ir.DirectiveLine:
			st.applyDirective(l.Directive)

		case *ir.PhoneLine:
			if err := st.declarePhone(l); err != nil {
				return nil, err
			}

		case *ir.ChangeLine:
			step := st.applyChange(l)
			step.Seq = clock.Next()
			step.Stage = current
			res.Steps = append(res.Steps, step)
			if step.Err != nil {
				if opts.Strict {
					return nil, fmt.Errorf("%w: %w", ErrStrict, step.Err)
				}
				logger.Warn("rule rejected", "line", l.No, "error", step.Err)
				res.RuleErrors = append(res.RuleErrors, step.Err)
				continue
			}
			logger.Debug("rule applied", "seq", step.Seq, "line", l.No, "changed", len(step.Changes))

		default:
			panic(fmt.Sprintf("engine: unhandled line type %T", line))
		}
	}

	if opts.Stage != "" && !res.StageFound {
		warning := &StageNotFoundError{Stage: opts.Stage}
		logger.Warn("stage not found", "stage", opts.Stage)
		res.Warnings = append(res.Warnings, warning)
	}

	res.Phonology = st.Phonology
	res.Symbols = st.Symbols
	res.Words = st.Words
	logger.Debug("run finished", "run_id", res.RunID, "steps", len(res.Steps), "rule_errors", len(res.RuleErrors))
	return res, nil
}

func (st *State) applyDirective(d ir.Directive) {
	switch d.Kind {
	case ir.DirectiveCategory:
		c := st.Phonology.AddCategory(d.Name)
		for _, p := range d.Phones {
			c.Add(p)
		}
	case ir.DirectiveFeature:
		f := st.Phonology.AddFeature(d.Name)
		for _, p := range d.Plus {
			f.Plus(p)
		}
		for _, p := range d.Minus {
			f.Minus(p)
		}
	case ir.DirectiveSymbol:
		st.Symbols.Set(d.Symbol, d.Phones, d.Qualifiers)
	default:
		panic(fmt.Sprintf("engine: unhandled directive kind %v", d.Kind))
	}
}

// declarePhone re-qualifies a phone. Every name is checked before the phone
// is cleared, so a failed declaration leaves the phonology untouched.
func (st *State) declarePhone(l *ir.PhoneLine) error {
	for _, q := range l.Qualifiers {
		if q.Kind == ir.QualCat {
			if _, ok := st.Phonology.Category(q.Name); !ok {
				return &UndeclaredReferenceError{Line: l.No, Kind: "category", Name: q.Name}
			}
		} else if _, ok := st.Phonology.Feature(q.Name); !ok {
			return &UndeclaredReferenceError{Line: l.No, Kind: "feature", Name: q.Name}
		}
	}

	st.Phonology.ClearPhone(l.Phone)
	for _, q := range l.Qualifiers {
		switch q.Kind {
		case ir.QualCat:
			c, _ := st.Phonology.Category(q.Name)
			c.Add(l.Phone)
		case ir.QualPlus:
			f, _ := st.Phonology.Feature(q.Name)
			f.Plus(l.Phone)
		case ir.QualMinus:
			f, _ := st.Phonology.Feature(q.Name)
			f.Minus(l.Phone)
		case ir.QualZero:
			f, _ := st.Phonology.Feature(q.Name)
			f.Zero(l.Phone)
		}
	}
	return nil
}

// applyChange compiles the rule against the current state and rewrites every
// word. On error the word list is left as it was.
func (st *State) applyChange(l *ir.ChangeLine) Step {
	step := Step{
		Line:    l.No,
		Rule:    l.Change.String(),
		Special: slices.Clone(l.Change.Special),
	}

	lx := newLexicon(st.Phonology, st.Symbols)
	r, err := compileRule(lx, l.Change)
	if err != nil {
		step.Err = attachRule(err, l.No, step.Rule)
		return step
	}

	for i, w := range st.Words {
		after := r.rewrite(lx, w)
		if after != w {
			step.Changes = append(step.Changes, Change{Index: i, Before: w, After: after})
			st.Words[i] = after
		}
	}
	return step
}

// Apply runs a single sound change over words against a fixed phonology and
// symbol table. It does not mutate its inputs.
func Apply(ph *phonology.Phonology, symbols phonology.SymbolTable, sc ir.SoundChange, words []string) ([]string, error) {
	lx := newLexicon(ph, symbols)
	r, err := compileRule(lx, sc)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = r.rewrite(lx, w)
	}
	return out, nil
}
