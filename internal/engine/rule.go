package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/LFalch/broytari/internal/ir"
)

// environment is a compiled "/" clause.
type environment struct {
	exception bool
	fromStart bool
	toEnd     bool
	before    pattern
	after     pattern
}

// rule is a sound change compiled against one state.
type rule struct {
	from pattern
	to   pattern

	// target maps a from-alternative to its to-alternative; -1 deletes.
	target []int

	// order lists from-alternatives longest first, then in declaration order.
	order []int

	envs []environment
}

// compileRule resolves a sound change against the lexicon. Every error it
// returns rejects the whole rule.
func compileRule(lx *lexicon, sc ir.SoundChange) (*rule, error) {
	from, err := lx.compile(sc.From)
	if err != nil {
		return nil, err
	}
	to, err := lx.compile(sc.To)
	if err != nil {
		return nil, err
	}

	r := &rule{from: from, to: to}
	for _, e := range sc.Environments {
		before, err := lx.compile(e.Before)
		if err != nil {
			return nil, err
		}
		after, err := lx.compile(e.After)
		if err != nil {
			return nil, err
		}
		r.envs = append(r.envs, environment{
			exception: e.Exception,
			fromStart: e.FromStart,
			toEnd:     e.ToEnd,
			before:    before,
			after:     after,
		})
	}

	if len(r.from) == 0 {
		if len(r.to) == 0 {
			return nil, &RuleConfigurationError{Message: "rule has neither a source nor a target"}
		}
		if !anchored(sc.Environments) {
			return nil, &RuleConfigurationError{Message: "insertion needs an anchoring environment"}
		}
		r.from = pattern{{}}
	}

	r.target = make([]int, len(r.from))
	switch {
	case len(r.to) == 0:
		for i := range r.target {
			r.target[i] = -1
		}
	case len(r.to) == len(r.from):
		for i := range r.target {
			r.target[i] = i
		}
	case len(r.to) == 1:
		// Every source alternative rewrites to the single target.
	default:
		return nil, &RuleConfigurationError{Message: fmt.Sprintf(
			"%d source alternatives cannot map to %d target alternatives", len(r.from), len(r.to))}
	}

	for i, t := range r.target {
		if t < 0 {
			continue
		}
		if err := checkLinks(r.from[i], r.to[t]); err != nil {
			return nil, err
		}
	}

	r.order = make([]int, len(r.from))
	for i := range r.order {
		r.order[i] = i
	}
	slices.SortStableFunc(r.order, func(a, b int) int {
		return cmp.Compare(len(r.from[b]), len(r.from[a]))
	})
	return r, nil
}

func anchored(envs []ir.Environment) bool {
	for _, e := range envs {
		if !e.Exception && e.Anchored() {
			return true
		}
	}
	return false
}

// checkLinks verifies that every class in to can be resolved. The k-th class
// of to links to the k-th class of from and needs at least as many members.
// An unlinked class takes its first member, so it must not be empty.
func checkLinks(from, to []token) error {
	var sources []token
	for _, t := range from {
		if t.class {
			sources = append(sources, t)
		}
	}
	k := 0
	for _, t := range to {
		if !t.class {
			continue
		}
		if k < len(sources) {
			src := sources[k]
			if len(t.members) < len(src.members) {
				return &RuleConfigurationError{Message: fmt.Sprintf(
					"%s has %d members but is linked to %s with %d", t.text, len(t.members), src.text, len(src.members))}
			}
		} else if len(t.members) == 0 {
			return &RuleConfigurationError{Message: fmt.Sprintf("%s has no members", t.text)}
		}
		k++
	}
	return nil
}

// rewrite applies the rule to one word in a single left-to-right pass over
// its original phones.
func (r *rule) rewrite(lx *lexicon, word string) string {
	segs := lx.segment(word)
	var out []ir.Phone

	i := 0
	for i <= len(segs) {
		matched := false
		for _, ai := range r.order {
			alt := r.from[ai]
			picks, ok := matchAt(alt, segs, i)
			if !ok || !r.allowed(segs, i, i+len(alt)) {
				continue
			}
			out = append(out, r.replacement(ai, picks)...)
			if len(alt) == 0 {
				if i < len(segs) {
					out = append(out, segs[i])
				}
				i++
			} else {
				i += len(alt)
			}
			matched = true
			break
		}
		if !matched {
			if i < len(segs) {
				out = append(out, segs[i])
			}
			i++
		}
	}

	var b strings.Builder
	for _, p := range out {
		b.WriteString(string(p))
	}
	return b.String()
}

// matchAt matches alt against segs starting at at. For every class token it
// returns the index of the matched member.
func matchAt(alt []token, segs []ir.Phone, at int) ([]int, bool) {
	if at < 0 || at+len(alt) > len(segs) {
		return nil, false
	}
	var picks []int
	for k, t := range alt {
		p := segs[at+k]
		if !t.class {
			if t.phone != p {
				return nil, false
			}
			continue
		}
		idx := slices.Index(t.members, p)
		if idx < 0 {
			return nil, false
		}
		picks = append(picks, idx)
	}
	return picks, true
}

// allowed reports whether a match spanning segs[start:end] passes every
// environment. An exception must not hold.
func (r *rule) allowed(segs []ir.Phone, start, end int) bool {
	for _, e := range r.envs {
		if e.holds(segs, start, end) == e.exception {
			return false
		}
	}
	return true
}

func (e environment) holds(segs []ir.Phone, start, end int) bool {
	return e.beforeHolds(segs, start) && e.afterHolds(segs, end)
}

func (e environment) beforeHolds(segs []ir.Phone, start int) bool {
	if len(e.before) == 0 {
		return !e.fromStart || start == 0
	}
	for _, alt := range e.before {
		at := start - len(alt)
		if e.fromStart && at != 0 {
			continue
		}
		if _, ok := matchAt(alt, segs, at); ok {
			return true
		}
	}
	return false
}

func (e environment) afterHolds(segs []ir.Phone, end int) bool {
	if len(e.after) == 0 {
		return !e.toEnd || end == len(segs)
	}
	for _, alt := range e.after {
		if e.toEnd && end+len(alt) != len(segs) {
			continue
		}
		if _, ok := matchAt(alt, segs, end); ok {
			return true
		}
	}
	return false
}

// replacement builds the phones that replace a match of from-alternative ai.
func (r *rule) replacement(ai int, picks []int) []ir.Phone {
	ti := r.target[ai]
	if ti < 0 {
		return nil
	}
	var out []ir.Phone
	k := 0
	for _, t := range r.to[ti] {
		if !t.class {
			out = append(out, t.phone)
			continue
		}
		if k < len(picks) {
			out = append(out, t.members[picks[k]])
		} else {
			out = append(out, t.members[0])
		}
		k++
	}
	return out
}
