package store

import (
	"context"
	"fmt"
	"strings"
)

// StepFilter selects stored rule steps. The zero value matches every step.
type StepFilter struct {
	Line     int    // source line, 0 = any
	Stage    string // stage the step ran in, "" = any
	Rejected bool   // only rejected steps
	Changed  bool   // only steps that rewrote a word
}

// predicate is a WHERE condition. Values are always bound as parameters,
// never interpolated.
type predicate interface {
	sql() (string, []any)
}

type equals struct {
	column string
	value  any
}

func (p equals) sql() (string, []any) {
	return p.column + " = ?", []any{p.value}
}

type notEquals struct {
	column string
	value  any
}

func (p notEquals) sql() (string, []any) {
	return p.column + " <> ?", []any{p.value}
}

type greaterThan struct {
	column string
	value  any
}

func (p greaterThan) sql() (string, []any) {
	return p.column + " > ?", []any{p.value}
}

// and is a conjunction. An empty and is always true.
type and []predicate

func (p and) sql() (string, []any) {
	if len(p) == 0 {
		return "1 = 1", nil
	}
	parts := make([]string, len(p))
	var params []any
	for i, pred := range p {
		s, ps := pred.sql()
		parts[i] = s
		params = append(params, ps...)
	}
	return strings.Join(parts, " AND "), params
}

func (f StepFilter) predicate(runID string) predicate {
	conds := and{equals{"run_id", runID}}
	if f.Line > 0 {
		conds = append(conds, equals{"line", f.Line})
	}
	if f.Stage != "" {
		conds = append(conds, equals{"stage", f.Stage})
	}
	if f.Rejected {
		conds = append(conds, notEquals{"error", ""})
	}
	if f.Changed {
		conds = append(conds, greaterThan{"changed", 0})
	}
	return conds
}

// compileStepQuery builds the parameterized SELECT for a filter. Steps
// always come back in clock order.
func compileStepQuery(runID string, f StepFilter) (string, []any) {
	where, params := f.predicate(runID).sql()
	query := "SELECT seq, line, stage, rule, special, changed, error FROM rule_steps WHERE " +
		where + " ORDER BY seq ASC"
	return query, params
}

// QuerySteps returns the stored steps of a run that match f, ordered by
// sequence number. An unknown run yields no steps.
func (s *Store) QuerySteps(ctx context.Context, runID string, f StepFilter) ([]StepRow, error) {
	query, params := compileStepQuery(runID, f)
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query rule steps: %w", err)
	}
	defer rows.Close()

	var out []StepRow
	for rows.Next() {
		var st StepRow
		var special string
		if err := rows.Scan(&st.Seq, &st.Line, &st.Stage, &st.Rule, &special, &st.Changed, &st.Error); err != nil {
			return nil, fmt.Errorf("scan rule steps: %w", err)
		}
		if st.Special, err = unmarshalStrings(special); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rule steps: %w", err)
	}
	return out, nil
}
