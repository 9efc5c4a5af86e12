package store

import (
	"context"
	"fmt"
)

// WriteRun exports a run in a single transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - exporting the same run
// twice leaves the first export in place and returns inserted=false.
func (s *Store) WriteRun(ctx context.Context, rec RunRecord) (inserted bool, err error) {
	warnings, err := marshalStrings(rec.Warnings)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, script_path, script_hash, snapshot_hash, stage, stage_found, engine_version, ir_version, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.ScriptPath,
		rec.ScriptHash,
		rec.SnapshotHash,
		rec.Stage,
		rec.StageFound,
		rec.EngineVersion,
		rec.IRVersion,
		warnings,
	)
	if err != nil {
		return false, fmt.Errorf("write run: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for i, row := range rec.Report {
		categories, err := marshalStrings(row.Categories)
		if err != nil {
			return false, fmt.Errorf("write run: report: %w", err)
		}
		features, err := marshalStrings(row.Features)
		if err != nil {
			return false, fmt.Errorf("write run: report: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO report (run_id, ord, phone, categories, features)
			VALUES (?, ?, ?, ?, ?)
		`, rec.ID, i, row.Phone, categories, features); err != nil {
			return false, fmt.Errorf("write run: report: %w", err)
		}
	}

	for _, w := range rec.Words {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO words (run_id, idx, input, output)
			VALUES (?, ?, ?, ?)
		`, rec.ID, w.Index, w.Input, w.Output); err != nil {
			return false, fmt.Errorf("write run: words: %w", err)
		}
	}

	for _, st := range rec.Steps {
		special, err := marshalStrings(st.Special)
		if err != nil {
			return false, fmt.Errorf("write run: rule steps: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rule_steps (run_id, seq, line, stage, rule, special, changed, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, st.Seq, st.Line, st.Stage, st.Rule, special, st.Changed, st.Error); err != nil {
			return false, fmt.Errorf("write run: rule steps: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}
	return true, nil
}
