package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ReadRun loads an exported run. Returns ErrRunNotFound for an unknown ID.
//
// Child rows come back in their natural order: report by ord, words by idx,
// steps by seq.
func (s *Store) ReadRun(ctx context.Context, id string) (RunRecord, error) {
	var rec RunRecord
	var warnings string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, script_path, script_hash, snapshot_hash, stage, stage_found, engine_version, ir_version, warnings
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&rec.ID,
		&rec.ScriptPath,
		&rec.ScriptHash,
		&rec.SnapshotHash,
		&rec.Stage,
		&rec.StageFound,
		&rec.EngineVersion,
		&rec.IRVersion,
		&warnings,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}
	if rec.Warnings, err = unmarshalStrings(warnings); err != nil {
		return RunRecord{}, fmt.Errorf("read run %s: %w", id, err)
	}

	if rec.Report, err = s.readReport(ctx, id); err != nil {
		return RunRecord{}, err
	}
	if rec.Words, err = s.readWords(ctx, id); err != nil {
		return RunRecord{}, err
	}
	if rec.Steps, err = s.readSteps(ctx, id); err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}

func (s *Store) readReport(ctx context.Context, id string) ([]ReportRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT phone, categories, features
		FROM report
		WHERE run_id = ?
		ORDER BY ord ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}
	defer rows.Close()

	var out []ReportRow
	for rows.Next() {
		var row ReportRow
		var categories, features string
		if err := rows.Scan(&row.Phone, &categories, &features); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if row.Categories, err = unmarshalStrings(categories); err != nil {
			return nil, err
		}
		if row.Features, err = unmarshalStrings(features); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report: %w", err)
	}
	return out, nil
}

func (s *Store) readWords(ctx context.Context, id string) ([]WordRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, input, output
		FROM words
		WHERE run_id = ?
		ORDER BY idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query words: %w", err)
	}
	defer rows.Close()

	var out []WordRow
	for rows.Next() {
		var w WordRow
		if err := rows.Scan(&w.Index, &w.Input, &w.Output); err != nil {
			return nil, fmt.Errorf("scan words: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate words: %w", err)
	}
	return out, nil
}

func (s *Store) readSteps(ctx context.Context, id string) ([]StepRow, error) {
	return s.QuerySteps(ctx, id, StepFilter{})
}

// ListRuns returns the IDs of every exported run. UUIDv7 IDs sort by
// creation time, so the list is oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY id COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan runs: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return ids, nil
}
