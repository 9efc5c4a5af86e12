package store

import (
	"fmt"

	"github.com/LFalch/broytari/internal/engine"
	"github.com/LFalch/broytari/internal/ir"
)

// RunRecord is the exported form of one run.
type RunRecord struct {
	ID            string
	ScriptPath    string
	ScriptHash    string
	SnapshotHash  string
	Stage         string
	StageFound    bool
	EngineVersion string
	IRVersion     string
	Warnings      []string

	Report []ReportRow
	Words  []WordRow
	Steps  []StepRow
}

// ReportRow is one tagged phone. Features carry their sign ("+voiced").
type ReportRow struct {
	Phone      string
	Categories []string
	Features   []string
}

// WordRow pairs an input word with its final form.
type WordRow struct {
	Index  int
	Input  string
	Output string
}

// StepRow is one rule line reached during the run.
type StepRow struct {
	Seq     int64
	Line    int
	Stage   string
	Rule    string
	Special []string
	Changed int
	Error   string
}

// NewRunRecord flattens a finished run. lines is the script the run
// interpreted, used for the script hash.
func NewRunRecord(res *engine.Result, scriptPath string, lines []ir.Line) (RunRecord, error) {
	scriptHash, err := ir.ScriptHash(lines)
	if err != nil {
		return RunRecord{}, fmt.Errorf("new run record: %w", err)
	}
	snapshotHash, err := res.SnapshotHash()
	if err != nil {
		return RunRecord{}, fmt.Errorf("new run record: %w", err)
	}

	rec := RunRecord{
		ID:            res.RunID,
		ScriptPath:    scriptPath,
		ScriptHash:    scriptHash,
		SnapshotHash:  snapshotHash,
		Stage:         res.Stage,
		StageFound:    res.StageFound,
		EngineVersion: ir.EngineVersion,
		IRVersion:     ir.IRVersion,
		Warnings:      []string{},
	}
	for _, w := range res.Warnings {
		rec.Warnings = append(rec.Warnings, w.Error())
	}

	for _, e := range res.Phonology.Report().Entries {
		row := ReportRow{Phone: string(e.Phone), Categories: e.Categories, Features: []string{}}
		for _, f := range e.Features {
			row.Features = append(row.Features, f.String())
		}
		rec.Report = append(rec.Report, row)
	}

	for i, w := range res.Words {
		rec.Words = append(rec.Words, WordRow{Index: i, Input: res.Input[i], Output: w})
	}

	for _, s := range res.Steps {
		row := StepRow{
			Seq:     s.Seq,
			Line:    s.Line,
			Stage:   s.Stage,
			Rule:    s.Rule,
			Special: s.Special,
			Changed: len(s.Changes),
		}
		if s.Err != nil {
			row.Error = s.Err.Error()
		}
		rec.Steps = append(rec.Steps, row)
	}
	return rec, nil
}
