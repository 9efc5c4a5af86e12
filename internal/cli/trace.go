package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/LFalch/broytari/internal/engine"
	"github.com/LFalch/broytari/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	RunOptions
	RunID    string // with --db, trace a stored run
	Line     int    // optional - filter to steps of one source line
	Rejected bool   // optional - only rejected steps
}

// TraceStep represents one rule line reached during a run.
type TraceStep struct {
	Seq     int64         `json:"seq"`
	Line    int           `json:"line"`
	Stage   string        `json:"stage,omitempty"`
	Rule    string        `json:"rule"`
	Special []string      `json:"special,omitempty"`
	Changed int           `json:"changed"`
	Changes []TraceChange `json:"changes,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// TraceChange is one word rewritten by a step.
type TraceChange struct {
	Index  int    `json:"index"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// TraceWord pairs an input word with its final form.
type TraceWord struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	RunID      string      `json:"run_id"`
	Stage      string      `json:"stage,omitempty"`
	StageFound bool        `json:"stage_found"`
	Steps      []TraceStep `json:"steps"`
	Words      []TraceWord `json:"words"`
	Warnings   []string    `json:"warnings,omitempty"`
	Stats      TraceStats  `json:"stats"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Steps     int `json:"steps"`
	Applied   int `json:"applied"`  // steps that rewrote at least one word
	Unchanged int `json:"unchanged"` // steps that matched nothing
	Rejected  int `json:"rejected"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RunOptions: RunOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "trace [script]",
		Short: "Show what every rule did",
		Long: `Show the rule-by-rule history of a run.

With a script, the script is interpreted and every rule line reached is
listed with the words it rewrote. With --db and --run, a previously exported
run is read back instead; --db alone lists the stored run IDs.

Examples:
  broytari trace ./norse.sc --words ./words.txt
  broytari trace ./norse.sc --word tak --line 12
  broytari trace --db ./runs.db
  broytari trace --db ./runs.db --run 0192f6c1-... --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, args, cmd)
		},
	}

	addInterpretFlags(cmd, &opts.RunOptions)
	cmd.Flags().StringVar(&opts.Database, "db", "", "read runs from this SQLite database")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "stored run ID to trace (with --db)")
	cmd.Flags().IntVar(&opts.Line, "line", 0, "only show steps of this source line")
	cmd.Flags().BoolVar(&opts.Rejected, "rejected", false, "only show rejected rules")

	return cmd
}

func runTrace(opts *TraceOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	var result TraceResult
	switch {
	case len(args) == 1:
		in, err := interpret(&opts.RunOptions, args[0], cmd, formatter)
		if err != nil {
			return err
		}
		result = traceFromResult(in.Result)
		result.Steps = filterSteps(result.Steps, opts.Line, opts.Rejected)

	case opts.Database != "":
		st, err := store.Open(opts.Database)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
		}
		defer st.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if opts.RunID == "" {
			return listRuns(ctx, st, formatter)
		}
		rec, err := st.ReadRun(ctx, opts.RunID)
		if errors.Is(err, store.ErrRunNotFound) {
			return formatter.fail(ExitCommandError, ErrCodeRunNotFound, fmt.Sprintf("run %s not found", opts.RunID), err)
		}
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to read run", err)
		}
		result = traceFromRecord(rec)

		filter := store.StepFilter{Line: opts.Line, Rejected: opts.Rejected}
		if filter != (store.StepFilter{}) {
			rows, err := st.QuerySteps(ctx, opts.RunID, filter)
			if err != nil {
				return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to query steps", err)
			}
			result.Steps = stepsFromRows(rows)
		}

	default:
		return NewExitError(ExitCommandError, "trace needs a script or --db")
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return outputTraceText(formatter.Writer, result, opts.Verbose)
}

func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	ids, err := st.ListRuns(ctx)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to list runs", err)
	}
	if formatter.JSON() {
		return formatter.Success(map[string]any{"runs": ids})
	}
	if len(ids) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs stored.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(formatter.Writer, id)
	}
	return nil
}

// traceFromResult converts a live run.
func traceFromResult(res *engine.Result) TraceResult {
	result := TraceResult{
		RunID:      res.RunID,
		Stage:      res.Stage,
		StageFound: res.StageFound,
		Steps:      make([]TraceStep, 0, len(res.Steps)),
		Words:      make([]TraceWord, len(res.Input)),
	}
	for _, s := range res.Steps {
		step := TraceStep{
			Seq:     s.Seq,
			Line:    s.Line,
			Stage:   s.Stage,
			Rule:    s.Rule,
			Special: s.Special,
			Changed: len(s.Changes),
		}
		for _, c := range s.Changes {
			step.Changes = append(step.Changes, TraceChange{Index: c.Index, Before: c.Before, After: c.After})
		}
		if s.Err != nil {
			step.Error = s.Err.Error()
		}
		result.Steps = append(result.Steps, step)
	}
	for i, input := range res.Input {
		result.Words[i] = TraceWord{Input: input, Output: res.Words[i]}
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}
	result.Stats = computeStats(result.Steps)
	return result
}

// traceFromRecord converts a stored run. Stored steps carry change counts
// but not the individual changes.
func traceFromRecord(rec store.RunRecord) TraceResult {
	result := TraceResult{
		RunID:      rec.ID,
		Stage:      rec.Stage,
		StageFound: rec.StageFound,
		Words:      make([]TraceWord, 0, len(rec.Words)),
		Warnings:   rec.Warnings,
	}
	result.Steps = stepsFromRows(rec.Steps)
	for _, w := range rec.Words {
		result.Words = append(result.Words, TraceWord{Input: w.Input, Output: w.Output})
	}
	result.Stats = computeStats(result.Steps)
	return result
}

func stepsFromRows(rows []store.StepRow) []TraceStep {
	steps := make([]TraceStep, 0, len(rows))
	for _, r := range rows {
		steps = append(steps, TraceStep{
			Seq:     r.Seq,
			Line:    r.Line,
			Stage:   r.Stage,
			Rule:    r.Rule,
			Special: r.Special,
			Changed: r.Changed,
			Error:   r.Error,
		})
	}
	return steps
}

func computeStats(steps []TraceStep) TraceStats {
	stats := TraceStats{Steps: len(steps)}
	for _, s := range steps {
		switch {
		case s.Error != "":
			stats.Rejected++
		case s.Changed > 0:
			stats.Applied++
		default:
			stats.Unchanged++
		}
	}
	return stats
}

// filterSteps applies --line and --rejected to a live run. Stats still
// describe the whole run.
func filterSteps(steps []TraceStep, line int, rejected bool) []TraceStep {
	if line <= 0 && !rejected {
		return steps
	}
	filtered := []TraceStep{}
	for _, s := range steps {
		if line > 0 && s.Line != line {
			continue
		}
		if rejected && s.Error == "" {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// outputTraceText outputs the trace result as text.
func outputTraceText(w io.Writer, result TraceResult, verbose bool) error {
	fmt.Fprintf(w, "Trace for run: %s\n", truncateID(result.RunID))
	fmt.Fprintf(w, "Stage: %s\n", stageStatus(result))
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Steps ===")
	if len(result.Steps) == 0 {
		fmt.Fprintln(w, "  (no rules applied)")
	}
	for _, step := range result.Steps {
		formatStep(w, step, verbose)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Words ===")
	if len(result.Words) == 0 {
		fmt.Fprintln(w, "  (no words)")
	}
	for _, word := range result.Words {
		fmt.Fprintf(w, "  %s -> %s\n", word.Input, word.Output)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "=== Stats ===")
	fmt.Fprintf(w, "  Steps:     %d\n", result.Stats.Steps)
	fmt.Fprintf(w, "  Applied:   %d\n", result.Stats.Applied)
	fmt.Fprintf(w, "  Unchanged: %d\n", result.Stats.Unchanged)
	fmt.Fprintf(w, "  Rejected:  %d\n", result.Stats.Rejected)
	return nil
}

// formatStep formats a single step for text output.
func formatStep(w io.Writer, step TraceStep, verbose bool) {
	fmt.Fprintf(w, "  [%d] line %d: %s\n", step.Seq, step.Line, step.Rule)
	if step.Error != "" {
		fmt.Fprintf(w, "       REJECTED %s\n", step.Error)
		return
	}
	if verbose && step.Stage != "" {
		fmt.Fprintf(w, "       Stage: %s\n", step.Stage)
	}
	for _, c := range step.Changes {
		fmt.Fprintf(w, "       %s -> %s\n", c.Before, c.After)
	}
	if len(step.Changes) == 0 && step.Changed > 0 {
		fmt.Fprintf(w, "       %d word(s) changed\n", step.Changed)
	}
}

func stageStatus(result TraceResult) string {
	switch {
	case result.Stage == "":
		return "(whole script)"
	case result.StageFound:
		return result.Stage + " (reached)"
	default:
		return result.Stage + " (not found, whole script)"
	}
}

// truncateID truncates a long ID for display.
func truncateID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}
