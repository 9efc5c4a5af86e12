package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LFalch/broytari/internal/engine"
	"github.com/LFalch/broytari/internal/ir"
	"github.com/LFalch/broytari/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Stage     string
	WordFiles []string
	Words     []string
	Database  string
	Strict    bool

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Interpret a script over a word list",
		Long: `Interpret a sound-change script and print the final phonology report
followed by every word as "input -> output".

Rejected rules are logged as warnings and skipped; --strict makes the first
one fail the run. A requested stage that never appears is a warning and the
whole script is interpreted.

Examples:
  broytari run ./norse.sc --words ./words.txt
  broytari run ./norse.sc --stage Old --word tak --word mat
  broytari run ./norse.sc --words ./words.txt --db ./runs.db
  broytari run ./norse.sc --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(opts, args[0], cmd)
		},
	}

	addInterpretFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.Database, "db", "", "export the run to this SQLite database")

	return cmd
}

// addInterpretFlags registers the flags shared by run and trace.
func addInterpretFlags(cmd *cobra.Command, opts *RunOptions) {
	cmd.Flags().StringVar(&opts.Stage, "stage", "", "stop at the first stage marker with this name")
	cmd.Flags().StringArrayVar(&opts.WordFiles, "words", nil, "word file (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Words, "word", nil, "word to transform (repeatable)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on the first rejected rule")
}

// interpretation is a finished run plus the script it interpreted.
type interpretation struct {
	Lines  []ir.Line
	Result *engine.Result
}

// interpret loads the script and words and runs the engine. Errors are
// reported through the formatter and returned as ExitErrors.
func interpret(opts *RunOptions, path string, cmd *cobra.Command, formatter *OutputFormatter) (*interpretation, error) {
	lines, err := LoadScript(path)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, loadErrorCode(err), "failed to load script", err)
	}
	words, err := LoadWords(opts.WordFiles, opts.Words)
	if err != nil {
		return nil, formatter.fail(ExitCommandError, loadErrorCode(err), "failed to load words", err)
	}
	formatter.VerboseLog("Loaded %d line(s) from %s and %d word(s)", len(lines), path, len(words))

	ctx, stop := signalContext(cmd)
	defer stop()

	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = engine.UUIDv7Generator{}
	}
	res, err := engine.Run(ctx, lines, words, engine.Options{
		Stage:  opts.Stage,
		Strict: opts.Strict,
		Logger: slog.Default(),
		RunIDs: runIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrStrict):
			return nil, formatter.fail(ExitFailure, ErrCodeStrict, "rule rejected", err)
		case engine.IsUndeclaredReference(err):
			return nil, formatter.fail(ExitFailure, ErrCodeUndeclared, "run aborted", err)
		default:
			return nil, formatter.fail(ExitFailure, ErrCodeGeneric, "run failed", err)
		}
	}
	return &interpretation{Lines: lines, Result: res}, nil
}

// signalContext cancels on SIGINT/SIGTERM. The command's context is used
// when set (tests).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runScript(opts *RunOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	in, err := interpret(opts, path, cmd, formatter)
	if err != nil {
		return err
	}
	res := in.Result

	if opts.Database != "" {
		if err := exportRun(cmd.Context(), opts.Database, path, in); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeDatabase, "failed to export run", err)
		}
		formatter.VerboseLog("Exported run %s to %s", res.RunID, opts.Database)
	}

	if formatter.JSON() {
		return formatter.encode(CLIResponse{Status: "ok", Data: res.Snapshot(), RunID: res.RunID})
	}
	return writeRunText(formatter.Writer, res)
}

// writeRunText prints the report, then one "input -> output" line per word.
func writeRunText(w io.Writer, res *engine.Result) error {
	if err := res.Phonology.Report().WriteText(w); err != nil {
		return err
	}
	if len(res.Input) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	for i, input := range res.Input {
		fmt.Fprintf(w, "%s -> %s\n", input, res.Words[i])
	}
	return nil
}

func exportRun(ctx context.Context, dbPath, scriptPath string, in *interpretation) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := store.NewRunRecord(in.Result, scriptPath, in.Lines)
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	inserted, err := st.WriteRun(ctx, rec)
	if err != nil {
		return err
	}
	if !inserted {
		slog.Warn("run already exported", "run_id", rec.ID, "db", dbPath)
	}
	return nil
}
