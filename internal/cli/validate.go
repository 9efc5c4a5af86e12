package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LFalch/broytari/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                    `json:"valid"`
	Lines  int                     `json:"lines"`
	Errors []*compiler.SyntaxError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Check a script for syntax errors without running it",
		Long: `Parse a sound-change script and report every syntax error.

Undeclared names are not checked: whether a name exists depends on the
directives before it, which only a run evaluates.

Exit codes:
  0 - Script is valid
  2 - Script missing or has syntax errors`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	lines, err := LoadScript(path)
	if err != nil {
		var list compiler.ErrorList
		if !errors.As(err, &list) {
			return formatter.fail(ExitCommandError, loadErrorCode(err), "failed to load script", err)
		}
		return outputValidationErrors(formatter, list)
	}

	formatter.VerboseLog("Parsed %d line(s) from %s", len(lines), path)
	if formatter.JSON() {
		return formatter.Success(ValidationResult{Valid: true, Lines: len(lines)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s valid (%d lines)\n", path, len(lines))
	return nil
}

// outputValidationErrors outputs every syntax error of the script.
func outputValidationErrors(formatter *OutputFormatter, errs compiler.ErrorList) error {
	exitErr := NewExitError(ExitCommandError, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	exitErr.Reported = true

	if formatter.JSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    ErrCodeSyntax,
				Message: errs[0].Error(),
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
		return exitErr
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "line %d\n", e.Line)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", e.Rule, e.Message)
	}
	return exitErr
}
