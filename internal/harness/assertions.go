package harness

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Field    string // expect.<field>
	Expected string
	Actual   string
	Diff     string // go-cmp diff (-want +got), when available
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "expect.%s failed", e.Field)
	if e.Diff != "" {
		fmt.Fprintf(&buf, " (-want +got):\n%s", e.Diff)
		return buf.String()
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// evaluate checks every expectation that is set and returns the failures.
func evaluate(want Expect, r *Result) []error {
	if want.Error != "" {
		if r.RunErr == nil {
			return []error{&AssertionError{Field: "error", Expected: fmt.Sprintf("run fails with %q", want.Error), Actual: "run succeeded"}}
		}
		if !strings.Contains(r.RunErr.Error(), want.Error) {
			return []error{&AssertionError{Field: "error", Expected: fmt.Sprintf("error containing %q", want.Error), Actual: r.RunErr.Error()}}
		}
		return nil
	}
	if r.RunErr != nil {
		return []error{fmt.Errorf("run failed: %w", r.RunErr)}
	}

	var errs []error
	run := r.Run
	if want.Words != nil {
		if diff := cmp.Diff(want.Words, run.Words, cmpopts.EquateEmpty()); diff != "" {
			errs = append(errs, &AssertionError{Field: "words", Diff: diff})
		}
	}
	if want.Report != nil {
		if diff := cmp.Diff(want.Report, run.Phonology.Report().Lines(), cmpopts.EquateEmpty()); diff != "" {
			errs = append(errs, &AssertionError{Field: "report", Diff: diff})
		}
	}
	if want.RuleErrors != nil {
		if err := matchMessages("rule_errors", want.RuleErrors, run.RuleErrors); err != nil {
			errs = append(errs, err)
		}
	}
	if want.Warnings != nil {
		if err := matchMessages("warnings", want.Warnings, run.Warnings); err != nil {
			errs = append(errs, err)
		}
	}
	if want.StageFound != nil && *want.StageFound != run.StageFound {
		errs = append(errs, &AssertionError{
			Field:    "stage_found",
			Expected: fmt.Sprint(*want.StageFound),
			Actual:   fmt.Sprint(run.StageFound),
		})
	}
	return errs
}

// matchMessages checks that got has one error per wanted substring, in order.
func matchMessages(field string, want []string, got []error) error {
	msgs := make([]string, len(got))
	for i, err := range got {
		msgs[i] = err.Error()
	}
	if len(want) != len(msgs) {
		return &AssertionError{
			Field:    field,
			Expected: fmt.Sprintf("%d error(s) matching %q", len(want), want),
			Actual:   fmt.Sprintf("%d error(s) %q", len(msgs), msgs),
		}
	}
	for i, sub := range want {
		if !strings.Contains(msgs[i], sub) {
			return &AssertionError{
				Field:    fmt.Sprintf("%s[%d]", field, i),
				Expected: fmt.Sprintf("containing %q", sub),
				Actual:   msgs[i],
			}
		}
	}
	return nil
}
