package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes interpretation errors.
type ErrorCode string

const (
	// ErrCodeUndeclaredReference indicates a reference to a category, feature
	// or symbol that has not been declared.
	ErrCodeUndeclaredReference ErrorCode = "UNDECLARED_REFERENCE"

	// ErrCodeStageNotFound indicates the requested stage never appeared.
	ErrCodeStageNotFound ErrorCode = "STAGE_NOT_FOUND"

	// ErrCodeRuleConfiguration indicates a rule that cannot be applied as
	// written (unanchored insertion, mismatched linked classes...).
	ErrCodeRuleConfiguration ErrorCode = "RULE_CONFIGURATION"
)

// ErrStrict wraps the rule error that aborted a run under Options.Strict.
var ErrStrict = errors.New("strict")

// UndeclaredReferenceError reports a name that was used before any directive
// declared it.
//
// In a phone declaration it is fatal for the run. In a rule pattern it
// rejects that rule only.
type UndeclaredReferenceError struct {
	// Line is the 1-based source line of the offending declaration or rule.
	Line int

	// Kind is "category", "feature" or "category or feature".
	Kind string

	// Name is the undeclared name.
	Name string

	// Rule is the rule text when the reference came from a rule.
	Rule string
}

func (e *UndeclaredReferenceError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s: line %d: undeclared %s %q in rule %q", ErrCodeUndeclaredReference, e.Line, e.Kind, e.Name, e.Rule)
	}
	return fmt.Sprintf("%s: line %d: undeclared %s %q", ErrCodeUndeclaredReference, e.Line, e.Kind, e.Name)
}

// StageNotFoundError reports that the requested stage marker never appeared.
// It is only ever a warning: the whole script is interpreted instead.
type StageNotFoundError struct {
	Stage string
}

func (e *StageNotFoundError) Error() string {
	return fmt.Sprintf("%s: stage %q not found, interpreted the whole script", ErrCodeStageNotFound, e.Stage)
}

// RuleConfigurationError rejects one rule. Other rules keep applying.
type RuleConfigurationError struct {
	Line    int
	Rule    string
	Message string
}

func (e *RuleConfigurationError) Error() string {
	if e.Rule != "" {
		return fmt.Sprintf("%s: line %d: rule %q: %s", ErrCodeRuleConfiguration, e.Line, e.Rule, e.Message)
	}
	return fmt.Sprintf("%s: %s", ErrCodeRuleConfiguration, e.Message)
}

// Code returns the category of err, or "" if err is not an engine error.
// Uses errors.As to handle wrapped errors.
func Code(err error) ErrorCode {
	var ure *UndeclaredReferenceError
	if errors.As(err, &ure) {
		return ErrCodeUndeclaredReference
	}
	var snf *StageNotFoundError
	if errors.As(err, &snf) {
		return ErrCodeStageNotFound
	}
	var rce *RuleConfigurationError
	if errors.As(err, &rce) {
		return ErrCodeRuleConfiguration
	}
	return ""
}

// IsUndeclaredReference returns true if err is an undeclared reference.
func IsUndeclaredReference(err error) bool {
	return Code(err) == ErrCodeUndeclaredReference
}

// IsRuleConfiguration returns true if err is a rule configuration error.
func IsRuleConfiguration(err error) bool {
	return Code(err) == ErrCodeRuleConfiguration
}

// IsStageNotFound returns true if err is a stage-not-found warning.
func IsStageNotFound(err error) bool {
	return Code(err) == ErrCodeStageNotFound
}

// attachRule fills in the line and rule text of a rule-level error that was
// raised while compiling or applying the rule.
func attachRule(err error, line int, rule string) error {
	var ure *UndeclaredReferenceError
	if errors.As(err, &ure) {
		ure.Line, ure.Rule = line, rule
		return err
	}
	var rce *RuleConfigurationError
	if errors.As(err, &rce) {
		rce.Line, rce.Rule = line, rule
		return err
	}
	return fmt.Errorf("line %d: rule %q: %w", line, rule, err)
}
