package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Grammar rule names reported in SyntaxError.Rule.
const (
	RuleDirective = "directive"
	RuleStage     = "stage"
	RulePhone     = "phone"
	RuleChange    = "sound-change"
)

// SyntaxError reports a line that matches no grammar for its kind.
type SyntaxError struct {
	File    string `json:"file,omitempty"`
	Line    int    `json:"line"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *SyntaxError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d: %s: %s", e.File, e.Line, e.Rule, e.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Rule, e.Message)
}

// ErrorList collects every SyntaxError of a file, in line order.
type ErrorList []*SyntaxError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d syntax errors:\n%s", len(l), strings.Join(msgs, "\n"))
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// IsSyntaxError reports whether err is, or wraps, a SyntaxError or an
// ErrorList.
func IsSyntaxError(err error) bool {
	var list ErrorList
	if errors.As(err, &list) {
		return true
	}
	var se *SyntaxError
	return errors.As(err, &se)
}
