package ir

import "strings"

// Line is one classified source line.
//
// Line is sealed: only DirectiveLine, StageLine, PhoneLine and ChangeLine
// implement it. Consumers switch on the concrete type and panic in the
// default branch so that a new kind cannot be silently ignored.
type Line interface {
	// LineNo returns the 1-based source line number.
	LineNo() int
	String() string
	isLine()
}

// DirectiveLine is a "%" line.
type DirectiveLine struct {
	No        int
	Directive Directive
}

// StageLine is a "=#" stage marker.
type StageLine struct {
	No   int
	Name string
}

// PhoneLine is a "=" phone declaration.
type PhoneLine struct {
	No         int
	Phone      Phone
	Qualifiers []PhoneQualifier
}

// ChangeLine is a sound-change rule.
type ChangeLine struct {
	No     int
	Change SoundChange
}

func (l *DirectiveLine) LineNo() int { return l.No }
func (l *StageLine) LineNo() int     { return l.No }
func (l *PhoneLine) LineNo() int     { return l.No }
func (l *ChangeLine) LineNo() int    { return l.No }

func (*DirectiveLine) isLine() {}
func (*StageLine) isLine()     {}
func (*PhoneLine) isLine()     {}
func (*ChangeLine) isLine()    {}

func (l *DirectiveLine) String() string { return l.Directive.String() }
func (l *StageLine) String() string     { return "=# " + l.Name }
func (l *ChangeLine) String() string    { return l.Change.String() }

func (l *PhoneLine) String() string {
	s := "= " + string(l.Phone)
	if len(l.Qualifiers) == 0 {
		return s
	}
	quals := make([]string, len(l.Qualifiers))
	for i, q := range l.Qualifiers {
		quals[i] = q.String()
	}
	return s + " : " + strings.Join(quals, " ")
}
