package ir

import "strings"

// Phone is an atomic sound unit. Equality is by content.
type Phone string

// QualifierKind tags a PhoneQualifier.
type QualifierKind int

const (
	// QualCat adds the phone to a category.
	QualCat QualifierKind = iota
	// QualPlus sets a feature to +.
	QualPlus
	// QualMinus sets a feature to -.
	QualMinus
	// QualZero clears a feature.
	QualZero
)

// String returns the source prefix of the kind ("", "+", "-", "0").
func (k QualifierKind) String() string {
	switch k {
	case QualPlus:
		return "+"
	case QualMinus:
		return "-"
	case QualZero:
		return "0"
	default:
		return ""
	}
}

// PhoneQualifier is a tag attached to a phone declaration or a symbol.
type PhoneQualifier struct {
	Kind QualifierKind `json:"kind"`
	Name string        `json:"name"`
}

// String renders the qualifier the way it is written in a script.
func (q PhoneQualifier) String() string {
	return q.Kind.String() + q.Name
}

// DirectiveKind identifies the keyword of a % directive.
type DirectiveKind int

const (
	DirectiveCategory DirectiveKind = iota
	DirectiveFeature
	DirectiveSymbol
)

// String returns the long keyword for the kind.
func (k DirectiveKind) String() string {
	switch k {
	case DirectiveCategory:
		return "category"
	case DirectiveFeature:
		return "feature"
	case DirectiveSymbol:
		return "symbol"
	default:
		return "unknown"
	}
}

// Directive is a parsed % line.
//
// Which fields are meaningful depends on Kind:
//   - DirectiveCategory: Name, Phones (seed members)
//   - DirectiveFeature: Name, Plus, Minus
//   - DirectiveSymbol: Symbol, Phones (literal phones), Qualifiers
type Directive struct {
	Kind       DirectiveKind
	Name       string
	Symbol     rune
	Phones     []Phone
	Plus       []Phone
	Minus      []Phone
	Qualifiers []PhoneQualifier
}

// String renders the directive back to canonical source form.
func (d Directive) String() string {
	var b strings.Builder
	b.WriteString("%")
	b.WriteString(d.Kind.String())
	b.WriteString(" ")
	if d.Kind == DirectiveSymbol {
		b.WriteRune(d.Symbol)
	} else {
		b.WriteString(d.Name)
	}

	var body []string
	switch d.Kind {
	case DirectiveCategory:
		for _, p := range d.Phones {
			body = append(body, string(p))
		}
	case DirectiveFeature:
		for _, p := range d.Plus {
			body = append(body, "+"+string(p))
		}
		for _, p := range d.Minus {
			body = append(body, "-"+string(p))
		}
	case DirectiveSymbol:
		for _, p := range d.Phones {
			body = append(body, "'"+string(p)+"'")
		}
		for _, q := range d.Qualifiers {
			body = append(body, q.String())
		}
	}
	if len(body) > 0 {
		b.WriteString(" : ")
		b.WriteString(strings.Join(body, " "))
	}
	return b.String()
}

// Environment is one contextual constraint on a sound change.
//
// Before is the material that must precede the match (left of "_"), After the
// material that must follow it (right of "_").
type Environment struct {
	Exception bool   `json:"exception,omitempty"`
	FromStart bool   `json:"from_start,omitempty"`
	ToEnd     bool   `json:"to_end,omitempty"`
	Before    string `json:"before,omitempty"`
	After     string `json:"after,omitempty"`
}

// Anchored reports whether the environment pins a position in the word.
func (e Environment) Anchored() bool {
	return e.FromStart || e.ToEnd || e.Before != "" || e.After != ""
}

// String renders the environment as a "/" clause body.
func (e Environment) String() string {
	var b strings.Builder
	if e.Exception {
		b.WriteString("!")
	}
	if e.FromStart {
		b.WriteString("#")
	}
	b.WriteString(e.Before)
	b.WriteString("_")
	b.WriteString(e.After)
	if e.ToEnd {
		b.WriteString("#")
	}
	return b.String()
}

// SoundChange is one rewrite rule. From and To are raw pattern text.
type SoundChange struct {
	From         string        `json:"from"`
	To           string        `json:"to"`
	Environments []Environment `json:"environments,omitempty"`
	Special      []string      `json:"special,omitempty"`
}

// String renders the rule back to canonical source form.
func (sc SoundChange) String() string {
	var b strings.Builder
	b.WriteString(sc.From)
	if sc.From != "" {
		b.WriteString(" ")
	}
	b.WriteString(">")
	if sc.To != "" {
		b.WriteString(" ")
		b.WriteString(sc.To)
	}
	for _, env := range sc.Environments {
		b.WriteString(" / ")
		b.WriteString(env.String())
	}
	for _, special := range sc.Special {
		b.WriteString(" / ")
		b.WriteString(special)
	}
	return b.String()
}
