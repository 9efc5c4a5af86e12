package compiler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/LFalch/broytari/internal/ir"
)

// parseDirective parses the text after "%". It returns a non-empty message
// when the line matches no directive grammar.
//
//	category <name> [: <phone>...]
//	feature  <name> [: (+<phone>|-<phone>)...]
//	symbol   <char> [: ('<phone>'|+f|-f|0f|<category>)...]
//
// cat, feat and sym are accepted as abbreviations.
func parseDirective(s string) (ir.Directive, string) {
	terms := strings.Fields(s)
	if len(terms) == 0 {
		return ir.Directive{}, "empty directive"
	}

	keyword := terms[0]
	var kind ir.DirectiveKind
	switch keyword {
	case "category", "cat":
		kind = ir.DirectiveCategory
	case "feature", "feat":
		kind = ir.DirectiveFeature
	case "symbol", "sym":
		kind = ir.DirectiveSymbol
	default:
		return ir.Directive{}, fmt.Sprintf("unknown directive %q", keyword)
	}

	if len(terms) < 2 {
		return ir.Directive{}, fmt.Sprintf("%s: missing name", kind)
	}
	name := terms[1]
	if strings.Contains(name, ":") {
		return ir.Directive{}, fmt.Sprintf("%s: ':' must be separated from the name by whitespace", kind)
	}

	body, msg := splitBody(terms[2:])
	if msg != "" {
		return ir.Directive{}, fmt.Sprintf("%s %s: %s", kind, name, msg)
	}

	d := ir.Directive{Kind: kind, Name: name}
	switch kind {
	case ir.DirectiveCategory:
		for _, term := range body {
			d.Phones = append(d.Phones, ir.Phone(term))
		}

	case ir.DirectiveFeature:
		for _, term := range body {
			sign, phone := term[0], term[1:]
			if phone == "" || (sign != '+' && sign != '-') {
				return ir.Directive{}, fmt.Sprintf("feature %s: term %q must be +<phone> or -<phone>", name, term)
			}
			if sign == '+' {
				d.Plus = append(d.Plus, ir.Phone(phone))
			} else {
				d.Minus = append(d.Minus, ir.Phone(phone))
			}
		}

	case ir.DirectiveSymbol:
		r, size := utf8.DecodeRuneInString(name)
		if size != len(name) {
			return ir.Directive{}, fmt.Sprintf("symbol %q: a symbol must be exactly one character", name)
		}
		d.Symbol = r
		for _, term := range body {
			if strings.HasPrefix(term, "'") {
				if len(term) < 3 || !strings.HasSuffix(term, "'") {
					return ir.Directive{}, fmt.Sprintf("symbol %s: malformed literal %s", name, term)
				}
				d.Phones = append(d.Phones, ir.Phone(term[1:len(term)-1]))
				continue
			}
			q, msg := parseQualifier(term)
			if msg != "" {
				return ir.Directive{}, fmt.Sprintf("symbol %s: %s", name, msg)
			}
			d.Qualifiers = append(d.Qualifiers, q)
		}
	}

	return d, ""
}

// splitBody checks the optional ": term..." tail. No tail is an empty body;
// a tail must start with a lone ":" and carry at least one term.
func splitBody(rest []string) ([]string, string) {
	if len(rest) == 0 {
		return nil, ""
	}
	if rest[0] != ":" {
		return nil, fmt.Sprintf("expected ':' but found %q", rest[0])
	}
	if len(rest) == 1 {
		return nil, "':' must be followed by at least one term"
	}
	for _, term := range rest[1:] {
		if strings.Contains(term, ":") {
			return nil, fmt.Sprintf("unexpected ':' in term %q", term)
		}
	}
	return rest[1:], ""
}

// parseQualifier reads +name, -name, 0name or a bare category name.
func parseQualifier(term string) (ir.PhoneQualifier, string) {
	var kind ir.QualifierKind
	name := term
	switch term[0] {
	case '+':
		kind, name = ir.QualPlus, term[1:]
	case '-':
		kind, name = ir.QualMinus, term[1:]
	case '0':
		kind, name = ir.QualZero, term[1:]
	default:
		kind = ir.QualCat
	}
	if name == "" {
		return ir.PhoneQualifier{}, fmt.Sprintf("qualifier %q has no name", term)
	}
	return ir.PhoneQualifier{Kind: kind, Name: name}, ""
}
