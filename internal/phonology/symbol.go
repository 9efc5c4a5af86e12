package phonology

import (
	"slices"

	"github.com/LFalch/broytari/internal/ir"
)

// Symbol is a one-character shorthand usable in rule patterns.
type Symbol struct {
	Phones     []ir.Phone
	Qualifiers []ir.PhoneQualifier
}

// SymbolTable maps a symbol character to its binding.
type SymbolTable map[rune]Symbol

// Set inserts or overwrites the binding for r.
func (t SymbolTable) Set(r rune, phones []ir.Phone, qualifiers []ir.PhoneQualifier) {
	t[r] = Symbol{
		Phones:     slices.Clone(phones),
		Qualifiers: slices.Clone(qualifiers),
	}
}

// Resolve expands a symbol to its candidate phones: the literal phones in
// order, then every inventory phone that satisfies all qualifiers. A symbol
// without qualifiers is just its literals.
//
// A qualifier naming an undeclared category or feature is reported through
// the returned name; the caller decides how to surface it.
func (s Symbol) Resolve(ph *Phonology) (phones []ir.Phone, undeclared string) {
	out := newPhoneSet()
	for _, p := range s.Phones {
		out.add(p)
	}
	if len(s.Qualifiers) == 0 {
		return out.order, ""
	}

	for _, q := range s.Qualifiers {
		if q.Kind == ir.QualCat {
			if _, ok := ph.Category(q.Name); !ok {
				return nil, q.Name
			}
		} else if _, ok := ph.Feature(q.Name); !ok {
			return nil, q.Name
		}
	}

	for _, p := range ph.Inventory() {
		if s.satisfies(ph, p) {
			out.add(p)
		}
	}
	return out.order, ""
}

func (s Symbol) satisfies(ph *Phonology, p ir.Phone) bool {
	for _, q := range s.Qualifiers {
		switch q.Kind {
		case ir.QualCat:
			c, _ := ph.Category(q.Name)
			if !c.Contains(p) {
				return false
			}
		case ir.QualPlus:
			f, _ := ph.Feature(q.Name)
			if f.Value(p) != Plus {
				return false
			}
		case ir.QualMinus:
			f, _ := ph.Feature(q.Name)
			if f.Value(p) != Minus {
				return false
			}
		case ir.QualZero:
			f, _ := ph.Feature(q.Name)
			if f.Value(p) != Unset {
				return false
			}
		}
	}
	return true
}
