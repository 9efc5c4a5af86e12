package engine

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/LFalch/broytari/internal/ir"
	"github.com/LFalch/broytari/internal/phonology"
)

// token matches exactly one phone.
//
// A literal token matches its phone. A class token (category or symbol)
// matches any of its members, and the index of the matched member drives
// linked replacement.
type token struct {
	text    string
	class   bool
	phone   ir.Phone
	members []ir.Phone
}

func (t token) matches(p ir.Phone) bool {
	if !t.class {
		return t.phone == p
	}
	return slices.Contains(t.members, p)
}

// pattern is a list of alternatives. Whitespace in the source separates them.
type pattern [][]token

// lexicon resolves pattern text and segments words against the state a rule
// runs in. It is rebuilt for every rule since directives between rules
// change what names and phones exist.
type lexicon struct {
	ph      *phonology.Phonology
	symbols phonology.SymbolTable

	// phones holds every known phone, longest first.
	phones []ir.Phone

	// categories holds category names, longest first.
	categories []string

	resolved map[rune][]ir.Phone
}

func newLexicon(ph *phonology.Phonology, symbols phonology.SymbolTable) *lexicon {
	known := make(map[ir.Phone]bool)
	var phones []ir.Phone
	add := func(p ir.Phone) {
		if p != "" && !known[p] {
			known[p] = true
			phones = append(phones, p)
		}
	}
	for _, p := range ph.Inventory() {
		add(p)
	}
	for _, r := range sortedRunes(symbols) {
		for _, p := range symbols[r].Phones {
			add(p)
		}
	}
	byLengthDesc := func(a, b ir.Phone) int { return cmp.Compare(len(b), len(a)) }
	slices.SortStableFunc(phones, byLengthDesc)

	categories := ph.CategoryNames()
	slices.SortStableFunc(categories, func(a, b string) int { return cmp.Compare(len(b), len(a)) })

	return &lexicon{
		ph:         ph,
		symbols:    symbols,
		phones:     phones,
		categories: categories,
		resolved:   make(map[rune][]ir.Phone),
	}
}

func sortedRunes(symbols phonology.SymbolTable) []rune {
	runes := make([]rune, 0, len(symbols))
	for r := range symbols {
		runes = append(runes, r)
	}
	slices.Sort(runes)
	return runes
}

// segment splits a word into phones by greedy longest match against the
// known phones, falling back to a single rune.
func (lx *lexicon) segment(word string) []ir.Phone {
	var segs []ir.Phone
	for word != "" {
		n := lx.longestPhone(word)
		if n == 0 {
			_, n = utf8.DecodeRuneInString(word)
		}
		segs = append(segs, ir.Phone(word[:n]))
		word = word[n:]
	}
	return segs
}

func (lx *lexicon) longestPhone(s string) int {
	for _, p := range lx.phones {
		if strings.HasPrefix(s, string(p)) {
			return len(p)
		}
	}
	return 0
}

// compile lexes raw pattern text. Empty text yields an empty pattern.
func (lx *lexicon) compile(text string) (pattern, error) {
	var pat pattern
	for _, alt := range strings.Fields(text) {
		toks, err := lx.lex(alt)
		if err != nil {
			return nil, err
		}
		pat = append(pat, toks)
	}
	return pat, nil
}

// lex turns one alternative into tokens.
//
// "[name]" is always a category. Otherwise the longest of a category name, a
// symbol rune and a known phone wins, with ties going to category, then
// symbol, then phone. Anything else is a one-rune literal.
func (lx *lexicon) lex(s string) ([]token, error) {
	var toks []token
	for s != "" {
		if rest, ok := strings.CutPrefix(s, "["); ok {
			name, tail, found := strings.Cut(rest, "]")
			if !found {
				return nil, &RuleConfigurationError{Message: fmt.Sprintf("unterminated '[' in %q", s)}
			}
			cat, ok := lx.ph.Category(name)
			if !ok {
				return nil, &UndeclaredReferenceError{Kind: "category", Name: name}
			}
			toks = append(toks, token{text: "[" + name + "]", class: true, members: cat.Members()})
			s = tail
			continue
		}

		catLen, catName := 0, ""
		for _, name := range lx.categories {
			if name != "" && strings.HasPrefix(s, name) {
				catLen, catName = len(name), name
				break
			}
		}
		r, runeLen := utf8.DecodeRuneInString(s)
		symLen := 0
		if _, ok := lx.symbols[r]; ok {
			symLen = runeLen
		}
		phoneLen := lx.longestPhone(s)

		switch {
		case catLen > 0 && catLen >= symLen && catLen >= phoneLen:
			cat, _ := lx.ph.Category(catName)
			toks = append(toks, token{text: catName, class: true, members: cat.Members()})
			s = s[catLen:]
		case symLen > 0 && symLen >= phoneLen:
			members, err := lx.symbol(r)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{text: string(r), class: true, members: members})
			s = s[symLen:]
		case phoneLen > 0:
			toks = append(toks, token{text: s[:phoneLen], phone: ir.Phone(s[:phoneLen])})
			s = s[phoneLen:]
		default:
			toks = append(toks, token{text: s[:runeLen], phone: ir.Phone(s[:runeLen])})
			s = s[runeLen:]
		}
	}
	return toks, nil
}

func (lx *lexicon) symbol(r rune) ([]ir.Phone, error) {
	if members, ok := lx.resolved[r]; ok {
		return members, nil
	}
	members, undeclared := lx.symbols[r].Resolve(lx.ph)
	if undeclared != "" {
		return nil, &UndeclaredReferenceError{Kind: "category or feature", Name: undeclared}
	}
	lx.resolved[r] = members
	return members, nil
}
