package compiler

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFalch/broytari/internal/ir"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ir.Directive
	}{
		{
			name: "category with members",
			in:   "category plosive : p t k",
			want: ir.Directive{Kind: ir.DirectiveCategory, Name: "plosive", Phones: []ir.Phone{"p", "t", "k"}},
		},
		{
			name: "category without body",
			in:   "category empty",
			want: ir.Directive{Kind: ir.DirectiveCategory, Name: "empty"},
		},
		{
			name: "abbreviated category",
			in:   "cat nasal : m n ng",
			want: ir.Directive{Kind: ir.DirectiveCategory, Name: "nasal", Phones: []ir.Phone{"m", "n", "ng"}},
		},
		{
			name: "feature",
			in:   "feature voiced : +b -p +d",
			want: ir.Directive{Kind: ir.DirectiveFeature, Name: "voiced", Plus: []ir.Phone{"b", "d"}, Minus: []ir.Phone{"p"}},
		},
		{
			name: "abbreviated feature without body",
			in:   "feat long",
			want: ir.Directive{Kind: ir.DirectiveFeature, Name: "long"},
		},
		{
			name: "symbol",
			in:   "symbol V : 'a' 'ei' vowel +front -round 0long",
			want: ir.Directive{
				Kind:   ir.DirectiveSymbol,
				Name:   "V",
				Symbol: 'V',
				Phones: []ir.Phone{"a", "ei"},
				Qualifiers: []ir.PhoneQualifier{
					{Kind: ir.QualCat, Name: "vowel"},
					{Kind: ir.QualPlus, Name: "front"},
					{Kind: ir.QualMinus, Name: "round"},
					{Kind: ir.QualZero, Name: "long"},
				},
			},
		},
		{
			name: "multibyte symbol",
			in:   "sym ø : 'ø'",
			want: ir.Directive{Kind: ir.DirectiveSymbol, Name: "ø", Symbol: 'ø', Phones: []ir.Phone{"ø"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := parseDirective(tt.in)
			require.Empty(t, msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDirective_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantMsg string
	}{
		{"empty", "", "empty directive"},
		{"unknown keyword", "print x", "unknown directive"},
		{"missing name", "category", "missing name"},
		{"colon then nothing", "category V :", "at least one term"},
		{"colon in wrong position", "category V a : b", "expected ':'"},
		{"colon attached to name", "category V: a", "separated"},
		{"stray colon in body", "category V : a : b", "unexpected ':'"},
		{"unsigned feature term", "feature voiced : b", "must be +<phone> or -<phone>"},
		{"bare sign in feature", "feature voiced : +", "must be +<phone> or -<phone>"},
		{"long symbol", "symbol VV : 'a'", "exactly one character"},
		{"unterminated literal", "symbol V : 'a", "malformed literal"},
		{"empty literal", "symbol V : ''", "malformed literal"},
		{"nameless qualifier", "symbol V : +", "has no name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msg := parseDirective(tt.in)
			assert.Contains(t, msg, tt.wantMsg)
		})
	}
}

func TestParsePhone(t *testing.T) {
	phone, quals, msg := parsePhone(" m : nasal +voiced -round 0long")
	require.Empty(t, msg)
	assert.Equal(t, ir.Phone("m"), phone)
	assert.Equal(t, []ir.PhoneQualifier{
		{Kind: ir.QualCat, Name: "nasal"},
		{Kind: ir.QualPlus, Name: "voiced"},
		{Kind: ir.QualMinus, Name: "round"},
		{Kind: ir.QualZero, Name: "long"},
	}, quals)

	phone, quals, msg = parsePhone(" sj")
	require.Empty(t, msg)
	assert.Equal(t, ir.Phone("sj"), phone)
	assert.Empty(t, quals)
}

func TestParsePhone_BareTokenIsCategory(t *testing.T) {
	// A bare token in a phone declaration names a category, even when a
	// feature of the same name exists.
	_, quals, msg := parsePhone(" m : voiced")
	require.Empty(t, msg)
	assert.Equal(t, []ir.PhoneQualifier{{Kind: ir.QualCat, Name: "voiced"}}, quals)
}

func TestParsePhone_Errors(t *testing.T) {
	for _, in := range []string{"", " m :", " m nasal", " m : -", " m: nasal"} {
		t.Run(in, func(t *testing.T) {
			_, _, msg := parsePhone(in)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestParseSoundChange(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ir.SoundChange
	}{
		{
			name: "unconditional",
			in:   "p > b",
			want: ir.SoundChange{From: "p", To: "b"},
		},
		{
			name: "alternatives with environment",
			in:   "p t k > b d g / V_V",
			want: ir.SoundChange{From: "p t k", To: "b d g", Environments: []ir.Environment{{Before: "V", After: "V"}}},
		},
		{
			name: "word start",
			in:   "t > d / #_",
			want: ir.SoundChange{From: "t", To: "d", Environments: []ir.Environment{{FromStart: true}}},
		},
		{
			name: "word end strips only the trailing hash",
			in:   "h > / a_#",
			want: ir.SoundChange{From: "h", Environments: []ir.Environment{{Before: "a", ToEnd: true}}},
		},
		{
			name: "exception with spaces",
			in:   "s > z / V_V / ! #_ a",
			want: ir.SoundChange{From: "s", To: "z", Environments: []ir.Environment{
				{Before: "V", After: "V"},
				{Exception: true, FromStart: true, After: "a"},
			}},
		},
		{
			name: "special clause",
			in:   "a > e / _i / in the plural",
			want: ir.SoundChange{From: "a", To: "e", Environments: []ir.Environment{{After: "i"}}, Special: []string{"in the plural"}},
		},
		{
			name: "insertion",
			in:   "> e / #_s",
			want: ir.SoundChange{To: "e", Environments: []ir.Environment{{FromStart: true, After: "s"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := parseSoundChange(tt.in)
			require.Empty(t, msg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSoundChange_Errors(t *testing.T) {
	tests := []struct {
		in      string
		wantMsg string
	}{
		{"p b", "missing '>'"},
		{"p > b > c", "more than one '>'"},
		{"p > b /", "empty environment clause"},
		{"p > b / V_V / ", "empty environment clause"},
		{"p > b / a_b_c", "more than one '_'"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, msg := parseSoundChange(tt.in)
			assert.Contains(t, msg, tt.wantMsg)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	src := []string{
		"%category plosive : p t k",
		"%feature voiced : +b -p",
		"%symbol V : 'a' vowel +front",
		"=# Old",
		"= m : nasal +voiced 0long",
		"p t k > b d g / V_V / !#_a / in loanwords",
	}
	lines, err := ParseString(strings.Join(src, "\n"))
	require.NoError(t, err)
	require.Len(t, lines, len(src))
	for i, l := range lines {
		assert.Equal(t, src[i], l.String())
	}
}
