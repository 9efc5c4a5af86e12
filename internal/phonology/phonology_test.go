package phonology

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LFalch/broytari/internal/ir"
)

func phones(ss ...string) []ir.Phone {
	out := make([]ir.Phone, len(ss))
	for i, s := range ss {
		out[i] = ir.Phone(s)
	}
	return out
}

func TestCategory_OrderIsFirstInsertion(t *testing.T) {
	c := NewCategory().Add("p").Add("t").Add("k").Add("t")
	assert.Equal(t, phones("p", "t", "k"), c.Members())

	i, ok := c.Index("k")
	require.True(t, ok)
	assert.Equal(t, 2, i)

	c.Remove("p")
	assert.Equal(t, phones("t", "k"), c.Members())
	i, ok = c.Index("k")
	require.True(t, ok)
	assert.Equal(t, 1, i, "indices shift after removal")

	c.Add("p")
	assert.Equal(t, phones("t", "k", "p"), c.Members(), "re-added phone goes last")

	_, ok = c.Index("x")
	assert.False(t, ok)
}

func TestAddCategory_ReplacesNotMerges(t *testing.T) {
	ph := New()
	ph.AddCategory("plosive").Add("p").Add("t").Add("k")
	ph.AddCategory("plosive").Add("b").Add("d").Add("g")

	c, ok := ph.Category("plosive")
	require.True(t, ok)
	assert.Equal(t, phones("b", "d", "g"), c.Members())
	assert.Equal(t, []string{"plosive"}, ph.CategoryNames())
}

func TestAddFeature_ReplacesNotMerges(t *testing.T) {
	ph := New()
	ph.AddFeature("voiced").Plus("b").Minus("p")
	ph.AddFeature("voiced").Plus("d")

	f, ok := ph.Feature("voiced")
	require.True(t, ok)
	assert.Equal(t, phones("d"), f.PlusSet())
	assert.Empty(t, f.MinusSet())
	assert.Equal(t, Unset, f.Value("p"))
}

func TestRedeclarationIdempotence(t *testing.T) {
	once := New()
	once.AddCategory("nasal").Add("m").Add("n")

	twice := New()
	twice.AddCategory("nasal").Add("m").Add("n")
	twice.AddCategory("nasal").Add("m").Add("n")

	assert.True(t, once.Equal(twice))
	assert.Equal(t, once.Report(), twice.Report())
}

func TestFeature_Disjointness(t *testing.T) {
	ops := []struct {
		op    string
		phone ir.Phone
	}{
		{"+", "a"}, {"-", "a"}, {"+", "b"}, {"0", "b"}, {"-", "c"}, {"+", "c"},
		{"+", "a"}, {"-", "b"}, {"0", "a"}, {"+", "a"},
	}

	f := NewFeature()
	for _, o := range ops {
		switch o.op {
		case "+":
			f.Plus(o.phone)
		case "-":
			f.Minus(o.phone)
		case "0":
			f.Zero(o.phone)
		}
		for _, p := range f.PlusSet() {
			assert.NotContains(t, f.MinusSet(), p, "phone %s in both sets after %s%s", p, o.op, o.phone)
		}
	}

	assert.Equal(t, Plus, f.Value("a"))
	assert.Equal(t, Minus, f.Value("b"))
	assert.Equal(t, Plus, f.Value("c"))
	assert.Equal(t, Unset, f.Value("z"))
}

func TestClearPhone(t *testing.T) {
	ph := New()
	ph.AddCategory("plosive").Add("p").Add("b")
	ph.AddCategory("labial").Add("p").Add("m")
	ph.AddFeature("voiced").Plus("b").Minus("p")
	ph.AddFeature("nasal").Minus("p").Plus("m")

	ph.ClearPhone("p")

	for _, name := range ph.CategoryNames() {
		c, _ := ph.Category(name)
		assert.False(t, c.Contains("p"), "p still in %s", name)
	}
	for _, name := range ph.FeatureNames() {
		f, _ := ph.Feature(name)
		assert.Equal(t, Unset, f.Value("p"), "p still set in %s", name)
	}

	// Other phones are untouched.
	c, _ := ph.Category("labial")
	assert.Equal(t, phones("m"), c.Members())

	// Clearing an unknown phone is a no-op.
	ph.ClearPhone("zz")
	assert.Len(t, ph.Inventory(), 2)
}

func TestInventory(t *testing.T) {
	ph := New()
	ph.AddCategory("nasal").Add("m").Add("ng")
	ph.AddCategory("plosive").Add("p").Add("m")
	ph.AddFeature("voiced").Plus("b").Minus("p")

	assert.Equal(t, phones("m", "ng", "p", "b"), ph.Inventory())
}

func TestReport(t *testing.T) {
	ph := New()
	ph.AddCategory("plosive").Add("p").Add("b")
	ph.AddCategory("labial").Add("p").Add("b").Add("m")
	ph.AddFeature("voiced").Plus("b").Plus("m").Minus("p")

	r := ph.Report()
	assert.Equal(t, []string{
		"p: [plosive] [labial] [-voiced]",
		"b: [plosive] [labial] [+voiced]",
		"m: [labial] [+voiced]",
	}, r.Lines())

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Equal(t, "p: [plosive] [labial] [-voiced]\nb: [plosive] [labial] [+voiced]\nm: [labial] [+voiced]\n", buf.String())
}

func TestReport_OmitsUntaggedAndEmpty(t *testing.T) {
	ph := New()
	assert.Empty(t, ph.Report().Entries)

	ph.AddCategory("x").Add("a")
	ph.ClearPhone("a")
	assert.Empty(t, ph.Report().Entries)
}

func TestReport_Canonical(t *testing.T) {
	ph := New()
	ph.AddCategory("V").Add("a")
	ph.AddFeature("long").Minus("a")

	got, err := ir.MarshalCanonical(ph.Report().Canonical())
	require.NoError(t, err)
	assert.Equal(t, `[{"categories":["V"],"features":["-long"],"phone":"a"}]`, string(got))
}

func TestSymbolResolve(t *testing.T) {
	ph := New()
	ph.AddCategory("vowel").Add("a").Add("e").Add("i")
	ph.AddFeature("front").Plus("e").Plus("i").Minus("a")
	ph.AddFeature("high").Plus("i")

	tests := []struct {
		name   string
		symbol Symbol
		want   []ir.Phone
	}{
		{
			name:   "literals only",
			symbol: Symbol{Phones: phones("x", "y")},
			want:   phones("x", "y"),
		},
		{
			name:   "category qualifier",
			symbol: Symbol{Qualifiers: []ir.PhoneQualifier{{Kind: ir.QualCat, Name: "vowel"}}},
			want:   phones("a", "e", "i"),
		},
		{
			name: "category and plus",
			symbol: Symbol{Qualifiers: []ir.PhoneQualifier{
				{Kind: ir.QualCat, Name: "vowel"},
				{Kind: ir.QualPlus, Name: "front"},
			}},
			want: phones("e", "i"),
		},
		{
			name: "zero",
			symbol: Symbol{Qualifiers: []ir.PhoneQualifier{
				{Kind: ir.QualPlus, Name: "front"},
				{Kind: ir.QualZero, Name: "high"},
			}},
			want: phones("e"),
		},
		{
			name: "minus with literal first",
			symbol: Symbol{
				Phones:     phones("o", "a"),
				Qualifiers: []ir.PhoneQualifier{{Kind: ir.QualMinus, Name: "front"}},
			},
			want: phones("o", "a"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, undeclared := tt.symbol.Resolve(ph)
			assert.Empty(t, undeclared)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSymbolResolve_Undeclared(t *testing.T) {
	ph := New()
	s := Symbol{Qualifiers: []ir.PhoneQualifier{{Kind: ir.QualPlus, Name: "nasal"}}}
	got, undeclared := s.Resolve(ph)
	assert.Nil(t, got)
	assert.Equal(t, "nasal", undeclared)
}

func TestSymbolTable_SetOverwrites(t *testing.T) {
	table := SymbolTable{}
	table.Set('C', phones("p"), nil)
	table.Set('C', phones("t", "k"), nil)
	assert.Equal(t, phones("t", "k"), table['C'].Phones)
}
