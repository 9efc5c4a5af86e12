// Package phonology holds the accumulated phonological model of a run:
// named categories, binary features, and the symbol table.
//
// Redeclaring a category or feature replaces it. This is reset semantics, not
// an incremental merge.
package phonology

import (
	"slices"

	"github.com/LFalch/broytari/internal/ir"
)

// phoneSet is an insertion-ordered set of phones.
type phoneSet struct {
	order []ir.Phone
	index map[ir.Phone]int
}

func newPhoneSet() phoneSet {
	return phoneSet{index: make(map[ir.Phone]int)}
}

func (s *phoneSet) add(p ir.Phone) {
	if _, ok := s.index[p]; ok {
		return
	}
	s.index[p] = len(s.order)
	s.order = append(s.order, p)
}

func (s *phoneSet) remove(p ir.Phone) {
	i, ok := s.index[p]
	if !ok {
		return
	}
	s.order = slices.Delete(s.order, i, i+1)
	delete(s.index, p)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
}

func (s *phoneSet) contains(p ir.Phone) bool {
	_, ok := s.index[p]
	return ok
}

func (s *phoneSet) members() []ir.Phone {
	return slices.Clone(s.order)
}

// Category is a named natural class. Members keep first-insertion order,
// which is the canonical order for linked correspondence.
type Category struct {
	set phoneSet
}

// NewCategory returns an empty category.
func NewCategory() *Category {
	return &Category{set: newPhoneSet()}
}

// Add inserts p and returns the category for chaining.
func (c *Category) Add(p ir.Phone) *Category {
	c.set.add(p)
	return c
}

// Remove deletes p if present.
func (c *Category) Remove(p ir.Phone) {
	c.set.remove(p)
}

// Contains reports membership.
func (c *Category) Contains(p ir.Phone) bool {
	return c.set.contains(p)
}

// Members returns the members in canonical order.
func (c *Category) Members() []ir.Phone {
	return c.set.members()
}

// Index returns the canonical position of p.
func (c *Category) Index(p ir.Phone) (int, bool) {
	i, ok := c.set.index[p]
	return i, ok
}

// Len returns the number of members.
func (c *Category) Len() int {
	return len(c.set.order)
}

// Polarity is the value of a feature for one phone.
type Polarity int

const (
	Unset Polarity = iota
	Plus
	Minus
)

// Feature is a named binary property. A phone is never in both sets.
type Feature struct {
	plus  phoneSet
	minus phoneSet
}

// NewFeature returns a feature with no phones set.
func NewFeature() *Feature {
	return &Feature{plus: newPhoneSet(), minus: newPhoneSet()}
}

// Plus sets p to + and returns the feature for chaining.
func (f *Feature) Plus(p ir.Phone) *Feature {
	f.minus.remove(p)
	f.plus.add(p)
	return f
}

// Minus sets p to - and returns the feature for chaining.
func (f *Feature) Minus(p ir.Phone) *Feature {
	f.plus.remove(p)
	f.minus.add(p)
	return f
}

// Zero unsets p.
func (f *Feature) Zero(p ir.Phone) {
	f.plus.remove(p)
	f.minus.remove(p)
}

// Value returns the polarity of p.
func (f *Feature) Value(p ir.Phone) Polarity {
	switch {
	case f.plus.contains(p):
		return Plus
	case f.minus.contains(p):
		return Minus
	default:
		return Unset
	}
}

// PlusSet returns the phones set to +, in insertion order.
func (f *Feature) PlusSet() []ir.Phone { return f.plus.members() }

// MinusSet returns the phones set to -, in insertion order.
func (f *Feature) MinusSet() []ir.Phone { return f.minus.members() }

// Phonology is the accumulated model: categories and features by name.
// Names keep the position of their first declaration.
type Phonology struct {
	categories    map[string]*Category
	categoryOrder []string
	features      map[string]*Feature
	featureOrder  []string
}

// New returns an empty phonology.
func New() *Phonology {
	return &Phonology{
		categories: make(map[string]*Category),
		features:   make(map[string]*Feature),
	}
}

// AddCategory creates or replaces the category called name and returns it.
func (ph *Phonology) AddCategory(name string) *Category {
	if _, ok := ph.categories[name]; !ok {
		ph.categoryOrder = append(ph.categoryOrder, name)
	}
	c := NewCategory()
	ph.categories[name] = c
	return c
}

// AddFeature creates or replaces the feature called name and returns it.
func (ph *Phonology) AddFeature(name string) *Feature {
	if _, ok := ph.features[name]; !ok {
		ph.featureOrder = append(ph.featureOrder, name)
	}
	f := NewFeature()
	ph.features[name] = f
	return f
}

// Category looks up a category by name.
func (ph *Phonology) Category(name string) (*Category, bool) {
	c, ok := ph.categories[name]
	return c, ok
}

// Feature looks up a feature by name.
func (ph *Phonology) Feature(name string) (*Feature, bool) {
	f, ok := ph.features[name]
	return f, ok
}

// CategoryNames returns category names in declaration order.
func (ph *Phonology) CategoryNames() []string {
	return slices.Clone(ph.categoryOrder)
}

// FeatureNames returns feature names in declaration order.
func (ph *Phonology) FeatureNames() []string {
	return slices.Clone(ph.featureOrder)
}

// ClearPhone removes p from every category and unsets it in every feature.
func (ph *Phonology) ClearPhone(p ir.Phone) {
	for _, c := range ph.categories {
		c.Remove(p)
	}
	for _, f := range ph.features {
		f.Zero(p)
	}
}

// Inventory returns every phone that appears in a category or feature:
// category members first (categories in declaration order), then feature
// members. Each phone appears once, at its first occurrence.
func (ph *Phonology) Inventory() []ir.Phone {
	seen := newPhoneSet()
	for _, name := range ph.categoryOrder {
		for _, p := range ph.categories[name].set.order {
			seen.add(p)
		}
	}
	for _, name := range ph.featureOrder {
		f := ph.features[name]
		for _, p := range f.plus.order {
			seen.add(p)
		}
		for _, p := range f.minus.order {
			seen.add(p)
		}
	}
	return seen.order
}

// Equal reports whether two phonologies declare the same names in the same
// order with the same ordered contents.
func (ph *Phonology) Equal(other *Phonology) bool {
	if !slices.Equal(ph.categoryOrder, other.categoryOrder) || !slices.Equal(ph.featureOrder, other.featureOrder) {
		return false
	}
	for _, name := range ph.categoryOrder {
		if !slices.Equal(ph.categories[name].set.order, other.categories[name].set.order) {
			return false
		}
	}
	for _, name := range ph.featureOrder {
		a, b := ph.features[name], other.features[name]
		if !slices.Equal(a.plus.order, b.plus.order) || !slices.Equal(a.minus.order, b.minus.order) {
			return false
		}
	}
	return true
}
