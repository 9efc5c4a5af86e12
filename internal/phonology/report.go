package phonology

import (
	"fmt"
	"io"
	"strings"

	"github.com/LFalch/broytari/internal/ir"
)

// FeatureTag is one feature value in a report entry.
type FeatureTag struct {
	Name string `json:"name"`
	Sign string `json:"sign"` // "+" or "-"
}

// String renders the tag as "+name" or "-name".
func (t FeatureTag) String() string {
	return t.Sign + t.Name
}

// ReportEntry lists the tags of one phone.
type ReportEntry struct {
	Phone      ir.Phone     `json:"phone"`
	Categories []string     `json:"categories"`
	Features   []FeatureTag `json:"features"`
}

// String renders the entry as "<phone>: [cat]... [+feat]...".
func (e ReportEntry) String() string {
	var b strings.Builder
	b.WriteString(string(e.Phone))
	b.WriteString(":")
	for _, c := range e.Categories {
		fmt.Fprintf(&b, " [%s]", c)
	}
	for _, f := range e.Features {
		fmt.Fprintf(&b, " [%s]", f)
	}
	return b.String()
}

// Report is a snapshot of which tags every phone carries.
type Report struct {
	Entries []ReportEntry `json:"entries"`
}

// Report builds the snapshot. Phones follow Inventory order; tags list
// categories then features, each in declaration order. Phones without any
// tag are omitted.
func (ph *Phonology) Report() Report {
	r := Report{Entries: []ReportEntry{}}
	for _, p := range ph.Inventory() {
		entry := ReportEntry{Phone: p, Categories: []string{}, Features: []FeatureTag{}}
		for _, name := range ph.categoryOrder {
			if ph.categories[name].Contains(p) {
				entry.Categories = append(entry.Categories, name)
			}
		}
		for _, name := range ph.featureOrder {
			switch ph.features[name].Value(p) {
			case Plus:
				entry.Features = append(entry.Features, FeatureTag{Name: name, Sign: "+"})
			case Minus:
				entry.Features = append(entry.Features, FeatureTag{Name: name, Sign: "-"})
			}
		}
		if len(entry.Categories) == 0 && len(entry.Features) == 0 {
			continue
		}
		r.Entries = append(r.Entries, entry)
	}
	return r
}

// Lines renders one text line per entry.
func (r Report) Lines() []string {
	lines := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		lines[i] = e.String()
	}
	return lines
}

// WriteText writes the plain-text report, one line per phone.
func (r Report) WriteText(w io.Writer) error {
	for _, line := range r.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// Canonical converts the report into the value shape accepted by
// ir.MarshalCanonical.
func (r Report) Canonical() []any {
	out := make([]any, len(r.Entries))
	for i, e := range r.Entries {
		feats := make([]any, len(e.Features))
		for j, f := range e.Features {
			feats[j] = f.String()
		}
		out[i] = map[string]any{
			"phone":      string(e.Phone),
			"categories": e.Categories,
			"features":   feats,
		}
	}
	return out
}
