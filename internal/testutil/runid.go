package testutil

import "fmt"

// FixedRunIDs hands out predictable run IDs so golden snapshots stay
// byte-identical across runs.
//
// With a non-empty ID every call returns it. Otherwise calls return
// "run-0001", "run-0002", and so on.
//
// Implements engine.RunIDGenerator. Not safe for concurrent use.
type FixedRunIDs struct {
	id string
	n  int
}

// NewFixedRunIDs creates a generator. id may be empty.
func NewFixedRunIDs(id string) *FixedRunIDs {
	return &FixedRunIDs{id: id}
}

// Generate returns the next run ID.
func (g *FixedRunIDs) Generate() string {
	if g.id != "" {
		return g.id
	}
	g.n++
	return fmt.Sprintf("run-%04d", g.n)
}
