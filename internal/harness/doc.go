// Package harness runs conformance scenarios against the interpreter.
//
// A scenario is a YAML file naming a script (inline or by path), a word
// list, an optional stage and the expected outcome:
//
//	name: linked_plosives
//	description: voicing between vowels keeps place of articulation
//	script: |
//	  %category V : a
//	  p t k > b d g / V_V
//	words: [apa, ata]
//	expect:
//	  words: [aba, ada]
//	  rule_errors: []
//
// Files are checked against an embedded CUE schema before decoding, so a
// typo in a field name is reported with its YAML line. Cross-field rules
// (exactly one of script and script_file) are checked in Go.
//
// Runs are deterministic: the run ID is fixed per scenario and rule steps
// are stamped by the engine's logical clock. Each run can be compared with a
// golden file holding the canonical JSON snapshot, stored next to the
// scenarios in golden/<name>.golden.
package harness
