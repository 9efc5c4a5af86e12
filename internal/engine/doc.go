// Package engine interprets a parsed sound-change script.
//
// Run threads one State (phonology, symbol table, word list) through the
// ordered lines of a script:
//
//  1. Stage markers stop the pass when they name the requested stage.
//  2. Directives mutate the phonology or the symbol table.
//  3. Phone declarations clear the phone, then re-qualify it.
//  4. Sound changes rewrite every word.
//
// A sound change is compiled against the state at the moment it runs: it sees
// every directive above it and nothing below.
// Compilation turns each pattern into alternatives of tokens (literal phone,
// symbol class, category class). Matching scans each word left to right,
// preferring the leftmost then the longest match, and rewrites in a single
// pass over the original word.
//
// ERROR POLICY:
//
// An undeclared name in a phone declaration aborts the run. Errors in a rule
// (undeclared [name], unanchored insertion, bad linked length) reject that
// rule only: the word list is left untouched for it and the error is
// recorded in Result.RuleErrors. Options.Strict turns the first rule error
// into a run failure. A requested stage that never appears is a warning.
//
// Every executed rule is stamped with a logical sequence number from Clock,
// never a wall-clock time, so traces are reproducible.
package engine
