// Package store exports finished runs to SQLite.
//
// Each export is a self-contained record of one run:
//   - runs: identity, script and snapshot hashes, stage outcome, warnings
//   - report: the phonology snapshot, one row per tagged phone
//   - words: input and output of every word
//   - rule_steps: the per-rule trace
//
// The interpreter itself never reads an export back; no state crosses runs.
// ReadRun, ListRuns and QuerySteps serve the trace command.
//
// Ordering uses the logical seq of each step, never timestamps, and every
// query orders explicitly so reads are deterministic.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
