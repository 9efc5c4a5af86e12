// Package ir provides the parsed representation of a sound-change script.
//
// This package contains type definitions only, plus canonical serialization.
// Every other internal package imports ir; ir imports nothing internal, which
// keeps it the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Phones are opaque strings, NFC normalized by the reader
//   - Patterns in rules stay raw text; they are resolved at application time
//   - Line is a sealed variant: DirectiveLine, StageLine, PhoneLine, ChangeLine
package ir
