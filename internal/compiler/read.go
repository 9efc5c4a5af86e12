// Package compiler reads sound-change scripts and parses each line into its
// ir representation.
package compiler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/LFalch/broytari/internal/ir"
)

// maxLineBytes bounds a single source line.
const maxLineBytes = 1 << 20

// ReadFile reads and parses a script from disk.
// Syntax errors are returned as an ErrorList carrying the file name.
func ReadFile(path string) ([]ir.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// ParseString parses a script held in memory.
func ParseString(src string) ([]ir.Line, error) {
	return Parse(strings.NewReader(src), "")
}

// Parse classifies and parses every line of r.
//
// Each non-empty line is trimmed, NFC normalized and assigned exactly one
// kind by prefix:
//
//	%   directive
//	=#  stage marker
//	=   phone declaration
//	//  comment (skipped)
//	    anything else is a sound-change rule
//
// Parsing never stops at the first bad line. All syntax errors are collected
// and returned together as an ErrorList; in that case no lines are returned.
func Parse(r io.Reader, filename string) ([]ir.Line, error) {
	var (
		lines []ir.Line
		errs  ErrorList
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	no := 0
	for scanner.Scan() {
		no++
		text := strings.TrimSpace(norm.NFC.String(scanner.Text()))
		if no == 1 {
			text = strings.TrimSpace(strings.TrimPrefix(text, "\ufeff"))
		}
		if text == "" {
			continue
		}

		line, synErr := classify(text, no)
		if synErr != nil {
			synErr.File = filename
			errs = append(errs, synErr)
			continue
		}
		if line != nil {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return lines, nil
}

// classify picks the line kind and runs its parser. A nil line with a nil
// error means the line is a comment.
func classify(text string, no int) (ir.Line, *SyntaxError) {
	switch {
	case strings.HasPrefix(text, "%"):
		d, msg := parseDirective(text[1:])
		if msg != "" {
			return nil, &SyntaxError{Line: no, Rule: RuleDirective, Message: msg}
		}
		return &ir.DirectiveLine{No: no, Directive: d}, nil

	case strings.HasPrefix(text, "=#"):
		name := strings.TrimSpace(text[2:])
		if name == "" {
			return nil, &SyntaxError{Line: no, Rule: RuleStage, Message: "stage marker without a name"}
		}
		return &ir.StageLine{No: no, Name: name}, nil

	case strings.HasPrefix(text, "="):
		phone, quals, msg := parsePhone(text[1:])
		if msg != "" {
			return nil, &SyntaxError{Line: no, Rule: RulePhone, Message: msg}
		}
		return &ir.PhoneLine{No: no, Phone: phone, Qualifiers: quals}, nil

	case strings.HasPrefix(text, "//"):
		return nil, nil

	default:
		sc, msg := parseSoundChange(text)
		if msg != "" {
			return nil, &SyntaxError{Line: no, Rule: RuleChange, Message: msg}
		}
		return &ir.ChangeLine{No: no, Change: sc}, nil
	}
}
