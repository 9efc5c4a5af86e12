package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/LFalch/broytari/internal/compiler"
	"github.com/LFalch/broytari/internal/ir"
)

// LoadError represents an error that occurred while loading an input file.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadScript reads and parses a script. A missing file yields a LoadError
// with ErrCodeNotFound, syntax errors one with ErrCodeSyntax that wraps the
// compiler.ErrorList.
func LoadScript(path string) ([]ir.Line, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "script not found", Err: err}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: "cannot access script", Err: err}
	}

	lines, err := compiler.ReadFile(path)
	if err != nil {
		if compiler.IsSyntaxError(err) {
			return nil, &LoadError{Code: ErrCodeSyntax, Path: path, Message: "script has syntax errors", Err: err}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: "cannot read script", Err: err}
	}
	return lines, nil
}

// LoadWords reads every word file in order, then appends the inline words.
// Word files hold whitespace-separated words; blank lines and lines
// starting with "//" are skipped. Words are NFC-normalized like scripts.
func LoadWords(files, inline []string) ([]string, error) {
	var words []string
	for _, path := range files {
		fileWords, err := readWordFile(path)
		if err != nil {
			return nil, err
		}
		words = append(words, fileWords...)
	}
	for _, w := range inline {
		words = append(words, strings.Fields(norm.NFC.String(w))...)
	}
	return words, nil
}

func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "word file not found", Err: err}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: "cannot open word file", Err: err}
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(norm.NFC.String(scanner.Text()))
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		words = append(words, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Path: path, Message: "cannot read word file", Err: err}
	}
	return words, nil
}

// loadErrorCode returns the code of a LoadError, or ErrCodeGeneric.
func loadErrorCode(err error) string {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}
