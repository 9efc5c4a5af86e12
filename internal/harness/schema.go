package harness

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaCUE string

// SchemaError lists every problem CUE found in a scenario file.
type SchemaError struct {
	File     string
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: scenario does not match schema:\n  %s", e.File, strings.Join(e.Problems, "\n  "))
}

// validateSchema checks raw YAML against #Scenario. Problems carry the
// YAML line when CUE knows it.
func validateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return &SchemaError{File: filename, Problems: formatCUEErrors(filename, err)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{File: filename, Problems: formatCUEErrors(filename, err)}
	}
	return nil
}

// formatCUEErrors renders each CUE error as "line N: path: message", using
// the first position that points into the scenario file.
func formatCUEErrors(filename string, err error) []string {
	var out []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := strings.Join(e.Path(), "."); path != "" {
			msg = path + ": " + msg
		}
		for _, pos := range cueerrors.Positions(e) {
			if pos.IsValid() && pos.Filename() == filename {
				msg = fmt.Sprintf("line %d: %s", pos.Line(), msg)
				break
			}
		}
		out = append(out, msg)
	}
	if len(out) == 0 {
		out = append(out, err.Error())
	}
	return out
}
