package store

import (
	"encoding/json"
	"fmt"

	"github.com/LFalch/broytari/internal/ir"
)

// marshalStrings converts a string list to canonical JSON TEXT for storage.
// A nil list is stored as [].
func marshalStrings(ss []string) (string, error) {
	if ss == nil {
		ss = []string{}
	}
	data, err := ir.MarshalCanonical(ss)
	if err != nil {
		return "", fmt.Errorf("marshal strings: %w", err)
	}
	return string(data), nil
}

// unmarshalStrings parses a JSON TEXT column written by marshalStrings.
func unmarshalStrings(s string) ([]string, error) {
	out := []string{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("unmarshal strings: %w", err)
	}
	return out, nil
}
