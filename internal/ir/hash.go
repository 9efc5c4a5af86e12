package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for future algorithm changes.
const (
	DomainScript   = "broytari/script/v1"
	DomainSnapshot = "broytari/snapshot/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ScriptHash identifies a parsed script by the canonical rendering of its
// lines. Comments, blank lines and spacing differences do not change it; line
// numbers do not participate.
func ScriptHash(lines []Line) (string, error) {
	rendered := make([]any, len(lines))
	for i, l := range lines {
		rendered[i] = l.String()
	}
	canonical, err := MarshalCanonical(rendered)
	if err != nil {
		return "", fmt.Errorf("ScriptHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainScript, canonical), nil
}

// SnapshotHash identifies a canonical snapshot value (see MarshalCanonical).
func SnapshotHash(snapshot map[string]any) (string, error) {
	canonical, err := MarshalCanonical(snapshot)
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}
