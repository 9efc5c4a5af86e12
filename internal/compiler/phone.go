package compiler

import (
	"fmt"
	"strings"

	"github.com/LFalch/broytari/internal/ir"
)

// parsePhone parses the text after "=": <phone> [: qualifier...].
// A bare qualifier token names a category, unlike a feature body where every
// term must be signed.
func parsePhone(s string) (ir.Phone, []ir.PhoneQualifier, string) {
	terms := strings.Fields(s)
	if len(terms) == 0 {
		return "", nil, "missing phone"
	}
	phone := terms[0]
	if strings.Contains(phone, ":") {
		return "", nil, "':' must be separated from the phone by whitespace"
	}

	body, msg := splitBody(terms[1:])
	if msg != "" {
		return "", nil, fmt.Sprintf("phone %s: %s", phone, msg)
	}

	var quals []ir.PhoneQualifier
	for _, term := range body {
		q, msg := parseQualifier(term)
		if msg != "" {
			return "", nil, fmt.Sprintf("phone %s: %s", phone, msg)
		}
		quals = append(quals, q)
	}
	return ir.Phone(phone), quals, ""
}
