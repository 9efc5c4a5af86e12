package compiler

import (
	"strings"

	"github.com/LFalch/broytari/internal/ir"
)

// parseSoundChange parses "<from> > <to> [/ clause]...".
//
// The line is split at the first '>' and then at the first '/'. Patterns are
// kept as raw text; they are resolved against the phonology when the rule
// runs, so names declared after the rule line still apply.
func parseSoundChange(s string) (ir.SoundChange, string) {
	arrow := strings.IndexByte(s, '>')
	if arrow < 0 {
		return ir.SoundChange{}, "missing '>'"
	}
	from := strings.TrimSpace(s[:arrow])
	rest := s[arrow+1:]

	to, envText := rest, ""
	if slash := strings.IndexByte(rest, '/'); slash >= 0 {
		to, envText = rest[:slash], rest[slash:]
	}
	to = strings.TrimSpace(to)
	if strings.Contains(to, ">") {
		return ir.SoundChange{}, "more than one '>'"
	}

	sc := ir.SoundChange{From: from, To: to}
	if envText == "" {
		return sc, ""
	}

	for _, clause := range strings.Split(envText, "/")[1:] {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			return ir.SoundChange{}, "empty environment clause"
		}

		underscore := strings.IndexByte(clause, '_')
		if underscore < 0 {
			sc.Special = append(sc.Special, clause)
			continue
		}
		if strings.Count(clause, "_") > 1 {
			return ir.SoundChange{}, "environment " + clause + " has more than one '_'"
		}

		env := ir.Environment{}
		before := strings.TrimSpace(clause[:underscore])
		after := strings.TrimSpace(clause[underscore+1:])
		if rest, ok := strings.CutPrefix(before, "!"); ok {
			env.Exception = true
			before = strings.TrimSpace(rest)
		}
		if rest, ok := strings.CutPrefix(before, "#"); ok {
			env.FromStart = true
			before = strings.TrimSpace(rest)
		}
		if rest, ok := strings.CutSuffix(after, "#"); ok {
			env.ToEnd = true
			after = strings.TrimSpace(rest)
		}
		env.Before, env.After = before, after
		sc.Environments = append(sc.Environments, env)
	}

	return sc, ""
}
