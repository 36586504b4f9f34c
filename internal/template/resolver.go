package template

import (
	"regexp"
	"strings"
)

// placeholderRe lexes placeholders in a single pass: a snake_case name
// with an optional .next/.last suffix.
var placeholderRe = regexp.MustCompile(`\{[a-z_][a-z0-9_]*(?:\.(?:next|last))?\}`)

// BuildVariables produces the flat placeholder map for one resolution:
// the definition table walked once per slot, strategies filtering which
// slots each variable exposes. Nil contexts yield empty strings.
func BuildVariables(r *Resolution) map[string]string {
	vars := make(map[string]string, len(definitions)*2)

	for i := range definitions {
		d := &definitions[i]
		switch d.strat {
		case stratBase:
			vars[d.name] = d.team(r)
		case stratLast:
			vars[d.name+".last"] = gameValue(d, r, r.Last)
		case stratBaseNext:
			vars[d.name] = gameValue(d, r, r.Current)
			vars[d.name+".next"] = gameValue(d, r, r.Next)
		case stratAll:
			vars[d.name] = gameValue(d, r, r.Current)
			vars[d.name+".next"] = gameValue(d, r, r.Next)
			vars[d.name+".last"] = gameValue(d, r, r.Last)
		}
	}
	return vars
}

func gameValue(d *definition, r *Resolution, g *GameContext) string {
	if g == nil {
		return ""
	}
	return d.game(r, g)
}

// Resolve substitutes placeholders in one pass. Unknown names and
// disallowed suffixes resolve to the empty string; there is no
// recursive expansion.
func Resolve(text string, vars map[string]string) string {
	if text == "" || !strings.Contains(text, "{") {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		return vars[m[1:len(m)-1]]
	})
}

// ResolveAgainst is the convenience form: build the variable map and
// substitute in one call.
func ResolveAgainst(text string, r *Resolution) string {
	return Resolve(text, BuildVariables(r))
}

// VariableCount reports table totals for sanity checks: distinct base
// names and total exposed placeholders.
func VariableCount() (names, placeholders int) {
	names = len(definitions)
	for i := range definitions {
		switch definitions[i].strat {
		case stratBase, stratLast:
			placeholders++
		case stratBaseNext:
			placeholders += 2
		case stratAll:
			placeholders += 3
		}
	}
	return
}
