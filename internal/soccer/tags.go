package soccer

import (
	"sort"
	"strings"
)

// Confederation prefixes group continental competitions; "fifa" marks
// world-level ones. Everything else is a country code, hence domestic.
var continentalPrefixes = map[string]bool{
	"uefa":     true,
	"conmebol": true,
	"concacaf": true,
	"afc":      true,
	"caf":      true,
	"ofc":      true,
}

// National-team competitions hosted by confederations or FIFA. Club
// competitions under the same prefixes (champions league etc.) are the
// default, so only the national ones are listed.
var nationalTokens = []string{
	"world", "wc", "euro", "nations", "copa_america", "gold", "asian_cup",
	"afcon", "friendly.intl", "olympics",
}

var youthTokens = []string{"u17", "u18", "u19", "u20", "u21", "u23", "youth"}

// Tags classifies a competition slug into the multi-valued tag set.
// A slug carries one of domestic/continental/world, one of club/national,
// one of league/cup, a gender, and possibly youth. The result is sorted
// so repeated refreshes store an identical set.
func Tags(slug string) []string {
	slug = strings.ToLower(slug)
	parts := strings.Split(slug, ".")
	prefix := parts[0]

	tags := map[string]bool{}

	switch {
	case prefix == "fifa":
		tags["world"] = true
	case continentalPrefixes[prefix]:
		tags["continental"] = true
	default:
		tags["domestic"] = true
	}

	national := false
	if tags["world"] {
		national = true
	}
	for _, tok := range nationalTokens {
		if strings.Contains(slug, tok) {
			national = true
			break
		}
	}
	if national {
		tags["national"] = true
	} else {
		tags["club"] = true
	}

	// Numeric-tier slugs (eng.1, ger.2) are leagues; named suffixes
	// (eng.fa, esp.copa_del_rey, uefa.champions) are knockout cups.
	if isLeagueSlug(parts) {
		tags["league"] = true
	} else {
		tags["cup"] = true
	}

	if isWomens(parts, slug) {
		tags["womens"] = true
	} else {
		tags["mens"] = true
	}

	for _, tok := range youthTokens {
		if strings.Contains(slug, tok) {
			tags["youth"] = true
			break
		}
	}

	out := make([]string, 0, len(tags))
	for t := range tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func isLeagueSlug(parts []string) bool {
	for _, p := range parts[1:] {
		if isDigits(p) {
			return true
		}
	}
	return false
}

func isWomens(parts []string, slug string) bool {
	for _, p := range parts {
		if p == "w" || strings.HasSuffix(p, ".w") {
			return true
		}
	}
	return strings.Contains(slug, "wwc") || strings.Contains(slug, "womens") || strings.Contains(slug, "nwsl")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
