package espn

import "strings"

// sportLeague is the ESPN URL path pair for a canonical league code.
type sportLeague struct {
	Sport  string
	League string
}

// leagueMapping maps Teamarr's canonical league codes to ESPN path pairs.
// Soccer competitions are addressed by dotted slug (e.g. "eng.1") and are
// handled by SportLeague directly.
var leagueMapping = map[string]sportLeague{
	"nfl":                       {"football", "nfl"},
	"nba":                       {"basketball", "nba"},
	"mlb":                       {"baseball", "mlb"},
	"nhl":                       {"hockey", "nhl"},
	"wnba":                      {"basketball", "wnba"},
	"mls":                       {"soccer", "usa.1"},
	"mens-college-basketball":   {"basketball", "mens-college-basketball"},
	"womens-college-basketball": {"basketball", "womens-college-basketball"},
	"college-football":          {"football", "college-football"},
	"mens-college-hockey":       {"hockey", "mens-college-hockey"},
	"womens-college-hockey":     {"hockey", "womens-college-hockey"},
}

// collegeScoreboardGroups carries the extra scoreboard query parameter a
// college league needs before ESPN returns the full division.
// Men's/women's college basketball need D1 (50), college football FBS (80).
// College hockey needs no groups parameter.
var collegeScoreboardGroups = map[string]string{
	"mens-college-basketball":   "50",
	"womens-college-basketball": "50",
	"college-football":          "80",
}

// SportLeague resolves a canonical league code to its ESPN (sport, league)
// path pair. Dotted codes are soccer competition slugs; anything else
// unknown is assumed to be a football league, matching upstream behavior.
func SportLeague(league string) (string, string) {
	if sl, ok := leagueMapping[league]; ok {
		return sl.Sport, sl.League
	}
	if strings.Contains(league, ".") {
		return "soccer", league
	}
	return "football", league
}

// Supported reports whether a league code can be served by ESPN.
func Supported(league string) bool {
	if _, ok := leagueMapping[league]; ok {
		return true
	}
	return strings.Contains(league, ".")
}

// SportKey returns Teamarr's canonical sport key for duration lookups
// ("nfl", "nba", "soccer", "ncaaf", ...).
func SportKey(league string) string {
	switch league {
	case "nfl", "nba", "mlb", "nhl", "wnba":
		return league
	case "college-football":
		return "ncaaf"
	case "mens-college-basketball", "womens-college-basketball":
		return "ncaab"
	}
	sport, _ := SportLeague(league)
	return sport
}
