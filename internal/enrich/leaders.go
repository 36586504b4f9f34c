package enrich

import (
	"strings"

	"github.com/teamarr/teamarr/internal/model"
)

// Game leader categories are sport-dispatched. Basketball surfaces the
// scoring/assist/rebound leaders with a numeric value; football keeps
// the full stat line the provider formats.
var (
	basketballLeaderCats = map[string]string{
		"points":   "points",
		"assists":  "assists",
		"rebounds": "rebounds",
	}
	footballLeaderCats = map[string]string{
		"passingleader":   "passing",
		"passingyards":    "passing",
		"rushingleader":   "rushing",
		"rushingyards":    "rushing",
		"receivingleader": "receiving",
		"receivingyards":  "receiving",
	}
)

// GameLeaders filters an event's raw leader lines to the categories
// meaningful for the sport, deduplicating to the first (top) entry per
// category. Returns nil for sports with no leader surface.
func GameLeaders(ev *model.Event, sport string) []model.Leader {
	var cats map[string]string
	switch sport {
	case "nba", "wnba", "ncaab", "basketball":
		cats = basketballLeaderCats
	case "nfl", "ncaaf", "football":
		cats = footballLeaderCats
	default:
		return nil
	}

	seen := make(map[string]bool)
	var out []model.Leader
	for _, l := range ev.Leaders {
		canon, ok := cats[strings.ToLower(l.Category)]
		if !ok || seen[canon] {
			continue
		}
		seen[canon] = true
		out = append(out, model.Leader{
			Category: canon,
			Name:     l.Name,
			Value:    l.Value,
		})
	}
	return out
}

// LeaderByCategory pulls one leader line by canonical category name.
func LeaderByCategory(leaders []model.Leader, category string) (model.Leader, bool) {
	for _, l := range leaders {
		if l.Category == category {
			return l, true
		}
	}
	return model.Leader{}, false
}

// SeasonLeaderByCategory pulls one season leader by category.
func SeasonLeaderByCategory(leaders []model.SeasonLeader, category string) (model.SeasonLeader, bool) {
	for _, l := range leaders {
		if l.Category == category {
			return l, true
		}
	}
	return model.SeasonLeader{}, false
}
