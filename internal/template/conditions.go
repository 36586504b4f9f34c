package template

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/teamarr/teamarr/internal/model"
)

// The condition grammar is a closed set: named predicates, streak
// threshold comparisons, and one parameterized substring predicate.
// Anything unparseable evaluates false.

var (
	streakCondRe   = regexp.MustCompile(`^(home_|away_)?streak_(w|l)\s*>=\s*(\d+)$`)
	containsCondRe = regexp.MustCompile(`^opponent_name_contains\((.*)\)$`)
)

// EvalCondition evaluates one predicate against a resolution.
func EvalCondition(cond string, r *Resolution) bool {
	cond = strings.TrimSpace(strings.ToLower(cond))

	switch cond {
	case "always", "":
		return true
	case "is_home":
		_, _, home, ok := r.side(r.Current)
		return ok && home
	case "is_away":
		_, _, home, ok := r.side(r.Current)
		return ok && !home
	case "is_playoff":
		return r.Current != nil && r.Current.Event != nil && r.Current.Event.SeasonType == model.SeasonPostseason
	case "is_preseason":
		return r.Current != nil && r.Current.Event != nil && r.Current.Event.SeasonType == model.SeasonPreseason
	case "has_odds":
		return r.Current != nil && r.Current.Event != nil && r.Current.Event.Odds != nil
	case "ranked_opponent_top25":
		_, opp, _, ok := r.side(r.Current)
		return ok && opp.Rank >= 1 && opp.Rank <= 25
	case "top10_matchup":
		own, opp, _, ok := r.side(r.Current)
		return ok && own.Rank >= 1 && own.Rank <= 10 && opp.Rank >= 1 && opp.Rank <= 10
	case "is_national_broadcast":
		if r.Current == nil || r.Current.Event == nil || r.Team.IsNational == nil {
			return false
		}
		for _, b := range r.Current.Event.Broadcasts {
			if r.Team.IsNational(b) {
				return true
			}
		}
		return false
	}

	if m := streakCondRe.FindStringSubmatch(cond); m != nil {
		return evalStreakCond(m, r)
	}
	if m := containsCondRe.FindStringSubmatch(cond); m != nil {
		_, opp, _, ok := r.side(r.Current)
		if !ok {
			return false
		}
		needle := strings.Trim(strings.TrimSpace(m[1]), `"'`)
		return needle != "" && strings.Contains(strings.ToLower(opp.Name), strings.ToLower(needle))
	}
	return false
}

func evalStreakCond(m []string, r *Resolution) bool {
	var streak string
	switch m[1] {
	case "home_":
		streak = r.Team.Streaks.HomeStreak
	case "away_":
		streak = r.Team.Streaks.AwayStreak
	default:
		streak = r.Team.Streaks.Streak
	}
	if streak == "" {
		return false
	}
	kind := strings.ToUpper(m[2])
	if !strings.HasPrefix(streak, kind) {
		return false
	}
	n, err := strconv.Atoi(streak[1:])
	if err != nil {
		return false
	}
	threshold, _ := strconv.Atoi(m[3])
	return n >= threshold
}

// SelectDescription picks the conditional description for one
// resolution: entries evaluated in ascending priority order, first
// satisfied wins; the priority-100 entry is the fallback slot, taken
// when nothing above it matched; otherwise empty.
func SelectDescription(options []model.DescriptionOption, r *Resolution) string {
	if len(options) == 0 {
		return ""
	}
	sorted := make([]model.DescriptionOption, len(options))
	copy(sorted, options)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })

	for _, opt := range sorted {
		if opt.Priority >= 100 {
			return opt.Text
		}
		if EvalCondition(opt.Condition, r) {
			return opt.Text
		}
	}
	return ""
}
