package enrich

import (
	"time"

	"github.com/teamarr/teamarr/internal/model"
)

// SeasonYear determines the current season year, preferring what the
// upstream schedule says. The calendar heuristic is a last resort; it
// is known to be fragile right at season boundaries.
func SeasonYear(events []model.Event, sport string, now time.Time) int {
	// nearest event to now that carries a season year
	best := 0
	bestDist := time.Duration(1<<63 - 1)
	for i := range events {
		if events[i].SeasonYear == 0 {
			continue
		}
		d := events[i].StartUTC.Sub(now)
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = events[i].SeasonYear
		}
	}
	if best != 0 {
		return best
	}
	return calendarSeasonYear(sport, now)
}

// calendarSeasonYear guesses from the calendar. Winter sports label a
// season by its ending year, fall sports by its starting year.
func calendarSeasonYear(sport string, now time.Time) int {
	y, m := now.Year(), now.Month()
	switch sport {
	case "nba", "wnba", "ncaab", "nhl", "basketball", "hockey":
		if m >= time.October {
			return y + 1
		}
		return y
	case "nfl", "ncaaf", "football":
		if m <= time.February {
			return y - 1
		}
		return y
	default:
		return y
	}
}
