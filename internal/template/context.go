// Package template resolves placeholder variables against per-game
// contexts and selects conditional descriptions.
//
// Every variable has exactly one suffix strategy deciding which slots
// it exposes: season-aggregate variables only {name}, result variables
// only {name.last}, odds {name} and {name.next}, and game-specific
// variables all three. Unknown placeholders and empty contexts resolve
// to the empty string, never to a literal brace token.
package template

import (
	"time"

	"github.com/teamarr/teamarr/internal/model"
)

// TeamContext is the season-aggregate side of resolution: stable for
// the team across the whole run.
type TeamContext struct {
	Team          model.Team
	Sport         string // canonical sport key ("nba", "soccer", ...)
	Stats         model.TeamStats
	Streaks       model.Streaks
	Coach         string
	SeasonLeaders []model.SeasonLeader
	SeasonYear    int
	Location      *time.Location
	Now           time.Time

	// IsNational reports whether a broadcast name is on the national
	// network list. Nil disables the check.
	IsNational func(string) bool
}

// GameContext is one temporal slot: the current, next, or last game
// with its opponent-side enrichment.
type GameContext struct {
	Event    *model.Event
	OppStats *model.TeamStats
	OppCoach string
	H2H      model.H2H
	Leaders  []model.Leader // game player leaders
}

// Resolution binds the three slots for one rendering. Any slot may be
// nil: filler programmes have no current game, season openers no last.
type Resolution struct {
	Team    TeamContext
	Current *GameContext
	Next    *GameContext
	Last    *GameContext
}

func (r *Resolution) loc() *time.Location {
	if r.Team.Location != nil {
		return r.Team.Location
	}
	return time.UTC
}

// side returns the team's own side, the opponent side, and the home
// flag for a game context.
func (r *Resolution) side(g *GameContext) (own, opp model.Side, home, ok bool) {
	if g == nil || g.Event == nil {
		return model.Side{}, model.Side{}, false, false
	}
	return g.Event.SideFor(r.Team.Team.ProviderTeamID)
}
