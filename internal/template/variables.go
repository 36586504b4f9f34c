package template

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teamarr/teamarr/internal/model"
)

type strategy int

const (
	// stratBase: season-aggregate, {name} only
	stratBase strategy = iota
	// stratLast: result-only, {name.last} only
	stratLast
	// stratBaseNext: odds, {name} and {name.next}
	stratBaseNext
	// stratAll: game-specific, all three slots
	stratAll
)

// definition is one variable table entry. Base variables read the team
// context; the rest read a game slot.
type definition struct {
	name  string
	strat strategy
	team  func(r *Resolution) string
	game  func(r *Resolution, g *GameContext) string
}

func itoa(n int) string { return strconv.Itoa(n) }

func f1(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func fpct(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func nonzero(n int) string {
	if n == 0 {
		return ""
	}
	return itoa(n)
}

func seasonLeaderField(r *Resolution, category string, name bool) string {
	for _, l := range r.Team.SeasonLeaders {
		if l.Category == category {
			if name {
				return l.Name
			}
			return l.PerGame
		}
	}
	return ""
}

func gameLeaderLine(g *GameContext, category string) string {
	for _, l := range g.Leaders {
		if l.Category == category {
			return l.Name + " - " + l.Value
		}
	}
	return ""
}

func oppStat(g *GameContext, f func(*model.TeamStats) string) string {
	if g.OppStats == nil {
		return ""
	}
	return f(g.OppStats)
}

// definitions is the full variable table. Order is stable; names are
// the placeholder spellings.
var definitions = []definition{
	// season-aggregate (team identity, standings, streaks, leaders)
	{name: "team_name", strat: stratBase, team: func(r *Resolution) string { return r.Team.Team.Name }},
	{name: "team_abbrev", strat: stratBase, team: func(r *Resolution) string { return r.Team.Team.Abbrev }},
	{name: "team_league", strat: stratBase, team: func(r *Resolution) string { return r.Team.Team.League }},
	{name: "sport", strat: stratBase, team: func(r *Resolution) string { return r.Team.Sport }},
	{name: "record", strat: stratBase, team: func(r *Resolution) string { return r.Team.Stats.Record }},
	{name: "wins", strat: stratBase, team: func(r *Resolution) string { return itoa(r.Team.Stats.Wins) }},
	{name: "losses", strat: stratBase, team: func(r *Resolution) string { return itoa(r.Team.Stats.Losses) }},
	{name: "ties", strat: stratBase, team: func(r *Resolution) string { return nonzero(r.Team.Stats.Ties) }},
	{name: "win_pct", strat: stratBase, team: func(r *Resolution) string { return fpct(r.Team.Stats.WinPct) }},
	{name: "home_record", strat: stratBase, team: func(r *Resolution) string { return r.Team.Stats.HomeRecord }},
	{name: "away_record", strat: stratBase, team: func(r *Resolution) string { return r.Team.Stats.AwayRecord }},
	{name: "division_record", strat: stratBase, team: func(r *Resolution) string { return r.Team.Stats.DivisionRecord }},
	{name: "ppg", strat: stratBase, team: func(r *Resolution) string { return f1(r.Team.Stats.PPG) }},
	{name: "papg", strat: stratBase, team: func(r *Resolution) string { return f1(r.Team.Stats.PAPG) }},
	{name: "rank", strat: stratBase, team: func(r *Resolution) string { return nonzero(r.Team.Stats.Rank) }},
	{name: "playoff_seed", strat: stratBase, team: func(r *Resolution) string { return nonzero(r.Team.Stats.PlayoffSeed) }},
	{name: "games_back", strat: stratBase, team: func(r *Resolution) string {
		if r.Team.Stats.GamesBack == 0 {
			return ""
		}
		return strconv.FormatFloat(r.Team.Stats.GamesBack, 'f', 1, 64)
	}},
	{name: "standing", strat: stratBase, team: func(r *Resolution) string {
		if r.Team.Stats.PlayoffSeed == 0 || r.Team.Stats.Conference == "" {
			return ""
		}
		return fmt.Sprintf("#%d in %s", r.Team.Stats.PlayoffSeed, r.Team.Stats.Conference)
	}},
	{name: "conference", strat: stratBase, team: func(r *Resolution) string { return r.Team.Stats.Conference }},
	{name: "conference_abbrev", strat: stratBase, team: func(r *Resolution) string { return r.Team.Stats.ConferenceAbbr }},
	{name: "division", strat: stratBase, team: func(r *Resolution) string { return r.Team.Stats.Division }},
	{name: "streak", strat: stratBase, team: func(r *Resolution) string { return r.Team.Streaks.Streak }},
	{name: "home_streak", strat: stratBase, team: func(r *Resolution) string { return r.Team.Streaks.HomeStreak }},
	{name: "away_streak", strat: stratBase, team: func(r *Resolution) string { return r.Team.Streaks.AwayStreak }},
	{name: "last_5_record", strat: stratBase, team: func(r *Resolution) string { return r.Team.Streaks.Last5Record }},
	{name: "last_10_record", strat: stratBase, team: func(r *Resolution) string { return r.Team.Streaks.Last10Record }},
	{name: "recent_form", strat: stratBase, team: func(r *Resolution) string { return r.Team.Streaks.RecentForm }},
	{name: "head_coach", strat: stratBase, team: func(r *Resolution) string { return r.Team.Coach }},
	{name: "season_year", strat: stratBase, team: func(r *Resolution) string { return nonzero(r.Team.SeasonYear) }},
	{name: "epg_timezone", strat: stratBase, team: func(r *Resolution) string { return r.loc().String() }},
	{name: "basketball_top_scorer_name", strat: stratBase, team: func(r *Resolution) string { return seasonLeaderField(r, "points", true) }},
	{name: "basketball_top_scorer_ppg", strat: stratBase, team: func(r *Resolution) string { return seasonLeaderField(r, "points", false) }},
	{name: "basketball_top_rebounder_name", strat: stratBase, team: func(r *Resolution) string { return seasonLeaderField(r, "rebounds", true) }},
	{name: "basketball_top_rebounder_rpg", strat: stratBase, team: func(r *Resolution) string { return seasonLeaderField(r, "rebounds", false) }},
	{name: "basketball_top_assist_name", strat: stratBase, team: func(r *Resolution) string { return seasonLeaderField(r, "assists", true) }},
	{name: "basketball_top_assist_apg", strat: stratBase, team: func(r *Resolution) string { return seasonLeaderField(r, "assists", false) }},

	// result-only, bound to the completed game
	{name: "result", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		own, opp, _, ok := r.side(g)
		if !ok || !g.Event.Final() || own.Score == nil || opp.Score == nil {
			return ""
		}
		switch {
		case *own.Score > *opp.Score:
			return "win"
		case *own.Score < *opp.Score:
			return "loss"
		}
		return "tie"
	}},
	{name: "final_score", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		own, opp, _, ok := r.side(g)
		if !ok || own.Score == nil || opp.Score == nil {
			return ""
		}
		return fmt.Sprintf("%d-%d", *own.Score, *opp.Score)
	}},
	{name: "score_abbrev", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Away.Score == nil || g.Event.Home.Score == nil {
			return ""
		}
		return fmt.Sprintf("%s %d @ %s %d", g.Event.Away.Abbrev, *g.Event.Away.Score, g.Event.Home.Abbrev, *g.Event.Home.Score)
	}},
	{name: "overtime_text", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		if strings.Contains(g.Event.Detail, "OT") || strings.Contains(g.Event.Detail, "Overtime") {
			return "OT"
		}
		return ""
	}},
	{name: "winner", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Home.Score == nil || g.Event.Away.Score == nil {
			return ""
		}
		if *g.Event.Home.Score > *g.Event.Away.Score {
			return g.Event.Home.Name
		}
		if *g.Event.Away.Score > *g.Event.Home.Score {
			return g.Event.Away.Name
		}
		return ""
	}},
	{name: "loser", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Home.Score == nil || g.Event.Away.Score == nil {
			return ""
		}
		if *g.Event.Home.Score < *g.Event.Away.Score {
			return g.Event.Home.Name
		}
		if *g.Event.Away.Score < *g.Event.Home.Score {
			return g.Event.Away.Name
		}
		return ""
	}},
	{name: "top_performer", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil {
			return ""
		}
		return gameLeaderLine(g, "points")
	}},
	{name: "passing_leader", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil {
			return ""
		}
		return gameLeaderLine(g, "passing")
	}},
	{name: "rushing_leader", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil {
			return ""
		}
		return gameLeaderLine(g, "rushing")
	}},
	{name: "receiving_leader", strat: stratLast, game: func(r *Resolution, g *GameContext) string {
		if g == nil {
			return ""
		}
		return gameLeaderLine(g, "receiving")
	}},

	// odds: pre-game lines, current and next only
	{name: "odds_spread", strat: stratBaseNext, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Odds == nil || g.Event.Odds.Spread == 0 {
			return ""
		}
		return strconv.FormatFloat(g.Event.Odds.Spread, 'f', 1, 64)
	}},
	{name: "odds_over_under", strat: stratBaseNext, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Odds == nil || g.Event.Odds.OverUnder == 0 {
			return ""
		}
		return strconv.FormatFloat(g.Event.Odds.OverUnder, 'f', 1, 64)
	}},
	{name: "odds_details", strat: stratBaseNext, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Odds == nil {
			return ""
		}
		return g.Event.Odds.Details
	}},
	{name: "odds_favorite", strat: stratBaseNext, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Odds == nil {
			return ""
		}
		if g.Event.Odds.HomeFavorite {
			return g.Event.Home.Name
		}
		return g.Event.Away.Name
	}},
	{name: "odds_home_moneyline", strat: stratBaseNext, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Odds == nil || g.Event.Odds.HomeMoneyline == 0 {
			return ""
		}
		return formatMoneyline(g.Event.Odds.HomeMoneyline)
	}},
	{name: "odds_away_moneyline", strat: stratBaseNext, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Odds == nil || g.Event.Odds.AwayMoneyline == 0 {
			return ""
		}
		return formatMoneyline(g.Event.Odds.AwayMoneyline)
	}},
	{name: "odds_provider", strat: stratBaseNext, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Odds == nil {
			return ""
		}
		return g.Event.Odds.Provider
	}},

	// game-specific, all three slots
	{name: "opponent", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, opp, _, ok := r.side(g)
		if !ok {
			return ""
		}
		return opp.Name
	}},
	{name: "opponent_abbrev", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, opp, _, ok := r.side(g)
		if !ok {
			return ""
		}
		return opp.Abbrev
	}},
	{name: "opponent_record", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, opp, _, ok := r.side(g)
		if !ok {
			return ""
		}
		if opp.Record != "" {
			return opp.Record
		}
		return oppStat(g, func(ts *model.TeamStats) string { return ts.Record })
	}},
	{name: "opponent_rank", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, opp, _, ok := r.side(g)
		if !ok {
			return ""
		}
		if opp.Rank != 0 {
			return itoa(opp.Rank)
		}
		return oppStat(g, func(ts *model.TeamStats) string { return nonzero(ts.Rank) })
	}},
	{name: "opponent_ppg", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return f1(ts.PPG) })
	}},
	{name: "opponent_papg", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return f1(ts.PAPG) })
	}},
	{name: "opponent_win_pct", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return fpct(ts.WinPct) })
	}},
	{name: "opponent_home_record", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return ts.HomeRecord })
	}},
	{name: "opponent_away_record", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return ts.AwayRecord })
	}},
	{name: "opponent_conference", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return ts.Conference })
	}},
	{name: "opponent_division", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return ts.Division })
	}},
	{name: "opponent_playoff_seed", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string { return nonzero(ts.PlayoffSeed) })
	}},
	{name: "opponent_games_back", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		return oppStat(g, func(ts *model.TeamStats) string {
			if ts.GamesBack == 0 {
				return ""
			}
			return strconv.FormatFloat(ts.GamesBack, 'f', 1, 64)
		})
	}},
	{name: "opponent_coach", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil {
			return ""
		}
		return g.OppCoach
	}},
	{name: "opponent_logo", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, opp, _, ok := r.side(g)
		if !ok {
			return ""
		}
		return opp.Logo
	}},
	{name: "matchup", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Away.Name + " @ " + g.Event.Home.Name
	}},
	{name: "matchup_abbrev", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Away.Abbrev + " @ " + g.Event.Home.Abbrev
	}},
	{name: "home_team", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Home.Name
	}},
	{name: "away_team", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Away.Name
	}},
	{name: "home_abbrev", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Home.Abbrev
	}},
	{name: "away_abbrev", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Away.Abbrev
	}},
	{name: "home_away", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, _, home, ok := r.side(g)
		if !ok {
			return ""
		}
		if home {
			return "home"
		}
		return "away"
	}},
	{name: "vs_at", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, _, home, ok := r.side(g)
		if !ok {
			return ""
		}
		if home {
			return "vs"
		}
		return "@"
	}},
	{name: "venue", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Venue == nil {
			return ""
		}
		return g.Event.Venue.Name
	}},
	{name: "venue_city", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Venue == nil {
			return ""
		}
		return g.Event.Venue.City
	}},
	{name: "venue_state", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Venue == nil {
			return ""
		}
		return g.Event.Venue.State
	}},
	{name: "game_date", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.StartUTC.In(r.loc()).Format("January 2, 2006")
	}},
	{name: "game_date_short", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.StartUTC.In(r.loc()).Format("1/2")
	}},
	{name: "game_day", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.StartUTC.In(r.loc()).Format("Monday")
	}},
	{name: "game_month", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.StartUTC.In(r.loc()).Format("January")
	}},
	{name: "game_year", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.StartUTC.In(r.loc()).Format("2006")
	}},
	{name: "game_time", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.StartUTC.In(r.loc()).Format("3:04 PM")
	}},
	{name: "game_time_24h", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.StartUTC.In(r.loc()).Format("15:04")
	}},
	{name: "days_until", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		d := localDays(r.Team.Now, g.Event.StartUTC, r.loc())
		if d < 0 {
			return ""
		}
		return itoa(d)
	}},
	{name: "days_since", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		d := localDays(g.Event.StartUTC, r.Team.Now, r.loc())
		if d < 0 {
			return ""
		}
		return itoa(d)
	}},
	{name: "broadcast", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || len(g.Event.Broadcasts) == 0 {
			return ""
		}
		return g.Event.Broadcasts[0]
	}},
	{name: "broadcasts", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return strings.Join(g.Event.Broadcasts, ", ")
	}},
	{name: "season_type", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		switch g.Event.SeasonType {
		case model.SeasonPreseason:
			return "Preseason"
		case model.SeasonPostseason:
			return "Playoffs"
		}
		return "Regular Season"
	}},
	{name: "game_status", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return string(g.Event.State)
	}},
	{name: "game_detail", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Detail
	}},
	{name: "game_period", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return nonzero(g.Event.Period)
	}},
	{name: "game_clock", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Clock
	}},
	{name: "home_score", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Home.Score == nil {
			return ""
		}
		return itoa(*g.Event.Home.Score)
	}},
	{name: "away_score", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil || g.Event.Away.Score == nil {
			return ""
		}
		return itoa(*g.Event.Away.Score)
	}},
	{name: "team_score", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		own, _, _, ok := r.side(g)
		if !ok || own.Score == nil {
			return ""
		}
		return itoa(*own.Score)
	}},
	{name: "opp_score", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		_, opp, _, ok := r.side(g)
		if !ok || opp.Score == nil {
			return ""
		}
		return itoa(*opp.Score)
	}},
	// own score first; the away-at-home pairing lives in score_abbrev
	{name: "score", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		own, opp, _, ok := r.side(g)
		if !ok || own.Score == nil || opp.Score == nil {
			return ""
		}
		return fmt.Sprintf("%d-%d", *own.Score, *opp.Score)
	}},
	{name: "source_league", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.SourceLeague
	}},
	{name: "attendance", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return nonzero(g.Event.Attendance)
	}},
	{name: "game_name", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.Name
	}},
	{name: "game_shortname", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		return g.Event.ShortName
	}},
	{name: "h2h_record", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || (g.H2H.Series.TeamWins == 0 && g.H2H.Series.OppWins == 0) {
			return ""
		}
		return fmt.Sprintf("%d-%d", g.H2H.Series.TeamWins, g.H2H.Series.OppWins)
	}},
	{name: "h2h_team_wins", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil {
			return ""
		}
		return itoa(g.H2H.Series.TeamWins)
	}},
	{name: "h2h_opponent_wins", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil {
			return ""
		}
		return itoa(g.H2H.Series.OppWins)
	}},
	{name: "h2h_last_result", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.H2H.Previous == nil {
			return ""
		}
		return g.H2H.Previous.Result
	}},
	{name: "h2h_last_score", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.H2H.Previous == nil {
			return ""
		}
		return g.H2H.Previous.Score
	}},
	{name: "h2h_last_date", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.H2H.Previous == nil {
			return ""
		}
		return g.H2H.Previous.Date.In(r.loc()).Format("January 2, 2006")
	}},
	{name: "h2h_last_location", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.H2H.Previous == nil {
			return ""
		}
		return g.H2H.Previous.Location
	}},
	{name: "is_national", strat: stratAll, game: func(r *Resolution, g *GameContext) string {
		if g == nil || g.Event == nil {
			return ""
		}
		if r.Team.IsNational != nil {
			for _, b := range g.Event.Broadcasts {
				if r.Team.IsNational(b) {
					return "yes"
				}
			}
		}
		return "no"
	}},
}

func formatMoneyline(ml int) string {
	if ml > 0 {
		return "+" + itoa(ml)
	}
	return itoa(ml)
}

// localDays counts whole local calendar days from a to b; negative when
// b's local date precedes a's.
func localDays(a, b time.Time, loc *time.Location) int {
	al := a.In(loc)
	bl := b.In(loc)
	ad := time.Date(al.Year(), al.Month(), al.Day(), 0, 0, 0, 0, loc)
	bd := time.Date(bl.Year(), bl.Month(), bl.Day(), 0, 0, 0, 0, loc)
	return int(bd.Sub(ad).Hours() / 24)
}
