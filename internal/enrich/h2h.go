package enrich

import (
	"fmt"
	"sort"
	"time"

	"github.com/teamarr/teamarr/internal/model"
)

// ComputeH2H accumulates the current-season series against one opponent
// and captures the most recent prior completed meeting.
func ComputeH2H(events []model.Event, teamID, opponentID string, seasonYear int, now time.Time) model.H2H {
	var h2h model.H2H

	var meetings []model.Event
	for i := range events {
		ev := events[i]
		own, opp, _, ok := ev.SideFor(teamID)
		if !ok || opp.TeamID != opponentID {
			continue
		}
		if seasonYear != 0 && ev.SeasonYear != 0 && ev.SeasonYear != seasonYear {
			continue
		}
		if !ev.Final() || own.Score == nil || opp.Score == nil {
			continue
		}
		meetings = append(meetings, ev)

		switch {
		case *own.Score > *opp.Score:
			h2h.Series.TeamWins++
		case *own.Score < *opp.Score:
			h2h.Series.OppWins++
		}
	}
	if len(meetings) == 0 {
		return h2h
	}

	sort.Slice(meetings, func(i, j int) bool { return meetings[i].StartUTC.Before(meetings[j].StartUTC) })

	// most recent completed meeting before now
	var prev *model.Event
	for i := len(meetings) - 1; i >= 0; i-- {
		if meetings[i].StartUTC.Before(now) {
			prev = &meetings[i]
			break
		}
	}
	if prev == nil {
		return h2h
	}

	own, opp, home, _ := prev.SideFor(teamID)
	result := "tie"
	switch {
	case *own.Score > *opp.Score:
		result = "win"
	case *own.Score < *opp.Score:
		result = "loss"
	}
	location := "away"
	if home {
		location = "home"
	}
	h2h.Previous = &model.PreviousMeeting{
		Date:     prev.StartUTC,
		Score:    AbbrevScore(prev),
		Result:   result,
		Location: location,
	}
	return h2h
}

// AbbrevScore renders the away-at-home score line, e.g.
// "MIA 112 @ BOS 118". Empty when either score is missing.
func AbbrevScore(ev *model.Event) string {
	if ev.Away.Score == nil || ev.Home.Score == nil {
		return ""
	}
	return fmt.Sprintf("%s %d @ %s %d", ev.Away.Abbrev, *ev.Away.Score, ev.Home.Abbrev, *ev.Home.Score)
}

// FinalScore renders "home-away" oriented from the team's perspective,
// own score first: "118-112" for the winner's view of that game.
func FinalScore(ev *model.Event, teamID string) string {
	own, opp, _, ok := ev.SideFor(teamID)
	if !ok || own.Score == nil || opp.Score == nil {
		return ""
	}
	return fmt.Sprintf("%d-%d", *own.Score, *opp.Score)
}
