package espn

import (
	"fmt"
	"strings"

	"github.com/teamarr/teamarr/internal/model"
)

// NormalizeTeamStats flattens a team doc's record items and standing
// fields into the season-aggregate stats view. Absent stats stay zero.
func NormalizeTeamStats(doc *TeamDoc) model.TeamStats {
	var ts model.TeamStats
	ts.Rank = doc.Team.Rank

	for _, item := range doc.Team.Record.Items {
		switch item.Type {
		case "total":
			ts.Record = item.Summary
			for _, st := range item.Stats {
				switch st.Name {
				case "wins":
					ts.Wins = int(st.Value)
				case "losses":
					ts.Losses = int(st.Value)
				case "ties", "OTLosses":
					ts.Ties += int(st.Value)
				case "winPercent":
					ts.WinPct = st.Value
				case "avgPointsFor":
					ts.PPG = st.Value
				case "avgPointsAgainst":
					ts.PAPG = st.Value
				case "playoffSeed":
					ts.PlayoffSeed = int(st.Value)
				case "gamesBehind":
					ts.GamesBack = st.Value
				case "streak":
					ts.StreakCount = int(st.Value)
				case "divisionRecord":
					// carried as a stat in some leagues, as an item in others
				}
			}
		case "home":
			ts.HomeRecord = item.Summary
		case "road", "away":
			ts.AwayRecord = item.Summary
		case "vsdiv", "division":
			ts.DivisionRecord = item.Summary
		}
	}
	return ts
}

// NormalizeCoach formats the head coach's name from a roster doc.
// Empty when the roster carries no coach entry.
func NormalizeCoach(doc *RosterDoc) string {
	if len(doc.Coach) == 0 {
		return ""
	}
	c := doc.Coach[0]
	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	return name
}

// seasonLeaderCategories is the basketball category whitelist; other
// Core API categories (blocks, steals, minutes) are not surfaced.
var seasonLeaderCategories = map[string]bool{
	"points":   true,
	"assists":  true,
	"rebounds": true,
}

// NormalizeSeasonLeaders extracts the per-game season leaders a
// basketball template can reference.
func NormalizeSeasonLeaders(doc *LeadersDoc) []model.SeasonLeader {
	var out []model.SeasonLeader
	for _, cat := range doc.Categories {
		if !seasonLeaderCategories[strings.ToLower(cat.Name)] {
			continue
		}
		if len(cat.Leaders) == 0 {
			continue
		}
		top := cat.Leaders[0]
		if top.Athlete.DisplayName == "" {
			continue
		}
		out = append(out, model.SeasonLeader{
			Category: strings.ToLower(cat.Name),
			Name:     top.Athlete.DisplayName,
			PerGame:  top.DisplayValue,
		})
	}
	return out
}

// TeamProfile pulls the channel-facing identity fields out of a team
// doc: display name, abbreviation, and preferred logo.
func TeamProfile(doc *TeamDoc) (name, abbrev, logo string) {
	return doc.Team.DisplayName, doc.Team.Abbreviation, ExtractLogo(&doc.Team.rawTeam)
}

// ConferenceNames resolves a team's conference and division display
// names from its group doc chain: the team doc points at a division
// group whose parent is the conference.
func ConferenceNames(division, conference *GroupDoc) (confName, confAbbrev, divName string) {
	if division != nil {
		divName = division.Name
	}
	if conference != nil {
		confName = conference.Name
		confAbbrev = conference.Abbreviation
	}
	return
}

// FormatRecord renders W-L or W-L-T from counts, for places where only
// numeric totals are available.
func FormatRecord(wins, losses, ties int) string {
	if ties > 0 {
		return fmt.Sprintf("%d-%d-%d", wins, losses, ties)
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}
