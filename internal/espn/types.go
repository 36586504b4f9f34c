package espn

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexScore accepts the two shapes ESPN uses for scores: a scalar
// (integer or numeric string) on scoreboard events, and an object
// {value, displayValue} on schedule events. Both collapse to *int.
type FlexScore struct {
	Value *int
}

func (f *FlexScore) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '{' {
		var obj struct {
			Value        *float64 `json:"value"`
			DisplayValue string   `json:"displayValue"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil // malformed score is treated as absent
		}
		if obj.Value != nil {
			v := int(*obj.Value)
			f.Value = &v
			return nil
		}
		if obj.DisplayValue != "" {
			if n, err := strconv.ParseFloat(obj.DisplayValue, 64); err == nil {
				v := int(n)
				f.Value = &v
			}
		}
		return nil
	}
	// scalar: "112", 112, or 112.0
	unquoted := strings.Trim(s, `"`)
	if unquoted == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(unquoted, 64); err == nil {
		v := int(n)
		f.Value = &v
	}
	return nil
}

// rawLogo is one entry of a team's logos array.
type rawLogo struct {
	Href string   `json:"href"`
	Rel  []string `json:"rel"`
}

// rawTeam is the team object embedded in competitors and team docs.
type rawTeam struct {
	ID               string    `json:"id"`
	DisplayName      string    `json:"displayName"`
	ShortDisplayName string    `json:"shortDisplayName"`
	Abbreviation     string    `json:"abbreviation"`
	Logo             string    `json:"logo"`
	Logos            []rawLogo `json:"logos"`
}

// rawRecord is one entry of a competitor's records array.
type rawRecord struct {
	Type         string `json:"type"`
	DisplayValue string `json:"displayValue"`
}

// rawLeaderValue is a single player leader line within a category.
type rawLeaderValue struct {
	DisplayValue string `json:"displayValue"`
	Value        float64 `json:"value"`
	Athlete      struct {
		DisplayName string `json:"displayName"`
		ShortName   string `json:"shortName"`
	} `json:"athlete"`
}

// rawLeaderCategory is one competitors[].leaders entry.
type rawLeaderCategory struct {
	Name    string           `json:"name"`
	Leaders []rawLeaderValue `json:"leaders"`
}

type rawCuratedRank struct {
	Current int `json:"current"`
}

// rawCompetitor is one side of a competition.
type rawCompetitor struct {
	ID          string              `json:"id"`
	HomeAway    string              `json:"homeAway"`
	Score       FlexScore           `json:"score"`
	Team        rawTeam             `json:"team"`
	Records     []rawRecord         `json:"records"`
	CuratedRank rawCuratedRank      `json:"curatedRank"`
	Leaders     []rawLeaderCategory `json:"leaders"`
}

// rawBroadcast covers both broadcast shapes: the scoreboard form carries
// a names array, the schedule form a media object.
type rawBroadcast struct {
	Names  []string `json:"names"`
	Market json.RawMessage `json:"market"`
	Media  struct {
		ShortName string `json:"shortName"`
	} `json:"media"`
	Type struct {
		ShortName string `json:"shortName"`
	} `json:"type"`
}

type rawTeamOdds struct {
	Favorite  bool `json:"favorite"`
	Underdog  bool `json:"underdog"`
	MoneyLine int  `json:"moneyLine"`
}

type rawOdds struct {
	Provider struct {
		Name string `json:"name"`
	} `json:"provider"`
	Details      string      `json:"details"`
	Spread       float64     `json:"spread"`
	OverUnder    float64     `json:"overUnder"`
	HomeTeamOdds rawTeamOdds `json:"homeTeamOdds"`
	AwayTeamOdds rawTeamOdds `json:"awayTeamOdds"`
}

type rawStatus struct {
	Period       int    `json:"period"`
	DisplayClock string `json:"displayClock"`
	Type         struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	} `json:"type"`
}

type rawVenue struct {
	FullName string `json:"fullName"`
	Address  struct {
		City    string `json:"city"`
		State   string `json:"state"`
		Country string `json:"country"`
	} `json:"address"`
}

type rawSeason struct {
	Year int `json:"year"`
	Type int `json:"type"` // 1 = preseason, 2 = regular, 3 = postseason
}

// rawCompetition is competitions[0] of an event.
type rawCompetition struct {
	Date        string          `json:"date"`
	Attendance  int             `json:"attendance"`
	Venue       *rawVenue       `json:"venue"`
	Competitors []rawCompetitor `json:"competitors"`
	Broadcasts  []rawBroadcast  `json:"broadcasts"`
	Odds        []rawOdds       `json:"odds"`
	Status      rawStatus       `json:"status"`
}

// rawEvent is one scoreboard/schedule event.
type rawEvent struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	ShortName    string           `json:"shortName"`
	Date         string           `json:"date"`
	Season       rawSeason        `json:"season"`
	Competitions []rawCompetition `json:"competitions"`
}

// ScoreboardDoc is the scoreboard endpoint response.
type ScoreboardDoc struct {
	Events []rawEvent `json:"events"`
}

// ScheduleDoc is the team schedule endpoint response.
type ScheduleDoc struct {
	Events []rawEvent `json:"events"`
	Season struct {
		Year int `json:"year"`
	} `json:"season"`
}

// SummaryDoc is the event summary endpoint response (subset).
type SummaryDoc struct {
	Header struct {
		GameNote     string           `json:"gameNote"`
		Season       rawSeason        `json:"season"`
		Competitions []rawCompetition `json:"competitions"`
	} `json:"header"`
}

// rawRecordItem is one team-doc record entry (total / home / road / division).
type rawRecordItem struct {
	Type    string `json:"type"`
	Summary string `json:"summary"`
	Stats   []struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	} `json:"stats"`
}

// TeamDoc is the team endpoint response.
type TeamDoc struct {
	Team struct {
		rawTeam
		Record struct {
			Items []rawRecordItem `json:"items"`
		} `json:"record"`
		StandingSummary string `json:"standingSummary"`
		Rank            int    `json:"rank"`
		Groups          struct {
			ID       string `json:"id"`
			ParentID string `json:"parent"`
		} `json:"groups"`
		NextEvent []rawEvent `json:"nextEvent"`
	} `json:"team"`
}

// GroupDoc is the groups endpoint response (conference / division names).
type GroupDoc struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Parent       struct {
		ID string `json:"id"`
	} `json:"parent"`
}

// RosterDoc is the roster endpoint response, fetched for the head coach.
type RosterDoc struct {
	Coach []struct {
		FirstName  string `json:"firstName"`
		LastName   string `json:"lastName"`
		Experience int    `json:"experience"`
	} `json:"coach"`
}

// LeadersDoc is the Core API season leaders response (basketball only).
type LeadersDoc struct {
	Categories []struct {
		Name    string `json:"name"`
		Leaders []struct {
			DisplayValue string `json:"displayValue"`
			Athlete      struct {
				DisplayName string `json:"displayName"`
			} `json:"athlete"`
		} `json:"leaders"`
	} `json:"categories"`
}

// SoccerLeagueItem is one competition in the soccer league listing.
type SoccerLeagueItem struct {
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// SoccerLeaguesDoc is the Core API soccer league listing used by the
// soccer index crawl.
type SoccerLeaguesDoc struct {
	Count int                `json:"count"`
	Items []SoccerLeagueItem `json:"items"`
}

// TeamRef is the minimal team identity in a league teams listing.
type TeamRef struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation"`
}

// LeagueTeamEntry wraps one team entry of a league teams listing.
type LeagueTeamEntry struct {
	Team TeamRef `json:"team"`
}

// LeagueTeamGroup is the sports[].leagues[] nesting of the listing.
type LeagueTeamGroup struct {
	Leagues []struct {
		Teams []LeagueTeamEntry `json:"teams"`
	} `json:"leagues"`
}

// LeagueTeamsDoc is the site API teams listing for one league.
type LeagueTeamsDoc struct {
	Sports []LeagueTeamGroup `json:"sports"`
}
