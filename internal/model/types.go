package model

import "time"

// EventState is the normalized lifecycle state of a game.
type EventState string

const (
	StateScheduled EventState = "scheduled"
	StateLive      EventState = "live"
	StateFinal     EventState = "final"
	StatePostponed EventState = "postponed"
	StateCancelled EventState = "cancelled"
)

// SeasonType distinguishes preseason, regular season, and postseason play.
type SeasonType string

const (
	SeasonPreseason  SeasonType = "preseason"
	SeasonRegular    SeasonType = "regular"
	SeasonPostseason SeasonType = "postseason"
)

// Side is a competitor within an event.
type Side struct {
	TeamID string
	Name   string
	Abbrev string
	Score  *int   // nil until live/final
	Record string // "W-L" or "W-L-T", empty if upstream omitted it
	Rank   int    // AP/coaches rank, 0 = unranked
	Logo   string
}

// Venue is where an event is played.
type Venue struct {
	Name    string
	City    string
	State   string
	Country string
}

// Odds carries pre-game betting lines for an event.
type Odds struct {
	Provider     string
	Details      string // e.g. "BOS -2.5"
	Spread       float64
	OverUnder    float64
	HomeMoneyline int
	AwayMoneyline int
	HomeFavorite bool
}

// Leader is one player leader line extracted from an event.
type Leader struct {
	Category string // "points", "passingLeader", ...
	Name     string
	Value    string // display value; numeric for basketball, stat line for football
}

// Event is a single game, normalized from upstream JSON.
// IDs are provider-scoped: (Provider, ID) is the identity.
type Event struct {
	ID       string
	Provider string
	League   string // canonical league code, e.g. "nfl", "eng.1"
	Name     string
	ShortName string

	StartUTC time.Time
	State    EventState
	Detail   string // status description, e.g. "Final/OT"
	Period   int
	Clock    string

	Home Side
	Away Side

	Venue      *Venue
	Broadcasts []string
	Odds       *Odds
	Leaders    []Leader

	SeasonYear int
	SeasonType SeasonType

	// SourceLeague is set for soccer events merged in via the multi-league
	// fan-out: the competition slug the event was actually fetched from.
	SourceLeague string
	Attendance   int
}

// Final reports whether the event has completed.
func (e *Event) Final() bool { return e.State == StateFinal }

// SideFor returns the side for teamID and the opposing side.
// ok is false when the team is not a competitor in the event.
func (e *Event) SideFor(teamID string) (own, opp Side, home bool, ok bool) {
	switch teamID {
	case e.Home.TeamID:
		return e.Home, e.Away, true, true
	case e.Away.TeamID:
		return e.Away, e.Home, false, true
	}
	return Side{}, Side{}, false, false
}

// Team is a configured channel team. Immutable during a generation run.
type Team struct {
	ID             int64
	ProviderTeamID string
	Provider       string
	League         string
	Name           string
	Abbrev         string
	LogoURL        string
	TemplateID     int64
	Active         bool
}

// ChannelID returns the stable XMLTV channel id for the team.
func (t Team) ChannelID() string {
	return "teamarr-team-" + t.Provider + "-" + t.ProviderTeamID
}

// TeamStats is the season-aggregate view of a team used by templates.
type TeamStats struct {
	Record         string
	Wins           int
	Losses         int
	Ties           int
	WinPct         float64
	HomeRecord     string
	AwayRecord     string
	DivisionRecord string
	PPG            float64
	PAPG           float64
	Rank           int // 0 = unranked
	PlayoffSeed    int
	GamesBack      float64
	StreakCount    int // signed: +3 = W3, -2 = L2
	Conference     string
	ConferenceAbbr string
	Division       string
}

// Streaks is the walk-derived recent-results view of a team.
type Streaks struct {
	Streak       string // "W3" / "L1", empty when no completed games
	HomeStreak   string
	AwayStreak   string
	Last5Record  string
	Last10Record string
	RecentForm   string // W/L characters, newest last
}

// SeriesRecord accumulates the current-season head-to-head series.
type SeriesRecord struct {
	TeamWins int
	OppWins  int
}

// PreviousMeeting describes the most recent completed game against an opponent.
type PreviousMeeting struct {
	Date     time.Time
	Score    string // abbreviated away @ home form, e.g. "MIA 112 @ BOS 118"
	Result   string // "win" / "loss" / "tie" from the team's perspective
	Location string // "home" / "away"
}

// H2H is head-to-head context against a specific opponent.
type H2H struct {
	Series   SeriesRecord
	Previous *PreviousMeeting
}

// SeasonLeader is a season-aggregate player leader (basketball Core API).
type SeasonLeader struct {
	Category string // "points", "assists", "rebounds"
	Name     string
	PerGame  string
}

// ProgrammeKind classifies emitted programmes.
type ProgrammeKind string

const (
	KindGame     ProgrammeKind = "game"
	KindPregame  ProgrammeKind = "pregame"
	KindPostgame ProgrammeKind = "postgame"
	KindIdle     ProgrammeKind = "idle"
)

// Programme is one XMLTV programme entry. StartUTC/StopUTC are UTC;
// display offsets are applied at serialization.
type Programme struct {
	ChannelID   string
	Title       string
	Subtitle    string
	Description string
	StartUTC    time.Time
	StopUTC     time.Time
	Categories  []string
	Icon        string
	Kind        ProgrammeKind
}

// Settings is the run-level configuration snapshot.
type Settings struct {
	Timezone        string // IANA name, e.g. "America/New_York"
	DaysAhead       int
	DefaultDuration time.Duration // fallback game duration for mode "default"
	OutputPath      string
}
