package enrich

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/teamarr/teamarr/internal/cache"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/store"
)

// fakeClient serves canned JSON per method. Unset entries behave like
// an unavailable endpoint.
type fakeClient struct {
	schedules   map[string]string // league -> doc
	scoreboards map[string]string
	summaries   map[string]string // eventID -> doc
	teamDoc     string
	rosterDoc   string
	groupDocs   map[string]string
	leadersDoc  string

	scheduleCalls atomic.Int32
}

func unmarshalOrUnavailable[T any](s string) (*T, error) {
	if s == "" {
		return nil, espn.ErrUnavailable
	}
	var doc T
	if err := json.Unmarshal([]byte(s), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *fakeClient) Scoreboard(_ context.Context, league string, _ time.Time) (*espn.ScoreboardDoc, error) {
	return unmarshalOrUnavailable[espn.ScoreboardDoc](f.scoreboards[league])
}
func (f *fakeClient) TeamSchedule(_ context.Context, league, _ string) (*espn.ScheduleDoc, error) {
	f.scheduleCalls.Add(1)
	return unmarshalOrUnavailable[espn.ScheduleDoc](f.schedules[league])
}
func (f *fakeClient) Team(_ context.Context, _, _ string) (*espn.TeamDoc, error) {
	return unmarshalOrUnavailable[espn.TeamDoc](f.teamDoc)
}
func (f *fakeClient) Summary(_ context.Context, _, eventID string) (*espn.SummaryDoc, error) {
	return unmarshalOrUnavailable[espn.SummaryDoc](f.summaries[eventID])
}
func (f *fakeClient) Roster(_ context.Context, _, _ string) (*espn.RosterDoc, error) {
	return unmarshalOrUnavailable[espn.RosterDoc](f.rosterDoc)
}
func (f *fakeClient) Group(_ context.Context, _, groupID string) (*espn.GroupDoc, error) {
	return unmarshalOrUnavailable[espn.GroupDoc](f.groupDocs[groupID])
}
func (f *fakeClient) Leaders(_ context.Context, _ string, _ int, _ string) (*espn.LeadersDoc, error) {
	return unmarshalOrUnavailable[espn.LeadersDoc](f.leadersDoc)
}

type fakeSoccerIndex struct {
	leagues map[string][]store.SoccerLeague
}

func (f *fakeSoccerIndex) SoccerLeaguesForTeam(teamID string) ([]store.SoccerLeague, error) {
	return f.leagues[teamID], nil
}

func eventJSON(id, date, status string, homeScore, awayScore string) string {
	scores := ""
	if homeScore != "" {
		scores = `"score":` + homeScore + `,`
	}
	awayScores := ""
	if awayScore != "" {
		awayScores = `"score":` + awayScore + `,`
	}
	return `{"id":"` + id + `","date":"` + date + `","competitions":[{
		"competitors":[
			{"homeAway":"home",` + scores + `"team":{"id":"1","displayName":"Boston","abbreviation":"BOS"}},
			{"homeAway":"away",` + awayScores + `"team":{"id":"2","displayName":"Miami","abbreviation":"MIA"}}
		],
		"status":{"type":{"name":"` + status + `"}}
	}]}`
}

func TestEventsScoreboardMergeOverridesSchedule(t *testing.T) {
	now := time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)

	// schedule says scheduled, scoreboard says live with scores
	fc := &fakeClient{
		schedules: map[string]string{
			"nba": `{"events":[` + eventJSON("e1", "2026-01-15T19:00Z", "STATUS_SCHEDULED", "", "") + `]}`,
		},
		scoreboards: map[string]string{
			"nba": `{"events":[` + eventJSON("e1", "2026-01-15T19:00Z", "STATUS_IN_PROGRESS", "54", "49") + `]}`,
		},
	}
	svc := NewService(fc, cache.NewRunCache(), &fakeSoccerIndex{})

	events := svc.Events(context.Background(), model.Team{ProviderTeamID: "1", League: "nba"}, now)
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	if events[0].State != model.StateLive {
		t.Errorf("state = %q, want live from scoreboard", events[0].State)
	}
	if events[0].Home.Score == nil || *events[0].Home.Score != 54 {
		t.Errorf("home score = %v", events[0].Home.Score)
	}
}

func TestEventsSummaryRefreshForRecentFinal(t *testing.T) {
	now := time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC)

	// yesterday's game: schedule still shows in progress with no score
	fc := &fakeClient{
		schedules: map[string]string{
			"nba": `{"events":[` + eventJSON("e0", "2026-01-14T00:30Z", "STATUS_IN_PROGRESS", "", "") + `]}`,
		},
		summaries: map[string]string{
			"e0": `{"header":{"competitions":[{
				"date":"2026-01-14T00:30Z",
				"competitors":[
					{"homeAway":"home","score":118,"team":{"id":"1","abbreviation":"BOS"}},
					{"homeAway":"away","score":112,"team":{"id":"2","abbreviation":"MIA"}}
				],
				"status":{"type":{"name":"STATUS_FINAL"}}
			}]}}`,
		},
	}
	svc := NewService(fc, cache.NewRunCache(), &fakeSoccerIndex{})

	events := svc.Events(context.Background(), model.Team{ProviderTeamID: "1", League: "nba"}, now)
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	if !events[0].Final() {
		t.Errorf("state = %q, want final after summary refresh", events[0].State)
	}
	if events[0].Home.Score == nil || *events[0].Home.Score != 118 {
		t.Errorf("home score = %v", events[0].Home.Score)
	}
}

func TestEventsUnavailableUpstreamDegrades(t *testing.T) {
	fc := &fakeClient{} // everything unavailable
	svc := NewService(fc, cache.NewRunCache(), &fakeSoccerIndex{})

	events := svc.Events(context.Background(), model.Team{ProviderTeamID: "1", League: "nba"}, time.Now())
	if len(events) != 0 {
		t.Errorf("events = %d, want 0", len(events))
	}
}

func TestSoccerFanOutMergesBySourceLeague(t *testing.T) {
	now := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

	fc := &fakeClient{
		schedules: map[string]string{
			"eng.1":          `{"events":[` + eventJSON("lg1", "2026-01-17T15:00Z", "STATUS_SCHEDULED", "", "") + `]}`,
			"uefa.champions": `{"events":[` + eventJSON("cl1", "2026-01-20T20:00Z", "STATUS_SCHEDULED", "", "") + `]}`,
		},
	}
	idx := &fakeSoccerIndex{leagues: map[string][]store.SoccerLeague{
		"1": {
			{Slug: "eng.1"},
			{Slug: "uefa.champions"},
		},
	}}
	svc := NewService(fc, cache.NewRunCache(), idx)

	events := svc.Events(context.Background(), model.Team{ProviderTeamID: "1", League: "eng.1"}, now)
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 (one per competition)", len(events))
	}
	bySrc := map[string]string{}
	for _, ev := range events {
		bySrc[ev.ID] = ev.SourceLeague
	}
	if bySrc["lg1"] != "eng.1" || bySrc["cl1"] != "uefa.champions" {
		t.Errorf("source leagues = %v", bySrc)
	}
}

func TestRunCacheDedupesAcrossCalls(t *testing.T) {
	fc := &fakeClient{
		schedules: map[string]string{"nba": `{"events":[]}`},
	}
	runC := cache.NewRunCache()
	svc := NewService(fc, runC, &fakeSoccerIndex{})

	team := model.Team{ProviderTeamID: "1", League: "nba"}
	svc.Events(context.Background(), team, time.Now())
	svc.Events(context.Background(), team, time.Now())

	if n := fc.scheduleCalls.Load(); n != 1 {
		t.Errorf("schedule fetched %d times, want 1", n)
	}
}

func TestStatsWithGroups(t *testing.T) {
	fc := &fakeClient{
		teamDoc: `{"team":{
			"id":"1","displayName":"Boston Celtics",
			"record":{"items":[
				{"type":"total","summary":"30-10","stats":[
					{"name":"wins","value":30},{"name":"losses","value":10},
					{"name":"winPercent","value":0.75},
					{"name":"avgPointsFor","value":117.4},{"name":"avgPointsAgainst","value":109.1},
					{"name":"playoffSeed","value":2},{"name":"gamesBehind","value":1.5},
					{"name":"streak","value":3}
				]},
				{"type":"home","summary":"18-3"},
				{"type":"road","summary":"12-7"}
			]},
			"standingSummary":"2nd in Atlantic Division",
			"groups":{"id":"10"}
		}}`,
		groupDocs: map[string]string{
			"10": `{"id":"10","name":"Atlantic Division","parent":{"id":"5"}}`,
			"5":  `{"id":"5","name":"Eastern Conference","abbreviation":"East"}`,
		},
	}
	svc := NewService(fc, cache.NewRunCache(), &fakeSoccerIndex{})

	ts, ok := svc.Stats(context.Background(), "nba", "1")
	if !ok {
		t.Fatal("no stats")
	}
	if ts.Record != "30-10" || ts.Wins != 30 || ts.Losses != 10 {
		t.Errorf("record = %+v", ts)
	}
	if ts.PPG != 117.4 || ts.PAPG != 109.1 {
		t.Errorf("ppg/papg = %v/%v", ts.PPG, ts.PAPG)
	}
	if ts.PlayoffSeed != 2 || ts.GamesBack != 1.5 {
		t.Errorf("seed/gb = %d/%v", ts.PlayoffSeed, ts.GamesBack)
	}
	if ts.HomeRecord != "18-3" || ts.AwayRecord != "12-7" {
		t.Errorf("splits = %q/%q", ts.HomeRecord, ts.AwayRecord)
	}
	if ts.Division != "Atlantic Division" || ts.Conference != "Eastern Conference" || ts.ConferenceAbbr != "East" {
		t.Errorf("groups = %q/%q/%q", ts.Division, ts.Conference, ts.ConferenceAbbr)
	}
}

func TestCoachAndSeasonLeaders(t *testing.T) {
	fc := &fakeClient{
		rosterDoc: `{"coach":[{"firstName":"Joe","lastName":"Mazzulla","experience":3}]}`,
		leadersDoc: `{"categories":[
			{"name":"points","leaders":[{"displayValue":"28.5","athlete":{"displayName":"Jayson Tatum"}}]},
			{"name":"assists","leaders":[{"displayValue":"7.8","athlete":{"displayName":"Jrue Holiday"}}]},
			{"name":"blocks","leaders":[{"displayValue":"2.1","athlete":{"displayName":"Someone Else"}}]}
		]}`,
	}
	svc := NewService(fc, cache.NewRunCache(), &fakeSoccerIndex{})

	if coach := svc.Coach(context.Background(), "nba", "1"); coach != "Joe Mazzulla" {
		t.Errorf("coach = %q", coach)
	}

	leaders := svc.SeasonLeaders(context.Background(), "nba", 2026, "1")
	if len(leaders) != 2 {
		t.Fatalf("leaders = %+v (blocks must be filtered)", leaders)
	}
	pts, ok := SeasonLeaderByCategory(leaders, "points")
	if !ok || pts.Name != "Jayson Tatum" || pts.PerGame != "28.5" {
		t.Errorf("points leader = %+v", pts)
	}

	// non-basketball league has no season leader surface
	if l := svc.SeasonLeaders(context.Background(), "nfl", 2026, "1"); l != nil {
		t.Errorf("nfl leaders = %+v", l)
	}
}

func TestGameLeadersDispatch(t *testing.T) {
	ev := model.Event{Leaders: []model.Leader{
		{Category: "points", Name: "Jayson Tatum", Value: "32"},
		{Category: "rebounds", Name: "Kristaps Porzingis", Value: "11"},
		{Category: "rating", Name: "Ignored", Value: "40"},
	}}
	got := GameLeaders(&ev, "nba")
	if len(got) != 2 {
		t.Fatalf("leaders = %+v", got)
	}

	nfl := model.Event{Leaders: []model.Leader{
		{Category: "passingYards", Name: "Josh Allen", Value: "22/31, 304 YDS, 3 TD"},
	}}
	got = GameLeaders(&nfl, "nfl")
	if len(got) != 1 || got[0].Category != "passing" {
		t.Fatalf("nfl leaders = %+v", got)
	}

	if got := GameLeaders(&ev, "nhl"); got != nil {
		t.Errorf("nhl leaders = %+v", got)
	}
}

func TestSeasonYear(t *testing.T) {
	withYear := []model.Event{{StartUTC: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), SeasonYear: 2026}}
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if y := SeasonYear(withYear, "nba", now); y != 2026 {
		t.Errorf("year = %d", y)
	}

	// fallback heuristics
	if y := SeasonYear(nil, "nba", time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)); y != 2026 {
		t.Errorf("nba november year = %d, want 2026", y)
	}
	if y := SeasonYear(nil, "nfl", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)); y != 2025 {
		t.Errorf("nfl january year = %d, want 2025", y)
	}
	if y := SeasonYear(nil, "mlb", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)); y != 2026 {
		t.Errorf("mlb year = %d", y)
	}
}
