package orchestrator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/teamarr/teamarr/internal/config"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/events"
	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/store"
)

// fakeClient serves canned JSON per method. Unset entries behave like
// an unavailable endpoint. panicLeague triggers a panic to exercise
// worker isolation.
type fakeClient struct {
	schedules   map[string]string
	panicLeague string
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

func (f *fakeClient) TeamSchedule(_ context.Context, league, _ string) (*espn.ScheduleDoc, error) {
	if league == f.panicLeague {
		panic("malformed schedule document")
	}
	return unmarshalOrUnavailable[espn.ScheduleDoc](f.schedules[league])
}
func (f *fakeClient) Scoreboard(context.Context, string, time.Time) (*espn.ScoreboardDoc, error) {
	return nil, espn.ErrUnavailable
}
func (f *fakeClient) Team(context.Context, string, string) (*espn.TeamDoc, error) {
	return nil, espn.ErrUnavailable
}
func (f *fakeClient) Summary(context.Context, string, string) (*espn.SummaryDoc, error) {
	return nil, espn.ErrUnavailable
}
func (f *fakeClient) Roster(context.Context, string, string) (*espn.RosterDoc, error) {
	return nil, espn.ErrUnavailable
}
func (f *fakeClient) Group(context.Context, string, string) (*espn.GroupDoc, error) {
	return nil, espn.ErrUnavailable
}
func (f *fakeClient) Leaders(context.Context, string, int, string) (*espn.LeadersDoc, error) {
	return nil, espn.ErrUnavailable
}

func scheduleDoc(id, date string) string {
	return `{"events":[{"id":"` + id + `","date":"` + date + `","competitions":[{
		"competitors":[
			{"homeAway":"home","team":{"id":"1","displayName":"Boston Celtics","abbreviation":"BOS"}},
			{"homeAway":"away","team":{"id":"2","displayName":"Miami Heat","abbreviation":"MIA"}}
		],
		"status":{"type":{"name":"STATUS_SCHEDULED"}}
	}]}]}`
}

func testOrchestrator(t *testing.T, fc *fakeClient) (*Orchestrator, *store.Store, *events.Bus, string) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "teamarr.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	out := filepath.Join(dir, "guide.xml")
	cfg := &config.Config{
		OutputPath:           out,
		GenerationDeadline:   time.Minute,
		TeamWorkers:          4,
		FingerprintPurgeRuns: 5,
		SoccerStaleAfter:     7 * 24 * time.Hour,
	}
	sports, err := config.LoadSports(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	bus := events.NewBus()
	return New(cfg, sports, st, fc, nil, bus), st, bus, out
}

func addTeam(t *testing.T, st *store.Store, id, league, name string) {
	t.Helper()
	_, err := st.AddTeam(model.Team{
		ProviderTeamID: id,
		Provider:       "espn",
		League:         league,
		Name:           name,
		Active:         true,
		TemplateID:     1,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestGenerateEPG(t *testing.T) {
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02T15:04Z")
	fc := &fakeClient{schedules: map[string]string{"nba": scheduleDoc("e1", tomorrow)}}

	o, st, bus, out := testOrchestrator(t, fc)
	addTeam(t, st, "1", "nba", "Boston Celtics")

	var seen []events.EventType
	bus.SubscribeAll(func(e events.Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	res, err := o.GenerateEPG(context.Background(), RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.RunID == "" || res.Teams != 1 || res.Failed != 0 {
		t.Errorf("result = %+v", res)
	}
	if res.Programmes["teamarr-team-espn-1"] == 0 || res.Total == 0 {
		t.Errorf("per-team counts = %v, total %d", res.Programmes, res.Total)
	}
	if res.OutputPath != out {
		t.Errorf("output path = %q, want %q", res.OutputPath, out)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("guide not written: %v", err)
	}
	if !strings.Contains(string(data), "teamarr-team-espn-1") {
		t.Error("channel missing from guide")
	}
	if !strings.Contains(string(data), `<programme`) {
		t.Error("no programmes in guide")
	}

	runs, err := st.RecentRuns(1)
	if err != nil || len(runs) != 1 {
		t.Fatalf("history rows = %d, err %v", len(runs), err)
	}
	if runs[0].NumChannels != 1 || runs[0].NumPrograms == 0 {
		t.Errorf("history = %+v", runs[0])
	}

	wantOrder := []events.EventType{events.EventRunStarted, events.EventTeamCompleted, events.EventRunCompleted}
	if len(seen) != len(wantOrder) {
		t.Fatalf("events = %v", seen)
	}
	for i, w := range wantOrder {
		if seen[i] != w {
			t.Fatalf("events = %v, want %v", seen, wantOrder)
		}
	}

	if s := o.Status(); s.InProgress {
		t.Error("status still in progress after run")
	}
}

func TestGenerateEPGIsolatesFailingTeam(t *testing.T) {
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02T15:04Z")
	fc := &fakeClient{
		schedules:   map[string]string{"nba": scheduleDoc("e1", tomorrow)},
		panicLeague: "nhl",
	}

	o, st, bus, out := testOrchestrator(t, fc)
	addTeam(t, st, "1", "nba", "Boston Celtics")
	addTeam(t, st, "9", "nhl", "Boston Bruins")

	var failed int
	bus.Subscribe(events.EventTeamFailed, func(events.Event) error {
		failed++
		return nil
	})

	res, err := o.GenerateEPG(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("run must survive a panicking team: %v", err)
	}
	if failed != 1 {
		t.Errorf("team_failed events = %d, want 1", failed)
	}
	if res.Failed != 1 || len(res.Errors) != 1 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Errors) == 1 && !strings.Contains(res.Errors[0], "Boston Bruins") {
		t.Errorf("error entry = %q, want the failing team named", res.Errors[0])
	}

	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "teamarr-team-espn-1") {
		t.Error("healthy channel missing from guide")
	}
	if strings.Contains(string(data), "teamarr-team-espn-9") {
		t.Error("failed channel must not appear in guide")
	}

	runs, _ := st.RecentRuns(1)
	if len(runs) != 1 || runs[0].NumErrors != 1 {
		t.Errorf("history = %+v", runs)
	}
}

func TestGenerateEPGRunOptions(t *testing.T) {
	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02T15:04Z")
	fc := &fakeClient{schedules: map[string]string{"nba": scheduleDoc("e1", tomorrow)}}

	o, st, _, _ := testOrchestrator(t, fc)
	addTeam(t, st, "1", "nba", "Boston Celtics")

	short, err := o.GenerateEPG(context.Background(), RunOptions{DaysAhead: 1, Timezone: "America/New_York"})
	if err != nil {
		t.Fatal(err)
	}
	long, err := o.GenerateEPG(context.Background(), RunOptions{DaysAhead: 3})
	if err != nil {
		t.Fatal(err)
	}
	if short.Total == 0 || long.Total <= short.Total {
		t.Errorf("totals = %d (1 day) vs %d (3 days), want the longer window to emit more",
			short.Total, long.Total)
	}
}

func TestGenerateEPGNoTeams(t *testing.T) {
	o, _, _, out := testOrchestrator(t, &fakeClient{})

	res, err := o.GenerateEPG(context.Background(), RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Teams != 0 || res.Total != 0 {
		t.Errorf("result = %+v", res)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("empty guide not written: %v", err)
	}
	if !strings.Contains(string(data), "<tv") {
		t.Error("empty guide must still be well-formed")
	}
}
