package soccer

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/store"
)

func TestTags(t *testing.T) {
	tests := []struct {
		slug string
		want []string
	}{
		{"eng.1", []string{"club", "domestic", "league", "mens"}},
		{"eng.fa", []string{"club", "cup", "domestic", "mens"}},
		{"eng.w.1", []string{"club", "domestic", "league", "womens"}},
		{"uefa.champions", []string{"club", "continental", "cup", "mens"}},
		{"uefa.euro", []string{"continental", "cup", "mens", "national"}},
		{"fifa.world", []string{"cup", "mens", "national", "world"}},
		{"fifa.wwc", []string{"cup", "national", "womens", "world"}},
		{"fifa.world.u17", []string{"cup", "mens", "national", "world", "youth"}},
		{"usa.1", []string{"club", "domestic", "league", "mens"}},
		{"conmebol.libertadores", []string{"club", "continental", "cup", "mens"}},
	}
	for _, tt := range tests {
		if got := Tags(tt.slug); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tags(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestTagsStable(t *testing.T) {
	a := Tags("uefa.champions")
	b := Tags("uefa.champions")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("tag set not stable: %v vs %v", a, b)
	}
}

// fakeUpstream serves canned league listings from JSON fixtures.
type fakeUpstream struct {
	leagues  string
	teams    map[string]string
	failSlug string
}

func (f *fakeUpstream) SoccerLeagues(_ context.Context) (*espn.SoccerLeaguesDoc, error) {
	var doc espn.SoccerLeaguesDoc
	if err := json.Unmarshal([]byte(f.leagues), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (f *fakeUpstream) LeagueTeams(_ context.Context, slug string) (*espn.LeagueTeamsDoc, error) {
	if slug == f.failSlug {
		return nil, errors.New("boom")
	}
	var doc espn.LeagueTeamsDoc
	if err := json.Unmarshal([]byte(f.teams[slug]), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// fakeIndex records ReplaceSoccerLeague calls.
type fakeIndex struct {
	mu       sync.Mutex
	replaced map[string][]string
	tags     map[string][]string
	touched  bool
}

func (f *fakeIndex) ReplaceSoccerLeague(l store.SoccerLeague, teamIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replaced == nil {
		f.replaced = map[string][]string{}
		f.tags = map[string][]string{}
	}
	f.replaced[l.Slug] = teamIDs
	f.tags[l.Slug] = l.Tags
	return nil
}

func (f *fakeIndex) TouchSoccerRefresh(time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = true
	return nil
}

func (f *fakeIndex) SoccerCacheAge() (time.Duration, bool) { return 0, false }
func (f *fakeIndex) SoccerLeagueCount() (int, error)       { return len(f.replaced), nil }

func TestRefreshCrawlsAllLeagues(t *testing.T) {
	up := &fakeUpstream{
		leagues: `{"count":3,"items":[
			{"slug":"eng.1","name":"English Premier League","abbreviation":"EPL"},
			{"slug":"uefa.champions","name":"UEFA Champions League","abbreviation":"UCL"},
			{"slug":"esp.1","name":"Spanish LALIGA","abbreviation":"LALIGA"}
		]}`,
		teams: map[string]string{
			"eng.1":          `{"sports":[{"leagues":[{"teams":[{"team":{"id":"359"}},{"team":{"id":"360"}}]}]}]}`,
			"uefa.champions": `{"sports":[{"leagues":[{"teams":[{"team":{"id":"359"}}]}]}]}`,
			"esp.1":          `{"sports":[{"leagues":[{"teams":[{"team":{"id":"83"}}]}]}]}`,
		},
	}
	idx := &fakeIndex{}

	r := NewRefresher(up, idx, 4)
	if !r.Stale(7 * 24 * time.Hour) {
		t.Error("fresh index should report stale before first build")
	}
	stats, err := r.Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Leagues != 3 || stats.Teams != 4 || stats.Failed != 0 {
		t.Errorf("stats = %+v", stats)
	}

	if len(idx.replaced) != 3 {
		t.Fatalf("replaced %d leagues, want 3", len(idx.replaced))
	}
	if got := idx.replaced["eng.1"]; len(got) != 2 || got[0] != "359" {
		t.Errorf("eng.1 teams = %v", got)
	}
	if !reflect.DeepEqual(idx.tags["uefa.champions"], []string{"club", "continental", "cup", "mens"}) {
		t.Errorf("ucl tags = %v", idx.tags["uefa.champions"])
	}
	if !idx.touched {
		t.Error("refresh timestamp not recorded")
	}
}

func TestRefreshSurvivesLeagueFailure(t *testing.T) {
	up := &fakeUpstream{
		leagues: `{"count":2,"items":[
			{"slug":"eng.1","name":"EPL"},
			{"slug":"ger.1","name":"Bundesliga"}
		]}`,
		teams: map[string]string{
			"eng.1": `{"sports":[{"leagues":[{"teams":[{"team":{"id":"359"}}]}]}]}`,
		},
		failSlug: "ger.1",
	}
	idx := &fakeIndex{}

	stats, err := NewRefresher(up, idx, 2).Refresh(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Leagues != 1 || stats.Failed != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(idx.replaced) != 1 {
		t.Errorf("replaced = %v", idx.replaced)
	}
	if !idx.touched {
		t.Error("partial refresh should still record its timestamp")
	}
}
