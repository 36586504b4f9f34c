// Package soccer maintains the soccer league reverse index: which
// competitions each team appears in. A team channel for a soccer club
// needs it to fan schedule fetches out across every competition the
// club plays (league, domestic cup, continental cup).
package soccer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
)

// upstream is the slice of the ESPN client the crawl needs.
type upstream interface {
	SoccerLeagues(ctx context.Context) (*espn.SoccerLeaguesDoc, error)
	LeagueTeams(ctx context.Context, slug string) (*espn.LeagueTeamsDoc, error)
}

// index is the slice of the store the crawl writes to.
type index interface {
	ReplaceSoccerLeague(l store.SoccerLeague, teamIDs []string) error
	TouchSoccerRefresh(at time.Time) error
	SoccerCacheAge() (time.Duration, bool)
	SoccerLeagueCount() (int, error)
}

// Refresher crawls every soccer competition and rebuilds the index.
type Refresher struct {
	client  upstream
	idx     index
	workers int
}

func NewRefresher(client upstream, idx index, workers int) *Refresher {
	if workers < 1 {
		workers = 50
	}
	return &Refresher{client: client, idx: idx, workers: workers}
}

// Stale reports whether the index needs a refresh: never built, or
// older than maxAge.
func (r *Refresher) Stale(maxAge time.Duration) bool {
	age, ok := r.idx.SoccerCacheAge()
	if !ok {
		return true
	}
	return age > maxAge
}

// Stats summarizes one index rebuild.
type Stats struct {
	Leagues int
	Teams   int
	Failed  int
}

// Refresh rebuilds the whole index. One job per competition, fanned out
// across the worker pool; a competition that fails to fetch keeps its
// previous rows. Idempotent: unchanged leagues produce identical rows.
func (r *Refresher) Refresh(ctx context.Context) (Stats, error) {
	started := time.Now()

	leagues, err := r.client.SoccerLeagues(ctx)
	if err != nil {
		return Stats{}, err
	}

	type job struct {
		slug, name, abbrev string
	}
	jobs := make(chan job)
	var (
		wg        sync.WaitGroup
		refreshed atomic.Int64
		failed    atomic.Int64
		teams     atomic.Int64
	)

	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				doc, err := r.client.LeagueTeams(ctx, j.slug)
				if err != nil {
					telemetry.Debugf("soccer refresh: %s: %v", j.slug, err)
					failed.Add(1)
					continue
				}
				ids := teamIDs(doc)
				err = r.idx.ReplaceSoccerLeague(store.SoccerLeague{
					Slug:   j.slug,
					Name:   j.name,
					Abbrev: j.abbrev,
					Tags:   Tags(j.slug),
				}, ids)
				if err != nil {
					telemetry.Warnf("soccer refresh: store %s: %v", j.slug, err)
					failed.Add(1)
					continue
				}
				refreshed.Add(1)
				teams.Add(int64(len(ids)))
			}
		}()
	}

	for _, item := range leagues.Items {
		if item.Slug == "" {
			continue
		}
		select {
		case jobs <- job{slug: item.Slug, name: item.Name, abbrev: item.Abbreviation}:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return Stats{}, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	stats := Stats{
		Leagues: int(refreshed.Load()),
		Teams:   int(teams.Load()),
		Failed:  int(failed.Load()),
	}
	if err := r.idx.TouchSoccerRefresh(time.Now()); err != nil {
		return stats, err
	}

	telemetry.Infof("Soccer index refreshed: %s leagues (%s teams, %d failed) in %s",
		humanize.Comma(refreshed.Load()), humanize.Comma(teams.Load()), failed.Load(),
		time.Since(started).Round(time.Millisecond))
	return stats, nil
}

func teamIDs(doc *espn.LeagueTeamsDoc) []string {
	var ids []string
	for _, sport := range doc.Sports {
		for _, league := range sport.Leagues {
			for _, t := range league.Teams {
				if t.Team.ID != "" {
					ids = append(ids, t.Team.ID)
				}
			}
		}
	}
	return ids
}
