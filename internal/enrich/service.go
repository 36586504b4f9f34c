// Package enrich computes the derived context the template engine
// consumes: merged event lists, streaks, head-to-head history, player
// leaders, standings, and coaches.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/teamarr/teamarr/internal/cache"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
)

const (
	// completed events within this window get a summary refresh so
	// final scores are present even when the schedule lags.
	summaryLookback = 7 * 24 * time.Hour

	// soccer multi-league fan-out concurrency per team
	fanoutWorkers = 5
)

// Upstream is the slice of the ESPN client enrichment needs.
type Upstream interface {
	Scoreboard(ctx context.Context, league string, date time.Time) (*espn.ScoreboardDoc, error)
	TeamSchedule(ctx context.Context, league, teamID string) (*espn.ScheduleDoc, error)
	Team(ctx context.Context, league, teamID string) (*espn.TeamDoc, error)
	Summary(ctx context.Context, league, eventID string) (*espn.SummaryDoc, error)
	Roster(ctx context.Context, league, teamID string) (*espn.RosterDoc, error)
	Group(ctx context.Context, league, groupID string) (*espn.GroupDoc, error)
	Leaders(ctx context.Context, league string, season int, teamID string) (*espn.LeadersDoc, error)
}

// soccerIndex is the reverse-lookup slice of the store.
type soccerIndex interface {
	SoccerLeaguesForTeam(teamID string) ([]store.SoccerLeague, error)
}

// Service enriches one generation run. It is built fresh per run around
// that run's cache; the client and index are process-wide.
type Service struct {
	client Upstream
	runC   *cache.RunCache
	idx    soccerIndex
}

func NewService(client Upstream, runC *cache.RunCache, idx soccerIndex) *Service {
	return &Service{client: client, runC: runC, idx: idx}
}

// Events assembles the full event list for a team: schedule, today's
// scoreboard merge, recent-final summary refresh, and for soccer teams
// the multi-league fan-out. Upstream unavailability degrades to fewer
// events, never an error.
func (s *Service) Events(ctx context.Context, team model.Team, now time.Time) []model.Event {
	var events []model.Event
	if isSoccer(team.League) {
		events = s.soccerEvents(ctx, team, now)
	} else {
		events = s.scheduleEvents(ctx, team.League, team.ProviderTeamID)
	}

	events = s.mergeScoreboard(ctx, events, team.League, now)
	events = s.refreshRecentFinals(ctx, events, now)

	sort.Slice(events, func(i, j int) bool { return events[i].StartUTC.Before(events[j].StartUTC) })
	telemetry.Metrics.EventsProcessed.Add(int64(len(events)))
	return events
}

func (s *Service) scheduleEvents(ctx context.Context, league, teamID string) []model.Event {
	key := fmt.Sprintf("schedule:%s:%s", league, teamID)
	doc, found, err := cache.Fetch(s.runC, key, func() (*espn.ScheduleDoc, error) {
		d, err := s.client.TeamSchedule(ctx, league, teamID)
		if errors.Is(err, espn.ErrUnavailable) {
			return nil, nil
		}
		return d, err
	})
	if err != nil || !found || doc == nil {
		return nil
	}
	return espn.NormalizeEvents(doc.Events, league)
}

// soccerEvents fans schedule fetches out across every competition the
// team is indexed in, merging by event id. Each merged event keeps the
// slug of the competition it actually came from.
func (s *Service) soccerEvents(ctx context.Context, team model.Team, now time.Time) []model.Event {
	leagues, err := s.idx.SoccerLeaguesForTeam(team.ProviderTeamID)
	if err != nil {
		telemetry.Warnf("enrich: soccer index for %s: %v", team.Name, err)
	}

	baseSlug := team.League
	if baseSlug == "mls" {
		baseSlug = "usa.1"
	}
	slugs := []string{baseSlug}
	for _, l := range leagues {
		if l.Slug != baseSlug {
			slugs = append(slugs, l.Slug)
		}
	}

	type result struct {
		slug   string
		events []model.Event
	}
	jobs := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < fanoutWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for slug := range jobs {
				results <- result{slug, s.scheduleEvents(ctx, slug, team.ProviderTeamID)}
			}
		}()
	}
	go func() {
		for _, slug := range slugs {
			jobs <- slug
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	merged := make(map[string]model.Event)
	for r := range results {
		for _, ev := range r.events {
			ev.SourceLeague = r.slug
			if _, dup := merged[ev.ID]; !dup {
				merged[ev.ID] = ev
			}
		}
	}

	out := make([]model.Event, 0, len(merged))
	for _, ev := range merged {
		out = append(out, ev)
	}
	return out
}

// mergeScoreboard overlays today's scoreboard onto the event list:
// odds, broadcasts, live status, and scores beat schedule data.
func (s *Service) mergeScoreboard(ctx context.Context, events []model.Event, league string, now time.Time) []model.Event {
	if len(events) == 0 {
		return events
	}

	// soccer events carry their own source league; merge each involved
	// league's board once (the run cache dedupes across teams).
	leagues := map[string]bool{}
	for i := range events {
		if events[i].SourceLeague != "" {
			leagues[events[i].SourceLeague] = true
		} else {
			leagues[league] = true
		}
	}

	board := make(map[string]model.Event)
	for lg := range leagues {
		for _, ev := range s.scoreboard(ctx, lg, now) {
			board[ev.ID] = ev
		}
	}
	if len(board) == 0 {
		return events
	}

	for i := range events {
		live, ok := board[events[i].ID]
		if !ok {
			continue
		}
		src := events[i].SourceLeague
		live.SourceLeague = src
		live.League = events[i].League
		events[i] = live
	}
	return events
}

func (s *Service) scoreboard(ctx context.Context, league string, date time.Time) []model.Event {
	key := fmt.Sprintf("scoreboard:%s:%s", league, date.Format("20060102"))
	doc, found, err := cache.Fetch(s.runC, key, func() (*espn.ScoreboardDoc, error) {
		d, err := s.client.Scoreboard(ctx, league, date)
		if errors.Is(err, espn.ErrUnavailable) {
			return nil, nil
		}
		return d, err
	})
	if err != nil || !found || doc == nil {
		return nil
	}
	return espn.NormalizeEvents(doc.Events, league)
}

// refreshRecentFinals fetches event summaries for games in the recent
// look-back window whose schedule row lacks a final score.
func (s *Service) refreshRecentFinals(ctx context.Context, events []model.Event, now time.Time) []model.Event {
	for i := range events {
		ev := &events[i]
		age := now.Sub(ev.StartUTC)
		if age < 0 || age > summaryLookback {
			continue
		}
		if ev.Final() && ev.Home.Score != nil && ev.Away.Score != nil {
			continue
		}

		league := ev.League
		if ev.SourceLeague != "" {
			league = ev.SourceLeague
		}
		key := fmt.Sprintf("summary:%s:%s", league, ev.ID)
		doc, found, err := cache.Fetch(s.runC, key, func() (*espn.SummaryDoc, error) {
			d, err := s.client.Summary(ctx, league, ev.ID)
			if errors.Is(err, espn.ErrUnavailable) {
				return nil, nil
			}
			return d, err
		})
		if err != nil || !found || doc == nil {
			continue
		}
		if fresh, ok := espn.NormalizeSummary(doc, ev.League, ev.ID); ok {
			fresh.SourceLeague = ev.SourceLeague
			events[i] = fresh
		}
	}
	return events
}

// Stats fetches a team's season-aggregate stats, including conference
// and division names resolved through the group doc chain.
func (s *Service) Stats(ctx context.Context, league, teamID string) (model.TeamStats, bool) {
	key := fmt.Sprintf("team:%s:%s", league, teamID)
	doc, found, err := cache.Fetch(s.runC, key, func() (*espn.TeamDoc, error) {
		d, err := s.client.Team(ctx, league, teamID)
		if errors.Is(err, espn.ErrUnavailable) {
			return nil, nil
		}
		return d, err
	})
	if err != nil || !found || doc == nil {
		return model.TeamStats{}, false
	}

	ts := espn.NormalizeTeamStats(doc)

	if gid := doc.Team.Groups.ID; gid != "" {
		division := s.group(ctx, league, gid)
		var conference *espn.GroupDoc
		if division != nil && division.Parent.ID != "" {
			conference = s.group(ctx, league, division.Parent.ID)
		}
		ts.Conference, ts.ConferenceAbbr, ts.Division = espn.ConferenceNames(division, conference)
	}
	return ts, true
}

func (s *Service) group(ctx context.Context, league, groupID string) *espn.GroupDoc {
	key := fmt.Sprintf("group:%s:%s", league, groupID)
	doc, found, err := cache.Fetch(s.runC, key, func() (*espn.GroupDoc, error) {
		d, err := s.client.Group(ctx, league, groupID)
		if errors.Is(err, espn.ErrUnavailable) {
			return nil, nil
		}
		return d, err
	})
	if err != nil || !found {
		return nil
	}
	return doc
}

// Coach fetches the team's head coach name. Empty on any failure.
func (s *Service) Coach(ctx context.Context, league, teamID string) string {
	key := fmt.Sprintf("roster:%s:%s", league, teamID)
	doc, found, err := cache.Fetch(s.runC, key, func() (*espn.RosterDoc, error) {
		d, err := s.client.Roster(ctx, league, teamID)
		if errors.Is(err, espn.ErrUnavailable) {
			return nil, nil
		}
		return d, err
	})
	if err != nil || !found || doc == nil {
		return ""
	}
	return espn.NormalizeCoach(doc)
}

// SeasonLeaders fetches basketball season leaders. Nil for sports the
// Core API does not cover.
func (s *Service) SeasonLeaders(ctx context.Context, league string, season int, teamID string) []model.SeasonLeader {
	switch league {
	case "nba", "wnba", "mens-college-basketball", "womens-college-basketball":
	default:
		return nil
	}
	key := fmt.Sprintf("leaders:%s:%d:%s", league, season, teamID)
	doc, found, err := cache.Fetch(s.runC, key, func() (*espn.LeadersDoc, error) {
		d, err := s.client.Leaders(ctx, league, season, teamID)
		if errors.Is(err, espn.ErrUnavailable) {
			return nil, nil
		}
		return d, err
	})
	if err != nil || !found || doc == nil {
		return nil
	}
	return espn.NormalizeSeasonLeaders(doc)
}

func isSoccer(league string) bool {
	return strings.Contains(league, ".") || league == "mls"
}
