// Package orchestrator drives generation runs: it fans teams out over
// a worker pool, assembles each channel's programmes, and writes the
// guide atomically at the end.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teamarr/teamarr/internal/cache"
	"github.com/teamarr/teamarr/internal/config"
	"github.com/teamarr/teamarr/internal/enrich"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/events"
	"github.com/teamarr/teamarr/internal/guide"
	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/soccer"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
	"github.com/teamarr/teamarr/internal/template"
	"github.com/teamarr/teamarr/internal/xmltv"
)

var (
	// ErrRunInProgress is returned when a generation run is already active.
	ErrRunInProgress = errors.New("generation already in progress")

	// ErrOutputUnwritable wraps guide write failures so callers can tell
	// data problems from output-path problems.
	ErrOutputUnwritable = errors.New("guide output not writable")
)

// Status is the probe view of the orchestrator, served over the
// status feed snapshot.
type Status struct {
	InProgress bool      `json:"in_progress"`
	RunID      string    `json:"run_id,omitempty"`
	Percent    int       `json:"percent"`
	Message    string    `json:"message,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
}

// Orchestrator owns the process-wide pieces a run needs: the store,
// the upstream client, the soccer refresher, and the event bus.
type Orchestrator struct {
	cfg       *config.Config
	sports    config.Sports
	st        *store.Store
	client    enrich.Upstream
	refresher *soccer.Refresher
	bus       *events.Bus

	mu     sync.Mutex
	status Status
}

func New(cfg *config.Config, sports config.Sports, st *store.Store, client enrich.Upstream, refresher *soccer.Refresher, bus *events.Bus) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		sports:    sports,
		st:        st,
		client:    client,
		refresher: refresher,
		bus:       bus,
	}
}

// Status returns the current run probe.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// StatusSnapshot adapts Status for the feed's connect-time snapshot.
func (o *Orchestrator) StatusSnapshot() any { return o.Status() }

type teamResult struct {
	team       model.Team
	programmes []model.Programme
	err        error
}

// RunOptions overrides stored settings for a single run. Zero values
// fall back to the settings row.
type RunOptions struct {
	DaysAhead int
	Timezone  string
}

// RunResult summarizes one completed run.
type RunResult struct {
	RunID      string
	Teams      int
	Failed     int
	Programmes map[string]int // channel id -> programme count
	Total      int
	OutputPath string
	Errors     []string
	Duration   time.Duration
}

// GenerateEPG runs one full generation: every active team is enriched
// and synthesized on the worker pool, then the guide is written in one
// atomic pass. A team that fails or panics is skipped; the run itself
// only fails when the output cannot be written. At most one run is
// active at a time.
func (o *Orchestrator) GenerateEPG(ctx context.Context, opts RunOptions) (*RunResult, error) {
	o.mu.Lock()
	if o.status.InProgress {
		o.mu.Unlock()
		return nil, ErrRunInProgress
	}
	runID := uuid.NewString()
	started := time.Now()
	o.status = Status{InProgress: true, RunID: runID, StartedAt: started, Message: "starting"}
	o.mu.Unlock()

	telemetry.Metrics.ActiveRuns.Inc()
	defer telemetry.Metrics.ActiveRuns.Dec()

	result, err := o.run(ctx, runID, started, opts)

	o.mu.Lock()
	o.status = Status{Percent: 100, Message: "idle"}
	if err != nil {
		o.status.Message = err.Error()
	}
	o.mu.Unlock()
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, runID string, started time.Time, opts RunOptions) (*RunResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.GenerationDeadline)
	defer cancel()

	settings := o.st.Settings()
	if opts.DaysAhead > 0 {
		settings.DaysAhead = opts.DaysAhead
	}
	tz := settings.Timezone
	if opts.Timezone != "" {
		tz = opts.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		telemetry.Warnf("orchestrator: bad timezone %q, using UTC", tz)
		loc = time.UTC
	}

	teams, err := o.st.ActiveTeams()
	if err != nil {
		o.publish(events.EventRunFailed, runID, events.RunFinished{RunID: runID, Error: err.Error()})
		return nil, fmt.Errorf("load teams: %w", err)
	}

	o.ensureSoccerIndex(ctx, teams)

	generation, err := o.st.NextFingerprintGeneration()
	if err != nil {
		telemetry.Warnf("orchestrator: fingerprint generation: %v", err)
	}

	runC := cache.NewRunCache()
	defer runC.Reset()
	svc := enrich.NewService(o.client, runC, o.st)

	o.publish(events.EventRunStarted, runID, events.RunStarted{
		RunID: runID, TeamCount: len(teams), DaysAhead: settings.DaysAhead,
	})
	telemetry.Infof("orchestrator: run %s started, %d teams", runID, len(teams))

	results := o.processTeams(ctx, runID, svc, teams, settings, loc, generation, time.Now())

	var channels []xmltv.Channel
	counts := struct{ games, pregame, postgame, idle, failed int }{}
	result := &RunResult{RunID: runID, Programmes: map[string]int{}}
	for _, r := range results {
		if r.err != nil {
			counts.failed++
			telemetry.Metrics.TeamsSkipped.Inc()
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", r.team.Name, r.err))
			continue
		}
		telemetry.Metrics.TeamsProcessed.Inc()
		channels = append(channels, xmltv.Channel{Team: r.team, Programmes: r.programmes})
		result.Programmes[r.team.ChannelID()] = len(r.programmes)
		for _, p := range r.programmes {
			switch p.Kind {
			case model.KindGame:
				counts.games++
			case model.KindPregame:
				counts.pregame++
			case model.KindPostgame:
				counts.postgame++
			case model.KindIdle:
				counts.idle++
			}
		}
	}

	outputPath := settings.OutputPath
	if outputPath == "" {
		outputPath = o.cfg.OutputPath
	}
	if err := xmltv.Write(outputPath, channels, loc); err != nil {
		o.publish(events.EventRunFailed, runID, events.RunFinished{RunID: runID, Error: err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrOutputUnwritable, err)
	}

	if generation > 0 {
		if purged, err := o.st.PurgeStaleFingerprints(generation, int64(o.cfg.FingerprintPurgeRuns)); err != nil {
			telemetry.Warnf("orchestrator: fingerprint purge: %v", err)
		} else if purged > 0 {
			telemetry.Debugf("orchestrator: purged %d stale fingerprints", purged)
		}
	}

	finished := time.Now()
	total := counts.games + counts.pregame + counts.postgame + counts.idle
	if err := o.st.RecordRun(store.HistoryRow{
		StartedAt:   started,
		FinishedAt:  finished,
		NumChannels: len(channels),
		NumPrograms: total,
		NumGames:    counts.games,
		NumPregame:  counts.pregame,
		NumPostgame: counts.postgame,
		NumIdle:     counts.idle,
		NumErrors:   counts.failed,
		OutputPath:  outputPath,
	}); err != nil {
		telemetry.Warnf("orchestrator: history: %v", err)
	}

	telemetry.Metrics.RunsCompleted.Inc()
	telemetry.Metrics.RunDuration.Record(finished.Sub(started))
	o.publish(events.EventRunCompleted, runID, events.RunFinished{
		RunID:      runID,
		Teams:      len(channels),
		Failed:     counts.failed,
		Programmes: total,
		OutputPath: outputPath,
		DurationMS: finished.Sub(started).Milliseconds(),
	})
	telemetry.Infof("orchestrator: run %s done, %d channels, %d programmes, %d failed in %s",
		runID, len(channels), total, counts.failed, finished.Sub(started).Round(time.Millisecond))

	result.Teams = len(channels)
	result.Failed = counts.failed
	result.Total = total
	result.OutputPath = outputPath
	result.Duration = finished.Sub(started)
	return result, nil
}

// processTeams fans the team list out over the worker pool. Team order
// in the result is not significant; the writer sorts programmes per
// channel.
func (o *Orchestrator) processTeams(ctx context.Context, runID string, svc *enrich.Service, teams []model.Team, settings model.Settings, loc *time.Location, generation int64, now time.Time) []teamResult {
	workers := o.cfg.TeamWorkers
	if workers < 1 {
		workers = 8
	}

	jobs := make(chan model.Team)
	out := make(chan teamResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for team := range jobs {
				out <- o.processTeam(ctx, svc, team, settings, loc, generation, now)
			}
		}()
	}
	go func() {
		for _, t := range teams {
			select {
			case jobs <- t:
			case <-ctx.Done():
				// deadline: remaining teams are skipped, completed
				// channels still make it into the guide
				close(jobs)
				wg.Wait()
				close(out)
				return
			}
		}
		close(jobs)
		wg.Wait()
		close(out)
	}()

	var results []teamResult
	done := 0
	for r := range out {
		done++
		results = append(results, r)

		o.mu.Lock()
		o.status.Percent = done * 100 / len(teams)
		o.status.Message = fmt.Sprintf("processed %s", r.team.Name)
		o.mu.Unlock()

		progress := events.TeamProgress{
			RunID: runID, TeamID: r.team.ID, TeamName: r.team.Name,
			League: r.team.League, Done: done, Total: len(teams),
			Programmes: len(r.programmes),
		}
		typ := events.EventTeamCompleted
		if r.err != nil {
			typ = events.EventTeamFailed
			progress.Error = r.err.Error()
		}
		o.publish(typ, runID, progress)
	}
	return results
}

// processTeam builds one channel. Panics are contained here so a
// malformed upstream document never takes down the run.
func (o *Orchestrator) processTeam(ctx context.Context, svc *enrich.Service, team model.Team, settings model.Settings, loc *time.Location, generation int64, now time.Time) (res teamResult) {
	res.team = team
	defer func() {
		if r := recover(); r != nil {
			res.err = fmt.Errorf("panic: %v", r)
			res.programmes = nil
			telemetry.Errorf("orchestrator: team %s panicked: %v", team.Name, r)
		}
	}()

	if ctx.Err() != nil {
		res.err = ctx.Err()
		return res
	}

	tpl, err := o.st.Template(team.TemplateID)
	if err != nil {
		res.err = fmt.Errorf("template: %w", err)
		return res
	}

	sport := espn.SportKey(team.League)
	evs := svc.Events(ctx, team, now)

	stats, _ := svc.Stats(ctx, team.League, team.ProviderTeamID)
	streaks := enrich.ComputeStreaks(evs, team.ProviderTeamID)
	stats.StreakCount = enrich.StreakCount(evs, team.ProviderTeamID)
	seasonYear := enrich.SeasonYear(evs, sport, now)

	teamCtx := template.TeamContext{
		Team:          team,
		Sport:         sport,
		Stats:         stats,
		Streaks:       streaks,
		Coach:         svc.Coach(ctx, team.League, team.ProviderTeamID),
		SeasonLeaders: svc.SeasonLeaders(ctx, team.League, seasonYear, team.ProviderTeamID),
		SeasonYear:    seasonYear,
		Location:      loc,
		Now:           now,
		IsNational:    o.sports.IsNationalNetwork,
	}

	gameCtx := func(ev *model.Event) *template.GameContext {
		gc := &template.GameContext{Event: ev, Leaders: enrich.GameLeaders(ev, sport)}
		_, opp, _, ok := ev.SideFor(team.ProviderTeamID)
		if !ok {
			return gc
		}
		league := ev.League
		if ev.SourceLeague != "" {
			league = ev.SourceLeague
		}
		if oppStats, ok := svc.Stats(ctx, league, opp.TeamID); ok {
			gc.OppStats = &oppStats
		}
		gc.OppCoach = svc.Coach(ctx, league, opp.TeamID)
		gc.H2H = enrich.ComputeH2H(evs, team.ProviderTeamID, opp.TeamID, seasonYear, now)
		return gc
	}

	res.programmes = guide.Synthesize(guide.Input{
		Team:            team,
		Template:        tpl,
		Sport:           sport,
		Events:          evs,
		Now:             now,
		Location:        loc,
		DaysAhead:       settings.DaysAhead,
		DefaultDuration: settings.DefaultDuration,
		SportDuration:   o.sports.Duration(sport),
		TeamCtx:         teamCtx,
		GameCtx:         gameCtx,
	})

	if generation > 0 {
		if err := o.st.MarkFingerprintSeen(team.ChannelID(), team.ChannelID(), generation); err != nil {
			telemetry.Debugf("orchestrator: fingerprint %s: %v", team.ChannelID(), err)
		}
	}
	return res
}

// ensureSoccerIndex refreshes the league index when a soccer team is
// configured and the index is missing or stale.
func (o *Orchestrator) ensureSoccerIndex(ctx context.Context, teams []model.Team) {
	if o.refresher == nil {
		return
	}
	hasSoccer := false
	for _, t := range teams {
		if espn.SportKey(t.League) == "soccer" {
			hasSoccer = true
			break
		}
	}
	if !hasSoccer || !o.refresher.Stale(o.cfg.SoccerStaleAfter) {
		return
	}
	telemetry.Infof("orchestrator: soccer index stale, refreshing")
	if err := o.RefreshSoccerCache(ctx); err != nil {
		telemetry.Warnf("orchestrator: soccer refresh: %v", err)
	}
}

// RefreshSoccerCache rebuilds the soccer league index now.
func (o *Orchestrator) RefreshSoccerCache(ctx context.Context) error {
	if o.refresher == nil {
		return errors.New("soccer refresher not configured")
	}
	started := time.Now()
	o.publish(events.EventSoccerRefreshStarted, "", events.SoccerRefresh{})
	stats, err := o.refresher.Refresh(ctx)
	o.publish(events.EventSoccerRefreshCompleted, "", events.SoccerRefresh{
		Leagues:    stats.Leagues,
		Teams:      stats.Teams,
		Failed:     stats.Failed,
		DurationMS: time.Since(started).Milliseconds(),
	})
	return err
}

func (o *Orchestrator) publish(t events.EventType, runID string, payload any) {
	if o.bus == nil {
		return
	}
	o.bus.Publish(events.Event{
		ID:        uuid.NewString(),
		Type:      t,
		RunID:     runID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
