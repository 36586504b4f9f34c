// Package guide assembles per-team programme timelines: game
// programmes surrounded by pregame/postgame filler, idle filler in the
// gaps, split to the template's block limit, with midnight-crossover
// handling.
package guide

import (
	"sort"
	"time"

	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/telemetry"
	"github.com/teamarr/teamarr/internal/template"
)

// Input carries everything one team's synthesis needs. GameCtx builds
// the enriched template slot for an event; the synthesizer itself never
// fetches.
type Input struct {
	Team     model.Team
	Template model.Template
	Sport    string

	Events []model.Event

	Now       time.Time
	Location  *time.Location
	DaysAhead int

	DefaultDuration time.Duration
	SportDuration   time.Duration

	TeamCtx template.TeamContext
	GameCtx func(*model.Event) *template.GameContext
}

// gameSlot is one selected game with its computed programme span.
type gameSlot struct {
	event *model.Event
	start time.Time
	stop  time.Time
}

// Synthesize produces the team's programme stream over the lookahead
// window, time-ordered and, when fillers are enabled, gapless.
func Synthesize(in Input) []model.Programme {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	if in.DaysAhead < 1 {
		in.DaysAhead = 1
	}

	nowLocal := in.Now.In(loc)
	windowStart := time.Date(nowLocal.Year(), nowLocal.Month(), nowLocal.Day(), 0, 0, 0, 0, loc)
	windowEnd := windowStart.AddDate(0, 0, in.DaysAhead)

	duration := gameDuration(&in)

	events := make([]model.Event, len(in.Events))
	copy(events, in.Events)
	sort.Slice(events, func(i, j int) bool { return events[i].StartUTC.Before(events[j].StartUTC) })

	// games whose start falls inside the window; a game straddling the
	// window end is kept whole
	var slots []gameSlot
	for i := range events {
		ev := &events[i]
		if ev.State == model.StatePostponed || ev.State == model.StateCancelled {
			continue
		}
		start := ev.StartUTC.In(loc)
		if start.Before(windowStart) || !start.Before(windowEnd) {
			continue
		}
		slots = append(slots, gameSlot{event: ev, start: start, stop: start.Add(duration)})
	}

	s := &synthesis{
		in:     in,
		loc:    loc,
		events: events,
		slots:  slots,
	}

	// crossEnd is the point the previous day's game ran to past
	// midnight; zero when no crossover.
	var crossEnd time.Time
	var crossGame *model.Event

	var out []model.Programme
	for day := windowStart; day.Before(windowEnd); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)
		progs, nextCross, nextCrossGame := s.assembleDay(day, dayEnd, crossEnd, crossGame)
		out = append(out, progs...)
		crossEnd, crossGame = nextCross, nextCrossGame
	}

	telemetry.Metrics.ProgrammesEmitted.Add(int64(len(out)))
	return out
}

type synthesis struct {
	in     Input
	loc    *time.Location
	events []model.Event
	slots  []gameSlot
}

// assembleDay builds one local day's programmes. crossEnd/crossGame
// describe a game from the previous day still running past midnight.
func (s *synthesis) assembleDay(dayStart, dayEnd, crossEnd time.Time, crossGame *model.Event) ([]model.Programme, time.Time, *model.Event) {
	tpl := &s.in.Template
	var out []model.Programme

	cursor := dayStart
	dayFloor := dayStart

	// handle carry-in crossover: the game programme itself runs to
	// crossEnd; what follows depends on the crossover mode
	if !crossEnd.IsZero() && crossEnd.After(dayStart) {
		cursor, dayFloor = crossEnd, crossEnd
		switch tpl.MidnightCrossover {
		case model.CrossoverPostgame:
			if tpl.PostgameEnabled && tpl.PostgameMinutes > 0 {
				stop := cursor.Add(time.Duration(tpl.PostgameMinutes) * time.Minute)
				if stop.After(dayEnd) {
					stop = dayEnd
				}
				out = append(out, s.filler(model.KindPostgame, cursor, stop, crossGame))
				cursor = stop
			}
		case model.CrossoverIdle:
			// idle fill below starts at crossEnd as usual
		case model.CrossoverNone:
			// suppress fillers until the day's first pregame/game
			first := dayEnd
			for _, g := range s.dayGames(dayStart, dayEnd) {
				start := g.start
				if tpl.PregameEnabled && tpl.PregameMinutes > 0 {
					start = start.Add(-time.Duration(tpl.PregameMinutes) * time.Minute)
				}
				if start.Before(first) {
					first = start
				}
				break
			}
			if first.After(cursor) {
				cursor = first
			}
		}
	}

	var nextCross time.Time
	var nextCrossGame *model.Event

	for _, g := range s.dayGames(dayStart, dayEnd) {
		gameStart, gameStop := g.start, g.stop

		// colliding spans: the later game's real start wins, whatever
		// is still running gets cut short at it
		if gameStart.Before(cursor) {
			out = trimOverlap(out, gameStart)
			if gameStart.Before(dayFloor) {
				gameStart = dayFloor
			}
			if !gameStart.Before(gameStop) {
				continue
			}
			g.start = gameStart
			cursor = gameStart
		}

		pregameStart := gameStart
		if tpl.PregameEnabled && tpl.PregameMinutes > 0 {
			pregameStart = gameStart.Add(-time.Duration(tpl.PregameMinutes) * time.Minute)
			if pregameStart.Before(cursor) {
				pregameStart = cursor
			}
		}

		out = append(out, s.idleFill(cursor, pregameStart)...)

		if tpl.PregameEnabled && pregameStart.Before(gameStart) {
			out = append(out, s.filler(model.KindPregame, pregameStart, gameStart, g.event))
		}

		out = append(out, s.gameProgramme(g))
		cursor = gameStop

		if gameStop.After(dayEnd) {
			// crosses midnight: belongs to this day, postgame and idle
			// resume on the next day per the crossover mode
			nextCross = gameStop
			nextCrossGame = g.event
			cursor = dayEnd
			continue
		}

		if tpl.PostgameEnabled && tpl.PostgameMinutes > 0 {
			stop := gameStop.Add(time.Duration(tpl.PostgameMinutes) * time.Minute)
			if stop.After(dayEnd) {
				stop = dayEnd
			}
			if stop.After(gameStop) {
				out = append(out, s.filler(model.KindPostgame, gameStop, stop, g.event))
				cursor = stop
			}
		}
	}

	out = append(out, s.idleFill(cursor, dayEnd)...)
	return out, nextCross, nextCrossGame
}

// trimOverlap cuts the day's emitted programmes back to t: the one
// running across t stops there, anything wholly at or past t is
// dropped.
func trimOverlap(progs []model.Programme, t time.Time) []model.Programme {
	cut := t.UTC()
	for len(progs) > 0 {
		last := &progs[len(progs)-1]
		if !last.StartUTC.Before(cut) {
			progs = progs[:len(progs)-1]
			continue
		}
		if last.StopUTC.After(cut) {
			last.StopUTC = cut
		}
		break
	}
	return progs
}

func (s *synthesis) dayGames(dayStart, dayEnd time.Time) []gameSlot {
	var out []gameSlot
	for _, g := range s.slots {
		if !g.start.Before(dayStart) && g.start.Before(dayEnd) {
			out = append(out, g)
		}
	}
	return out
}

// idleFill covers [from, to) with idle chunks no longer than the
// template's block limit. Each chunk resolves independently so
// countdown variables advance across chunks.
func (s *synthesis) idleFill(from, to time.Time) []model.Programme {
	if !s.in.Template.IdleEnabled || !from.Before(to) {
		return nil
	}
	maxLen := time.Duration(s.in.Template.MaxProgramHoursOrDefault()) * time.Hour

	var out []model.Programme
	for start := from; start.Before(to); start = start.Add(maxLen) {
		stop := start.Add(maxLen)
		if stop.After(to) {
			stop = to
		}
		out = append(out, s.filler(model.KindIdle, start, stop, nil))
	}
	return out
}

// filler renders one pregame/postgame/idle programme. anchor is the
// game a pregame precedes or a postgame follows; idle passes nil and
// binds to the nearest games around the chunk start.
func (s *synthesis) filler(kind model.ProgrammeKind, start, stop time.Time, anchor *model.Event) model.Programme {
	tpl := &s.in.Template

	res := s.resolution(kind, start, anchor)
	vars := template.BuildVariables(res)

	var text model.FillerText
	switch kind {
	case model.KindPregame:
		text = tpl.Pregame
	case model.KindPostgame:
		text = tpl.Postgame
		if tpl.PostgameConditional {
			text.Description = s.conditionalDesc(res, tpl.PostgameFinalDesc, tpl.PostgameNotFinalDesc, text.Description)
		}
	case model.KindIdle:
		text = tpl.Idle
		if tpl.IdleConditional {
			text.Description = s.conditionalDesc(res, tpl.IdleFinalDesc, tpl.IdleNotFinalDesc, text.Description)
		}
	}

	telemetry.Metrics.FillersEmitted.Inc()
	return model.Programme{
		ChannelID:   s.in.Team.ChannelID(),
		Title:       template.Resolve(text.Title, vars),
		Description: template.Resolve(text.Description, vars),
		StartUTC:    start.UTC(),
		StopUTC:     stop.UTC(),
		Categories:  tpl.Categories,
		Icon:        s.in.Team.LogoURL,
		Kind:        kind,
	}
}

// conditionalDesc picks the final-vs-not-final variant when the bound
// last game ended on the same local day as the chunk; otherwise the
// plain description stands.
func (s *synthesis) conditionalDesc(res *template.Resolution, finalDesc, notFinalDesc, plain string) string {
	if res.Last == nil || res.Last.Event == nil {
		return plain
	}
	last := res.Last.Event
	if !sameLocalDay(last.StartUTC, res.Team.Now, s.loc) {
		return plain
	}
	if last.Final() {
		if finalDesc != "" {
			return finalDesc
		}
	} else if notFinalDesc != "" {
		return notFinalDesc
	}
	return plain
}

func (s *synthesis) gameProgramme(g gameSlot) model.Programme {
	tpl := &s.in.Template

	res := s.resolution(model.KindGame, g.start, g.event)
	vars := template.BuildVariables(res)

	desc := template.SelectDescription(tpl.DescriptionOptions, res)
	desc = template.Resolve(desc, vars)

	return model.Programme{
		ChannelID:   s.in.Team.ChannelID(),
		Title:       template.Resolve(tpl.TitleFormat, vars),
		Subtitle:    template.Resolve(tpl.SubtitleFormat, vars),
		Description: desc,
		StartUTC:    g.start.UTC(),
		StopUTC:     g.stop.UTC(),
		Categories:  tpl.Categories,
		Icon:        s.in.Team.LogoURL,
		Kind:        model.KindGame,
	}
}

// resolution binds the three template slots for a programme at a point
// in time. Pregame binds only next, postgame last plus next, idle the
// nearest games either side, game programmes all three.
func (s *synthesis) resolution(kind model.ProgrammeKind, at time.Time, anchor *model.Event) *template.Resolution {
	res := &template.Resolution{Team: s.in.TeamCtx}
	res.Team.Now = at.UTC()
	res.Team.Location = s.loc

	switch kind {
	case model.KindGame:
		res.Current = s.gameCtx(anchor)
		res.Next = s.gameCtx(s.nextAfter(anchor.StartUTC, anchor.ID))
		res.Last = s.gameCtx(s.lastBefore(anchor.StartUTC))
	case model.KindPregame:
		res.Next = s.gameCtx(anchor)
	case model.KindPostgame:
		res.Last = s.gameCtx(anchor)
		res.Next = s.gameCtx(s.nextAfter(at.UTC(), anchor.ID))
	case model.KindIdle:
		res.Next = s.gameCtx(s.nextAfter(at.UTC(), ""))
		res.Last = s.gameCtx(s.lastBefore(at.UTC()))
	}
	return res
}

func (s *synthesis) gameCtx(ev *model.Event) *template.GameContext {
	if ev == nil {
		return nil
	}
	if s.in.GameCtx != nil {
		return s.in.GameCtx(ev)
	}
	return &template.GameContext{Event: ev}
}

// nextAfter finds the nearest non-final game starting at or after t,
// skipping the event whose slot is being rendered.
func (s *synthesis) nextAfter(t time.Time, skipID string) *model.Event {
	for i := range s.events {
		ev := &s.events[i]
		if ev.ID == skipID && skipID != "" {
			continue
		}
		if ev.State == model.StatePostponed || ev.State == model.StateCancelled {
			continue
		}
		if !ev.StartUTC.Before(t) && !ev.Final() {
			return ev
		}
	}
	return nil
}

// lastBefore finds the most recent completed game before t.
func (s *synthesis) lastBefore(t time.Time) *model.Event {
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := &s.events[i]
		if ev.Final() && ev.StartUTC.Before(t) {
			return ev
		}
	}
	return nil
}

func gameDuration(in *Input) time.Duration {
	switch in.Template.GameDurationMode {
	case model.DurationCustom:
		if in.Template.CustomDurationMinutes > 0 {
			return time.Duration(in.Template.CustomDurationMinutes) * time.Minute
		}
	case model.DurationSport:
		if in.SportDuration > 0 {
			return in.SportDuration
		}
	}
	if in.DefaultDuration > 0 {
		return in.DefaultDuration
	}
	return 3 * time.Hour
}

func sameLocalDay(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	return al.Year() == bl.Year() && al.YearDay() == bl.YearDay()
}
