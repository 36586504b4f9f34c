package guide

import (
	"fmt"
	"testing"
	"time"

	"github.com/teamarr/teamarr/internal/model"
	"github.com/teamarr/teamarr/internal/template"
)

func intp(v int) *int { return &v }

func testTeam() model.Team {
	return model.Team{
		ID:             1,
		ProviderTeamID: "2",
		Provider:       "espn",
		League:         "nba",
		Name:           "Boston Celtics",
		Abbrev:         "BOS",
	}
}

func testTemplate() model.Template {
	return model.Template{
		ID:               1,
		Name:             "Default",
		Type:             model.TemplateTeam,
		TitleFormat:      "{team_name} {vs_at} {opponent}",
		PregameEnabled:   true,
		PregameMinutes:   30,
		Pregame:          model.FillerText{Title: "Pregame", Description: "Up next: {opponent.next}"},
		PostgameEnabled:  true,
		PostgameMinutes:  30,
		Postgame:         model.FillerText{Title: "Postgame", Description: "Final: {final_score.last}"},
		IdleEnabled:      true,
		Idle:             model.FillerText{Title: "Celtics TV", Description: "{days_until.next} days"},
		MaxProgramHours:  4,
		GameDurationMode: model.DurationSport,
		MidnightCrossover: model.CrossoverPostgame,
	}
}

func scheduledGame(id string, start time.Time) model.Event {
	return model.Event{
		ID:       id,
		Provider: "espn",
		League:   "nba",
		StartUTC: start,
		State:    model.StateScheduled,
		Home:     model.Side{TeamID: "2", Name: "Boston Celtics", Abbrev: "BOS"},
		Away:     model.Side{TeamID: "14", Name: "Miami Heat", Abbrev: "MIA"},
	}
}

func finalGame(id string, start time.Time, own, opp int) model.Event {
	ev := scheduledGame(id, start)
	ev.State = model.StateFinal
	ev.Home.Score = intp(own)
	ev.Away.Score = intp(opp)
	return ev
}

func testInput(now time.Time, daysAhead int, events ...model.Event) Input {
	return Input{
		Team:            testTeam(),
		Template:        testTemplate(),
		Sport:           "nba",
		Events:          events,
		Now:             now,
		Location:        time.UTC,
		DaysAhead:       daysAhead,
		DefaultDuration: 3 * time.Hour,
		SportDuration:   3 * time.Hour,
		TeamCtx:         template.TeamContext{Team: testTeam(), Sport: "nba"},
	}
}

// assertContiguous checks the gapless time-ordered invariant.
func assertContiguous(t *testing.T, progs []model.Programme) {
	t.Helper()
	for i := 0; i < len(progs)-1; i++ {
		if !progs[i].StopUTC.Equal(progs[i+1].StartUTC) {
			t.Errorf("gap between programme %d (%s, stop %s) and %d (%s, start %s)",
				i, progs[i].Kind, progs[i].StopUTC.Format(time.RFC3339),
				i+1, progs[i+1].Kind, progs[i+1].StartUTC.Format(time.RFC3339))
		}
	}
}

// assertNonOverlapping checks no programme runs into its successor.
func assertNonOverlapping(t *testing.T, progs []model.Programme) {
	t.Helper()
	for i := 0; i < len(progs)-1; i++ {
		if progs[i].StopUTC.After(progs[i+1].StartUTC) {
			t.Errorf("programme %d (%s, stop %s) overlaps %d (%s, start %s)",
				i, progs[i].Kind, progs[i].StopUTC.Format(time.RFC3339),
				i+1, progs[i+1].Kind, progs[i+1].StartUTC.Format(time.RFC3339))
		}
	}
}

func kinds(progs []model.Programme) []model.ProgrammeKind {
	out := make([]model.ProgrammeKind, len(progs))
	for i, p := range progs {
		out[i] = p.Kind
	}
	return out
}

func TestIdleOnlyDay(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	progs := Synthesize(testInput(now, 1))

	if len(progs) != 6 {
		t.Fatalf("got %d programmes, want 6 four-hour idle chunks: %v", len(progs), kinds(progs))
	}
	assertContiguous(t, progs)

	dayStart := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !progs[0].StartUTC.Equal(dayStart) {
		t.Errorf("first chunk starts %s, want local midnight", progs[0].StartUTC)
	}
	if !progs[5].StopUTC.Equal(dayStart.AddDate(0, 0, 1)) {
		t.Errorf("last chunk stops %s, want next midnight", progs[5].StopUTC)
	}
	for i, p := range progs {
		if p.Kind != model.KindIdle {
			t.Errorf("programme %d kind = %s, want idle", i, p.Kind)
		}
		if d := p.StopUTC.Sub(p.StartUTC); d > 4*time.Hour {
			t.Errorf("chunk %d length %s exceeds block limit", i, d)
		}
		if p.Title != "Celtics TV" {
			t.Errorf("chunk %d title = %q", i, p.Title)
		}
	}
}

func TestGameDayAssembly(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	game := scheduledGame("e1", time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC))
	progs := Synthesize(testInput(now, 1, game))

	want := []model.ProgrammeKind{
		model.KindIdle, model.KindIdle, model.KindIdle, model.KindIdle, model.KindIdle,
		model.KindPregame, model.KindGame, model.KindPostgame, model.KindIdle,
	}
	got := kinds(progs)
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
	assertContiguous(t, progs)

	pre, g, post := progs[5], progs[6], progs[7]
	if !pre.StartUTC.Equal(time.Date(2026, 1, 15, 18, 30, 0, 0, time.UTC)) {
		t.Errorf("pregame starts %s", pre.StartUTC)
	}
	if pre.Description != "Up next: Miami Heat" {
		t.Errorf("pregame description = %q", pre.Description)
	}
	if g.Title != "Boston Celtics vs Miami Heat" {
		t.Errorf("game title = %q", g.Title)
	}
	if !g.StopUTC.Equal(time.Date(2026, 1, 15, 22, 0, 0, 0, time.UTC)) {
		t.Errorf("game stops %s, want start+3h", g.StopUTC)
	}
	if !post.StopUTC.Equal(time.Date(2026, 1, 15, 22, 30, 0, 0, time.UTC)) {
		t.Errorf("postgame stops %s", post.StopUTC)
	}
	if g.ChannelID != "teamarr-team-espn-2" {
		t.Errorf("channel id = %q", g.ChannelID)
	}
}

func TestMidnightCrossoverPostgame(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	game := scheduledGame("e1", time.Date(2026, 1, 15, 22, 30, 0, 0, time.UTC))
	progs := Synthesize(testInput(now, 2, game))
	assertContiguous(t, progs)

	var gameIdx int = -1
	for i, p := range progs {
		if p.Kind == model.KindGame {
			gameIdx = i
		}
	}
	if gameIdx < 0 {
		t.Fatal("no game programme emitted")
	}
	g := progs[gameIdx]
	if !g.StopUTC.Equal(time.Date(2026, 1, 16, 1, 30, 0, 0, time.UTC)) {
		t.Errorf("game stops %s, want 01:30 next day", g.StopUTC)
	}

	next := progs[gameIdx+1]
	if next.Kind != model.KindPostgame {
		t.Errorf("programme after crossing game = %s, want postgame", next.Kind)
	}
	if !next.StartUTC.Equal(g.StopUTC) {
		t.Errorf("postgame starts %s, want game end", next.StartUTC)
	}
	if !next.StopUTC.Equal(time.Date(2026, 1, 16, 2, 0, 0, 0, time.UTC)) {
		t.Errorf("postgame stops %s", next.StopUTC)
	}
	if progs[gameIdx+2].Kind != model.KindIdle {
		t.Errorf("programme after crossover postgame = %s, want idle", progs[gameIdx+2].Kind)
	}
}

func TestMidnightCrossoverIdle(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	game := scheduledGame("e1", time.Date(2026, 1, 15, 22, 30, 0, 0, time.UTC))
	in := testInput(now, 2, game)
	in.Template.MidnightCrossover = model.CrossoverIdle
	progs := Synthesize(in)
	assertContiguous(t, progs)

	for i, p := range progs {
		if p.Kind == model.KindGame {
			next := progs[i+1]
			if next.Kind != model.KindIdle {
				t.Errorf("programme after crossing game = %s, want idle", next.Kind)
			}
			if !next.StartUTC.Equal(time.Date(2026, 1, 16, 1, 30, 0, 0, time.UTC)) {
				t.Errorf("next-day idle starts %s, want 01:30", next.StartUTC)
			}
			return
		}
	}
	t.Fatal("no game programme emitted")
}

func TestMidnightCrossoverNone(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	crossing := scheduledGame("e1", time.Date(2026, 1, 15, 22, 30, 0, 0, time.UTC))
	nextDay := scheduledGame("e2", time.Date(2026, 1, 16, 19, 0, 0, 0, time.UTC))
	in := testInput(now, 2, crossing, nextDay)
	in.Template.MidnightCrossover = model.CrossoverNone
	progs := Synthesize(in)

	for i, p := range progs {
		if p.Kind != model.KindGame || p.StopUTC.Day() != 16 || p.StartUTC.Day() != 15 {
			continue
		}
		next := progs[i+1]
		if next.Kind != model.KindPregame {
			t.Errorf("programme after crossing game = %s, want next game's pregame", next.Kind)
		}
		if !next.StartUTC.Equal(time.Date(2026, 1, 16, 18, 30, 0, 0, time.UTC)) {
			t.Errorf("pregame starts %s, span after crossover must stay empty", next.StartUTC)
		}
		return
	}
	t.Fatal("crossing game programme not found")
}

func TestGameDurationModes(t *testing.T) {
	tests := []struct {
		mode    model.DurationMode
		custom  int
		sport   time.Duration
		wantLen time.Duration
	}{
		{model.DurationDefault, 0, 150 * time.Minute, 3 * time.Hour},
		{model.DurationSport, 0, 150 * time.Minute, 150 * time.Minute},
		{model.DurationCustom, 95, 150 * time.Minute, 95 * time.Minute},
		{model.DurationCustom, 0, 150 * time.Minute, 3 * time.Hour}, // unset custom falls back
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%d", tt.mode, tt.custom), func(t *testing.T) {
			now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
			game := scheduledGame("e1", time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
			in := testInput(now, 1, game)
			in.Template.GameDurationMode = tt.mode
			in.Template.CustomDurationMinutes = tt.custom
			in.SportDuration = tt.sport

			for _, p := range Synthesize(in) {
				if p.Kind == model.KindGame {
					if got := p.StopUTC.Sub(p.StartUTC); got != tt.wantLen {
						t.Errorf("game length = %s, want %s", got, tt.wantLen)
					}
					return
				}
			}
			t.Fatal("no game programme emitted")
		})
	}
}

func TestDoubleheaderCollidingSpans(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	first := scheduledGame("e1", time.Date(2026, 1, 15, 13, 0, 0, 0, time.UTC))
	second := scheduledGame("e2", time.Date(2026, 1, 15, 16, 0, 0, 0, time.UTC))
	in := testInput(now, 1, first, second)
	in.Template.GameDurationMode = model.DurationCustom
	in.Template.CustomDurationMinutes = 210

	progs := Synthesize(in)
	assertNonOverlapping(t, progs)
	assertContiguous(t, progs)

	var games []model.Programme
	for _, p := range progs {
		if p.Kind == model.KindGame {
			games = append(games, p)
		}
	}
	if len(games) != 2 {
		t.Fatalf("got %d game programmes, want 2: %v", len(games), kinds(progs))
	}
	if !games[0].StopUTC.Equal(games[1].StartUTC) {
		t.Errorf("first game stops %s, want cut to second game's start %s",
			games[0].StopUTC, games[1].StartUTC)
	}
	if !games[1].StartUTC.Equal(time.Date(2026, 1, 15, 16, 0, 0, 0, time.UTC)) {
		t.Errorf("second game starts %s, want its real start", games[1].StartUTC)
	}
	if !games[1].StopUTC.Equal(time.Date(2026, 1, 15, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("second game stops %s, want full span", games[1].StopUTC)
	}
}

func TestCrossingGameCollidingNextGame(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	late := scheduledGame("e1", time.Date(2026, 1, 15, 23, 0, 0, 0, time.UTC))
	early := scheduledGame("e2", time.Date(2026, 1, 16, 1, 0, 0, 0, time.UTC))
	in := testInput(now, 2, late, early)
	in.Template.GameDurationMode = model.DurationCustom
	in.Template.CustomDurationMinutes = 210

	progs := Synthesize(in)
	assertNonOverlapping(t, progs)

	var games []model.Programme
	for _, p := range progs {
		if p.Kind == model.KindGame {
			games = append(games, p)
		}
	}
	if len(games) != 2 {
		t.Fatalf("got %d game programmes, want 2: %v", len(games), kinds(progs))
	}
	if !games[0].StopUTC.Equal(time.Date(2026, 1, 16, 2, 30, 0, 0, time.UTC)) {
		t.Errorf("crossing game stops %s, want its full span", games[0].StopUTC)
	}
	if !games[1].StartUTC.Equal(games[0].StopUTC) {
		t.Errorf("second game starts %s, want deferred to the crossing game's end %s",
			games[1].StartUTC, games[0].StopUTC)
	}
}

func TestPostponedAndCancelledSkipped(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	postponed := scheduledGame("e1", time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC))
	postponed.State = model.StatePostponed
	cancelled := scheduledGame("e2", time.Date(2026, 1, 15, 21, 0, 0, 0, time.UTC))
	cancelled.State = model.StateCancelled

	progs := Synthesize(testInput(now, 1, postponed, cancelled))
	for _, p := range progs {
		if p.Kind != model.KindIdle {
			t.Errorf("postponed games must not produce %s programmes", p.Kind)
		}
	}
	assertContiguous(t, progs)
}

func TestGameStraddlingWindowEnd(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	game := scheduledGame("e1", time.Date(2026, 1, 15, 23, 0, 0, 0, time.UTC))
	progs := Synthesize(testInput(now, 1, game))

	last := progs[len(progs)-1]
	if last.Kind != model.KindGame {
		t.Fatalf("last programme = %s, want the straddling game", last.Kind)
	}
	if !last.StopUTC.Equal(time.Date(2026, 1, 16, 2, 0, 0, 0, time.UTC)) {
		t.Errorf("straddling game stops %s, want whole programme past window end", last.StopUTC)
	}
}

func TestIdleCountdownAcrossDays(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	game := scheduledGame("e1", time.Date(2026, 1, 17, 19, 0, 0, 0, time.UTC))
	progs := Synthesize(testInput(now, 2, game))
	assertContiguous(t, progs)

	if progs[0].Description != "2 days" {
		t.Errorf("day-one chunk description = %q, want countdown 2", progs[0].Description)
	}
	for _, p := range progs {
		if p.StartUTC.Day() == 16 {
			if p.Description != "1 days" {
				t.Errorf("day-two chunk description = %q, want countdown 1", p.Description)
			}
			return
		}
	}
	t.Fatal("no second-day chunk found")
}

func TestConditionalPostgameDescription(t *testing.T) {
	now := time.Date(2026, 1, 15, 20, 0, 0, 0, time.UTC)

	in := testInput(now, 1, finalGame("e1", time.Date(2026, 1, 15, 13, 0, 0, 0, time.UTC), 118, 112))
	in.Template.PostgameConditional = true
	in.Template.PostgameFinalDesc = "Recap: {final_score.last}"
	in.Template.PostgameNotFinalDesc = "Stay tuned for the final score"

	for _, p := range Synthesize(in) {
		if p.Kind == model.KindPostgame {
			if p.Description != "Recap: 118-112" {
				t.Errorf("postgame after final = %q, want recap variant", p.Description)
			}
			return
		}
	}
	t.Fatal("no postgame programme emitted")
}

func TestConditionalPostgameNotFinal(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)

	in := testInput(now, 1, scheduledGame("e1", time.Date(2026, 1, 15, 13, 0, 0, 0, time.UTC)))
	in.Template.PostgameConditional = true
	in.Template.PostgameFinalDesc = "Recap: {final_score.last}"
	in.Template.PostgameNotFinalDesc = "Stay tuned for the final score"

	for _, p := range Synthesize(in) {
		if p.Kind == model.KindPostgame {
			if p.Description != "Stay tuned for the final score" {
				t.Errorf("postgame before final = %q, want not-final variant", p.Description)
			}
			return
		}
	}
	t.Fatal("no postgame programme emitted")
}

func TestFillersDisabled(t *testing.T) {
	now := time.Date(2026, 1, 15, 6, 0, 0, 0, time.UTC)
	game := scheduledGame("e1", time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC))
	in := testInput(now, 1, game)
	in.Template.PregameEnabled = false
	in.Template.PostgameEnabled = false
	in.Template.IdleEnabled = false

	progs := Synthesize(in)
	if len(progs) != 1 || progs[0].Kind != model.KindGame {
		t.Errorf("with fillers disabled, want single game programme, got %v", kinds(progs))
	}
}
