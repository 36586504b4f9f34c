package enrich

import (
	"testing"
	"time"

	"github.com/teamarr/teamarr/internal/model"
)

func intp(v int) *int { return &v }

// game builds a completed or scheduled event for the walk tests.
// teamHome controls whether team "1" hosts.
func game(day int, teamHome bool, teamScore, oppScore *int) model.Event {
	ev := model.Event{
		ID:       time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC).Format("20060102"),
		StartUTC: time.Date(2026, 1, day, 0, 0, 0, 0, time.UTC),
		State:    model.StateScheduled,
	}
	team := model.Side{TeamID: "1", Abbrev: "BOS", Score: teamScore}
	opp := model.Side{TeamID: "2", Abbrev: "MIA", Score: oppScore}
	if teamScore != nil && oppScore != nil {
		ev.State = model.StateFinal
	}
	if teamHome {
		ev.Home, ev.Away = team, opp
	} else {
		ev.Home, ev.Away = opp, team
	}
	return ev
}

func TestComputeStreaks(t *testing.T) {
	events := []model.Event{
		game(1, true, intp(100), intp(90)),  // W home
		game(2, false, intp(95), intp(99)),  // L away
		game(3, true, intp(110), intp(105)), // W home
		game(4, false, intp(88), intp(80)),  // W away
		game(5, true, intp(120), intp(101)), // W home
		game(6, true, nil, nil),             // scheduled, ignored
	}

	st := ComputeStreaks(events, "1")
	if st.Streak != "W3" {
		t.Errorf("streak = %q, want W3", st.Streak)
	}
	if st.HomeStreak != "W2" {
		t.Errorf("home streak = %q, want W2", st.HomeStreak)
	}
	if st.AwayStreak != "W1" {
		t.Errorf("away streak = %q, want W1", st.AwayStreak)
	}
	if st.Last5Record != "4-1" {
		t.Errorf("last5 = %q, want 4-1", st.Last5Record)
	}
	if st.Last10Record != "4-1" {
		t.Errorf("last10 = %q, want 4-1", st.Last10Record)
	}
	if st.RecentForm != "WLWWW" {
		t.Errorf("form = %q, want WLWWW", st.RecentForm)
	}
	if n := StreakCount(events, "1"); n != 3 {
		t.Errorf("signed streak = %d, want 3", n)
	}
}

func TestComputeStreaksLosing(t *testing.T) {
	events := []model.Event{
		game(1, true, intp(100), intp(90)),
		game(2, false, intp(95), intp(99)),
		game(3, true, intp(101), intp(105)),
	}
	st := ComputeStreaks(events, "1")
	if st.Streak != "L2" {
		t.Errorf("streak = %q, want L2", st.Streak)
	}
	if n := StreakCount(events, "1"); n != -2 {
		t.Errorf("signed streak = %d, want -2", n)
	}
}

func TestComputeStreaksEmpty(t *testing.T) {
	st := ComputeStreaks(nil, "1")
	if st.Streak != "" || st.Last5Record != "" || st.RecentForm != "" {
		t.Errorf("empty walk produced %+v", st)
	}
	// only scheduled games
	st = ComputeStreaks([]model.Event{game(1, true, nil, nil)}, "1")
	if st.Streak != "" {
		t.Errorf("streak = %q", st.Streak)
	}
}

func TestComputeStreaksTieRecord(t *testing.T) {
	events := []model.Event{
		game(1, true, intp(2), intp(2)),
		game(2, true, intp(3), intp(1)),
	}
	st := ComputeStreaks(events, "1")
	if st.Last5Record != "1-0-1" {
		t.Errorf("last5 = %q, want 1-0-1", st.Last5Record)
	}
	if st.Streak != "W1" {
		t.Errorf("streak = %q, want W1", st.Streak)
	}
}

func TestComputeStreaksUnsortedInput(t *testing.T) {
	events := []model.Event{
		game(5, true, intp(120), intp(101)), // newest first on purpose
		game(1, true, intp(90), intp(100)),
		game(3, true, intp(110), intp(105)),
	}
	st := ComputeStreaks(events, "1")
	if st.Streak != "W2" {
		t.Errorf("streak = %q, want W2 (walk must sort chronologically)", st.Streak)
	}
}
