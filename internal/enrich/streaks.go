package enrich

import (
	"fmt"
	"sort"

	"github.com/teamarr/teamarr/internal/model"
)

type outcome byte

const (
	outcomeWin  outcome = 'W'
	outcomeLoss outcome = 'L'
	outcomeTie  outcome = 'T'
)

// completedOutcomes walks the team's completed games in chronological
// order and returns one outcome per game. Games the team is not in, or
// without both scores, are ignored.
func completedOutcomes(events []model.Event, teamID string) []struct {
	out  outcome
	home bool
} {
	sorted := make([]model.Event, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartUTC.Before(sorted[j].StartUTC) })

	var walk []struct {
		out  outcome
		home bool
	}
	for i := range sorted {
		ev := &sorted[i]
		if !ev.Final() {
			continue
		}
		own, opp, home, ok := ev.SideFor(teamID)
		if !ok || own.Score == nil || opp.Score == nil {
			continue
		}
		var o outcome
		switch {
		case *own.Score > *opp.Score:
			o = outcomeWin
		case *own.Score < *opp.Score:
			o = outcomeLoss
		default:
			o = outcomeTie
		}
		walk = append(walk, struct {
			out  outcome
			home bool
		}{o, home})
	}
	return walk
}

// ComputeStreaks derives the recent-results view from a team's events.
func ComputeStreaks(events []model.Event, teamID string) model.Streaks {
	walk := completedOutcomes(events, teamID)

	all := make([]outcome, len(walk))
	var home, away []outcome
	for i, w := range walk {
		all[i] = w.out
		if w.home {
			home = append(home, w.out)
		} else {
			away = append(away, w.out)
		}
	}

	return model.Streaks{
		Streak:       terminalRun(all),
		HomeStreak:   terminalRun(home),
		AwayStreak:   terminalRun(away),
		Last5Record:  lastNRecord(all, 5),
		Last10Record: lastNRecord(all, 10),
		RecentForm:   recentForm(all, 5),
	}
}

// StreakCount returns the signed terminal run: +3 for W3, -2 for L2,
// 0 for no completed games or a tie-terminated run.
func StreakCount(events []model.Event, teamID string) int {
	walk := completedOutcomes(events, teamID)
	all := make([]outcome, len(walk))
	for i, w := range walk {
		all[i] = w.out
	}
	return signedRun(all)
}

func signedRun(outs []outcome) int {
	if len(outs) == 0 {
		return 0
	}
	last := outs[len(outs)-1]
	if last == outcomeTie {
		return 0
	}
	n := 0
	for i := len(outs) - 1; i >= 0 && outs[i] == last; i-- {
		n++
	}
	if last == outcomeLoss {
		return -n
	}
	return n
}

func terminalRun(outs []outcome) string {
	n := signedRun(outs)
	switch {
	case n > 0:
		return fmt.Sprintf("W%d", n)
	case n < 0:
		return fmt.Sprintf("L%d", -n)
	}
	return ""
}

func lastNRecord(outs []outcome, n int) string {
	if len(outs) == 0 {
		return ""
	}
	if len(outs) > n {
		outs = outs[len(outs)-n:]
	}
	var w, l, t int
	for _, o := range outs {
		switch o {
		case outcomeWin:
			w++
		case outcomeLoss:
			l++
		case outcomeTie:
			t++
		}
	}
	if t > 0 {
		return fmt.Sprintf("%d-%d-%d", w, l, t)
	}
	return fmt.Sprintf("%d-%d", w, l)
}

// recentForm renders the last n outcomes as a W/L string, newest last.
func recentForm(outs []outcome, n int) string {
	if len(outs) == 0 {
		return ""
	}
	if len(outs) > n {
		outs = outs[len(outs)-n:]
	}
	b := make([]byte, len(outs))
	for i, o := range outs {
		b[i] = byte(o)
	}
	return string(b)
}
