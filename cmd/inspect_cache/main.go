// Dumps the persistent cache state: configured teams, the soccer
// league index, and recent generation history.
package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/teamarr/teamarr/internal/config"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
)

func main() {
	teamID := flag.String("team", "", "print the soccer competitions a team id is indexed in")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel("warn"))

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		telemetry.Errorf("Store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	if *teamID != "" {
		leagues, err := st.SoccerLeaguesForTeam(*teamID)
		if err != nil {
			telemetry.Errorf("Index lookup: %v", err)
			os.Exit(1)
		}
		for _, l := range leagues {
			telemetry.Plainf("%-24s %-32s [%s]", l.Slug, l.Name, strings.Join(l.Tags, ","))
		}
		telemetry.Plainf("%d competitions", len(leagues))
		return
	}

	teams, err := st.ActiveTeams()
	if err != nil {
		telemetry.Errorf("Teams: %v", err)
		os.Exit(1)
	}
	telemetry.Plainf("Teams (%d active):", len(teams))
	for _, t := range teams {
		telemetry.Plainf("  %-28s %-10s %s", t.Name, t.League, t.ChannelID())
	}

	count, _ := st.SoccerLeagueCount()
	if age, ok := st.SoccerCacheAge(); ok {
		telemetry.Plainf("Soccer index: %s leagues, refreshed %s ago", humanize.Comma(int64(count)), age.Round(time.Minute))
	} else {
		telemetry.Plainf("Soccer index: never built")
	}

	runs, err := st.RecentRuns(5)
	if err != nil {
		telemetry.Errorf("History: %v", err)
		os.Exit(1)
	}
	telemetry.Plainf("Recent runs:")
	for _, r := range runs {
		telemetry.Plainf("  %s  %d channels, %s programmes (%d games), %d errors",
			r.StartedAt.Format("2006-01-02 15:04"),
			r.NumChannels, humanize.Comma(int64(r.NumPrograms)), r.NumGames, r.NumErrors)
	}
}
