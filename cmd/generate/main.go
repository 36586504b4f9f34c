// One-shot generation: build the guide once and exit. Useful from cron
// or while iterating on templates.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/teamarr/teamarr/internal/config"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/events"
	"github.com/teamarr/teamarr/internal/orchestrator"
	"github.com/teamarr/teamarr/internal/soccer"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
)

func main() {
	days := flag.Int("days", 0, "override the stored lookahead window")
	tz := flag.String("tz", "", "override the stored timezone")
	flag.Parse()

	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	sports, err := config.LoadSports(cfg.SportsConfigPath)
	if err != nil {
		telemetry.Errorf("Sports config: %v", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		telemetry.Errorf("Store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	client := espn.NewClient()
	refresher := soccer.NewRefresher(client, st, cfg.SoccerRefreshWorkers)
	orch := orchestrator.New(cfg, sports, st, client, refresher, events.NewBus())

	res, err := orch.GenerateEPG(context.Background(), orchestrator.RunOptions{DaysAhead: *days, Timezone: *tz})
	if err != nil {
		telemetry.Errorf("Generation failed: %v", err)
		os.Exit(1)
	}
	telemetry.Infof("Wrote %d channels, %d programmes to %s (%d failed)",
		res.Teams, res.Total, res.OutputPath, res.Failed)
}
