// Rebuilds the soccer league reverse index from scratch: crawls every
// ESPN soccer competition and rewrites the membership rows.
package main

import (
	"context"
	"os"

	"github.com/teamarr/teamarr/internal/config"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/soccer"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		telemetry.Errorf("Store: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	refresher := soccer.NewRefresher(espn.NewClient(), st, cfg.SoccerRefreshWorkers)
	if _, err := refresher.Refresh(context.Background()); err != nil {
		telemetry.Errorf("Soccer refresh failed: %v", err)
		os.Exit(1)
	}
}
