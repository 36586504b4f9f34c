// Follows a running daemon's status feed and prints generation
// progress as it happens.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teamarr/teamarr/internal/events"
	"github.com/teamarr/teamarr/internal/statusfeed"
	"github.com/teamarr/teamarr/internal/telemetry"
)

func main() {
	addr := flag.String("addr", "localhost:9195", "daemon status feed address")
	flag.Parse()

	telemetry.Init(telemetry.ParseLogLevel("info"))

	bus := events.NewBus()
	bus.SubscribeAll(func(e events.Event) error {
		switch p := e.Payload.(type) {
		case events.RunStarted:
			telemetry.Plainf("run %s started: %d teams, %d days", p.RunID, p.TeamCount, p.DaysAhead)
		case events.TeamProgress:
			if p.Error != "" {
				telemetry.Plainf("[%d/%d] %s (%s) FAILED: %s", p.Done, p.Total, p.TeamName, p.League, p.Error)
			} else {
				telemetry.Plainf("[%d/%d] %s (%s): %d programmes", p.Done, p.Total, p.TeamName, p.League, p.Programmes)
			}
		case events.RunFinished:
			if p.Error != "" {
				telemetry.Plainf("run %s failed: %s", p.RunID, p.Error)
			} else {
				telemetry.Plainf("run %s done: %d channels, %d programmes, %d failed -> %s",
					p.RunID, p.Teams, p.Programmes, p.Failed, p.OutputPath)
			}
		case events.SoccerRefresh:
			telemetry.Plainf("soccer refresh: %d leagues, %d teams, %d failed", p.Leagues, p.Teams, p.Failed)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	go statusfeed.NewClient(*addr, bus).ConnectWithRetry(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
}
