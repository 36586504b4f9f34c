package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teamarr/teamarr/internal/config"
	"github.com/teamarr/teamarr/internal/espn"
	"github.com/teamarr/teamarr/internal/events"
	"github.com/teamarr/teamarr/internal/orchestrator"
	"github.com/teamarr/teamarr/internal/soccer"
	"github.com/teamarr/teamarr/internal/statusfeed"
	"github.com/teamarr/teamarr/internal/store"
	"github.com/teamarr/teamarr/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting teamarr")

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
	bus := events.NewBus()
	orch := orchestrator.New(cfg, sports, st, client, refresher, bus)

	// ── Status feed + HTTP control surface ──────────────────────
	feed := statusfeed.NewServer(bus, orch.StatusSnapshot)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", feed.HandleWS)
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(orch.Status())
	})
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		go func() {
			if _, err := orch.GenerateEPG(context.Background(), orchestrator.RunOptions{}); err != nil {
				telemetry.Warnf("Triggered run: %v", err)
			}
		}()
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := fmt.Sprintf("%s:%d", cfg.StatusHost, cfg.StatusPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Errorf("HTTP server: %v", err)
			os.Exit(1)
		}
	}()
	telemetry.Infof("Status feed listening on %q", addr)

	// ── Scheduled generation ────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if _, err := orch.GenerateEPG(ctx, orchestrator.RunOptions{}); err != nil {
			telemetry.Warnf("Initial run: %v", err)
		}

		ticker := time.NewTicker(cfg.GenerateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := orch.GenerateEPG(ctx, orchestrator.RunOptions{}); err != nil {
					telemetry.Warnf("Scheduled run: %v", err)
				}
			}
		}
	}()

	// ── Shutdown ────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	telemetry.Infof("Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)

	telemetry.Infof("Shutdown complete  runs=%d  teams=%d  programmes=%d  cache_hits=%d  upstream_failures=%d",
		telemetry.Metrics.RunsCompleted.Value(),
		telemetry.Metrics.TeamsProcessed.Value(),
		telemetry.Metrics.ProgrammesEmitted.Value(),
		telemetry.Metrics.CacheHits.Value(),
		telemetry.Metrics.UpstreamFailures.Value(),
	)
}
