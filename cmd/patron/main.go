// Command patron runs an autonomous sponsor for a served contest.
// It observes the contest, decides whether a tribute needs a gift,
// and sends it via the admin sponsor API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/tribute-arena/internal/config"
	"github.com/talgya/tribute-arena/internal/patron"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment.
	apiURL := envOrDefault("ARENA_API_URL", "http://localhost:8080")
	adminKey := os.Getenv(config.AdminKeyEnv)
	intervalSec := envIntOrDefault("PATRON_INTERVAL", 30)

	if adminKey == "" {
		slog.Error(config.AdminKeyEnv + " is required")
		os.Exit(1)
	}

	budget := patron.DefaultBudget()
	budget.Cost = envIntOrDefault("PATRON_GIFT_COST", budget.Cost)
	budget.Capacity = envIntOrDefault("PATRON_CAPACITY", budget.Capacity)
	budget.MinUrgency = envIntOrDefault("PATRON_MIN_URGENCY", budget.MinUrgency)
	interval := time.Duration(intervalSec) * time.Second

	slog.Info("patron starting",
		"api_url", apiURL,
		"interval", interval,
		"min_urgency", budget.MinUrgency,
	)

	observer := patron.NewObserver(apiURL)
	actor := patron.NewActor(apiURL, adminKey)

	slog.Info("waiting for arena API...")
	waitForAPI(apiURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if done := runCycle(ctx, observer, actor, budget); done {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if done := runCycle(ctx, observer, actor, budget); done {
				return
			}
		case <-ctx.Done():
			slog.Info("received signal, shutting down")
			fmt.Println("Patron stopped.")
			return
		}
	}
}

// runCycle executes one observe → decide → act cycle. It reports whether
// the contest has ended.
func runCycle(ctx context.Context, observer *patron.Observer, actor *patron.Actor, budget patron.Budget) bool {
	snap, err := observer.ObserveContext(ctx)
	if err != nil {
		slog.Error("observation failed", "error", err)
		return false
	}
	if snap.Status.Winner != "" {
		slog.Info("contest over, nothing left to sponsor", "winner", snap.Status.Winner)
		return true
	}
	slog.Info("observation complete",
		"stage", snap.Status.Stage,
		"day", snap.Status.Day,
		"alive", snap.Status.Alive,
		"points", snap.Status.SponsorPoints,
	)

	decision := patron.Decide(snap, budget)
	slog.Info("decision made", "action", decision.Action, "rationale", decision.Rationale)
	if decision.Gift == nil {
		return false
	}

	result, err := actor.ActContext(ctx, decision.Gift)
	if err != nil {
		slog.Error("gift failed", "error", err)
		return false
	}
	slog.Info("gift delivered",
		"tribute", result.TributeID,
		"item", result.Item,
		"points_left", result.SponsorPoints,
	)
	return false
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

// waitForAPI polls the status endpoint with exponential backoff until it
// responds. Exits after 5 minutes if the API never becomes ready.
func waitForAPI(apiURL string) {
	backoff := 2 * time.Second
	maxBackoff := 30 * time.Second
	deadline := time.Now().Add(5 * time.Minute)

	for {
		resp, err := http.Get(apiURL + "/api/v1/status")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				slog.Info("arena API is ready")
				return
			}
		}
		if time.Now().After(deadline) {
			slog.Error("arena API did not become ready within 5 minutes")
			os.Exit(1)
		}
		slog.Info("arena not ready, retrying...", "backoff", backoff)
		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}
}
