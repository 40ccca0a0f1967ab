// Command arenasim runs a tribute arena contest, either headless to the
// end or served over HTTP while a runner plays it out.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/talgya/tribute-arena/internal/api"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/config"
	"github.com/talgya/tribute-arena/internal/engine"
	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/persistence"
	"github.com/talgya/tribute-arena/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML settings file (defaults when empty)")
	serve := flag.Bool("serve", false, "serve the contest over HTTP instead of running headless")
	interval := flag.Duration("interval", 5*time.Second, "delay between steps at speed 1 when serving")
	fresh := flag.Bool("fresh", false, "discard any archived contest and reap a new one")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// ── Catalog ───────────────────────────────────────────────────────
	cat, err := catalog.Load(cfg.CatalogPacks...)
	if err != nil {
		slog.Error("failed to load catalog packs", "error", err)
		os.Exit(1)
	}
	if findings := catalog.Lint(cat); len(findings) > 0 {
		for _, f := range findings {
			slog.Warn("catalog problem", "finding", f.String())
		}
	}
	slog.Info("catalog ready", "packs", len(cfg.CatalogPacks))

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Load or Reap Contest ──────────────────────────────────────────
	sim := engine.NewSimulator(cat, world.NewArena(cfg.MapRadius), entropy.New())
	sim.InventoryCap = cfg.InventoryCapacity
	settings := cfg.Settings()

	game, err := loadOrReap(db, sim, settings, *fresh)
	if err != nil {
		slog.Error("failed to prepare contest", "error", err)
		os.Exit(1)
	}
	state := game.State()
	slog.Info("contest ready", "stage", state.Stage.String(), "day", state.Day, "alive", state.Alive)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*serve {
		runHeadless(ctx, game)
		return
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.AdminKey == "" {
		slog.Warn(config.AdminKeyEnv + " not set, admin POST endpoints will be disabled")
	}
	game.SetSubscriberLimit(64)
	runner := engine.NewRunner(game, *interval)
	server := &api.Server{
		Game:     game,
		Runner:   runner,
		DB:       db,
		Port:     cfg.APIPort,
		AdminKey: cfg.AdminKey,
	}
	server.Start(ctx)

	// ── Start ─────────────────────────────────────────────────────────
	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("runner stopped", "error", err)
			return
		}
		if w := game.State().Winner; w != "" {
			slog.Info("contest finished, still serving", "winner", w, "steps", runner.Steps())
		}
	}()

	<-ctx.Done()
	slog.Info("received signal, shutting down")
	fmt.Println("Arena closed.")
}

// loadOrReap resumes the archived contest unless it is finished or a
// fresh one was asked for.
func loadOrReap(db *persistence.DB, sim *engine.Simulator, settings engine.Settings, fresh bool) (*engine.Game, error) {
	if !fresh && db.HasGame() {
		slog.Info("found archived contest, loading...")
		saved, err := db.LoadGame()
		if err != nil {
			return nil, err
		}
		game, err := engine.RestoreGame(sim, settings, db, saved)
		if err != nil {
			return nil, err
		}
		if game.State().Stage != engine.StageWinner {
			return game, nil
		}
		slog.Info("archived contest already has a victor, reaping a new one")
	}

	if err := db.Reset(); err != nil {
		return nil, fmt.Errorf("reset archive: %w", err)
	}
	return engine.NewGame(sim, settings, db), nil
}

// runHeadless plays the contest to the end, printing the narrative as it
// unfolds and the final standings after.
func runHeadless(ctx context.Context, game *engine.Game) {
	printed := len(game.Logs())
	for {
		_, err := game.Advance(ctx)
		logs := game.Logs()
		for _, e := range logs[printed:] {
			printEntry(e)
		}
		printed = len(logs)

		if errors.Is(err, engine.ErrGameOver) {
			break
		}
		if err != nil {
			slog.Error("contest interrupted", "error", err)
			return
		}
	}
	printSummary(game.Summary())
}

func printEntry(e engine.LogEntry) {
	label := e.PhaseName
	if e.Day > 0 {
		label = fmt.Sprintf("%s %d", e.PhaseName, e.Day)
	}
	fmt.Printf("[%s] %s\n", label, e.Text)
	for _, name := range e.DeathNames {
		fmt.Printf("        * cannon: %s\n", name)
	}
}

func printSummary(s engine.Summary) {
	fmt.Println()
	if s.Winner != nil {
		fmt.Printf("%s of District %d is the victor after %s.\n",
			s.Winner.Name, s.Winner.District, english.Plural(s.Days, "day", ""))
	} else {
		fmt.Println("The arena claimed everyone.")
	}
	fmt.Printf("%s fell across %s of narrative.\n",
		english.Plural(s.Deaths, "tribute", ""), english.Plural(s.Events, "event", ""))
	if s.TopKiller != nil {
		fmt.Printf("Most lethal: %s with %s.\n", s.TopKiller.Name, english.Plural(s.TopKiller.KillCount, "kill", ""))
	}

	fmt.Println()
	for i, t := range s.Ranking {
		fate := "Victor"
		if !t.Alive() {
			fate = t.DeathCause
			if t.KillerName != "" {
				fate += " (" + t.KillerName + ")"
			}
		}
		fmt.Printf("%6s  %-24s D%-3d %-9s %s\n",
			humanize.Ordinal(i+1), t.Name, t.District, humanize.Comma(int64(t.KillCount))+" kills", fate)
	}
}
