package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
)

type memArchive struct {
	roster agents.Roster
	rounds []RoundHistory
	meta   map[string]string
}

func (m *memArchive) SaveRoster(r agents.Roster) error {
	m.roster = r.Clone()
	return nil
}

func (m *memArchive) SaveRound(round RoundHistory) error {
	m.rounds = append(m.rounds, round)
	return nil
}

func (m *memArchive) SaveMeta(meta map[string]string) error {
	m.meta = meta
	return nil
}

func testSettings() Settings {
	s := DefaultSettings()
	s.OddsSimulations = 20
	s.WeatherSeed = 99
	return s
}

func playToEnd(t *testing.T, g *Game) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 500; i++ {
		stage, err := g.Advance(ctx)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		if stage == StageWinner {
			return
		}
	}
	t.Fatalf("no winner after 500 steps: %+v", g.State())
}

func TestGameProgression(t *testing.T) {
	g := NewGame(quietSim(21, catalog.Builtin()), testSettings(), nil)
	ctx := context.Background()

	steps := []Stage{StageTraining, StageBloodbath}
	for _, want := range steps {
		got, err := g.Advance(ctx)
		if err != nil || got != want {
			t.Fatalf("Advance = %v, %v; want %v", got, err, want)
		}
	}
	if s := g.State(); s.Day != 1 || s.Rounds != 1 {
		t.Fatalf("after training: %+v", s)
	}

	// The bloodbath almost always claims someone; either way day 1 follows.
	stage, _ := g.Advance(ctx)
	if stage == StageFallen {
		if g.State().Pending != StageDay {
			t.Fatalf("pending = %v", g.State().Pending)
		}
		stage, _ = g.Advance(ctx)
	}
	if stage != StageDay || g.State().Day != 1 {
		t.Fatalf("after bloodbath: %v %+v", stage, g.State())
	}
}

func TestGamePlaysToWinner(t *testing.T) {
	g := NewGame(quietSim(33, catalog.Builtin()), testSettings(), nil)
	playToEnd(t, g)

	s := g.State()
	if s.Alive > 1 {
		t.Fatalf("winner declared with %d alive", s.Alive)
	}
	if _, err := g.Advance(context.Background()); !errors.Is(err, ErrGameOver) {
		t.Fatalf("Advance after the end = %v", err)
	}

	sum := g.Summary()
	if len(sum.Ranking) != len(g.Tributes()) {
		t.Fatalf("ranking has %d of %d tributes", len(sum.Ranking), len(g.Tributes()))
	}
	if sum.Winner != nil && sum.Ranking[0].ID != sum.Winner.ID {
		t.Fatalf("winner not ranked first")
	}
	fallen := g.Fallen()
	if len(fallen) != sum.Deaths || len(fallen) < len(sum.Ranking)-1 {
		t.Fatalf("fallen = %d, deaths = %d", len(fallen), sum.Deaths)
	}
	last := fallen[len(fallen)-1]
	idx := 0
	if sum.Winner != nil {
		idx = 1
	}
	if sum.Ranking[idx].ID != last.ID {
		t.Fatalf("last to fall %s is not ranked right after the winner", last.ID)
	}
	if sum.TopKiller != nil {
		for _, tr := range sum.Ranking {
			if tr.KillCount > sum.TopKiller.KillCount {
				t.Fatalf("%s out-killed the top killer", tr.ID)
			}
		}
	}
}

func TestDeathsInterruptWithFallen(t *testing.T) {
	g := NewGame(quietSim(5, catalog.Builtin()), testSettings(), nil)
	ctx := context.Background()
	seenFallen := false
	for i := 0; i < 200 && g.State().Stage != StageWinner; i++ {
		before := g.State()
		stage, err := g.Advance(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if stage != StageFallen {
			continue
		}
		seenFallen = true
		after := g.State()
		if after.DaysSinceLastDeath != 0 {
			t.Fatalf("days since death = %d after deaths", after.DaysSinceLastDeath)
		}
		if before.Stage == StageNight && after.Day != before.Day+1 {
			t.Fatalf("night deaths did not advance the day: %d → %d", before.Day, after.Day)
		}
	}
	if !seenFallen {
		t.Fatalf("no phase ever produced deaths")
	}
}

func TestSponsor(t *testing.T) {
	g := NewGame(quietSim(8, catalog.Builtin()), testSettings(), nil)
	ctx := context.Background()
	id := g.Tributes()[0].ID

	if _, err := g.Sponsor(id, ""); !errors.Is(err, ErrNotInArena) {
		t.Fatalf("sponsor during reaping = %v", err)
	}
	g.Advance(ctx)
	g.Advance(ctx)

	if _, err := g.Sponsor("d13_m", ""); !errors.Is(err, ErrNoSuchTribute) {
		t.Fatalf("unknown tribute = %v", err)
	}
	if _, err := g.Sponsor(id, "Sword"); !errors.Is(err, ErrUnknownGift) {
		t.Fatalf("non-gift item = %v", err)
	}
	item, err := g.Sponsor(id, "medicne")
	if err != nil || item != "Medicine" {
		t.Fatalf("Sponsor(medicne) = %q, %v", item, err)
	}
	if !g.Tribute(id).HasItem("Medicine") {
		t.Fatalf("gift not delivered")
	}

	for i := 0; i < 3; i++ {
		if _, err := g.Sponsor(id, ""); err != nil {
			t.Fatalf("gift %d: %v", i+2, err)
		}
	}
	if _, err := g.Sponsor(id, ""); !errors.Is(err, ErrNoPoints) {
		t.Fatalf("fifth gift = %v", err)
	}
	if g.State().SponsorPoints != 0 {
		t.Fatalf("points = %d", g.State().SponsorPoints)
	}
}

func TestSubscribe(t *testing.T) {
	g := NewGame(quietSim(8, catalog.Builtin()), testSettings(), nil)
	g.SetSubscriberLimit(1)
	ch, cancel, err := g.Subscribe(64)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := g.Subscribe(1); !errors.Is(err, ErrNoSubscription) {
		t.Fatalf("second subscriber = %v", err)
	}

	g.Advance(context.Background())
	select {
	case e := <-ch:
		if e.Text != "The Tributes have been reaped. Let the training begin!" {
			t.Fatalf("entry = %q", e.Text)
		}
	default:
		t.Fatalf("no entry delivered")
	}

	cancel()
	cancel()
	if _, ok := <-ch; ok {
		t.Fatalf("channel still open after cancel")
	}
	if _, c2, err := g.Subscribe(1); err != nil {
		t.Fatalf("slot not released: %v", err)
	} else {
		c2()
	}
}

func TestArchiveAndRestore(t *testing.T) {
	archive := &memArchive{}
	sim := quietSim(12, catalog.Builtin())
	g := NewGame(sim, testSettings(), archive)
	for i := 0; i < 6; i++ {
		if _, err := g.Advance(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if len(archive.rounds) != len(g.History()) {
		t.Fatalf("archived %d rounds, game has %d", len(archive.rounds), len(g.History()))
	}

	restored, err := RestoreGame(sim, testSettings(), nil, Saved{Roster: archive.roster, Rounds: archive.rounds, Meta: archive.meta})
	if err != nil {
		t.Fatalf("RestoreGame: %v", err)
	}
	if got, want := restored.State(), g.State(); got != want {
		t.Fatalf("restored state = %+v, want %+v", got, want)
	}
	if len(restored.Fallen()) != len(g.Fallen()) || len(restored.Logs()) < len(g.History()) {
		t.Fatalf("fallen %d/%d", len(restored.Fallen()), len(g.Fallen()))
	}
}

func TestRestoreRejectsBadMeta(t *testing.T) {
	_, err := RestoreGame(quietSim(1, catalog.Builtin()), testSettings(), nil, Saved{
		Roster: reaped(1),
		Meta:   map[string]string{MetaStage: "Intermission"},
	})
	if err == nil {
		t.Fatalf("bad stage accepted")
	}
}

func TestStageText(t *testing.T) {
	for s := StageReaping; s <= StageWinner; s++ {
		b, _ := s.MarshalText()
		var back Stage
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Fatalf("%v round-tripped to %v (%v)", s, back, err)
		}
	}
}

func TestRunnerPlaysToWinner(t *testing.T) {
	g := NewGame(quietSim(44, catalog.Builtin()), testSettings(), nil)
	r := NewRunner(g, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if g.State().Stage != StageWinner || r.Steps() == 0 {
		t.Fatalf("stage = %v after %d steps", g.State().Stage, r.Steps())
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	g := NewGame(quietSim(44, catalog.Builtin()), testSettings(), nil)
	r := NewRunner(g, time.Hour)
	r.SetSpeed(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v", err)
	}
	if r.Steps() != 0 {
		t.Fatalf("paused runner advanced")
	}
}
