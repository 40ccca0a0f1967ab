package patron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/talgya/tribute-arena/internal/api"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/engine"
	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/world"
)

func tributeInfo(id string, health, hunger int, inventory ...string) TributeInfo {
	t := TributeInfo{ID: id, Name: id, Status: "Alive", Inventory: inventory}
	t.Stats.Health = health
	t.Stats.Hunger = hunger
	return t
}

func TestTriage(t *testing.T) {
	snap := &Snapshot{Tributes: []TributeInfo{
		tributeInfo("fine", 90, 10),
		tributeInfo("dying", 10, 20),
		tributeInfo("wounded", 50, 0),
		tributeInfo("starving", 80, 85),
		tributeInfo("hungry", 80, 55),
		tributeInfo("stocked", 10, 90, "Medicine", "Food"),
		tributeInfo("full", 5, 0, "Rock", "Rock", "Rope", "Knife"),
	}}

	got := Triage(snap, 4)
	want := []Need{
		{TributeID: "dying", Name: "dying", Item: "Medicine", Urgency: 110},
		{TributeID: "starving", Name: "starving", Item: "Food", Urgency: 85},
		{TributeID: "wounded", Name: "wounded", Item: "Bandages", Urgency: 50},
		{TributeID: "hungry", Name: "hungry", Item: "Water", Urgency: 45},
	}
	if len(got) != len(want) {
		t.Fatalf("Triage = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("need %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		stage  string
		points int
		tribs  []TributeInfo
		want   string
		giftTo string
	}{
		{"training", "Training", 100, []TributeInfo{tributeInfo("a", 5, 0)}, "none", ""},
		{"broke", "Day", 10, []TributeInfo{tributeInfo("a", 5, 0)}, "none", ""},
		{"healthy", "Night", 100, []TributeInfo{tributeInfo("a", 90, 0)}, "none", ""},
		{"below threshold", "Day", 100, []TributeInfo{tributeInfo("a", 55, 0)}, "none", ""},
		{"gift", "Fallen", 25, []TributeInfo{tributeInfo("a", 55, 0), tributeInfo("b", 15, 0)}, "gift", "b"},
	}
	for _, tt := range tests {
		snap := &Snapshot{Status: ContestStatus{Stage: tt.stage, SponsorPoints: tt.points}, Tributes: tt.tribs}
		d := Decide(snap, DefaultBudget())
		if d.Action != tt.want {
			t.Fatalf("%s: action = %s (%s)", tt.name, d.Action, d.Rationale)
		}
		if tt.giftTo != "" && (d.Gift == nil || d.Gift.TributeID != tt.giftTo || d.Gift.Item != "Medicine") {
			t.Fatalf("%s: gift = %+v", tt.name, d.Gift)
		}
	}
}

func TestObserveAndAct(t *testing.T) {
	sim := engine.NewSimulator(catalog.Builtin(), world.NewArena(world.DefaultRadius), entropy.Seeded(8))
	sim.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	settings := engine.DefaultSettings()
	settings.OddsSimulations = 20
	settings.WeatherSeed = 2
	game := engine.NewGame(sim, settings, nil)
	server := &api.Server{Game: game, AdminKey: "secret"}
	srv := httptest.NewServer(server.Handler())
	defer srv.Close()

	snap, err := NewObserver(srv.URL).Observe()
	if err != nil {
		t.Fatalf("Observe: %v", err)
	}
	if snap.Status.Stage != "Reaping" || len(snap.Tributes) != 24 || snap.Status.SponsorPoints != 100 {
		t.Fatalf("snapshot = %+v with %d tributes", snap.Status, len(snap.Tributes))
	}

	actor := NewActor(srv.URL, "secret")
	target := snap.Tributes[0].ID
	_, err = actor.Act(&Gift{TributeID: target, Item: "Water"})
	var status *StatusError
	if !errors.As(err, &status) || status.Code != http.StatusConflict {
		t.Fatalf("gift before the games = %v", err)
	}

	game.Advance(context.Background())
	game.Advance(context.Background())
	res, err := actor.Act(&Gift{TributeID: target, Item: "Water"})
	if err != nil {
		t.Fatalf("Act: %v", err)
	}
	if res.Item != "Water" || res.SponsorPoints != 75 {
		t.Fatalf("result = %+v", res)
	}

	_, err = NewActor(srv.URL, "wrong").Act(&Gift{TributeID: target})
	if !errors.As(err, &status) || status.Code != http.StatusUnauthorized || !strings.Contains(err.Error(), "unauthorized") {
		t.Fatalf("wrong key = %v", err)
	}
}
