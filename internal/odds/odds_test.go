package odds

import (
	"testing"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/world"
)

func roster(t *testing.T) agents.Roster {
	t.Helper()
	return agents.NewSpawner(entropy.Seeded(11), world.NewArena(world.DefaultRadius)).InitializeRoster()
}

func TestLabel(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0.9, "Evens"},
		{0.30, "Evens"},
		{0.25, "2/1"},
		{0.12, "5/1"},
		{0.055, "12/1"},
		{0.015, "50/1"},
		{0.0, "75/1"},
	}
	for _, tt := range tests {
		if got := Label(tt.rate); got != tt.want {
			t.Fatalf("Label(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestPower(t *testing.T) {
	tr := &agents.Tribute{Traits: []agents.Trait{agents.TraitTrained, agents.TraitRuthless}}
	tr.Stats.WeaponSkill = 20
	if got := Power(tr); got != 105 {
		t.Fatalf("Power = %v, want 105", got)
	}
}

func TestEstimateEliminated(t *testing.T) {
	r := roster(t)
	r[0].Kill("test", nil)
	if got := Estimate(r[0], r, 50, entropy.Seeded(1)); got != Eliminated {
		t.Fatalf("Estimate(dead) = %q", got)
	}
}

func TestEstimateLastStanding(t *testing.T) {
	r := roster(t)
	for _, tr := range r[1:] {
		tr.Kill("test", nil)
	}
	if got := Estimate(r[0], r, 50, entropy.Seeded(1)); got != "Evens" {
		t.Fatalf("Estimate(sole survivor) = %q", got)
	}
}

func TestEstimateFavoursTheStrong(t *testing.T) {
	strong := &agents.Tribute{ID: "strong", Status: agents.StatusAlive,
		Traits: []agents.Trait{agents.TraitTrained, agents.TraitRuthless, agents.TraitSharpshooter}}
	strong.Stats.WeaponSkill = 100
	weak := &agents.Tribute{ID: "weak", Status: agents.StatusAlive}
	r := agents.Roster{strong, weak}

	if got := Estimate(strong, r, 400, entropy.Seeded(3)); got != "Evens" {
		t.Fatalf("strong favourite got %q", got)
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	r := roster(t)
	first := Recalculate(r, 100)
	second := Recalculate(r, 100)
	for i := range first {
		if first[i].Odds != second[i].Odds {
			t.Fatalf("%s: %q then %q", first[i].ID, first[i].Odds, second[i].Odds)
		}
		if first[i].Odds == "" {
			t.Fatalf("%s has no label", first[i].ID)
		}
	}
}

func TestRecalculateDoesNotMutate(t *testing.T) {
	r := roster(t)
	for _, tr := range r {
		tr.Odds = "untouched"
	}
	_ = Recalculate(r, 50)
	for _, tr := range r {
		if tr.Odds != "untouched" {
			t.Fatalf("input %s relabelled to %q", tr.ID, tr.Odds)
		}
	}
}

func TestFingerprintTracksChanges(t *testing.T) {
	r := roster(t)
	before := Fingerprint(r)
	r[3].Inventory = append(r[3].Inventory, "Sword")
	if Fingerprint(r) == before {
		t.Fatalf("fingerprint ignored an inventory change")
	}
}
