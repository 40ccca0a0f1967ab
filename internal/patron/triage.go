package patron

import (
	"slices"
	"sort"
)

// Need is one tribute's most pressing want.
type Need struct {
	TributeID string
	Name      string
	Item      string
	Urgency   int // 0–120
}

// Thresholds at which a vital becomes a need.
const (
	criticalHealth = 30
	woundedHealth  = 60
	starvingHunger = 70
	thirstyHunger  = 50
)

// Triage ranks the living tributes by how badly they need a gift, most
// urgent first. Tributes whose packs are full or who already carry the
// remedy are left out. Runs before any decision and costs nothing.
func Triage(snap *Snapshot, capacity int) []Need {
	var needs []Need
	for _, t := range snap.Tributes {
		if t.Status == "Dead" || len(t.Inventory) >= capacity {
			continue
		}
		if n, ok := mostPressing(t); ok {
			needs = append(needs, n)
		}
	}
	sort.SliceStable(needs, func(i, j int) bool {
		return needs[i].Urgency > needs[j].Urgency
	})
	return needs
}

func mostPressing(t TributeInfo) (Need, bool) {
	has := func(item string) bool { return slices.Contains(t.Inventory, item) }
	var best Need
	consider := func(item string, urgency int) {
		if has(item) || urgency <= best.Urgency {
			return
		}
		best = Need{TributeID: t.ID, Name: t.Name, Item: item, Urgency: urgency}
	}

	s := t.Stats
	if s.Health < criticalHealth {
		consider("Medicine", 120-s.Health)
	}
	if s.Health < woundedHealth && !has("Medicine") {
		consider("Bandages", 100-s.Health)
	}
	if s.Hunger >= starvingHunger {
		consider("Food", s.Hunger)
	}
	if s.Hunger >= thirstyHunger && !has("Food") {
		consider("Water", s.Hunger-10)
	}
	return best, best.Item != ""
}
