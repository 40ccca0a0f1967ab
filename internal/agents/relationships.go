// Relationship graph. Affinity is directed: relationships[from][to] need not
// equal relationships[to][from]. Symmetric effects are the caller's job.
package agents

// Affinity bounds and baselines.
const (
	MinAffinity = -100
	MaxAffinity = 100

	DistrictBaseline = 30
	AllianceBaseline = 50

	driftPositiveAbove = 5  // scores above this cool down
	driftNegativeBelow = -5 // scores below this thaw
	driftCool          = 2
	driftThaw          = 1
	kinshipBonus       = 5 // per-phase reinforcement for district and alliance mates
)

// SharesAlliance reports whether both tributes carry the same non-empty label.
func SharesAlliance(a, b *Tribute) bool {
	return a.AllianceID != "" && a.AllianceID == b.AllianceID
}

// Baseline is the affinity assumed when from has no stored score for to.
func Baseline(from, to *Tribute) int {
	if from.District == to.District {
		return DistrictBaseline
	}
	if SharesAlliance(from, to) {
		return AllianceBaseline
	}
	return 0
}

// Affinity returns from's feeling toward to.
func Affinity(from, to *Tribute) int {
	if v, ok := from.Relationships[to.ID]; ok {
		return v
	}
	return Baseline(from, to)
}

// SetAffinity stores a clamped score on from's side only.
func SetAffinity(from, to *Tribute, score int) {
	if from.Relationships == nil {
		from.Relationships = make(map[string]int)
	}
	from.Relationships[to.ID] = clampAffinity(score)
}

// ModifyAffinity shifts from's feeling toward to by delta, clamped to range.
func ModifyAffinity(from, to *Tribute, delta int) {
	SetAffinity(from, to, Affinity(from, to)+delta)
}

// ModifyMutual applies delta in both directions.
func ModifyMutual(a, b *Tribute, delta int) {
	ModifyAffinity(a, b, delta)
	ModifyAffinity(b, a, delta)
}

func clampAffinity(v int) int {
	if v < MinAffinity {
		return MinAffinity
	}
	if v > MaxAffinity {
		return MaxAffinity
	}
	return v
}

// DriftRelationships runs the per-phase decay pass over living tributes.
// Strong bonds cool toward neutral, grudges thaw slowly, and district and
// alliance mates are reinforced.
func DriftRelationships(r Roster) {
	alive := r.Living()
	for _, t := range alive {
		for _, other := range alive {
			if t.ID == other.ID {
				continue
			}
			current := Affinity(t, other)
			switch {
			case current > driftPositiveAbove:
				current -= driftCool
			case current < driftNegativeBelow:
				current += driftThaw
			}
			if t.District == other.District {
				current += kinshipBonus
			}
			if SharesAlliance(t, other) {
				current += kinshipBonus
			}
			SetAffinity(t, other, current)
		}
	}
}

// SeedRelationships writes the starting affinities: alliance mates first,
// then district mates, so districts win where both apply.
func SeedRelationships(r Roster) {
	for _, t := range r {
		if t.Relationships == nil {
			t.Relationships = make(map[string]int)
		}
		for _, other := range r {
			if t.ID == other.ID {
				continue
			}
			if SharesAlliance(t, other) {
				t.Relationships[other.ID] = AllianceBaseline
			}
			if t.District == other.District {
				t.Relationships[other.ID] = DistrictBaseline
			}
		}
	}
}
