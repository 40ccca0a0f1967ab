// Tribute intent: what a tribute is looking for when their turn comes up.
// Needs are evaluated top-down: a starving tribute forages before they hunt.
package agents

import "github.com/talgya/tribute-arena/internal/entropy"

// Desire is what a tribute wants out of an interaction this turn.
type Desire uint8

const (
	DesireSolo   Desire = iota // look after themselves
	DesireSocial               // seek company
	DesireKill                 // seek a victim
)

// String returns the desire label.
func (d Desire) String() string {
	switch d {
	case DesireSocial:
		return "Social"
	case DesireKill:
		return "Kill"
	default:
		return "Solo"
	}
}

// EndgameSurvivors is the survivor count at which the contest turns cutthroat.
const EndgameSurvivors = 4

// DesireContext carries the world state that shapes a tribute's intent.
type DesireContext struct {
	Bloodbath          bool
	DaysSinceLastDeath int
	AliveCount         int
}

// DecideDesire classifies what a tribute wants this turn.
func DecideDesire(t *Tribute, ctx DesireContext, rng entropy.Source) Desire {
	// Critical survival: food and medicine come first.
	if t.Stats.Hunger > DesperateHunger || t.Stats.Health < DesperateHealth {
		return DesireSolo
	}

	// Breaking minds lash out half the time.
	if t.Stats.Sanity < DesperateSanity {
		if entropy.Chance(rng, 0.5) {
			return DesireKill
		}
		return DesireSolo
	}

	switch {
	case ctx.DaysSinceLastDeath > 3 && ctx.AliveCount > 2:
		return DesireKill
	case (t.HasTrait(TraitRuthless) || ctx.AliveCount <= EndgameSurvivors) && entropy.Chance(rng, 0.3):
		return DesireKill
	case ctx.Bloodbath && entropy.Chance(rng, 0.7):
		return DesireKill
	case t.HasTrait(TraitFriendly) || t.HasTrait(TraitCharming) || entropy.Chance(rng, 0.4):
		return DesireSocial
	}
	return DesireSolo
}

// PartnerAppeal scores target as a partner for actor under desire.
// Higher is better. A random jitter of up to 30 keeps choices varied.
func PartnerAppeal(actor, target *Tribute, desire Desire, rng entropy.Source) float64 {
	relation := float64(Affinity(actor, target))
	score := 0.0

	switch desire {
	case DesireKill:
		score = -relation
		if target.Stats.Health < 50 {
			score += 50 // easy prey
		}
		if actor.District == target.District {
			score -= 100
		}
	case DesireSocial:
		score = relation
		if SharesAlliance(actor, target) {
			score += 50
		}
	}

	return score + rng.Float64()*30
}

// AcceptsPartner reports whether actor will go through with the pairing.
func AcceptsPartner(actor, target *Tribute, desire Desire, aliveCount int) bool {
	relation := Affinity(actor, target)
	switch desire {
	case DesireSocial:
		return relation > -20
	case DesireKill:
		return relation < 20 || aliveCount <= EndgameSurvivors
	}
	return false
}

// EvolveTraits applies kill-driven trait changes. It returns true when
// a visible transformation occurred.
func EvolveTraits(t *Tribute) bool {
	changed := false
	if t.HasTrait(TraitCoward) && t.KillCount >= 2 {
		t.RemoveTrait(TraitCoward)
		t.AddTrait(TraitRuthless)
		changed = true
	}
	if t.HasTrait(TraitUnderdog) && t.KillCount >= 3 {
		t.RemoveTrait(TraitUnderdog)
		t.AddTrait(TraitTrained)
		changed = true
	}
	return changed
}
