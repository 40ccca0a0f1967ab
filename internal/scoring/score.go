// Package scoring weighs candidate events for a group and picks one by
// roulette selection. Scores are plain multipliers over the event's base
// weight; zero means the event is not possible for this group.
package scoring

import (
	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/weather"
)

// Context is the world state scoring reads.
type Context struct {
	Phase          catalog.Phase
	Aggression     float64
	AliveCount     int
	Day            int
	MinDays        int
	MaxDays        int
	Weather        weather.Kind
	WeatherEnabled bool
}

func (c Context) endgame() bool {
	return c.AliveCount <= agents.EndgameSurvivors || c.Day > c.MaxDays
}

// BetrayalThreshold is the affinity above which killing a friend is
// suppressed. It rises as the field narrows.
func BetrayalThreshold(aliveCount int) int {
	switch {
	case aliveCount <= 2:
		return 95
	case aliveCount <= agents.EndgameSurvivors:
		return 80
	default:
		return 50
	}
}

// Relationship tuning.
const (
	kinslayerPenalty    = 500
	friendlyAffinity    = 30
	hatredAffinity      = -50
	closeFriendAffinity = 50
)

// Score weighs e for group. The first member of group is the primary actor.
func Score(e *catalog.Event, group []*agents.Tribute, ctx Context) float64 {
	if len(group) == 0 || len(group) != e.Players {
		return 0
	}
	actor := group[0]

	// Hard preconditions.
	for _, item := range e.ItemRequired {
		if !actor.HasItem(item) {
			return 0
		}
	}
	if len(e.TraitRequired) > 0 {
		ok := false
		for _, trait := range e.TraitRequired {
			if actor.HasTrait(trait) {
				ok = true
				break
			}
		}
		if !ok {
			return 0
		}
	}
	if !e.Condition.Holds(actor) {
		return 0
	}

	score := e.BaseWeight()

	if actor.Age >= olderAge && e.Tags&olderTags != 0 {
		score *= ageMultiplier
	}
	if actor.Age <= youngerAge && e.Tags&youngerTags != 0 {
		score *= ageMultiplier
	}
	score = applyTraitRules(score, e, actor)
	score = applySynergies(score, e, group)

	score = applyNeeds(score, e, actor, len(group))

	if ctx.WeatherEnabled {
		score = applyWeather(score, e, ctx.Weather)
	}

	lethal := e.Fatal || e.Tags.Has(catalog.TagKill)
	if ctx.Day < ctx.MinDays && ctx.Phase != catalog.PhaseBloodbath && lethal {
		score *= 0.1
	}
	if ctx.Day > ctx.MaxDays && e.Fatal {
		score *= 10
	}

	score = applyRelationship(score, e, group, ctx)

	if e.Fatal {
		score *= ctx.Aggression
	}

	if score < 0 {
		return 0
	}
	return score
}

func applyNeeds(score float64, e *catalog.Event, actor *agents.Tribute, groupSize int) float64 {
	if e.Tags.Has(catalog.TagFood) {
		score *= 1 + float64(actor.Stats.Hunger)/20
	}
	if e.Tags.Has(catalog.TagSleep) {
		score *= 1 + float64(actor.Stats.Exhaustion)/20
	}
	desperate := actor.IsDesperate()
	if e.Tags.Has(catalog.TagDesperate) && desperate {
		score *= 5
	}
	if e.Tags.Has(catalog.TagHeal) && (desperate || actor.Stats.Health < 60 || actor.Stats.Sanity < 50) {
		score *= 5
	}
	if groupSize == 1 && e.Tags.Has(catalog.TagSuicide) {
		if actor.Stats.Sanity < 10 && actor.Stats.Health < 30 {
			score *= 100
		} else {
			score = 0
		}
	}
	return score
}

// counterpart is who the actor's relationship is judged against: the
// designated victim, or for a cooperative event the second participant.
func counterpart(e *catalog.Event, group []*agents.Tribute) *agents.Tribute {
	if len(group) < 2 {
		return nil
	}
	idx := e.Victim()
	if idx < 0 && e.Tags.Has(catalog.TagSocial) {
		idx = 1
	}
	if idx <= 0 || idx >= len(group) {
		return nil
	}
	return group[idx]
}

func applyRelationship(score float64, e *catalog.Event, group []*agents.Tribute, ctx Context) float64 {
	actor := group[0]
	other := counterpart(e, group)
	if other == nil {
		return score
	}
	relation := agents.Affinity(actor, other)
	ruthless := actor.HasTrait(agents.TraitRuthless)

	if e.Fatal {
		if actor.District == other.District && !ruthless && ctx.AliveCount > agents.EndgameSurvivors {
			score -= kinslayerPenalty
		}
		if ctx.endgame() {
			score *= 5
			if relation > BetrayalThreshold(ctx.AliveCount) {
				score *= 0.1
			} else {
				score *= 5
			}
		} else {
			desperate := actor.IsDesperate() || e.Tags.Has(catalog.TagDesperate)
			if relation > friendlyAffinity && !ruthless && !desperate {
				score *= 0.01
			}
			if relation < hatredAffinity {
				score *= 3
			}
		}
	}

	if e.Tags.Has(catalog.TagSocial) {
		if relation < 0 {
			score *= 0.01
		}
		if relation > closeFriendAffinity {
			score *= 2
		}
	}
	return score
}

// Weigh scores every event for group.
func Weigh(events []catalog.Event, group []*agents.Tribute, ctx Context) []float64 {
	weights := make([]float64, len(events))
	for i := range events {
		weights[i] = Score(&events[i], group, ctx)
	}
	return weights
}

// Pick draws an index with probability proportional to its weight.
// It returns false when no weight is positive.
func Pick(weights []float64, rng entropy.Source) (int, bool) {
	total := 0.0
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return 0, false
	}

	r := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		r -= w
		if r <= 0 {
			return i, true
		}
	}
	// Float rounding can leave a sliver; the last candidate absorbs it.
	return last, true
}
