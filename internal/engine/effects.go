package engine

import (
	"fmt"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/director"
	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/weather"
	"github.com/talgya/tribute-arena/internal/world"
)

// Effect sizes.
const (
	feastHeal       = 20
	foodRelief      = 40
	healHealth      = 30
	healSanity      = 10
	killSanityCost  = 20
	socialBond      = 10
	grudgeVictim    = -40 // victim toward aggressor
	grudgeAggressor = -10 // aggressor toward victim

	hungerBase        = 5
	hungerSpread      = 10
	heatwaveHunger    = 5
	survivalistHunger = 3
	dayExhaustion     = 10
	nightRecovery     = 20
	stormExhaustion   = 10
	restfulSanity     = 15
	wellFedHealth     = 5

	arenaCause  = "Arena Event"
	injuryCause = "Succumbed to injuries"
)

// globalEvents runs the feast or, failing that, a possible arena hazard.
// Both only happen during the Day.
func (r *phaseRun) globalEvents() {
	if r.params.Phase != catalog.PhaseDay {
		return
	}
	if director.IsFeast(r.params.Day, r.params.MinDays) {
		r.feast = true
		r.result.Feast = true
		r.kind = catalog.PhaseFeast
		for _, t := range r.roster.Living() {
			t.Stats.Hunger = 0
			t.Stats.Health += feastHeal
			t.Stats.Clamp()
			t.Position = world.Center
		}
		e := r.entry("THE FEAST BEGINS! A cornucopia of supplies has appeared.")
		e.Kind = catalog.PhaseFeast
		r.emit(e)
		return
	}

	arena := r.sim.Catalog.Arena
	if len(arena) == 0 || !entropy.Chance(r.sim.Rand, director.ArenaEventChance(r.params.Day, r.params.MaxDays)) {
		return
	}
	ev := arena[r.sim.Rand.Intn(len(arena))]
	r.result.Arena = &ev
	r.applyArenaEvent(ev)
}

func (r *phaseRun) applyArenaEvent(ev catalog.ArenaEvent) {
	announce := r.entry("ARENA EVENT: " + ev.Text)
	announce.Kind = catalog.PhaseArena
	r.emit(announce)

	for _, t := range r.roster.Living() {
		t.Stats.Health -= ev.Damage
		t.Stats.Sanity -= ev.SanityLoss
		if ev.Heal {
			t.Stats.Health = 100
		}
		if ev.Feed {
			t.Stats.Hunger = 0
		}
		if t.Stats.Health <= 0 {
			t.Kill(arenaCause, nil)
			r.recordDeath(t)
			death := r.entry(t.Name+" succumbed to the arena event.", t)
			death.Kind = catalog.PhaseArena
			death.DeathNames = []string{t.Name}
			r.emit(death)
		}
		t.Stats.Clamp()
	}
}

// passive advances needs, recovery and relationship drift for the phase.
func (r *phaseRun) passive() {
	night := r.params.Phase == catalog.PhaseNight
	wx := r.params.Weather
	if !r.params.WeatherEnabled {
		wx = weather.Clear
	}

	for _, t := range r.roster.Living() {
		hunger := hungerBase + r.sim.Rand.Intn(hungerSpread)
		if wx == weather.Heatwave {
			hunger += heatwaveHunger
		}
		if t.HasTrait(agents.TraitSurvivalist) {
			hunger -= survivalistHunger
		}
		t.Stats.Hunger += max(0, hunger)

		if night {
			t.Stats.Exhaustion -= nightRecovery
		} else {
			t.Stats.Exhaustion += dayExhaustion
			if wx == weather.Storm {
				t.Stats.Exhaustion += stormExhaustion
			}
		}
		t.Stats.Clamp()

		if night && t.Stats.Hunger < 50 && t.Stats.Exhaustion < 20 {
			t.Stats.Sanity += restfulSanity
		}
		if t.Stats.Hunger < 20 && t.Stats.Sanity > 70 {
			t.Stats.Health += wellFedHealth
		}
		t.Stats.Clamp()
	}

	agents.DriftRelationships(r.roster)
}

// resolve applies the chosen event to the group and logs it.
func (r *phaseRun) resolve(e *catalog.Event, group []*agents.Tribute) {
	actor := group[0]
	text := e.Text
	var deaths []string
	capacity := r.sim.capacity()

	for _, item := range e.Consume.Resolve(e.ItemRequired) {
		actor.RemoveItem(item)
	}
	if len(e.ItemGain) > 0 {
		actor.AddItems(capacity, e.ItemGain...)
	}

	if e.Tags.Has(catalog.TagFood) {
		actor.Stats.Hunger -= foodRelief
	}
	if e.Tags.Has(catalog.TagHeal) {
		actor.Stats.Health += healHealth
		actor.Stats.Sanity += healSanity
	}
	if e.Tags.Has(catalog.TagSleep) {
		actor.Stats.Exhaustion = 0
	}
	actor.Stats.Clamp()

	r.move(e, group)

	if e.HealthDamage > 0 {
		actor.Stats.Health -= e.HealthDamage
		if actor.Stats.Health <= 0 && !e.Fatal {
			actor.Kill(injuryCause, nil)
			r.recordDeath(actor)
			deaths = append(deaths, actor.Name)
			text += " (P1) succumbs to their injuries."
		}
		actor.Stats.Clamp()
	}

	if e.Fatal {
		deaths = append(deaths, r.resolveKills(e, group)...)
	} else {
		r.adjustRelationships(e, group)
	}

	for _, t := range group {
		t.Stats.Clamp()
	}

	entry := r.entry(catalog.Render(text, names(group)), group...)
	entry.DeathNames = deaths
	r.emit(entry)
}

// resolveKills marks the victims dead and settles the killer's account.
func (r *phaseRun) resolveKills(e *catalog.Event, group []*agents.Tribute) []string {
	var killer *agents.Tribute
	if k := e.Killer(); k >= 0 && k < len(group) {
		killer = group[k]
	}
	cause := catalog.Render(e.Text, names(group))

	var deaths []string
	kills := 0
	for _, v := range e.Victims {
		if v >= len(group) {
			r.log.Warn("victim index outside group", "event", e.Text, "index", v, "group", len(group))
			continue
		}
		victim := group[v]
		if victim == killer && !e.Tags.Has(catalog.TagSelfHarm) {
			r.log.Warn("event names the killer as its own victim", "event", e.Text, "tribute", victim.ID)
			continue
		}
		if !victim.Kill(cause, killer) {
			continue
		}
		r.recordDeath(victim)
		deaths = append(deaths, victim.Name)

		if killer != nil && killer != victim {
			kills++
			if loot := victim.TakeInventory(); len(loot) > 0 {
				killer.AddItems(r.sim.capacity(), loot...)
			}
		}
	}

	if killer == nil || kills == 0 {
		return deaths
	}
	killer.KillCount += kills
	if !killer.HasTrait(agents.TraitRuthless) {
		killer.Stats.Sanity -= killSanityCost
	}
	wasCoward := killer.HasTrait(agents.TraitCoward)
	wasUnderdog := killer.HasTrait(agents.TraitUnderdog)
	if agents.EvolveTraits(killer) {
		switch {
		case wasCoward && !killer.HasTrait(agents.TraitCoward):
			r.emit(r.entry(fmt.Sprintf("TRAIT EVOLUTION: %s has shed their cowardice.", killer.Name), killer))
		case wasUnderdog && !killer.HasTrait(agents.TraitUnderdog):
			r.emit(r.entry(fmt.Sprintf("TRAIT EVOLUTION: %s now fights like a Career.", killer.Name), killer))
		}
	}
	return deaths
}

// adjustRelationships applies the social fallout of a non-fatal event.
// Cooperation is mutual; aggression hurts the victim's view far more.
func (r *phaseRun) adjustRelationships(e *catalog.Event, group []*agents.Tribute) {
	if len(group) < 2 {
		return
	}
	aggressor, victim := group[0], group[1]
	switch {
	case e.Tags.Any(catalog.TagAttack, catalog.TagTheft):
		agents.ModifyAffinity(victim, aggressor, grudgeVictim)
		agents.ModifyAffinity(aggressor, victim, grudgeAggressor)
		if e.Tags.Has(catalog.TagTheft) {
			if loot := victim.TakeInventory(); len(loot) > 0 {
				aggressor.AddItems(r.sim.capacity(), loot...)
			}
		}
	case e.Tags.Has(catalog.TagSocial):
		for i := range group {
			for j := i + 1; j < len(group); j++ {
				agents.ModifyMutual(group[i], group[j], socialBond)
			}
		}
	}
}

// move relocates the group. Hunters close on the nearest tribute outside
// the group; travellers and the fleeing take one shared random step,
// redrawn while it would carry anyone out of the arena.
func (r *phaseRun) move(e *catalog.Event, group []*agents.Tribute) {
	switch {
	case e.Tags.Has(catalog.TagHunt):
		for _, t := range group {
			if target := r.nearestThreat(t, group); target != nil {
				t.Position = r.sim.Arena.StepToward(t.Position, target.Position)
			}
		}
	case e.Movement || e.Tags.Any(catalog.TagTravel, catalog.TagFlee):
		if len(group) == 1 {
			group[0].Position = r.sim.Arena.Wander(group[0].Position, r.sim.Rand)
			return
		}
		from := make([]world.HexCoord, len(group))
		for i, t := range group {
			from[i] = t.Position
		}
		dir, ok := r.sim.Arena.OpenDirection(r.sim.Rand, from...)
		if !ok {
			return
		}
		for _, t := range group {
			t.Position = r.sim.Arena.Shift(t.Position, dir)
		}
	}
}

func (r *phaseRun) nearestThreat(t *agents.Tribute, group []*agents.Tribute) *agents.Tribute {
	var best *agents.Tribute
	bestDist := 0
	for _, other := range r.roster.Living() {
		if inGroup(group, other) {
			continue
		}
		d := world.Distance(t.Position, other.Position)
		if best == nil || d < bestDist {
			best, bestDist = other, d
		}
	}
	return best
}
