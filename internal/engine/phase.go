// Package engine resolves contest phases and drives a contest from the
// reaping to its victor.
package engine

import (
	"log/slog"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/director"
	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/scoring"
	"github.com/talgya/tribute-arena/internal/social"
	"github.com/talgya/tribute-arena/internal/weather"
	"github.com/talgya/tribute-arena/internal/world"
)

// Simulator resolves phases. It holds no contest state of its own; every
// call works on a copy of the roster it is given.
type Simulator struct {
	Catalog      *catalog.Catalog
	Arena        world.Arena
	Rand         entropy.Source
	InventoryCap int
	Logger       *slog.Logger
}

// NewSimulator creates a simulator with default capacity and logger.
func NewSimulator(cat *catalog.Catalog, arena world.Arena, rng entropy.Source) *Simulator {
	return &Simulator{
		Catalog:      cat,
		Arena:        arena,
		Rand:         rng,
		InventoryCap: agents.DefaultInventoryCapacity,
		Logger:       slog.Default(),
	}
}

// PhaseParams is the contest state a phase is resolved against.
type PhaseParams struct {
	Phase              catalog.Phase // Bloodbath, Day or Night
	DaysSinceLastDeath int
	Day                int
	MinDays            int
	MaxDays            int
	Weather            weather.Kind
	FatalityRate       float64
	WeatherEnabled     bool
}

// PhaseResult is the outcome of one phase.
type PhaseResult struct {
	Roster agents.Roster
	Logs   []LogEntry
	Fallen []*agents.Tribute // snapshots taken at the moment of death
	Deaths int
	Feast  bool
	Arena  *catalog.ArenaEvent
}

// Turn-loop tuning.
const (
	pairChance         = 0.9 // otherwise a crowd of 3–6
	crowdMin           = 3
	crowdSpread        = 4
	bloodbathLethalOdd = 0.6
	restRecovery       = 20
	wanderText         = "(P1) wanders aimlessly."
	restText           = "(P1) is too exhausted to move and rests."
)

type phaseRun struct {
	sim    *Simulator
	params PhaseParams
	log    *slog.Logger

	roster agents.Roster
	index  map[string]*agents.Tribute
	queue  []string
	pool   []catalog.Event

	feast      bool
	aggression float64
	kind       catalog.Phase
	result     PhaseResult
}

// SimulatePhase resolves one Bloodbath, Day or Night phase. The input
// roster is never modified.
func (s *Simulator) SimulatePhase(roster agents.Roster, p PhaseParams) PhaseResult {
	run := &phaseRun{
		sim:    s,
		params: p,
		log:    s.logger().With("phase", p.Phase.String(), "day", p.Day),
		roster: roster.Clone(),
		kind:   p.Phase,
	}
	run.index = run.roster.Index()

	run.globalEvents()
	if p.Phase != catalog.PhaseBloodbath {
		run.passive()
	}

	run.aggression = director.Aggression(director.Pacing{
		FatalityRate:       p.FatalityRate,
		DaysSinceLastDeath: p.DaysSinceLastDeath,
		AliveCount:         run.roster.AliveCount(),
		Day:                p.Day,
		MaxDays:            p.MaxDays,
		Bloodbath:          p.Phase == catalog.PhaseBloodbath,
		Feast:              run.feast,
	})
	run.pool = run.validPool()

	for _, t := range run.roster.Living() {
		run.queue = append(run.queue, t.ID)
	}
	s.Rand.Shuffle(len(run.queue), func(i, j int) {
		run.queue[i], run.queue[j] = run.queue[j], run.queue[i]
	})
	for len(run.queue) > 0 {
		run.turn()
	}

	run.fragmentAlliances()

	run.result.Roster = run.roster
	run.log.Info("phase resolved",
		"deaths", run.result.Deaths,
		"alive", run.roster.AliveCount(),
		"entries", len(run.result.Logs),
		"aggression", run.aggression,
	)
	return run.result
}

func (s *Simulator) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Simulator) capacity() int {
	if s.InventoryCap > 0 {
		return s.InventoryCap
	}
	return agents.DefaultInventoryCapacity
}

// validPool drops events with broken indices so the turn loop never has
// to guard against them.
func (r *phaseRun) validPool() []catalog.Event {
	all := r.sim.Catalog.PoolFor(r.params.Phase)
	pool := all[:0]
	for _, e := range all {
		if err := e.Validate(); err != nil {
			r.log.Warn("skipping invalid event", "error", err)
			continue
		}
		pool = append(pool, e)
	}
	return pool
}

func (r *phaseRun) emit(e LogEntry) {
	r.result.Logs = append(r.result.Logs, e)
}

func (r *phaseRun) entry(text string, group ...*agents.Tribute) LogEntry {
	return newEntry(r.kind, r.params.Day, r.params.Phase.String(), text, group...)
}

// recordDeath books a tribute that has just been killed.
func (r *phaseRun) recordDeath(t *agents.Tribute) {
	r.result.Fallen = append(r.result.Fallen, t.Clone())
	r.result.Deaths++
}

func (r *phaseRun) scoringContext() scoring.Context {
	return scoring.Context{
		Phase:          r.params.Phase,
		Aggression:     r.aggression,
		AliveCount:     r.roster.AliveCount(),
		Day:            r.params.Day,
		MinDays:        r.params.MinDays,
		MaxDays:        r.params.MaxDays,
		Weather:        r.params.Weather,
		WeatherEnabled: r.params.WeatherEnabled,
	}
}

// take removes id from the turn queue.
func (r *phaseRun) take(id string) {
	for i, qid := range r.queue {
		if qid == id {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			return
		}
	}
}

// pop removes and returns the next actor.
func (r *phaseRun) pop() string {
	id := r.queue[len(r.queue)-1]
	r.queue = r.queue[:len(r.queue)-1]
	return id
}

func (r *phaseRun) turn() {
	actor := r.index[r.pop()]
	if actor == nil || !actor.Alive() {
		return
	}
	bloodbath := r.params.Phase == catalog.PhaseBloodbath

	if !bloodbath && actor.NeedsRest() {
		actor.Stats.Exhaustion -= restRecovery
		actor.Stats.Clamp()
		r.emit(r.entry(catalog.Render(restText, names([]*agents.Tribute{actor})), actor))
		return
	}

	group := r.formGroup(actor)
	desire := agents.DecideDesire(actor, agents.DesireContext{
		Bloodbath:          bloodbath,
		DaysSinceLastDeath: r.params.DaysSinceLastDeath,
		AliveCount:         r.roster.AliveCount(),
	}, r.sim.Rand)
	group = r.recruit(actor, group, desire)

	if desire == agents.DesireSocial && len(group) > 1 {
		r.maybeAlly(actor, group)
	}

	lethalOnly := bloodbath && entropy.Chance(r.sim.Rand, bloodbathLethalOdd)
	event, group := r.choose(group, desire, lethalOnly)
	r.resolve(event, group)
}

// formGroup starts a group with the actor and any allies standing close by.
func (r *phaseRun) formGroup(actor *agents.Tribute) []*agents.Tribute {
	group := []*agents.Tribute{actor}
	if actor.AllianceID == "" {
		return group
	}
	for _, id := range append([]string(nil), r.queue...) {
		t := r.index[id]
		if t == nil || !t.Alive() || t.AllianceID != actor.AllianceID {
			continue
		}
		if world.Distance(actor.Position, t.Position) > 1 {
			continue
		}
		group = append(group, t)
		r.take(id)
	}
	return group
}

// recruit grows the group greedily toward a target size, taking the best
// partner for the actor's desire each round.
func (r *phaseRun) recruit(actor *agents.Tribute, group []*agents.Tribute, desire agents.Desire) []*agents.Tribute {
	size := 2
	if !entropy.Chance(r.sim.Rand, pairChance) {
		size = crowdMin + r.sim.Rand.Intn(crowdSpread)
	}
	bloodbath := r.params.Phase == catalog.PhaseBloodbath

	for len(group) < size && len(r.queue) > 0 {
		var best *agents.Tribute
		bestScore := 0.0
		for _, id := range r.queue {
			t := r.index[id]
			if t == nil || !t.Alive() || inGroup(group, t) {
				continue
			}
			if !bloodbath && !agents.SharesAlliance(actor, t) && world.Distance(actor.Position, t.Position) > 1 {
				continue
			}
			score := agents.PartnerAppeal(actor, t, desire, r.sim.Rand)
			if best == nil || score > bestScore {
				best, bestScore = t, score
			}
		}
		if best == nil || !agents.AcceptsPartner(actor, best, desire, r.roster.AliveCount()) {
			break
		}
		group = append(group, best)
		r.take(best.ID)
	}
	return group
}

func inGroup(group []*agents.Tribute, t *agents.Tribute) bool {
	for _, g := range group {
		if g.ID == t.ID {
			return true
		}
	}
	return false
}

// choose picks an event for the group, shrinking the group until
// something can happen. Members dropped from the group go back on the queue.
func (r *phaseRun) choose(group []*agents.Tribute, desire agents.Desire, lethalOnly bool) (*catalog.Event, []*agents.Tribute) {
	for {
		candidates := r.candidates(len(group), desire, lethalOnly)
		weights := scoring.Weigh(candidates, group, r.scoringContext())
		if idx, ok := scoring.Pick(weights, r.sim.Rand); ok {
			return &candidates[idx], group
		}
		if len(group) == 1 {
			return &catalog.Event{Text: wanderText, Players: 1}, group
		}
		last := group[len(group)-1]
		group = group[:len(group)-1]
		r.queue = append(r.queue, last.ID)
	}
}

// candidates filters the pool for a group of size n.
func (r *phaseRun) candidates(n int, desire agents.Desire, lethalOnly bool) []catalog.Event {
	var sized []catalog.Event
	for _, e := range r.pool {
		if e.Players == n {
			sized = append(sized, e)
		}
	}

	out := sized
	if lethalOnly {
		out = filterEvents(out, func(e *catalog.Event) bool {
			return e.Fatal || e.Tags.Has(catalog.TagKill)
		})
	}
	switch desire {
	case agents.DesireKill:
		out = filterEvents(out, func(e *catalog.Event) bool {
			return e.Fatal || e.Tags.Has(catalog.TagAttack) || e.Players > 1
		})
	case agents.DesireSocial:
		out = filterEvents(out, func(e *catalog.Event) bool {
			return !e.Fatal && !e.Tags.Has(catalog.TagAttack)
		})
	}
	if len(out) == 0 {
		out = sized
	}

	if director.ThrottleDeaths(r.params.Day, r.params.MinDays, r.result.Deaths, r.params.Phase == catalog.PhaseBloodbath) {
		out = filterEvents(out, func(e *catalog.Event) bool { return !e.Fatal })
	}
	return out
}

func filterEvents(events []catalog.Event, keep func(*catalog.Event) bool) []catalog.Event {
	var out []catalog.Event
	for i := range events {
		if keep(&events[i]) {
			out = append(out, events[i])
		}
	}
	return out
}

// maybeAlly turns a warm social group into a new alliance.
func (r *phaseRun) maybeAlly(actor *agents.Tribute, group []*agents.Tribute) {
	if id, ok := social.TryForm(actor, group); ok {
		r.log.Debug("alliance formed", "alliance", id, "members", len(group))
	}
}

func (r *phaseRun) fragmentAlliances() {
	for _, id := range social.Fragment(r.roster) {
		r.log.Debug("alliance dissolved", "alliance", id)
	}
}
