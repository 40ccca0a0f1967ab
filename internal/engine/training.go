package engine

import (
	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/entropy"
)

// Training adjustments.
const (
	trainingPairChance = 0.3
	skillWeaponGain    = 5
	skillScoreGain     = 10
	intimidateActor    = -5  // actor toward the intimidated
	intimidateTarget   = -10 // intimidated toward the actor
	stealthDeviousOdd  = 0.2
	trainingSocialBond = 10
)

// TrainingResult is the outcome of the training session.
type TrainingResult struct {
	Roster agents.Roster
	Logs   []LogEntry
}

// SimulateTraining runs the non-lethal training session. Every living
// tribute acts once, alone or with one partner. The input is never modified.
func (s *Simulator) SimulateTraining(roster agents.Roster) TrainingResult {
	out := roster.Clone()
	log := s.logger().With("phase", catalog.PhaseTraining.String())

	var solo, pairs []catalog.Event
	for _, e := range s.Catalog.PoolFor(catalog.PhaseTraining) {
		switch e.Players {
		case 1:
			solo = append(solo, e)
		case 2:
			pairs = append(pairs, e)
		}
	}

	queue := out.Living()
	s.Rand.Shuffle(len(queue), func(i, j int) { queue[i], queue[j] = queue[j], queue[i] })

	var logs []LogEntry
	for len(queue) > 0 {
		group := []*agents.Tribute{queue[0]}
		queue = queue[1:]
		if len(queue) > 0 && len(pairs) > 0 && entropy.Chance(s.Rand, trainingPairChance) {
			group = append(group, queue[0])
			queue = queue[1:]
		}

		events := solo
		if len(group) == 2 {
			events = pairs
		}
		if len(events) == 0 {
			continue
		}
		e := events[s.Rand.Intn(len(events))]
		s.train(&e, group)
		logs = append(logs, newEntry(catalog.PhaseTraining, 0, catalog.PhaseTraining.String(),
			catalog.Render(e.Text, names(group)), group...))
	}

	log.Info("training complete", "entries", len(logs))
	return TrainingResult{Roster: out, Logs: logs}
}

// train applies a training event. Skill and stealth work on everyone in
// the group; intimidation runs from the first member toward the second.
func (s *Simulator) train(e *catalog.Event, group []*agents.Tribute) {
	for _, t := range group {
		if e.Tags.Has(catalog.TagSkill) {
			t.Stats.WeaponSkill += skillWeaponGain
			t.TrainingScore += skillScoreGain
			t.Stats.Clamp()
		}
		if e.Tags.Has(catalog.TagStealth) && entropy.Chance(s.Rand, stealthDeviousOdd) {
			t.AddTrait(agents.TraitDevious)
		}
	}
	if len(group) < 2 {
		return
	}
	actor, other := group[0], group[1]
	if e.Tags.Has(catalog.TagSocial) {
		agents.ModifyMutual(actor, other, trainingSocialBond)
	}
	if e.Tags.Has(catalog.TagIntimidate) {
		agents.ModifyAffinity(actor, other, intimidateActor)
		agents.ModifyAffinity(other, actor, intimidateTarget)
	}
}
