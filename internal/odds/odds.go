// Package odds estimates each tribute's chance of winning with a
// Monte Carlo tournament and turns it into a betting label.
package odds

import (
	"fmt"
	"hash/fnv"

	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/entropy"
)

// DefaultSimulations is the tournament count used when none is configured.
const DefaultSimulations = 600

// Eliminated labels a dead tribute.
const Eliminated = "Eliminated"

const (
	basePower  = 50.0
	formSpread = 40.0 // day-to-day variance
	winBonus   = 5.0
)

var traitPower = map[agents.Trait]float64{
	agents.TraitTrained:      20,
	agents.TraitRuthless:     15,
	agents.TraitSurvivalist:  15,
	agents.TraitSharpshooter: 10,
	agents.TraitDevious:      10,
	agents.TraitStoic:        8,
	agents.TraitUnderdog:     8,
	agents.TraitCharming:     5,
}

// labels maps a minimum win rate to its label, best odds first.
var labels = []struct {
	rate  float64
	label string
}{
	{0.30, "Evens"},
	{0.20, "2/1"},
	{0.15, "3/1"},
	{0.10, "5/1"},
	{0.08, "8/1"},
	{0.06, "10/1"},
	{0.05, "12/1"},
	{0.04, "15/1"},
	{0.03, "20/1"},
	{0.02, "30/1"},
	{0.01, "50/1"},
}

// Label converts a win rate into a betting label.
func Label(winRate float64) string {
	for _, l := range labels {
		if winRate >= l.rate {
			return l.label
		}
	}
	return "75/1"
}

// Power is a tribute's fighting strength before the random form draw.
func Power(t *agents.Tribute) float64 {
	p := basePower + float64(t.Stats.WeaponSkill) + float64(t.InventoryValue())/2
	for _, tr := range t.Traits {
		p += traitPower[tr]
	}
	return p
}

type contender struct {
	id    string
	power float64
	alive bool
}

// Estimate runs simulations tournaments among the living and labels
// target's win rate.
func Estimate(target *agents.Tribute, roster agents.Roster, simulations int, rng entropy.Source) string {
	if !target.Alive() {
		return Eliminated
	}
	living := roster.Living()
	if len(living) <= 1 {
		return Label(1)
	}
	if simulations <= 0 {
		simulations = DefaultSimulations
	}

	wins := 0
	field := make([]contender, len(living))
	for range simulations {
		for i, t := range living {
			field[i] = contender{id: t.ID, power: Power(t) + rng.Float64()*formSpread, alive: true}
		}
		if tournament(field, rng) == target.ID {
			wins++
		}
	}
	return Label(float64(wins) / float64(simulations))
}

// tournament pits random living pairs until one contender is left and
// returns its id. The winner of each bout is drawn in proportion to power.
func tournament(field []contender, rng entropy.Source) string {
	alive := make([]int, len(field))
	for i := range alive {
		alive[i] = i
	}
	for len(alive) > 1 {
		a := rng.Intn(len(alive))
		b := rng.Intn(len(alive) - 1)
		if b >= a {
			b++
		}
		f1, f2 := &field[alive[a]], &field[alive[b]]
		loser := a
		if rng.Float64()*(f1.power+f2.power) < f1.power {
			f1.power += winBonus
			f2.alive = false
			loser = b
		} else {
			f2.power += winBonus
			f1.alive = false
		}
		alive = append(alive[:loser], alive[loser+1:]...)
	}
	return field[alive[0]].id
}

// Recalculate returns a copy of roster with fresh odds labels. The
// generator is seeded from the roster's fingerprint, so an unchanged
// roster always gets the same labels.
func Recalculate(roster agents.Roster, simulations int) agents.Roster {
	out := roster.Clone()
	rng := entropy.Seeded(int64(Fingerprint(roster) >> 1))
	for _, t := range out {
		t.Odds = Estimate(t, out, simulations, rng)
	}
	return out
}

// Fingerprint hashes everything that feeds a tribute's power.
func Fingerprint(roster agents.Roster) uint64 {
	h := fnv.New64a()
	for _, t := range roster {
		_, _ = fmt.Fprintf(h, "%s|%s|%d|%v|%v;", t.ID, t.Status, t.Stats.WeaponSkill, t.Traits, t.Inventory)
	}
	return h.Sum64()
}
