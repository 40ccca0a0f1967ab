// Tribute spawning: builds the reaped roster with district-biased traits,
// starting positions, and starting relationships.
package agents

import (
	"fmt"

	"github.com/talgya/tribute-arena/internal/entropy"
	"github.com/talgya/tribute-arena/internal/world"
)

// Roster shape.
const (
	Districts         = 12
	CareerAllianceID  = "alliance-career-pack"
	careerWeaponSkill = 20
	spawnRingDistance = 3
	minTributeAge     = 12
	maxTributeAge     = 18
	startingOddsLabel = "TBD"
)

var (
	careerDistricts   = []int{1, 2, 4}
	underdogDistricts = []int{11, 12}
)

// IsCareerDistrict reports whether district trains its tributes.
func IsCareerDistrict(district int) bool {
	for _, d := range careerDistricts {
		if d == district {
			return true
		}
	}
	return false
}

func isUnderdogDistrict(district int) bool {
	for _, d := range underdogDistricts {
		if d == district {
			return true
		}
	}
	return false
}

// Spawner creates tributes for a new contest.
type Spawner struct {
	rng   entropy.Source
	arena world.Arena
}

// NewSpawner creates a spawner drawing from rng and placing tributes in arena.
func NewSpawner(rng entropy.Source, arena world.Arena) *Spawner {
	return &Spawner{rng: rng, arena: arena}
}

// InitializeRoster reaps one boy and one girl per district.
// Odds are left at their placeholder; the caller computes them.
func (s *Spawner) InitializeRoster() Roster {
	roster := make(Roster, 0, Districts*2)

	for d := 1; d <= Districts; d++ {
		pos := s.arena.SpawnRing(d, Districts, spawnRingDistance)
		roster = append(roster,
			s.spawnOne(d, GenderMale, pos),
			s.spawnOne(d, GenderFemale, pos),
		)
	}

	SeedRelationships(roster)
	return roster
}

func (s *Spawner) spawnOne(district int, gender Gender, pos world.HexCoord) *Tribute {
	suffix, label := "m", "Male"
	if gender == GenderFemale {
		suffix, label = "f", "Female"
	}

	t := &Tribute{
		ID:            fmt.Sprintf("d%d_%s", district, suffix),
		Name:          fmt.Sprintf("District %d %s", district, label),
		District:      district,
		Gender:        gender,
		Age:           minTributeAge + s.rng.Intn(maxTributeAge-minTributeAge+1),
		Status:        StatusAlive,
		Inventory:     []string{},
		Position:      pos,
		Odds:          startingOddsLabel,
		Stats:         Stats{Health: 100, Sanity: 100},
		Traits:        s.traitsFor(district),
		Relationships: make(map[string]int),
	}

	if IsCareerDistrict(district) {
		t.AllianceID = CareerAllianceID
		t.Stats.WeaponSkill = careerWeaponSkill
	}
	return t
}

func (s *Spawner) traitsFor(district int) []Trait {
	switch {
	case IsCareerDistrict(district):
		if entropy.Chance(s.rng, 0.7) {
			return []Trait{TraitTrained, TraitRuthless}
		}
		return []Trait{TraitTrained, TraitCharming}
	case isUnderdogDistrict(district):
		if entropy.Chance(s.rng, 0.6) {
			return []Trait{TraitUnderdog, TraitSurvivalist}
		}
		return []Trait{TraitUnderdog, TraitCoward}
	}

	// Everyone else draws from the general pool; Traumatized and Broken
	// are earned in the arena, not brought in.
	pool := []Trait{
		TraitRuthless, TraitSurvivalist, TraitCoward, TraitFriendly, TraitUnstable,
		TraitCharming, TraitTrained, TraitUnderdog, TraitStoic, TraitDevious,
		TraitClumsy, TraitSharpshooter, TraitNaive, TraitGlutton,
	}
	n := 1
	if s.rng.Float64() > 0.7 {
		n = 2
	}
	s.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return append([]Trait(nil), pool[:n]...)
}
