// Package agents provides the tribute data model, needs predicates,
// inventory, relationship graph, and roster initialization.
package agents

import (
	"slices"

	"github.com/talgya/tribute-arena/internal/world"
)

// Status is a tribute's lifecycle state. Dead is terminal.
type Status uint8

const (
	StatusAlive Status = iota
	StatusDead
)

// String returns the status label.
func (s Status) String() string {
	if s == StatusDead {
		return "Dead"
	}
	return "Alive"
}

// MarshalText renders the status as its label.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a status label.
func (s *Status) UnmarshalText(b []byte) error {
	if string(b) == "Dead" {
		*s = StatusDead
	} else {
		*s = StatusAlive
	}
	return nil
}

// Gender of a tribute.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Trait is a personality label that biases event scoring.
type Trait string

const (
	TraitRuthless     Trait = "Ruthless"
	TraitSurvivalist  Trait = "Survivalist"
	TraitCoward       Trait = "Coward"
	TraitFriendly     Trait = "Friendly"
	TraitUnstable     Trait = "Unstable"
	TraitCharming     Trait = "Charming"
	TraitTrained      Trait = "Trained"
	TraitUnderdog     Trait = "Underdog"
	TraitTraumatized  Trait = "Traumatized"
	TraitBroken       Trait = "Broken"
	TraitStoic        Trait = "Stoic"
	TraitDevious      Trait = "Devious"
	TraitClumsy       Trait = "Clumsy"
	TraitSharpshooter Trait = "Sharpshooter"
	TraitNaive        Trait = "Naive"
	TraitGlutton      Trait = "Glutton"
)

// AllTraits lists every known trait.
var AllTraits = []Trait{
	TraitRuthless, TraitSurvivalist, TraitCoward, TraitFriendly, TraitUnstable,
	TraitCharming, TraitTrained, TraitUnderdog, TraitTraumatized, TraitBroken,
	TraitStoic, TraitDevious, TraitClumsy, TraitSharpshooter, TraitNaive, TraitGlutton,
}

// ValidTrait reports whether name is a known trait.
func ValidTrait(name string) bool {
	return slices.Contains(AllTraits, Trait(name))
}

// Stats holds a tribute's vitals. Every field stays within [0, 100].
type Stats struct {
	Health      int `json:"health"`
	Sanity      int `json:"sanity"`
	Hunger      int `json:"hunger"`
	Exhaustion  int `json:"exhaustion"`
	WeaponSkill int `json:"weapon_skill"`
}

// Clamp pulls every vital back into [0, 100].
func (s *Stats) Clamp() {
	s.Health = clampStat(s.Health)
	s.Sanity = clampStat(s.Sanity)
	s.Hunger = clampStat(s.Hunger)
	s.Exhaustion = clampStat(s.Exhaustion)
	s.WeaponSkill = clampStat(s.WeaponSkill)
}

func clampStat(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Tribute is a contestant in the arena.
type Tribute struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	District int    `json:"district"` // 1–12
	Gender   Gender `json:"gender"`
	Age      int    `json:"age"`

	Status    Status   `json:"status"`
	KillCount int      `json:"kill_count"`
	Inventory []string `json:"inventory"`

	// Tributes sharing a non-empty label form a loose alliance.
	AllianceID string `json:"alliance_id,omitempty"`

	Position world.HexCoord `json:"position"`

	// Display only.
	Odds          string `json:"odds"`
	TrainingScore int    `json:"training_score"`

	Stats         Stats          `json:"stats"`
	Traits        []Trait        `json:"traits"`
	Relationships map[string]int `json:"relationships"` // target ID → affinity, -100..100
	Notes         []string       `json:"notes,omitempty"`

	// Forensics, written once on death.
	DeathCause string `json:"death_cause,omitempty"`
	KillerID   string `json:"killer_id,omitempty"`
	KillerName string `json:"killer_name,omitempty"`
}

// Alive reports whether the tribute is still in the contest.
func (t *Tribute) Alive() bool {
	return t.Status == StatusAlive
}

// HasTrait reports whether the tribute carries trait.
func (t *Tribute) HasTrait(trait Trait) bool {
	return slices.Contains(t.Traits, trait)
}

// AddTrait appends trait if it is not already present.
func (t *Tribute) AddTrait(trait Trait) {
	if !t.HasTrait(trait) {
		t.Traits = append(t.Traits, trait)
	}
}

// RemoveTrait drops trait if present.
func (t *Tribute) RemoveTrait(trait Trait) {
	t.Traits = slices.DeleteFunc(t.Traits, func(x Trait) bool { return x == trait })
}

// Kill marks the tribute dead and records the forensic fields.
// Calling Kill on a dead tribute does nothing.
func (t *Tribute) Kill(cause string, killer *Tribute) bool {
	if !t.Alive() {
		return false
	}
	t.Status = StatusDead
	t.Stats.Health = 0
	t.DeathCause = cause
	if killer != nil && killer.ID != t.ID {
		t.KillerID = killer.ID
		t.KillerName = killer.Name
	}
	return true
}

// Clone returns a deep copy of the tribute.
func (t *Tribute) Clone() *Tribute {
	c := *t
	c.Inventory = slices.Clone(t.Inventory)
	c.Traits = slices.Clone(t.Traits)
	c.Notes = slices.Clone(t.Notes)
	c.Relationships = make(map[string]int, len(t.Relationships))
	for k, v := range t.Relationships {
		c.Relationships[k] = v
	}
	return &c
}

// Roster is the full set of tributes in a contest.
type Roster []*Tribute

// Clone deep-copies every tribute.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for i, t := range r {
		out[i] = t.Clone()
	}
	return out
}

// Index maps tribute IDs to tributes.
func (r Roster) Index() map[string]*Tribute {
	idx := make(map[string]*Tribute, len(r))
	for _, t := range r {
		idx[t.ID] = t
	}
	return idx
}

// Find returns the tribute with id, or nil.
func (r Roster) Find(id string) *Tribute {
	for _, t := range r {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Living returns the tributes still alive, in roster order.
func (r Roster) Living() []*Tribute {
	var alive []*Tribute
	for _, t := range r {
		if t.Alive() {
			alive = append(alive, t)
		}
	}
	return alive
}

// AliveCount returns how many tributes remain.
func (r Roster) AliveCount() int {
	n := 0
	for _, t := range r {
		if t.Alive() {
			n++
		}
	}
	return n
}
