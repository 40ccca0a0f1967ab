// Package catalog holds the static event tables the phase simulator draws
// from, the tag and condition vocabularies scoring reads, and the YAML
// extension packs that add to the built-in pools.
package catalog

import (
	"fmt"
	"strings"

	"github.com/talgya/tribute-arena/internal/agents"
)

// Phase is a stage of the contest. Reaping and Arena never have turn loops
// of their own; they exist so log entries can be labelled.
type Phase uint8

const (
	PhaseReaping Phase = iota
	PhaseTraining
	PhaseBloodbath
	PhaseDay
	PhaseNight
	PhaseFeast
	PhaseArena
)

var phaseNames = [...]string{"Reaping", "Training", "Bloodbath", "Day", "Night", "Feast", "Arena"}

// String returns the phase label.
func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", p)
}

// MarshalText renders the phase as its label.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase label.
func (p *Phase) UnmarshalText(b []byte) error {
	for i, name := range phaseNames {
		if strings.EqualFold(name, string(b)) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Tag is a semantic label scoring rules key on.
type Tag uint8

const (
	TagKill Tag = iota
	TagAttack
	TagTheft
	TagFlee
	TagHide
	TagSneak
	TagAmbush
	TagHunt
	TagTravel
	TagSurvival
	TagSupply
	TagShelter
	TagSocial
	TagMercy
	TagSponsor
	TagFood
	TagFeast
	TagWater
	TagSleep
	TagExhaustion
	TagHeal
	TagDesperate
	TagStarve
	TagInsanity
	TagSanity
	TagSuicide
	TagSelfHarm
	TagFail
	TagAccident
	TagElements
	TagEnvironment
	TagDeath
	TagFire
	TagCamp
	TagExplosive
	TagMulti
	TagCruel
	TagIdle
	TagFear
	TagSadness
	TagInsomnia
	TagCaution
	TagSkill
	TagIntimidate
	TagStealth

	tagCount
)

var tagNames = [tagCount]string{
	TagKill:        "Kill",
	TagAttack:      "Attack",
	TagTheft:       "Theft",
	TagFlee:        "Flee",
	TagHide:        "Hide",
	TagSneak:       "Sneak",
	TagAmbush:      "Ambush",
	TagHunt:        "Hunt",
	TagTravel:      "Travel",
	TagSurvival:    "Survival",
	TagSupply:      "Supply",
	TagShelter:     "Shelter",
	TagSocial:      "Social",
	TagMercy:       "Mercy",
	TagSponsor:     "Sponsor",
	TagFood:        "Food",
	TagFeast:       "Feast",
	TagWater:       "Water",
	TagSleep:       "Sleep",
	TagExhaustion:  "Exhaustion",
	TagHeal:        "Heal",
	TagDesperate:   "Desperate",
	TagStarve:      "Starve",
	TagInsanity:    "Insanity",
	TagSanity:      "Sanity",
	TagSuicide:     "Suicide",
	TagSelfHarm:    "SelfHarm",
	TagFail:        "Fail",
	TagAccident:    "Accident",
	TagElements:    "Elements",
	TagEnvironment: "Environment",
	TagDeath:       "Death",
	TagFire:        "Fire",
	TagCamp:        "Camp",
	TagExplosive:   "Explosive",
	TagMulti:       "Multi",
	TagCruel:       "Cruel",
	TagIdle:        "Idle",
	TagFear:        "Fear",
	TagSadness:     "Sadness",
	TagInsomnia:    "Insomnia",
	TagCaution:     "Caution",
	TagSkill:       "Skill",
	TagIntimidate:  "Intimidate",
	TagStealth:     "Stealth",
}

// String returns the tag name.
func (t Tag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", t)
}

// TagNames lists every tag name in declaration order.
func TagNames() []string {
	return append([]string(nil), tagNames[:]...)
}

// ParseTag looks a tag up by name, ignoring case.
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if strings.EqualFold(n, name) {
			return Tag(i), true
		}
	}
	return 0, false
}

// TagSet is a bitset of tags.
type TagSet uint64

// Tags builds a set from tags.
func Tags(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s |= 1 << t
	}
	return s
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	return s&(1<<t) != 0
}

// Any reports whether any of tags is in the set.
func (s TagSet) Any(tags ...Tag) bool {
	return s&Tags(tags...) != 0
}

// Slice lists the tags in the set.
func (s TagSet) Slice() []Tag {
	var out []Tag
	for t := Tag(0); t < tagCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String joins the tag names with commas.
func (s TagSet) String() string {
	tags := s.Slice()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return strings.Join(names, ",")
}

// ParseTags builds a set from names, failing on the first unknown name.
func ParseTags(names []string) (TagSet, error) {
	var s TagSet
	for _, n := range names {
		t, ok := ParseTag(n)
		if !ok {
			return 0, fmt.Errorf("unknown tag %q", n)
		}
		s |= Tags(t)
	}
	return s, nil
}

// Condition is a precondition over an event's primary actor.
type Condition uint8

const (
	CondNone Condition = iota
	CondStarving
	CondInsane
	CondExhausted
	CondInjured
	CondDesperate
)

var conditionNames = [...]string{"none", "starving", "insane", "exhausted", "injured", "desperate"}

// String returns the condition name.
func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return fmt.Sprintf("Condition(%d)", c)
}

// ParseCondition looks a condition up by name. The empty string is CondNone.
func ParseCondition(name string) (Condition, bool) {
	if name == "" {
		return CondNone, true
	}
	for i, n := range conditionNames {
		if strings.EqualFold(n, name) {
			return Condition(i), true
		}
	}
	return CondNone, false
}

// Holds evaluates the condition against t.
func (c Condition) Holds(t *agents.Tribute) bool {
	switch c {
	case CondStarving:
		return t.IsStarving()
	case CondInsane:
		return t.IsInsane()
	case CondExhausted:
		return t.IsExhausted()
	case CondInjured:
		return t.IsInjured()
	case CondDesperate:
		return t.IsDesperate()
	}
	return true
}

// ConsumeMode says which items an event uses up.
type ConsumeMode uint8

const (
	ConsumeNothing  ConsumeMode = iota
	ConsumeRequired             // every required item
	ConsumeSubset               // only Consume.Items
)

// Consume describes the items an event uses up.
type Consume struct {
	Mode  ConsumeMode
	Items []string
}

// ConsumeAll consumes every required item.
var ConsumeAll = Consume{Mode: ConsumeRequired}

// ConsumeOnly consumes exactly items.
func ConsumeOnly(items ...string) Consume {
	return Consume{Mode: ConsumeSubset, Items: items}
}

// Resolve returns the items to remove given the event's required items.
func (c Consume) Resolve(required []string) []string {
	switch c.Mode {
	case ConsumeRequired:
		return required
	case ConsumeSubset:
		return c.Items
	}
	return nil
}

// Event is one narrative template. Text uses (P1)…(Pn) placeholders for
// the participants, in group order.
type Event struct {
	Text    string
	Players int
	Fatal   bool
	Killers []int
	Victims []int
	Weight  float64
	Tags    TagSet

	ItemGain      []string
	ItemRequired  []string
	TraitRequired []agents.Trait // any one of these
	Condition     Condition
	Consume       Consume

	HealthDamage int
	Movement     bool
}

// BaseWeight is the event weight, defaulting to 1.
func (e *Event) BaseWeight() float64 {
	if e.Weight <= 0 {
		return 1
	}
	return e.Weight
}

// Validate checks participant indices. Killer and victim may only coincide
// on SelfHarm events.
func (e *Event) Validate() error {
	if e.Players < 1 {
		return fmt.Errorf("event %q: players must be at least 1", e.Text)
	}
	for _, k := range e.Killers {
		if k < 0 || k >= e.Players {
			return fmt.Errorf("event %q: killer index %d out of range", e.Text, k)
		}
	}
	for _, v := range e.Victims {
		if v < 0 || v >= e.Players {
			return fmt.Errorf("event %q: victim index %d out of range", e.Text, v)
		}
		if !e.Tags.Has(TagSelfHarm) {
			for _, k := range e.Killers {
				if k == v {
					return fmt.Errorf("event %q: participant %d is both killer and victim", e.Text, v)
				}
			}
		}
	}
	if e.Fatal && len(e.Victims) == 0 {
		return fmt.Errorf("event %q: fatal event has no victims", e.Text)
	}
	for i := e.Players; i < e.Players+3; i++ {
		if strings.Contains(e.Text, placeholder(i)) {
			return fmt.Errorf("event %q: placeholder %s exceeds %d players", e.Text, placeholder(i), e.Players)
		}
	}
	return nil
}

// Killer returns the index of the first killer, or -1.
func (e *Event) Killer() int {
	if len(e.Killers) == 0 {
		return -1
	}
	return e.Killers[0]
}

// Victim returns the index of the first victim, or -1.
func (e *Event) Victim() int {
	if len(e.Victims) == 0 {
		return -1
	}
	return e.Victims[0]
}

// Render substitutes participant names into text.
func Render(text string, names []string) string {
	for i, name := range names {
		text = strings.ReplaceAll(text, placeholder(i), name)
	}
	return text
}

func placeholder(i int) string {
	return fmt.Sprintf("(P%d)", i+1)
}

// ArenaEvent is a global hazard or boon applied to every living tribute.
type ArenaEvent struct {
	Text       string
	Damage     int
	SanityLoss int
	Heal       bool // restore full health
	Feed       bool // clear hunger
}
