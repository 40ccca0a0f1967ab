package scoring

import (
	"github.com/talgya/tribute-arena/internal/agents"
	"github.com/talgya/tribute-arena/internal/catalog"
	"github.com/talgya/tribute-arena/internal/weather"
)

// traitRule multiplies an event carrying any of tags when the primary
// actor has trait. When items is set the actor must also hold one of them.
type traitRule struct {
	trait agents.Trait
	tags  catalog.TagSet
	mult  float64
	items []string
}

var traitRules = []traitRule{
	{trait: agents.TraitRuthless, tags: catalog.Tags(catalog.TagKill), mult: 2.5},
	{trait: agents.TraitCoward, tags: catalog.Tags(catalog.TagFlee, catalog.TagSneak), mult: 3},
	{trait: agents.TraitSurvivalist, tags: catalog.Tags(catalog.TagSurvival, catalog.TagSupply), mult: 2.5},
	{trait: agents.TraitFriendly, tags: catalog.Tags(catalog.TagSocial), mult: 2},
	{trait: agents.TraitUnstable, tags: catalog.Tags(catalog.TagInsanity), mult: 3},
	{trait: agents.TraitCharming, tags: catalog.Tags(catalog.TagSocial), mult: 2.5},
	{trait: agents.TraitCharming, tags: catalog.Tags(catalog.TagSponsor), mult: 3},
	{trait: agents.TraitClumsy, tags: catalog.Tags(catalog.TagFail, catalog.TagAccident), mult: 3},
	{trait: agents.TraitGlutton, tags: catalog.Tags(catalog.TagFood, catalog.TagFeast), mult: 3},
	{trait: agents.TraitSharpshooter, tags: catalog.Tags(catalog.TagKill), mult: 5, items: []string{"Bow", "Gun"}},
}

// synergyRule multiplies an event when the group's combined traits
// include every trait in needs.
type synergyRule struct {
	needs []agents.Trait
	tags  catalog.TagSet
	mult  float64
}

var synergyRules = []synergyRule{
	{needs: []agents.Trait{agents.TraitRuthless, agents.TraitTrained}, tags: catalog.Tags(catalog.TagKill), mult: 4},
	{needs: []agents.Trait{agents.TraitCoward, agents.TraitFriendly}, tags: catalog.Tags(catalog.TagSocial, catalog.TagSurvival), mult: 3},
}

type weatherRule struct {
	kinds []weather.Kind
	tags  catalog.TagSet
	mult  float64
}

var weatherRules = []weatherRule{
	{kinds: []weather.Kind{weather.Rain, weather.Storm}, tags: catalog.Tags(catalog.TagFire, catalog.TagCamp), mult: 0.1},
	{kinds: []weather.Kind{weather.Rain, weather.Storm}, tags: catalog.Tags(catalog.TagShelter), mult: 2},
	{kinds: []weather.Kind{weather.Fog}, tags: catalog.Tags(catalog.TagSneak, catalog.TagAmbush), mult: 2.5},
	{kinds: []weather.Kind{weather.Fog}, tags: catalog.Tags(catalog.TagHunt), mult: 0.5},
	{kinds: []weather.Kind{weather.Heatwave}, tags: catalog.Tags(catalog.TagWater, catalog.TagExhaustion), mult: 3},
}

// Age bias.
const (
	olderAge      = 16
	youngerAge    = 13
	ageMultiplier = 1.2
)

var (
	olderTags   = catalog.Tags(catalog.TagKill, catalog.TagAttack)
	youngerTags = catalog.Tags(catalog.TagFlee, catalog.TagHide)
)

func applyTraitRules(score float64, e *catalog.Event, actor *agents.Tribute) float64 {
	for _, r := range traitRules {
		if !actor.HasTrait(r.trait) || e.Tags&r.tags == 0 {
			continue
		}
		if len(r.items) > 0 && !holdsAny(actor, r.items) {
			continue
		}
		score *= r.mult
	}
	return score
}

func applySynergies(score float64, e *catalog.Event, group []*agents.Tribute) float64 {
	if len(group) < 2 {
		return score
	}
	for _, r := range synergyRules {
		if e.Tags&r.tags == 0 {
			continue
		}
		if groupHasAll(group, r.needs) {
			score *= r.mult
		}
	}
	return score
}

func applyWeather(score float64, e *catalog.Event, k weather.Kind) float64 {
	for _, r := range weatherRules {
		if e.Tags&r.tags == 0 {
			continue
		}
		for _, kind := range r.kinds {
			if kind == k {
				score *= r.mult
				break
			}
		}
	}
	return score
}

func holdsAny(t *agents.Tribute, items []string) bool {
	for _, item := range items {
		if t.HasItem(item) {
			return true
		}
	}
	return false
}

func groupHasAll(group []*agents.Tribute, traits []agents.Trait) bool {
	for _, trait := range traits {
		found := false
		for _, t := range group {
			if t.HasTrait(trait) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
