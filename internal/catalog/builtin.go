package catalog

import "github.com/talgya/tribute-arena/internal/agents"

// Catalog is the full set of event pools.
type Catalog struct {
	Bloodbath []Event
	General   []Event
	Fatal     []Event
	Night     []Event
	Training  []Event
	Arena     []ArenaEvent
}

// PoolFor returns the events eligible in phase. The returned slice is
// freshly allocated; callers may filter it in place.
func (c *Catalog) PoolFor(phase Phase) []Event {
	var pool []Event
	switch phase {
	case PhaseBloodbath:
		pool = append(pool, c.Bloodbath...)
	case PhaseNight:
		pool = append(pool, c.Night...)
		pool = append(pool, c.Fatal...)
	case PhaseTraining:
		pool = append(pool, c.Training...)
	case PhaseDay, PhaseFeast:
		pool = append(pool, c.General...)
		pool = append(pool, c.Fatal...)
	}
	return pool
}

// Events iterates every turn-loop event with the name of its pool.
func (c *Catalog) Events(fn func(pool string, e *Event)) {
	for _, p := range []struct {
		name   string
		events []Event
	}{
		{"bloodbath", c.Bloodbath},
		{"general", c.General},
		{"fatal", c.Fatal},
		{"night", c.Night},
		{"training", c.Training},
	} {
		for i := range p.events {
			fn(p.name, &p.events[i])
		}
	}
}

// Clone copies the pool slices so appends from packs do not leak into
// the shared built-in tables.
func (c *Catalog) Clone() *Catalog {
	return &Catalog{
		Bloodbath: append([]Event(nil), c.Bloodbath...),
		General:   append([]Event(nil), c.General...),
		Fatal:     append([]Event(nil), c.Fatal...),
		Night:     append([]Event(nil), c.Night...),
		Training:  append([]Event(nil), c.Training...),
		Arena:     append([]ArenaEvent(nil), c.Arena...),
	}
}

// Builtin returns a fresh copy of the built-in catalog.
func Builtin() *Catalog {
	return builtin.Clone()
}

// Event builders for the tables below.

func ev(players int, weight float64, text string, tags ...Tag) Event {
	return Event{Text: text, Players: players, Weight: weight, Tags: Tags(tags...)}
}

// kill: (P1) kills everyone else in the group.
func kill(players int, weight float64, text string, tags ...Tag) Event {
	e := ev(players, weight, text, tags...)
	e.Fatal = true
	e.Killers = []int{0}
	for i := 1; i < players; i++ {
		e.Victims = append(e.Victims, i)
	}
	return e
}

// death: (P1) dies with nobody to blame.
func death(weight float64, text string, tags ...Tag) Event {
	e := ev(1, weight, text, tags...)
	e.Fatal = true
	e.Victims = []int{0}
	return e
}

func (e Event) gains(items ...string) Event {
	e.ItemGain = items
	return e
}

func (e Event) requires(items ...string) Event {
	e.ItemRequired = items
	return e
}

func (e Event) trait(traits ...agents.Trait) Event {
	e.TraitRequired = traits
	return e
}

func (e Event) when(c Condition) Event {
	e.Condition = c
	return e
}

func (e Event) consumes(c Consume) Event {
	e.Consume = c
	return e
}

func (e Event) hurts(damage int) Event {
	e.HealthDamage = damage
	return e
}

func (e Event) moves() Event {
	e.Movement = true
	return e
}

var builtin = &Catalog{
	Bloodbath: bloodbathEvents,
	General:   generalEvents,
	Fatal:     fatalEvents,
	Night:     nightEvents,
	Training:  trainingEvents,
	Arena:     arenaEvents,
}

var bloodbathEvents = []Event{
	ev(1, 5.0, "(P1) runs away from the Cornucopia.", TagFlee).moves(),
	ev(1, 2.0, "(P1) grabs a shield leaning against the Cornucopia.", TagSupply).gains("Shield"),
	ev(1, 2.0, "(P1) grabs a backpack, not realizing it is empty.", TagSupply).gains("Backpack"),
	kill(2, 1.0, "(P1) throws a knife into (P2)'s chest.", TagKill),
	ev(2, 1.0, "(P1) strips (P2) of their weapons and supplies.", TagTheft),
	kill(2, 1.0, "(P1) and (P2) fight for a bag. (P1) strangles (P2) with the straps.", TagKill),
	death(0.05, "(P1) steps off the podium too soon and blows up.", TagFail),
	ev(1, 1.5, "(P1) finds a bow, some arrows, and a quiver.", TagSupply).gains("Bow", "Arrows"),
	ev(3, 1.0, "(P1), (P2), and (P3) work together to get as many supplies as possible.", TagSocial),
	kill(2, 0.8, "(P1) kills (P2) with their own weapon.", TagKill),
	kill(2, 0.8, "(P1) bashes (P2)'s head against a rock.", TagKill),
	ev(1, 1.5, "(P1) snatches a First Aid Kit from the Cornucopia.", TagSupply).gains("First Aid Kit"),
	ev(1, 0.5, "(P1) finds a crate of explosives.", TagSupply).gains("Explosives"),
	ev(1, 1.5, "(P1) grabs a shovel.", TagSupply).gains("Shovel"),
	ev(1, 1.5, "(P1) grabs a bottle of alcohol and a rag.", TagSupply).gains("Molotov Components"),
	ev(1, 2.0, "(P1) finds a canteen full of water.", TagSupply, TagWater).gains("Water"),
	ev(1, 1.0, "(P1) falls down and hurts themselves.", TagFail).hurts(10),
	ev(2, 1.0, "(P1) breaks (P2)'s nose for a basket of bread.", TagAttack, TagFood).gains("Bread"),
	ev(1, 1.0, "(P1) takes a sword from the Cornucopia.", TagSupply).gains("Sword"),
	ev(1, 0.8, "(P1) grabs a trident from inside the Cornucopia.", TagSupply).gains("Trident"),
	ev(1, 1.5, "(P1) clutches a coil of rope and sprints for the trees.", TagSupply, TagFlee).gains("Rope").moves(),
	kill(2, 0.8, "(P1) cuts down (P2) with a machete before the gong stops ringing.", TagKill),
	kill(3, 0.3, "(P1) catches (P2) and (P3) fighting over a crate and kills them both.", TagKill, TagMulti),
	ev(2, 1.0, "(P1) and (P2) split up the supplies they grabbed and flee together.", TagSocial, TagFlee).moves(),
}

var generalEvents = []Event{
	ev(1, 1.0, "(P1) picks flowers.", TagIdle),
	ev(1, 1.0, "(P1) travels to higher ground.", TagTravel).moves(),
	ev(1, 1.5, "(P1) hunts for other tributes.", TagHunt),
	ev(1, 2.0, "(P1) searches for a water source.", TagSurvival, TagWater),
	ev(1, 1.5, "(P1) camouflages themselves in the bushes.", TagSurvival, TagSneak, TagHide),
	ev(1, 0.8, "(P1) questions their sanity.", TagIdle, TagSanity),
	ev(1, 1.0, "(P1) practices their archery.", TagIdle).requires("Bow"),
	ev(1, 1.0, "(P1) thinks about home.", TagIdle),

	ev(1, 3.0, "(P1) constructs an elaborate shelter that is hidden from view.", TagSurvival, TagShelter).trait(agents.TraitSurvivalist),
	ev(1, 3.0, "(P1) easily identifies edible plants, having a great meal.", TagFood).trait(agents.TraitSurvivalist),

	ev(1, 3.0, "(P1) flashes a dazzling smile at a camera, receiving a gift from a sponsor.", TagSponsor, TagFood).trait(agents.TraitCharming),
	ev(2, 2.0, "(P1) convinces (P2) not to kill them using their charm.", TagSocial, TagMercy).trait(agents.TraitCharming),

	ev(1, 0.5, "(P1) receives a First Aid Kit from a sponsor.", TagSponsor).gains("First Aid Kit"),
	ev(1, 1.0, "(P1) crafts a crude spear from a fallen branch.", TagSupply).gains("Spear"),
	ev(1, 1.0, "(P1) discovers a hidden cave.", TagTravel, TagShelter).moves(),
	ev(1, 0.5, "(P1) finds a dead tribute and loots their body.", TagSupply).gains("Knife"),
	ev(1, 0.8, "(P1) sharpens a stick into a stake.", TagSupply).gains("Stick"),
	ev(1, 0.6, "(P1) strips wire from an old snare.", TagSupply).gains("Wire"),

	ev(1, 10.0, "(P1) uses their First Aid Kit to treat their wounds.", TagHeal).requires("First Aid Kit").consumes(ConsumeAll).when(CondInjured),
	ev(1, 6.0, "(P1) wraps their wounds with bandages.", TagHeal).requires("Bandages").consumes(ConsumeAll).when(CondInjured),
	ev(1, 6.0, "(P1) takes some medicine from a sponsor parcel.", TagHeal).requires("Medicine").consumes(ConsumeAll).when(CondInjured),
	ev(1, 4.0, "(P1) eats the last of their bread.", TagFood).requires("Bread").consumes(ConsumeAll).when(CondStarving),
	ev(1, 3.0, "(P1) rations out their water.", TagWater, TagFood).requires("Water").consumes(ConsumeAll),
	ev(1, 3.0, "(P1) builds a fire, cooks their food, and packs away the rope.", TagFood, TagCamp).requires("Food", "Rope").consumes(ConsumeOnly("Food")),

	ev(1, 1.0, "(P1) finds a fruit tree and eats their fill.", TagFood),
	ev(1, 1.0, "(P1) catches a fish in the nearby stream.", TagFood, TagWater),
	ev(1, 0.5, "(P1) receives fresh food from an unknown sponsor.", TagFood, TagSponsor).gains("Food"),
	ev(1, 1.0, "(P1) steals eggs from a bird's nest.", TagFood),

	ev(2, 0.5, "(P1) begs for (P2) to kill them. (P2) refuses, keeping (P1) alive.", TagSocial, TagMercy),
	ev(2, 1.0, "(P1) and (P2) hunt for other tributes.", TagSocial, TagHunt),
	ev(2, 0.8, "(P1) tends to (P2)'s wounds.", TagSocial, TagHeal),
	ev(2, 1.0, "(P1) and (P2) work together for the day.", TagSocial),
	ev(3, 0.6, "(P1), (P2), and (P3) raid an abandoned camp together.", TagSocial, TagSupply).gains("Food"),
	ev(2, 1.0, "(P1) stalks (P2).", TagHunt),
	ev(2, 0.8, "(P1) steals from (P2)'s camp while they are distracted.", TagTheft, TagSneak),
	ev(2, 1.0, "(P1) and (P2) scream at each other over a dead rabbit.", TagAttack, TagFood).hurts(5),
	ev(1, 1.0, "(P1) sees smoke rising in the distance, but decides not to investigate.", TagTravel, TagCaution),

	ev(1, 5.0, "(P1) passes out from hunger.", TagStarve).when(CondStarving).hurts(10),
	death(2.0, "(P1) eats toxic berries in desperation.", TagStarve).when(CondStarving),
	ev(1, 2.0, "(P1) drinks tainted water and becomes ill.", TagFail, TagWater).hurts(15),
	ev(1, 1.5, "(P1) collapses from heatstroke.", TagExhaustion).hurts(20),

	ev(2, 3.0, "(P1) hallucinates that (P2) is a monster and attacks!", TagInsanity, TagAttack).when(CondInsane),
	ev(1, 2.0, "(P1) screams at the sky, begging for it to end.", TagInsanity).when(CondInsane),
	ev(1, 2.0, "(P1) talks to a rock, convinced it is their ally.", TagInsanity).when(CondInsane),
	death(1.0, "(P1) walks into the river and does not come back out.", TagSuicide),

	ev(2, 5.0, "(P1), starving, attacks (P2) in a frenzy to steal their supplies!", TagDesperate, TagAttack, TagTheft).when(CondDesperate),
	ev(1, 4.0, "(P1) eats raw meat from a dead animal out of desperation.", TagDesperate, TagFood).when(CondDesperate),
	ev(2, 4.0, "(P1) chases (P2) for miles, fueled purely by adrenaline and madness.", TagDesperate, TagHunt).when(CondDesperate),
	ev(1, 2.0, "(P1) eats a handful of unknown mushrooms. They miraculously feel full.", TagDesperate, TagFood).when(CondStarving),
	death(2.0, "(P1) attempts to climb a cliff to reach a bird's nest but falls to their death.", TagDesperate, TagAccident).when(CondDesperate),
}

var fatalEvents = []Event{
	kill(2, 1.0, "(P1) stabs (P2) while (P2)'s back is turned.", TagKill, TagSneak),
	kill(2, 1.0, "(P1) ambushes (P2) and kills them.", TagKill, TagAmbush),
	death(0.2, "(P1) accidentally steps on a landmine.", TagAccident),
	death(0.5, "(P1) dies from hypothermia.", TagElements),
	death(0.2, "(P1) falls into a pit and dies.", TagAccident),
	kill(2, 1.0, "(P1) tracks down and kills (P2).", TagKill, TagHunt),
	kill(2, 0.5, "(P1) sets (P2) on fire with a molotov.", TagKill, TagFire).requires("Molotov Components").consumes(ConsumeAll),
	kill(3, 0.3, "(P1), (P2), and (P3) get into a fight. (P1) kills them both.", TagKill, TagMulti),
	kill(2, 0.8, "(P1) severely injures (P2) and leaves them to die.", TagKill, TagCruel),
	kill(2, 0.8, "(P1) pushes (P2) off a cliff during a struggle.", TagKill, TagEnvironment),
	kill(2, 0.8, "(P1) strangles (P2) with a rope.", TagKill).requires("Rope"),
	death(2.0, "(P1) bleeds out from untreated injuries.", TagDeath).when(CondInjured),

	kill(2, 5.0, "(P1) shoots an arrow into (P2)'s head.", TagKill).requires("Bow", "Arrows"),
	kill(2, 5.0, "(P1) throws a spear into (P2)'s chest.", TagKill).requires("Spear").consumes(ConsumeAll),
	kill(3, 10.0, "(P1) detonates explosives, killing (P2) and (P3) instantly.", TagKill, TagExplosive, TagMulti).requires("Explosives").consumes(ConsumeAll),
	kill(2, 5.0, "(P1) bashes (P2) with a shovel.", TagKill).requires("Shovel"),
	kill(2, 5.0, "(P1) runs (P2) through with a sword.", TagKill).requires("Sword"),
	kill(2, 4.0, "(P1) spears (P2) with a trident from the water's edge.", TagKill, TagAmbush).requires("Trident"),
	kill(2, 6.0, "(P1) shoots (P2) from across the clearing.", TagKill).requires("Gun"),

	kill(2, 3.0, "(P1) mercilessly snaps (P2)'s neck.", TagKill).trait(agents.TraitRuthless),
	kill(2, 3.0, "(P1), in a fit of insanity, mistakes (P2) for a dummy and dismembers them.", TagKill, TagInsanity).trait(agents.TraitUnstable),
	kill(2, 2.0, "(P1) lures (P2) into a snare and leaves them hanging.", TagKill, TagSneak).trait(agents.TraitDevious),

	kill(2, 5.0, "(P1) overpowers (P2) in a frenzy, killing them for their backpack.", TagKill, TagDesperate).when(CondDesperate),
}

var nightEvents = []Event{
	ev(1, 2.0, "(P1) goes to sleep.", TagSleep),
	ev(1, 1.0, "(P1) starts a fire.", TagCamp, TagFire),
	ev(1, 0.5, "(P1) screams for help.", TagFear),
	ev(1, 5.0, "(P1) passes out from exhaustion.", TagSleep, TagExhaustion).when(CondExhausted),
	ev(2, 1.0, "(P1) and (P2) tell stories about themselves to each other.", TagSocial),
	ev(1, 0.5, "(P1) quietly hums.", TagIdle),
	ev(1, 1.0, "(P1) climbs a tree to rest.", TagSleep, TagHide),
	kill(2, 1.5, "(P1) stabs (P2) in their sleep.", TagKill, TagSneak).trait(agents.TraitRuthless),
	ev(1, 1.0, "(P1) cries themselves to sleep.", TagSadness, TagSleep),
	ev(1, 1.0, "(P1) stays awake all night.", TagInsomnia),
	ev(1, 2.0, "(P1) tries to treat their infection.", TagHeal).when(CondInjured),
	ev(2, 1.0, "(P1) and (P2) huddle for warmth.", TagSocial, TagShelter),
	ev(1, 1.0, "(P1) sees a fire in the distance but stays put.", TagCaution),
	ev(1, 1.5, "(P1) loses their grip on reality.", TagInsanity).when(CondInsane),
	ev(1, 1.0, "(P1) digs a shelter into the hillside.", TagShelter, TagSurvival).requires("Shovel"),
	ev(2, 0.8, "(P1) and (P2) take turns keeping watch.", TagSocial, TagSleep),
	ev(2, 0.6, "(P1) slips into (P2)'s camp and makes off with their pack.", TagTheft, TagSneak),
}

var trainingEvents = []Event{
	ev(1, 1.0, "(P1) practices with throwing knives.", TagSkill),
	ev(1, 1.0, "(P1) lifts weights for hours.", TagSkill),
	ev(1, 1.0, "(P1) learns to tie snares at the trapping station.", TagSkill, TagSurvival),
	ev(1, 1.0, "(P1) studies edible plants with the instructor.", TagSurvival),
	ev(1, 1.0, "(P1) spends the session practising camouflage.", TagStealth),
	ev(1, 0.8, "(P1) sits alone and watches the other tributes.", TagStealth, TagIdle),
	ev(2, 1.0, "(P1) and (P2) spar with wooden swords.", TagSkill, TagSocial),
	ev(2, 1.0, "(P1) shares a meal with (P2) in the training centre.", TagSocial),
	ev(2, 0.8, "(P1) shows off in front of (P2) to intimidate them.", TagIntimidate),
	ev(2, 0.6, "(P1) knocks (P2) off the climbing wall.", TagIntimidate, TagSkill),
	ev(2, 0.8, "(P1) teaches (P2) how to start a fire.", TagSocial, TagSurvival),
}

var arenaEvents = []ArenaEvent{
	{Text: "A wall of fire sweeps through the forest.", Damage: 30},
	{Text: "Acid rain falls from the sky.", Damage: 20},
	{Text: "Tracker jacker nests are shaken loose across the arena.", Damage: 25, SanityLoss: 10},
	{Text: "Mutts howling with the voices of the dead roam the arena.", SanityLoss: 25},
	{Text: "Jabberjays mimic the screams of loved ones all night.", SanityLoss: 30},
	{Text: "A poisonous fog rolls down from the mountains.", Damage: 35},
	{Text: "The arena floods as the river bursts its banks.", Damage: 15, SanityLoss: 5},
	{Text: "Parachutes drift down carrying food for everyone.", Feed: true},
	{Text: "A warm rain falls and the Gamemakers send medicine on the wind.", Heal: true},
}
