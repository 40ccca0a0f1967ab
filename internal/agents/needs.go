package agents

// Need thresholds. A tribute crossing one of these changes which events fit.
const (
	StarvingHunger    = 80
	InsaneSanity      = 40
	ExhaustedLevel    = 80
	InjuredHealth     = 60
	InjuredSanity     = 60
	DesperateHunger   = 90
	DesperateSanity   = 30
	DesperateHealth   = 30
	RestingExhaustion = 90 // above this a tribute skips its turn outside the Bloodbath
)

// IsStarving reports hunger above the starving line.
func (t *Tribute) IsStarving() bool {
	return t.Stats.Hunger > StarvingHunger
}

// IsInsane reports sanity below the insanity line.
func (t *Tribute) IsInsane() bool {
	return t.Stats.Sanity < InsaneSanity
}

// IsExhausted reports exhaustion above the exhausted line.
func (t *Tribute) IsExhausted() bool {
	return t.Stats.Exhaustion > ExhaustedLevel
}

// IsInjured reports low health or shaken sanity.
func (t *Tribute) IsInjured() bool {
	return t.Stats.Health < InjuredHealth || t.Stats.Sanity < InjuredSanity
}

// IsDesperate reports a tribute at the end of their rope: starving,
// nearly broken, or badly hurt.
func (t *Tribute) IsDesperate() bool {
	return t.Stats.Hunger > DesperateHunger ||
		t.Stats.Sanity < DesperateSanity ||
		t.Stats.Health < DesperateHealth
}

// NeedsRest reports exhaustion high enough to skip a turn.
func (t *Tribute) NeedsRest() bool {
	return t.Stats.Exhaustion > RestingExhaustion
}
