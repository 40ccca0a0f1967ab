// Package director paces the contest. It turns the current lull, head
// count and calendar into a single aggression multiplier that scales every
// fatal event for the phase.
package director

// Pacing is what the director looks at once per phase.
type Pacing struct {
	FatalityRate       float64
	DaysSinceLastDeath int
	AliveCount         int
	Day                int
	MaxDays            int
	Bloodbath          bool
	Feast              bool
}

// Director tuning.
const (
	BloodbathAggression = 5.0

	lullPhases      = 2 // phases without a death before the director steps in
	lullMultiplier  = 2.0
	endgameAlive    = 4
	endgameMult     = 3.0
	overtimeMult    = 4.0
	feastMultiplier = 2.0
	earlyDeathCap   = 4 // deaths per phase tolerated before MinDays
)

// Aggression returns the fatal-event multiplier for the phase.
func Aggression(p Pacing) float64 {
	a := p.FatalityRate
	if a < 0 {
		a = 0
	}
	if p.DaysSinceLastDeath > lullPhases {
		a *= lullMultiplier
	}
	if p.AliveCount <= endgameAlive {
		a *= endgameMult
	}
	if p.Bloodbath {
		a = BloodbathAggression
	}
	if p.MaxDays > 0 && p.Day > p.MaxDays {
		a *= overtimeMult
	}
	if p.Feast {
		a *= feastMultiplier
	}
	return a
}

// ArenaEventChance is the probability a hazard fires on a Day phase.
func ArenaEventChance(day, maxDays int) float64 {
	if maxDays > 0 && day > maxDays {
		return 0.5
	}
	return 0.15
}

// FeastDay is the day the feast is held, or 0 if the schedule has none.
func FeastDay(minDays int) int {
	d := minDays / 2
	if d <= 1 {
		return 0
	}
	return d
}

// IsFeast reports whether the Day phase of day hosts the feast.
func IsFeast(day, minDays int) bool {
	fd := FeastDay(minDays)
	return fd > 0 && day == fd
}

// ThrottleDeaths reports whether lethal events should be withheld for the
// rest of the phase: too many deaths this early burns through the roster.
func ThrottleDeaths(day, minDays, deathsThisPhase int, bloodbath bool) bool {
	return !bloodbath && day < minDays && deathsThisPhase > earlyDeathCap
}
