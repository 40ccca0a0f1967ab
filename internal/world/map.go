package world

import (
	"fmt"
	"math"

	"github.com/talgya/tribute-arena/internal/entropy"
)

// DefaultRadius is the arena radius used when none is configured.
const DefaultRadius = 5

// wanderAttempts bounds how many random directions Wander tries.
const wanderAttempts = 6

// Arena is a bounded hex map centered on the Cornucopia.
// A hex grid of radius R contains hexes where |q|, |r|, |q+r| <= R.
type Arena struct {
	Radius int `json:"radius"`
}

// NewArena creates an arena with the given radius.
func NewArena(radius int) Arena {
	if radius < 1 {
		radius = DefaultRadius
	}
	return Arena{Radius: radius}
}

// InBounds returns true if the coordinate is within the arena radius.
func (a Arena) InBounds(coord HexCoord) bool {
	return abs(coord.Q) <= a.Radius && abs(coord.R) <= a.Radius && abs(coord.Q+coord.R) <= a.Radius
}

// HexCount returns the total number of hexes in the arena.
func (a Arena) HexCount() int {
	return 3*a.Radius*(a.Radius+1) + 1
}

// StepToward moves one hex toward target. It picks the in-bounds neighbor
// that strictly minimizes distance; if none improves, from is returned.
func (a Arena) StepToward(from, target HexCoord) HexCoord {
	best := from
	bestDist := Distance(from, target)
	for _, n := range from.Neighbors() {
		if !a.InBounds(n) {
			continue
		}
		if d := Distance(n, target); d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best
}

// Wander moves one hex in a random direction. Up to wanderAttempts
// directions are tried; if all leave the arena the position is unchanged.
func (a Arena) Wander(from HexCoord, rng entropy.Source) HexCoord {
	dir, ok := a.OpenDirection(rng, from)
	if !ok {
		return from
	}
	return from.Add(dir)
}

// OpenDirection draws up to wanderAttempts random directions and returns
// the first one that keeps every position in the arena.
func (a Arena) OpenDirection(rng entropy.Source, from ...HexCoord) (HexCoord, bool) {
	for i := 0; i < wanderAttempts; i++ {
		dir := RandomDirection(rng)
		if a.allInBounds(dir, from) {
			return dir, true
		}
	}
	return HexCoord{}, false
}

func (a Arena) allInBounds(dir HexCoord, from []HexCoord) bool {
	for _, c := range from {
		if !a.InBounds(c.Add(dir)) {
			return false
		}
	}
	return true
}

// RandomDirection returns one of the six axial directions.
func RandomDirection(rng entropy.Source) HexCoord {
	return HexNeighborDirections[rng.Intn(len(HexNeighborDirections))]
}

// Shift moves from by dir, rejecting destinations outside the arena.
func (a Arena) Shift(from, dir HexCoord) HexCoord {
	next := from.Add(dir)
	if !a.InBounds(next) {
		return from
	}
	return next
}

// SpawnRing returns the starting hex for slot index of count slots evenly
// spaced on a ring dist hexes from the center.
func (a Arena) SpawnRing(index, count, dist int) HexCoord {
	if count <= 0 {
		return Center
	}
	angle := float64(index) / float64(count) * 2 * math.Pi
	pos := HexCoord{
		Q: int(math.Round(float64(dist) * math.Cos(angle))),
		R: int(math.Round(float64(dist) * math.Sin(angle))),
	}
	for !a.InBounds(pos) {
		pos = closerTo(pos, Center)
	}
	return pos
}

// closerTo returns the neighbor of from nearest to target, ignoring bounds.
func closerTo(from, target HexCoord) HexCoord {
	best := from
	bestDist := Distance(from, target)
	for _, n := range from.Neighbors() {
		if d := Distance(n, target); d < bestDist {
			best = n
			bestDist = d
		}
	}
	return best
}

// String returns a summary of the arena.
func (a Arena) String() string {
	return fmt.Sprintf("Arena(radius=%d, hexes=%d)", a.Radius, a.HexCount())
}
