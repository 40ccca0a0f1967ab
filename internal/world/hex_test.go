package world

import (
	"testing"

	"github.com/talgya/tribute-arena/internal/entropy"
)

func cubeMax(a, b HexCoord) int {
	m := abs(a.Q - b.Q)
	if r := abs(a.R - b.R); r > m {
		m = r
	}
	if s := abs(a.S() - b.S()); s > m {
		m = s
	}
	return m
}

func TestDistanceMatchesCubeMaximum(t *testing.T) {
	arena := NewArena(4)
	for q := -4; q <= 4; q++ {
		for r := -4; r <= 4; r++ {
			a := HexCoord{Q: q, R: r}
			if !arena.InBounds(a) {
				continue
			}
			for _, b := range []HexCoord{{0, 0}, {2, -1}, {-3, 3}, {4, -4}} {
				if got, want := Distance(a, b), cubeMax(a, b); got != want {
					t.Fatalf("Distance(%v, %v) = %d, want %d", a, b, got, want)
				}
			}
		}
	}
}

func TestDistanceNeighborsAreAdjacent(t *testing.T) {
	origin := HexCoord{Q: 1, R: -2}
	for _, n := range origin.Neighbors() {
		if d := Distance(origin, n); d != 1 {
			t.Fatalf("neighbor %v at distance %d, want 1", n, d)
		}
	}
}

func TestInBounds(t *testing.T) {
	arena := NewArena(5)
	cases := []struct {
		coord HexCoord
		want  bool
	}{
		{HexCoord{0, 0}, true},
		{HexCoord{5, 0}, true},
		{HexCoord{5, -5}, true},
		{HexCoord{3, 3}, false},
		{HexCoord{-6, 0}, false},
		{HexCoord{0, 6}, false},
	}
	for _, c := range cases {
		if got := arena.InBounds(c.coord); got != c.want {
			t.Fatalf("InBounds(%v) = %v, want %v", c.coord, got, c.want)
		}
	}
	if got := arena.HexCount(); got != 91 {
		t.Fatalf("HexCount() = %d, want 91", got)
	}
}

func TestStepTowardNeverIncreasesDistance(t *testing.T) {
	arena := NewArena(5)
	targets := []HexCoord{{0, 0}, {5, -5}, {-5, 0}, {2, 3}}
	for q := -5; q <= 5; q++ {
		for r := -5; r <= 5; r++ {
			from := HexCoord{Q: q, R: r}
			if !arena.InBounds(from) {
				continue
			}
			for _, target := range targets {
				before := Distance(from, target)
				next := arena.StepToward(from, target)
				after := Distance(next, target)
				if !arena.InBounds(next) {
					t.Fatalf("StepToward(%v, %v) left the arena: %v", from, target, next)
				}
				if before > 0 && after != before-1 {
					t.Fatalf("StepToward(%v, %v) distance %d -> %d", from, target, before, after)
				}
				if before == 0 && next != from {
					t.Fatalf("StepToward at target moved to %v", next)
				}
			}
		}
	}
}

func TestStepTowardOutsideTargetStaysInArena(t *testing.T) {
	arena := NewArena(2)
	from := HexCoord{Q: 2, R: 0}
	next := arena.StepToward(from, HexCoord{Q: 9, R: 0})
	if !arena.InBounds(next) {
		t.Fatalf("moved outside arena: %v", next)
	}
	if Distance(next, HexCoord{Q: 9, R: 0}) > Distance(from, HexCoord{Q: 9, R: 0}) {
		t.Fatalf("distance increased")
	}
}

func TestWanderStaysInBounds(t *testing.T) {
	arena := NewArena(3)
	rng := entropy.Seeded(7)
	pos := HexCoord{Q: 3, R: -3}
	for i := 0; i < 500; i++ {
		next := arena.Wander(pos, rng)
		if !arena.InBounds(next) {
			t.Fatalf("wandered outside arena: %v", next)
		}
		if next != pos && Distance(pos, next) != 1 {
			t.Fatalf("wander jumped from %v to %v", pos, next)
		}
		pos = next
	}
}

func TestShiftRejectsOutOfBounds(t *testing.T) {
	arena := NewArena(1)
	from := HexCoord{Q: 1, R: 0}
	if got := arena.Shift(from, HexCoord{Q: 1, R: 0}); got != from {
		t.Fatalf("Shift out of bounds = %v, want %v", got, from)
	}
	if got := arena.Shift(from, HexCoord{Q: -1, R: 0}); got != Center {
		t.Fatalf("Shift inward = %v, want center", got)
	}
}

func TestSpawnRingInBounds(t *testing.T) {
	for _, radius := range []int{1, 2, 5} {
		arena := NewArena(radius)
		for i := 0; i < 12; i++ {
			pos := arena.SpawnRing(i+1, 12, 3)
			if !arena.InBounds(pos) {
				t.Fatalf("radius %d slot %d spawned outside arena at %v", radius, i, pos)
			}
		}
	}
}

func TestOpenDirectionKeepsEveryoneInside(t *testing.T) {
	arena := NewArena(5)
	rng := entropy.Seeded(3)
	from := []HexCoord{{Q: 5, R: 0}, {Q: 4, R: 0}}
	found := 0
	for i := 0; i < 1000; i++ {
		dir, ok := arena.OpenDirection(rng, from...)
		if !ok {
			continue
		}
		found++
		for _, c := range from {
			if !arena.InBounds(c.Add(dir)) {
				t.Fatalf("direction %v carries %v outside", dir, c)
			}
		}
	}
	// Half the directions are open, so six draws fail about 1.6% of the time.
	if found < 950 {
		t.Fatalf("found an open direction only %d/1000 times", found)
	}
}

func TestOpenDirectionWhenBoxedIn(t *testing.T) {
	arena := NewArena(1)
	// No single direction keeps opposite corners inside.
	from := []HexCoord{{Q: 1, R: 0}, {Q: -1, R: 0}, {Q: 0, R: 1}, {Q: 0, R: -1}, {Q: 1, R: -1}, {Q: -1, R: 1}}
	if _, ok := arena.OpenDirection(entropy.Seeded(1), from...); ok {
		t.Fatalf("found a direction that keeps the whole ring inside")
	}
}
