package entropy

import "testing"

func TestChanceBounds(t *testing.T) {
	src := Seeded(1)
	for i := 0; i < 1000; i++ {
		if Chance(src, 0) {
			t.Fatalf("Chance(0) succeeded")
		}
		if !Chance(src, 1) {
			t.Fatalf("Chance(1) failed")
		}
	}
}

func TestChanceRate(t *testing.T) {
	src := Seeded(7)
	hits := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if Chance(src, 0.3) {
			hits++
		}
	}
	if rate := float64(hits) / n; rate < 0.28 || rate > 0.32 {
		t.Fatalf("rate = %.3f, want about 0.3", rate)
	}
}

func TestSeededRepeats(t *testing.T) {
	a, b := Seeded(42), Seeded(42)
	for i := 0; i < 10; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatalf("same seed diverged at draw %d", i)
		}
	}
}
