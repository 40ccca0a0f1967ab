package weather

import "testing"

func TestForecasterIsDeterministic(t *testing.T) {
	a := NewForecaster(42).Outlook(1, 30)
	b := NewForecaster(42).Outlook(1, 30)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("day %d: %s vs %s for the same seed", i+1, a[i], b[i])
		}
	}
}

func TestForecasterStaysInRange(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		for _, k := range NewForecaster(seed).Outlook(0, 40) {
			if k > Storm {
				t.Fatalf("seed %d produced out-of-range weather %d", seed, k)
			}
		}
	}
}

func TestForecasterProducesVariety(t *testing.T) {
	seen := map[Kind]bool{}
	for seed := int64(0); seed < 50; seed++ {
		for _, k := range NewForecaster(seed).Outlook(0, 20) {
			seen[k] = true
		}
	}
	if len(seen) < 3 {
		t.Fatalf("only saw %d kinds of weather across 1000 days", len(seen))
	}
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{Clear, Rain, Heatwave, Fog, Storm} {
		b, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Kind
		if err := back.UnmarshalText(b); err != nil || back != k {
			t.Fatalf("text round trip of %s gave %s, %v", k, back, err)
		}
	}
	var k Kind
	if err := k.UnmarshalText([]byte("Hail")); err == nil {
		t.Fatalf("UnmarshalText accepted unknown weather")
	}
	if !Storm.Adverse() || !Rain.Adverse() || Fog.Adverse() {
		t.Fatalf("Adverse mismatch")
	}
}
