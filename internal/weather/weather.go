// Package weather forecasts arena conditions per day from smooth noise,
// so fronts persist for a few days and then roll over.
package weather

import (
	"fmt"
	"log/slog"
	"strings"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Kind is a weather condition scoring reacts to.
type Kind uint8

const (
	Clear Kind = iota
	Rain
	Heatwave
	Fog
	Storm
)

var kindNames = [...]string{"Clear", "Rain", "Heatwave", "Fog", "Storm"}

// String returns the weather label.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// MarshalText renders the weather as its label.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a weather label.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown weather %q", b)
	}
	*k = parsed
	return nil
}

// ParseKind looks a weather label up, ignoring case.
func ParseKind(s string) (Kind, bool) {
	for i, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(i), true
		}
	}
	return Clear, false
}

// Adverse reports whether the weather drives tributes to shelter.
func (k Kind) Adverse() bool {
	return k == Rain || k == Storm
}

// Description is a one-line announcement for the weather.
func (k Kind) Description() string {
	switch k {
	case Rain:
		return "A steady rain soaks the arena."
	case Heatwave:
		return "A heatwave bakes the arena; water runs scarce."
	case Fog:
		return "A thick fog settles over the arena."
	case Storm:
		return "Thunder rolls in as a storm breaks over the arena."
	default:
		return "Clear skies over the arena."
	}
}

// Noise thresholds. Wetness decides rain and storms, heat decides
// heatwaves, and the dry calm trough of wetness brings fog.
const (
	stormAbove    = 0.70
	rainAbove     = 0.60
	heatwaveAbove = 0.63
	fogBelow      = 0.36

	dayFrequency = 0.35
	octaves      = 2
	persistence  = 0.3
)

// Forecaster maps a day number to weather. The same seed always yields
// the same sequence.
type Forecaster struct {
	seed    int64
	wetness opensimplex.Noise
	heat    opensimplex.Noise
}

// NewForecaster creates a forecaster for seed.
func NewForecaster(seed int64) *Forecaster {
	return &Forecaster{
		seed:    seed,
		wetness: opensimplex.NewNormalized(seed),
		heat:    opensimplex.NewNormalized(seed + 1),
	}
}

// Seed returns the forecaster's seed.
func (f *Forecaster) Seed() int64 {
	return f.seed
}

// ForDay returns the weather on day.
func (f *Forecaster) ForDay(day int) Kind {
	x := float64(day)
	wet := octaveNoise(f.wetness, x, 0, octaves, dayFrequency, persistence)
	hot := octaveNoise(f.heat, x, 0.5, octaves, dayFrequency, persistence)

	var k Kind
	switch {
	case wet > stormAbove:
		k = Storm
	case wet > rainAbove:
		k = Rain
	case hot > heatwaveAbove:
		k = Heatwave
	case wet < fogBelow:
		k = Fog
	default:
		k = Clear
	}
	slog.Debug("weather forecast", "day", day, "wetness", wet, "heat", hot, "weather", k)
	return k
}

// Outlook returns the weather for days consecutive days starting at from.
func (f *Forecaster) Outlook(from, days int) []Kind {
	out := make([]Kind, 0, days)
	for d := from; d < from+days; d++ {
		out = append(out, f.ForDay(d))
	}
	return out
}

// octaveNoise layers several frequencies of noise. The result stays in
// the [0, 1] range of the normalized source.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
