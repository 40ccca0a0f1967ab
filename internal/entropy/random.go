// Package entropy provides the random sources used by the arena.
// The simulation has no reproducibility contract: New seeds from crypto/rand.
// Seeded sources exist for tests and for fingerprinted odds estimates.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Source is the subset of *math/rand.Rand the simulation draws from.
// Implementations are not required to be safe for concurrent use.
type Source interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// New returns a fast non-cryptographic generator seeded from crypto/rand.
func New() *mrand.Rand {
	return mrand.New(mrand.NewSource(cryptoSeed()))
}

// Seeded returns a generator with a fixed seed.
func Seeded(seed int64) *mrand.Rand {
	return mrand.New(mrand.NewSource(seed))
}

// cryptoSeed reads 8 bytes from crypto/rand.
func cryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// This should never happen; fall back to the global generator.
		return mrand.Int63()
	}
	return int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
}

// Chance reports whether a draw from src falls below p.
func Chance(src Source, p float64) bool {
	return src.Float64() < p
}
