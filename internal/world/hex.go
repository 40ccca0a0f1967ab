// Package world provides the arena's hex grid and movement rules.
// Uses axial coordinates (q, r); the third cube coordinate is s = -q - r.
package world

// HexCoord represents a position on the hex grid using axial coordinates.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// S returns the implicit third cube coordinate.
func (h HexCoord) S() int {
	return -h.Q - h.R
}

// Add returns h shifted by d.
func (h HexCoord) Add(d HexCoord) HexCoord {
	return HexCoord{Q: h.Q + d.Q, R: h.R + d.R}
}

// Center is the Cornucopia.
var Center = HexCoord{}

// HexNeighborDirections defines the six neighbor offsets in axial coordinates.
var HexNeighborDirections = [6]HexCoord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Neighbors returns the six adjacent hex coordinates.
func (h HexCoord) Neighbors() [6]HexCoord {
	var result [6]HexCoord
	for i, dir := range HexNeighborDirections {
		result[i] = h.Add(dir)
	}
	return result
}

// Distance returns the hex distance between two coordinates using the
// cube-coordinate formula (|dq| + |dq+dr| + |dr|) / 2.
func Distance(a, b HexCoord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	return (abs(dq) + abs(dq+dr) + abs(dr)) / 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
