// Package grid holds two-dimensional positions and the distance functions
// used to score them.
package grid

import (
	"fmt"
	"math"
)

// Coord is a cell position, column first.
type Coord struct {
	Column int
	Row    int
}

// At builds a Coord.
func At(column, row int) Coord { return Coord{Column: column, Row: row} }

func (c Coord) String() string {
	return fmt.Sprintf("Coord(%d, %d)", c.Column, c.Row)
}

// Manhattan is the sum of the absolute column and row differences.
func Manhattan(a, b Coord) float64 {
	return float64(abs(a.Column-b.Column) + abs(a.Row-b.Row))
}

// Euclidean is the straight-line distance between a and b.
func Euclidean(a, b Coord) float64 {
	return math.Hypot(float64(a.Column-b.Column), float64(a.Row-b.Row))
}

// ByName looks up a distance function by its configuration name.
func ByName(name string) (func(a, b Coord) float64, bool) {
	switch name {
	case "manhattan":
		return Manhattan, true
	case "euclidean":
		return Euclidean, true
	default:
		return nil, false
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
