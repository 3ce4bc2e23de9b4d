package core

import "math"

// NoSnapshot is the Estimate.Snapshot value of algorithms that do not match
// against individual snapshots.
const NoSnapshot = -1

// Estimate is the outcome of a heading query.
type Estimate struct {
	// Heading is the correction in degrees, in (-180, 180].
	Heading float64
	// Snapshot is the index of the best-matching snapshot, or NoSnapshot.
	Snapshot int
	// Score is the lowest difference (or novelty) found during the scan.
	Score float32
}

// Radians returns the heading in radians.
func (e Estimate) Radians() float64 {
	return e.Heading * math.Pi / 180
}

// WrapDegrees maps an angle into (-180, 180].
func WrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg <= -180 {
		deg += 360
	} else if deg > 180 {
		deg -= 360
	}
	return deg
}
