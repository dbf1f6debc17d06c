// Package geom provides the planar geometry used by the exercise rules.
package geom

import "math"

// Angle normalization constants.
const (
	degreesPerRadian = 180.0 / math.Pi
	halfTurnDegrees  = 180.0
	fullTurnDegrees  = 360.0
)

// Point is a 2-D position in normalized frame coordinates. The origin is
// the top-left corner of the frame and y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Angle returns the interior angle at vertex b formed by the rays b->a and
// b->c, in degrees within [0, 180]. The result is the smaller of the two
// possible angles between the rays, regardless of point ordering or
// rotation direction. Coincident points produce a degenerate angle of 0;
// callers tolerate that rather than treat it as an error.
func Angle(a, b, c Point) float64 {
	rad := math.Atan2(c.Y-b.Y, c.X-b.X) - math.Atan2(a.Y-b.Y, a.X-b.X)
	deg := math.Abs(rad * degreesPerRadian)
	if deg > halfTurnDegrees {
		deg = fullTurnDegrees - deg
	}
	return deg
}
