package spatialmath

import "github.com/golang/geo/r3"

// floatEpsilon is the tolerance within which float64s are considered equal for geometric checks.
const floatEpsilon = 1e-8

// defaultPointDensity is the surface sampling spacing used by ToPoints when no resolution is given.
const defaultPointDensity = 10.

// Geometry is an entry point with which to access all types of collision geometries.
type Geometry interface {
	// Pose returns the pose of the geometry in its reference frame.
	Pose() Pose

	// Transform premultiplies the geometry's pose by the given pose, returning a new Geometry
	// moved in space. The receiver is unmodified.
	Transform(Pose) Geometry

	// ToPoints samples the surface of the geometry, returning points spaced approximately
	// resolution apart in the geometry's reference frame. A nonpositive resolution uses a
	// default spacing.
	ToPoints(resolution float64) []r3.Vector

	// Label returns the label of the geometry.
	Label() string

	// SetLabel sets the label of the geometry.
	SetLabel(string)

	almostEqual(Geometry) bool
}

// GeometriesAlmostEqual compares two geometries and returns if they are almost equal.
func GeometriesAlmostEqual(a, b Geometry) bool {
	return a.almostEqual(b)
}
