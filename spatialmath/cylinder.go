package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collision/utils"
)

// cylinder is a collision geometry that represents a cylinder whose axis of symmetry is the Z axis
// of its pose, it has a radius and a length that fully define it.
type cylinder struct {
	pose   Pose
	radius float64
	length float64
	label  string
}

// NewCylinder instantiates a new cylinder Geometry.
func NewCylinder(pose Pose, radius, length float64, label string) (Geometry, error) {
	if radius <= 0 || length <= 0 {
		return nil, newBadGeometryDimensionsError(&cylinder{})
	}
	return &cylinder{pose, radius, length, label}, nil
}

// String returns a human readable string that represents the cylinder.
func (c *cylinder) String() string {
	p := c.pose.Point()
	return fmt.Sprintf("Type: Cylinder | Position: X:%.1f, Y:%.1f, Z:%.1f | Radius: %.2f, Length: %.2f",
		p.X, p.Y, p.Z, c.radius, c.length)
}

// Label returns the label of this cylinder.
func (c *cylinder) Label() string {
	return c.label
}

// SetLabel sets the label of this cylinder.
func (c *cylinder) SetLabel(label string) {
	c.label = label
}

// Pose returns the pose of the cylinder.
func (c *cylinder) Pose() Pose {
	return c.pose
}

// Transform premultiplies the cylinder pose with a transform, allowing the cylinder to be moved in space.
func (c *cylinder) Transform(toPremultiply Pose) Geometry {
	return &cylinder{Compose(toPremultiply, c.pose), c.radius, c.length, c.label}
}

// almostEqual compares the cylinder with another geometry and checks if they are equivalent.
func (c *cylinder) almostEqual(g Geometry) bool {
	other, ok := g.(*cylinder)
	if !ok {
		return false
	}
	return utils.Float64AlmostEqual(c.radius, other.radius, 1e-8) &&
		utils.Float64AlmostEqual(c.length, other.length, 1e-8) &&
		PoseAlmostCoincident(c.pose, other.pose)
}

// ToPoints samples the surface of the cylinder, covering the lateral surface with rings of points
// and the two end caps with concentric circles, spaced approximately resolution apart.
func (c *cylinder) ToPoints(resolution float64) []r3.Vector {
	if resolution <= 0. {
		resolution = defaultPointDensity
	}
	var points []r3.Vector
	circumference := 2 * math.Pi * c.radius
	n := int(math.Ceil(circumference / resolution))
	if n < 8 {
		n = 8
	}
	// lateral surface
	for z := -c.length / 2; z <= c.length/2+floatEpsilon; z += resolution {
		for i := 0; i < n; i++ {
			theta := 2 * math.Pi * float64(i) / float64(n)
			points = append(points, r3.Vector{X: c.radius * math.Cos(theta), Y: c.radius * math.Sin(theta), Z: z})
		}
	}
	// end caps
	for r := 0.; r < c.radius; r += resolution {
		m := int(math.Ceil(2 * math.Pi * r / resolution))
		if m < 1 {
			m = 1
		}
		for i := 0; i < m; i++ {
			theta := 2 * math.Pi * float64(i) / float64(m)
			x, y := r*math.Cos(theta), r*math.Sin(theta)
			points = append(points,
				r3.Vector{X: x, Y: y, Z: c.length / 2},
				r3.Vector{X: x, Y: y, Z: -c.length / 2},
			)
		}
	}
	return transformPointsToPose(points, c.pose)
}
