package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/collision/utils"
)

// sphere is a collision geometry that represents a sphere, it has a pose and a radius that fully define it.
type sphere struct {
	pose   Pose
	radius float64
	label  string
}

// NewSphere instantiates a new sphere Geometry.
func NewSphere(pose Pose, radius float64, label string) (Geometry, error) {
	if radius <= 0 {
		return nil, newBadGeometryDimensionsError(&sphere{})
	}
	return &sphere{pose, radius, label}, nil
}

// String returns a human readable string that represents the sphere.
func (s *sphere) String() string {
	p := s.pose.Point()
	return fmt.Sprintf("Type: Sphere | Position: X:%.1f, Y:%.1f, Z:%.1f | Radius: %.2f", p.X, p.Y, p.Z, s.radius)
}

// Label returns the label of this sphere.
func (s *sphere) Label() string {
	return s.label
}

// SetLabel sets the label of this sphere.
func (s *sphere) SetLabel(label string) {
	s.label = label
}

// Pose returns the pose of the sphere.
func (s *sphere) Pose() Pose {
	return s.pose
}

// Transform premultiplies the sphere pose with a transform, allowing the sphere to be moved in space.
func (s *sphere) Transform(toPremultiply Pose) Geometry {
	return &sphere{Compose(toPremultiply, s.pose), s.radius, s.label}
}

// almostEqual compares the sphere with another geometry and checks if they are equivalent.
func (s *sphere) almostEqual(g Geometry) bool {
	other, ok := g.(*sphere)
	if !ok {
		return false
	}
	return utils.Float64AlmostEqual(s.radius, other.radius, 1e-8) && PoseAlmostCoincident(s.pose, other.pose)
}

// ToPoints samples the surface of the sphere along a golden spiral, with the point count chosen
// so that neighboring points are spaced approximately resolution apart.
func (s *sphere) ToPoints(resolution float64) []r3.Vector {
	if resolution <= 0. {
		resolution = defaultPointDensity
	}
	area := 4 * math.Pi * s.radius * s.radius
	n := int(math.Ceil(area / (resolution * resolution)))
	if n < 6 {
		n = 6
	}
	phi := math.Pi * (3. - math.Sqrt(5.)) // golden angle
	points := make([]r3.Vector, 0, n)
	for i := 0; i < n; i++ {
		y := 1. - (float64(i)/float64(n-1))*2. // y goes from 1 to -1
		r := math.Sqrt(1. - y*y)
		theta := phi * float64(i)
		pt := r3.Vector{X: math.Cos(theta) * r, Y: y, Z: math.Sin(theta) * r}
		points = append(points, pt.Mul(s.radius))
	}
	return transformPointsToPose(points, s.pose)
}
