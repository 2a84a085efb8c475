package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/collision/utils"
)

// Ordered list of box vertices, as signs on the half dimensions.
var boxVertexSigns = [8]r3.Vector{
	{X: 1, Y: 1, Z: 1},
	{X: 1, Y: 1, Z: -1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: -1},
	{X: -1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: -1, Y: -1, Z: -1},
}

// box is a collision geometry that represents a 3D rectangular prism, it has a pose and half size that fully define it.
type box struct {
	pose     Pose
	halfSize [3]float64
	label    string
}

// NewBox instantiates a new box Geometry.
func NewBox(pose Pose, dims r3.Vector, label string) (Geometry, error) {
	// Negative dimensions not allowed. Zero dimensions are allowed for bounding boxes, etc.
	if dims.X < 0 || dims.Y < 0 || dims.Z < 0 {
		return nil, newBadGeometryDimensionsError(&box{})
	}
	return &box{
		pose:     pose,
		halfSize: [3]float64{dims.X / 2, dims.Y / 2, dims.Z / 2},
		label:    label,
	}, nil
}

// String returns a human readable string that represents the box.
func (b *box) String() string {
	p := b.pose.Point()
	return fmt.Sprintf("Type: Box | Position: X:%.1f, Y:%.1f, Z:%.1f | Dims: X:%.2f, Y:%.2f, Z:%.2f",
		p.X, p.Y, p.Z, 2*b.halfSize[0], 2*b.halfSize[1], 2*b.halfSize[2])
}

// Label returns the label of this box.
func (b *box) Label() string {
	return b.label
}

// SetLabel sets the label of this box.
func (b *box) SetLabel(label string) {
	b.label = label
}

// Pose returns the pose of the box.
func (b *box) Pose() Pose {
	return b.pose
}

// Transform premultiplies the box pose with a transform, allowing the box to be moved in space.
func (b *box) Transform(toPremultiply Pose) Geometry {
	return &box{
		pose:     Compose(toPremultiply, b.pose),
		halfSize: b.halfSize,
		label:    b.label,
	}
}

// almostEqual compares the box with another geometry and checks if they are equivalent.
func (b *box) almostEqual(g Geometry) bool {
	other, ok := g.(*box)
	if !ok {
		return false
	}
	for i := 0; i < 3; i++ {
		if !utils.Float64AlmostEqual(b.halfSize[i], other.halfSize[i], 1e-8) {
			return false
		}
	}
	return PoseAlmostCoincident(b.pose, other.pose)
}

// vertices returns the vertices defining the box in its reference frame.
func (b *box) vertices() []r3.Vector {
	verts := make([]r3.Vector, 0, 8)
	for _, sign := range boxVertexSigns {
		corner := r3.Vector{X: sign.X * b.halfSize[0], Y: sign.Y * b.halfSize[1], Z: sign.Z * b.halfSize[2]}
		verts = append(verts, TransformPoint(b.pose, corner))
	}
	return verts
}

// ToPoints samples the surface of the box, returning a lattice of points on each face spaced
// approximately resolution apart, in the box's reference frame.
func (b *box) ToPoints(resolution float64) []r3.Vector {
	if resolution <= 0. {
		resolution = defaultPointDensity
	}
	var points []r3.Vector
	// fix each axis at its +/- extent in turn and lattice the opposing face pair
	for fixed := 0; fixed < 3; fixed++ {
		u := (fixed + 1) % 3
		v := (fixed + 2) % 3
		for i := -b.halfSize[u]; i <= b.halfSize[u]+floatEpsilon; i += resolution {
			for j := -b.halfSize[v]; j <= b.halfSize[v]+floatEpsilon; j += resolution {
				var pt r3.Vector
				setVectorComponent(&pt, u, i)
				setVectorComponent(&pt, v, j)
				setVectorComponent(&pt, fixed, b.halfSize[fixed])
				points = append(points, pt)
				setVectorComponent(&pt, fixed, -b.halfSize[fixed])
				points = append(points, pt)
			}
		}
	}
	return transformPointsToPose(points, b.pose)
}

// setVectorComponent sets the i'th component of an r3.Vector.
func setVectorComponent(v *r3.Vector, i int, value float64) {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		v.Z = value
	}
}

// transformPointsToPose gives vectors the proper orientation then translates them to the desired position.
func transformPointsToPose(points []r3.Vector, pose Pose) []r3.Vector {
	transformed := make([]r3.Vector, 0, len(points))
	for i := range points {
		transformed = append(transformed, TransformPoint(pose, points[i]))
	}
	return transformed
}
