package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Mesh is a collision geometry that represents a set of triangles. The triangles are expressed
// in the frame of the mesh, like the corners of a box, and the pose places that frame.
// For signed distance queries to be meaningful the triangles should form a closed surface with
// consistent outward-facing normals.
type Mesh struct {
	pose      Pose
	triangles []*Triangle
	label     string
}

// NewMesh creates a mesh from the given triangles.
func NewMesh(pose Pose, triangles []*Triangle, label string) *Mesh {
	return &Mesh{
		pose:      pose,
		triangles: triangles,
		label:     label,
	}
}

// String returns a human readable string that represents the mesh.
func (m *Mesh) String() string {
	p := m.pose.Point()
	return fmt.Sprintf("Type: Mesh | Position: X:%.1f, Y:%.1f, Z:%.1f | Triangles: %d", p.X, p.Y, p.Z, len(m.triangles))
}

// Label returns the label of this mesh.
func (m *Mesh) Label() string {
	return m.label
}

// SetLabel sets the label of this mesh.
func (m *Mesh) SetLabel(label string) {
	m.label = label
}

// Pose returns the pose of the mesh.
func (m *Mesh) Pose() Pose {
	return m.pose
}

// Triangles returns the triangles associated with the mesh.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Transform premultiplies the mesh pose with a transform, allowing the mesh to be moved in space.
// Triangle points are in the frame of the mesh so they are not transformed.
func (m *Mesh) Transform(toPremultiply Pose) Geometry {
	return &Mesh{
		pose:      Compose(toPremultiply, m.pose),
		triangles: m.triangles,
		label:     m.label,
	}
}

// almostEqual compares the mesh with another geometry and checks if they are equivalent.
// Two meshes are only considered equal if their triangles are in the same order.
func (m *Mesh) almostEqual(g Geometry) bool {
	other, ok := g.(*Mesh)
	if !ok || len(m.triangles) != len(other.triangles) {
		return false
	}
	if !PoseAlmostCoincident(m.pose, other.pose) {
		return false
	}
	for i, t := range m.triangles {
		otherPts := other.triangles[i].Points()
		for j, pt := range t.Points() {
			if !R3VectorAlmostEqual(pt, otherPts[j], 1e-8) {
				return false
			}
		}
	}
	return true
}

// ToPoints samples the surface of the mesh, returning each triangle's vertices plus a barycentric
// lattice of interior points spaced approximately resolution apart, in the mesh's reference frame.
func (m *Mesh) ToPoints(resolution float64) []r3.Vector {
	if resolution <= 0. {
		resolution = defaultPointDensity
	}
	var points []r3.Vector
	for _, t := range m.triangles {
		pts := t.Points()
		p0, p1, p2 := pts[0], pts[1], pts[2]
		maxEdge := math.Max(p1.Sub(p0).Norm(), math.Max(p2.Sub(p1).Norm(), p0.Sub(p2).Norm()))
		n := int(math.Ceil(maxEdge / resolution))
		if n < 1 {
			n = 1
		}
		for i := 0; i <= n; i++ {
			for j := 0; j <= n-i; j++ {
				u := float64(i) / float64(n)
				v := float64(j) / float64(n)
				points = append(points, p0.Mul(1-u-v).Add(p1.Mul(u)).Add(p2.Mul(v)))
			}
		}
	}
	return transformPointsToPose(points, m.pose)
}

// closestTriangle returns the mesh triangle whose surface is closest to the given point in the
// mesh frame, along with the closest point on that triangle.
func (m *Mesh) closestTriangle(pt r3.Vector) (*Triangle, r3.Vector) {
	bestDist := math.Inf(1)
	var bestTri *Triangle
	var bestPt r3.Vector
	for _, t := range m.triangles {
		closest := t.ClosestPointToPoint(pt)
		if d := pt.Sub(closest).Norm2(); d < bestDist {
			bestDist = d
			bestTri = t
			bestPt = closest
		}
	}
	return bestTri, bestPt
}
