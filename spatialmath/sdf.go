package spatialmath

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"
)

// ToSDF returns an analytic signed distance function for the geometry, posed in the geometry's
// reference frame. Distances are negative inside the geometry and positive outside. It is used
// to rasterize geometries into discretized distance fields.
func ToSDF(g Geometry) (sdf.SDF3, error) {
	var s sdf.SDF3
	var err error
	switch gt := g.(type) {
	case *box:
		if gt.halfSize[0] <= floatEpsilon || gt.halfSize[1] <= floatEpsilon || gt.halfSize[2] <= floatEpsilon {
			return nil, newZeroVolumeError(g)
		}
		s, err = sdf.Box3D(v3.Vec{X: 2 * gt.halfSize[0], Y: 2 * gt.halfSize[1], Z: 2 * gt.halfSize[2]}, 0)
	case *sphere:
		s, err = sdf.Sphere3D(gt.radius)
	case *cylinder:
		s, err = sdf.Cylinder3D(gt.length, gt.radius, 0)
	case *Mesh:
		if len(gt.triangles) == 0 {
			return nil, newZeroVolumeError(g)
		}
		s = &meshSDF{mesh: gt, bb: meshBoundingBox(gt)}
	default:
		return nil, newSDFTypeUnsupportedError(g)
	}
	if err != nil {
		return nil, err
	}
	return sdf.Transform3D(s, poseToM44(g.Pose())), nil
}

// poseToM44 converts a rigid transform to the homogeneous matrix form sdfx uses to move SDFs.
func poseToM44(p Pose) sdf.M44 {
	ea := p.Orientation().EulerAngles()
	rot := sdf.RotateZ(ea.Yaw).Mul(sdf.RotateY(ea.Pitch)).Mul(sdf.RotateX(ea.Roll))
	pt := p.Point()
	return sdf.Translate3d(v3.Vec{X: pt.X, Y: pt.Y, Z: pt.Z}).Mul(rot)
}

// meshSDF adapts a triangle mesh to the sdf.SDF3 interface. The distance to the closest triangle
// is signed by which side of that triangle's plane the query point falls on, which is correct for
// closed meshes with outward-facing normals.
type meshSDF struct {
	mesh *Mesh
	bb   sdf.Box3
}

// Evaluate returns the signed distance from the point to the mesh surface.
func (ms *meshSDF) Evaluate(p v3.Vec) float64 {
	pt := r3.Vector{X: p.X, Y: p.Y, Z: p.Z}
	tri, closest := ms.mesh.closestTriangle(pt)
	dist := pt.Sub(closest).Norm()
	if pt.Sub(closest).Dot(tri.Normal()) < 0 {
		return -dist
	}
	return dist
}

// BoundingBox returns the axis-aligned bounding box of the mesh.
func (ms *meshSDF) BoundingBox() sdf.Box3 {
	return ms.bb
}

func meshBoundingBox(m *Mesh) sdf.Box3 {
	min := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, t := range m.triangles {
		for _, pt := range t.Points() {
			min.X = math.Min(min.X, pt.X)
			min.Y = math.Min(min.Y, pt.Y)
			min.Z = math.Min(min.Z, pt.Z)
			max.X = math.Max(max.X, pt.X)
			max.Y = math.Max(max.Y, pt.Y)
			max.Z = math.Max(max.Z, pt.Z)
		}
	}
	return sdf.Box3{Min: min, Max: max}
}
