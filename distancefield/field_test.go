package distancefield

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/collision/spatialmath"
)

func TestFieldParameterValidation(t *testing.T) {
	s, err := spatialmath.NewSphere(spatialmath.NewZeroPose(), 0.1, "")
	test.That(t, err, test.ShouldBeNil)
	_, err = NewSignedDistanceField(s, 0, 0.05)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = NewSignedDistanceField(s, 0.005, -1)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSphereField(t *testing.T) {
	s, err := spatialmath.NewSphere(spatialmath.NewZeroPose(), 0.1, "ball")
	test.That(t, err, test.ShouldBeNil)
	f, err := NewSignedDistanceField(s, 0.005, 0.05)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, f.Resolution(), test.ShouldEqual, 0.005)
	test.That(t, f.MaxDistance(), test.ShouldEqual, 0.05)

	// deep interior saturates at -maxDistance
	d, _ := f.Query(r3.Vector{})
	test.That(t, d, test.ShouldBeLessThan, -0.045)

	// near the surface values track the analytic distance
	d, _ = f.Query(r3.Vector{X: 0.095})
	test.That(t, d, test.ShouldAlmostEqual, -0.005, 0.003)
	d, _ = f.Query(r3.Vector{X: 0.12})
	test.That(t, d, test.ShouldAlmostEqual, 0.02, 0.005)

	// gradient points away from the surface
	_, grad := f.Query(r3.Vector{X: 0.08})
	test.That(t, grad.Norm(), test.ShouldAlmostEqual, 1, 1e-6)
	test.That(t, grad.Dot(r3.Vector{X: 1}), test.ShouldBeGreaterThan, 0.9)
}

func TestSphereFieldFarSentinel(t *testing.T) {
	s, err := spatialmath.NewSphere(spatialmath.NewZeroPose(), 0.1, "")
	test.That(t, err, test.ShouldBeNil)
	f, err := NewSignedDistanceField(s, 0.005, 0.05)
	test.That(t, err, test.ShouldBeNil)
	d, grad := f.Query(r3.Vector{X: 1})
	test.That(t, d, test.ShouldEqual, f.MaxDistance())
	test.That(t, grad.Norm(), test.ShouldEqual, 0.)
}

func TestSphereFieldMonotonicAlongRay(t *testing.T) {
	s, err := spatialmath.NewSphere(spatialmath.NewZeroPose(), 0.1, "")
	test.That(t, err, test.ShouldBeNil)
	f, err := NewSignedDistanceField(s, 0.005, 0.05)
	test.That(t, err, test.ShouldBeNil)
	prev := math.Inf(-1)
	for x := 0.1; x <= 0.14; x += 0.005 {
		d, _ := f.Query(r3.Vector{X: x})
		test.That(t, d, test.ShouldBeGreaterThan, prev)
		prev = d
	}
}

func TestPosedBoxField(t *testing.T) {
	b, err := spatialmath.NewBox(
		spatialmath.NewPoseFromPoint(r3.Vector{X: 1}), r3.Vector{X: 0.2, Y: 0.2, Z: 0.2}, "")
	test.That(t, err, test.ShouldBeNil)
	f, err := NewSignedDistanceField(b, 0.01, 0.05)
	test.That(t, err, test.ShouldBeNil)

	d, _ := f.Query(r3.Vector{X: 1})
	test.That(t, d, test.ShouldBeLessThan, 0)
	d, _ = f.Query(r3.Vector{X: 1.1})
	test.That(t, d, test.ShouldAlmostEqual, 0, 0.005)
	d, grad := f.Query(r3.Vector{X: 1.13})
	test.That(t, d, test.ShouldAlmostEqual, 0.03, 0.01)
	test.That(t, grad.Dot(r3.Vector{X: 1}), test.ShouldBeGreaterThan, 0.9)
	// just inside a face, the stored band values are the exact analytic distances
	d, _ = f.Query(r3.Vector{X: 1.095, Y: 0.02, Z: -0.03})
	test.That(t, d, test.ShouldAlmostEqual, -0.005, 1e-4)
}

func TestCylinderField(t *testing.T) {
	c, err := spatialmath.NewCylinder(spatialmath.NewZeroPose(), 0.05, 0.2, "")
	test.That(t, err, test.ShouldBeNil)
	f, err := NewSignedDistanceField(c, 0.005, 0.03)
	test.That(t, err, test.ShouldBeNil)
	d, _ := f.Query(r3.Vector{})
	test.That(t, d, test.ShouldBeLessThan, 0)
	d, _ = f.Query(r3.Vector{X: 0.07})
	test.That(t, d, test.ShouldAlmostEqual, 0.02, 0.005)
	d, _ = f.Query(r3.Vector{Z: 0.12})
	test.That(t, d, test.ShouldAlmostEqual, 0.02, 0.005)
}

func TestMeshField(t *testing.T) {
	m := makeCubeMesh(t, 0.1)
	f, err := NewSignedDistanceField(m, 0.01, 0.05)
	test.That(t, err, test.ShouldBeNil)
	d, _ := f.Query(r3.Vector{})
	test.That(t, d, test.ShouldBeLessThan, 0)
	d, _ = f.Query(r3.Vector{X: 0.13})
	test.That(t, d, test.ShouldAlmostEqual, 0.03, 0.01)
}

func TestDegenerateShapes(t *testing.T) {
	flat, err := spatialmath.NewBox(spatialmath.NewZeroPose(), r3.Vector{X: 0.1, Y: 0.1, Z: 0}, "flat")
	test.That(t, err, test.ShouldBeNil)
	_, err = NewSignedDistanceField(flat, 0.01, 0.05)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsDegenerateShapeError(err), test.ShouldBeTrue)

	empty := spatialmath.NewMesh(spatialmath.NewZeroPose(), nil, "empty")
	_, err = NewSignedDistanceField(empty, 0.01, 0.05)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, IsDegenerateShapeError(err), test.ShouldBeTrue)

	// parameter errors are not degeneracy errors
	ok, err := spatialmath.NewSphere(spatialmath.NewZeroPose(), 0.1, "")
	test.That(t, err, test.ShouldBeNil)
	_, err = NewSignedDistanceField(ok, -1, 0.05)
	test.That(t, IsDegenerateShapeError(err), test.ShouldBeFalse)
}

func TestFieldSize(t *testing.T) {
	b, err := spatialmath.NewBox(spatialmath.NewZeroPose(), r3.Vector{X: 0.1, Y: 0.2, Z: 0.3}, "")
	test.That(t, err, test.ShouldBeNil)
	f, err := NewSignedDistanceField(b, 0.01, 0.05)
	test.That(t, err, test.ShouldBeNil)
	nx, ny, nz := f.Size()
	// each axis covers its extent plus maxDistance padding on both sides
	test.That(t, nx, test.ShouldBeBetweenOrEqual, 21, 22)
	test.That(t, ny, test.ShouldBeBetweenOrEqual, 31, 32)
	test.That(t, nz, test.ShouldBeBetweenOrEqual, 41, 42)
	test.That(t, nz, test.ShouldBeGreaterThan, ny)
	test.That(t, ny, test.ShouldBeGreaterThan, nx)
}

// makeCubeMesh builds a closed axis-aligned cube of the given half extent out of
// twelve triangles with outward-facing normals.
func makeCubeMesh(t *testing.T, h float64) *spatialmath.Mesh {
	t.Helper()
	quad := func(a, b, c, d r3.Vector) []*spatialmath.Triangle {
		return []*spatialmath.Triangle{spatialmath.NewTriangle(a, b, c), spatialmath.NewTriangle(a, c, d)}
	}
	var tris []*spatialmath.Triangle
	tris = append(tris, quad(
		r3.Vector{X: h, Y: -h, Z: -h}, r3.Vector{X: h, Y: h, Z: -h}, r3.Vector{X: h, Y: h, Z: h}, r3.Vector{X: h, Y: -h, Z: h})...)
	tris = append(tris, quad(
		r3.Vector{X: -h, Y: -h, Z: -h}, r3.Vector{X: -h, Y: -h, Z: h}, r3.Vector{X: -h, Y: h, Z: h}, r3.Vector{X: -h, Y: h, Z: -h})...)
	tris = append(tris, quad(
		r3.Vector{X: -h, Y: h, Z: -h}, r3.Vector{X: -h, Y: h, Z: h}, r3.Vector{X: h, Y: h, Z: h}, r3.Vector{X: h, Y: h, Z: -h})...)
	tris = append(tris, quad(
		r3.Vector{X: -h, Y: -h, Z: -h}, r3.Vector{X: h, Y: -h, Z: -h}, r3.Vector{X: h, Y: -h, Z: h}, r3.Vector{X: -h, Y: -h, Z: h})...)
	tris = append(tris, quad(
		r3.Vector{X: -h, Y: -h, Z: h}, r3.Vector{X: h, Y: -h, Z: h}, r3.Vector{X: h, Y: h, Z: h}, r3.Vector{X: -h, Y: h, Z: h})...)
	tris = append(tris, quad(
		r3.Vector{X: -h, Y: -h, Z: -h}, r3.Vector{X: -h, Y: h, Z: -h}, r3.Vector{X: h, Y: h, Z: -h}, r3.Vector{X: h, Y: -h, Z: -h})...)
	return spatialmath.NewMesh(spatialmath.NewZeroPose(), tris, "cube")
}
