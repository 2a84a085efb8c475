// Package distancefield implements a discretized signed distance representation of a rigid
// geometry, supporting fast inside/outside and proximity queries at arbitrary points.
package distancefield

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/geo/r3"

	"go.viam.com/collision/spatialmath"
	"go.viam.com/collision/utils"
)

// minFieldExtent is the smallest bounding box extent, per axis, a geometry may have and still
// yield a usable field.
const minFieldExtent = 1e-6

// SignedDistanceField is a 3D grid of signed distances to the surface of a geometry, negative
// inside and positive outside, built over the geometry's padded bounding box in the frame the
// geometry was posed in. Once built a field is immutable and may be queried concurrently; pose
// changes are applied externally by transforming query points into the field's frame.
type SignedDistanceField struct {
	origin      r3.Vector // position of grid node (0,0,0)
	resolution  float64
	maxDistance float64
	nx, ny, nz  int
	data        []float64
}

// NewSignedDistanceField rasterizes the given geometry into a signed distance grid with the given
// node spacing, covering the geometry's bounding box padded by maxDistance on all sides. Stored
// distances saturate at ±maxDistance. Construction samples the analytic signed distance of the
// geometry in a narrow band around its surface and propagates those seeds outward and inward with
// euclidean distance transform sweeps.
func NewSignedDistanceField(g spatialmath.Geometry, resolution, maxDistance float64) (*SignedDistanceField, error) {
	if resolution <= 0 {
		return nil, newInvalidFieldParameterError("resolution", resolution)
	}
	if maxDistance <= 0 {
		return nil, newInvalidFieldParameterError("max distance", maxDistance)
	}

	s3, err := spatialmath.ToSDF(g)
	if err != nil {
		return nil, NewDegenerateShapeError(g.Label(), err)
	}
	bb := s3.BoundingBox()
	if bb.Max.X-bb.Min.X < minFieldExtent || bb.Max.Y-bb.Min.Y < minFieldExtent || bb.Max.Z-bb.Min.Z < minFieldExtent {
		return nil, NewDegenerateShapeError(g.Label(), nil)
	}

	f := &SignedDistanceField{
		origin:      r3.Vector{X: bb.Min.X - maxDistance, Y: bb.Min.Y - maxDistance, Z: bb.Min.Z - maxDistance},
		resolution:  resolution,
		maxDistance: maxDistance,
		nx:          int(math.Ceil((bb.Max.X-bb.Min.X+2*maxDistance)/resolution)) + 1,
		ny:          int(math.Ceil((bb.Max.Y-bb.Min.Y+2*maxDistance)/resolution)) + 1,
		nz:          int(math.Ceil((bb.Max.Z-bb.Min.Z+2*maxDistance)/resolution)) + 1,
	}

	// rasterize: sample the analytic signed distance at every grid node
	samples := make([]float64, f.nx*f.ny*f.nz)
	idx := 0
	for k := 0; k < f.nz; k++ {
		for j := 0; j < f.ny; j++ {
			for i := 0; i < f.nx; i++ {
				samples[idx] = s3.Evaluate(v3.Vec{
					X: f.origin.X + float64(i)*resolution,
					Y: f.origin.Y + float64(j)*resolution,
					Z: f.origin.Z + float64(k)*resolution,
				})
				idx++
			}
		}
	}

	// the narrow band around the zero level set seeds both propagation directions
	band := resolution
	banded := false
	outward := make([]float64, len(samples))
	inward := make([]float64, len(samples))
	for i, s := range samples {
		if math.Abs(s) <= band {
			banded = true
		}
		// seeds carry their analytic distance, in cells, as an already-accrued squared offset
		if s <= band {
			surplus := math.Max(s, 0) / resolution
			outward[i] = surplus * surplus
		} else {
			outward[i] = math.Inf(1)
		}
		if s >= -band {
			surplus := math.Max(-s, 0) / resolution
			inward[i] = surplus * surplus
		} else {
			inward[i] = math.Inf(1)
		}
	}
	if !banded {
		return nil, NewDegenerateShapeError(g.Label(), nil)
	}
	distanceTransform3D(outward, f.nx, f.ny, f.nz)
	distanceTransform3D(inward, f.nx, f.ny, f.nz)

	f.data = samples // reuse the sample buffer for the final field
	for i, s := range samples {
		switch {
		case math.Abs(s) <= band:
			f.data[i] = utils.Clamp(s, -maxDistance, maxDistance)
		case s > 0:
			f.data[i] = math.Min(math.Sqrt(outward[i])*resolution, maxDistance)
		default:
			f.data[i] = -math.Min(math.Sqrt(inward[i])*resolution, maxDistance)
		}
	}
	return f, nil
}

// Resolution returns the grid node spacing of the field.
func (f *SignedDistanceField) Resolution() float64 {
	return f.resolution
}

// MaxDistance returns the distance at which stored values saturate. Points outside the padded
// bounding volume report exactly this value.
func (f *SignedDistanceField) MaxDistance() float64 {
	return f.maxDistance
}

// Size returns the node counts of the grid along each axis.
func (f *SignedDistanceField) Size() (int, int, int) {
	return f.nx, f.ny, f.nz
}

// Query returns the interpolated signed distance at the given point in the field's frame, along
// with the normalized outward gradient there. Points outside the padded bounding volume return
// the far sentinel (MaxDistance) and a zero gradient.
func (f *SignedDistanceField) Query(pt r3.Vector) (float64, r3.Vector) {
	gx := (pt.X - f.origin.X) / f.resolution
	gy := (pt.Y - f.origin.Y) / f.resolution
	gz := (pt.Z - f.origin.Z) / f.resolution
	if gx < 0 || gy < 0 || gz < 0 || gx > float64(f.nx-1) || gy > float64(f.ny-1) || gz > float64(f.nz-1) {
		return f.maxDistance, r3.Vector{}
	}

	i0 := clampIndex(int(gx), f.nx-2)
	j0 := clampIndex(int(gy), f.ny-2)
	k0 := clampIndex(int(gz), f.nz-2)
	fx := gx - float64(i0)
	fy := gy - float64(j0)
	fz := gz - float64(k0)

	c000 := f.at(i0, j0, k0)
	c100 := f.at(i0+1, j0, k0)
	c010 := f.at(i0, j0+1, k0)
	c110 := f.at(i0+1, j0+1, k0)
	c001 := f.at(i0, j0, k0+1)
	c101 := f.at(i0+1, j0, k0+1)
	c011 := f.at(i0, j0+1, k0+1)
	c111 := f.at(i0+1, j0+1, k0+1)

	dist := c000*(1-fx)*(1-fy)*(1-fz) +
		c100*fx*(1-fy)*(1-fz) +
		c010*(1-fx)*fy*(1-fz) +
		c110*fx*fy*(1-fz) +
		c001*(1-fx)*(1-fy)*fz +
		c101*fx*(1-fy)*fz +
		c011*(1-fx)*fy*fz +
		c111*fx*fy*fz

	// gradient of the trilinear interpolant
	grad := r3.Vector{
		X: ((c100-c000)*(1-fy)*(1-fz) + (c110-c010)*fy*(1-fz) + (c101-c001)*(1-fy)*fz + (c111-c011)*fy*fz) / f.resolution,
		Y: ((c010-c000)*(1-fx)*(1-fz) + (c110-c100)*fx*(1-fz) + (c011-c001)*(1-fx)*fz + (c111-c101)*fx*fz) / f.resolution,
		Z: ((c001-c000)*(1-fx)*(1-fy) + (c101-c100)*fx*(1-fy) + (c011-c010)*(1-fx)*fy + (c111-c110)*fx*fy) / f.resolution,
	}
	if norm := grad.Norm(); norm > 1e-12 {
		grad = grad.Mul(1 / norm)
	} else {
		grad = r3.Vector{}
	}
	return dist, grad
}

func (f *SignedDistanceField) at(i, j, k int) float64 {
	return f.data[(k*f.ny+j)*f.nx+i]
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
