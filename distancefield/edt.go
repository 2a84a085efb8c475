package distancefield

import "math"

// distanceTransform1D computes the 1D squared euclidean distance transform of f into d using the
// lower envelope of parabolas method (Felzenszwalb & Huttenlocher). Seeds are entries of f with
// finite values, interpreted as squared distances already accrued at that index; all other entries
// must be +Inf. v and z are scratch space of len(f) and len(f)+1 respectively.
func distanceTransform1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := -1
	for q := 0; q < n; q++ {
		if math.IsInf(f[q], 1) {
			continue
		}
		var s float64
		for k >= 0 {
			s = ((f[q] + float64(q*q)) - (f[v[k]] + float64(v[k]*v[k]))) / float64(2*q-2*v[k])
			if s > z[k] {
				break
			}
			k--
		}
		k++
		v[k] = q
		if k == 0 {
			z[k] = math.Inf(-1)
		} else {
			z[k] = s
		}
		z[k+1] = math.Inf(1)
	}
	if k < 0 {
		// no seeds on this scanline
		for q := 0; q < n; q++ {
			d[q] = math.Inf(1)
		}
		return
	}
	j := 0
	for q := 0; q < n; q++ {
		for z[j+1] < float64(q) {
			j++
		}
		dq := float64(q - v[j])
		d[q] = dq*dq + f[v[j]]
	}
}

// distanceTransform3D computes the squared euclidean distance transform of the given grid in
// place, sweeping each axis in turn. Grid values are in units of squared cells, indexed as
// (k*ny+j)*nx + i.
func distanceTransform3D(grid []float64, nx, ny, nz int) {
	maxDim := nx
	if ny > maxDim {
		maxDim = ny
	}
	if nz > maxDim {
		maxDim = nz
	}
	f := make([]float64, maxDim)
	d := make([]float64, maxDim)
	v := make([]int, maxDim)
	z := make([]float64, maxDim+1)

	// sweep along x
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			base := (k*ny + j) * nx
			copy(f[:nx], grid[base:base+nx])
			distanceTransform1D(f[:nx], d[:nx], v[:nx], z[:nx+1])
			copy(grid[base:base+nx], d[:nx])
		}
	}
	// sweep along y
	for k := 0; k < nz; k++ {
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				f[j] = grid[(k*ny+j)*nx+i]
			}
			distanceTransform1D(f[:ny], d[:ny], v[:ny], z[:ny+1])
			for j := 0; j < ny; j++ {
				grid[(k*ny+j)*nx+i] = d[j]
			}
		}
	}
	// sweep along z
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			for k := 0; k < nz; k++ {
				f[k] = grid[(k*ny+j)*nx+i]
			}
			distanceTransform1D(f[:nz], d[:nz], v[:nz], z[:nz+1])
			for k := 0; k < nz; k++ {
				grid[(k*ny+j)*nx+i] = d[k]
			}
		}
	}
}
