package spatialmath

import "github.com/pkg/errors"

// newBadGeometryDimensionsError is used when the dimensions describing a geometry are invalid.
func newBadGeometryDimensionsError(g Geometry) error {
	return errors.Errorf("invalid dimensions for geometry of type %T", g)
}

// newZeroVolumeError is used when a geometry has no usable volume, such as a zero-extent box
// or an empty mesh, and therefore cannot support signed distance queries.
func newZeroVolumeError(g Geometry) error {
	return errors.Errorf("geometry of type %T has no volume", g)
}

// newSDFTypeUnsupportedError is used when no analytic signed distance function exists for a geometry.
func newSDFTypeUnsupportedError(g Geometry) error {
	return errors.Errorf("no signed distance function for geometry of type %T", g)
}

// newRotationMatrixInputError is used when a rotation matrix is built from a malformed slice.
func newRotationMatrixInputError(m []float64) error {
	return errors.Errorf("input slice has %d elements, need exactly 9", len(m))
}
