package distancefield

import (
	"fmt"

	"github.com/pkg/errors"
)

// degenerateShapeError is returned when a geometry has no usable volume or extent and therefore
// cannot be rasterized into a signed distance field.
type degenerateShapeError struct {
	label string
	cause error
}

func (e *degenerateShapeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("cannot build distance field for degenerate shape %q: %v", e.label, e.cause)
	}
	return fmt.Sprintf("cannot build distance field for degenerate shape %q", e.label)
}

func (e *degenerateShapeError) Unwrap() error {
	return e.cause
}

// NewDegenerateShapeError is used when a shape cannot yield a usable distance field.
func NewDegenerateShapeError(label string, cause error) error {
	return &degenerateShapeError{label: label, cause: cause}
}

// IsDegenerateShapeError returns whether the given error indicates a degenerate shape.
func IsDegenerateShapeError(err error) bool {
	var dse *degenerateShapeError
	return errors.As(err, &dse)
}

// newInvalidFieldParameterError is used when a distance field is requested with nonpositive
// resolution or maximum distance.
func newInvalidFieldParameterError(name string, value float64) error {
	return errors.Errorf("distance field %s must be positive, got %f", name, value)
}
