package collision

import "github.com/pkg/errors"

// newInvalidRequestError is used when a collision request asks for contacts but allows none.
func newInvalidRequestError() error {
	return errors.New("collision request with contacts enabled must allow at least one contact")
}

// NewUnknownBodyError is used when a named body was never added or attached.
func NewUnknownBodyError(name string) error {
	return errors.Errorf("no body with name %q", name)
}

// newDuplicateBodyError is used when two bodies in the same container share a name.
func newDuplicateBodyError(name string) error {
	return errors.Errorf("found body with duplicate name %q", name)
}
