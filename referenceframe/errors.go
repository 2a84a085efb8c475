package referenceframe

import "github.com/pkg/errors"

// NewUnknownGroupError returns an error indicating that a model has no group with the given name.
func NewUnknownGroupError(group string) error {
	return errors.Errorf("no group with name %q in model", group)
}

// NewUnknownLinkError returns an error indicating that a model has no link with the given name.
func NewUnknownLinkError(link string) error {
	return errors.Errorf("no link with name %q in model", link)
}

// NewDuplicateLinkError returns an error indicating that a link with the given name already exists.
func NewDuplicateLinkError(link string) error {
	return errors.Errorf("link with name %q already in model", link)
}

// NewPoseNotSetError returns an error indicating that a kinematic state has no pose for a link.
func NewPoseNotSetError(link string) error {
	return errors.Errorf("no pose set for link %q", link)
}
