package urdf

import "github.com/pkg/errors"

// ErrNoModelInformation is returned when the description data is empty.
var ErrNoModelInformation = errors.New("no model information")

// NewDuplicateLinkError returns an error for a repeated link name.
func NewDuplicateLinkError(name string) error {
	return errors.Errorf("duplicate link %q", name)
}

// NewDuplicateJointError returns an error for a repeated joint name.
func NewDuplicateJointError(name string) error {
	return errors.Errorf("duplicate joint %q", name)
}

// NewMissingLinkError returns an error for a joint referencing a link the
// document does not define.
func NewMissingLinkError(linkName, jointName string) error {
	return errors.Errorf("link %q referenced by joint %q not found", linkName, jointName)
}

// NewMultipleParentsError returns an error for a link claimed as child by
// more than one joint.
func NewMultipleParentsError(linkName string) error {
	return errors.Errorf("link %q has more than one parent joint", linkName)
}

// NewRootCountError returns an error when the document does not have exactly
// one parentless link.
func NewRootCountError(count int) error {
	return errors.Errorf("document must have exactly one root link, found %d", count)
}
