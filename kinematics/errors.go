package kinematics

import "github.com/pkg/errors"

// ErrMissingRootLink is returned when the document has no root link to hang
// the kinematic tree on.
var ErrMissingRootLink = errors.New("document is missing a root link")

// NewDuplicateJointError returns the error aborting a parse when two joints
// share a name.
func NewDuplicateJointError(name string) error {
	return errors.Errorf("duplicate joint %q", name)
}

// NewUnsupportedJointKindError returns the error for a joint kind the
// resolver cannot build.
func NewUnsupportedJointKindError(kind, name string) error {
	return errors.Errorf("joint %q has unsupported kind %q", name, kind)
}

// NewMissingLinkError returns the error for a link lookup that should have
// succeeded in a consistent document.
func NewMissingLinkError(name string) error {
	return errors.Errorf("link %q not found, inconsistent document", name)
}

// NewMissingJointError returns the error for a joint lookup that should have
// succeeded after tree construction.
func NewMissingJointError(name string) error {
	return errors.Errorf("joint %q not found in kinematic tree", name)
}

// NewCycleError returns the error for a document whose joint graph revisits
// a joint during connection.
func NewCycleError(name string) error {
	return errors.Errorf("joint %q visited twice, document graph has a cycle", name)
}

// NewUnreachableJointError returns the error for a joint the tree connection
// never reached from the root.
func NewUnreachableJointError(name string) error {
	return errors.Errorf("joint %q is not reachable from the root", name)
}

// NewZeroAxisError returns the error for an actuated joint declaring a zero
// motion axis, which cannot be normalized.
func NewZeroAxisError(name string) error {
	return errors.Errorf("joint %q declares a zero axis", name)
}
