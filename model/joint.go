// Package model defines the resolved robot structures the kinematics package
// populates: typed joints with per-degree-of-freedom bounds, bodies with
// inertial data, and the humanoid end-effector descriptors. These types are
// independent of any particular simulation backend.
package model

import (
	"math"

	"github.com/kinetree/kinetree/geometry"
	"github.com/kinetree/kinetree/spatialmath"
)

// JointType tags the kind of a resolved joint. The only polymorphic behavior
// a joint needs is which bound semantics apply, so a tag plus per-DoF slices
// replaces a class hierarchy.
type JointType string

// Resolved joint kinds.
const (
	Floating   JointType = "floating"
	Revolute   JointType = "revolute"
	Continuous JointType = "continuous"
	Prismatic  JointType = "prismatic"
	Fixed      JointType = "fixed"
)

// DoF returns the number of degrees of freedom of the joint kind.
func (jt JointType) DoF() int {
	switch jt {
	case Floating:
		return 6
	case Revolute, Continuous, Prismatic:
		return 1
	case Fixed:
		return 0
	default:
		return 0
	}
}

// Actuated reports whether the joint kind carries a motion axis.
func (jt JointType) Actuated() bool {
	switch jt {
	case Revolute, Continuous, Prismatic:
		return true
	default:
		return false
	}
}

// Joint is a resolved kinematic joint. Its placement is the initial pose in
// the model reference frame, fixed at build time; bounds are per degree of
// freedom. A joint owns its body and is owned by the kinematic tree.
type Joint struct {
	name      string
	jointType JointType
	placement *spatialmath.Transform

	bounded  []bool
	lower    []float64
	upper    []float64
	velocity []float64
	effort   []float64

	parent   *Joint
	children []*Joint
	body     *Body
	solids   []*geometry.Solid
}

func newJoint(jointType JointType, name string, placement *spatialmath.Transform) *Joint {
	dof := jointType.DoF()
	j := &Joint{
		name:      name,
		jointType: jointType,
		placement: placement,
		bounded:   make([]bool, dof),
		lower:     make([]float64, dof),
		upper:     make([]float64, dof),
		velocity:  make([]float64, dof),
		effort:    make([]float64, dof),
	}
	for i := 0; i < dof; i++ {
		j.lower[i] = math.Inf(-1)
		j.upper[i] = math.Inf(1)
		j.velocity[i] = math.Inf(1)
		j.effort[i] = math.Inf(1)
	}
	return j
}

// NewFloatingJoint returns a six-DoF free-flyer joint, unbounded on every
// degree of freedom.
func NewFloatingJoint(name string, placement *spatialmath.Transform) *Joint {
	return newJoint(Floating, name, placement)
}

// NewRevoluteJoint returns a one-DoF rotation joint.
func NewRevoluteJoint(name string, placement *spatialmath.Transform) *Joint {
	return newJoint(Revolute, name, placement)
}

// NewContinuousJoint returns a rotation joint with no position bounds.
func NewContinuousJoint(name string, placement *spatialmath.Transform) *Joint {
	return newJoint(Continuous, name, placement)
}

// NewPrismaticJoint returns a one-DoF translation joint.
func NewPrismaticJoint(name string, placement *spatialmath.Transform) *Joint {
	return newJoint(Prismatic, name, placement)
}

// NewFixedJoint returns a zero-DoF anchor joint.
func NewFixedJoint(name string, placement *spatialmath.Transform) *Joint {
	return newJoint(Fixed, name, placement)
}

// Name returns the joint name.
func (j *Joint) Name() string { return j.name }

// Type returns the joint kind.
func (j *Joint) Type() JointType { return j.jointType }

// Placement returns the joint's initial pose in the model reference frame.
func (j *Joint) Placement() *spatialmath.Transform { return j.placement }

// DoF returns the joint's number of degrees of freedom.
func (j *Joint) DoF() int { return j.jointType.DoF() }

// SetBounds sets the position bounds of one degree of freedom and marks it
// bounded.
func (j *Joint) SetBounds(dof int, lower, upper float64) {
	j.bounded[dof] = true
	j.lower[dof] = lower
	j.upper[dof] = upper
}

// SetBounded marks a degree of freedom bounded or unbounded without touching
// the stored values.
func (j *Joint) SetBounded(dof int, bounded bool) {
	j.bounded[dof] = bounded
}

// Bounded reports whether a degree of freedom has position bounds.
func (j *Joint) Bounded(dof int) bool { return j.bounded[dof] }

// Bounds returns the position bounds of one degree of freedom.
func (j *Joint) Bounds(dof int) (lower, upper float64) {
	return j.lower[dof], j.upper[dof]
}

// SetVelocityBound sets the symmetric velocity bound magnitude of one degree
// of freedom.
func (j *Joint) SetVelocityBound(dof int, magnitude float64) {
	j.velocity[dof] = magnitude
}

// VelocityBound returns the symmetric velocity bound magnitude.
func (j *Joint) VelocityBound(dof int) float64 { return j.velocity[dof] }

// SetEffortBound sets the symmetric effort bound magnitude of one degree of
// freedom.
func (j *Joint) SetEffortBound(dof int, magnitude float64) {
	j.effort[dof] = magnitude
}

// EffortBound returns the symmetric effort bound magnitude.
func (j *Joint) EffortBound(dof int) float64 { return j.effort[dof] }

// AddChild attaches a child joint in the kinematic tree.
func (j *Joint) AddChild(child *Joint) {
	child.parent = j
	j.children = append(j.children, child)
}

// Parent returns the parent joint, nil for the root.
func (j *Joint) Parent() *Joint { return j.parent }

// Children returns the attached child joints.
func (j *Joint) Children() []*Joint { return j.children }

// SetBody attaches the joint's body.
func (j *Joint) SetBody(b *Body) { j.body = b }

// Body returns the attached body, nil before attachment.
func (j *Joint) Body() *Body { return j.body }

// AttachSolid adds a collision solid to the joint.
func (j *Joint) AttachSolid(s *geometry.Solid) {
	j.solids = append(j.solids, s)
}

// Solids returns the attached collision solids.
func (j *Joint) Solids() []*geometry.Solid { return j.solids }
