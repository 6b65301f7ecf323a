package kinematics

import (
	"github.com/pkg/errors"

	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/spatialmath"
	"github.com/kinetree/kinetree/urdf"
)

// createJoint constructs a typed joint, applies any supplied limits, and
// registers it under its name. A name collision is fatal for the whole parse.
func (p *Parser) createJoint(
	jointType model.JointType,
	name string,
	placement *spatialmath.Transform,
	limits *urdf.Limits,
) (*model.Joint, error) {
	if _, ok := p.joints[name]; ok {
		return nil, NewDuplicateJointError(name)
	}

	var joint *model.Joint
	switch jointType {
	case model.Floating:
		joint = model.NewFloatingJoint(name, placement)
	case model.Revolute:
		joint = model.NewRevoluteJoint(name, placement)
	case model.Continuous:
		joint = model.NewContinuousJoint(name, placement)
	case model.Prismatic:
		joint = model.NewPrismaticJoint(name, placement)
	case model.Fixed:
		joint = model.NewFixedJoint(name, placement)
	default:
		return nil, NewUnsupportedJointKindError(string(jointType), name)
	}

	if limits != nil && joint.DoF() > 0 {
		joint.SetBounds(0, limits.Lower, limits.Upper)
		joint.SetVelocityBound(0, limits.Velocity)
		joint.SetEffortBound(0, limits.Effort)
	}

	p.joints[name] = joint
	return joint, nil
}

// parseJoints creates the synthetic root joint at identity, then one typed
// joint per document joint. Every placement is the full ancestor-chain
// transform, right-multiplied by the axis normalization when the joint is
// actuated, so document iteration order does not matter.
func (p *Parser) parseJoints() error {
	root, err := p.createJoint(p.rootJointType, RootJointName, spatialmath.NewTransform(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to create root joint")
	}
	p.rootJoint = root
	p.robot.SetRootJoint(root)

	for _, name := range p.doc.JointNames() {
		joint, _ := p.doc.Joint(name)
		placement, err := p.poseInReferenceFrame(p.referenceJoint, name, map[string]bool{})
		if err != nil {
			return err
		}

		// The same normalization is un-applied when re-expressing body
		// inertial frames; both sides go through NewNormalizationTransform.
		switch joint.Kind {
		case urdf.JointRevolute, urdf.JointContinuous, urdf.JointPrismatic:
			if joint.Axis.Norm() == 0 {
				return NewZeroAxisError(name)
			}
			placement = spatialmath.Compose(placement, spatialmath.NewNormalizationTransform(joint.Axis))
		}

		switch joint.Kind {
		case urdf.JointRevolute:
			_, err = p.createJoint(model.Revolute, name, placement, joint.Limits)
		case urdf.JointContinuous:
			_, err = p.createJoint(model.Continuous, name, placement, nil)
		case urdf.JointPrismatic:
			_, err = p.createJoint(model.Prismatic, name, placement, joint.Limits)
		case urdf.JointFloating:
			_, err = p.createJoint(model.Floating, name, placement, nil)
		case urdf.JointFixed:
			_, err = p.createJoint(model.Fixed, name, placement, nil)
		case urdf.JointPlanar:
			return NewUnsupportedJointKindError(joint.Kind, name)
		default:
			return NewUnsupportedJointKindError(joint.Kind, name)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// childJointNames returns the names of the joints hanging off the child link
// of the named joint. The synthetic root's child link is the document root.
func (p *Parser) childJointNames(jointName string) ([]string, error) {
	var childLink *urdf.Link
	if jointName == RootJointName {
		root, ok := p.doc.Root()
		if !ok {
			return nil, ErrMissingRootLink
		}
		childLink = root
	} else {
		joint, ok := p.doc.Joint(jointName)
		if !ok {
			return nil, NewMissingJointError(jointName)
		}
		link, ok := p.doc.Link(joint.ChildLink)
		if !ok {
			return nil, NewMissingLinkError(joint.ChildLink)
		}
		childLink = link
	}

	var result []string
	for _, name := range childLink.ChildJoints {
		if _, ok := p.joints[name]; !ok {
			return nil, NewMissingJointError(name)
		}
		result = append(result, name)
	}
	return result, nil
}

// connectJoints wires parent→child relationships by recursive descent from
// the root joint. The visited set guards against a malformed document whose
// joint graph contains a cycle; the document tree is acyclic when built from
// a valid file, but the input is not trusted to be one.
func (p *Parser) connectJoints(joint *model.Joint, visited map[string]bool) error {
	children, err := p.childJointNames(joint.Name())
	if err != nil {
		return errors.Wrapf(err, "failed to connect children of joint %q", joint.Name())
	}
	for _, childName := range children {
		if visited[childName] {
			return NewCycleError(childName)
		}
		visited[childName] = true

		child := p.joints[childName]
		joint.AddChild(child)
		if err := p.connectJoints(child, visited); err != nil {
			return err
		}
	}
	return nil
}
