package kinematics

import (
	"github.com/kinetree/kinetree/spatialmath"
)

// PoseInReferenceFrame expresses the origin of the named joint in the frame
// of the reference joint by composing parent-to-joint transforms up the
// ancestor chain:
//
//	T(reference→joint) = T(reference→parent) · T(parent→joint)
//
// The recursion terminates at the reference joint or at a joint whose parent
// link has no parent joint (a joint hanging off the document root). An
// unknown joint name or a cyclic parent chain yields identity with a logged
// error; callers treat that as a non-fatal default. The parse path uses the
// error-returning form directly so those conditions abort the parse instead.
func (p *Parser) PoseInReferenceFrame(reference, name string) *spatialmath.Transform {
	pose, err := p.poseInReferenceFrame(reference, name, map[string]bool{})
	if err != nil {
		p.logger.Errorw("failed to compute pose in reference frame", "joint", name, "error", err)
		return spatialmath.NewTransform()
	}
	return pose
}

// poseInReferenceFrame walks the ancestor chain. The visited set bounds the
// recursion: the parent chain of a well-formed document is acyclic, but a
// malformed one revisiting a joint must surface a structural error rather
// than recurse without bound.
func (p *Parser) poseInReferenceFrame(reference, name string, visited map[string]bool) (*spatialmath.Transform, error) {
	if visited[name] {
		return nil, NewCycleError(name)
	}
	visited[name] = true

	joint, ok := p.doc.Joint(name)
	if !ok {
		return nil, NewMissingJointError(name)
	}

	local := spatialmath.NewTransformFromPose(joint.Origin.Position, joint.Origin.Orientation)
	if name == reference {
		return local, nil
	}

	parentLink, ok := p.doc.Link(joint.ParentLink)
	if !ok || parentLink.ParentJoint == "" {
		return local, nil
	}

	parent, err := p.poseInReferenceFrame(reference, parentLink.ParentJoint, visited)
	if err != nil {
		return nil, err
	}
	return spatialmath.Compose(parent, local), nil
}
