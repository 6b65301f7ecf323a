package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/kinetree/kinetree/geometry"
	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/spatialmath"
	"github.com/kinetree/kinetree/urdf"
)

// addBodiesToJoints builds and attaches one body per resolved joint from the
// inertial data of the joint's child link. For actuated joints the
// center of mass and inertia tensor are re-expressed through the inverse of
// the same normalization applied to the joint placement; skipping that
// re-expression silently corrupts the mass properties.
func (p *Parser) addBodiesToJoints() error {
	for _, name := range sortedJointNames(p.joints) {
		joint := p.joints[name]

		var childLinkName string
		if name == RootJointName {
			root, ok := p.doc.Root()
			if !ok {
				return ErrMissingRootLink
			}
			childLinkName = root.Name
		} else {
			docJoint, ok := p.doc.Joint(name)
			if !ok {
				return NewMissingJointError(name)
			}
			childLinkName = docJoint.ChildLink
		}

		link, ok := p.doc.Link(childLinkName)
		if !ok {
			return NewMissingLinkError(childLinkName)
		}

		mass := 0.0
		localCom := r3.Vector{}
		inertia := mat.NewDense(3, 3, nil)
		if link.Inertial != nil {
			inertial := link.Inertial
			mass = inertial.Mass
			localCom = inertial.Origin.Position
			inertia = mat.NewDense(3, 3, []float64{
				inertial.Ixx, inertial.Ixy, inertial.Ixz,
				inertial.Ixy, inertial.Iyy, inertial.Iyz,
				inertial.Ixz, inertial.Iyz, inertial.Izz,
			})

			if name != RootJointName && joint.Type().Actuated() {
				docJoint, _ := p.doc.Joint(name)
				normalization := spatialmath.NewNormalizationTransform(docJoint.Axis)
				localCom = normalization.Invert().TransformPoint(localCom)
				inertia = conjugateInertia(inertia, normalization.Rotation())
			}
		} else {
			p.logger.Debugw("missing inertial information in link", "link", childLinkName)
		}

		joint.SetBody(model.NewBody(mass, localCom, inertia))

		if link.Visual != nil && link.Collision != nil {
			if err := p.attachSolids(link, joint); err != nil {
				return errors.Wrapf(err, "could not attach solids to joint %q", name)
			}
		}
	}
	return nil
}

// conjugateInertia re-expresses a 3x3 inertia tensor through the inverse of
// the normalization rotation: I' = Rᵗ · I · R.
func conjugateInertia(inertia *mat.Dense, rotation mgl64.Mat3) *mat.Dense {
	r := mat.NewDense(3, 3, []float64{
		rotation.At(0, 0), rotation.At(0, 1), rotation.At(0, 2),
		rotation.At(1, 0), rotation.At(1, 1), rotation.At(1, 2),
		rotation.At(2, 0), rotation.At(2, 1), rotation.At(2, 2),
	})
	var tmp, out mat.Dense
	tmp.Mul(r.T(), inertia)
	out.Mul(&tmp, r)
	return &out
}

// bodyWorldTransform composes the owning joint's placement with a geometry
// element's local origin offset, un-applying the axis normalization for
// actuated joints so the offset stays in the link's declared frame.
func (p *Parser) bodyWorldTransform(link *urdf.Link, origin urdf.Pose) (*spatialmath.Transform, error) {
	local := spatialmath.NewTransformFromPose(origin.Position, origin.Orientation)

	var parentWorld *spatialmath.Transform
	root, _ := p.doc.Root()
	if root != nil && link.Name == root.Name {
		parentWorld = p.rootJoint.Placement()
	} else {
		parentJoint, ok := p.joints[link.ParentJoint]
		if !ok {
			return nil, NewMissingJointError(link.ParentJoint)
		}
		parentWorld = parentJoint.Placement()
		if parentJoint.Type().Actuated() {
			docJoint, ok := p.doc.Joint(link.ParentJoint)
			if !ok {
				return nil, NewMissingJointError(link.ParentJoint)
			}
			parentWorld = spatialmath.Compose(
				parentWorld,
				spatialmath.NewNormalizationTransform(docJoint.Axis).Invert(),
			)
		}
	}

	return spatialmath.Compose(parentWorld, local), nil
}

// cylinderAxisCorrection reorients solids that the collision backend models
// along the x axis but URDF declares along the z axis.
func cylinderAxisCorrection() *spatialmath.Transform {
	return spatialmath.NewTransformFromMat(mgl64.HomogRotate3DY(math.Pi / 2))
}

// attachSolids delegates solid construction to the geometry backend for the
// visual/collision shape combinations the backend supports. Combinations it
// does not are skipped with a log line; absence of geometry was already
// handled by the caller.
func (p *Parser) attachSolids(link *urdf.Link, joint *model.Joint) error {
	visual := link.Visual.Geometry
	collision := link.Collision.Geometry

	switch {
	case visual.Kind == urdf.GeometryMesh && collision.Kind == urdf.GeometryMesh:
		// The backend builds one polyhedron; visual and collision meshes are
		// assumed to be the same file.
		if visual.MeshFilename != collision.MeshFilename {
			return errors.Errorf("visual and collision meshes differ for link %q", link.Name)
		}
		pose, err := p.bodyWorldTransform(link, link.Visual.Origin)
		if err != nil {
			return err
		}
		solid, err := geometry.NewMeshReference(link.Name, visual.MeshFilename, visual.MeshScale, pose)
		if err != nil {
			return err
		}
		joint.AttachSolid(solid)

	case visual.Kind == urdf.GeometryCylinder && collision.Kind == urdf.GeometryCylinder:
		pose, err := p.bodyWorldTransform(link, link.Visual.Origin)
		if err != nil {
			return err
		}
		pose = spatialmath.Compose(pose, cylinderAxisCorrection())
		solid, err := geometry.NewCylinder(link.Name, visual.CylinderRadius, visual.CylinderLength, pose)
		if err != nil {
			return err
		}
		joint.AttachSolid(solid)

	case visual.Kind == urdf.GeometryBox && collision.Kind == urdf.GeometryBox:
		pose, err := p.bodyWorldTransform(link, link.Visual.Origin)
		if err != nil {
			return err
		}
		solid, err := geometry.NewBox(link.Name, visual.BoxSize, pose)
		if err != nil {
			return err
		}
		joint.AttachSolid(solid)

	case visual.Kind == urdf.GeometrySphere && collision.Kind == urdf.GeometrySphere:
		pose, err := p.bodyWorldTransform(link, link.Visual.Origin)
		if err != nil {
			return err
		}
		solid, err := geometry.NewSphere(link.Name, visual.SphereRadius, pose)
		if err != nil {
			return err
		}
		joint.AttachSolid(solid)

	case visual.Kind == urdf.GeometryMesh && collision.Kind == urdf.GeometryCylinder:
		// A mesh paired with a cylinder collision stands in for a capsule.
		pose, err := p.bodyWorldTransform(link, link.Collision.Origin)
		if err != nil {
			return err
		}
		pose = spatialmath.Compose(pose, cylinderAxisCorrection())
		solid, err := geometry.NewCapsule(link.Name, collision.CylinderRadius, collision.CylinderLength, pose)
		if err != nil {
			return err
		}
		joint.AttachSolid(solid)

	default:
		p.logger.Debugw("unhandled visual/collision geometry combination",
			"link", link.Name, "visual", visual.Kind, "collision", collision.Kind)
	}

	return nil
}
