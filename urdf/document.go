// Package urdf reads Unified Robot Description Format XML into a document
// tree of links connected by joints. The document only records what the file
// says; resolving placements, axes and inertial frames is the job of the
// kinematics package.
package urdf

import (
	"sort"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"
)

// Supported joint kinds, as spelled in URDF files.
const (
	JointRevolute   = "revolute"
	JointContinuous = "continuous"
	JointPrismatic  = "prismatic"
	JointFloating   = "floating"
	JointPlanar     = "planar"
	JointFixed      = "fixed"
)

// Pose is a position plus unit-quaternion orientation.
type Pose struct {
	Position    r3.Vector
	Orientation quat.Number
}

// IdentityPose returns a zero-position, identity-orientation pose.
func IdentityPose() Pose {
	return Pose{Orientation: quat.Number{Real: 1}}
}

// Limits are the position, velocity and effort limits of a revolute or
// prismatic joint. Velocity and effort are magnitudes, applied symmetrically.
type Limits struct {
	Lower    float64
	Upper    float64
	Velocity float64
	Effort   float64
}

// Inertial is the mass data of a link: mass, center-of-mass offset and the
// six independent entries of the symmetric inertia tensor.
type Inertial struct {
	Origin Pose
	Mass   float64
	Ixx    float64
	Ixy    float64
	Ixz    float64
	Iyy    float64
	Iyz    float64
	Izz    float64
}

// Geometry shape kinds.
const (
	GeometryBox      = "box"
	GeometryCylinder = "cylinder"
	GeometrySphere   = "sphere"
	GeometryMesh     = "mesh"
)

// Geometry is a tagged shape description; only the fields of the tagged kind
// are meaningful.
type Geometry struct {
	Kind string

	BoxSize r3.Vector

	CylinderRadius float64
	CylinderLength float64

	SphereRadius float64

	MeshFilename string
	MeshScale    r3.Vector
}

// Element is a visual or collision entry on a link: a shape and its pose
// offset in the link frame.
type Element struct {
	Origin   Pose
	Geometry *Geometry
}

// Link is a rigid body in the document tree. ParentJoint and ChildJoints are
// name references into the document's joint table, never owning pointers.
type Link struct {
	Name      string
	Inertial  *Inertial
	Visual    *Element
	Collision *Element

	ParentJoint string
	ChildJoints []string
}

// Joint connects a parent link to a child link. Origin is the pose of the
// joint origin in the parent link frame. Axis is only meaningful for
// revolute, continuous and prismatic joints.
type Joint struct {
	Name       string
	Kind       string
	Axis       r3.Vector
	ParentLink string
	ChildLink  string
	Origin     Pose
	Limits     *Limits
}

// Document is a parsed robot description: name-keyed link and joint tables
// plus the root link, the one link no joint declares as its child.
type Document struct {
	name   string
	links  map[string]*Link
	joints map[string]*Joint
}

// NewDocument returns an empty document.
func NewDocument(name string) *Document {
	return &Document{
		name:   name,
		links:  map[string]*Link{},
		joints: map[string]*Joint{},
	}
}

// Name returns the robot name declared in the description.
func (d *Document) Name() string {
	return d.name
}

// Link looks up a link by name.
func (d *Document) Link(name string) (*Link, bool) {
	l, ok := d.links[name]
	return l, ok
}

// Joint looks up a joint by name.
func (d *Document) Joint(name string) (*Joint, bool) {
	j, ok := d.joints[name]
	return j, ok
}

// LinkNames returns all link names, sorted.
func (d *Document) LinkNames() []string {
	names := make([]string, 0, len(d.links))
	for name := range d.links {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JointNames returns all joint names, sorted. Iterating the sorted slice
// keeps document traversal deterministic across runs.
func (d *Document) JointNames() []string {
	names := make([]string, 0, len(d.joints))
	for name := range d.joints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Root returns the root link: the only link without a parent joint.
func (d *Document) Root() (*Link, bool) {
	for _, name := range d.LinkNames() {
		if d.links[name].ParentJoint == "" {
			return d.links[name], true
		}
	}
	return nil, false
}

// AddLink inserts a link into the table. Duplicate names are an error.
func (d *Document) AddLink(link *Link) error {
	if _, ok := d.links[link.Name]; ok {
		return NewDuplicateLinkError(link.Name)
	}
	d.links[link.Name] = link
	return nil
}

// AddJoint inserts a joint into the table and wires the name references on
// whichever of its parent and child links are already present. Duplicate
// names are an error; dangling link references are caught by Validate.
func (d *Document) AddJoint(joint *Joint) error {
	if _, ok := d.joints[joint.Name]; ok {
		return NewDuplicateJointError(joint.Name)
	}
	d.joints[joint.Name] = joint
	if parent, ok := d.links[joint.ParentLink]; ok {
		parent.ChildJoints = append(parent.ChildJoints, joint.Name)
	}
	if child, ok := d.links[joint.ChildLink]; ok {
		child.ParentJoint = joint.Name
	}
	return nil
}

// Validate checks the structural consistency of the document: every joint
// references existing links, no link has two parent joints, and exactly one
// root link exists. Problems are accumulated so a bad file is diagnosed in
// one pass.
func (d *Document) Validate() error {
	var err error
	parentCount := map[string]int{}
	for _, name := range d.JointNames() {
		joint := d.joints[name]
		if _, ok := d.links[joint.ParentLink]; !ok {
			err = multierr.Append(err, NewMissingLinkError(joint.ParentLink, name))
		}
		if _, ok := d.links[joint.ChildLink]; !ok {
			err = multierr.Append(err, NewMissingLinkError(joint.ChildLink, name))
		} else {
			parentCount[joint.ChildLink]++
		}
	}
	for _, name := range d.LinkNames() {
		if parentCount[name] > 1 {
			err = multierr.Append(err, NewMultipleParentsError(name))
		}
	}
	roots := 0
	for _, name := range d.LinkNames() {
		if d.links[name].ParentJoint == "" {
			roots++
		}
	}
	if len(d.links) > 0 && roots != 1 {
		err = multierr.Append(err, NewRootCountError(roots))
	}
	return err
}
