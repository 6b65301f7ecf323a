package model

// Role identifies a joint by semantic role rather than document name.
type Role string

// Humanoid joint roles.
const (
	RoleWaist      Role = "waist"
	RoleChest      Role = "chest"
	RoleLeftWrist  Role = "left wrist"
	RoleRightWrist Role = "right wrist"
	RoleLeftHand   Role = "left hand"
	RoleRightHand  Role = "right hand"
	RoleLeftAnkle  Role = "left ankle"
	RoleRightAnkle Role = "right ankle"
	RoleLeftFoot   Role = "left foot"
	RoleRightFoot  Role = "right foot"
	RoleGaze       Role = "gaze"
)

// Roles lists every role in a fixed order, for deterministic iteration.
var Roles = []Role{
	RoleWaist,
	RoleChest,
	RoleLeftWrist,
	RoleRightWrist,
	RoleLeftHand,
	RoleRightHand,
	RoleLeftAnkle,
	RoleRightAnkle,
	RoleLeftFoot,
	RoleRightFoot,
	RoleGaze,
}

// Robot is the resolved model: the kinematic tree rooted at a single joint,
// the actuated joint list, named special joints, and the derived end-effector
// descriptors.
type Robot struct {
	name     string
	root     *Joint
	actuated []*Joint
	roles    map[Role]*Joint

	leftHand  *Hand
	rightHand *Hand
	leftFoot  *Foot
	rightFoot *Foot
	gaze      *Gaze
}

// NewRobot returns an empty robot model.
func NewRobot(name string) *Robot {
	return &Robot{name: name, roles: map[Role]*Joint{}}
}

// Name returns the robot name.
func (r *Robot) Name() string { return r.name }

// SetRootJoint sets the root of the kinematic tree.
func (r *Robot) SetRootJoint(j *Joint) { r.root = j }

// RootJoint returns the root of the kinematic tree.
func (r *Robot) RootJoint() *Joint { return r.root }

// SetActuatedJoints records the list of actuated joints.
func (r *Robot) SetActuatedJoints(joints []*Joint) { r.actuated = joints }

// ActuatedJoints returns the actuated joints.
func (r *Robot) ActuatedJoints() []*Joint { return r.actuated }

// SetRole records the joint filling a semantic role.
func (r *Robot) SetRole(role Role, j *Joint) { r.roles[role] = j }

// RoleJoint returns the joint filling a role, if resolved.
func (r *Robot) RoleJoint(role Role) (*Joint, bool) {
	j, ok := r.roles[role]
	return j, ok
}

// SetLeftHand sets the left hand descriptor.
func (r *Robot) SetLeftHand(h *Hand) { r.leftHand = h }

// LeftHand returns the left hand descriptor, nil if unresolved.
func (r *Robot) LeftHand() *Hand { return r.leftHand }

// SetRightHand sets the right hand descriptor.
func (r *Robot) SetRightHand(h *Hand) { r.rightHand = h }

// RightHand returns the right hand descriptor, nil if unresolved.
func (r *Robot) RightHand() *Hand { return r.rightHand }

// SetLeftFoot sets the left foot descriptor.
func (r *Robot) SetLeftFoot(f *Foot) { r.leftFoot = f }

// LeftFoot returns the left foot descriptor, nil if unresolved.
func (r *Robot) LeftFoot() *Foot { return r.leftFoot }

// SetRightFoot sets the right foot descriptor.
func (r *Robot) SetRightFoot(f *Foot) { r.rightFoot = f }

// RightFoot returns the right foot descriptor, nil if unresolved.
func (r *Robot) RightFoot() *Foot { return r.rightFoot }

// SetGaze sets the gaze descriptor.
func (r *Robot) SetGaze(g *Gaze) { r.gaze = g }

// Gaze returns the gaze descriptor, nil if unresolved.
func (r *Robot) Gaze() *Gaze { return r.gaze }
