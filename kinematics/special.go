package kinematics

import (
	"github.com/kinetree/kinetree/model"
)

// specialLinkByRole maps each semantic role to the canonical link whose
// parent joint fills it. The table is iterated once; roles whose link or
// parent joint are absent stay unresolved.
var specialLinkByRole = map[model.Role]string{
	model.RoleChest:      "torso",
	model.RoleLeftWrist:  "l_wrist",
	model.RoleRightWrist: "r_wrist",
	model.RoleLeftHand:   "l_gripper",
	model.RoleRightHand:  "r_gripper",
	model.RoleLeftAnkle:  "l_ankle",
	model.RoleRightAnkle: "r_ankle",
	model.RoleLeftFoot:   "l_sole",
	model.RoleRightFoot:  "r_sole",
	model.RoleGaze:       "gaze",
}

// findSpecialJoints records, per role, the name of the parent joint of the
// role's canonical link. The waist is always the synthetic root.
func (p *Parser) findSpecialJoints() {
	p.roleJoint = map[model.Role]string{model.RoleWaist: RootJointName}
	for role, linkName := range specialLinkByRole {
		link, ok := p.doc.Link(linkName)
		if !ok || link.ParentJoint == "" {
			continue
		}
		p.roleJoint[role] = link.ParentJoint
	}
}

// setSpecialJoints attaches every resolved role to the robot. Unresolved
// roles are advisory only.
func (p *Parser) setSpecialJoints() {
	for _, role := range model.Roles {
		name, ok := p.roleJoint[role]
		if !ok {
			p.logger.Debugf("no %s joint found", role)
			continue
		}
		joint, ok := p.joints[name]
		if !ok {
			p.logger.Debugf("no %s joint found", role)
			continue
		}
		p.robot.SetRole(role, joint)
	}
}
