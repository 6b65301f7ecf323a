package kinematics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/spatialmath"
)

func matColumn(m mgl64.Mat3, col int) r3.Vector {
	return r3.Vector{X: m.At(0, col), Y: m.At(1, col), Z: m.At(2, col)}
}

// handInformation derives a hand's local frame relative to its wrist from
// the initial placements fixed at build time:
//
//	wrist_T_hand = world_T_wrist⁻¹ · world_T_hand
//
// The rotation columns are the thumb, forefinger and palm-normal axes; the
// translation is the hand center.
func handInformation(hand, wrist *model.Joint) *model.Hand {
	rel := spatialmath.Compose(wrist.Placement().Invert(), hand.Placement())
	rot := rel.Rotation()
	return &model.Hand{
		Wrist:          wrist,
		Center:         rel.Translation(),
		ThumbAxis:      matColumn(rot, 0),
		ForeFingerAxis: matColumn(rot, 1),
		PalmNormal:     matColumn(rot, 2),
	}
}

// anklePositionInFootFrame expresses the ankle origin in the foot's local
// frame, keeping only the translation.
func anklePositionInFootFrame(foot, ankle *model.Joint) r3.Vector {
	return spatialmath.Compose(foot.Placement().Invert(), ankle.Placement()).Translation()
}

// deriveHand returns the hand descriptor for a hand/wrist role pair, or nil
// when either half is unresolved.
func (p *Parser) deriveHand(label string, handRole, wristRole model.Role) *model.Hand {
	hand, handOK := p.robot.RoleJoint(handRole)
	wrist, wristOK := p.robot.RoleJoint(wristRole)
	if !handOK || !wristOK {
		p.logger.Debugf("could not set %s", label)
		return nil
	}
	return handInformation(hand, wrist)
}

// deriveFoot returns the foot descriptor for a foot/ankle role pair, or nil
// when either half is unresolved. Sole sizes stay (0, 0) until a contact
// description supplies them.
func (p *Parser) deriveFoot(label string, footRole, ankleRole model.Role) *model.Foot {
	foot, footOK := p.robot.RoleJoint(footRole)
	ankle, ankleOK := p.robot.RoleJoint(ankleRole)
	if !footOK || !ankleOK {
		p.logger.Debugf("could not set %s", label)
		return nil
	}
	return &model.Foot{
		Ankle:         ankle,
		AnklePosition: anklePositionInFootFrame(foot, ankle),
	}
}

// fillHandsAndFeet derives the hand and foot descriptors for whichever
// hand/wrist and foot/ankle pairs resolved. A missing half of a pair is
// advisory: the descriptor is omitted and the parse continues.
func (p *Parser) fillHandsAndFeet() {
	if hand := p.deriveHand("left hand", model.RoleLeftHand, model.RoleLeftWrist); hand != nil {
		p.robot.SetLeftHand(hand)
	}
	if hand := p.deriveHand("right hand", model.RoleRightHand, model.RoleRightWrist); hand != nil {
		p.robot.SetRightHand(hand)
	}
	if foot := p.deriveFoot("left foot", model.RoleLeftFoot, model.RoleLeftAnkle); foot != nil {
		p.robot.SetLeftFoot(foot)
	}
	if foot := p.deriveFoot("right foot", model.RoleRightFoot, model.RoleRightAnkle); foot != nil {
		p.robot.SetRightFoot(foot)
	}
}

// fillGaze attaches the gaze descriptor. Direction and origin are fixed by
// convention: forward along the joint's normalized first axis, origin at the
// joint origin. They are not derived from geometry.
func (p *Parser) fillGaze() {
	gazeJoint, ok := p.robot.RoleJoint(model.RoleGaze)
	if !ok {
		p.logger.Debugf("could not set gaze")
		return
	}
	p.robot.SetGaze(&model.Gaze{
		Joint:     gazeJoint,
		Direction: r3.Vector{X: 1},
		Origin:    r3.Vector{},
	})
}
