// Package kinematics resolves a parsed robot description into a kinematic
// model: one typed joint per document joint placed in a canonical reference
// frame, motion axes normalized onto the first basis vector, body inertial
// data re-expressed through the same normalization, and humanoid end-effector
// descriptors derived from the resolved placements.
package kinematics

import (
	"math"
	"sort"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/urdf"
)

// Names of the synthetic root joint and the link it carries. The root joint
// is created at identity before any document joint and acts as the model's
// base.
const (
	RootJointName = "base_joint"
)

// Parser resolves documents into robot models. A Parser is not safe for
// concurrent use; every Parse call resets all state, so one instance can be
// reused sequentially for multiple documents.
type Parser struct {
	logger golog.Logger

	rootJointType  model.JointType
	referenceJoint string

	doc       *urdf.Document
	robot     *model.Robot
	rootJoint *model.Joint
	joints    map[string]*model.Joint
	roleJoint map[model.Role]string
}

// Option configures a Parser.
type Option func(*Parser)

// WithRootJointType selects the kind of the synthetic root joint. Floating
// (the default) gives the model a free-flyer base; Fixed anchors it.
func WithRootJointType(jointType model.JointType) Option {
	return func(p *Parser) {
		p.rootJointType = jointType
	}
}

// WithReferenceJoint sets the name of the joint whose frame every placement
// is expressed in. The default is the synthetic root joint, which yields
// absolute placements.
func WithReferenceJoint(name string) Option {
	return func(p *Parser) {
		p.referenceJoint = name
	}
}

// NewParser returns a Parser logging through the given logger.
func NewParser(logger golog.Logger, opts ...Option) *Parser {
	p := &Parser{
		logger:         logger,
		rootJointType:  model.Floating,
		referenceJoint: RootJointName,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// reset clears all per-parse state so a failed or repeated parse never leaks
// joints from a previous document.
func (p *Parser) reset() {
	p.doc = nil
	p.robot = nil
	p.rootJoint = nil
	p.joints = map[string]*model.Joint{}
	p.roleJoint = map[model.Role]string{}
}

// Parse reads URDF XML data and resolves it into a robot model.
func (p *Parser) Parse(description []byte) (*model.Robot, error) {
	doc, err := urdf.Parse(description)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse robot description")
	}
	return p.ParseDocument(doc)
}

// ParseDocument resolves an already-parsed document into a robot model.
// Structural inconsistencies abort the whole parse and leave the parser
// reset; there is no partial-success mode.
func (p *Parser) ParseDocument(doc *urdf.Document) (*model.Robot, error) {
	p.reset()
	p.doc = doc
	p.robot = model.NewRobot(doc.Name())

	if _, ok := doc.Root(); !ok {
		p.reset()
		return nil, ErrMissingRootLink
	}

	// Resolve special joint names before building: the role table only needs
	// the document.
	p.findSpecialJoints()

	if err := p.parseJoints(); err != nil {
		p.reset()
		return nil, errors.Wrap(err, "could not parse joints")
	}

	visited := map[string]bool{}
	if err := p.connectJoints(p.rootJoint, visited); err != nil {
		p.reset()
		return nil, errors.Wrap(err, "could not connect joints")
	}
	// Every created joint must hang off the root; a leftover violates the
	// tree invariant.
	for _, name := range sortedJointNames(p.joints) {
		if name == RootJointName || visited[name] {
			continue
		}
		p.reset()
		return nil, errors.Wrap(NewUnreachableJointError(name), "could not connect joints")
	}

	p.setSpecialJoints()

	if err := p.addBodiesToJoints(); err != nil {
		p.reset()
		return nil, errors.Wrap(err, "could not add bodies to joints")
	}

	actuated, err := p.actuatedJoints()
	if err != nil {
		p.reset()
		return nil, err
	}
	p.robot.SetActuatedJoints(actuated)

	p.fillGaze()
	// Uses initial placements, so it must run after the tree is built.
	p.fillHandsAndFeet()
	p.setFreeFlyerBounds()

	return p.robot, nil
}

// Joint returns a resolved joint from the last successful parse.
func (p *Parser) Joint(name string) (*model.Joint, bool) {
	j, ok := p.joints[name]
	return j, ok
}

// actuatedJoints collects every revolute, continuous and prismatic joint in
// name order.
func (p *Parser) actuatedJoints() ([]*model.Joint, error) {
	var joints []*model.Joint
	for _, name := range p.doc.JointNames() {
		docJoint, _ := p.doc.Joint(name)
		switch docJoint.Kind {
		case urdf.JointRevolute, urdf.JointContinuous, urdf.JointPrismatic:
		default:
			continue
		}
		joint, ok := p.joints[name]
		if !ok {
			return nil, errors.Wrap(NewMissingJointError(name), "failed to collect actuated joints")
		}
		joints = append(joints, joint)
	}
	return joints, nil
}

// setFreeFlyerBounds bounds the floating root's orientation: translations
// and yaw stay unbounded, roll and pitch are held within ±π/6.
func (p *Parser) setFreeFlyerBounds() {
	if p.rootJoint == nil || p.rootJoint.Type() != model.Floating {
		return
	}
	for dof := 0; dof < 3; dof++ {
		p.rootJoint.SetBounded(dof, false)
	}
	for dof := 3; dof < 5; dof++ {
		p.rootJoint.SetBounds(dof, -math.Pi/6, math.Pi/6)
	}
	p.rootJoint.SetBounded(5, false)
}

func sortedJointNames(joints map[string]*model.Joint) []string {
	names := make([]string, 0, len(joints))
	for name := range joints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
