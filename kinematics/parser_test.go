package kinematics

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/spatialmath"
	"github.com/kinetree/kinetree/urdf"
)

const chainDescription = `
<robot name="chain">
  <link name="base_link"/>
  <link name="l1"/>
  <link name="l2"/>
  <joint name="j1" type="fixed">
    <origin xyz="0 0 0.5" rpy="0 0 1.5707963267948966"/>
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
  <joint name="j2" type="fixed">
    <origin xyz="0.2 0 0"/>
    <parent link="l1"/>
    <child link="l2"/>
  </joint>
</robot>`

func TestPoseInReferenceFrame(t *testing.T) {
	logger := golog.NewTestLogger(t)
	doc, err := urdf.Parse([]byte(chainDescription))
	test.That(t, err, test.ShouldBeNil)

	p := NewParser(logger)
	robot, err := p.ParseDocument(doc)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, robot, test.ShouldNotBeNil)

	// A joint is its own reference: the result is its stored local origin
	// transform.
	j2 := p.PoseInReferenceFrame("j2", "j2")
	test.That(t, j2.Translation().X, test.ShouldAlmostEqual, 0.2)

	// Composition: pose(root, j2) = pose(root, j1) · pose(j1, j2).
	poseJ1 := p.PoseInReferenceFrame(RootJointName, "j1")
	poseJ2 := p.PoseInReferenceFrame(RootJointName, "j2")
	local := p.PoseInReferenceFrame("j2", "j2")
	composed := spatialmath.Compose(poseJ1, local)
	test.That(t, poseJ2.AlmostEqual(composed, 1e-12), test.ShouldBeTrue)

	// j1 rotates the chain 90 degrees about z, so j2's 0.2 x offset lands on y.
	test.That(t, poseJ2.Translation().X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, poseJ2.Translation().Y, test.ShouldAlmostEqual, 0.2, 1e-12)
	test.That(t, poseJ2.Translation().Z, test.ShouldAlmostEqual, 0.5, 1e-12)
}

func TestResolvedPlacements(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(chainDescription))
	test.That(t, err, test.ShouldBeNil)

	root, ok := p.Joint(RootJointName)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, root.Type(), test.ShouldEqual, model.Floating)
	test.That(t, root.Placement().AlmostEqual(spatialmath.NewTransform(), 1e-12), test.ShouldBeTrue)
	test.That(t, root.Children(), test.ShouldHaveLength, 1)
	test.That(t, root.Children()[0].Name(), test.ShouldEqual, "j1")

	j1, ok := p.Joint("j1")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, j1.Children(), test.ShouldHaveLength, 1)
	test.That(t, j1.Children()[0].Name(), test.ShouldEqual, "j2")
	test.That(t, j1.Children()[0].Parent(), test.ShouldEqual, j1)
}

func TestRevoluteNormalization(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1">
    <inertial>
      <origin xyz="0 0 1"/>
      <mass value="2"/>
      <inertia ixx="1" ixy="0" ixz="0" iyy="2" iyz="0" izz="3"/>
    </inertial>
  </link>
  <joint name="j1" type="revolute">
    <parent link="base_link"/>
    <child link="l1"/>
    <axis xyz="0 0 1"/>
    <limit lower="-1" upper="1" velocity="2" effort="5"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldBeNil)

	j1, ok := p.Joint("j1")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, j1.Type(), test.ShouldEqual, model.Revolute)

	// The placement's rotation must carry the declared axis onto the first
	// basis vector: for +Z the basis works out to columns (z, x, y).
	rot := j1.Placement().Rotation()
	test.That(t, rot.At(2, 0), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, rot.At(0, 1), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, rot.At(1, 2), test.ShouldAlmostEqual, 1, 1e-12)

	// Bounds from the limit element.
	test.That(t, j1.Bounded(0), test.ShouldBeTrue)
	lower, upper := j1.Bounds(0)
	test.That(t, lower, test.ShouldEqual, -1.0)
	test.That(t, upper, test.ShouldEqual, 1.0)
	test.That(t, j1.VelocityBound(0), test.ShouldEqual, 2.0)
	test.That(t, j1.EffortBound(0), test.ShouldEqual, 5.0)

	// Body inertial data re-expressed through the inverse normalization: the
	// declared (0,0,1) center of mass lands on the canonical first axis, and
	// the diagonal tensor permutes accordingly.
	body := j1.Body()
	test.That(t, body, test.ShouldNotBeNil)
	test.That(t, body.Mass(), test.ShouldEqual, 2.0)
	com := body.CenterOfMass()
	test.That(t, com.X, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, com.Y, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, com.Z, test.ShouldAlmostEqual, 0, 1e-12)

	inertia := body.Inertia()
	test.That(t, inertia.At(0, 0), test.ShouldAlmostEqual, 3, 1e-12)
	test.That(t, inertia.At(1, 1), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, inertia.At(2, 2), test.ShouldAlmostEqual, 2, 1e-12)
}

func TestInertiaConjugationRoundTrip(t *testing.T) {
	axis := r3.Vector{X: 0.3, Y: -0.5, Z: 0.81}
	rotation := spatialmath.OrthonormalBasis(axis)
	inertia := mat.NewDense(3, 3, []float64{
		1.0, 0.1, 0.2,
		0.1, 2.0, 0.3,
		0.2, 0.3, 3.0,
	})

	// Conjugating by R and then by Rᵗ recovers the original tensor.
	forward := conjugateInertia(inertia, rotation)
	back := conjugateInertia(forward, rotation.Transpose())
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			test.That(t, back.At(i, j), test.ShouldAlmostEqual, inertia.At(i, j), 1e-12)
		}
	}
}

func TestMissingInertialIsAdvisory(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1"/>
  <joint name="j1" type="fixed">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldBeNil)

	j1, _ := p.Joint("j1")
	test.That(t, j1.Body(), test.ShouldNotBeNil)
	test.That(t, j1.Body().Mass(), test.ShouldEqual, 0.0)
}

func TestPlanarJointFails(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	robot, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1"/>
  <joint name="j1" type="planar">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "planar")
	test.That(t, robot, test.ShouldBeNil)

	// The failed parse leaves nothing behind.
	_, ok := p.Joint(RootJointName)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestRootJointNameCollision(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	robot, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1"/>
  <joint name="base_joint" type="fixed">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "duplicate joint")
	test.That(t, robot, test.ShouldBeNil)
}

func TestZeroAxisFails(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1"/>
  <joint name="j1" type="revolute">
    <parent link="base_link"/>
    <child link="l1"/>
    <axis xyz="0 0 0"/>
    <limit lower="0" upper="1" velocity="1" effort="1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "zero axis")
}

func TestMissingChildLinkIsStructural(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// Built by hand to bypass document validation: the joint's child link is
	// never added.
	doc := urdf.NewDocument("broken")
	test.That(t, doc.AddLink(&urdf.Link{Name: "base_link"}), test.ShouldBeNil)
	test.That(t, doc.AddJoint(&urdf.Joint{
		Name:       "j1",
		Kind:       urdf.JointFixed,
		ParentLink: "base_link",
		ChildLink:  "ghost",
		Origin:     urdf.IdentityPose(),
	}), test.ShouldBeNil)

	p := NewParser(logger)
	robot, err := p.ParseDocument(doc)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"ghost"`)
	test.That(t, robot, test.ShouldBeNil)
}

func TestFreeFlyerBounds(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`<robot name="r"><link name="base_link"/></robot>`))
	test.That(t, err, test.ShouldBeNil)

	root, _ := p.Joint(RootJointName)
	test.That(t, root.DoF(), test.ShouldEqual, 6)
	for dof := 0; dof < 3; dof++ {
		test.That(t, root.Bounded(dof), test.ShouldBeFalse)
	}
	for dof := 3; dof < 5; dof++ {
		test.That(t, root.Bounded(dof), test.ShouldBeTrue)
		lower, upper := root.Bounds(dof)
		test.That(t, lower, test.ShouldAlmostEqual, -math.Pi/6)
		test.That(t, upper, test.ShouldAlmostEqual, math.Pi/6)
	}
	test.That(t, root.Bounded(5), test.ShouldBeFalse)
}

func TestFixedRootOption(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger, WithRootJointType(model.Fixed))
	robot, err := p.Parse([]byte(`<robot name="r"><link name="base_link"/></robot>`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, robot.RootJoint().Type(), test.ShouldEqual, model.Fixed)
	test.That(t, robot.RootJoint().DoF(), test.ShouldEqual, 0)
}

func TestParserReuseResets(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)

	_, err := p.Parse([]byte(chainDescription))
	test.That(t, err, test.ShouldBeNil)
	_, ok := p.Joint("j1")
	test.That(t, ok, test.ShouldBeTrue)

	robot, err := p.Parse([]byte(`<robot name="other"><link name="base_link"/></robot>`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, robot.Name(), test.ShouldEqual, "other")
	_, ok = p.Joint("j1")
	test.That(t, ok, test.ShouldBeFalse)
}

func TestCyclicParentChainFails(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)

	// Passes document validation: base_link is the single root and each of
	// a and b has exactly one parent joint, yet j1/j2 form a loop.
	robot, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="a"/>
  <link name="b"/>
  <joint name="j1" type="fixed">
    <parent link="a"/>
    <child link="b"/>
  </joint>
  <joint name="j2" type="fixed">
    <parent link="b"/>
    <child link="a"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cycle")
	test.That(t, robot, test.ShouldBeNil)

	_, ok := p.Joint(RootJointName)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestCyclicChildReferencesFail(t *testing.T) {
	logger := golog.NewTestLogger(t)

	// Built by hand so the child-joint wiring loops while every parent chain
	// stays acyclic, exercising the guard in the connection phase.
	doc := urdf.NewDocument("looped")
	test.That(t, doc.AddLink(&urdf.Link{Name: "base_link"}), test.ShouldBeNil)
	test.That(t, doc.AddLink(&urdf.Link{Name: "l1"}), test.ShouldBeNil)
	test.That(t, doc.AddJoint(&urdf.Joint{
		Name:       "j1",
		Kind:       urdf.JointFixed,
		ParentLink: "base_link",
		ChildLink:  "l1",
		Origin:     urdf.IdentityPose(),
	}), test.ShouldBeNil)
	l1, ok := doc.Link("l1")
	test.That(t, ok, test.ShouldBeTrue)
	l1.ChildJoints = append(l1.ChildJoints, "j1")

	p := NewParser(logger)
	robot, err := p.ParseDocument(doc)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cycle")
	test.That(t, robot, test.ShouldBeNil)
}

func TestUnreachableJointFails(t *testing.T) {
	logger := golog.NewTestLogger(t)

	doc := urdf.NewDocument("detached")
	test.That(t, doc.AddLink(&urdf.Link{Name: "base_link"}), test.ShouldBeNil)
	test.That(t, doc.AddLink(&urdf.Link{Name: "l1"}), test.ShouldBeNil)
	test.That(t, doc.AddJoint(&urdf.Joint{
		Name:       "j1",
		Kind:       urdf.JointFixed,
		ParentLink: "base_link",
		ChildLink:  "l1",
		Origin:     urdf.IdentityPose(),
	}), test.ShouldBeNil)
	// Severing the child reference leaves j1 created but never connected.
	root, ok := doc.Link("base_link")
	test.That(t, ok, test.ShouldBeTrue)
	root.ChildJoints = nil

	p := NewParser(logger)
	robot, err := p.ParseDocument(doc)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "not reachable")
	test.That(t, robot, test.ShouldBeNil)
}

func TestPoseInReferenceFrameUnknownJoint(t *testing.T) {
	logger := golog.NewTestLogger(t)
	doc, err := urdf.Parse([]byte(chainDescription))
	test.That(t, err, test.ShouldBeNil)

	p := NewParser(logger)
	_, err = p.ParseDocument(doc)
	test.That(t, err, test.ShouldBeNil)

	pose := p.PoseInReferenceFrame(RootJointName, "no_such_joint")
	test.That(t, pose.AlmostEqual(spatialmath.NewTransform(), 1e-12), test.ShouldBeTrue)
}

func TestMissingRootLink(t *testing.T) {
	logger := golog.NewTestLogger(t)
	doc := urdf.NewDocument("empty")
	p := NewParser(logger)
	robot, err := p.ParseDocument(doc)
	test.That(t, err, test.ShouldEqual, ErrMissingRootLink)
	test.That(t, robot, test.ShouldBeNil)
}
