package kinematics

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"go.viam.com/test"

	"github.com/kinetree/kinetree/geometry"
	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/spatialmath"
	"github.com/kinetree/kinetree/urdf"
)

func TestAttachBoxSolid(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1">
    <visual>
      <origin xyz="0 0 0.25"/>
      <geometry><box size="0.1 0.2 0.5"/></geometry>
    </visual>
    <collision>
      <origin xyz="0 0 0.25"/>
      <geometry><box size="0.1 0.2 0.5"/></geometry>
    </collision>
  </link>
  <joint name="j1" type="fixed">
    <origin xyz="1 0 0"/>
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldBeNil)

	j1, _ := p.Joint("j1")
	solids := j1.Solids()
	test.That(t, solids, test.ShouldHaveLength, 1)
	test.That(t, solids[0].Kind, test.ShouldEqual, geometry.KindBox)
	test.That(t, solids[0].Name, test.ShouldEqual, "l1")
	test.That(t, solids[0].Size.Z, test.ShouldAlmostEqual, 0.5)

	// Joint origin composed with the visual offset.
	pt := solids[0].Pose.Translation()
	test.That(t, pt.X, test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, pt.Z, test.ShouldAlmostEqual, 0.25, 1e-12)
}

func TestAttachCapsuleFromMeshAndCylinder(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1">
    <visual>
      <geometry><mesh filename="package://r/meshes/arm.dae"/></geometry>
    </visual>
    <collision>
      <origin xyz="0 0 0.1"/>
      <geometry><cylinder radius="0.05" length="0.3"/></geometry>
    </collision>
  </link>
  <joint name="j1" type="fixed">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldBeNil)

	j1, _ := p.Joint("j1")
	solids := j1.Solids()
	test.That(t, solids, test.ShouldHaveLength, 1)
	test.That(t, solids[0].Kind, test.ShouldEqual, geometry.KindCapsule)
	test.That(t, solids[0].Radius, test.ShouldAlmostEqual, 0.05)
	test.That(t, solids[0].Length, test.ShouldAlmostEqual, 0.3)

	// The capsule pose uses the collision origin, reoriented so the declared
	// z axis becomes the backend's x axis.
	pose := solids[0].Pose
	test.That(t, pose.Translation().Z, test.ShouldAlmostEqual, 0.1, 1e-12)
	rot := pose.Rotation()
	test.That(t, rot.At(0, 0), test.ShouldAlmostEqual, math.Cos(math.Pi/2), 1e-12)
	test.That(t, rot.At(0, 2), test.ShouldAlmostEqual, 1, 1e-12)
}

func TestAttachMeshReference(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1">
    <visual>
      <geometry><mesh filename="package://r/meshes/arm.dae" scale="2 2 2"/></geometry>
    </visual>
    <collision>
      <geometry><mesh filename="package://r/meshes/arm.dae"/></geometry>
    </collision>
  </link>
  <joint name="j1" type="fixed">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldBeNil)

	j1, _ := p.Joint("j1")
	solids := j1.Solids()
	test.That(t, solids, test.ShouldHaveLength, 1)
	test.That(t, solids[0].Kind, test.ShouldEqual, geometry.KindMesh)
	test.That(t, solids[0].MeshFilename, test.ShouldEqual, "package://r/meshes/arm.dae")
	test.That(t, solids[0].MeshScale.X, test.ShouldAlmostEqual, 2)
}

func TestAttachMismatchedMeshesFails(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	robot, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1">
    <visual>
      <geometry><mesh filename="a.dae"/></geometry>
    </visual>
    <collision>
      <geometry><mesh filename="b.dae"/></geometry>
    </collision>
  </link>
  <joint name="j1" type="fixed">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "meshes differ")
	test.That(t, robot, test.ShouldBeNil)
}

func TestUnhandledGeometryCombinationIsAdvisory(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1">
    <visual>
      <geometry><sphere radius="0.1"/></geometry>
    </visual>
    <collision>
      <geometry><box size="1 1 1"/></geometry>
    </collision>
  </link>
  <joint name="j1" type="fixed">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldBeNil)

	j1, _ := p.Joint("j1")
	test.That(t, j1.Solids(), test.ShouldHaveLength, 0)
}

func TestBodyAttachmentUnknownJointFails(t *testing.T) {
	logger := golog.NewTestLogger(t)
	doc := urdf.NewDocument("r")
	test.That(t, doc.AddLink(&urdf.Link{Name: "base_link"}), test.ShouldBeNil)

	// A joint in the table without a document counterpart is a structural
	// failure, not something to skip over.
	p := NewParser(logger)
	p.reset()
	p.doc = doc
	p.joints["phantom"] = model.NewFixedJoint("phantom", spatialmath.NewTransform())

	err := p.addBodiesToJoints()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"phantom"`)
}

func TestVisualOnlyLinkAttachesNothing(t *testing.T) {
	logger := golog.NewTestLogger(t)
	p := NewParser(logger)
	_, err := p.Parse([]byte(`
<robot name="r">
  <link name="base_link"/>
  <link name="l1">
    <visual>
      <geometry><sphere radius="0.1"/></geometry>
    </visual>
  </link>
  <joint name="j1" type="fixed">
    <parent link="base_link"/>
    <child link="l1"/>
  </joint>
</robot>`))
	test.That(t, err, test.ShouldBeNil)

	j1, _ := p.Joint("j1")
	test.That(t, j1.Solids(), test.ShouldHaveLength, 0)
}
