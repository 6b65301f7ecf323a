// Package spatialmath implements the rigid-transform algebra used to place
// joints and bodies: 4x4 homogeneous transforms, pose conversions, and the
// axis-normalization basis applied to actuated joints.
package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Transform is a rigid transformation in 3D space, held as a 4x4 homogeneous
// matrix. The rotational part is expected to stay orthonormal; Invert relies
// on it.
type Transform struct {
	mat mgl64.Mat4
}

// NewTransform returns a new identity Transform.
func NewTransform() *Transform {
	return &Transform{mgl64.Ident4()}
}

// NewTransformFromMat wraps an existing 4x4 matrix.
func NewTransformFromMat(mat mgl64.Mat4) *Transform {
	return &Transform{mat}
}

// NewTransformFromRotation returns a Transform with the given rotational part
// and zero translation.
func NewTransformFromRotation(rot mgl64.Mat3) *Transform {
	return &Transform{rot.Mat4()}
}

// NewTransformFromPoint returns a pure translation Transform.
func NewTransformFromPoint(pt r3.Vector) *Transform {
	t := NewTransform()
	t.SetTranslation(pt)
	return t
}

// NewTransformFromPose converts a position plus unit quaternion pose into a
// Transform.
func NewTransformFromPose(position r3.Vector, rotation quat.Number) *Transform {
	t := &Transform{RotationMatrix(rotation).Mat4()}
	t.SetTranslation(position)
	return t
}

// Mat returns the underlying 4x4 matrix.
func (t *Transform) Mat() mgl64.Mat4 {
	return t.mat
}

// Rotation returns the top-left 3x3 rotational block.
func (t *Transform) Rotation() mgl64.Mat3 {
	return t.mat.Mat3()
}

// Translation returns the translation column.
func (t *Transform) Translation() r3.Vector {
	return r3.Vector{X: t.mat.At(0, 3), Y: t.mat.At(1, 3), Z: t.mat.At(2, 3)}
}

// SetTranslation overwrites the translation column.
func (t *Transform) SetTranslation(v r3.Vector) {
	t.mat.Set(0, 3, v.X)
	t.mat.Set(1, 3, v.Y)
	t.mat.Set(2, 3, v.Z)
}

// Clone returns a copy of the Transform.
func (t *Transform) Clone() *Transform {
	return &Transform{t.mat}
}

// Compose returns a·b, the transform obtained by applying b first and a
// second. Placement chains compose right to left: reversing the order
// produces wrong absolute poses without any other symptom.
func Compose(a, b *Transform) *Transform {
	return &Transform{a.mat.Mul4(b.mat)}
}

// Invert returns the rigid inverse: transposed rotation, negated re-expressed
// translation. Cheaper and better conditioned than a general 4x4 inversion.
func (t *Transform) Invert() *Transform {
	rt := t.mat.Mat3().Transpose()
	p := rt.Mul3x1(mgl64.Vec3{t.mat.At(0, 3), t.mat.At(1, 3), t.mat.At(2, 3)}).Mul(-1)
	inv := rt.Mat4()
	inv.Set(0, 3, p.X())
	inv.Set(1, 3, p.Y())
	inv.Set(2, 3, p.Z())
	return &Transform{inv}
}

// TransformPoint applies the transform to a point in homogeneous coordinates.
func (t *Transform) TransformPoint(pt r3.Vector) r3.Vector {
	v := t.mat.Mul4x1(mgl64.Vec4{pt.X, pt.Y, pt.Z, 1})
	return r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// AlmostEqual reports whether two transforms differ by no more than epsilon
// in any entry.
func (t *Transform) AlmostEqual(other *Transform, epsilon float64) bool {
	return t.mat.ApproxEqualThreshold(other.mat, epsilon)
}
