package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestOrthonormalBasis(t *testing.T) {
	axes := []r3.Vector{
		{X: 1},
		{Y: 1},
		{Z: 1},
		{X: -1},
		{X: 1, Y: 1, Z: 1},
		{X: 0.9999, Y: 0.0001, Z: 0.01},
		{X: -0.3, Y: 0.8, Z: -0.52},
	}
	for _, axis := range axes {
		x := axis.Normalize()
		basis := OrthonormalBasis(axis)

		cols := make([]r3.Vector, 3)
		for i := 0; i < 3; i++ {
			cols[i] = r3.Vector{X: basis.At(0, i), Y: basis.At(1, i), Z: basis.At(2, i)}
		}

		// Column 0 is the axis itself, untouched.
		test.That(t, cols[0].X, test.ShouldAlmostEqual, x.X, 1e-12)
		test.That(t, cols[0].Y, test.ShouldAlmostEqual, x.Y, 1e-12)
		test.That(t, cols[0].Z, test.ShouldAlmostEqual, x.Z, 1e-12)

		// All columns unit length and mutually orthogonal.
		for i := 0; i < 3; i++ {
			test.That(t, cols[i].Norm(), test.ShouldAlmostEqual, 1, 1e-12)
			for j := i + 1; j < 3; j++ {
				test.That(t, cols[i].Dot(cols[j]), test.ShouldAlmostEqual, 0, 1e-12)
			}
		}

		// Right-handed: x cross y equals z.
		cross := cols[0].Cross(cols[1])
		test.That(t, cross.X, test.ShouldAlmostEqual, cols[2].X, 1e-12)
		test.That(t, cross.Y, test.ShouldAlmostEqual, cols[2].Y, 1e-12)
		test.That(t, cross.Z, test.ShouldAlmostEqual, cols[2].Z, 1e-12)
	}
}

func TestNormalizationTransformForZAxis(t *testing.T) {
	// For the +Z axis the smallest component is X, so the basis works out to
	// columns (z, x, y) of the cardinal frame.
	tf := NewNormalizationTransform(r3.Vector{Z: 1})
	rot := tf.Rotation()

	test.That(t, rot.At(2, 0), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, rot.At(0, 1), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, rot.At(1, 2), test.ShouldAlmostEqual, 1, 1e-12)
	test.That(t, tf.Translation().Norm(), test.ShouldAlmostEqual, 0)
}

func TestNormalizationTransformCardinalX(t *testing.T) {
	// A joint already aligned with +X normalizes to the identity.
	tf := NewNormalizationTransform(r3.Vector{X: 1})
	test.That(t, tf.AlmostEqual(NewTransform(), 1e-12), test.ShouldBeTrue)
}

func TestOrthonormalBasisNearCardinal(t *testing.T) {
	// Nearly aligned with +Z; the seed must avoid the dominant component.
	axis := r3.Vector{X: 1e-9, Y: 1e-9, Z: 1}
	basis := OrthonormalBasis(axis)
	det := basis.Det()
	test.That(t, det, test.ShouldAlmostEqual, 1, 1e-9)
	test.That(t, math.IsNaN(basis.At(0, 1)), test.ShouldBeFalse)
}
