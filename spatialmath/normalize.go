package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// OrthonormalBasis builds an orthonormal basis [x|y|z] whose first column is
// the given axis, via a two-step Gram-Schmidt process. The second column is
// seeded with the cardinal axis whose component along x has the smallest
// magnitude, which keeps the cross products away from degeneracy when the
// axis is nearly cardinal.
//
// A zero axis is undefined and must be rejected before calling this.
func OrthonormalBasis(axis r3.Vector) mgl64.Mat3 {
	x := axis.Normalize()

	components := [3]float64{x.X, x.Y, x.Z}
	smallest := 0
	for i := 1; i < 3; i++ {
		if math.Abs(components[i]) < math.Abs(components[smallest]) {
			smallest = i
		}
	}
	var y r3.Vector
	switch smallest {
	case 0:
		y = r3.Vector{X: 1}
	case 1:
		y = r3.Vector{Y: 1}
	case 2:
		y = r3.Vector{Z: 1}
	}

	z := x.Cross(y).Normalize()
	y = z.Cross(x)

	return mgl64.Mat3FromCols(
		mgl64.Vec3{x.X, x.Y, x.Z},
		mgl64.Vec3{y.X, y.Y, y.Z},
		mgl64.Vec3{z.X, z.Y, z.Z},
	)
}

// NewNormalizationTransform embeds the orthonormal basis for the given axis
// as the rotational part of a transform with zero translation. Composing a
// joint placement with it reorients the joint's local frame so the motion
// axis becomes the first basis vector.
func NewNormalizationTransform(axis r3.Vector) *Transform {
	return NewTransformFromRotation(OrthonormalBasis(axis))
}
