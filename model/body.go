package model

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// Body carries the inertial data of the link attached to a joint, expressed
// in the joint's normalized frame. A body is owned exclusively by its joint.
type Body struct {
	mass         float64
	centerOfMass r3.Vector
	inertia      *mat.Dense // 3x3, symmetric
}

// NewBody returns a body with the given mass properties. A nil inertia is
// replaced with the zero tensor.
func NewBody(mass float64, centerOfMass r3.Vector, inertia *mat.Dense) *Body {
	if inertia == nil {
		inertia = mat.NewDense(3, 3, nil)
	}
	return &Body{mass: mass, centerOfMass: centerOfMass, inertia: inertia}
}

// Mass returns the body mass.
func (b *Body) Mass() float64 { return b.mass }

// CenterOfMass returns the center of mass in the joint's normalized frame.
func (b *Body) CenterOfMass() r3.Vector { return b.centerOfMass }

// Inertia returns the 3x3 inertia tensor in the joint's normalized frame.
func (b *Body) Inertia() *mat.Dense { return b.inertia }
