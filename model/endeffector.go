package model

import "github.com/golang/geo/r3"

// Hand describes an end effector derived from a hand joint: its local frame
// relative to the associated wrist, decomposed into a center and three axes.
type Hand struct {
	Wrist          *Joint
	Center         r3.Vector
	ThumbAxis      r3.Vector
	ForeFingerAxis r3.Vector
	PalmNormal     r3.Vector
}

// Foot describes a foot end effector: the ankle position expressed in the
// foot's local frame and the sole dimensions. Sole dimensions default to
// zero at build time; a contact description can fill them in afterwards.
type Foot struct {
	Ankle         *Joint
	AnklePosition r3.Vector
	SoleDepth     float64
	SoleWidth     float64
}

// SetSoleSize sets the sole dimensions.
func (f *Foot) SetSoleSize(depth, width float64) {
	f.SoleDepth = depth
	f.SoleWidth = width
}

// Gaze describes the gaze joint with its conventional direction and origin
// in the joint's normalized local frame.
type Gaze struct {
	Joint     *Joint
	Direction r3.Vector
	Origin    r3.Vector
}
