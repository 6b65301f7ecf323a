// Package geometry describes the collision solids handed off to a collision
// backend: primitive shapes placed in the world frame at model-build time.
// Mesh solids carry a resource reference; decoding mesh files into polyhedra
// is the backend's concern, not this package's.
package geometry

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/kinetree/kinetree/spatialmath"
)

// Solid shape kinds.
const (
	KindBox      = "box"
	KindCylinder = "cylinder"
	KindSphere   = "sphere"
	KindCapsule  = "capsule"
	KindMesh     = "mesh"
)

// Solid is a tagged collision shape with a world-frame placement. Only the
// dimension fields of the tagged kind are meaningful.
type Solid struct {
	Name string
	Kind string
	Pose *spatialmath.Transform

	// box
	Size r3.Vector

	// cylinder, sphere, capsule
	Radius float64
	// cylinder, capsule (tip to tip)
	Length float64

	// mesh
	MeshFilename string
	MeshScale    r3.Vector
}

// NewBox returns a box solid. Dimensions must be positive.
func NewBox(name string, size r3.Vector, pose *spatialmath.Transform) (*Solid, error) {
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, newBadDimensionsError(KindBox, name)
	}
	return &Solid{Name: name, Kind: KindBox, Pose: pose, Size: size}, nil
}

// NewCylinder returns a cylinder solid oriented along the local x axis.
func NewCylinder(name string, radius, length float64, pose *spatialmath.Transform) (*Solid, error) {
	if radius <= 0 || length <= 0 {
		return nil, newBadDimensionsError(KindCylinder, name)
	}
	return &Solid{Name: name, Kind: KindCylinder, Pose: pose, Radius: radius, Length: length}, nil
}

// NewSphere returns a sphere solid.
func NewSphere(name string, radius float64, pose *spatialmath.Transform) (*Solid, error) {
	if radius <= 0 {
		return nil, newBadDimensionsError(KindSphere, name)
	}
	return &Solid{Name: name, Kind: KindSphere, Pose: pose, Radius: radius}, nil
}

// NewCapsule returns a capsule solid oriented along the local x axis. Length
// is the distance between the segment endpoints, so the capsule extends
// length + 2*radius tip to tip.
func NewCapsule(name string, radius, length float64, pose *spatialmath.Transform) (*Solid, error) {
	if radius <= 0 || length <= 0 {
		return nil, newBadDimensionsError(KindCapsule, name)
	}
	return &Solid{Name: name, Kind: KindCapsule, Pose: pose, Radius: radius, Length: length}, nil
}

// NewMeshReference returns a mesh solid referencing an external geometry
// resource. The backend decodes the file; scale applies per axis.
func NewMeshReference(name, filename string, scale r3.Vector, pose *spatialmath.Transform) (*Solid, error) {
	if filename == "" {
		return nil, errors.Errorf("mesh solid %q has no filename", name)
	}
	return &Solid{Name: name, Kind: KindMesh, Pose: pose, MeshFilename: filename, MeshScale: scale}, nil
}

// String returns a human readable description of the solid.
func (s *Solid) String() string {
	switch s.Kind {
	case KindBox:
		return fmt.Sprintf("Type: Box, Size: %.3f %.3f %.3f", s.Size.X, s.Size.Y, s.Size.Z)
	case KindCylinder:
		return fmt.Sprintf("Type: Cylinder, Radius: %.3f, Length: %.3f", s.Radius, s.Length)
	case KindSphere:
		return fmt.Sprintf("Type: Sphere, Radius: %.3f", s.Radius)
	case KindCapsule:
		return fmt.Sprintf("Type: Capsule, Radius: %.3f, Length: %.3f", s.Radius, s.Length)
	case KindMesh:
		return fmt.Sprintf("Type: Mesh, File: %s", s.MeshFilename)
	default:
		return "Type: Unknown"
	}
}

func newBadDimensionsError(kind, name string) error {
	return errors.Errorf("%s solid %q must have positive dimensions", kind, name)
}
