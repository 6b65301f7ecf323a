package urdf

import (
	"encoding/xml"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/kinetree/kinetree/spatialmath"
)

// Extension is the file extension associated with URDF files.
const Extension string = "urdf"

type xmlRobot struct {
	XMLName xml.Name   `xml:"robot"`
	Name    string     `xml:"name,attr"`
	Links   []xmlLink  `xml:"link"`
	Joints  []xmlJoint `xml:"joint"`
}

type xmlLink struct {
	Name      string       `xml:"name,attr"`
	Inertial  *xmlInertial `xml:"inertial"`
	Visual    *xmlElement  `xml:"visual"`
	Collision *xmlElement  `xml:"collision"`
}

type xmlInertial struct {
	Origin  *xmlOrigin `xml:"origin"`
	Mass    xmlMass    `xml:"mass"`
	Inertia xmlInertia `xml:"inertia"`
}

type xmlMass struct {
	Value float64 `xml:"value,attr"`
}

type xmlInertia struct {
	Ixx float64 `xml:"ixx,attr"`
	Ixy float64 `xml:"ixy,attr"`
	Ixz float64 `xml:"ixz,attr"`
	Iyy float64 `xml:"iyy,attr"`
	Iyz float64 `xml:"iyz,attr"`
	Izz float64 `xml:"izz,attr"`
}

type xmlElement struct {
	Origin   *xmlOrigin  `xml:"origin"`
	Geometry xmlGeometry `xml:"geometry"`
}

type xmlGeometry struct {
	Box      *xmlBox      `xml:"box"`
	Cylinder *xmlCylinder `xml:"cylinder"`
	Sphere   *xmlSphere   `xml:"sphere"`
	Mesh     *xmlMesh     `xml:"mesh"`
}

type xmlBox struct {
	Size string `xml:"size,attr"`
}

type xmlCylinder struct {
	Radius float64 `xml:"radius,attr"`
	Length float64 `xml:"length,attr"`
}

type xmlSphere struct {
	Radius float64 `xml:"radius,attr"`
}

type xmlMesh struct {
	Filename string `xml:"filename,attr"`
	Scale    string `xml:"scale,attr"`
}

type xmlOrigin struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

type xmlJoint struct {
	Name   string      `xml:"name,attr"`
	Type   string      `xml:"type,attr"`
	Origin *xmlOrigin  `xml:"origin"`
	Parent xmlFrameRef `xml:"parent"`
	Child  xmlFrameRef `xml:"child"`
	Axis   *xmlAxis    `xml:"axis"`
	Limit  *xmlLimit   `xml:"limit"`
}

type xmlFrameRef struct {
	Link string `xml:"link,attr"`
}

type xmlAxis struct {
	XYZ string `xml:"xyz,attr"`
}

type xmlLimit struct {
	Lower    float64 `xml:"lower,attr"`
	Upper    float64 `xml:"upper,attr"`
	Velocity float64 `xml:"velocity,attr"`
	Effort   float64 `xml:"effort,attr"`
}

// spaceDelimitedStringToSlice splits up space-delimited fields in URDFs,
// such as xyz or rpy attributes.
func spaceDelimitedStringToSlice(s string) []float64 {
	var converted []float64
	for _, value := range strings.Fields(s) {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			parsed = math.NaN()
		}
		converted = append(converted, parsed)
	}
	return converted
}

func vectorFromAttr(s string) (r3.Vector, bool) {
	fields := spaceDelimitedStringToSlice(s)
	if len(fields) != 3 {
		return r3.Vector{}, false
	}
	return r3.Vector{X: fields[0], Y: fields[1], Z: fields[2]}, true
}

func poseFromOrigin(origin *xmlOrigin) (Pose, error) {
	pose := IdentityPose()
	if origin == nil {
		return pose, nil
	}
	if origin.XYZ != "" {
		xyz, ok := vectorFromAttr(origin.XYZ)
		if !ok {
			return pose, errors.Errorf("origin xyz %q must have three fields", origin.XYZ)
		}
		pose.Position = xyz
	}
	if origin.RPY != "" {
		rpy := spaceDelimitedStringToSlice(origin.RPY)
		if len(rpy) != 3 {
			return pose, errors.Errorf("origin rpy %q must have three fields", origin.RPY)
		}
		pose.Orientation = spatialmath.EulerToQuat(rpy[0], rpy[1], rpy[2])
	}
	return pose, nil
}

func geometryFromXML(g xmlGeometry) (*Geometry, error) {
	switch {
	case g.Box != nil:
		size, ok := vectorFromAttr(g.Box.Size)
		if !ok {
			return nil, errors.Errorf("box size %q must have three fields", g.Box.Size)
		}
		return &Geometry{Kind: GeometryBox, BoxSize: size}, nil
	case g.Cylinder != nil:
		return &Geometry{
			Kind:           GeometryCylinder,
			CylinderRadius: g.Cylinder.Radius,
			CylinderLength: g.Cylinder.Length,
		}, nil
	case g.Sphere != nil:
		return &Geometry{Kind: GeometrySphere, SphereRadius: g.Sphere.Radius}, nil
	case g.Mesh != nil:
		scale := r3.Vector{X: 1, Y: 1, Z: 1}
		if g.Mesh.Scale != "" {
			parsed, ok := vectorFromAttr(g.Mesh.Scale)
			if !ok {
				return nil, errors.Errorf("mesh scale %q must have three fields", g.Mesh.Scale)
			}
			scale = parsed
		}
		return &Geometry{Kind: GeometryMesh, MeshFilename: g.Mesh.Filename, MeshScale: scale}, nil
	default:
		return nil, errors.New("geometry element declares no shape")
	}
}

func elementFromXML(e *xmlElement) (*Element, error) {
	if e == nil {
		return nil, nil
	}
	origin, err := poseFromOrigin(e.Origin)
	if err != nil {
		return nil, err
	}
	geometry, err := geometryFromXML(e.Geometry)
	if err != nil {
		return nil, err
	}
	return &Element{Origin: origin, Geometry: geometry}, nil
}

// Parse unmarshals URDF XML data into a Document and validates its
// structural consistency.
func Parse(xmlData []byte) (*Document, error) {
	if len(xmlData) == 0 {
		return nil, ErrNoModelInformation
	}

	var robot xmlRobot
	if err := xml.Unmarshal(xmlData, &robot); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal URDF data")
	}

	doc := NewDocument(robot.Name)
	for _, linkElem := range robot.Links {
		link := &Link{Name: linkElem.Name}
		if linkElem.Inertial != nil {
			origin, err := poseFromOrigin(linkElem.Inertial.Origin)
			if err != nil {
				return nil, errors.Wrapf(err, "link %q inertial", linkElem.Name)
			}
			link.Inertial = &Inertial{
				Origin: origin,
				Mass:   linkElem.Inertial.Mass.Value,
				Ixx:    linkElem.Inertial.Inertia.Ixx,
				Ixy:    linkElem.Inertial.Inertia.Ixy,
				Ixz:    linkElem.Inertial.Inertia.Ixz,
				Iyy:    linkElem.Inertial.Inertia.Iyy,
				Iyz:    linkElem.Inertial.Inertia.Iyz,
				Izz:    linkElem.Inertial.Inertia.Izz,
			}
		}
		visual, err := elementFromXML(linkElem.Visual)
		if err != nil {
			return nil, errors.Wrapf(err, "link %q visual", linkElem.Name)
		}
		link.Visual = visual
		collision, err := elementFromXML(linkElem.Collision)
		if err != nil {
			return nil, errors.Wrapf(err, "link %q collision", linkElem.Name)
		}
		link.Collision = collision
		if err := doc.AddLink(link); err != nil {
			return nil, err
		}
	}

	for _, jointElem := range robot.Joints {
		origin, err := poseFromOrigin(jointElem.Origin)
		if err != nil {
			return nil, errors.Wrapf(err, "joint %q origin", jointElem.Name)
		}
		joint := &Joint{
			Name:       jointElem.Name,
			Kind:       jointElem.Type,
			Axis:       r3.Vector{X: 1}, // URDF default
			ParentLink: jointElem.Parent.Link,
			ChildLink:  jointElem.Child.Link,
			Origin:     origin,
		}
		if jointElem.Axis != nil {
			axis, ok := vectorFromAttr(jointElem.Axis.XYZ)
			if !ok {
				return nil, errors.Errorf("joint %q axis %q must have three fields", jointElem.Name, jointElem.Axis.XYZ)
			}
			joint.Axis = axis
		}
		if jointElem.Limit != nil {
			joint.Limits = &Limits{
				Lower:    jointElem.Limit.Lower,
				Upper:    jointElem.Limit.Upper,
				Velocity: jointElem.Limit.Velocity,
				Effort:   jointElem.Limit.Effort,
			}
		}
		if err := doc.AddJoint(joint); err != nil {
			return nil, err
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFile reads a given file and parses the contained URDF XML data.
func ParseFile(filename string) (*Document, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read URDF file")
	}
	return Parse(xmlData)
}
