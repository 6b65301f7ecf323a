// Package rcpdf parses robot contact point description (RCPDF) XML and
// applies it to a resolved robot model. Today the only consumer of contact
// data is the foot sole size.
package rcpdf

import (
	"encoding/xml"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/kinetree/kinetree/urdf"
)

// Extension is the file extension associated with RCPDF files.
const Extension string = "rcpdf"

// ErrNoContactInformation is returned when an empty document is parsed.
var ErrNoContactInformation = errors.New("no contact information found in RCPDF data")

// NewMissingContactError returns the error for a link without a declared
// contact.
func NewMissingContactError(link string) error {
	return errors.Errorf("no contact declared for link %q", link)
}

// Contact is one contact declaration: a named patch of geometry attached to
// a link.
type Contact struct {
	Name     string
	Link     string
	Origin   urdf.Pose
	Geometry *urdf.Geometry
}

// Document holds the contacts of one robot, keyed by link name.
type Document struct {
	name     string
	contacts map[string]*Contact
}

// Name returns the robot name the contacts describe.
func (d *Document) Name() string { return d.name }

// ContactForLink returns the contact declared for a link, if any.
func (d *Document) ContactForLink(link string) (*Contact, bool) {
	c, ok := d.contacts[link]
	return c, ok
}

type xmlContactRobot struct {
	XMLName  xml.Name     `xml:"robot"`
	Name     string       `xml:"name,attr"`
	Contacts []xmlContact `xml:"contact"`
}

type xmlContact struct {
	Name     string             `xml:"name,attr"`
	Link     xmlContactLink     `xml:"link"`
	Origin   *xmlContactOrigin  `xml:"origin"`
	Geometry xmlContactGeometry `xml:"geometry"`
}

type xmlContactLink struct {
	Name string `xml:"name,attr"`
}

type xmlContactOrigin struct {
	XYZ string `xml:"xyz,attr"`
	RPY string `xml:"rpy,attr"`
}

type xmlContactGeometry struct {
	Box      *xmlContactBox      `xml:"box"`
	Cylinder *xmlContactCylinder `xml:"cylinder"`
	Sphere   *xmlContactSphere   `xml:"sphere"`
}

type xmlContactBox struct {
	Size string `xml:"size,attr"`
}

type xmlContactCylinder struct {
	Radius float64 `xml:"radius,attr"`
	Length float64 `xml:"length,attr"`
}

type xmlContactSphere struct {
	Radius float64 `xml:"radius,attr"`
}

func contactVector(s string) (r3.Vector, bool) {
	var fields []float64
	for _, value := range strings.Fields(s) {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			parsed = math.NaN()
		}
		fields = append(fields, parsed)
	}
	if len(fields) != 3 {
		return r3.Vector{}, false
	}
	return r3.Vector{X: fields[0], Y: fields[1], Z: fields[2]}, true
}

func contactGeometry(g xmlContactGeometry, contactName string) (*urdf.Geometry, error) {
	switch {
	case g.Box != nil:
		size, ok := contactVector(g.Box.Size)
		if !ok {
			return nil, errors.Errorf("contact %q box size %q must have three fields", contactName, g.Box.Size)
		}
		return &urdf.Geometry{Kind: urdf.GeometryBox, BoxSize: size}, nil
	case g.Cylinder != nil:
		return &urdf.Geometry{
			Kind:           urdf.GeometryCylinder,
			CylinderRadius: g.Cylinder.Radius,
			CylinderLength: g.Cylinder.Length,
		}, nil
	case g.Sphere != nil:
		return &urdf.Geometry{Kind: urdf.GeometrySphere, SphereRadius: g.Sphere.Radius}, nil
	default:
		return nil, errors.Errorf("contact %q declares no geometry", contactName)
	}
}

// Parse unmarshals RCPDF XML data into a Document.
func Parse(xmlData []byte) (*Document, error) {
	if len(xmlData) == 0 {
		return nil, ErrNoContactInformation
	}

	var robot xmlContactRobot
	if err := xml.Unmarshal(xmlData, &robot); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal RCPDF data")
	}

	doc := &Document{name: robot.Name, contacts: map[string]*Contact{}}
	for _, contactElem := range robot.Contacts {
		if contactElem.Link.Name == "" {
			return nil, errors.Errorf("contact %q names no link", contactElem.Name)
		}
		if _, ok := doc.contacts[contactElem.Link.Name]; ok {
			return nil, errors.Errorf("link %q has more than one contact", contactElem.Link.Name)
		}
		contact := &Contact{
			Name:   contactElem.Name,
			Link:   contactElem.Link.Name,
			Origin: urdf.IdentityPose(),
		}
		if contactElem.Origin != nil {
			if contactElem.Origin.XYZ != "" {
				xyz, ok := contactVector(contactElem.Origin.XYZ)
				if !ok {
					return nil, errors.Errorf("contact %q origin xyz %q must have three fields", contactElem.Name, contactElem.Origin.XYZ)
				}
				contact.Origin.Position = xyz
			}
		}
		geometry, err := contactGeometry(contactElem.Geometry, contactElem.Name)
		if err != nil {
			return nil, err
		}
		contact.Geometry = geometry
		doc.contacts[contactElem.Link.Name] = contact
	}
	return doc, nil
}

// ParseFile reads a given file and parses the contained RCPDF XML data.
func ParseFile(filename string) (*Document, error) {
	//nolint:gosec
	xmlData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read RCPDF file")
	}
	return Parse(xmlData)
}
