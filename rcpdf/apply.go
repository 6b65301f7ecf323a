package rcpdf

import (
	"github.com/pkg/errors"

	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/urdf"
)

// Canonical sole link names whose contacts size the feet.
const (
	LeftSoleLink  = "l_sole"
	RightSoleLink = "r_sole"
)

// Apply sizes the robot's foot soles from the contact boxes declared for the
// canonical sole links. Feet the robot never resolved are skipped; a resolved
// foot without a contact is an error.
func Apply(doc *Document, robot *model.Robot) error {
	if foot := robot.LeftFoot(); foot != nil {
		if err := applyFoot(doc, foot, LeftSoleLink); err != nil {
			return err
		}
	}
	if foot := robot.RightFoot(); foot != nil {
		if err := applyFoot(doc, foot, RightSoleLink); err != nil {
			return err
		}
	}
	return nil
}

func applyFoot(doc *Document, foot *model.Foot, link string) error {
	contact, ok := doc.ContactForLink(link)
	if !ok {
		return NewMissingContactError(link)
	}
	if contact.Geometry.Kind != urdf.GeometryBox {
		return errors.Errorf("contact for link %q is %s, expected a box", link, contact.Geometry.Kind)
	}
	foot.SetSoleSize(contact.Geometry.BoxSize.X, contact.Geometry.BoxSize.Y)
	return nil
}
