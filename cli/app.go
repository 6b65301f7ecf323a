// Package cli implements the kinetree command line interface.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kinetree/kinetree/kinematics"
	"github.com/kinetree/kinetree/model"
	"github.com/kinetree/kinetree/rcpdf"
	"github.com/kinetree/kinetree/resource"
)

const (
	flagContacts  = "contacts"
	flagFixedRoot = "fixed-root"
	flagDebug     = "debug"
)

// NewApp returns the kinetree CLI application.
func NewApp() *cli.App {
	var logger golog.Logger

	return &cli.App{
		Name:  "kinetree",
		Usage: "resolve and inspect robot descriptions",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				logger = golog.NewDebugLogger("kinetree")
			} else {
				logger = zap.NewNop().Sugar()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "display",
				Usage:     "load a robot description and print the resolved model",
				ArgsUsage: "<description reference>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  flagContacts,
						Usage: "contact description reference used to size the feet",
					},
					&cli.BoolFlag{
						Name:  flagFixedRoot,
						Usage: "anchor the robot instead of giving it a free flyer",
					},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("expected exactly one description reference")
					}
					return runDisplay(c, logger)
				},
			},
		},
	}
}

func runDisplay(c *cli.Context, logger golog.Logger) error {
	retriever := resource.NewRetriever(logger)
	data, err := retriever.Retrieve(c.Context, c.Args().First())
	if err != nil {
		return err
	}

	var opts []kinematics.Option
	if c.Bool(flagFixedRoot) {
		opts = append(opts, kinematics.WithRootJointType(model.Fixed))
	}
	parser := kinematics.NewParser(logger, opts...)
	robot, err := parser.Parse(data)
	if err != nil {
		return err
	}

	if contactsRef := c.String(flagContacts); contactsRef != "" {
		contactData, err := retriever.Retrieve(c.Context, contactsRef)
		if err != nil {
			return err
		}
		contacts, err := rcpdf.Parse(contactData)
		if err != nil {
			return err
		}
		if err := rcpdf.Apply(contacts, robot); err != nil {
			return err
		}
	}

	printRobot(c.App.Writer, robot)
	return nil
}

func printRobot(w io.Writer, robot *model.Robot) {
	fmt.Fprintf(w, "robot %q\n", robot.Name())

	fmt.Fprintln(w, "kinematic tree:")
	printJointTree(w, robot.RootJoint(), 1)

	fmt.Fprintln(w, "actuated joints:")
	for _, joint := range robot.ActuatedJoints() {
		fmt.Fprintf(w, "  %s\n", joint.Name())
	}

	fmt.Fprintln(w, "roles:")
	for _, role := range model.Roles {
		joint, ok := robot.RoleJoint(role)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", role, joint.Name())
	}

	if hand := robot.LeftHand(); hand != nil {
		printHand(w, "left hand", hand)
	}
	if hand := robot.RightHand(); hand != nil {
		printHand(w, "right hand", hand)
	}
	if foot := robot.LeftFoot(); foot != nil {
		printFoot(w, "left foot", foot)
	}
	if foot := robot.RightFoot(); foot != nil {
		printFoot(w, "right foot", foot)
	}
	if gaze := robot.Gaze(); gaze != nil {
		fmt.Fprintf(w, "gaze: joint %s direction (%g, %g, %g)\n",
			gaze.Joint.Name(), gaze.Direction.X, gaze.Direction.Y, gaze.Direction.Z)
	}
}

func printJointTree(w io.Writer, joint *model.Joint, depth int) {
	if joint == nil {
		return
	}
	position := joint.Placement().Translation()
	fmt.Fprintf(w, "%s%s (%s, %d dof) at (%g, %g, %g)\n",
		strings.Repeat("  ", depth), joint.Name(), joint.Type(), joint.DoF(),
		position.X, position.Y, position.Z)
	for _, child := range joint.Children() {
		printJointTree(w, child, depth+1)
	}
}

func printHand(w io.Writer, label string, hand *model.Hand) {
	fmt.Fprintf(w, "%s: wrist %s center (%g, %g, %g)\n",
		label, hand.Wrist.Name(), hand.Center.X, hand.Center.Y, hand.Center.Z)
}

func printFoot(w io.Writer, label string, foot *model.Foot) {
	fmt.Fprintf(w, "%s: ankle %s sole %g x %g\n",
		label, foot.Ankle.Name(), foot.SoleDepth, foot.SoleWidth)
}
