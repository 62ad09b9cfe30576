// Package cli contains the dart command line interface.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

// Flags.
const (
	configFlag     = "config"
	debugFlag      = "debug"
	logLevelFlag   = "log-level"
	positionsFlag  = "positions"
	degreesFlag    = "degrees"
	bodyFlag       = "body"
	angularFlag    = "angular"
	comFlag        = "com"
	seedFlag       = "seed"
	stepFlag       = "step"
	toleranceFlag  = "tolerance"
	outFlag        = "out"
	planeFlag      = "plane"
	widthFlag      = "width"
	heightFlag     = "height"
	scaleFlag      = "scale"
	handlesFlag    = "handles"
	depthColorFlag = "depth-colors"
)

var positionFlags = []cli.Flag{
	&cli.Float64SliceFlag{
		Name:    positionsFlag,
		Aliases: []string{"q"},
		Usage:   "dof values in skeleton order, zero when omitted",
	},
	&cli.BoolFlag{
		Name:  degreesFlag,
		Usage: "read rotational dof values in degrees",
	},
}

func withPositionFlags(flags ...cli.Flag) []cli.Flag {
	return append(append([]cli.Flag{}, positionFlags...), flags...)
}

var app = &cli.App{
	Name:            "dart",
	Usage:           "inspect articulated rigid-body skeletons",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.PathFlag{
			Name:    configFlag,
			Aliases: []string{"c"},
			Usage:   "load the skeleton description from `FILE` (json or yaml)",
		},
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  logLevelFlag,
			Usage: "log at `LEVEL` and above: debug, info, warn or error",
		},
	},
	Commands: []*cli.Command{
		{
			Name:   "info",
			Usage:  "list the bodies, joints and dofs of a skeleton",
			Action: InfoAction,
		},
		{
			Name:   "pose",
			Usage:  "print the world placement of every body and marker",
			Flags:  withPositionFlags(),
			Action: PoseAction,
		},
		{
			Name:      "jacobian",
			Usage:     "print the jacobian of a body's center of mass, or of the whole skeleton's",
			UsageText: "dart --config <file> jacobian --body <name> [other options]",
			Flags: withPositionFlags(
				&cli.StringFlag{
					Name:  bodyFlag,
					Usage: "body whose jacobian to print",
				},
				&cli.BoolFlag{
					Name:  angularFlag,
					Usage: "print the angular jacobian instead of the linear one",
				},
				&cli.BoolFlag{
					Name:  comFlag,
					Usage: "print the jacobian of the skeleton's center of mass",
				},
			),
			Action: JacobianAction,
		},
		{
			Name:  "check",
			Usage: "compare analytic transform derivatives against finite differences",
			Flags: withPositionFlags(
				&cli.Int64Flag{
					Name:  seedFlag,
					Usage: "check at a random configuration drawn with this seed instead of --positions",
				},
				&cli.Float64Flag{
					Name:  stepFlag,
					Value: 1e-6,
					Usage: "finite difference step",
				},
				&cli.Float64Flag{
					Name:  toleranceFlag,
					Value: 1e-6,
					Usage: "largest acceptable error",
				},
			),
			Action: CheckAction,
		},
		{
			Name:      "render",
			Usage:     "draw the skeleton into a png",
			UsageText: "dart --config <file> render --out <file> [other options]",
			Flags: withPositionFlags(
				&cli.PathFlag{
					Name:     outFlag,
					Required: true,
					Usage:    "png `FILE` to write",
				},
				&cli.StringFlag{
					Name:  planeFlag,
					Value: "xz",
					Usage: "projection plane: xy, xz or yz",
				},
				&cli.IntFlag{
					Name:  widthFlag,
					Value: 640,
					Usage: "image width in pixels",
				},
				&cli.IntFlag{
					Name:  heightFlag,
					Value: 480,
					Usage: "image height in pixels",
				},
				&cli.Float64Flag{
					Name:  scaleFlag,
					Value: 100,
					Usage: "pixels per world unit",
				},
				&cli.BoolFlag{
					Name:  handlesFlag,
					Usage: "draw markers too",
				},
				&cli.BoolFlag{
					Name:  depthColorFlag,
					Value: true,
					Usage: "color bodies by their depth in the tree",
				},
			),
			Action: RenderAction,
		},
		{
			Name:   "schema",
			Usage:  "print the json schema of skeleton descriptions",
			Action: SchemaAction,
		},
	},
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
