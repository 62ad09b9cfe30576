package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/RomanBuckle/dart/config"
	"github.com/RomanBuckle/dart/kinematics"
	"github.com/RomanBuckle/dart/logging"
	"github.com/RomanBuckle/dart/referenceframe"
	"github.com/RomanBuckle/dart/render"
	"github.com/RomanBuckle/dart/utils"
)

// printf prints a message with a trailing newline.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// newLogger returns a blank logger unless --debug or --log-level asks for output.
func newLogger(c *cli.Context) (logging.Logger, error) {
	return loggerFor(c.Bool(debugFlag), c.String(logLevelFlag))
}

func loggerFor(debug bool, level string) (logging.Logger, error) {
	if debug {
		return logging.NewDebugLogger("dart"), nil
	}
	if level == "" {
		return logging.NewBlankLogger("dart"), nil
	}
	parsed, err := logging.LevelFromString(level)
	if err != nil {
		return nil, errors.Wrapf(err, "bad --%s", logLevelFlag)
	}
	logger := logging.NewLogger("dart")
	logger.SetLevel(parsed)
	return logger, nil
}

// loadSkeleton reads and builds the skeleton named by --config.
func loadSkeleton(c *cli.Context) (*kinematics.Skeleton, error) {
	path := c.Path(configFlag)
	if path == "" {
		return nil, errors.Errorf("a skeleton description is required, pass --%s", configFlag)
	}
	cfg, err := config.Read(path)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	return cfg.Build(logger)
}

// positions returns the dof values given by --positions, converting angles when --degrees is set.
func positions(c *cli.Context, skel *kinematics.Skeleton) []float64 {
	q := c.Float64Slice(positionsFlag)
	if len(q) == 0 {
		return make([]float64, skel.NumDofs())
	}
	q = append([]float64(nil), q...)
	if c.Bool(degreesFlag) && len(q) == skel.NumDofs() {
		for i, dof := range skel.Dofs() {
			if referenceframe.IsRotational(dof) {
				q[i] = utils.DegToRad(q[i])
			}
		}
	}
	return q
}

// loadPosed loads the skeleton and places it at --positions.
func loadPosed(c *cli.Context) (*kinematics.Skeleton, error) {
	skel, err := loadSkeleton(c)
	if err != nil {
		return nil, err
	}
	if err := skel.SetPositions(positions(c, skel)); err != nil {
		return nil, errors.Wrapf(err, "bad --%s", positionsFlag)
	}
	return skel, nil
}

// InfoAction is the corresponding Action for 'info'.
func InfoAction(c *cli.Context) error {
	skel, err := loadSkeleton(c)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Body", "Parent", "Joint", "Dofs", "Mass"})
	for i, node := range skel.Nodes() {
		parent := referenceframe.World
		if p := node.ParentNode(); p != nil {
			parent = p.Name()
		}
		dofs := make([]string, node.NumLocalDofs())
		for j := range dofs {
			dofs[j] = fmt.Sprintf("%d:%s", node.Dof(j).Index(), node.Dof(j).Name())
		}
		t.AppendRow(table.Row{i, node.Name(), parent, node.ParentJoint().Name(), strings.Join(dofs, " "), node.Mass()})
	}
	t.AppendFooter(table.Row{"", "", "", "", fmt.Sprintf("%d dofs", skel.NumDofs()), skel.Mass()})
	printf(c.App.Writer, "skeleton %q", skel.Name())
	printf(c.App.Writer, "%s", t.Render())

	if skel.NumDofs() == 0 {
		return nil
	}
	limits := table.NewWriter()
	limits.AppendHeader(table.Row{"Dof", "Joint", "Min", "Max", "Unit"})
	for _, dof := range skel.Dofs() {
		lim, unit := dof.Limit(), "m"
		if referenceframe.IsRotational(dof) {
			lim = referenceframe.Limit{Min: utils.RadToDeg(lim.Min), Max: utils.RadToDeg(lim.Max)}
			unit = "deg"
		}
		limits.AppendRow(table.Row{dof.Name(), dof.Joint().Name(), fmt.Sprintf("%.4g", lim.Min), fmt.Sprintf("%.4g", lim.Max), unit})
	}
	printf(c.App.Writer, "%s", limits.Render())
	return nil
}

// PoseAction is the corresponding Action for 'pose'.
func PoseAction(c *cli.Context) error {
	skel, err := loadPosed(c)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Body", "Origin", "Center of mass"})
	for _, node := range skel.UpdateOrder() {
		t.AppendRow(table.Row{node.Name(), formatVector(node.WorldPosition(r3.Vector{})), formatVector(node.WorldCOM())})
	}
	t.AppendFooter(table.Row{"skeleton", "", formatVector(skel.WorldCOM())})
	printf(c.App.Writer, "%s", t.Render())

	markers := table.NewWriter()
	markers.AppendHeader(table.Row{"Marker", "Body", "Position"})
	count := 0
	for _, node := range skel.Nodes() {
		for i := 0; i < node.NumMarkers(); i++ {
			m := node.Marker(i)
			markers.AppendRow(table.Row{m.Name(), node.Name(), formatVector(m.WorldPosition())})
			count++
		}
	}
	if count > 0 {
		printf(c.App.Writer, "%s", markers.Render())
	}
	if !skel.WithinLimits() {
		printf(c.App.ErrWriter, "warning: some dofs are outside their limits")
	}
	return nil
}

// JacobianAction is the corresponding Action for 'jacobian'.
func JacobianAction(c *cli.Context) error {
	skel, err := loadPosed(c)
	if err != nil {
		return err
	}
	var jac *mat.Dense
	rows := []string{"x", "y", "z"}
	switch {
	case c.Bool(comFlag):
		jac, err = skel.COMJacobian()
	case c.String(bodyFlag) != "":
		node := skel.NodeByName(c.String(bodyFlag))
		if node == nil {
			return kinematics.NewNodeNotFoundError(c.String(bodyFlag))
		}
		if c.Bool(angularFlag) {
			rows = []string{"wx", "wy", "wz"}
			jac, err = skel.AngularJacobian(node)
		} else {
			jac, err = skel.LinearJacobian(node)
		}
	default:
		return errors.Errorf("pass --%s or --%s", bodyFlag, comFlag)
	}
	if err != nil {
		return err
	}
	if skel.NumDofs() == 0 {
		printf(c.App.Writer, "skeleton has no dofs")
		return nil
	}

	t := table.NewWriter()
	header := table.Row{""}
	for _, dof := range skel.Dofs() {
		header = append(header, dof.Name())
	}
	t.AppendHeader(header)
	for r, name := range rows {
		row := table.Row{name}
		for d := 0; d < skel.NumDofs(); d++ {
			row = append(row, fmt.Sprintf("%.6f", jac.At(r, d)))
		}
		t.AppendRow(row)
	}
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// CheckAction is the corresponding Action for 'check'.
func CheckAction(c *cli.Context) error {
	skel, err := loadPosed(c)
	if err != nil {
		return err
	}
	if c.IsSet(seedFlag) {
		//nolint:gosec
		rSeed := rand.New(rand.NewSource(c.Int64(seedFlag)))
		if err := skel.SetPositions(referenceframe.RandomPositions(skel.Dofs(), rSeed)); err != nil {
			return err
		}
	}
	checks, err := kinematics.CheckDerivatives(skel, c.Float64(stepFlag))
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Body", "Dof", "Error"})
	for _, check := range checks {
		t.AppendRow(table.Row{check.Node, check.Dof, fmt.Sprintf("%.3g", check.Error)})
	}
	printf(c.App.Writer, "%s", t.Render())

	maxErr := kinematics.MaxDerivativeError(checks)
	printf(c.App.Writer, "checked %d derivatives, largest error %.3g", len(checks), maxErr)
	if math.IsNaN(maxErr) || maxErr > c.Float64(toleranceFlag) {
		return errors.Errorf("largest derivative error %g exceeds tolerance %g", maxErr, c.Float64(toleranceFlag))
	}
	return nil
}

// RenderAction is the corresponding Action for 'render'.
func RenderAction(c *cli.Context) error {
	skel, err := loadPosed(c)
	if err != nil {
		return err
	}
	plane, err := render.ParsePlane(c.String(planeFlag))
	if err != nil {
		return err
	}
	ir, err := render.NewImageRenderer(c.Int(widthFlag), c.Int(heightFlag), c.Float64(scaleFlag), plane)
	if err != nil {
		return err
	}
	skel.Draw(ir, render.DefaultColor, c.Bool(depthColorFlag))
	if c.Bool(handlesFlag) {
		skel.DrawHandles(ir, render.HandleColor, true)
	}
	out := c.Path(outFlag)
	if err := ir.SavePNG(out); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote %s", out)
	return nil
}

// SchemaAction is the corresponding Action for 'schema'.
func SchemaAction(c *cli.Context) error {
	out, err := json.MarshalIndent(config.Schema(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal schema")
	}
	printf(c.App.Writer, "%s", out)
	return nil
}
