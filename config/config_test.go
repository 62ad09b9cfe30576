package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"github.com/RomanBuckle/dart/logging"
	"github.com/RomanBuckle/dart/spatialmath"
)

const planarYAML = `
name: planar
bodies:
  # listed child first on purpose
  - name: lower
    parent: upper
    joint:
      name: elbow
      type: revolute
      axis: {x: 0, y: 0, z: 1}
      offset:
        translation: {x: ${LINK_LENGTH}, y: 0, z: 0}
      limits:
        - {min: -90, max: 90}
    primitive:
      type: cylinder
      radius: 0.05
      height: 1
      mass: 1
    com: {x: 0.5, y: 0, z: 0}
    markers:
      - name: tip
        position: {x: 1, y: 0, z: 0}
  - name: upper
    joint:
      type: revolute
      axis: {x: 0, y: 0, z: 1}
    primitive:
      type: box
      size: {x: 1, y: 0.1, z: 0.1}
      mass: 2
    com: {x: 0.5, y: 0, z: 0}
`

func TestReadYAMLWithEnv(t *testing.T) {
	t.Setenv("LINK_LENGTH", "1")
	path := filepath.Join(t.TempDir(), "planar.yaml")
	test.That(t, os.WriteFile(path, []byte(planarYAML), 0o600), test.ShouldBeNil)

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Name, test.ShouldEqual, "planar")
	test.That(t, len(cfg.Bodies), test.ShouldEqual, 2)
	test.That(t, cfg.Bodies[0].Joint.Offset.Translation.X, test.ShouldEqual, 1.)
	test.That(t, cfg.Bodies[1].JointName(), test.ShouldEqual, "upper")

	logger, logs := logging.NewObservedTestLogger(t)
	skel, err := cfg.Build(logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logs.FilterMessage("built skeleton").Len(), test.ShouldEqual, 1)
	test.That(t, skel.NumNodes(), test.ShouldEqual, 2)
	test.That(t, skel.NumDofs(), test.ShouldEqual, 2)
	// the upper body is added first even though it is listed second
	test.That(t, skel.Node(0).Name(), test.ShouldEqual, "upper")
	test.That(t, skel.Dof(1).Name(), test.ShouldEqual, "elbow")
	test.That(t, skel.Dof(1).Limit().Max, test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, skel.Mass(), test.ShouldAlmostEqual, 3.)

	test.That(t, skel.SetPositions([]float64{math.Pi / 2, 0}), test.ShouldBeNil)
	lower := skel.NodeByName("lower")
	test.That(t, spatialmath.R3VectorAlmostEqual(lower.Marker(0).WorldPosition(), r3.Vector{Y: 2}, 1e-12), test.ShouldBeTrue)
}

func TestUnmarshalJSON(t *testing.T) {
	data := []byte(`{
		"name": "floating",
		"bodies": [
			{
				"name": "base",
				"joint": {"type": "free", "offset": {"translation": {"x": 0, "y": 0, "z": 1}, "orientation": {"roll": 0, "pitch": 0, "yaw": 90}}},
				"primitive": {"type": "ellipsoid", "size": {"x": 1, "y": 1, "z": 1}, "mass": 5}
			},
			{
				"name": "arm",
				"parent": "base",
				"joint": {"type": "ball", "limits": [{"min": -45, "max": 45}, {"min": -45, "max": 45}, {"min": -10, "max": 10}]}
			},
			{
				"name": "gripper",
				"parent": "arm",
				"joint": {"type": "prismatic", "axis": {"x": 1, "y": 0, "z": 0}, "limits": [{"min": 0, "max": 0.1}]}
			}
		]
	}`)
	cfg, err := Unmarshal(data, FormatJSON)
	test.That(t, err, test.ShouldBeNil)
	skel, err := cfg.Build(logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, skel.NumDofs(), test.ShouldEqual, 10)
	rz, err := skel.DofByName("arm_rz")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rz.Limit().Min, test.ShouldAlmostEqual, -math.Pi/18)
	grip, err := skel.DofByName("gripper")
	test.That(t, err, test.ShouldBeNil)
	// translational limits are taken as given
	test.That(t, grip.Limit().Max, test.ShouldEqual, 0.1)

	// the yaw offset turns the base's x axis onto the world's y
	base := skel.NodeByName("base")
	pt := base.WorldPosition(r3.Vector{X: 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(pt, r3.Vector{Y: 1, Z: 1}, 1e-12), test.ShouldBeTrue)

	_, err = Unmarshal([]byte(`{"name": "x", "bogus": 1}`), FormatJSON)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Unmarshal([]byte("  "), FormatJSON)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = Unmarshal(data, Format("toml"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateCollectsEverything(t *testing.T) {
	cfg := &SkeletonConfig{
		Bodies: []BodyConfig{
			{Name: "a", Parent: "c", Joint: JointConfig{Type: JointFixed}},
			{Name: "b", Parent: "missing", Joint: JointConfig{Type: JointRevolute}},
			{Name: "c", Parent: "a", Joint: JointConfig{Type: "screw"}},
			{Name: "a", Joint: JointConfig{Type: JointFixed}},
			{
				Name:      "d",
				Joint:     JointConfig{Type: JointBall, Limits: []LimitConfig{{Min: 1, Max: 0}}},
				Primitive: &PrimitiveConfig{Type: PrimitiveCylinder, Mass: -1},
			},
		},
	}
	err := cfg.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	msg := err.Error()
	for _, expected := range []string{
		"skeleton name is required",
		`body "a" is defined more than once`,
		`unknown parent "missing"`,
		"revolute joint needs a non zero axis",
		`unsupported joint type "screw"`,
		"ball joint has 3 dofs but 1 limits",
		"min 1.000000 above max 0.000000",
		"cylinder radius and height must be positive",
		"mass must not be negative",
		"part of a parent cycle",
	} {
		test.That(t, msg, test.ShouldContainSubstring, expected)
	}
	test.That(t, len(multierr.Errors(err)), test.ShouldBeGreaterThan, 8)

	_, err = cfg.Build(logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid skeleton")

	test.That(t, (&SkeletonConfig{Name: "empty"}).Validate(), test.ShouldNotBeNil)
}

func TestFormatFromPath(t *testing.T) {
	test.That(t, FormatFromPath("a/b.YML"), test.ShouldEqual, FormatYAML)
	test.That(t, FormatFromPath("b.yaml"), test.ShouldEqual, FormatYAML)
	test.That(t, FormatFromPath("b.json"), test.ShouldEqual, FormatJSON)
	test.That(t, FormatFromPath("b"), test.ShouldEqual, FormatJSON)
	_, err := Read(filepath.Join(t.TempDir(), "absent.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSchema(t *testing.T) {
	out, err := json.Marshal(Schema())
	test.That(t, err, test.ShouldBeNil)
	s := string(out)
	test.That(t, s, test.ShouldContainSubstring, "SkeletonConfig")
	test.That(t, s, test.ShouldContainSubstring, `"revolute"`)
	test.That(t, s, test.ShouldContainSubstring, `"cylinder"`)
	test.That(t, s, test.ShouldContainSubstring, "bodies")
}
