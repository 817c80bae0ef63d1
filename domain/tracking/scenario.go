package tracking

import (
	"bytes"
	"math"
	"os"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/soocke/surface-sketch-go/domain/surface"
)

// Orientation of a simulated surface anchor.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// SurfaceSpec describes one surface that will be detected.
type SurfaceSpec struct {
	ID           string        `yaml:"id"`
	Width        float64       `yaml:"width"`
	Height       float64       `yaml:"height"`
	Position     [3]float64    `yaml:"position"`
	Orientation  Orientation   `yaml:"orientation"`
	YawDeg       float64       `yaml:"yaw_deg"`
	AppearAfter  time.Duration `yaml:"appear_after"`
	GrowFrom     float64       `yaml:"grow_from"`
	GrowDuration time.Duration `yaml:"grow_duration"`
}

// Scenario is the list of surfaces the simulated environment contains.
type Scenario struct {
	Surfaces []SurfaceSpec `yaml:"surfaces"`
}

const defaultScenarioYAML = `
surfaces:
  - id: wall
    width: 2.4
    height: 1.6
    position: [0, 0.3, -3.5]
    orientation: vertical
    appear_after: 500ms
    grow_from: 0.4
    grow_duration: 2s
  - id: floor
    width: 1.6
    height: 1.2
    position: [-0.4, -1.2, -2.6]
    orientation: horizontal
    appear_after: 1500ms
    grow_from: 0.5
    grow_duration: 1500ms
  - id: table
    width: 0.6
    height: 0.4
    position: [0.9, -0.5, -1.8]
    orientation: horizontal
    yaw_deg: 15
    appear_after: 3s
`

// DefaultScenario returns the built-in room: a wall, a floor patch and a
// table top.
func DefaultScenario() Scenario {
	sc, err := ParseScenario([]byte(defaultScenarioYAML))
	if err != nil {
		panic(err)
	}
	return sc
}

// LoadScenario reads a YAML scenario file. An empty path yields the default
// scenario.
func LoadScenario(path string) (Scenario, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultScenario(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, errors.Wrapf(err, "read scenario %s", path)
	}
	sc, err := ParseScenario(b)
	if err != nil {
		return Scenario{}, errors.Wrapf(err, "scenario %s", path)
	}
	return sc, nil
}

// ParseScenario decodes and validates YAML. Missing ids are filled with
// random UUIDs.
func ParseScenario(b []byte) (Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return Scenario{}, errors.Wrap(err, "decode scenario")
	}
	if err := sc.normalize(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

func (sc *Scenario) normalize() error {
	seen := make(map[string]bool, len(sc.Surfaces))
	for i := range sc.Surfaces {
		s := &sc.Surfaces[i]
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		if seen[s.ID] {
			return errors.Errorf("duplicate surface id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Width < 0 || s.Height < 0 {
			return errors.Errorf("surface %q: negative extent", s.ID)
		}
		switch s.Orientation {
		case "":
			s.Orientation = Horizontal
		case Horizontal, Vertical:
		default:
			return errors.Errorf("surface %q: unknown orientation %q", s.ID, s.Orientation)
		}
		if s.GrowFrom <= 0 || s.GrowFrom > 1 {
			s.GrowFrom = 1
		}
		if s.AppearAfter < 0 {
			s.AppearAfter = 0
		}
	}
	return nil
}

// Anchor returns the anchor pose of s. A horizontal anchor keeps +Y up; a
// vertical one tips +Y toward the camera.
func (s SurfaceSpec) Anchor() surface.Pose {
	q := mgl64.QuatRotate(mgl64.DegToRad(s.YawDeg), mgl64.Vec3{0, 1, 0})
	if s.Orientation == Vertical {
		q = q.Mul(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0}))
	}
	return surface.Pose{
		Position:    mgl64.Vec3{s.Position[0], s.Position[1], s.Position[2]},
		Orientation: q.Normalize(),
	}
}

// ExtentAt returns the surface extent at scenario time t, or false before the
// surface appears.
func (s SurfaceSpec) ExtentAt(t time.Duration) (surface.Extent, bool) {
	if t < s.AppearAfter {
		return surface.Extent{}, false
	}
	f := 1.0
	if s.GrowFrom < 1 && s.GrowDuration > 0 {
		p := math.Min(1, float64(t-s.AppearAfter)/float64(s.GrowDuration))
		f = s.GrowFrom + (1-s.GrowFrom)*p
	}
	return surface.Extent{Width: s.Width * f, Height: s.Height * f}, true
}
