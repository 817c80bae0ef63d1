package surface

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r2"
)

// ID identifies a detected surface. It is assigned by the tracking service.
type ID string

// NodeHandle is an opaque scene node reference owned by the scene renderer.
type NodeHandle uint64

// NoNode is never returned by a renderer for a live node.
const NoNode NodeHandle = 0

// ScreenPoint is a position in view pixels with a top-left origin.
type ScreenPoint = r2.Point

// Extent is the planar size of a surface in meters.
type Extent struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Degenerate reports whether the extent has no visible area.
func (e Extent) Degenerate() bool { return e.Width <= 0 || e.Height <= 0 }

// Pose is a rigid transform in scene space.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// IdentityPose returns the pose at the scene origin with no rotation.
func IdentityPose() Pose { return Pose{Orientation: mgl64.QuatIdent()} }

// Mat4 returns the homogeneous transform for p.
func (p Pose) Mat4() mgl64.Mat4 {
	return mgl64.Translate3D(p.Position[0], p.Position[1], p.Position[2]).Mul4(p.orientation().Mat4())
}

// Compose returns p followed by the local rotation q.
func (p Pose) Compose(q mgl64.Quat) Pose {
	return Pose{Position: p.Position, Orientation: p.orientation().Mul(q).Normalize()}
}

// Up returns the anchor's up axis (+Y) in scene space.
func (p Pose) Up() mgl64.Vec3 { return p.orientation().Rotate(mgl64.Vec3{0, 1, 0}) }

func (p Pose) orientation() mgl64.Quat {
	// zero value quaternion means "not set"
	if p.Orientation.W == 0 && p.Orientation.V.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return p.Orientation
}

// PoseFromMat4 extracts translation and rotation from a rigid 4x4 transform.
func PoseFromMat4(m mgl64.Mat4) Pose {
	return Pose{
		Position:    m.Col(3).Vec3(),
		Orientation: mgl64.Mat4ToQuat(m).Normalize(),
	}
}

// PlaneNormal is the node-local axis perpendicular to a plane node.
var PlaneNormal = mgl64.Vec3{0, 0, 1}

// flatten lays the node-local XY plane onto the anchor's XZ plane so the
// node normal matches the anchor's up axis.
var flatten = mgl64.QuatRotate(-math.Pi/2, mgl64.Vec3{1, 0, 0})

// QuarterTurn is the rotation applied per rotate step.
const QuarterTurn = math.Pi / 2

// State enumerates the selection states of a session.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateSelected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateSelected:
		return "selected"
	default:
		return "unknown"
	}
}

// TrackedSurface mirrors one detection of the tracking service.
type TrackedSurface struct {
	ID     ID
	Extent Extent
	Pose   Pose // anchor pose as reported by tracking
	Node   NodeHandle
}

// Overlay is the image bound to the selected surface.
// It refers to its surface by id only; the registry owns the node.
type Overlay struct {
	Surface  ID
	Image    image.Image
	Opacity  float64
	Rotation int // quarter turns, 0..3
}

// SceneGraph is the node-graph half of the scene renderer.
// RotateNode takes a node-local axis and accumulates on top of the pose set
// by CreatePlaneNode/UpdateNode.
type SceneGraph interface {
	CreatePlaneNode(extent Extent, pose Pose) NodeHandle
	UpdateNode(h NodeHandle, extent Extent, pose Pose)
	RemoveNode(h NodeHandle)
	SetNodeTexture(h NodeHandle, img image.Image)
	SetNodeOpacity(h NodeHandle, value float64)
	RotateNode(h NodeHandle, radians float64, axis mgl64.Vec3)
}

// HitTester projects a screen point into the scene.
type HitTester interface {
	HitTest(p ScreenPoint) (NodeHandle, bool)
}

// PlaneDetector toggles the tracking service's plane detection mode.
type PlaneDetector interface {
	SetPlaneDetection(enabled bool)
}

// StateListener is called on each state transition.
type StateListener func(prev, next State)
