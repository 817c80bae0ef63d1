// Package scene is a retained-mode node graph standing in for the device
// renderer. It implements surface.SceneGraph and surface.HitTester and
// rasterizes a preview of the graph.
package scene

import (
	"image"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soocke/surface-sketch-go/domain/surface"
)

// Node is a copy of one plane node.
type Node struct {
	Handle  surface.NodeHandle
	Extent  surface.Extent
	Pose    surface.Pose // base pose set by create/update
	Spin    mgl64.Quat   // node-local rotation applied on top of Pose
	Texture image.Image
	Opacity float64
}

// World returns the node's world transform.
func (n Node) World() mgl64.Mat4 { return n.Pose.Mat4().Mul4(n.Spin.Mat4()) }

// Corners returns the rectangle's world corners in winding order.
func (n Node) Corners() [4]mgl64.Vec3 {
	w, h := n.Extent.Width/2, n.Extent.Height/2
	m := n.World()
	local := [4]mgl64.Vec3{{-w, -h, 0}, {w, -h, 0}, {w, h, 0}, {-w, h, 0}}
	var out [4]mgl64.Vec3
	for i, v := range local {
		out[i] = m.Mul4x1(v.Vec4(1)).Vec3()
	}
	return out
}

// Centre returns the node origin in world space.
func (n Node) Centre() mgl64.Vec3 { return n.Pose.Position }

// QuarterTurns returns the spin about the plane normal in quarter turns, 0..3.
func (n Node) QuarterTurns() int {
	x := n.Spin.Rotate(mgl64.Vec3{1, 0, 0})
	a := math.Atan2(x.Y(), x.X())
	k := int(math.Round(a/surface.QuarterTurn)) % 4
	if k < 0 {
		k += 4
	}
	return k
}

// Scene holds plane nodes keyed by handle. It is not safe for concurrent
// use; the UI thread owns it.
type Scene struct {
	camera *Camera
	logger *slog.Logger
	next   surface.NodeHandle
	nodes  map[surface.NodeHandle]*Node
	order  []surface.NodeHandle
}

var (
	_ surface.SceneGraph = (*Scene)(nil)
	_ surface.HitTester  = (*Scene)(nil)
)

// New returns an empty scene viewed through camera.
func New(camera *Camera, logger *slog.Logger) *Scene {
	return &Scene{camera: camera, logger: logger, nodes: make(map[surface.NodeHandle]*Node)}
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	if s == nil {
		return nil
	}
	return s.camera
}

// CreatePlaneNode adds a node with the given extent and pose, full opacity
// and no spin. Handles start at 1.
func (s *Scene) CreatePlaneNode(extent surface.Extent, pose surface.Pose) surface.NodeHandle {
	if s == nil {
		return surface.NoNode
	}
	s.next++
	h := s.next
	s.nodes[h] = &Node{Handle: h, Extent: extent, Pose: pose, Spin: mgl64.QuatIdent(), Opacity: 1}
	s.order = append(s.order, h)
	return h
}

// UpdateNode resizes and moves node h. The node's spin is kept.
func (s *Scene) UpdateNode(h surface.NodeHandle, extent surface.Extent, pose surface.Pose) {
	if s == nil {
		return
	}
	n, ok := s.nodes[h]
	if !ok {
		return
	}
	n.Extent = extent
	n.Pose = pose
}

// RemoveNode drops node h. Unknown handles are ignored.
func (s *Scene) RemoveNode(h surface.NodeHandle) {
	if s == nil {
		return
	}
	if _, ok := s.nodes[h]; !ok {
		return
	}
	delete(s.nodes, h)
	for i, v := range s.order {
		if v == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// SetNodeTexture sets the image drawn on node h; nil clears it.
func (s *Scene) SetNodeTexture(h surface.NodeHandle, img image.Image) {
	if s == nil {
		return
	}
	if n, ok := s.nodes[h]; ok {
		n.Texture = img
	}
}

// SetNodeOpacity sets the texture opacity of node h.
func (s *Scene) SetNodeOpacity(h surface.NodeHandle, value float64) {
	if s == nil {
		return
	}
	if n, ok := s.nodes[h]; ok {
		n.Opacity = value
	}
}

// RotateNode adds a node-local rotation about axis to node h.
func (s *Scene) RotateNode(h surface.NodeHandle, radians float64, axis mgl64.Vec3) {
	if s == nil {
		return
	}
	n, ok := s.nodes[h]
	if !ok || axis.Len() == 0 {
		return
	}
	n.Spin = n.Spin.Mul(mgl64.QuatRotate(radians, axis.Normalize())).Normalize()
}

// Node returns a copy of node h.
func (s *Scene) Node(h surface.NodeHandle) (Node, bool) {
	if s == nil {
		return Node{}, false
	}
	n, ok := s.nodes[h]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns copies of all nodes in creation order.
func (s *Scene) Nodes() []Node {
	if s == nil {
		return nil
	}
	out := make([]Node, 0, len(s.order))
	for _, h := range s.order {
		out = append(out, *s.nodes[h])
	}
	return out
}

// Len returns the node count.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// ScreenCentre projects the centre of node h.
func (s *Scene) ScreenCentre(h surface.NodeHandle) (surface.ScreenPoint, bool) {
	if s == nil {
		return surface.ScreenPoint{}, false
	}
	n, ok := s.nodes[h]
	if !ok || s.camera == nil {
		return surface.ScreenPoint{}, false
	}
	return s.camera.Project(n.Centre())
}

// HitTest casts a ray through p and returns the nearest node whose rectangle
// it crosses in front of the camera.
func (s *Scene) HitTest(p surface.ScreenPoint) (surface.NodeHandle, bool) {
	if s == nil || s.camera == nil {
		return surface.NoNode, false
	}
	origin, dir, ok := s.camera.Ray(p)
	if !ok {
		return surface.NoNode, false
	}
	best := math.Inf(1)
	hit := surface.NoNode
	for _, h := range s.order {
		n := s.nodes[h]
		if t, ok := intersect(*n, origin, dir); ok && t < best {
			best = t
			hit = h
		}
	}
	if hit == surface.NoNode {
		if s.logger != nil {
			s.logger.Debug("hit test miss", "x", p.X, "y", p.Y)
		}
		return surface.NoNode, false
	}
	return hit, true
}

// intersect returns the ray parameter where the ray crosses the node's
// rectangle.
func intersect(n Node, origin, dir mgl64.Vec3) (float64, bool) {
	if n.Extent.Degenerate() {
		return 0, false
	}
	inv := n.World().Inv()
	o := inv.Mul4x1(origin.Vec4(1)).Vec3()
	d := inv.Mul4x1(dir.Vec4(0)).Vec3()
	if math.Abs(d.Z()) < 1e-12 {
		return 0, false
	}
	t := -o.Z() / d.Z()
	if t <= 0 {
		return 0, false
	}
	at := o.Add(d.Mul(t))
	if math.Abs(at.X()) > n.Extent.Width/2 || math.Abs(at.Y()) > n.Extent.Height/2 {
		return 0, false
	}
	return t, true
}
