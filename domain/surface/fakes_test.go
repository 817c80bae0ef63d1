package surface

import (
	"image"
	"image/color"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type fakeNode struct {
	extent  Extent
	pose    Pose
	texture image.Image
	opacity float64
	spin    float64
}

// fakeScene records every SceneGraph call.
type fakeScene struct {
	next    NodeHandle
	nodes   map[NodeHandle]*fakeNode
	created int
	updated int
	removed int
	rotates int
}

func newFakeScene() *fakeScene {
	return &fakeScene{nodes: make(map[NodeHandle]*fakeNode)}
}

func (s *fakeScene) CreatePlaneNode(extent Extent, pose Pose) NodeHandle {
	s.next++
	s.created++
	s.nodes[s.next] = &fakeNode{extent: extent, pose: pose, opacity: 1}
	return s.next
}

func (s *fakeScene) UpdateNode(h NodeHandle, extent Extent, pose Pose) {
	s.updated++
	if n, ok := s.nodes[h]; ok {
		n.extent = extent
		n.pose = pose
	}
}

func (s *fakeScene) RemoveNode(h NodeHandle) {
	s.removed++
	delete(s.nodes, h)
}

func (s *fakeScene) SetNodeTexture(h NodeHandle, img image.Image) {
	if n, ok := s.nodes[h]; ok {
		n.texture = img
	}
}

func (s *fakeScene) SetNodeOpacity(h NodeHandle, value float64) {
	if n, ok := s.nodes[h]; ok {
		n.opacity = value
	}
}

func (s *fakeScene) RotateNode(h NodeHandle, radians float64, axis mgl64.Vec3) {
	s.rotates++
	if n, ok := s.nodes[h]; ok {
		n.spin += radians
	}
}

var _ SceneGraph = (*fakeScene)(nil)

// fakeHits resolves fixed screen points to nodes.
type fakeHits struct {
	targets map[ScreenPoint]NodeHandle
	calls   int
}

func (f *fakeHits) HitTest(p ScreenPoint) (NodeHandle, bool) {
	f.calls++
	h, ok := f.targets[p]
	return h, ok
}

type fakeDetector struct {
	enabled bool
	calls   []bool
}

func (d *fakeDetector) SetPlaneDetection(enabled bool) {
	d.enabled = enabled
	d.calls = append(d.calls, enabled)
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img
}

func horizontalAt(x, y, z float64) Pose {
	return Pose{Position: mgl64.Vec3{x, y, z}, Orientation: mgl64.QuatIdent()}
}
