package surface

import (
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertNear compares vectors by distance; float noise around zero
// components breaks relative comparisons.
func assertNear(t *testing.T, want, got mgl64.Vec3) {
	t.Helper()
	assert.InDelta(t, 0, got.Sub(want).Len(), 1e-9, "want %v got %v", want, got)
}

func TestRegistry_DetectCreatesFlatNode(t *testing.T) {
	scene := newFakeScene()
	r := NewRegistry(scene, discardLogger)

	r.OnSurfaceDetected("A", Extent{Width: 1, Height: 2}, horizontalAt(0, -1, -2))

	require.Equal(t, 1, r.Len())
	s, ok := r.Lookup("A")
	require.True(t, ok)
	n := scene.nodes[s.Node]
	require.NotNil(t, n)
	assert.Equal(t, Extent{Width: 1, Height: 2}, n.extent)

	// node normal must match the anchor's up axis
	normal := n.pose.Orientation.Rotate(PlaneNormal)
	assertNear(t, mgl64.Vec3{0, 1, 0}, normal)
	assert.Equal(t, mgl64.Vec3{0, -1, -2}, n.pose.Position)

	got, ok := r.ByNode(s.Node)
	require.True(t, ok)
	assert.Equal(t, ID("A"), got.ID)
}

func TestRegistry_VerticalAnchorNormalFollowsUp(t *testing.T) {
	scene := newFakeScene()
	r := NewRegistry(scene, discardLogger)
	wall := Pose{Position: mgl64.Vec3{0, 0, -3}, Orientation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})}

	r.OnSurfaceDetected("wall", Extent{Width: 2, Height: 2}, wall)

	s, _ := r.Lookup("wall")
	normal := scene.nodes[s.Node].pose.Orientation.Rotate(PlaneNormal)
	assertNear(t, wall.Up(), normal)
	assertNear(t, mgl64.Vec3{0, 0, 1}, normal)
}

func TestRegistry_ZeroExtentAccepted(t *testing.T) {
	scene := newFakeScene()
	r := NewRegistry(scene, discardLogger)
	r.OnSurfaceDetected("z", Extent{}, IdentityPose())
	require.Equal(t, 1, r.Len())
	require.Equal(t, 1, scene.created)
	s, _ := r.Lookup("z")
	assert.True(t, s.Extent.Degenerate())
}

func TestRegistry_UpdateUnknownIsNoop(t *testing.T) {
	scene := newFakeScene()
	r := NewRegistry(scene, discardLogger)
	r.OnSurfaceUpdated("ghost", Extent{Width: 1, Height: 1}, IdentityPose())
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, scene.updated)
	assert.Equal(t, 0, scene.created)
}

func TestRegistry_CountAndLatestValues(t *testing.T) {
	scene := newFakeScene()
	r := NewRegistry(scene, discardLogger)

	ids := []ID{"a", "b", "c"}
	for i, id := range ids {
		r.OnSurfaceDetected(id, Extent{Width: float64(i + 1), Height: 1}, horizontalAt(0, 0, float64(-i)))
	}
	// repeated detection and a sequence of updates
	r.OnSurfaceDetected("b", Extent{Width: 9, Height: 9}, horizontalAt(1, 1, 1))
	for step := 0; step < 5; step++ {
		r.OnSurfaceUpdated("a", Extent{Width: float64(10 + step), Height: 2}, horizontalAt(float64(step), 0, -1))
	}

	require.Equal(t, len(ids), r.Len())
	require.Len(t, scene.nodes, len(ids))
	a, _ := r.Lookup("a")
	assert.Equal(t, Extent{Width: 14, Height: 2}, a.Extent)
	assert.Equal(t, mgl64.Vec3{4, 0, -1}, a.Pose.Position)
	assert.Equal(t, a.Extent, scene.nodes[a.Node].extent)
	b, _ := r.Lookup("b")
	assert.Equal(t, Extent{Width: 9, Height: 9}, b.Extent)

	order := r.Surfaces()
	require.Len(t, order, 3)
	for i, s := range order {
		assert.Equal(t, ids[i], s.ID)
	}
}

func TestRegistry_ClearAllIdempotent(t *testing.T) {
	scene := newFakeScene()
	r := NewRegistry(scene, discardLogger)
	for i := 0; i < 4; i++ {
		r.OnSurfaceDetected(ID(fmt.Sprintf("s%d", i)), Extent{Width: 1, Height: 1}, IdentityPose())
	}
	r.ClearAll()
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, scene.nodes)
	assert.Equal(t, 4, scene.removed)

	r.ClearAll()
	assert.Equal(t, 4, scene.removed)
	_, ok := r.Lookup("s0")
	assert.False(t, ok)
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry
	r.OnSurfaceDetected("x", Extent{}, IdentityPose())
	r.OnSurfaceUpdated("x", Extent{}, IdentityPose())
	r.ClearAll()
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Surfaces())
}

func TestRegistry_WithoutSceneHasNoNodes(t *testing.T) {
	r := NewRegistry(nil, discardLogger)
	r.OnSurfaceDetected("a", Extent{Width: 1, Height: 1}, IdentityPose())
	r.OnSurfaceDetected("b", Extent{Width: 2, Height: 2}, IdentityPose())
	require.Equal(t, 2, r.Len())
	_, ok := r.ByNode(NoNode)
	assert.False(t, ok)
	a, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, NoNode, a.Node)
}
