package surface

import (
	"math"
	"testing"
	"time"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sessionFixture struct {
	scene    *fakeScene
	hits     *fakeHits
	detector *fakeDetector
	s        *Session
	events   []Event
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		scene:    newFakeScene(),
		hits:     &fakeHits{targets: map[ScreenPoint]NodeHandle{}},
		detector: &fakeDetector{},
	}
	f.s = NewSession(discardLogger, f.scene, f.hits, f.detector)
	f.s.now = func() time.Time { return time.Unix(100, 0) }
	f.s.AddListener(func(ev Event) { f.events = append(f.events, ev) })
	return f
}

// aim makes p hit the node of id.
func (f *sessionFixture) aim(id ID, p ScreenPoint) {
	for _, ts := range f.s.Surfaces() {
		if ts.ID == id {
			f.hits.targets[p] = ts.Node
		}
	}
}

func (f *sessionFixture) kinds() []EventKind {
	out := make([]EventKind, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestSession_TwoSurfacesSelectThenRotate(t *testing.T) {
	f := newSessionFixture()
	f.s.SelectImage(testImage())
	f.s.StartDetection()
	f.s.OnSurfaceDetected("A", Extent{Width: 2, Height: 1}, horizontalAt(0, -1, -2))
	f.s.OnSurfaceDetected("B", Extent{Width: 1, Height: 1}, horizontalAt(2, -1, -2))
	tapA := r2.Point{X: 320, Y: 300}
	f.aim("A", tapA)

	f.s.HandleTap(tapA)
	snap := f.s.Snapshot()
	require.Equal(t, StateSelected, snap.State)
	assert.Equal(t, ID("A"), snap.Surface)
	assert.Equal(t, 0, snap.Rotation)

	f.s.HandleTap(tapA)
	snap = f.s.Snapshot()
	assert.Equal(t, 1, snap.Rotation)
	assert.Equal(t, 2, snap.Surfaces)

	var b TrackedSurface
	for _, ts := range f.s.Surfaces() {
		if ts.ID == "B" {
			b = ts
		}
	}
	bn := f.scene.nodes[b.Node]
	require.NotNil(t, bn)
	assert.Nil(t, bn.texture)
	assert.Equal(t, 1.0, bn.opacity)
	assert.Zero(t, bn.spin)
	assert.Equal(t, Extent{Width: 1, Height: 1}, bn.extent)

	assert.Equal(t, []EventKind{EventState, EventState, EventSelected, EventRotated}, f.kinds())
	last := f.events[len(f.events)-1]
	assert.Equal(t, ID("A"), last.Surface)
	assert.Equal(t, 1, last.Rotation)
	assert.Equal(t, time.Unix(100, 0), last.At)
}

func TestSession_ResetAndRedetect(t *testing.T) {
	f := newSessionFixture()
	f.s.SelectImage(testImage())
	f.s.StartDetection()
	f.s.OnSurfaceDetected("A", Extent{Width: 2, Height: 1}, horizontalAt(0, -1, -2))
	tap := r2.Point{X: 5, Y: 5}
	f.aim("A", tap)
	f.s.HandleTap(tap)
	f.s.SetOpacity(0.3)
	require.Equal(t, 0.3, f.s.Snapshot().Opacity)

	f.s.Reset()
	assert.Equal(t, StateIdle, f.s.State())
	assert.Empty(t, f.s.Surfaces())
	assert.Empty(t, f.scene.nodes)

	f.s.StartDetection()
	f.s.OnSurfaceDetected("A", Extent{Width: 3, Height: 2}, horizontalAt(0, -1, -2))
	surfaces := f.s.Surfaces()
	require.Len(t, surfaces, 1)
	assert.Equal(t, Extent{Width: 3, Height: 2}, surfaces[0].Extent)
	n := f.scene.nodes[surfaces[0].Node]
	assert.Nil(t, n.texture)
	_, bound := f.s.Overlay()
	assert.False(t, bound)

	f.aim("A", tap)
	f.s.HandleTap(tap)
	o, ok := f.s.Overlay()
	require.True(t, ok)
	assert.Equal(t, 1.0, o.Opacity)
	assert.Equal(t, 1.0, n.opacity)
}

func TestSession_SelectedNotificationOncePerSelection(t *testing.T) {
	f := newSessionFixture()
	fired := 0
	f.s.OnSurfaceSelected(func() { fired++ })
	tap := r2.Point{X: 1, Y: 1}

	for round := 1; round <= 2; round++ {
		f.s.StartDetection()
		f.s.OnSurfaceDetected("A", Extent{Width: 1, Height: 1}, IdentityPose())
		f.aim("A", tap)
		f.s.HandleTap(tap)
		f.s.HandleTap(tap)
		f.s.HandleTap(tap)
		assert.Equal(t, round, fired)
		f.s.Reset()
	}
}

func TestSession_OpacityOnlyWhenSelected(t *testing.T) {
	f := newSessionFixture()
	f.s.SetOpacity(0.5)
	f.s.StartDetection()
	f.s.SetOpacity(0.5)
	assert.False(t, f.s.Snapshot().Bound)
	assert.NotContains(t, f.kinds(), EventOpacity)

	f.s.OnSurfaceDetected("A", Extent{Width: 1, Height: 1}, IdentityPose())
	tap := r2.Point{X: 1, Y: 1}
	f.aim("A", tap)
	f.s.HandleTap(tap)

	f.s.SetOpacity(2)
	f.s.SetOpacity(2)
	f.s.SetOpacity(math.NaN())
	assert.Equal(t, 1.0, f.s.Snapshot().Opacity)
	assert.NotContains(t, f.kinds(), EventOpacity)

	f.s.SetOpacity(0.42)
	assert.Equal(t, 0.42, f.s.Snapshot().Opacity)
	last := f.events[len(f.events)-1]
	assert.Equal(t, EventOpacity, last.Kind)
	assert.Equal(t, 0.42, last.Opacity)
	assert.Equal(t, StateSelected, last.State)
}

func TestSession_ResetIdempotentAndTapsInIdleIgnored(t *testing.T) {
	f := newSessionFixture()
	f.s.Reset()
	f.s.Reset()
	f.s.HandleTap(r2.Point{X: 3, Y: 4})
	assert.Equal(t, StateIdle, f.s.State())
	assert.Equal(t, 0, f.hits.calls)
	assert.Equal(t, []EventKind{EventReset, EventReset}, f.kinds())
}

func TestSession_UpdateUnknownIgnored(t *testing.T) {
	f := newSessionFixture()
	f.s.OnSurfaceUpdated("nope", Extent{Width: 1, Height: 1}, IdentityPose())
	assert.Empty(t, f.s.Surfaces())
	assert.Equal(t, 0, f.scene.updated)
}

func TestSession_SnapshotHasImage(t *testing.T) {
	f := newSessionFixture()
	assert.False(t, f.s.Snapshot().HasImage)
	f.s.SelectImage(testImage())
	assert.True(t, f.s.Snapshot().HasImage)
	f.s.SelectImage(nil)
	assert.False(t, f.s.Snapshot().HasImage)
}

func TestSession_NilSafe(t *testing.T) {
	var s *Session
	s.StartDetection()
	s.HandleTap(r2.Point{})
	s.SetOpacity(0.5)
	s.Reset()
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, Snapshot{}, s.Snapshot())
}
