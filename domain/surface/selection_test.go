package surface

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	scene    *fakeScene
	registry *Registry
	binding  *Binding
	hits     *fakeHits
	detector *fakeDetector
	c        *Controller
}

func newControllerFixture() *controllerFixture {
	f := &controllerFixture{
		scene:    newFakeScene(),
		hits:     &fakeHits{targets: map[ScreenPoint]NodeHandle{}},
		detector: &fakeDetector{},
	}
	f.registry = NewRegistry(f.scene, discardLogger)
	f.binding = NewBinding(f.scene, f.registry, discardLogger)
	f.c = NewController(f.registry, f.binding, f.hits, f.detector, discardLogger)
	return f
}

// detect registers a surface and makes p hit it.
func (f *controllerFixture) detect(id ID, p ScreenPoint) {
	f.registry.OnSurfaceDetected(id, Extent{Width: 1, Height: 1}, IdentityPose())
	s, _ := f.registry.Lookup(id)
	f.hits.targets[p] = s.Node
}

func TestTapHandlers_CoverEveryState(t *testing.T) {
	for _, st := range []State{StateIdle, StateScanning, StateSelected} {
		_, ok := tapHandlers[st]
		assert.True(t, ok, "missing tap handler for %v", st)
	}
}

func TestController_StartDetection(t *testing.T) {
	f := newControllerFixture()
	var seq []State
	f.c.AddListener(func(_, next State) { seq = append(seq, next) })

	f.c.StartDetection()
	f.c.StartDetection()

	assert.Equal(t, StateScanning, f.c.Current())
	assert.Equal(t, []State{StateScanning}, seq)
	assert.Equal(t, []bool{true}, f.detector.calls)
}

func TestController_TapInIdleIgnored(t *testing.T) {
	f := newControllerFixture()
	f.detect("A", r2.Point{X: 10, Y: 10})
	f.c.HandleTap(r2.Point{X: 10, Y: 10})
	assert.Equal(t, StateIdle, f.c.Current())
	assert.Equal(t, 0, f.hits.calls)
	assert.False(t, f.binding.Bound())
}

func TestController_MissLeavesStateUnchanged(t *testing.T) {
	f := newControllerFixture()
	f.detect("A", r2.Point{X: 10, Y: 10})
	f.c.StartDetection()
	fired := 0
	f.c.SetSelectionHandler(func(ID) { fired++ })

	for i := 0; i < 3; i++ {
		f.c.HandleTap(r2.Point{X: 500, Y: 500})
	}

	assert.Equal(t, StateScanning, f.c.Current())
	assert.False(t, f.binding.Bound())
	assert.True(t, f.detector.enabled)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 1, f.registry.Len())
}

func TestController_SelectThenRotate(t *testing.T) {
	f := newControllerFixture()
	f.detect("A", r2.Point{X: 10, Y: 10})
	f.detect("B", r2.Point{X: 50, Y: 50})
	f.c.SetImage(testImage())
	f.c.StartDetection()
	var selected []ID
	f.c.SetSelectionHandler(func(id ID) { selected = append(selected, id) })
	var steps []int
	f.c.SetRotationHandler(func(step int) { steps = append(steps, step) })

	f.c.HandleTap(r2.Point{X: 10, Y: 10})
	require.Equal(t, StateSelected, f.c.Current())
	assert.Equal(t, []ID{"A"}, selected)
	assert.False(t, f.detector.enabled)
	calls := f.hits.calls

	// a tap on B rotates A instead of re-selecting
	f.c.HandleTap(r2.Point{X: 50, Y: 50})
	f.c.HandleTap(r2.Point{X: 999, Y: 999})

	assert.Equal(t, calls, f.hits.calls)
	o, _ := f.binding.Current()
	assert.Equal(t, ID("A"), o.Surface)
	assert.Equal(t, 2, o.Rotation)
	assert.Equal(t, []int{1, 2}, steps)
	assert.Equal(t, []ID{"A"}, selected)
	// B stays tracked and unbound
	assert.Equal(t, 2, f.registry.Len())
	b := nodeOf(t, f.registry, f.scene, "B")
	assert.Nil(t, b.texture)
}

func TestController_StartDetectionIgnoredWhenSelected(t *testing.T) {
	f := newControllerFixture()
	f.detect("A", r2.Point{X: 1, Y: 1})
	f.c.StartDetection()
	f.c.HandleTap(r2.Point{X: 1, Y: 1})
	f.c.StartDetection()
	assert.Equal(t, StateSelected, f.c.Current())
	assert.False(t, f.detector.enabled)
}

func TestController_ResetRearmsSelection(t *testing.T) {
	f := newControllerFixture()
	fired := 0
	f.c.SetSelectionHandler(func(ID) { fired++ })

	f.detect("A", r2.Point{X: 1, Y: 1})
	f.c.StartDetection()
	f.c.HandleTap(r2.Point{X: 1, Y: 1})
	require.Equal(t, 1, fired)

	f.c.Reset()
	assert.Equal(t, StateIdle, f.c.Current())
	assert.Equal(t, 0, f.registry.Len())
	assert.Empty(t, f.scene.nodes)
	assert.False(t, f.binding.Bound())
	assert.False(t, f.detector.enabled)

	f.c.StartDetection()
	f.detect("A", r2.Point{X: 1, Y: 1})
	f.c.HandleTap(r2.Point{X: 1, Y: 1})
	assert.Equal(t, 2, fired)
}

func TestController_ResetIdempotent(t *testing.T) {
	f := newControllerFixture()
	f.detect("A", r2.Point{X: 1, Y: 1})
	f.c.StartDetection()
	f.c.HandleTap(r2.Point{X: 1, Y: 1})

	f.c.Reset()
	removed := f.scene.removed
	var transitions int
	f.c.AddListener(func(_, _ State) { transitions++ })
	f.c.Reset()

	assert.Equal(t, StateIdle, f.c.Current())
	assert.Equal(t, removed, f.scene.removed)
	assert.Equal(t, 0, transitions)
	assert.Equal(t, 0, f.registry.Len())
}
