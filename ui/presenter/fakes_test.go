package presenter

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/soocke/surface-sketch-go/domain/scene"
	"github.com/soocke/surface-sketch-go/domain/surface"
	"github.com/soocke/surface-sketch-go/domain/tracking"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

const (
	viewW = 320
	viewH = 240
)

var viewCentre = surface.ScreenPoint{X: viewW / 2, Y: viewH / 2}

// rig is a real session over a simulated scene, as the app wires it.
type rig struct {
	scene   *scene.Scene
	session *surface.Session
	events  []surface.Event
}

func newRig() *rig {
	sc := scene.New(scene.NewCamera(viewW, viewH, 60), discardLogger)
	r := &rig{scene: sc, session: surface.NewSession(discardLogger, sc, sc, nil)}
	r.session.AddListener(func(ev surface.Event) { r.events = append(r.events, ev) })
	return r
}

// wall is an upright anchor whose plane faces the camera at depth z.
func wall(x, y, z float64) surface.Pose {
	return surface.Pose{Position: mgl64.Vec3{x, y, z}, Orientation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{1, 0, 0})}
}

func solid(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{200, 40, 40, 255})
		}
	}
	return img
}

type fakeSource struct {
	queued []tracking.Event
	drains int
}

func (f *fakeSource) Drain() []tracking.Event {
	f.drains++
	out := f.queued
	f.queued = nil
	return out
}

type fakeRenderer struct {
	calls int
	hud   []string
}

func (f *fakeRenderer) Render(hud ...string) image.Image {
	f.calls++
	f.hud = hud
	return image.NewRGBA(image.Rect(0, 0, viewW, viewH))
}

type previewView struct {
	updates    int
	loupes     int
	setCalls   int
	lastIDs    []string
	lastBounds image.Rectangle
}

func (v *previewView) UpdatePreview(img image.Image) {
	v.updates++
	v.lastBounds = img.Bounds()
}

func (v *previewView) UpdateLoupe(image.Image) { v.loupes++ }

func (v *previewView) SetSurfaces(ids []string) {
	v.setCalls++
	v.lastIDs = ids
}

type stateView struct {
	labels   []string
	prompts  []string
	editable bool
}

func (v *stateView) SetStateLabel(s string)   { v.labels = append(v.labels, s) }
func (v *stateView) SetPrompt(s string)       { v.prompts = append(v.prompts, s) }
func (v *stateView) SetConfigEditable(b bool) { v.editable = b }

type controlsView struct {
	status         string
	nextEnabled    bool
	opacityVisible bool
	visibleCalls   int
	opacityLabel   string
}

func (v *controlsView) SetStatus(s string)       { v.status = s }
func (v *controlsView) SetNextEnabled(b bool)    { v.nextEnabled = b }
func (v *controlsView) SetOpacityLabel(s string) { v.opacityLabel = s }
func (v *controlsView) SetOpacityControlsVisible(b bool) {
	v.visibleCalls++
	v.opacityVisible = b
}

type tracingView struct {
	current, total time.Duration
	calls          int
}

func (v *tracingView) SetTracing(current, total time.Duration) {
	v.calls++
	v.current, v.total = current, total
}

type fakeLoader struct {
	images map[string]image.Image
}

func (f *fakeLoader) Load(ref string) (image.Image, error) {
	if img, ok := f.images[ref]; ok {
		return img, nil
	}
	return nil, errors.New("no such image")
}

type fakeRewinder struct{ rewinds int }

func (f *fakeRewinder) Rewind() { f.rewinds++ }
