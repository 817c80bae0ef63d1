package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"github.com/soocke/surface-sketch-go/domain/surface"
	"github.com/soocke/surface-sketch-go/ui/model"
)

// Status lines shown in the controls panel.
const (
	StatusFailed     = "Failed"
	StatusNeedImage  = "Choose an image first"
	StatusBadTap     = "Tap expects \"x y\""
	StatusNoSurface  = "Surface not visible"
	defaultOpacity   = surface.DefaultOpacity
	opacityPrecision = 1e4
)

// ImageLoader resolves an image reference typed by the user.
type ImageLoader interface {
	Load(ref string) (image.Image, error)
}

// SessionControls is the command side of the session used by the controls.
type SessionControls interface {
	StartDetection()
	HandleTap(p surface.ScreenPoint)
	SetOpacity(value float64)
	SelectImage(img image.Image)
	Reset()
	Snapshot() surface.Snapshot
	Surfaces() []surface.TrackedSurface
}

// Rewinder restarts the tracking scenario.
type Rewinder interface{ Rewind() }

// CentreLocator projects a node's centre onto the screen.
type CentreLocator interface {
	ScreenCentre(h surface.NodeHandle) (surface.ScreenPoint, bool)
}

// ControlsView updates the widgets driven by the controls presenter.
type ControlsView interface {
	SetStatus(string)
	SetNextEnabled(bool)
	SetOpacityControlsVisible(bool)
	SetOpacityLabel(string)
}

// ControlsPresenter owns the user commands: image choice, detection start,
// taps, opacity and restart.
type ControlsPresenter struct {
	model   *model.ControlsModel
	loader  ImageLoader
	session SessionControls
	tracker Rewinder
	locator CentreLocator
	view    ControlsView
	step    float64
	onTap   func(surface.ScreenPoint)
	logger  *slog.Logger
}

func NewControlsPresenter(m *model.ControlsModel, loader ImageLoader, session SessionControls, tracker Rewinder, locator CentreLocator, view ControlsView, step float64, logger *slog.Logger) *ControlsPresenter {
	if m == nil {
		m = &model.ControlsModel{}
	}
	if step <= 0 || step > 1 {
		step = 0.1
	}
	return &ControlsPresenter{model: m, loader: loader, session: session, tracker: tracker, locator: locator, view: view, step: step, logger: logger}
}

// SetTapObserver registers fn to see every tap forwarded to the session.
func (c *ControlsPresenter) SetTapObserver(fn func(surface.ScreenPoint)) {
	if c != nil {
		c.onTap = fn
	}
}

func (c *ControlsPresenter) tap(p surface.ScreenPoint) {
	if c.onTap != nil {
		c.onTap(p)
	}
	c.session.HandleTap(p)
}

func (c *ControlsPresenter) ready() bool {
	return c != nil && c.session != nil && c.view != nil
}

// LoadImage resolves ref and stages it on the session. Failures leave the
// session untouched.
func (c *ControlsPresenter) LoadImage(ref string) {
	if !c.ready() || c.loader == nil {
		return
	}
	ref = strings.TrimSpace(ref)
	img, err := c.loader.Load(ref)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("image load failed", "ref", ref, "error", err)
		}
		c.setStatus(StatusFailed)
		return
	}
	c.session.SelectImage(img)
	c.model.SetImage(ref)
	b := img.Bounds()
	c.setStatus(fmt.Sprintf("Image %dx%d", b.Dx(), b.Dy()))
	c.view.SetNextEnabled(true)
}

// Next starts surface detection once an image is chosen.
func (c *ControlsPresenter) Next() {
	if !c.ready() {
		return
	}
	if !c.model.ImageReady() {
		c.setStatus(StatusNeedImage)
		return
	}
	c.session.StartDetection()
	c.view.SetNextEnabled(false)
}

// Tap parses "x y" screen coordinates and forwards the tap.
func (c *ControlsPresenter) Tap(text string) {
	if !c.ready() {
		return
	}
	p, err := ParseTap(text)
	if err != nil {
		if c.logger != nil {
			c.logger.Debug("tap rejected", "input", text, "error", err)
		}
		c.setStatus(StatusBadTap)
		return
	}
	c.tap(p)
}

// TapSurface taps the projected centre of the surface with the given id.
func (c *ControlsPresenter) TapSurface(id string) {
	if !c.ready() || c.locator == nil {
		return
	}
	for _, s := range c.session.Surfaces() {
		if string(s.ID) != id {
			continue
		}
		p, ok := c.locator.ScreenCentre(s.Node)
		if !ok {
			c.setStatus(StatusNoSurface)
			return
		}
		c.tap(p)
		return
	}
	c.setStatus(StatusNoSurface)
}

// OpacityUp raises the overlay opacity by one step.
func (c *ControlsPresenter) OpacityUp() { c.adjustOpacity(1) }

// OpacityDown lowers the overlay opacity by one step.
func (c *ControlsPresenter) OpacityDown() { c.adjustOpacity(-1) }

func (c *ControlsPresenter) adjustOpacity(dir float64) {
	if !c.ready() {
		return
	}
	snap := c.session.Snapshot()
	if !snap.Bound {
		return
	}
	v := snap.Opacity + dir*c.step
	v = math.Round(v*opacityPrecision) / opacityPrecision
	c.session.SetOpacity(math.Max(0, math.Min(1, v)))
}

// Restart discards everything and returns the UI to image choice.
func (c *ControlsPresenter) Restart() {
	if !c.ready() {
		return
	}
	c.session.Reset()
	c.session.SelectImage(nil)
	if c.tracker != nil {
		c.tracker.Rewind()
	}
	c.model.ClearImage()
	if c.model.SetOpacityVisible(false) {
		c.view.SetOpacityControlsVisible(false)
	}
	c.view.SetOpacityLabel(opacityText(defaultOpacity))
	c.view.SetNextEnabled(false)
	c.setStatus("")
}

// OnSelected reveals the opacity controls. Register it as the session's
// selection callback.
func (c *ControlsPresenter) OnSelected() {
	if !c.ready() {
		return
	}
	if c.model.SetOpacityVisible(true) {
		c.view.SetOpacityControlsVisible(true)
	}
	c.view.SetOpacityLabel(opacityText(c.session.Snapshot().Opacity))
}

// OnSessionEvent keeps the opacity label in sync with the overlay.
func (c *ControlsPresenter) OnSessionEvent(ev surface.Event) {
	if !c.ready() {
		return
	}
	if ev.Kind == surface.EventOpacity {
		c.view.SetOpacityLabel(opacityText(ev.Opacity))
	}
}

func (c *ControlsPresenter) setStatus(s string) {
	c.model.SetStatus(s)
	c.view.SetStatus(s)
}

// ParseTap parses "x y" (comma or whitespace separated) into a screen point.
func ParseTap(text string) (r2.Point, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != 2 {
		return r2.Point{}, errors.Errorf("want 2 coordinates, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return r2.Point{}, errors.Wrap(err, "x")
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return r2.Point{}, errors.Wrap(err, "y")
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return r2.Point{}, errors.New("coordinates must be finite")
	}
	return r2.Point{X: x, Y: y}, nil
}

func opacityText(v float64) string {
	return fmt.Sprintf("Opacity: %.2f%%", v*100)
}
