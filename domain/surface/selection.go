package surface

import (
	"image"
	"log/slog"
)

// tapHandler interprets a tap for one state.
type tapHandler func(c *Controller, p ScreenPoint)

// tapHandlers is the tap transition table. Every State has an entry.
var tapHandlers = map[State]tapHandler{
	StateIdle:     func(*Controller, ScreenPoint) {},
	StateScanning: (*Controller).trySelect,
	StateSelected: func(c *Controller, _ ScreenPoint) { c.rotate() },
}

// Controller is the selection state machine. A surface is chosen once per
// scan; after that taps rotate the overlay until Reset.
type Controller struct {
	state     State
	registry  *Registry
	binding   *Binding
	hits      HitTester
	detector  PlaneDetector
	logger    *slog.Logger
	image     image.Image
	notified  bool
	onSelect  func(ID)
	onRotate  func(int)
	listeners []StateListener
}

// NewController returns a controller in StateIdle.
func NewController(registry *Registry, binding *Binding, hits HitTester, detector PlaneDetector, logger *slog.Logger) *Controller {
	return &Controller{
		state:    StateIdle,
		registry: registry,
		binding:  binding,
		hits:     hits,
		detector: detector,
		logger:   logger,
	}
}

// AddListener registers a listener for state transitions.
func (c *Controller) AddListener(l StateListener) {
	if c == nil || l == nil {
		return
	}
	c.listeners = append(c.listeners, l)
}

// SetSelectionHandler sets the callback fired once per successful selection.
func (c *Controller) SetSelectionHandler(fn func(ID)) {
	if c != nil {
		c.onSelect = fn
	}
}

// SetRotationHandler sets the callback fired after each rotate step.
func (c *Controller) SetRotationHandler(fn func(step int)) {
	if c != nil {
		c.onRotate = fn
	}
}

// Current returns the current state.
func (c *Controller) Current() State {
	if c == nil {
		return StateIdle
	}
	return c.state
}

// SetImage stages the image bound at the next selection.
func (c *Controller) SetImage(img image.Image) {
	if c != nil {
		c.image = img
	}
}

// Image returns the staged image.
func (c *Controller) Image() image.Image {
	if c == nil {
		return nil
	}
	return c.image
}

// StartDetection moves Idle to Scanning and enables plane detection.
func (c *Controller) StartDetection() {
	if c == nil || c.state != StateIdle {
		return
	}
	if c.detector != nil {
		c.detector.SetPlaneDetection(true)
	}
	c.transition(StateScanning)
}

// HandleTap dispatches a tap according to the current state.
func (c *Controller) HandleTap(p ScreenPoint) {
	if c == nil {
		return
	}
	h, ok := tapHandlers[c.state]
	if !ok {
		if c.logger != nil {
			c.logger.Warn("tap in unhandled state", "state", c.state.String())
		}
		return
	}
	h(c, p)
}

// Reset discards the overlay and all tracked surfaces and returns to Idle.
func (c *Controller) Reset() {
	if c == nil {
		return
	}
	c.binding.Unbind()
	c.registry.ClearAll()
	if c.detector != nil {
		c.detector.SetPlaneDetection(false)
	}
	c.notified = false
	c.transition(StateIdle)
}

func (c *Controller) trySelect(p ScreenPoint) {
	if c.hits == nil {
		return
	}
	h, ok := c.hits.HitTest(p)
	if !ok {
		if c.logger != nil {
			c.logger.Debug("tap missed", "x", p.X, "y", p.Y)
		}
		return
	}
	s, ok := c.registry.ByNode(h)
	if !ok {
		// hit something that is not a tracked plane
		return
	}
	c.binding.Bind(s.ID, c.image)
	if c.detector != nil {
		c.detector.SetPlaneDetection(false)
	}
	c.transition(StateSelected)
	if !c.notified {
		c.notified = true
		if c.onSelect != nil {
			c.onSelect(s.ID)
		}
	}
}

func (c *Controller) rotate() {
	c.binding.Rotate()
	if c.onRotate != nil {
		if o, ok := c.binding.Current(); ok {
			c.onRotate(o.Rotation)
		}
	}
}

func (c *Controller) transition(next State) {
	prev := c.state
	if prev == next {
		return
	}
	c.state = next
	if c.logger != nil {
		c.logger.Debug("selection state transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range c.listeners {
		l(prev, next)
	}
}
