package surface

import (
	"image"
	"log/slog"
	"math"
	"time"
)

// EventKind classifies a session event.
type EventKind string

const (
	EventState    EventKind = "state"
	EventSelected EventKind = "selected"
	EventRotated  EventKind = "rotated"
	EventOpacity  EventKind = "opacity"
	EventReset    EventKind = "reset"
)

// Event is delivered to session listeners after every visible change.
type Event struct {
	Kind     EventKind
	State    State
	Prev     State
	Surface  ID
	Opacity  float64
	Rotation int
	At       time.Time
}

// Snapshot is a read model of the session.
type Snapshot struct {
	State    State
	Surfaces int
	HasImage bool
	Bound    bool
	Surface  ID
	Opacity  float64
	Rotation int
}

// Session owns one surface registry, overlay binding and selection
// controller. All methods must be called from one goroutine.
type Session struct {
	logger     *slog.Logger
	registry   *Registry
	binding    *Binding
	controller *Controller
	onSelected func()
	listeners  []func(Event)
	now        func() time.Time
}

// NewSession wires a session over the scene and tracking collaborators.
func NewSession(logger *slog.Logger, scene SceneGraph, hits HitTester, detector PlaneDetector) *Session {
	registry := NewRegistry(scene, logger)
	binding := NewBinding(scene, registry, logger)
	s := &Session{
		logger:     logger,
		registry:   registry,
		binding:    binding,
		controller: NewController(registry, binding, hits, detector, logger),
		now:        time.Now,
	}
	s.controller.AddListener(func(prev, next State) {
		s.emit(Event{Kind: EventState, Prev: prev, State: next})
	})
	s.controller.SetSelectionHandler(func(id ID) {
		if s.logger != nil {
			s.logger.Info("surface selected", "surface", string(id))
		}
		s.emit(Event{Kind: EventSelected, Surface: id})
		if s.onSelected != nil {
			s.onSelected()
		}
	})
	s.controller.SetRotationHandler(func(step int) {
		s.emit(Event{Kind: EventRotated, Rotation: step})
	})
	return s
}

// OnSurfaceSelected sets the callback fired once per successful selection.
func (s *Session) OnSurfaceSelected(fn func()) {
	if s != nil {
		s.onSelected = fn
	}
}

// AddListener registers fn for every session event.
func (s *Session) AddListener(fn func(Event)) {
	if s == nil || fn == nil {
		return
	}
	s.listeners = append(s.listeners, fn)
}

// StartDetection begins scanning for surfaces.
func (s *Session) StartDetection() {
	if s != nil {
		s.controller.StartDetection()
	}
}

// HandleTap forwards a tap to the selection controller.
func (s *Session) HandleTap(p ScreenPoint) {
	if s != nil {
		s.controller.HandleTap(p)
	}
}

// SetOpacity changes the overlay opacity. It has no effect unless a surface
// is selected.
func (s *Session) SetOpacity(value float64) {
	if s == nil || s.controller.Current() != StateSelected || math.IsNaN(value) {
		return
	}
	before, _ := s.binding.Current()
	s.binding.SetOpacity(value)
	after, ok := s.binding.Current()
	if !ok || after.Opacity == before.Opacity {
		return
	}
	s.emit(Event{Kind: EventOpacity, Opacity: after.Opacity})
}

// SelectImage stages the image bound to the next selected surface.
func (s *Session) SelectImage(img image.Image) {
	if s != nil {
		s.controller.SetImage(img)
	}
}

// Reset discards the overlay and all tracked surfaces and returns to Idle.
func (s *Session) Reset() {
	if s == nil {
		return
	}
	s.controller.Reset()
	if s.logger != nil {
		s.logger.Info("session reset")
	}
	s.emit(Event{Kind: EventReset})
}

// OnSurfaceDetected feeds a new detection from the tracking service.
func (s *Session) OnSurfaceDetected(id ID, extent Extent, pose Pose) {
	if s != nil {
		s.registry.OnSurfaceDetected(id, extent, pose)
	}
}

// OnSurfaceUpdated feeds a refinement from the tracking service.
func (s *Session) OnSurfaceUpdated(id ID, extent Extent, pose Pose) {
	if s != nil {
		s.registry.OnSurfaceUpdated(id, extent, pose)
	}
}

// State returns the current selection state.
func (s *Session) State() State {
	if s == nil {
		return StateIdle
	}
	return s.controller.Current()
}

// Surfaces returns the tracked surfaces in detection order.
func (s *Session) Surfaces() []TrackedSurface {
	if s == nil {
		return nil
	}
	return s.registry.Surfaces()
}

// Overlay returns the current overlay, if any.
func (s *Session) Overlay() (Overlay, bool) {
	if s == nil {
		return Overlay{}, false
	}
	return s.binding.Current()
}

// Snapshot returns the current read model.
func (s *Session) Snapshot() Snapshot {
	if s == nil {
		return Snapshot{}
	}
	snap := Snapshot{
		State:    s.controller.Current(),
		Surfaces: s.registry.Len(),
		HasImage: s.controller.Image() != nil,
	}
	if o, ok := s.binding.Current(); ok {
		snap.Bound = true
		snap.Surface = o.Surface
		snap.Opacity = o.Opacity
		snap.Rotation = o.Rotation
	}
	return snap
}

func (s *Session) emit(ev Event) {
	if ev.At.IsZero() && s.now != nil {
		ev.At = s.now()
	}
	if ev.Kind != EventState {
		ev.State = s.controller.Current()
	}
	if o, ok := s.binding.Current(); ok {
		ev.Surface = o.Surface
		ev.Opacity = o.Opacity
		ev.Rotation = o.Rotation
	}
	for _, fn := range s.listeners {
		fn(ev)
	}
}
