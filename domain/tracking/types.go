// Package tracking simulates a plane-detecting tracking service. Surfaces
// from a scenario appear and grow over time while plane detection is on.
package tracking

import (
	"time"

	"github.com/soocke/surface-sketch-go/domain/surface"
)

// EventKind distinguishes first detections from refinements.
type EventKind int

const (
	EventDetected EventKind = iota
	EventUpdated
)

func (k EventKind) String() string {
	switch k {
	case EventDetected:
		return "detected"
	case EventUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Event is one tracking callback waiting to be delivered on the UI thread.
type Event struct {
	Kind   EventKind
	ID     surface.ID
	Extent surface.Extent
	Pose   surface.Pose
}

// Stats summarises tracker loop behaviour for instrumentation.
type Stats struct {
	Steps     uint64
	Detected  uint64
	Updated   uint64
	Coalesced uint64 // updates folded into an undelivered event
	Queued    int
	Elapsed   time.Duration // scenario clock
	Detecting bool
}

// Service is the tracking collaborator driven by the app.
type Service interface {
	surface.PlaneDetector
	Start()
	Stop()
	Running() bool
	Drain() []Event
	Rewind()
	Stats() Stats
}

// Sink receives drained events. surface.Session satisfies it.
type Sink interface {
	OnSurfaceDetected(id surface.ID, extent surface.Extent, pose surface.Pose)
	OnSurfaceUpdated(id surface.ID, extent surface.Extent, pose surface.Pose)
}

// Deliver feeds events to sink in order.
func Deliver(events []Event, sink Sink) {
	if sink == nil {
		return
	}
	for _, ev := range events {
		switch ev.Kind {
		case EventDetected:
			sink.OnSurfaceDetected(ev.ID, ev.Extent, ev.Pose)
		case EventUpdated:
			sink.OnSurfaceUpdated(ev.ID, ev.Extent, ev.Pose)
		}
	}
}
