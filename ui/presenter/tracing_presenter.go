package presenter

import (
	"time"

	"github.com/soocke/surface-sketch-go/domain/surface"
	"github.com/soocke/surface-sketch-go/ui/model"
)

// OverlaySource reports whether an overlay is currently placed.
type OverlaySource interface {
	Overlay() (surface.Overlay, bool)
}

// TracingView displays formatted tracing durations.
type TracingView interface {
	SetTracing(current, total time.Duration)
}

// TracingPresenter formats placed durations from the model to the view.
type TracingPresenter struct {
	model   *model.TracingModel
	overlay OverlaySource
	view    TracingView
}

// NewTracingPresenter returns a new TracingPresenter.
func NewTracingPresenter(m *model.TracingModel, overlay OverlaySource, view TracingView) *TracingPresenter {
	return &TracingPresenter{model: m, overlay: overlay, view: view}
}

// Tick advances the tracing model and pushes values to the view.
func (p *TracingPresenter) Tick(now time.Time) {
	if p == nil || p.model == nil || p.overlay == nil || p.view == nil {
		return
	}
	_, placed := p.overlay.Overlay()
	p.model.OnTick(placed, now)
	p.view.SetTracing(p.model.Values())
}
