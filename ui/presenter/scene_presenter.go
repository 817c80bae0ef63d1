package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/soocke/surface-sketch-go/domain/surface"
	"github.com/soocke/surface-sketch-go/domain/tracking"
	"github.com/soocke/surface-sketch-go/ui/images"
	"github.com/soocke/surface-sketch-go/ui/model"
)

const (
	loupeSize = 48
	loupeZoom = 3
)

// EventSource supplies tracking events queued by the tracker goroutine.
type EventSource interface {
	Drain() []tracking.Event
}

// SessionReader is the read side of the session the scene presenter feeds.
type SessionReader interface {
	tracking.Sink
	Snapshot() surface.Snapshot
	Surfaces() []surface.TrackedSurface
}

// Renderer rasterizes the scene preview.
type Renderer interface {
	Render(hud ...string) image.Image
}

// PreviewView displays the rendered scene, a magnified view around the last
// tap and the tappable surface list.
type PreviewView interface {
	UpdatePreview(img image.Image)
	UpdateLoupe(img image.Image)
	SetSurfaces(ids []string)
}

// ScenePresenter moves tracking events onto the UI thread and re-renders
// the preview when anything visible changed.
type ScenePresenter struct {
	source   EventSource
	session  SessionReader
	renderer Renderer
	view     PreviewView
	list     *model.SurfaceListModel
	logger   *slog.Logger

	dirty    bool
	tap      surface.ScreenPoint
	hasTap   bool
	renders  uint64
	lastCost time.Duration
}

func NewScenePresenter(source EventSource, session SessionReader, renderer Renderer, view PreviewView, list *model.SurfaceListModel, logger *slog.Logger) *ScenePresenter {
	if list == nil {
		list = model.NewSurfaceListModel()
	}
	return &ScenePresenter{source: source, session: session, renderer: renderer, view: view, list: list, logger: logger, dirty: true}
}

// OnSessionEvent marks the preview stale. Register it as a session listener.
func (p *ScenePresenter) OnSessionEvent(ev surface.Event) {
	if p == nil {
		return
	}
	p.dirty = true
	if ev.Kind == surface.EventReset {
		p.hasTap = false
	}
}

// OnTap remembers where the user tapped so the loupe follows it.
func (p *ScenePresenter) OnTap(pt surface.ScreenPoint) {
	if p == nil {
		return
	}
	p.tap, p.hasTap = pt, true
	p.dirty = true
}

// Tick delivers pending tracking events to the session and refreshes the view.
func (p *ScenePresenter) Tick(now time.Time) {
	if p == nil || p.session == nil || p.view == nil {
		return
	}
	if p.source != nil {
		if events := p.source.Drain(); len(events) > 0 {
			tracking.Deliver(events, p.session)
			p.dirty = true
			if p.logger != nil {
				p.logger.Debug("tracking events delivered", "count", len(events))
			}
		}
	}
	if p.list.Set(surfaceIDs(p.session.Surfaces())) {
		p.view.SetSurfaces(p.list.IDs())
	}
	if !p.dirty || p.renderer == nil {
		return
	}
	start := time.Now()
	img := p.renderer.Render(hudLines(p.session.Snapshot())...)
	p.lastCost = time.Since(start)
	p.renders++
	p.dirty = false
	p.view.UpdatePreview(img)
	if !p.hasTap || img == nil {
		return
	}
	loupe, _, err := images.Loupe(img, image.Pt(int(p.tap.X), int(p.tap.Y)), loupeSize, loupeZoom)
	if err != nil {
		if p.logger != nil {
			p.logger.Debug("loupe skipped", "error", err)
		}
		return
	}
	p.view.UpdateLoupe(loupe)
}

// Renders returns how many previews were rendered and how long the last took.
func (p *ScenePresenter) Renders() (uint64, time.Duration) {
	if p == nil {
		return 0, 0
	}
	return p.renders, p.lastCost
}

func surfaceIDs(surfaces []surface.TrackedSurface) []string {
	ids := make([]string, 0, len(surfaces))
	for _, s := range surfaces {
		ids = append(ids, string(s.ID))
	}
	return ids
}

func hudLines(s surface.Snapshot) []string {
	lines := []string{fmt.Sprintf("%s  surfaces: %d", s.State, s.Surfaces)}
	if s.Bound {
		lines = append(lines, fmt.Sprintf("overlay %s  %s  turns %d", shortID(s.Surface), opacityText(s.Opacity), s.Rotation))
	}
	return lines
}

func shortID(id surface.ID) string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}
