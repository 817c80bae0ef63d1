package surface

import (
	"image"
	"log/slog"
	"math"
)

// DefaultOpacity is the opacity of a freshly bound overlay.
const DefaultOpacity = 1.0

// SurfaceLookup resolves a surface id to its tracked surface.
type SurfaceLookup interface {
	Lookup(id ID) (*TrackedSurface, bool)
}

// Binding maintains the single overlay and pushes its visual properties to
// the scene. Node handles are resolved through the registry on every call.
type Binding struct {
	scene    SceneGraph
	surfaces SurfaceLookup
	logger   *slog.Logger
	overlay  *Overlay
}

// NewBinding returns a binding with no overlay.
func NewBinding(scene SceneGraph, surfaces SurfaceLookup, logger *slog.Logger) *Binding {
	return &Binding{scene: scene, surfaces: surfaces, logger: logger}
}

// Bind attaches img to the surface id, replacing any existing overlay.
// Opacity and rotation start from their defaults.
func (b *Binding) Bind(id ID, img image.Image) {
	if b == nil {
		return
	}
	if b.overlay != nil {
		b.Unbind()
	}
	b.overlay = &Overlay{Surface: id, Image: img, Opacity: DefaultOpacity}
	if h, ok := b.node(); ok {
		b.scene.SetNodeTexture(h, img)
		b.scene.SetNodeOpacity(h, DefaultOpacity)
	}
	if b.logger != nil {
		b.logger.Info("overlay bound", "surface", string(id))
	}
}

// SetOpacity clamps value to [0,1] and applies it to the bound surface.
// NaN is ignored.
func (b *Binding) SetOpacity(value float64) {
	if b == nil || b.overlay == nil || math.IsNaN(value) {
		return
	}
	value = clampUnit(value)
	b.overlay.Opacity = value
	if h, ok := b.node(); ok {
		b.scene.SetNodeOpacity(h, value)
	}
}

// Rotate turns the bound surface one quarter turn about its own normal.
func (b *Binding) Rotate() {
	if b == nil || b.overlay == nil {
		return
	}
	b.overlay.Rotation = (b.overlay.Rotation + 1) % 4
	if h, ok := b.node(); ok {
		b.scene.RotateNode(h, QuarterTurn, PlaneNormal)
	}
	if b.logger != nil {
		b.logger.Debug("overlay rotated", "surface", string(b.overlay.Surface), "rotation", b.overlay.Rotation)
	}
}

// Unbind clears the texture and restores the node's default opacity and
// orientation, then drops the overlay.
func (b *Binding) Unbind() {
	if b == nil || b.overlay == nil {
		return
	}
	if h, ok := b.node(); ok {
		b.scene.SetNodeTexture(h, nil)
		b.scene.SetNodeOpacity(h, DefaultOpacity)
		if turns := b.overlay.Rotation; turns != 0 {
			b.scene.RotateNode(h, -float64(turns)*QuarterTurn, PlaneNormal)
		}
	}
	if b.logger != nil {
		b.logger.Debug("overlay unbound", "surface", string(b.overlay.Surface))
	}
	b.overlay = nil
}

// Bound reports whether an overlay exists.
func (b *Binding) Bound() bool { return b != nil && b.overlay != nil }

// Current returns a copy of the overlay.
func (b *Binding) Current() (Overlay, bool) {
	if b == nil || b.overlay == nil {
		return Overlay{}, false
	}
	return *b.overlay, true
}

func (b *Binding) node() (NodeHandle, bool) {
	if b.scene == nil || b.surfaces == nil || b.overlay == nil {
		return NoNode, false
	}
	s, ok := b.surfaces.Lookup(b.overlay.Surface)
	if !ok {
		return NoNode, false
	}
	return s.Node, true
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
