package view

import (
	"image"
	"log/slog"
	"time"

	"github.com/soocke/surface-sketch-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Tracing     TracingStats
	Controls    ControlsPanel
	ConfigPanel ConfigPanel
	Preview     ScenePreview

	// Widgets
	StateLabel  *LabelWidget
	PromptLabel *LabelWidget
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStateLabel(text string)
	SetPrompt(text string)
	SetConfigEditable(enabled bool)
	UpdatePreview(img image.Image)
	UpdateLoupe(img image.Image)
	SetSurfaces(ids []string)
	SetStatus(text string)
	SetNextEnabled(enabled bool)
	SetOpacityControlsVisible(visible bool)
	SetOpacityLabel(text string)
	SetTracing(current, total time.Duration)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout. Handlers are invoked on user actions.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: tracing stats and state label
	header := Frame()
	Grid(header, Row(0), Column(0), Columnspan(4), Sticky("we"), Padx("0.3m"), Pady("0.3m"))
	rv.Tracing = NewTracingStats(header, 0, 0)
	rv.StateLabel = Label(Txt("State: <none>"), Borderwidth(1), Relief("ridge"))
	Grid(rv.StateLabel, In(header), Row(0), Column(2), Sticky("we"), Padx("0.4m"))

	// Row 1: prompt
	rv.PromptLabel = Label(Txt(""), Anchor("w"))
	Grid(rv.PromptLabel, Row(1), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	// Row 2: scene preview and loupe
	w, h2 := 640, 480
	if rv.cfg != nil {
		w, h2 = rv.cfg.ViewportWidth, rv.cfg.ViewportHeight
	}
	rv.Preview = NewScenePreview(2, w, h2)

	// Controls then settings
	rv.Controls = NewControlsPanel(rv.logger)
	row := rv.Controls.Build(3, h)
	if rv.cfg != nil {
		rv.Controls.SetImageRef(rv.cfg.Image)
		rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
		rv.ConfigPanel.Build(row)
	}
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetPrompt updates the instruction line.
func (rv *RootView) SetPrompt(text string) {
	if rv != nil && rv.PromptLabel != nil {
		rv.PromptLabel.Configure(Txt(text))
	}
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// UpdatePreview proxies to the scene preview.
func (rv *RootView) UpdatePreview(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdatePreview(img)
	}
}

// UpdateLoupe proxies to the scene preview.
func (rv *RootView) UpdateLoupe(img image.Image) {
	if rv != nil && rv.Preview != nil {
		rv.Preview.UpdateLoupe(img)
	}
}

// PreviewReset clears the preview and loupe.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.Preview != nil {
		rv.Preview.Reset()
	}
}

// --- ControlsPresenter view contract methods ---

func (rv *RootView) SetSurfaces(ids []string) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetSurfaces(ids)
	}
}

func (rv *RootView) SetStatus(text string) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetStatus(text)
	}
}

func (rv *RootView) SetNextEnabled(enabled bool) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetNextEnabled(enabled)
	}
}

func (rv *RootView) SetOpacityControlsVisible(visible bool) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetOpacityControlsVisible(visible)
	}
}

func (rv *RootView) SetOpacityLabel(text string) {
	if rv != nil && rv.Controls != nil {
		rv.Controls.SetOpacityLabel(text)
	}
}

// SetTracing updates both current and total tracing durations.
func (rv *RootView) SetTracing(current, total time.Duration) {
	if rv == nil || rv.Tracing == nil {
		return
	}
	rv.Tracing.SetCurrent(current)
	rv.Tracing.SetTotal(total)
}
