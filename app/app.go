package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/surface-sketch-go/config"
	"github.com/soocke/surface-sketch-go/ui/presenter"
	"github.com/soocke/surface-sketch-go/ui/theme"
)

type app struct {
	container *AppContainer
	logger    *slog.Logger
	tick      time.Duration
	afterID   string
	closed    bool
}

// NewApp builds the container and sizes the main window to fit the preview
// and the control rows.
func NewApp(title string, cfg *config.Config, cfgPath string, logger *slog.Logger) (*app, error) {
	c, err := BuildContainer(cfg, logger, cfgPath)
	if err != nil {
		return nil, err
	}
	a := &app{container: c, logger: logger, tick: time.Duration(c.Config.TickMS) * time.Millisecond}

	App.WmTitle(title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	width := c.Config.ViewportWidth + 200
	height := c.Config.ViewportHeight + 420
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", width, height))
	return a, nil
}

// Start builds the UI, starts background services and blocks in the Tk loop.
func (a *app) Start() {
	theme.InitStyles()
	c := a.container
	c.RootView.Build(c.Handlers(a.exitHandler))
	c.Loop = presenter.NewLoop(c.ScenePresenter, c.StatePresenter, c.TracingPresenter, a.scheduleUpdate)
	c.Start()
	if c.Config.Image != "" {
		c.ControlsPresenter.LoadImage(c.Config.Image)
	}
	if a.logger != nil {
		a.logger.Info("app started", "viewport", fmt.Sprintf("%dx%d", c.Config.ViewportWidth, c.Config.ViewportHeight), "mqtt", c.Publisher.Enabled())
	}
	a.scheduleUpdate()
	App.Wait()
}

func (a *app) exitHandler() {
	if a.closed {
		return
	}
	a.closed = true
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if err := a.container.Close(); err != nil && a.logger != nil {
		a.logger.Error("shutdown", "error", err)
	}
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = TclAfter(a.tick, func() {
		defer a.recoverTick()
		a.container.Loop.Tick()
	})
}

// recoverTick keeps the Tk loop alive if a presenter panics.
func (a *app) recoverTick() {
	if r := recover(); r != nil {
		if a.logger != nil {
			a.logger.Error("ui tick panic", "panic", r)
		}
		a.scheduleUpdate()
	}
}
