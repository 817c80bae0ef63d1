package app

import (
	"context"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/soocke/surface-sketch-go/assets"
	"github.com/soocke/surface-sketch-go/config"
	"github.com/soocke/surface-sketch-go/debug"
	"github.com/soocke/surface-sketch-go/domain/notify"
	"github.com/soocke/surface-sketch-go/domain/scene"
	"github.com/soocke/surface-sketch-go/domain/surface"
	"github.com/soocke/surface-sketch-go/domain/texture"
	"github.com/soocke/surface-sketch-go/domain/tracking"
	"github.com/soocke/surface-sketch-go/ui/model"
	"github.com/soocke/surface-sketch-go/ui/presenter"
	"github.com/soocke/surface-sketch-go/ui/view"
)

const debugStatsInterval = 5 * time.Second

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config    *config.Config
	Logger    *slog.Logger
	Scene     *scene.Scene
	Tracker   tracking.Service
	Session   *surface.Session
	Loader    *texture.Loader
	MQTT      mqtt.Client
	Publisher *notify.Publisher

	Controls *model.ControlsModel
	Surfaces *model.SurfaceListModel
	Tracing  *model.TracingModel
	RootView *view.RootView
	UI       view.UI

	// Presenters
	ScenePresenter    *presenter.ScenePresenter
	StatePresenter    *presenter.StatePresenter
	ControlsPresenter *presenter.ControlsPresenter
	TracingPresenter  *presenter.TracingPresenter
	Loop              *presenter.Loop

	cancelDebug context.CancelFunc
}

// BuildContainer constructs all components. Side effects are limited to
// reading the scenario file and starting the MQTT connection.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) (*AppContainer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &AppContainer{Config: cfg, Logger: logger}

	sc := tracking.DefaultScenario()
	if cfg.ScenarioPath != "" {
		loaded, err := tracking.LoadScenario(cfg.ScenarioPath)
		if err != nil {
			return nil, errors.Wrap(err, "scenario")
		}
		sc = loaded
	}
	c.Tracker = tracking.NewTracker(sc, time.Duration(cfg.TrackerInterval)*time.Millisecond, logger)

	cam := scene.NewCamera(cfg.ViewportWidth, cfg.ViewportHeight, cfg.FieldOfViewDeg)
	c.Scene = scene.New(cam, logger)
	c.Session = surface.NewSession(logger, c.Scene, c.Scene, c.Tracker)

	loader, err := texture.NewLoader(texture.Options{MaxSide: cfg.TextureMaxSide, CacheSize: cfg.TextureCacheSize}, logger)
	if err != nil {
		return nil, err
	}
	loader.Register(texture.RefGuide, assets.GuideImage)
	loader.Register(texture.RefScreen, texture.CaptureScreen)
	c.Loader = loader

	c.MQTT = notify.Connect(cfg.MQTT, logger)
	c.Publisher = notify.NewPublisher(c.MQTT, notify.Options{
		Prefix: cfg.MQTT.TopicPrefix,
		QoS:    cfg.MQTT.QoS,
		Retain: cfg.MQTT.Retain,
	}, logger)

	c.Controls = &model.ControlsModel{}
	c.Surfaces = model.NewSurfaceListModel()
	c.Tracing = model.NewTracingModel()

	// View
	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	c.ScenePresenter = presenter.NewScenePresenter(c.Tracker, c.Session, c.Scene, c.UI, c.Surfaces, logger)
	c.StatePresenter = presenter.NewStatePresenter(c.UI)
	c.ControlsPresenter = presenter.NewControlsPresenter(c.Controls, c.Loader, c.Session, c.Tracker, c.Scene, c.UI, cfg.OpacityStep, logger)
	c.TracingPresenter = presenter.NewTracingPresenter(c.Tracing, c.Session, c.UI)
	c.wire()
	return c, nil
}

// wire connects session callbacks to presenters and the publisher.
func (c *AppContainer) wire() {
	c.Session.AddListener(c.ScenePresenter.OnSessionEvent)
	c.Session.AddListener(c.StatePresenter.OnSessionEvent)
	c.Session.AddListener(c.ControlsPresenter.OnSessionEvent)
	if c.Publisher.Enabled() {
		c.Session.AddListener(c.Publisher.Handle)
	}
	c.Session.OnSurfaceSelected(c.ControlsPresenter.OnSelected)
	c.ControlsPresenter.SetTapObserver(c.ScenePresenter.OnTap)
}

// Handlers maps view actions onto presenters. exit is invoked by the Exit button.
func (c *AppContainer) Handlers(exit func()) view.Handlers {
	return view.Handlers{
		LoadImage:   c.ControlsPresenter.LoadImage,
		Next:        c.ControlsPresenter.Next,
		Tap:         c.ControlsPresenter.Tap,
		TapSurface:  c.ControlsPresenter.TapSurface,
		OpacityUp:   c.ControlsPresenter.OpacityUp,
		OpacityDown: c.ControlsPresenter.OpacityDown,
		Restart:     c.restart,
		Exit:        exit,
	}
}

// restart clears the preview and loupe before the session reset re-renders
// an empty scene.
func (c *AppContainer) restart() {
	c.RootView.PreviewReset()
	c.ControlsPresenter.Restart()
}

// Start launches background services.
func (c *AppContainer) Start() {
	c.Tracker.Start()
	if c.Config.Debug {
		ctx, cancel := context.WithCancel(context.Background())
		c.cancelDebug = cancel
		debug.StartRuntimeLogger(ctx, debugStatsInterval, c.Logger, c.debugAttrs)
	}
}

func (c *AppContainer) debugAttrs() []any {
	ts := c.Tracker.Stats()
	published, failed := c.Publisher.Stats()
	renders, cost := c.ScenePresenter.Renders()
	return []any{
		slog.String("state", c.Session.State().String()),
		slog.Int("surfaces", c.Scene.Len()),
		slog.Uint64("tracker_steps", ts.Steps),
		slog.Uint64("tracker_coalesced", ts.Coalesced),
		slog.Int("texture_cache", c.Loader.CacheLen()),
		slog.Uint64("renders", renders),
		slog.Duration("render_cost", cost),
		slog.Uint64("mqtt_published", published),
		slog.Uint64("mqtt_failed", failed),
	}
}

// Close stops background services and disconnects from the broker.
func (c *AppContainer) Close() error {
	if c == nil {
		return nil
	}
	if c.cancelDebug != nil {
		c.cancelDebug()
	}
	var err error
	if c.Tracker != nil {
		c.Tracker.Stop()
	}
	err = multierr.Append(err, c.Publisher.Close())
	if c.Loader != nil {
		c.Loader.Purge()
	}
	return err
}
