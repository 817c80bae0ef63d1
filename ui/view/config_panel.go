package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/surface-sketch-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the settings form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
// Saved values take effect on the next launch.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by internal field id
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget)}
}

func (v *configPanel) Build(startRow int) (row int) {
	c := v.cfg
	row = startRow
	makeRow := func(id, label, value string) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(24))
		Grid(w, Row(row), Column(1), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		v.widgets[id] = w
		row++
	}
	makeRow("image", "Default Image", c.Image)
	makeRow("scenarioPath", "Scenario File", c.ScenarioPath)
	makeRow("opacityStep", "Opacity Step (0-1)", fmt.Sprintf("%.2f", c.OpacityStep))
	makeRow("fieldOfViewDeg", "Field Of View Deg", fmt.Sprintf("%.1f", c.FieldOfViewDeg))
	makeRow("trackerInterval", "Tracker Interval ms", fmt.Sprintf("%d", c.TrackerInterval))
	makeRow("tickMS", "UI Tick ms", fmt.Sprintf("%d", c.TickMS))
	makeRow("textureMaxSide", "Texture Max Side px", fmt.Sprintf("%d", c.TextureMaxSide))
	makeRow("mqttBroker", "MQTT Broker", c.MQTT.Broker)
	makeRow("mqttRetain", "MQTT Retain (true/false)", fmt.Sprintf("%t", c.MQTT.Retain))
	v.applyBtn = Button(Txt("Save Settings"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(id string) (string, bool) {
	w := v.widgets[id]
	if w == nil {
		return "", false
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), "")), true
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	cfg := *v.cfg // copy
	applyForm(&cfg, v.text)
	if verr := cfg.Validate(); verr != nil {
		return
	}
	*v.cfg = cfg
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else {
		if v.logger != nil {
			v.logger.Info("config saved", "path", v.cfgPath)
		}
	}
}

// applyForm copies parsable form values into cfg. Fields that are missing
// or fail to parse keep their current value.
func applyForm(cfg *config.Config, field func(id string) (string, bool)) {
	assignString := func(id string, dst *string) {
		if s, ok := field(id); ok {
			*dst = s
		}
	}
	assignFloat := func(id string, dst *float64) {
		if s, ok := field(id); ok {
			if f, ok := parseFloatField(s); ok {
				*dst = f
			}
		}
	}
	assignInt := func(id string, dst *int) {
		if s, ok := field(id); ok {
			if i, ok := parseIntField(s); ok {
				*dst = i
			}
		}
	}
	assignBool := func(id string, dst *bool) {
		if s, ok := field(id); ok {
			if b, ok := parseBoolLoose(s); ok {
				*dst = b
			}
		}
	}
	assignString("image", &cfg.Image)
	assignString("scenarioPath", &cfg.ScenarioPath)
	assignFloat("opacityStep", &cfg.OpacityStep)
	assignFloat("fieldOfViewDeg", &cfg.FieldOfViewDeg)
	assignInt("trackerInterval", &cfg.TrackerInterval)
	assignInt("tickMS", &cfg.TickMS)
	assignInt("textureMaxSide", &cfg.TextureMaxSide)
	assignString("mqttBroker", &cfg.MQTT.Broker)
	assignBool("mqttRetain", &cfg.MQTT.Retain)
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
