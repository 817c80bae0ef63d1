package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppName names the per-user config directory.
const AppName = "surface-sketch"

// MQTT configures optional session event publishing. An empty Broker
// disables it.
type MQTT struct {
	Broker      string `json:"broker" yaml:"broker"`
	ClientID    string `json:"client_id" yaml:"client_id"`
	Username    string `json:"username" yaml:"username"`
	Password    string `json:"password" yaml:"password"`
	TopicPrefix string `json:"topic_prefix" yaml:"topic_prefix"`
	QoS         byte   `json:"qos" yaml:"qos"`
	Retain      bool   `json:"retain" yaml:"retain"`
}

// Config holds runtime configuration for the simulator and app behavior.
// Fields may be loaded from a JSON or YAML file and overridden by
// command-line flags.
type Config struct {
	Debug     bool   `json:"debug" yaml:"debug"`
	LogFormat string `json:"log_format" yaml:"log_format"` // json or text

	// Viewport and camera
	ViewportWidth   int     `json:"viewport_width" yaml:"viewport_width"`
	ViewportHeight  int     `json:"viewport_height" yaml:"viewport_height"`
	FieldOfViewDeg  float64 `json:"field_of_view_deg" yaml:"field_of_view_deg"`
	TickMS          int     `json:"tick_ms" yaml:"tick_ms"`
	TrackerInterval int     `json:"tracker_interval_ms" yaml:"tracker_interval_ms"`
	ScenarioPath    string  `json:"scenario_path" yaml:"scenario_path"`

	// Overlay image
	Image            string  `json:"image" yaml:"image"`
	TextureMaxSide   int     `json:"texture_max_side" yaml:"texture_max_side"`
	TextureCacheSize int     `json:"texture_cache_size" yaml:"texture_cache_size"`
	OpacityStep      float64 `json:"opacity_step" yaml:"opacity_step"`

	MQTT MQTT `json:"mqtt" yaml:"mqtt"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		LogFormat:        "json",
		ViewportWidth:    640,
		ViewportHeight:   480,
		FieldOfViewDeg:   60,
		TickMS:           50,
		TrackerInterval:  100,
		TextureMaxSide:   1024,
		TextureCacheSize: 8,
		OpacityStep:      0.05,
		MQTT: MQTT{
			ClientID:    AppName,
			TopicPrefix: AppName,
			Retain:      true,
		},
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
		c.LogFormat = strings.ToLower(c.LogFormat)
	default:
		c.LogFormat = "json"
	}
	if c.ViewportWidth < 160 {
		c.ViewportWidth = 640
	}
	if c.ViewportHeight < 120 {
		c.ViewportHeight = 480
	}
	if c.FieldOfViewDeg <= 10 || c.FieldOfViewDeg >= 170 {
		c.FieldOfViewDeg = 60
	}
	if c.TickMS <= 0 {
		c.TickMS = 50
	}
	if c.TrackerInterval <= 0 {
		c.TrackerInterval = 100
	}
	if c.TextureMaxSide < 0 {
		c.TextureMaxSide = 1024
	}
	if c.TextureCacheSize <= 0 {
		c.TextureCacheSize = 8
	}
	if c.OpacityStep <= 0 || c.OpacityStep > 1 {
		c.OpacityStep = 0.05
	}
	if c.MQTT.QoS > 2 {
		c.MQTT.QoS = 0
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = AppName
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = AppName
	}
	return nil
}

// DefaultPath returns the config file location under the user's XDG config
// directory, creating the directory if needed.
func DefaultPath() (string, error) {
	p, err := xdg.ConfigFile(filepath.Join(AppName, "config.yaml"))
	if err != nil {
		return "", errors.Wrap(err, "resolve config path")
	}
	return p, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from path. The format follows the
// extension (.yaml/.yml or JSON otherwise). If the file does not exist it
// returns DefaultConfig(). On decode error it returns defaults with the
// error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(cfg)
	} else {
		err = json.NewDecoder(f).Decode(cfg)
	}
	if err != nil {
		return DefaultConfig(), errors.Wrapf(err, "decode config %s", path)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to path in the format its extension names.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create config %s", path)
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return errors.Wrap(err, "encode config")
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
