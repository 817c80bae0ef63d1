package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/soocke/surface-sketch-go/app"
	"github.com/soocke/surface-sketch-go/config"
)

func main() {
	cfgPath := flag.String("config", "", "config file (.yaml or .json); defaults to the XDG config dir")
	debugFlag := flag.Bool("debug", false, "enable debug logging and runtime stats")
	logFormat := flag.String("log-format", "", "log format: json or text")
	image := flag.String("image", "", "image to load at start (file path, builtin:guide or screen)")
	scenario := flag.String("scenario", "", "tracking scenario YAML file")
	broker := flag.String("mqtt-broker", "", "MQTT broker URL for session events")
	flag.Parse()

	// Base config from file, falling back to defaults
	path := *cfgPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			NewLogger(slog.LevelInfo, "json").Warn("config path", "error", err)
		}
		path = p
	}
	cfg := config.DefaultConfig()
	var loadErr error
	if path != "" {
		cfg, loadErr = config.Load(path)
	}

	// Flags override file values
	if *debugFlag {
		cfg.Debug = true
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *image != "" {
		cfg.Image = *image
	}
	if *scenario != "" {
		cfg.ScenarioPath = *scenario
	}
	if *broker != "" {
		cfg.MQTT.Broker = *broker
	}
	_ = cfg.Validate()

	// Set up logger
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level, cfg.LogFormat)
	if loadErr != nil {
		logger.Warn("config load failed, using defaults", "path", path, "error", loadErr)
	}

	application, err := app.NewApp("Surface Sketch", cfg, path, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	application.Start()
}
