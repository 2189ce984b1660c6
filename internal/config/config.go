package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"github.com/inamate/board/engine-go/internal/engine"
)

type Config struct {
	RelayPort      int     `envconfig:"RELAY_PORT" default:"8080"`
	AllowedOrigins string  `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	LogLevel       string  `envconfig:"LOG_LEVEL" default:"info"`
	MaxLayers      int     `envconfig:"MAX_LAYERS" default:"100"`
	PressThreshold float64 `envconfig:"PRESS_THRESHOLD" default:"5"`
	MDNSAdvertise  bool    `envconfig:"MDNS_ADVERTISE" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.MaxLayers < 0 {
		return nil, fmt.Errorf("MAX_LAYERS must not be negative, got %d", cfg.MaxLayers)
	}
	if cfg.PressThreshold <= 0 {
		return nil, fmt.Errorf("PRESS_THRESHOLD must be positive, got %g", cfg.PressThreshold)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		o = strings.TrimPrefix(strings.TrimPrefix(o, "http://"), "https://")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// EngineOptions applies the configured limits to the engine defaults.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.MaxLayers = c.MaxLayers
	opts.PressThreshold = c.PressThreshold
	return opts
}
