package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	apperrors "github.com/marquee-led/marquee/internal/errors"
	"github.com/marquee-led/marquee/internal/settings"
)

// Display modes.
const (
	DisplayTerminal = "terminal"
	DisplayHeadless = "headless"
)

type Config struct {
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Data source: exactly one of MARQUEE_TEXT or MARQUEE_URL.
	Text     string `env:"MARQUEE_TEXT"`
	URL      string `env:"MARQUEE_URL"`
	Parser   string `env:"MARQUEE_PARSER" default:"text"`
	JSONPath string `env:"MARQUEE_JSON_PATH"`

	DisplayMode   string `env:"DISPLAY_MODE" default:"terminal"`
	DisplayWidth  int    `env:"DISPLAY_WIDTH" default:"64"`
	DisplayHeight int    `env:"DISPLAY_HEIGHT" default:"32"`

	TickInterval time.Duration `env:"TICK_INTERVAL" default:"50ms"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" default:"10s"`

	// Initial settings; mutable afterwards through the control API.
	UpdateInterval  float64 `env:"UPDATE_INTERVAL" default:"300"`
	ScrollSpeed     float64 `env:"SCROLL_SPEED" default:"0.05"`
	Loop            bool    `env:"LOOP" default:"true"`
	Placeholder     string  `env:"PLACEHOLDER" default:"..."`
	TextColor       string  `env:"TEXT_COLOR" default:"#FFB000"`
	BackgroundColor string  `env:"BACKGROUND_COLOR" default:"#000000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Text == "" && cfg.URL == "" {
		return apperrors.ConfigError("one of MARQUEE_TEXT or MARQUEE_URL is required")
	}
	if cfg.Text != "" && cfg.URL != "" {
		return apperrors.ConfigError("MARQUEE_TEXT and MARQUEE_URL are mutually exclusive")
	}
	if cfg.DisplayMode != DisplayTerminal && cfg.DisplayMode != DisplayHeadless {
		return apperrors.ConfigError("DISPLAY_MODE must be terminal or headless").
			WithContext("display_mode", cfg.DisplayMode)
	}
	if cfg.DisplayWidth <= 0 || cfg.DisplayHeight <= 0 {
		return apperrors.ConfigError("DISPLAY_WIDTH and DISPLAY_HEIGHT must be positive")
	}
	if cfg.TickInterval <= 0 {
		return apperrors.ConfigError("TICK_INTERVAL must be positive")
	}
	if cfg.FetchTimeout <= 0 {
		return apperrors.ConfigError("FETCH_TIMEOUT must be positive")
	}
	if cfg.UpdateInterval <= 0 {
		return apperrors.ConfigError("UPDATE_INTERVAL must be positive")
	}
	if cfg.ScrollSpeed <= 0 {
		return apperrors.ConfigError("SCROLL_SPEED must be positive")
	}
	if _, err := settings.ParseColor(cfg.TextColor); err != nil {
		return apperrors.ConfigError("TEXT_COLOR must be #RRGGBB").
			WithContext("text_color", cfg.TextColor)
	}
	if _, err := settings.ParseColor(cfg.BackgroundColor); err != nil {
		return apperrors.ConfigError("BACKGROUND_COLOR must be #RRGGBB").
			WithContext("background_color", cfg.BackgroundColor)
	}
	return nil
}

// InitialSettings seeds the runtime settings store from the environment.
func (c *Config) InitialSettings() map[string]any {
	return map[string]any{
		settings.KeyUpdateInterval:  c.UpdateInterval,
		settings.KeyScrollSpeed:     c.ScrollSpeed,
		settings.KeyLoop:            c.Loop,
		settings.KeyPlaceholder:     c.Placeholder,
		settings.KeyTextColor:       c.TextColor,
		settings.KeyBackgroundColor: c.BackgroundColor,
	}
}
