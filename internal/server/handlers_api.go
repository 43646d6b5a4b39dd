package server

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/marquee-led/marquee/internal/errors"
	"github.com/marquee-led/marquee/internal/settings"
)

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(200, s.sched.Snapshot())
}

func (s *Server) handleGetSettings(c echo.Context) error {
	return c.JSON(200, s.store.Snapshot())
}

// handlePutSettings applies a partial settings update. Interpreted keys are
// validated before anything is written, so an invalid request changes nothing.
// Unknown keys pass through for the render layer.
func (s *Server) handlePutSettings(c echo.Context) error {
	var updates map[string]any
	if err := c.Bind(&updates); err != nil {
		return apperrors.ValidationError("request body must be a JSON object")
	}
	if len(updates) == 0 {
		return apperrors.ValidationError("no settings provided")
	}

	for key, value := range updates {
		if err := validateSetting(key, value); err != nil {
			return err
		}
	}
	for key, value := range updates {
		s.store.Set(key, value)
	}

	s.logger.Info("settings updated", "keys", keysOf(updates))
	return c.JSON(200, s.store.Snapshot())
}

func validateSetting(key string, value any) error {
	switch key {
	case settings.KeyUpdateInterval, settings.KeyScrollSpeed:
		f, ok := value.(float64)
		if !ok || f <= 0 {
			return apperrors.ValidationError("value must be a positive number").
				WithContext("key", key)
		}
	case settings.KeyTextColor, settings.KeyBackgroundColor:
		str, ok := value.(string)
		if !ok {
			return apperrors.ValidationError("value must be a #RRGGBB string").
				WithContext("key", key)
		}
		if _, err := settings.ParseColor(str); err != nil {
			return apperrors.ValidationError("value must be a #RRGGBB string").
				WithContext("key", key)
		}
	case settings.KeyLoop:
		if _, ok := value.(bool); !ok {
			return apperrors.ValidationError("value must be a boolean").
				WithContext("key", key)
		}
	case settings.KeyPlaceholder:
		if _, ok := value.(string); !ok {
			return apperrors.ValidationError("value must be a string").
				WithContext("key", key)
		}
	}
	return nil
}

func keysOf(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
