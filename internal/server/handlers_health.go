package server

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/marquee-led/marquee/internal/version"
)

func (s *Server) handleLiveness(c echo.Context) error {
	uptime := time.Since(s.startTime).Seconds()
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": uptime,
	})
}

// handleReadiness reports ready once the main loop has completed at least one
// fetch attempt, successful or not. The display keeps running through fetch
// failures, so a failing source does not make the process unready.
func (s *Server) handleReadiness(c echo.Context) error {
	st := s.sched.Snapshot()
	if st.LastFetchStatus == "" {
		return c.JSON(503, map[string]any{
			"status": "starting",
		})
	}
	return c.JSON(200, map[string]string{"status": "ready"})
}

func (s *Server) handleVersion(c echo.Context) error {
	return c.JSON(200, version.Get())
}
