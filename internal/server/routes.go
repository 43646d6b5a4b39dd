package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes() {
	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.GET("/version", s.handleVersion)

	// Root - redirect to the display simulator
	s.echo.GET("/", func(c echo.Context) error {
		return c.Redirect(302, "/display")
	})

	// Control API (settings writes are rate limited)
	s.echo.GET("/api/status", s.handleStatus)
	s.echo.GET("/api/settings", s.handleGetSettings)
	s.echo.PUT("/api/settings", s.handlePutSettings, newRateLimiter(5, 10))

	// Display simulator and frame stream
	s.echo.GET("/display", s.handleDisplay)
	s.echo.GET("/ws/display", s.handleWebSocket)
}
