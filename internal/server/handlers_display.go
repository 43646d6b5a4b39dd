package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/marquee-led/marquee/internal/stream"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local control surface, viewers may embed the page
	},
}

func (s *Server) handleDisplay(c echo.Context) error {
	data := map[string]any{
		"WSHost": c.Request().Host,
		"Width":  s.config.DisplayWidth,
		"Height": s.config.DisplayHeight,
	}
	return renderTemplate(c, s.displayTemplate, data)
}

func (s *Server) handleWebSocket(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade WebSocket: %w", err)
	}

	if err := s.hub.Register(conn); err != nil {
		if !errors.Is(err, stream.ErrHubFull) {
			s.logger.Warn("failed to register stream client", "error", err)
		}
		return nil
	}

	// Read pump — blocks until the connection closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.Unregister(conn)

	return nil
}

func renderTemplate(c echo.Context, tmpl *template.Template, data any) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}
	return c.HTML(200, buf.String())
}
