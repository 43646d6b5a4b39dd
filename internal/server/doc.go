// Package server implements the HTTP control surface using Echo framework.
//
// Routes: health/metrics (observability), API (status/settings), display
// (browser simulator page plus WebSocket frame stream).
// Handlers split by domain: handlers_health.go, handlers_api.go,
// handlers_display.go.
package server
