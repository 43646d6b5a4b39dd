// Package stream fans rendered display frames out to WebSocket viewers, such
// as the browser simulator page.
package stream
