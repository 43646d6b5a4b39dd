// Package scheduler drives the main loop: it polls the data source when the
// update interval (or the retry backoff after failures) allows, pushes new
// text into the scroll engine, and renders a frame on every tick.
package scheduler
