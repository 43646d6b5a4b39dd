// Package settings holds the in-memory keyed configuration shared between the
// scheduler, the scroll engine, and the control server.
//
// Persistence is deliberately absent; the store's contract is the live get/set
// surface only. Every due-check and every frame re-reads through the typed
// getters, so a Set from the control API takes effect on the next tick.
package settings
