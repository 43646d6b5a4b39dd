// Package scroll advances text horizontally across a render surface at a
// configurable pixel rate.
package scroll
