// Package render abstracts the pixel matrix the scroll engine draws onto.
//
// The Surface contract is the boundary between the orchestration core and the
// board/display layer: a physical matrix driver, the terminal simulator, and
// the in-memory framebuffer all satisfy it and are interchangeable without
// core changes.
package render
