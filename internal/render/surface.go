package render

import "image/color"

// Surface is the addressable pixel grid frames are drawn onto. Hardware
// drivers, the terminal simulator, and the in-memory framebuffer are
// interchangeable implementations.
//
// SetPixel with out-of-bounds coordinates is a no-op, never a fault; text and
// style geometry routinely exceed the physical matrix. Present is the only
// operation with side effects outside the in-memory frame and must stay cheap
// enough to call at the tick cadence. A Present error means the surface is
// gone, which is fatal upstream.
type Surface interface {
	Width() int
	Height() int
	SetPixel(x, y int, c color.RGBA)
	Present() error
}

// Frame is a presented snapshot of a surface, encoded as packed 0xRRGGBB
// pixel values in row-major order.
type Frame struct {
	Width  int      `json:"w"`
	Height int      `json:"h"`
	Pixels []uint32 `json:"px"`
}
