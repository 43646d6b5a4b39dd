package render

import "image/color"

// Framebuffer is the in-memory Surface implementation. It backs the terminal
// simulator and the broadcast tee, and doubles as the test surface; Present
// is a no-op.
type Framebuffer struct {
	width  int
	height int
	pixels []color.RGBA
}

// NewFramebuffer creates a framebuffer of the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		width:  width,
		height: height,
		pixels: make([]color.RGBA, width*height),
	}
}

func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

// SetPixel writes one pixel. Out-of-bounds coordinates are ignored.
func (f *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return
	}
	f.pixels[y*f.width+x] = c
}

// Pixel returns the pixel at (x, y), or zero for out-of-bounds coordinates.
func (f *Framebuffer) Pixel(x, y int) color.RGBA {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return color.RGBA{}
	}
	return f.pixels[y*f.width+x]
}

// Fill sets every pixel to c.
func (f *Framebuffer) Fill(c color.RGBA) {
	for i := range f.pixels {
		f.pixels[i] = c
	}
}

func (f *Framebuffer) Present() error { return nil }

// Snapshot copies the current frame into the wire representation.
func (f *Framebuffer) Snapshot() Frame {
	px := make([]uint32, len(f.pixels))
	for i, c := range f.pixels {
		px[i] = uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	}
	return Frame{Width: f.width, Height: f.height, Pixels: px}
}
