package render

import "image/color"

// FramePublisher receives every presented frame, e.g. the websocket stream
// hub feeding browser simulators.
type FramePublisher interface {
	Publish(Frame)
}

// Broadcast tees pixel writes to an inner surface while keeping its own copy
// of the frame, publishing a snapshot on every Present. Wrapping any Surface
// in a Broadcast makes its output observable over the control server without
// the inner implementation knowing.
type Broadcast struct {
	inner Surface
	copy  *Framebuffer
	pub   FramePublisher
}

// NewBroadcast wraps inner so each presented frame is also published.
func NewBroadcast(inner Surface, pub FramePublisher) *Broadcast {
	return &Broadcast{
		inner: inner,
		copy:  NewFramebuffer(inner.Width(), inner.Height()),
		pub:   pub,
	}
}

func (b *Broadcast) Width() int  { return b.inner.Width() }
func (b *Broadcast) Height() int { return b.inner.Height() }

func (b *Broadcast) SetPixel(x, y int, c color.RGBA) {
	b.inner.SetPixel(x, y, c)
	b.copy.SetPixel(x, y, c)
}

// Present shows the frame on the inner surface first; a frame the hardware
// could not display is never streamed.
func (b *Broadcast) Present() error {
	if err := b.inner.Present(); err != nil {
		return err
	}
	b.pub.Publish(b.copy.Snapshot())
	return nil
}
