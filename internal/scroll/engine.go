package scroll

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/marquee-led/marquee/internal/metrics"
	"github.com/marquee-led/marquee/internal/render"
	"github.com/marquee-led/marquee/internal/render/font"
	"github.com/marquee-led/marquee/internal/settings"
)

// Engine owns the current text, the horizontal pixel offset, and the
// per-frame advancement logic. It never fails: unrenderable glyphs fall back
// to the font's substitute glyph and geometry outside the surface is clipped
// by the surface itself.
//
// The offset lives in [-surfaceWidth, textWidth]: at -surfaceWidth the text
// sits just off the right edge, at textWidth it has fully left the screen.
// With looping enabled the offset cycles with period textWidth+surfaceWidth.
type Engine struct {
	settings *settings.Store
	clock    clockwork.Clock

	mu           sync.Mutex
	surfaceWidth int
	text         string
	textWidth    int
	offset       int
	lastAdvance  time.Time
	residual     time.Duration
	started      bool
}

// NewEngine creates an engine for surfaces of the given width. Speed, loop
// mode, and colors are re-read from the settings store on every advance.
func NewEngine(store *settings.Store, clock clockwork.Clock, surfaceWidth int) *Engine {
	return &Engine{
		settings:     store,
		clock:        clock,
		surfaceWidth: surfaceWidth,
	}
}

// SetText atomically replaces the scrolled text. The offset resets so the new
// text enters from the off-screen right edge; the fractional timing residual
// is discarded. Once text has been set the engine never returns to idle.
func (e *Engine) SetText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.text = text
	e.textWidth = font.TextWidth(text)
	e.offset = -e.surfaceWidth
	e.residual = 0
	e.lastAdvance = e.clock.Now()
	e.started = true
}

// Text returns the currently scrolled text.
func (e *Engine) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// Offset returns the current pixel offset.
func (e *Engine) Offset() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.offset
}

// Advance renders the current frame onto the surface and then consumes the
// elapsed time since the previous advance in whole scroll_speed units,
// preserving the fractional remainder so non-integer speeds do not drift.
func (e *Engine) Advance(surface render.Surface) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.draw(surface)

	if !e.started {
		return
	}

	now := e.clock.Now()
	e.residual += now.Sub(e.lastAdvance)
	e.lastAdvance = now

	speed := e.settings.ScrollSpeed()
	steps := int(e.residual / speed)
	if steps == 0 {
		return
	}
	e.residual -= time.Duration(steps) * speed

	e.offset += steps
	if e.settings.Loop() {
		period := e.textWidth + e.surfaceWidth
		for e.offset >= e.textWidth {
			e.offset -= period
			metrics.ScrollWraps.Inc()
		}
	} else if e.offset > e.textWidth {
		e.offset = e.textWidth
	}
}

func (e *Engine) draw(surface render.Surface) {
	bg := e.settings.BackgroundColor()
	fg := e.settings.TextColor()

	for y := 0; y < surface.Height(); y++ {
		for x := 0; x < surface.Width(); x++ {
			surface.SetPixel(x, y, bg)
		}
	}

	if e.text == "" {
		return
	}

	yTop := (surface.Height() - font.GlyphHeight) / 2
	i := 0
	for _, r := range e.text {
		glyph := font.Glyph(r)
		baseX := i*font.AdvanceWidth - e.offset
		i++

		// whole glyph off screen, skip the column loop
		if baseX+font.GlyphWidth < 0 || baseX >= surface.Width() {
			continue
		}

		for col := 0; col < font.GlyphWidth; col++ {
			bits := glyph[col]
			for row := 0; row < font.GlyphHeight; row++ {
				if bits&(1<<row) != 0 {
					surface.SetPixel(baseX+col, yTop+row, fg)
				}
			}
		}
	}
}
