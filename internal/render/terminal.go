package render

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/marquee-led/marquee/internal/errors"
)

// Terminal renders the framebuffer as ANSI half-block characters, two matrix
// rows per text line. It is the development stand-in for a physical panel.
type Terminal struct {
	*Framebuffer
	out     io.Writer
	painted bool
}

// NewTerminal creates a terminal surface writing to out.
func NewTerminal(width, height int, out io.Writer) *Terminal {
	return &Terminal{
		Framebuffer: NewFramebuffer(width, height),
		out:         out,
	}
}

// Present repaints the whole matrix in place.
func (t *Terminal) Present() error {
	var b strings.Builder
	if !t.painted {
		b.WriteString("\x1b[2J")
		t.painted = true
	}
	b.WriteString("\x1b[H")

	for y := 0; y < t.Height(); y += 2 {
		for x := 0; x < t.Width(); x++ {
			top := t.Pixel(x, y)
			bottom := color.RGBA{}
			if y+1 < t.Height() {
				bottom = t.Pixel(x, y+1)
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top))).
				Background(lipgloss.Color(hexColor(bottom)))
			b.WriteString(style.Render("▀"))
		}
		b.WriteString("\n")
	}

	if _, err := io.WriteString(t.out, b.String()); err != nil {
		return apperrors.RenderError("terminal surface write failed", err)
	}
	return nil
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
