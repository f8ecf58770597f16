package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitLines forces s to exactly width columns (ANSI-aware) per line. Lines are
// padded or cut with an ellipsis; height <= 0 keeps the natural line count.
func fitLines(s string, width, height int) []string {
	width = max(width, 0)
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w > width {
			ln = xansi.Truncate(ln, width, "…")
		}
		if w := xansi.StringWidth(ln); w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return lines
}

// canvas is a fixed-height stack of screen lines that rows are painted onto.
// Later paints win, so the dragged row is drawn last.
type canvas struct {
	width int
	lines []string
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, lines: make([]string, max(height, 0))}
	blank := strings.Repeat(" ", max(width, 0))
	for i := range c.lines {
		c.lines[i] = blank
	}
	return c
}

// paint writes block starting at line top. Lines outside the canvas are dropped.
func (c *canvas) paint(top int, block []string) {
	for i, ln := range block {
		y := top + i
		if y < 0 || y >= len(c.lines) {
			continue
		}
		c.lines[y] = ln
	}
}

// window returns height lines starting at from.
func (c *canvas) window(from, height int) string {
	from = min(max(from, 0), len(c.lines))
	to := min(from+max(height, 0), len(c.lines))
	return strings.Join(c.lines[from:to], "\n")
}
