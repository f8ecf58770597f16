package tui

import (
	"dragsort-cli/internal/reorder"

	"github.com/charmbracelet/lipgloss"
)

// rowHeights records the rendered height of each row, in snapshot order, as of the
// last frame. It is the TUI's Measurer: a row is "mounted" once it has been drawn.
type rowHeights struct {
	heights []int
}

var _ reorder.Measurer = (*rowHeights)(nil)

func (r *rowHeights) reset(n int) {
	r.heights = make([]int, n)
}

func (r *rowHeights) record(index int, content string) {
	if index < 0 || index >= len(r.heights) {
		return
	}
	r.heights[index] = lipgloss.Height(content)
}

func (r *rowHeights) Measure(index int) (reorder.LayoutEntry, error) {
	if index < 0 || index >= len(r.heights) {
		return reorder.LayoutEntry{}, reorder.ErrNotMeasured
	}
	top := 0
	for i := 0; i < index; i++ {
		if r.heights[i] <= 0 {
			return reorder.LayoutEntry{}, reorder.ErrNotMeasured
		}
		top += r.heights[i]
	}
	if r.heights[index] <= 0 {
		return reorder.LayoutEntry{}, reorder.ErrNotMeasured
	}
	return reorder.LayoutEntry{Top: float64(top), Height: float64(r.heights[index])}, nil
}
