package reorder

// computeOffsets maps the dragged row's live center onto a sibling slot.
//
// target is the number of siblings whose static center lies strictly above the
// dragged center; an exact tie does not count, so ties resolve to the lower index.
// Siblings between the origin and target slide one itemHeight toward the origin.
// The dragged row's own entry is always zero.
func computeOffsets(layout []LayoutEntry, dragged int, startY, currentY, itemHeight float64) (offsets []float64, target int) {
	n := len(layout)
	offsets = make([]float64, n)
	if n <= 1 || dragged < 0 || dragged >= n {
		return offsets, dragged
	}

	d := layout[dragged]
	center := d.Top + (currentY - startY) + d.Height/2

	for i, le := range layout {
		if i == dragged {
			continue
		}
		if le.Center() < center {
			target++
		}
	}
	if target == dragged {
		return offsets, target
	}

	for j := range offsets {
		switch {
		case j == dragged:
		case dragged < target && j > dragged && j <= target:
			offsets[j] = -itemHeight
		case dragged > target && j >= target && j < dragged:
			offsets[j] = itemHeight
		}
	}
	return offsets, target
}
