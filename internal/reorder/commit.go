package reorder

import (
	"go.uber.org/zap"
)

// CommitResult describes how a finished drag changed the order.
type CommitResult[T any] struct {
	Order   []T
	Changed bool
	From    int
	To      int
	// Settle is the layout capture scheduled by the commit.
	Settle Settle
}

// resolveTarget reads the slot implied by an offset vector: the displaced sibling
// farthest from dragged that slid toward it. Without any displacement the item
// stays where it is.
func resolveTarget(offsets []float64, dragged int) int {
	target := dragged
	for j := dragged + 1; j < len(offsets); j++ {
		if offsets[j] < 0 {
			target = j
		}
	}
	if target != dragged {
		return target
	}
	for j := dragged - 1; j >= 0; j-- {
		if offsets[j] > 0 {
			target = j
		}
	}
	return target
}

// moveItem returns a copy of items with the element at from reinserted at to.
func moveItem[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	moved := items[from]
	for i, it := range items {
		if i == from {
			continue
		}
		out = append(out, it)
	}
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out
}

func (e *Engine[T]) commit() CommitResult[T] {
	s := e.session
	from := s.index
	to := resolveTarget(e.offsets, from)

	changed := to != from
	var order []T
	if changed {
		order = moveItem(e.items, from, to)
	} else {
		order = append([]T(nil), e.items...)
	}

	e.offsets = make([]float64, len(order))
	e.dragCount++
	e.session = nil

	if changed && e.opts.OnReorder != nil {
		e.opts.OnReorder(append([]T(nil), order...))
	}
	e.items = order

	e.log.Debug("drag committed",
		zap.String("item", s.itemID),
		zap.Int("from", from),
		zap.Int("to", to),
		zap.Bool("changed", changed),
		zap.Uint64("dragCount", e.dragCount))

	return CommitResult[T]{
		Order:   append([]T(nil), order...),
		Changed: changed,
		From:    from,
		To:      to,
		Settle:  e.schedule(),
	}
}
