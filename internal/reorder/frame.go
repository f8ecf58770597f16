package reorder

import (
	"fmt"
	"time"
)

// HandleProps are the bindings a rendered row attaches to its drag trigger region.
type HandleProps struct {
	// ClassName is the configured handle class; RegionID is unique per row (class-key).
	ClassName string
	RegionID  string

	OnStart func(at Coord) error
	OnClick func()
}

// Row is the render description of one snapshot entry.
type Row[T any] struct {
	Item     T
	Key      string
	Index    int
	Dragging bool
	// Offset is the visual displacement: currentY-startY for the dragged row,
	// the sibling slide otherwise.
	Offset float64
	// Transition is how long displaced rows should take to reach Offset.
	Transition time.Duration
	Layout     LayoutEntry
	Content    string
}

// Frame renders every row in snapshot order.
func (e *Engine[T]) Frame() []Row[T] {
	rows := make([]Row[T], len(e.items))
	dragging := e.session != nil
	for i, it := range e.items {
		key := e.opts.Key(it)
		r := Row[T]{
			Item:   it,
			Key:    key,
			Index:  i,
			Layout: e.layout.entry(i),
		}
		switch {
		case dragging && i == e.session.index:
			r.Dragging = true
			r.Offset = e.session.currentY - e.session.startY
		case dragging:
			r.Offset = e.offsets[i]
			r.Transition = e.opts.AnimationDuration
		}
		if e.opts.RenderItem != nil {
			r.Content = e.opts.RenderItem(it, i, r.Dragging, e.handleProps(key))
		}
		rows[i] = r
	}
	return rows
}

// handleProps binds by key so a stale binding never starts a drag on whatever
// item has since moved into its old index.
func (e *Engine[T]) handleProps(key string) HandleProps {
	return HandleProps{
		ClassName: e.opts.DragHandleClassName,
		RegionID:  e.HandleRegionID(key),
		OnStart: func(at Coord) error {
			i := e.IndexOf(key)
			if i < 0 {
				return fmt.Errorf("%w: no item %q", ErrIndexOutOfRange, key)
			}
			return e.Start(i, at)
		},
		OnClick: func() { e.Click() },
	}
}

// IndexOf returns the snapshot index of key, or -1.
func (e *Engine[T]) IndexOf(key string) int {
	for i, it := range e.items {
		if e.opts.Key(it) == key {
			return i
		}
	}
	return -1
}

// HandleRegionID is the region id Frame hands to the row rendered for key.
func (e *Engine[T]) HandleRegionID(key string) string {
	return e.opts.DragHandleClassName + "-" + key
}
