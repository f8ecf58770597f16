package reorder

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"
)

type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// CancelPolicy decides what a gesture cancel does with the displacement built up so far.
type CancelPolicy string

const (
	// CancelCommits treats cancel exactly like a release.
	CancelCommits CancelPolicy = "commit"
	// CancelAborts drops the drag and restores the pre-drag order.
	CancelAborts CancelPolicy = "abort"
)

func ParseCancelPolicy(s string) (CancelPolicy, error) {
	switch CancelPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", CancelCommits:
		return CancelCommits, nil
	case CancelAborts:
		return CancelAborts, nil
	default:
		return "", fmt.Errorf("unknown cancel policy: %q (expected commit|abort)", s)
	}
}

// Coord is a vertical gesture coordinate. The zero value carries no coordinate
// (e.g. keyboard activation).
type Coord struct {
	Y     float64
	Valid bool
}

func At(y float64) Coord { return Coord{Y: y, Valid: true} }

var NoCoord = Coord{}

type dragSession struct {
	index    int
	itemID   string
	startY   float64
	currentY float64
	// target is the slot resolved by the last move.
	target int
}

func (e *Engine[T]) State() State {
	if e.session == nil {
		return Idle
	}
	return Dragging
}

// DraggedIndex reports the index being dragged, or -1 while idle.
func (e *Engine[T]) DraggedIndex() int {
	if e.session == nil {
		return -1
	}
	return e.session.index
}

// DraggedKey reports the key of the item being dragged.
func (e *Engine[T]) DraggedKey() (string, bool) {
	if e.session == nil {
		return "", false
	}
	return e.session.itemID, true
}

// Target reports the slot the dragged item currently overlaps.
func (e *Engine[T]) Target() (int, bool) {
	if e.session == nil {
		return -1, false
	}
	return e.session.target, true
}

// Start opens a drag on the item at index. A second Start while dragging is
// rejected with ErrDragInProgress and leaves the current session untouched.
func (e *Engine[T]) Start(index int, at Coord) error {
	if e.session != nil {
		e.log.Debug("start ignored: drag in progress",
			zap.Int("index", index),
			zap.Int("dragging", e.session.index))
		return ErrDragInProgress
	}
	if index < 0 || index >= len(e.items) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, index, len(e.items))
	}

	e.buzz("start")

	layout := e.layout.capture(len(e.items))
	y := at.Y
	if !at.Valid || !finite(at.Y) {
		y = layout[index].Center()
	}

	e.session = &dragSession{
		index:    index,
		itemID:   e.opts.Key(e.items[index]),
		startY:   y,
		currentY: y,
		target:   index,
	}
	e.offsets = make([]float64, len(e.items))

	e.log.Debug("drag started",
		zap.String("item", e.session.itemID),
		zap.Int("index", index),
		zap.Float64("y", y),
		zap.Bool("hasCoord", at.Valid && finite(at.Y)))
	return nil
}

// Move feeds the live coordinate of the active drag. It is a no-op while idle.
func (e *Engine[T]) Move(y float64) {
	s := e.session
	if s == nil {
		return
	}
	if !finite(y) {
		e.log.Debug("move ignored: non-finite coordinate",
			zap.String("item", s.itemID),
			zap.Float64("y", y))
		return
	}
	s.currentY = y

	prevTarget := resolveTarget(e.offsets, s.index)
	offsets, target := computeOffsets(e.layout.entries, s.index, s.startY, y, e.opts.ItemHeight)
	e.offsets = offsets
	s.target = target

	if target != prevTarget {
		e.log.Debug("drag target changed",
			zap.String("item", s.itemID),
			zap.Int("from", prevTarget),
			zap.Int("to", target))
		e.buzz("target")
	}
}

// End finishes the active drag and commits whatever order the displacement implies.
// Changed is false (and nothing is committed) while idle.
func (e *Engine[T]) End() CommitResult[T] {
	if e.session == nil {
		return CommitResult[T]{From: -1, To: -1}
	}
	return e.commit()
}

// Click doubles as an explicit "drop here" while dragging.
func (e *Engine[T]) Click() CommitResult[T] { return e.End() }

// Cancel ends the drag according to the configured CancelPolicy.
func (e *Engine[T]) Cancel() CommitResult[T] {
	s := e.session
	if s == nil {
		return CommitResult[T]{From: -1, To: -1}
	}
	if e.opts.CancelPolicy != CancelAborts {
		return e.commit()
	}

	e.session = nil
	e.offsets = make([]float64, len(e.items))
	e.log.Debug("drag aborted", zap.String("item", s.itemID), zap.Int("index", s.index))
	return CommitResult[T]{
		Order: append([]T(nil), e.items...),
		From:  s.index,
		To:    s.index,
	}
}

func finite(y float64) bool {
	return !math.IsNaN(y) && !math.IsInf(y, 0)
}
