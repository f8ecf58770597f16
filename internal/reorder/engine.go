// Package reorder implements drag-to-reorder for a vertically stacked list.
//
// An Engine owns a working copy of the caller's items (the snapshot), a cached
// layout of every row, and at most one drag session. Hosts feed it gestures
// (Start/Move/End/Cancel/Click) from a single event loop and render the rows it
// describes in Frame. The committed order is only ever pushed back through
// Options.OnReorder.
package reorder

import (
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultItemHeight          = 60
	DefaultAnimationDuration   = 150 * time.Millisecond
	DefaultSettleDelay         = 100 * time.Millisecond
	DefaultDragHandleClassName = "drag-handle"
)

var (
	ErrDragInProgress  = errors.New("reorder: drag already in progress")
	ErrIndexOutOfRange = errors.New("reorder: index out of range")
)

// RenderFunc renders one row. handle carries the bindings the row should attach to
// whatever region acts as its drag trigger.
type RenderFunc[T any] func(item T, index int, dragging bool, handle HandleProps) string

// Options configures an Engine. Key is required; everything else has a usable zero value.
type Options[T any] struct {
	Data []T
	// Key returns the stable identity of an item. Positions change while reordering; keys must not.
	Key func(T) string

	RenderItem RenderFunc[T]
	OnReorder  func(newOrder []T)

	// ItemHeight is the assumed row height when a row cannot be measured, and the
	// distance displaced siblings slide.
	ItemHeight          float64
	DragHandleClassName string
	AnimationDuration   time.Duration
	VibrateOnChange     bool
	CancelPolicy        CancelPolicy
	SettleDelay         time.Duration

	Haptics  Haptics
	Measurer Measurer
	Logger   *zap.Logger
}

// Settle identifies a deferred layout capture. Hosts call Engine.Settle(Gen) once After
// has elapsed; tokens from older generations are ignored.
type Settle struct {
	Gen   uint64
	After time.Duration
}

type Engine[T any] struct {
	opts Options[T]
	log  *zap.Logger

	items   []T
	offsets []float64
	layout  layoutTracker

	// session is nil while idle.
	session *dragSession

	gen       uint64
	dragCount uint64
}

func New[T any](opts Options[T]) *Engine[T] {
	if opts.Key == nil {
		panic("reorder: Options.Key is required")
	}
	if opts.ItemHeight <= 0 {
		opts.ItemHeight = DefaultItemHeight
	}
	if opts.AnimationDuration < 0 {
		opts.AnimationDuration = 0
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = DefaultSettleDelay
	}
	if opts.DragHandleClassName == "" {
		opts.DragHandleClassName = DefaultDragHandleClassName
	}
	if opts.CancelPolicy == "" {
		opts.CancelPolicy = CancelCommits
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine[T]{
		opts: opts,
		log:  log,
		layout: layoutTracker{
			itemHeight: opts.ItemHeight,
			measurer:   opts.Measurer,
			log:        log,
		},
	}
	e.SetData(opts.Data)
	return e
}

// SetData replaces the snapshot with a fresh copy of items. Any in-flight drag is
// dropped without committing and a new layout capture is scheduled.
func (e *Engine[T]) SetData(items []T) Settle {
	if e.session != nil {
		e.log.Debug("drag invalidated by data change",
			zap.String("item", e.session.itemID),
			zap.Int("index", e.session.index))
	}
	e.session = nil
	e.items = append([]T(nil), items...)
	e.offsets = make([]float64, len(e.items))
	e.layout.reset(len(e.items))
	return e.schedule()
}

func (e *Engine[T]) schedule() Settle {
	e.gen++
	return Settle{Gen: e.gen, After: e.opts.SettleDelay}
}

// Pending returns the token for the most recently scheduled layout capture.
func (e *Engine[T]) Pending() Settle {
	return Settle{Gen: e.gen, After: e.opts.SettleDelay}
}

// Settle runs the deferred layout capture for gen. It reports false (and does nothing)
// when gen has been superseded by a later snapshot change.
func (e *Engine[T]) Settle(gen uint64) bool {
	if gen != e.gen {
		e.log.Debug("stale layout capture discarded", zap.Uint64("gen", gen), zap.Uint64("current", e.gen))
		return false
	}
	e.layout.capture(len(e.items))
	return true
}

// CaptureLayout measures every row now and returns a copy of the result.
func (e *Engine[T]) CaptureLayout() []LayoutEntry {
	return append([]LayoutEntry(nil), e.layout.capture(len(e.items))...)
}

func (e *Engine[T]) Len() int { return len(e.items) }

// Items returns a copy of the current snapshot.
func (e *Engine[T]) Items() []T { return append([]T(nil), e.items...) }

func (e *Engine[T]) DragCount() uint64 { return e.dragCount }

func (e *Engine[T]) ItemHeight() float64 { return e.opts.ItemHeight }
