package reorder

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// LayoutEntry is the static geometry of one row in container coordinates.
type LayoutEntry struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

func (l LayoutEntry) Center() float64 { return l.Top + l.Height/2 }

// Measurer reads the live geometry of the row at index. Errors (including an
// unmounted row) make the tracker fall back to an estimate for that row only.
type Measurer interface {
	Measure(index int) (LayoutEntry, error)
}

type MeasureFunc func(index int) (LayoutEntry, error)

func (f MeasureFunc) Measure(index int) (LayoutEntry, error) { return f(index) }

var ErrNotMeasured = errors.New("reorder: row not measured")

type layoutTracker struct {
	itemHeight float64
	measurer   Measurer
	log        *zap.Logger

	entries []LayoutEntry
}

func (t *layoutTracker) synthesize(i int) LayoutEntry {
	return LayoutEntry{Top: float64(i) * t.itemHeight, Height: t.itemHeight}
}

// reset drops cached measurements; rows read as estimates until the next capture.
func (t *layoutTracker) reset(n int) {
	t.entries = make([]LayoutEntry, n)
	for i := range t.entries {
		t.entries[i] = t.synthesize(i)
	}
}

func (t *layoutTracker) capture(n int) []LayoutEntry {
	out := make([]LayoutEntry, n)
	fallbacks := 0
	for i := 0; i < n; i++ {
		le, err := t.measure(i)
		if err != nil || le.Height <= 0 {
			le = t.synthesize(i)
			fallbacks++
		}
		out[i] = le
	}
	if fallbacks > 0 && t.measurer != nil {
		t.log.Debug("layout capture used estimates", zap.Int("rows", n), zap.Int("estimated", fallbacks))
	}
	t.entries = out
	return out
}

func (t *layoutTracker) measure(i int) (le LayoutEntry, err error) {
	if t.measurer == nil {
		return LayoutEntry{}, ErrNotMeasured
	}
	defer func() {
		if r := recover(); r != nil {
			t.log.Warn("row measurement panicked", zap.Int("index", i), zap.Any("panic", r))
			err = fmt.Errorf("measure row %d: %v", i, r)
		}
	}()
	return t.measurer.Measure(i)
}

func (t *layoutTracker) entry(i int) LayoutEntry {
	if i >= 0 && i < len(t.entries) {
		return t.entries[i]
	}
	return t.synthesize(i)
}
