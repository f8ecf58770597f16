package reorder

import (
	"go.uber.org/zap"
)

// Haptics is a fire-and-forget feedback capability. Errors and panics are swallowed.
type Haptics interface {
	Vibrate() error
}

type HapticsFunc func() error

func (f HapticsFunc) Vibrate() error { return f() }

func (e *Engine[T]) buzz(reason string) {
	if !e.opts.VibrateOnChange || e.opts.Haptics == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("haptics panicked", zap.String("reason", reason), zap.Any("panic", r))
		}
	}()
	if err := e.opts.Haptics.Vibrate(); err != nil {
		e.log.Debug("haptics unavailable", zap.String("reason", reason), zap.Error(err))
	}
}
