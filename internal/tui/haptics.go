package tui

import (
	"io"
	"sync"

	"dragsort-cli/internal/reorder"

	xansi "github.com/charmbracelet/x/ansi"
)

// bell rings the terminal bell as the drag feedback pulse. A nil writer means the
// terminal has no output to ring (headless runs).
type bell struct {
	mu sync.Mutex
	w  io.Writer
}

var _ reorder.Haptics = (*bell)(nil)

func newBell(w io.Writer) *bell { return &bell{w: w} }

func (b *bell) Vibrate() error {
	if b == nil || b.w == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.w.Write([]byte{xansi.BEL})
	return err
}
