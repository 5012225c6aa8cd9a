package window

import (
	"sync"

	"creeper-desktop/internal/domain"
)

// MemoryWindow implements domain.WindowController by tracking visibility in
// memory. Used when no native window is attached (headless serve, tests).
type MemoryWindow struct {
	mu        sync.Mutex
	visible   bool
	focused   bool
	destroyed bool
}

// NewMemoryWindow creates a window with the given initial visibility.
func NewMemoryWindow(visible bool) *MemoryWindow {
	return &MemoryWindow{visible: visible}
}

func (w *MemoryWindow) Show() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return domain.ErrWindowUnavailable
	}
	w.visible = true
	return nil
}

func (w *MemoryWindow) Focus() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return domain.ErrWindowUnavailable
	}
	w.focused = true
	return nil
}

func (w *MemoryWindow) Hide() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return domain.ErrWindowUnavailable
	}
	w.visible = false
	w.focused = false
	return nil
}

// Destroy drops the handle; every later call fails.
func (w *MemoryWindow) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
	w.visible = false
	w.focused = false
}

// Visible reports the current visibility.
func (w *MemoryWindow) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// Focused reports whether the window holds input focus.
func (w *MemoryWindow) Focused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focused
}

var _ domain.WindowController = (*MemoryWindow)(nil)
