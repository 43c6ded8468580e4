// SPDX-License-Identifier: Unlicense OR MIT

package surface

import "sync"

// Latch records whether a surface exists and whether its size changed
// since the renderer last acknowledged it. The host writes it from
// surface callbacks and the renderer clears the reshape bit after
// reacting.
type Latch struct {
	mu            sync.Mutex
	ready         bool
	sizeChanged   bool
	width, height int
}

func (l *Latch) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready
}

func (l *Latch) setReady(ready bool) {
	l.mu.Lock()
	l.ready = ready
	l.mu.Unlock()
}

// Resize records a new surface size and reports whether it differs
// from the previous one.
func (l *Latch) Resize(width, height int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if width == l.width && height == l.height {
		return false
	}
	l.width, l.height = width, height
	l.sizeChanged = true
	return true
}

func (l *Latch) NeedsReshape() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sizeChanged
}

func (l *Latch) ClearNeedsReshape() {
	l.mu.Lock()
	l.sizeChanged = false
	l.mu.Unlock()
}

// Size returns the last recorded surface size.
func (l *Latch) Size() (width, height int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.width, l.height
}
