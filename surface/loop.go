// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"runtime"
	"sync"
	"time"
)

// Loop calls Drawable.Frame periodically from a dedicated OS thread.
type Loop struct {
	err error

	stopOnce sync.Once
	stop     chan struct{}
	stopped chan struct{}
}

// NewLoop starts a loop running d.Frame(h) every period. The loop ends
// at the first error or when Stop is called.
func NewLoop(d *Drawable, h Handler, period time.Duration) *Loop {
	l := &Loop{
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go l.run(d, h, period)
	return l
}

func (l *Loop) run(d *Drawable, h Handler, period time.Duration) {
	defer close(l.stopped)
	// Contexts are bound per OS thread.
	runtime.LockOSThread()
	// Don't UnlockOSThread to avoid reuse by the Go runtime.
	defer func() {
		// Leave no context bound to the exiting thread.
		if _, err := d.MakeContextCurrent(Unbind); err != nil && l.err == nil {
			l.err = err
		}
	}()

	t := time.NewTicker(period)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			if err := d.Frame(h); err != nil {
				l.err = err
				return
			}
		case <-l.stop:
			return
		}
	}
}

// Done is closed when the loop has ended.
func (l *Loop) Done() <-chan struct{} {
	return l.stopped
}

// Stop ends the loop, waits for it and returns the error that ended
// it, if any.
func (l *Loop) Stop() error {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	<-l.stopped
	return l.err
}
