// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"log/slog"
)

// Drawable adapts a Manager to a host that delivers surface
// notifications from its UI thread and a renderer that polls for
// readiness and reshapes.
type Drawable struct {
	m *Manager
}

// New creates and initializes a Manager for d.
func New(d Driver, opts ...Option) (*Drawable, error) {
	m := NewManager(d, opts...)
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	return &Drawable{m: m}, nil
}

// Manager returns the underlying manager.
func (d *Drawable) Manager() *Manager {
	return d.m
}

// SurfaceCreated binds a surface for win.
func (d *Drawable) SurfaceCreated(win NativeWindow) error {
	return d.m.BindSurface(win)
}

// SurfaceChanged records the surface size. The reshape bit is set only
// if the size differs from the last one recorded.
func (d *Drawable) SurfaceChanged(width, height int) {
	if d.m.latch.Resize(width, height) {
		Logger().Debug("surface resized", slog.Int("width", width), slog.Int("height", height))
	}
}

func (d *Drawable) SurfaceDestroyed() error {
	return d.m.UnbindSurface()
}

func (d *Drawable) Ready() bool {
	return d.m.latch.Ready()
}

func (d *Drawable) NeedsReshape() bool {
	return d.m.latch.NeedsReshape()
}

func (d *Drawable) Width() int {
	w, _ := d.m.latch.Size()
	return w
}

func (d *Drawable) Height() int {
	_, h := d.m.latch.Size()
	return h
}

func (d *Drawable) ClearNeedsReshape() {
	d.m.latch.ClearNeedsReshape()
}

func (d *Drawable) SwapBuffers() (bool, error) {
	return d.m.SwapBuffers()
}

func (d *Drawable) CurrentContext() Slot {
	return d.m.Current()
}

func (d *Drawable) MakeContextCurrent(slot Slot) (bool, error) {
	return d.m.MakeCurrent(slot)
}

// CreateContext returns the new slot, or NoSlot if the table is full
// or the driver refused.
func (d *Drawable) CreateContext(share Slot) (Slot, error) {
	slot, err := d.m.CreateContext(share)
	if err != nil {
		Logger().Error("context creation failed", slog.Any("err", err))
	}
	return slot, err
}

func (d *Drawable) DestroyContext(slot Slot) error {
	_, err := d.m.DestroyContext(slot)
	return err
}

// Release destroys the manager.
func (d *Drawable) Release() error {
	return d.m.Destroy()
}

// Handler receives frames from Frame.
type Handler interface {
	// Reshape is called with the primary context current whenever the
	// surface size changed.
	Reshape(width, height int)
	// Display renders and presents a frame.
	Display(d *Drawable) error
}

// Frame runs one renderer step: nothing happens until a surface is
// ready; then a pending reshape is delivered with the primary context
// current, followed by a display.
func (d *Drawable) Frame(h Handler) error {
	if !d.Ready() {
		return nil
	}
	if d.NeedsReshape() {
		ok, err := d.MakeContextCurrent(Primary)
		if err != nil {
			return err
		}
		if !ok {
			// The surface went away in between.
			return nil
		}
		w, hgt := d.m.latch.Size()
		h.Reshape(w, hgt)
		d.ClearNeedsReshape()
	}
	return h.Display(d)
}
