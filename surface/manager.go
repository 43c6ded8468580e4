// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"errors"
	"log/slog"
	"math/bits"
	"sync"
)

// Slot is a stable handle to a context in a Manager's context table.
type Slot int

const (
	// MaxContexts is the capacity of the context table.
	MaxContexts = 10
	// Primary is the window context, created by Initialize. Only the
	// primary context presents.
	Primary Slot = 0
	// NoSlot is returned when no context is current or none could be
	// created.
	NoSlot Slot = -1
	// Default asks MakeCurrent for the primary context when the
	// manager is single threaded.
	Default Slot = -1
	// Unbind is outside the table; making it current releases the
	// current context.
	Unbind Slot = MaxContexts
)

const allSlots = 1<<MaxContexts - 1

// Phase is the lifecycle state of a Manager.
type Phase int

const (
	Uninitialized Phase = iota
	// Initialized has a display, a configuration and the primary
	// context, but no surface.
	Initialized
	SurfaceBound
	// Destroyed is terminal.
	Destroyed
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case SurfaceBound:
		return "surface-bound"
	case Destroyed:
		return "destroyed"
	default:
		panic("invalid phase")
	}
}

var errNoHandle = errors.New("driver returned a null handle")

// Manager owns a display connection, its configuration, at most one
// window surface and a fixed table of contexts. All methods are
// mutually exclusive.
type Manager struct {
	mu   sync.Mutex
	drv  Driver
	opts Options

	phase  Phase
	cfg    Config
	format PixelFormat
	surf   Surface
	win    NativeWindow

	// contexts is indexed by Slot. Bit i of live is set iff contexts[i]
	// holds a context.
	contexts [MaxContexts]Context
	live     uint16

	current    Slot
	currentTID int

	latch Latch
}

// NewManager returns an uninitialized Manager for d.
func NewManager(d Driver, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Chooser == nil {
		o.Chooser = ComponentSizeChooser{Format: o.Format}
	}
	return &Manager{
		drv:     d,
		opts:    o,
		current: NoSlot,
	}
}

// Initialize acquires the display, fixes the configuration and creates
// the primary context. Any failure is fatal and leaves the manager
// Destroyed. Initializing an initialized manager does nothing.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case Uninitialized:
	case Destroyed:
		return ErrDestroyed
	default:
		return nil
	}
	major, minor, err := m.drv.Initialize()
	if err != nil {
		m.phase = Destroyed
		return m.fatal(&Error{Op: "eglInitialize", Kind: KindInit, Err: err})
	}
	cfg, err := m.opts.Chooser.ChooseConfig(m.drv)
	if err != nil {
		m.abort()
		return m.fatal(err)
	}
	ctx, err := m.drv.CreateContext(cfg, NoContext, m.contextAttribs())
	if err == nil && ctx == NoContext {
		err = errNoHandle
	}
	if err != nil {
		m.abort()
		return m.fatal(&Error{Op: "eglCreateContext", Kind: KindInit, Err: err})
	}
	m.cfg = cfg
	m.format = ReadPixelFormat(m.drv, cfg)
	m.contexts[Primary] = ctx
	m.live = 1 << Primary
	m.phase = Initialized
	Logger().Info("egl initialized",
		slog.Int("major", major), slog.Int("minor", minor),
		slog.String("format", m.format.String()))
	return nil
}

// abort terminates a display whose initialization failed.
func (m *Manager) abort() {
	if err := m.drv.Terminate(); err != nil {
		Logger().Warn("eglTerminate failed", slog.Any("err", err))
	}
	m.phase = Destroyed
}

func (m *Manager) fatal(err error) error {
	Logger().Error("egl failure", slog.Any("err", err), slog.Int("tid", threadID()))
	return err
}

func (m *Manager) contextAttribs() []int32 {
	return []int32{AttribContextClientVersion, int32(m.opts.ClientVersion), AttribNone}
}

// BindSurface creates the window surface for win, destroying the
// previous surface first. If the driver reports that win is no longer
// a valid native window, BindSurface returns nil without a surface and
// the host should retry on its next surface notification.
func (m *Manager) BindSurface(win NativeWindow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.usable(); err != nil {
		return err
	}
	if m.phase == SurfaceBound {
		if err := m.releaseSurface(); err != nil {
			return err
		}
	}
	return m.attachSurface(win)
}

// UnbindSurface releases the current binding and destroys the surface,
// if any.
func (m *Manager) UnbindSurface() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != SurfaceBound {
		m.latch.setReady(false)
		return nil
	}
	return m.releaseSurface()
}

func (m *Manager) usable() error {
	switch m.phase {
	case Uninitialized:
		return ErrNotInitialized
	case Destroyed:
		return ErrDestroyed
	}
	return nil
}

// attachSurface moves Initialized to SurfaceBound.
func (m *Manager) attachSurface(win NativeWindow) error {
	if m.phase != Initialized {
		panic("attach in phase " + m.phase.String())
	}
	surf, err := m.drv.CreateWindowSurface(m.cfg, win)
	if err == nil && surf == NoSurface {
		err = errNoHandle
	}
	if err != nil {
		if c, ok := codeOf(err); ok && c == BadNativeWindow {
			Logger().Warn("eglCreateWindowSurface returned EGL_BAD_NATIVE_WINDOW", slog.Uint64("window", uint64(win)))
			return nil
		}
		return m.fatal(&Error{Op: "eglCreateWindowSurface", Kind: KindDriver, Err: err})
	}
	m.surf, m.win = surf, win
	m.clearCurrent()
	m.phase = SurfaceBound
	m.latch.setReady(true)
	Logger().Info("surface created", slog.Uint64("window", uint64(win)))
	return nil
}

// releaseSurface moves SurfaceBound to Initialized. The surface is
// forgotten even if the driver fails to tear it down.
func (m *Manager) releaseSurface() error {
	if m.phase != SurfaceBound {
		panic("release in phase " + m.phase.String())
	}
	if m.current != NoSlot {
		// Make sure any in-flight GL commands are complete.
		if err := m.drv.WaitClient(); err != nil {
			Logger().Warn("eglWaitClient failed", slog.Any("err", err))
		}
	}
	m.clearCurrent()
	var first error
	if err := m.drv.MakeCurrent(NoSurface, NoSurface, NoContext); err != nil && !teardownBenign(err) {
		first = &Error{Op: "eglMakeCurrent", Kind: KindDriver, Err: err}
	}
	if err := m.drv.DestroySurface(m.surf); err != nil && !teardownBenign(err) && first == nil {
		first = &Error{Op: "eglDestroySurface", Kind: KindDriver, Err: err}
	}
	m.surf, m.win = NoSurface, 0
	m.phase = Initialized
	m.latch.setReady(false)
	Logger().Info("surface destroyed")
	if first != nil {
		return m.fatal(first)
	}
	return nil
}

// teardownBenign reports whether err only says the object being
// released is already gone.
func teardownBenign(err error) bool {
	c, ok := codeOf(err)
	if !ok {
		return false
	}
	switch c {
	case BadNativeWindow, BadSurface, ContextLost:
		Logger().Warn("ignoring teardown error", slog.Any("err", err))
		return true
	}
	return false
}

func (m *Manager) clearCurrent() {
	m.current = NoSlot
	m.currentTID = 0
}

func (m *Manager) occupied(s Slot) bool {
	return s >= 0 && s < MaxContexts && m.live&(1<<uint(s)) != 0
}

// CreateContext creates a context in the lowest free slot above
// Primary, sharing objects with the context in share if that slot is
// occupied. It returns NoSlot and a nil error when the table is full
// or the manager has no display. A driver refusal is returned as an
// *Error.
func (m *Manager) CreateContext(share Slot) (Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != Initialized && m.phase != SurfaceBound {
		return NoSlot, nil
	}
	free := ^m.live & allSlots &^ (1 << Primary)
	if free == 0 {
		Logger().Debug("context table full")
		return NoSlot, nil
	}
	slot := Slot(bits.TrailingZeros16(free))
	shareCtx := NoContext
	if m.occupied(share) {
		shareCtx = m.contexts[share]
	}
	ctx, err := m.drv.CreateContext(m.cfg, shareCtx, m.contextAttribs())
	if err == nil && ctx == NoContext {
		err = errNoHandle
	}
	if err != nil {
		return NoSlot, m.fatal(&Error{Op: "eglCreateContext", Kind: KindDriver, Err: err})
	}
	m.contexts[slot] = ctx
	m.live |= 1 << uint(slot)
	Logger().Debug("context created", slog.Int("slot", int(slot)), slog.Int("share", int(share)))
	return slot, nil
}

// DestroyContext destroys the context in slot and reports whether it
// did. The primary context, the current context and empty slots are
// left alone.
func (m *Manager) DestroyContext(slot Slot) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slot == Primary || slot == m.current || !m.occupied(slot) {
		return false, nil
	}
	ctx := m.contexts[slot]
	m.contexts[slot] = NoContext
	m.live &^= 1 << uint(slot)
	if err := m.drv.DestroyContext(ctx); err != nil && !teardownBenign(err) {
		return true, m.fatal(&Error{Op: "eglDestroyContext", Kind: KindDriver, Err: err})
	}
	Logger().Debug("context destroyed", slog.Int("slot", int(slot)))
	return true, nil
}

// MakeCurrent binds the context in slot to the surface. Default
// resolves to Primary for single threaded managers. A slot outside the
// table releases the current context. MakeCurrent reports false when no
// surface is bound or slot is empty. Rebinding the current slot from
// the thread that bound it does not reach the driver.
func (m *Manager) MakeCurrent(slot Slot) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != SurfaceBound {
		return false, nil
	}
	if slot == Default && m.opts.SingleThread {
		slot = Primary
	}
	if slot < 0 || slot >= MaxContexts {
		m.clearCurrent()
		if err := m.drv.MakeCurrent(NoSurface, NoSurface, NoContext); err != nil {
			return false, m.fatal(&Error{Op: "eglMakeCurrent", Kind: KindDriver, Err: err})
		}
		return true, nil
	}
	if !m.occupied(slot) {
		return false, nil
	}
	if slot == m.current && m.currentTID == threadID() {
		return true, nil
	}
	if err := m.drv.MakeCurrent(m.surf, m.surf, m.contexts[slot]); err != nil {
		return false, m.fatal(&Error{Op: "eglMakeCurrent", Kind: KindDriver, Err: err})
	}
	m.current = slot
	m.currentTID = threadID()
	Logger().Debug("context current", slog.Int("slot", int(slot)), slog.Int("tid", m.currentTID))
	return true, nil
}

// SwapBuffers presents the surface. Only the primary context presents;
// with any other binding, or without a surface, SwapBuffers reports
// false. A lost native window or a lost context also reports false,
// and in the latter case the caller must rebuild its contexts.
func (m *Manager) SwapBuffers() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != SurfaceBound || m.current != Primary {
		return false, nil
	}
	err := m.drv.SwapBuffers(m.surf)
	if err == nil {
		return true, nil
	}
	if c, ok := codeOf(err); ok {
		switch c {
		case ContextLost:
			Logger().Warn("eglSwapBuffers returned EGL_CONTEXT_LOST", slog.Int("tid", threadID()))
			return false, nil
		case BadNativeWindow:
			// The window manager probably closed the window; the host
			// is about to tear the surface down.
			Logger().Warn("eglSwapBuffers returned EGL_BAD_NATIVE_WINDOW", slog.Int("tid", threadID()))
			return false, nil
		}
	}
	return false, m.fatal(&Error{Op: "eglSwapBuffers", Kind: KindDriver, Err: err})
}

// Current returns the bound slot, or NoSlot.
func (m *Manager) Current() Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CurrentThread returns the OS thread that bound the current context,
// or 0 if none is bound or the platform does not report thread ids.
func (m *Manager) CurrentThread() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentTID
}

func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Config returns the bound configuration and its pixel format.
func (m *Manager) Config() (Config, PixelFormat) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg, m.format
}

// Live returns the occupied slots in increasing order.
func (m *Manager) Live() []Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	var slots []Slot
	for l := m.live; l != 0; l &= l - 1 {
		slots = append(slots, Slot(bits.TrailingZeros16(l)))
	}
	return slots
}

// Latch returns the manager's ready and size state.
func (m *Manager) Latch() *Latch {
	return &m.latch
}

// Destroy releases the surface, every context and the display. The
// manager cannot be used afterwards. Teardown continues past driver
// failures; the first one is returned.
func (m *Manager) Destroy() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.phase {
	case Destroyed:
		return nil
	case Uninitialized:
		m.phase = Destroyed
		return nil
	}
	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	if m.phase == SurfaceBound {
		record(m.releaseSurface())
	}
	for s := Slot(MaxContexts - 1); s >= Primary; s-- {
		if !m.occupied(s) {
			continue
		}
		if err := m.drv.DestroyContext(m.contexts[s]); err != nil && !teardownBenign(err) {
			record(&Error{Op: "eglDestroyContext", Kind: KindDriver, Err: err})
		}
		m.contexts[s] = NoContext
	}
	m.live = 0
	if err := m.drv.Terminate(); err != nil {
		record(&Error{Op: "eglTerminate", Kind: KindDriver, Err: err})
	}
	if err := m.drv.ReleaseThread(); err != nil {
		record(&Error{Op: "eglReleaseThread", Kind: KindDriver, Err: err})
	}
	m.phase = Destroyed
	m.latch.setReady(false)
	Logger().Info("egl destroyed")
	if first != nil {
		return m.fatal(first)
	}
	return nil
}
