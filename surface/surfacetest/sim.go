// SPDX-License-Identifier: Unlicense OR MIT

// Package surfacetest implements an in-memory EGL display for testing
// surface managers without a GPU.
package surfacetest

import (
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"xyzw.us/glsurface/surface"
)

// Op names a Driver method for failure injection.
type Op string

const (
	OpInitialize     Op = "Initialize"
	OpChooseConfigs  Op = "ChooseConfigs"
	OpCreateContext  Op = "CreateContext"
	OpDestroyContext Op = "DestroyContext"
	OpCreateSurface  Op = "CreateWindowSurface"
	OpDestroySurface Op = "DestroySurface"
	OpMakeCurrent    Op = "MakeCurrent"
	OpSwapBuffers    Op = "SwapBuffers"
	OpTerminate      Op = "Terminate"
)

// Display simulates an EGL display offering a fixed list of
// configurations. Every configuration is OpenGL ES 2 renderable.
type Display struct {
	mu sync.Mutex

	configs []surface.PixelFormat

	initialized bool
	terminated  bool
	next        uintptr
	contexts    map[surface.Context]ctxInfo
	surfaces    map[surface.Surface]surface.NativeWindow
	deadWindows map[surface.NativeWindow]bool
	lost        bool
	failures    map[Op][]error

	draw    surface.Surface
	current surface.Context
	swaps   int
	calls   []Op
}

type ctxInfo struct {
	cfg   surface.Config
	share surface.Context
}

// NewDisplay returns a display offering configs in the given order.
func NewDisplay(configs ...surface.PixelFormat) *Display {
	return &Display{
		configs:     configs,
		next:        0x1000,
		contexts:    make(map[surface.Context]ctxInfo),
		surfaces:    make(map[surface.Surface]surface.NativeWindow),
		deadWindows: make(map[surface.NativeWindow]bool),
		failures:    make(map[Op][]error),
	}
}

// FailNext makes the next call of op return err. Calls queue in order;
// a nil err lets that call through.
func (d *Display) FailNext(op Op, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op] = append(d.failures[op], err)
}

// CloseWindow simulates the window manager destroying win. Creating or
// presenting a surface for it fails with EGL_BAD_NATIVE_WINDOW.
func (d *Display) CloseWindow(win surface.NativeWindow) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deadWindows[win] = true
}

// LoseContexts simulates a power event: the next swap reports
// EGL_CONTEXT_LOST.
func (d *Display) LoseContexts() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lost = true
}

func (d *Display) injected(op Op) error {
	d.calls = append(d.calls, op)
	errs := d.failures[op]
	if len(errs) == 0 {
		return nil
	}
	d.failures[op] = errs[1:]
	return errs[0]
}

func (d *Display) handle() uintptr {
	d.next++
	return d.next
}

func (d *Display) Initialize() (int, int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpInitialize); err != nil {
		return 0, 0, err
	}
	d.initialized = true
	d.terminated = false
	return 1, 4, nil
}

func (d *Display) ChooseConfigs(attribs []int32) ([]surface.Config, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpChooseConfigs); err != nil {
		return nil, err
	}
	if !d.initialized {
		return nil, surface.NotInitialized
	}
	if len(attribs) == 0 || attribs[len(attribs)-1] != surface.AttribNone {
		return nil, surface.BadAttribute
	}
	var cfgs []surface.Config
	for i, f := range d.configs {
		if matches(f, attribs) {
			cfgs = append(cfgs, surface.Config(i+1))
		}
	}
	return cfgs, nil
}

// matches applies EGL's minimum size semantics to the size attributes.
func matches(f surface.PixelFormat, attribs []int32) bool {
	for i := 0; i+1 < len(attribs); i += 2 {
		v := int(attribs[i+1])
		var have int
		switch attribs[i] {
		case surface.AttribRedSize:
			have = f.Red
		case surface.AttribGreenSize:
			have = f.Green
		case surface.AttribBlueSize:
			have = f.Blue
		case surface.AttribAlphaSize:
			have = f.Alpha
		case surface.AttribDepthSize:
			have = f.Depth
		case surface.AttribStencilSize:
			have = f.Stencil
		case surface.AttribRenderableType:
			if v&^surface.OpenGLES2Bit != 0 {
				return false
			}
			continue
		default:
			continue
		}
		if have < v {
			return false
		}
	}
	return true
}

func (d *Display) config(cfg surface.Config) (surface.PixelFormat, bool) {
	i := int(cfg) - 1
	if i < 0 || i >= len(d.configs) {
		return surface.PixelFormat{}, false
	}
	return d.configs[i], true
}

func (d *Display) ConfigAttrib(cfg surface.Config, attrib int32) (int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.config(cfg)
	if !ok {
		return 0, false
	}
	switch attrib {
	case surface.AttribRedSize:
		return int32(f.Red), true
	case surface.AttribGreenSize:
		return int32(f.Green), true
	case surface.AttribBlueSize:
		return int32(f.Blue), true
	case surface.AttribAlphaSize:
		return int32(f.Alpha), true
	case surface.AttribDepthSize:
		return int32(f.Depth), true
	case surface.AttribStencilSize:
		return int32(f.Stencil), true
	case surface.AttribBufferSize:
		return int32(f.Red + f.Green + f.Blue + f.Alpha), true
	case surface.AttribRenderableType:
		return surface.OpenGLES2Bit, true
	}
	return 0, false
}

func (d *Display) CreateContext(cfg surface.Config, share surface.Context, attribs []int32) (surface.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpCreateContext); err != nil {
		return surface.NoContext, err
	}
	if !d.initialized {
		return surface.NoContext, surface.NotInitialized
	}
	if _, ok := d.config(cfg); !ok {
		return surface.NoContext, surface.BadConfig
	}
	if share != surface.NoContext {
		if _, ok := d.contexts[share]; !ok {
			return surface.NoContext, surface.BadContext
		}
	}
	ctx := surface.Context(d.handle())
	d.contexts[ctx] = ctxInfo{cfg: cfg, share: share}
	return ctx, nil
}

func (d *Display) DestroyContext(ctx surface.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpDestroyContext); err != nil {
		return err
	}
	if _, ok := d.contexts[ctx]; !ok {
		return surface.BadContext
	}
	delete(d.contexts, ctx)
	return nil
}

func (d *Display) CreateWindowSurface(cfg surface.Config, win surface.NativeWindow) (surface.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpCreateSurface); err != nil {
		return surface.NoSurface, err
	}
	if !d.initialized {
		return surface.NoSurface, surface.NotInitialized
	}
	if _, ok := d.config(cfg); !ok {
		return surface.NoSurface, surface.BadConfig
	}
	if win == 0 || d.deadWindows[win] {
		return surface.NoSurface, surface.BadNativeWindow
	}
	if slices.Contains(maps.Values(d.surfaces), win) {
		// A native window backs at most one surface.
		return surface.NoSurface, surface.BadAlloc
	}
	s := surface.Surface(d.handle())
	d.surfaces[s] = win
	return s, nil
}

func (d *Display) DestroySurface(s surface.Surface) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpDestroySurface); err != nil {
		return err
	}
	if _, ok := d.surfaces[s]; !ok {
		return surface.BadSurface
	}
	delete(d.surfaces, s)
	if d.draw == s {
		d.draw = surface.NoSurface
	}
	return nil
}

func (d *Display) MakeCurrent(draw, read surface.Surface, ctx surface.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpMakeCurrent); err != nil {
		return err
	}
	if draw != read {
		return surface.BadMatch
	}
	if ctx == surface.NoContext {
		if draw != surface.NoSurface {
			return surface.BadMatch
		}
		d.draw, d.current = surface.NoSurface, surface.NoContext
		return nil
	}
	if _, ok := d.contexts[ctx]; !ok {
		return surface.BadContext
	}
	if draw != surface.NoSurface {
		if _, ok := d.surfaces[draw]; !ok {
			return surface.BadSurface
		}
	}
	d.draw, d.current = draw, ctx
	return nil
}

func (d *Display) SwapBuffers(s surface.Surface) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpSwapBuffers); err != nil {
		return err
	}
	win, ok := d.surfaces[s]
	if !ok {
		return surface.BadSurface
	}
	if d.lost {
		d.lost = false
		return surface.ContextLost
	}
	if d.deadWindows[win] {
		return surface.BadNativeWindow
	}
	if d.current == surface.NoContext || d.draw != s {
		return surface.BadSurface
	}
	d.swaps++
	return nil
}

func (d *Display) WaitClient() error {
	return nil
}

func (d *Display) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.injected(OpTerminate); err != nil {
		return err
	}
	d.initialized = false
	d.terminated = true
	return nil
}

func (d *Display) ReleaseThread() error {
	return nil
}

// LiveContexts returns the number of contexts not yet destroyed.
func (d *Display) LiveContexts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.contexts)
}

// LiveSurfaces returns the number of surfaces not yet destroyed.
func (d *Display) LiveSurfaces() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.surfaces)
}

// Shares returns the context ctx was created to share objects with.
func (d *Display) Shares(ctx surface.Context) surface.Context {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.contexts[ctx].share
}

// Bound returns the current draw surface and context.
func (d *Display) Bound() (surface.Surface, surface.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.draw, d.current
}

// Swaps returns the number of successful presents.
func (d *Display) Swaps() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.swaps
}

func (d *Display) Terminated() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.terminated
}

// Calls returns the driver operations invoked so far.
func (d *Display) Calls() []Op {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.calls)
}
