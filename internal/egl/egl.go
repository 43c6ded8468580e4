// SPDX-License-Identifier: Unlicense OR MIT

//go:build ((linux || freebsd || openbsd) && cgo) || windows

// Package egl binds the native EGL library as a surface.Driver.
package egl

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"xyzw.us/glsurface/surface"
)

// Display is a connection to an EGL display.
type Display struct {
	disp _EGLDisplay
}

var (
	nilEGLDisplay _EGLDisplay
	nilEGLSurface _EGLSurface
	nilEGLContext _EGLContext
	// DefaultDisplay is EGL_DEFAULT_DISPLAY.
	DefaultDisplay NativeDisplayType
)

const (
	_EGL_NONE        = 0x3038
	_EGL_VENDOR      = 0x3053
	_EGL_VERSION     = 0x3054
	_EGL_EXTENSIONS  = 0x3055
	_EGL_CLIENT_APIS = 0x308d
)

// Open connects to the display of native, falling back to the default
// display. The display must be initialized before use.
func Open(native NativeDisplayType) (*Display, error) {
	if err := loadEGL(); err != nil {
		return nil, err
	}
	disp := eglGetDisplay(native)
	// eglGetDisplay can return EGL_NO_DISPLAY yet no error
	// (EGL_SUCCESS), in which case a default EGL display might be
	// available.
	if disp == nilEGLDisplay {
		disp = eglGetDisplay(DefaultDisplay)
	}
	if disp == nilEGLDisplay {
		return nil, fmt.Errorf("eglGetDisplay failed: %w", lastError())
	}
	return &Display{disp: disp}, nil
}

func lastError() error {
	return surface.Code(eglGetError())
}

func attribList(attribs []int32) []_EGLint {
	a := make([]_EGLint, 0, len(attribs)+1)
	for _, v := range attribs {
		a = append(a, _EGLint(v))
	}
	if len(a) == 0 || a[len(a)-1] != _EGL_NONE {
		a = append(a, _EGL_NONE)
	}
	return a
}

func (d *Display) Initialize() (int, int, error) {
	major, minor, ok := eglInitialize(d.disp)
	if !ok {
		return 0, 0, lastError()
	}
	return int(major), int(minor), nil
}

func (d *Display) ChooseConfigs(attribs []int32) ([]surface.Config, error) {
	a := attribList(attribs)
	n, ok := eglChooseConfig(d.disp, a, nil)
	if !ok {
		return nil, lastError()
	}
	if n == 0 {
		return nil, nil
	}
	cfgs := make([]_EGLConfig, n)
	n, ok = eglChooseConfig(d.disp, a, cfgs)
	if !ok {
		return nil, lastError()
	}
	res := make([]surface.Config, n)
	for i, c := range cfgs[:n] {
		res[i] = configHandle(c)
	}
	return res, nil
}

func (d *Display) ConfigAttrib(cfg surface.Config, attrib int32) (int32, bool) {
	v, ok := eglGetConfigAttrib(d.disp, eglConfig(cfg), _EGLint(attrib))
	return int32(v), ok
}

func (d *Display) CreateContext(cfg surface.Config, share surface.Context, attribs []int32) (surface.Context, error) {
	ctx := eglCreateContext(d.disp, eglConfig(cfg), eglContext(share), attribList(attribs))
	if ctx == nilEGLContext {
		return surface.NoContext, lastError()
	}
	return contextHandle(ctx), nil
}

func (d *Display) DestroyContext(ctx surface.Context) error {
	if !eglDestroyContext(d.disp, eglContext(ctx)) {
		return lastError()
	}
	return nil
}

func (d *Display) CreateWindowSurface(cfg surface.Config, win surface.NativeWindow) (surface.Surface, error) {
	surf := eglCreateWindowSurface(d.disp, eglConfig(cfg), nativeWindow(win), attribList(nil))
	if surf == nilEGLSurface {
		return surface.NoSurface, lastError()
	}
	return surfaceHandle(surf), nil
}

func (d *Display) DestroySurface(surf surface.Surface) error {
	if !eglDestroySurface(d.disp, eglSurface(surf)) {
		return lastError()
	}
	return nil
}

func (d *Display) MakeCurrent(draw, read surface.Surface, ctx surface.Context) error {
	if !eglMakeCurrent(d.disp, eglSurface(draw), eglSurface(read), eglContext(ctx)) {
		return lastError()
	}
	return nil
}

func (d *Display) SwapBuffers(surf surface.Surface) error {
	if !eglSwapBuffers(d.disp, eglSurface(surf)) {
		return lastError()
	}
	return nil
}

func (d *Display) WaitClient() error {
	if !eglWaitClient() {
		return lastError()
	}
	return nil
}

func (d *Display) Terminate() error {
	if !eglTerminate(d.disp) {
		return lastError()
	}
	return nil
}

func (d *Display) ReleaseThread() error {
	if !eglReleaseThread() {
		return lastError()
	}
	return nil
}

// Describe returns the vendor, version and client APIs of an
// initialized display.
func (d *Display) Describe() string {
	return fmt.Sprintf("%s %s (%s)",
		eglQueryString(d.disp, _EGL_VENDOR),
		eglQueryString(d.disp, _EGL_VERSION),
		eglQueryString(d.disp, _EGL_CLIENT_APIS))
}

// HasExtension reports whether an initialized display supports ext.
func (d *Display) HasExtension(ext string) bool {
	return slices.Contains(strings.Fields(eglQueryString(d.disp, _EGL_EXTENSIONS)), ext)
}
