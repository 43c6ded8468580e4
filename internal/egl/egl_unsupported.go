// SPDX-License-Identifier: Unlicense OR MIT

//go:build !(((linux || freebsd || openbsd) && cgo) || windows)

// Package egl binds the native EGL library as a surface.Driver.
package egl

import (
	"errors"

	"xyzw.us/glsurface/surface"
)

// NativeDisplayType is a placeholder on platforms without EGL.
type NativeDisplayType uintptr

// DefaultDisplay is EGL_DEFAULT_DISPLAY.
var DefaultDisplay NativeDisplayType

// Display is never constructed on this platform.
type Display struct {
	surface.Driver
}

func Open(native NativeDisplayType) (*Display, error) {
	return nil, errors.New("egl: not supported on this platform (or built without cgo)")
}

func (d *Display) Describe() string {
	return ""
}

func (d *Display) HasExtension(ext string) bool {
	return false
}
