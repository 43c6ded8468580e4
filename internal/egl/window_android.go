// SPDX-License-Identifier: Unlicense OR MIT

//go:build cgo
// +build cgo

package egl

import (
	"unsafe"

	"xyzw.us/glsurface/surface"
)

// nativeWindow converts an ANativeWindow pointer.
func nativeWindow(win surface.NativeWindow) NativeWindowType {
	return NativeWindowType(unsafe.Pointer(uintptr(win)))
}
