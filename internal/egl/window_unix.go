// SPDX-License-Identifier: Unlicense OR MIT

//go:build ((linux && !android) || freebsd || openbsd) && cgo
// +build linux,!android freebsd openbsd
// +build cgo

package egl

import "xyzw.us/glsurface/surface"

// nativeWindow converts an X11 window id or a wl_egl_window pointer.
func nativeWindow(win surface.NativeWindow) NativeWindowType {
	return NativeWindowType(win)
}
