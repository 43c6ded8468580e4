// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux || android
// +build !linux android

package main

import (
	"errors"

	"xyzw.us/glsurface/surface"
)

func openWindow(width, height int) (surface.NativeWindow, func(), error) {
	return 0, nil, errors.New("-window is only supported on X11")
}
