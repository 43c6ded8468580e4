// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux && !android
// +build linux,!android

package main

import (
	"fmt"
	"io"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"

	"xyzw.us/glsurface/surface"
)

// openWindow maps an X11 window of the given size on the default
// display. The returned function destroys it.
func openWindow(width, height int) (surface.NativeWindow, func(), error) {
	xgb.Logger.SetOutput(io.Discard)
	conn, err := xgb.NewConn()
	if err != nil {
		return 0, nil, fmt.Errorf("x11: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return 0, nil, fmt.Errorf("x11: %w", err)
	}
	err = xproto.CreateWindowChecked(conn, screen.RootDepth, wid, screen.Root,
		0, 0, uint16(width), uint16(height), 0,
		xproto.WindowClassInputOutput, screen.RootVisual, 0, nil).Check()
	if err != nil {
		conn.Close()
		return 0, nil, fmt.Errorf("x11: create window: %w", err)
	}
	if err := xproto.MapWindowChecked(conn, wid).Check(); err != nil {
		xproto.DestroyWindow(conn, wid)
		conn.Close()
		return 0, nil, fmt.Errorf("x11: map window: %w", err)
	}
	closeWindow := func() {
		xproto.DestroyWindow(conn, wid)
		conn.Close()
	}
	return surface.NativeWindow(wid), closeWindow, nil
}
