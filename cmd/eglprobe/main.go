// SPDX-License-Identifier: Unlicense OR MIT

// Command eglprobe initializes a surface manager against the native
// EGL display, reports the chosen configuration and exercises the
// context table. With -sim it replays host surface events against a
// simulated display while a renderer loop presents frames.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"xyzw.us/glsurface/internal/egl"
	"xyzw.us/glsurface/surface"
)

var (
	configPath = flag.String("config", "", "YAML request file (pixel format, contexts, simulation).")
	simulate   = flag.Bool("sim", false, "use a simulated display instead of native EGL.")
	verbose    = flag.Bool("v", false, "log surface lifecycle events to stderr.")
	frames     = flag.Int("window", 0, "present this many frames to an X11 window.")
)

const mainUsage = `eglprobe [-config request.yaml] [-sim] [-window frames] [-v]

eglprobe opens the default EGL display, selects a configuration with
exactly the requested channel sizes and at least the requested depth and
stencil sizes, creates the primary context and then as many shared
contexts as requested.

The request file may contain:

	format: {red: 5, green: 6, blue: 5, alpha: 0, depth: 16, stencil: 0}
	client_version: 2
	single_thread: true
	contexts: 9
	simulate: {frames: 60, resizes: 3, rebinds: 1}
	configs: [{red: 5, green: 6, blue: 5, depth: 16}]

configs lists the configurations offered by the simulated display.
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, mainUsage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if err := mainErr(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "eglprobe: %v\n", err)
		os.Exit(1)
	}
}

func mainErr(w io.Writer) error {
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	surface.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	req, err := loadRequest(*configPath)
	if err != nil {
		return err
	}
	if *simulate {
		return runSimulation(w, req)
	}
	return probe(w, req)
}

func probe(w io.Writer, req *request) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	disp, err := egl.Open(egl.DefaultDisplay)
	if err != nil {
		return err
	}
	m := surface.NewManager(disp, req.options()...)
	if err := m.Initialize(); err != nil {
		return err
	}
	fmt.Fprintf(w, "display: %s\n", disp.Describe())
	fmt.Fprintf(w, "surfaceless contexts: %v\n", disp.HasExtension("EGL_KHR_surfaceless_context"))
	err = report(w, m, req.Contexts)
	if err == nil && *frames > 0 {
		err = present(w, m, *frames)
	}
	if derr := m.Destroy(); err == nil {
		err = derr
	}
	return err
}

// present binds a surface to a fresh window and swaps n frames.
func present(w io.Writer, m *surface.Manager, n int) error {
	win, closeWindow, err := openWindow(320, 240)
	if err != nil {
		return err
	}
	defer closeWindow()
	if err := m.BindSurface(win); err != nil {
		return err
	}
	if m.Phase() != surface.SurfaceBound {
		return fmt.Errorf("window %#x rejected by the display", uintptr(win))
	}
	if _, err := m.MakeCurrent(surface.Primary); err != nil {
		return err
	}
	swapped := 0
	for i := 0; i < n; i++ {
		ok, err := m.SwapBuffers()
		if err != nil {
			return err
		}
		if ok {
			swapped++
		}
	}
	fmt.Fprintf(w, "window: %d of %d frames presented\n", swapped, n)
	return m.UnbindSurface()
}

// report prints the bound configuration, then creates up to n contexts
// sharing with the primary one and destroys them again.
func report(w io.Writer, m *surface.Manager, n int) error {
	cfg, f := m.Config()
	fmt.Fprintf(w, "config: %#x %v\n", uintptr(cfg), f)
	var slots []surface.Slot
	for i := 0; i < n; i++ {
		s, err := m.CreateContext(surface.Primary)
		if err != nil {
			return err
		}
		if s == surface.NoSlot {
			break
		}
		slots = append(slots, s)
	}
	fmt.Fprintf(w, "contexts: created %d, live slots %v\n", len(slots), m.Live())
	for _, s := range slots {
		if _, err := m.DestroyContext(s); err != nil {
			return err
		}
	}
	return nil
}
