// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"xyzw.us/glsurface/surface"
	"xyzw.us/glsurface/surface/surfacetest"
)

// simHandler presents every frame and hands each present to the host.
type simHandler struct {
	reshapes  atomic.Int32
	presented chan<- struct{}
	quit      <-chan struct{}
}

func (h *simHandler) Reshape(width, height int) {
	h.reshapes.Add(1)
}

func (h *simHandler) Display(d *surface.Drawable) error {
	if ok, err := d.MakeContextCurrent(surface.Primary); !ok || err != nil {
		return err
	}
	ok, err := d.SwapBuffers()
	if !ok || err != nil {
		return err
	}
	select {
	case h.presented <- struct{}{}:
	case <-h.quit:
	}
	return nil
}

// runSimulation drives a simulated display from two goroutines: a host
// delivering surface notifications and a renderer loop.
func runSimulation(w io.Writer, req *request) error {
	var configs []surface.PixelFormat
	for _, c := range req.Configs {
		configs = append(configs, c.format())
	}
	return simulateOn(w, req, surfacetest.NewDisplay(configs...))
}

func simulateOn(w io.Writer, req *request, disp *surfacetest.Display) error {
	dr, err := surface.New(disp, req.options()...)
	if err != nil {
		return err
	}
	if err := report(w, dr.Manager(), req.Contexts); err != nil {
		return errors.Join(err, dr.Release())
	}

	presented := make(chan struct{})
	quit := make(chan struct{})
	h := &simHandler{presented: presented, quit: quit}
	loop := surface.NewLoop(dr, h, time.Millisecond)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		defer close(quit)
		return host(ctx, dr, req.Simulate, presented)
	})
	g.Go(func() error {
		select {
		case <-loop.Done():
		case <-quit:
		}
		return loop.Stop()
	})
	err = g.Wait()
	if rerr := dr.Release(); err == nil {
		err = rerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "simulation: %d presents, %d reshapes, %d live surfaces\n",
		disp.Swaps(), h.reshapes.Load(), disp.LiveSurfaces())
	return nil
}

// host binds a surface per rebind, resizes it and waits for frames
// before moving on.
func host(ctx context.Context, dr *surface.Drawable, sim simulation, presented <-chan struct{}) error {
	perBinding := max(sim.Frames/(sim.Rebinds+1), 1)
	for r := 0; r <= sim.Rebinds; r++ {
		if err := dr.SurfaceCreated(surface.NativeWindow(r + 1)); err != nil {
			return err
		}
		for i := 0; i < sim.Resizes; i++ {
			dr.SurfaceChanged(320+16*i, 480+16*r)
			if err := waitFrames(ctx, presented, 1); err != nil {
				return err
			}
		}
		if err := waitFrames(ctx, presented, perBinding); err != nil {
			return err
		}
	}
	return dr.SurfaceDestroyed()
}

func waitFrames(ctx context.Context, presented <-chan struct{}, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-presented:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
