// SPDX-License-Identifier: Unlicense OR MIT

package surface_test

import (
	"errors"
	"testing"

	"xyzw.us/glsurface/surface"
	"xyzw.us/glsurface/surface/surfacetest"
)

var (
	rgba8888  = surface.PixelFormat{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8}
	rgb888    = surface.PixelFormat{Red: 8, Green: 8, Blue: 8, Depth: 16}
	rgb565    = surface.PixelFormat{Red: 5, Green: 6, Blue: 5, Depth: 16}
	rgb565D0  = surface.PixelFormat{Red: 5, Green: 6, Blue: 5}
	rgb565D24 = surface.PixelFormat{Red: 5, Green: 6, Blue: 5, Depth: 24, Stencil: 8}
)

func initialized(t *testing.T, configs ...surface.PixelFormat) *surfacetest.Display {
	t.Helper()
	d := surfacetest.NewDisplay(configs...)
	if _, _, err := d.Initialize(); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestChooseConfigExactChannels(t *testing.T) {
	d := initialized(t, rgba8888, rgb565D0, rgb565)
	cfg, err := surface.ChooseConfig(d, surface.DefaultPixelFormat)
	if err != nil {
		t.Fatal(err)
	}
	if got := surface.ReadPixelFormat(d, cfg); got != rgb565 {
		t.Errorf("chose %v, want %v", got, rgb565)
	}
}

func TestChooseConfigFirstMatch(t *testing.T) {
	// Both candidates qualify; driver order decides.
	d := initialized(t, rgb565D24, rgb565)
	cfg, err := surface.ChooseConfig(d, surface.DefaultPixelFormat)
	if err != nil {
		t.Fatal(err)
	}
	if got := surface.ReadPixelFormat(d, cfg); got != rgb565D24 {
		t.Errorf("chose %v, want the first listed %v", got, rgb565D24)
	}
}

func TestChooseConfigNoCandidates(t *testing.T) {
	d := initialized(t, rgb565D0)
	_, err := surface.ChooseConfig(d, rgba8888)
	if !errors.Is(err, surface.ErrNoConfig) {
		t.Fatalf("got %v, want ErrNoConfig", err)
	}
	var e *surface.Error
	if !errors.As(err, &e) || e.Kind != surface.KindConfig {
		t.Errorf("got %v, want a KindConfig error", err)
	}
}

func TestChooseConfigNoExactMatch(t *testing.T) {
	// 8888 passes the coarse filter for 565 but its channels differ.
	d := initialized(t, rgba8888, rgb888)
	_, err := surface.ChooseConfig(d, surface.DefaultPixelFormat)
	if !errors.Is(err, surface.ErrNoConfig) {
		t.Fatalf("got %v, want ErrNoConfig", err)
	}
}

func TestChooseConfigDriverFailure(t *testing.T) {
	d := initialized(t, rgb565)
	d.FailNext(surfacetest.OpChooseConfigs, surface.BadDisplay)
	_, err := surface.ChooseConfig(d, surface.DefaultPixelFormat)
	if !errors.Is(err, surface.BadDisplay) {
		t.Fatalf("got %v, want EGL_BAD_DISPLAY", err)
	}
	if errors.Is(err, surface.ErrNoConfig) {
		t.Error("driver failure reported as ErrNoConfig")
	}
}

func TestChooseConfigConstraints(t *testing.T) {
	offered := []surface.PixelFormat{rgba8888, rgb888, rgb565D0, rgb565, rgb565D24,
		{Red: 8, Green: 8, Blue: 8, Alpha: 8},
		{Red: 4, Green: 4, Blue: 4, Alpha: 4, Depth: 16, Stencil: 4},
	}
	d := initialized(t, offered...)
	sizes := []int{0, 4, 5, 6, 8}
	depths := []int{0, 16, 24}
	for _, r := range sizes {
		for _, a := range sizes {
			for _, depth := range depths {
				for _, stencil := range []int{0, 4, 8} {
					want := surface.PixelFormat{Red: r, Green: r, Blue: r, Alpha: a, Depth: depth, Stencil: stencil}
					cfg, err := surface.ChooseConfig(d, want)
					if err != nil {
						if !errors.Is(err, surface.ErrNoConfig) {
							t.Fatalf("%v: %v", want, err)
						}
						continue
					}
					got := surface.ReadPixelFormat(d, cfg)
					if got.Red != want.Red || got.Green != want.Green || got.Blue != want.Blue || got.Alpha != want.Alpha {
						t.Errorf("%v: chose %v with different channels", want, got)
					}
					if got.Depth < want.Depth || got.Stencil < want.Stencil {
						t.Errorf("%v: chose %v with too small buffers", want, got)
					}
				}
			}
		}
	}
}

func TestCustomChooser(t *testing.T) {
	d := surfacetest.NewDisplay(rgba8888, rgb565)
	m := surface.NewManager(d, surface.Chooser(surface.ComponentSizeChooser{Format: rgba8888}))
	if err := m.Initialize(); err != nil {
		t.Fatal(err)
	}
	if _, f := m.Config(); f != rgba8888 {
		t.Errorf("bound %v, want %v", f, rgba8888)
	}
}
