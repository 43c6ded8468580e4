// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"xyzw.us/glsurface/surface"
)

// request is the probe configuration, read from YAML.
type request struct {
	Format        pixelFormat   `yaml:"format"`
	ClientVersion int           `yaml:"client_version,omitempty"`
	SingleThread  *bool         `yaml:"single_thread,omitempty"`
	Contexts      int           `yaml:"contexts,omitempty"`
	Simulate      simulation    `yaml:"simulate"`
	Configs       []pixelFormat `yaml:"configs,omitempty"`
}

type pixelFormat struct {
	Red     int `yaml:"red"`
	Green   int `yaml:"green"`
	Blue    int `yaml:"blue"`
	Alpha   int `yaml:"alpha"`
	Depth   int `yaml:"depth"`
	Stencil int `yaml:"stencil"`
}

// simulation describes the host events replayed against the simulated
// display.
type simulation struct {
	Frames  int `yaml:"frames,omitempty"`
	Resizes int `yaml:"resizes,omitempty"`
	// Rebinds is the number of surface replacements.
	Rebinds int `yaml:"rebinds,omitempty"`
}

func (f pixelFormat) format() surface.PixelFormat {
	return surface.PixelFormat{
		Red: f.Red, Green: f.Green, Blue: f.Blue, Alpha: f.Alpha,
		Depth: f.Depth, Stencil: f.Stencil,
	}
}

func defaultRequest() *request {
	d := surface.DefaultPixelFormat
	return &request{
		Format:        pixelFormat{Red: d.Red, Green: d.Green, Blue: d.Blue, Alpha: d.Alpha, Depth: d.Depth, Stencil: d.Stencil},
		ClientVersion: 2,
		Contexts:      surface.MaxContexts - 1,
		Simulate:      simulation{Frames: 60, Resizes: 3, Rebinds: 1},
		Configs: []pixelFormat{
			{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8},
			{Red: 5, Green: 6, Blue: 5, Depth: 16},
			{Red: 5, Green: 6, Blue: 5},
		},
	}
}

// loadRequest reads path over the defaults. An empty path yields the
// defaults.
func loadRequest(path string) (*request, error) {
	req := defaultRequest()
	if path == "" {
		return req, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return req, nil
}

func (r *request) validate() error {
	for _, v := range []int{r.Format.Red, r.Format.Green, r.Format.Blue, r.Format.Alpha, r.Format.Depth, r.Format.Stencil} {
		if v < 0 {
			return errors.New("negative bit count in format")
		}
	}
	if r.ClientVersion <= 0 {
		return fmt.Errorf("invalid client_version %d", r.ClientVersion)
	}
	if r.Contexts < 0 || r.Contexts >= surface.MaxContexts {
		return fmt.Errorf("contexts must be between 0 and %d", surface.MaxContexts-1)
	}
	if r.Simulate.Frames < 0 || r.Simulate.Resizes < 0 || r.Simulate.Rebinds < 0 {
		return errors.New("negative simulation count")
	}
	return nil
}

func (r *request) options() []surface.Option {
	opts := []surface.Option{
		surface.Format(r.Format.format()),
		surface.ClientVersion(r.ClientVersion),
	}
	if r.SingleThread != nil {
		opts = append(opts, surface.SingleThread(*r.SingleThread))
	}
	return opts
}
