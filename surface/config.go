// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"fmt"
)

// PixelFormat describes the channel, depth and stencil bit counts of a
// configuration.
type PixelFormat struct {
	Red, Green, Blue, Alpha int
	Depth, Stencil          int
}

// DefaultPixelFormat is RGB565 with a 16 bit depth buffer.
var DefaultPixelFormat = PixelFormat{Red: 5, Green: 6, Blue: 5, Alpha: 0, Depth: 16, Stencil: 0}

func (f PixelFormat) String() string {
	return fmt.Sprintf("R%dG%dB%dA%d D%d S%d", f.Red, f.Green, f.Blue, f.Alpha, f.Depth, f.Stencil)
}

// ConfigChooser picks the configuration a Manager binds for its
// lifetime.
type ConfigChooser interface {
	ChooseConfig(d Driver) (Config, error)
}

// ComponentSizeChooser accepts the first configuration, in driver
// order, whose color channels equal the requested sizes exactly and
// whose depth and stencil buffers are at least as large as requested.
type ComponentSizeChooser struct {
	Format PixelFormat
}

func (c ComponentSizeChooser) ChooseConfig(d Driver) (Config, error) {
	return ChooseConfig(d, c.Format)
}

// ChooseConfig is ComponentSizeChooser{want}.ChooseConfig(d).
func ChooseConfig(d Driver, want PixelFormat) (Config, error) {
	attribs := []int32{
		AttribRedSize, int32(want.Red),
		AttribGreenSize, int32(want.Green),
		AttribBlueSize, int32(want.Blue),
		AttribAlphaSize, int32(want.Alpha),
		AttribDepthSize, int32(want.Depth),
		AttribStencilSize, int32(want.Stencil),
		AttribRenderableType, OpenGLES2Bit,
		AttribNone,
	}
	cfgs, err := d.ChooseConfigs(attribs)
	if err != nil {
		return NoConfig, &Error{Op: "eglChooseConfig", Kind: KindConfig, Err: err}
	}
	if len(cfgs) == 0 {
		return NoConfig, &Error{Op: "eglChooseConfig", Kind: KindConfig, Err: fmt.Errorf("%w: no candidates for %v", ErrNoConfig, want)}
	}
	for _, cfg := range cfgs {
		got := ReadPixelFormat(d, cfg)
		if got.Depth < want.Depth || got.Stencil < want.Stencil {
			continue
		}
		if got.Red == want.Red && got.Green == want.Green && got.Blue == want.Blue && got.Alpha == want.Alpha {
			return cfg, nil
		}
	}
	return NoConfig, &Error{Op: "chooseConfig", Kind: KindConfig, Err: fmt.Errorf("%w: none of %d candidates match %v", ErrNoConfig, len(cfgs), want)}
}

// ReadPixelFormat queries the bit counts of cfg. Attributes the driver
// fails to report read as zero.
func ReadPixelFormat(d Driver, cfg Config) PixelFormat {
	attr := func(a int32) int {
		v, ok := d.ConfigAttrib(cfg, a)
		if !ok {
			return 0
		}
		return int(v)
	}
	return PixelFormat{
		Red:     attr(AttribRedSize),
		Green:   attr(AttribGreenSize),
		Blue:    attr(AttribBlueSize),
		Alpha:   attr(AttribAlphaSize),
		Depth:   attr(AttribDepthSize),
		Stencil: attr(AttribStencilSize),
	}
}
