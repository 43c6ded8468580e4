// SPDX-License-Identifier: Unlicense OR MIT

package surface

// Options configure a Manager.
type Options struct {
	// Chooser selects the configuration. It defaults to a
	// ComponentSizeChooser for Format.
	Chooser ConfigChooser
	Format  PixelFormat
	// ClientVersion is the EGL_CONTEXT_CLIENT_VERSION of every context.
	ClientVersion int
	// SingleThread makes MakeCurrent(Default) bind the primary context.
	SingleThread bool
}

// Option changes Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Format:        DefaultPixelFormat,
		ClientVersion: 2,
		SingleThread:  true,
	}
}

// Format requests a pixel format for the default chooser.
func Format(f PixelFormat) Option {
	return func(o *Options) {
		o.Format = f
	}
}

// Chooser replaces the configuration chooser.
func Chooser(c ConfigChooser) Option {
	return func(o *Options) {
		o.Chooser = c
	}
}

// ClientVersion sets the OpenGL ES major version requested for new
// contexts.
func ClientVersion(v int) Option {
	if v <= 0 {
		panic("client version must be positive")
	}
	return func(o *Options) {
		o.ClientVersion = v
	}
}

// SingleThread sets whether the renderer runs on a single thread. The
// default is true.
func SingleThread(single bool) Option {
	return func(o *Options) {
		o.SingleThread = single
	}
}
