// SPDX-License-Identifier: Unlicense OR MIT

package surface

// Opaque handles owned by a Driver. The zero value of each is the
// corresponding EGL_NO_* value.
type (
	Config       uintptr
	Context      uintptr
	Surface      uintptr
	NativeWindow uintptr
)

const (
	NoConfig  Config  = 0
	NoContext Context = 0
	NoSurface Surface = 0
)

// Driver is a single EGL display connection. Implementations report
// failures as Code values, possibly wrapped.
type Driver interface {
	// Initialize acquires and version-negotiates the display.
	Initialize() (major, minor int, err error)
	// ChooseConfigs returns every configuration matching attribs, in
	// driver order. An empty result is not an error.
	ChooseConfigs(attribs []int32) ([]Config, error)
	ConfigAttrib(cfg Config, attrib int32) (int32, bool)
	CreateContext(cfg Config, share Context, attribs []int32) (Context, error)
	DestroyContext(ctx Context) error
	CreateWindowSurface(cfg Config, win NativeWindow) (Surface, error)
	DestroySurface(surf Surface) error
	MakeCurrent(draw, read Surface, ctx Context) error
	SwapBuffers(surf Surface) error
	// WaitClient blocks until client rendering to the current surface
	// is complete.
	WaitClient() error
	Terminate() error
	ReleaseThread() error
}

// EGL attribute names and values used by the manager.
const (
	AttribBufferSize           = 0x3020
	AttribAlphaSize            = 0x3021
	AttribBlueSize             = 0x3022
	AttribGreenSize            = 0x3023
	AttribRedSize              = 0x3024
	AttribDepthSize            = 0x3025
	AttribStencilSize          = 0x3026
	AttribNativeVisualID       = 0x302e
	AttribNone                 = 0x3038
	AttribRenderableType       = 0x3040
	AttribContextClientVersion = 0x3098

	OpenGLES2Bit = 0x4
)
