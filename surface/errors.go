// SPDX-License-Identifier: Unlicense OR MIT

package surface

import (
	"errors"
	"fmt"
)

// Code is an EGL error number as returned by eglGetError.
type Code int32

const (
	Success           Code = 0x3000
	NotInitialized    Code = 0x3001
	BadAccess         Code = 0x3002
	BadAlloc          Code = 0x3003
	BadAttribute      Code = 0x3004
	BadConfig         Code = 0x3005
	BadContext        Code = 0x3006
	BadCurrentSurface Code = 0x3007
	BadDisplay        Code = 0x3008
	BadMatch          Code = 0x3009
	BadNativePixmap   Code = 0x300a
	BadNativeWindow   Code = 0x300b
	BadParameter      Code = 0x300c
	BadSurface        Code = 0x300d
	ContextLost       Code = 0x300e
)

var codeNames = map[Code]string{
	Success:           "EGL_SUCCESS",
	NotInitialized:    "EGL_NOT_INITIALIZED",
	BadAccess:         "EGL_BAD_ACCESS",
	BadAlloc:          "EGL_BAD_ALLOC",
	BadAttribute:      "EGL_BAD_ATTRIBUTE",
	BadConfig:         "EGL_BAD_CONFIG",
	BadContext:        "EGL_BAD_CONTEXT",
	BadCurrentSurface: "EGL_BAD_CURRENT_SURFACE",
	BadDisplay:        "EGL_BAD_DISPLAY",
	BadMatch:          "EGL_BAD_MATCH",
	BadNativePixmap:   "EGL_BAD_NATIVE_PIXMAP",
	BadNativeWindow:   "EGL_BAD_NATIVE_WINDOW",
	BadParameter:      "EGL_BAD_PARAMETER",
	BadSurface:        "EGL_BAD_SURFACE",
	ContextLost:       "EGL_CONTEXT_LOST",
}

func (c Code) Error() string {
	if n, ok := codeNames[c]; ok {
		return fmt.Sprintf("%s (0x%x)", n, int32(c))
	}
	return fmt.Sprintf("EGL error 0x%x", int32(c))
}

// Kind classifies fatal manager errors.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInit is a display or primary context failure during
	// initialization.
	KindInit
	// KindConfig is a configuration selection failure.
	KindConfig
	// KindDriver is an unclassified driver failure after
	// initialization.
	KindDriver
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindConfig:
		return "config"
	case KindDriver:
		return "driver"
	default:
		return "unknown"
	}
}

// Error is a fatal failure. A Manager that returned an Error of
// KindInit or KindConfig must be discarded.
type Error struct {
	// Op is the driver call or manager operation that failed.
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

var (
	// ErrNoConfig reports that the driver offered no configuration
	// satisfying the requested pixel format.
	ErrNoConfig       = errors.New("no matching EGL configuration")
	ErrNotInitialized = errors.New("manager not initialized")
	ErrDestroyed      = errors.New("manager destroyed")
)

// IsFatal reports whether err is an escalated driver or initialization
// failure.
func IsFatal(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// codeOf extracts the EGL error number from err, if any.
func codeOf(err error) (Code, bool) {
	var c Code
	if errors.As(err, &c) {
		return c, true
	}
	return 0, false
}
