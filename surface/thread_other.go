// SPDX-License-Identifier: Unlicense OR MIT

//go:build !linux && !windows
// +build !linux,!windows

package surface

// threadID is unknown on this platform.
func threadID() int {
	return 0
}
