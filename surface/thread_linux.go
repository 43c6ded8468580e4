// SPDX-License-Identifier: Unlicense OR MIT

package surface

import "golang.org/x/sys/unix"

func threadID() int {
	return unix.Gettid()
}
