// SPDX-License-Identifier: Unlicense OR MIT

package surface

import syscall "golang.org/x/sys/windows"

func threadID() int {
	return int(syscall.GetCurrentThreadId())
}
