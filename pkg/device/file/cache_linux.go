//go:build linux

package file

import (
	"os"

	"golang.org/x/sys/unix"
)

// dropPageCache asks the kernel to evict the cached pages of f, so the
// next read is served by the medium instead of memory.
func dropPageCache(f *os.File) error {
	return unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_DONTNEED)
}
