//go:build linux

package host

import "golang.org/x/sys/unix"

// adviseHugePages asks the kernel to back b with transparent huge pages.
// The advice is best effort; kernels built without THP reject it.
func adviseHugePages(b []byte) {
	_ = unix.Madvise(b, unix.MADV_HUGEPAGE)
}
