//go:build unix

package host

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// PageAllocator maps anonymous private pages for each allocation.
// Buffers of at least HugePageSize are advised for transparent huge pages
// where the kernel supports it.
type PageAllocator struct{}

// Default returns the platform host allocator. Its memory lives outside the
// Go heap and is returned only by Free.
func Default() Allocator {
	return PageAllocator{}
}

// Alloc maps size bytes of zeroed, page-aligned memory.
func (PageAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size == 0 {
		return []byte{}, nil
	}
	b, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("host: mmap %d bytes: %w", size, err)
	}
	if size >= HugePageSize {
		adviseHugePages(b)
	}
	return b, nil
}

// Free unmaps a slice returned by Alloc.
func (PageAllocator) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b); err != nil {
		return fmt.Errorf("host: munmap %d bytes: %w", len(b), err)
	}
	return nil
}

// Name returns the allocator name.
func (PageAllocator) Name() string { return "mmap" }
