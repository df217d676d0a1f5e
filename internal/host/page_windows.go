//go:build windows

package host

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// PageAllocator commits private pages with VirtualAlloc for each allocation.
type PageAllocator struct{}

// Default returns the platform host allocator. Its memory lives outside the
// Go heap and is returned only by Free.
func Default() Allocator {
	return PageAllocator{}
}

// Alloc commits size bytes of zeroed, page-aligned memory.
func (PageAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	if size == 0 {
		return []byte{}, nil
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("host: VirtualAlloc %d bytes: %w", size, err)
	}
	//nolint:govet,gosec // addr is a committed region of exactly size bytes owned by this process
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// Free releases a slice returned by Alloc.
func (PageAllocator) Free(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if err := windows.VirtualFree(uintptr(unsafe.Pointer(&b[0])), 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("host: VirtualFree %d bytes: %w", len(b), err)
	}
	return nil
}

// Name returns the allocator name.
func (PageAllocator) Name() string { return "virtualalloc" }
