//go:build !unix && !windows

package host

// PageAllocator falls back to the Go heap on platforms without a page
// mapping API.
type PageAllocator = GoAllocator

// Default returns the platform host allocator.
func Default() Allocator {
	return GoAllocator{}
}
