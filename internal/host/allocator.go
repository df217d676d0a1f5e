// Package host provides host memory allocators for synced buffers.
//
// An Allocator hands out byte slices suitable for repeated high-throughput
// access. The platform allocator is selected at build time: page-aligned
// anonymous mappings on unix and windows, the Go heap elsewhere.
package host

import (
	"errors"
	"fmt"
)

// HugePageSize is the large-page granularity host buffers are advised for.
const HugePageSize = 2 * 1024 * 1024

// ErrInvalidSize is returned for negative allocation sizes.
var ErrInvalidSize = errors.New("host: invalid allocation size")

// Allocator allocates and frees host memory.
//
// Free must be passed the exact slice returned by Alloc.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte) error
}

// GoAllocator allocates from the Go heap. Free is a no-op; the garbage
// collector reclaims the memory once it is unreachable.
type GoAllocator struct{}

// Alloc returns a zeroed slice of size bytes.
func (GoAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return make([]byte, size), nil
}

// Free does nothing.
func (GoAllocator) Free([]byte) error { return nil }

// Name returns the allocator name.
func (GoAllocator) Name() string { return "go" }
