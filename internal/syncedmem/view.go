package syncedmem

import "unsafe"

// View reinterprets b as a slice of T without copying.
// Trailing bytes that do not fill a whole element are excluded.
func View[T any](b []byte) []T {
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if elem == 0 || len(b) < elem {
		return nil
	}
	n := len(b) / elem
	//nolint:gosec // unsafe.Slice for zero-copy access, bounded by len(b)
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}

// Bytes reinterprets s as its underlying bytes without copying.
func Bytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	//nolint:gosec // unsafe.Slice for zero-copy access, bounded by len(s)
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
