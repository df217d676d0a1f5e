// Package device defines the accelerator memory capability consumed by
// synced buffers, plus a simulated device for hosts without a GPU.
package device

import "errors"

var (
	// ErrNoDevice is returned when no accelerator is present in the process.
	ErrNoDevice = errors.New("device: no device available")
	// ErrSizeMismatch is returned when a copy does not fit its destination.
	ErrSizeMismatch = errors.New("device: copy size mismatch")
	// ErrForeignBuffer is returned when a buffer from another device is passed in.
	ErrForeignBuffer = errors.New("device: buffer does not belong to this device")
	// ErrReleased is returned by operations on a released device or buffer.
	ErrReleased = errors.New("device: released")
)

// Buffer is an opaque handle to device-resident memory.
type Buffer interface {
	// Size returns the usable byte length of the buffer.
	Size() int
}

// Device allocates device memory and copies between host and device.
//
// Copies are synchronous: when a copy returns, the destination holds the
// transferred bytes. Implementations may block while a transfer completes.
type Device interface {
	Name() string
	Alloc(size int) (Buffer, error)
	Free(b Buffer) error
	// CopyHostToDevice copies len(src) bytes into the start of dst.
	CopyHostToDevice(dst Buffer, src []byte) error
	// CopyDeviceToHost copies len(dst) bytes from the start of src.
	CopyDeviceToHost(dst []byte, src Buffer) error
}
