//go:build !windows

package webgpu

import "github.com/born-ml/syncedmem/internal/device"

var _ device.Device = (*Device)(nil)

// Device is unavailable on this platform; every operation reports
// device.ErrNoDevice.
type Device struct{}

// New reports that no WebGPU device can be opened on this platform.
func New() (*Device, error) {
	return nil, device.ErrNoDevice
}

// IsAvailable returns false on this platform.
func IsAvailable() bool { return false }

// Name returns the backend name.
func (*Device) Name() string { return "WebGPU (unavailable)" }

// Alloc reports device.ErrNoDevice.
func (*Device) Alloc(int) (device.Buffer, error) { return nil, device.ErrNoDevice }

// Free reports device.ErrNoDevice.
func (*Device) Free(device.Buffer) error { return device.ErrNoDevice }

// CopyHostToDevice reports device.ErrNoDevice.
func (*Device) CopyHostToDevice(device.Buffer, []byte) error { return device.ErrNoDevice }

// CopyDeviceToHost reports device.ErrNoDevice.
func (*Device) CopyDeviceToHost([]byte, device.Buffer) error { return device.ErrNoDevice }

// MemoryStats returns zero statistics.
func (*Device) MemoryStats() MemoryStats { return MemoryStats{} }

// Release does nothing.
func (*Device) Release() {}
