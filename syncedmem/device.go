// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package syncedmem

import (
	"github.com/born-ml/syncedmem/internal/device"
	"github.com/born-ml/syncedmem/internal/device/webgpu"
)

// Device allocates device memory and copies between host and device.
type Device = device.Device

// Buffer is an opaque handle to device memory.
type Buffer = device.Buffer

// Sim is a device backed by host RAM that counts every allocation and copy.
type Sim = device.Sim

// SimStats counts the operations a Sim has served.
type SimStats = device.Stats

// WebGPUDevice is a device backed by a WebGPU adapter.
type WebGPUDevice = webgpu.Device

// WebGPUMemoryStats reports WebGPU allocation and transfer counters.
type WebGPUMemoryStats = webgpu.MemoryStats

// Device errors.
var (
	ErrNoDevice      = device.ErrNoDevice
	ErrSizeMismatch  = device.ErrSizeMismatch
	ErrForeignBuffer = device.ErrForeignBuffer
	ErrReleased      = device.ErrReleased
)

// NewSim returns a simulated device.
func NewSim() *Sim {
	return device.NewSim()
}

// OpenWebGPU opens the default WebGPU adapter.
// Returns ErrNoDevice when no adapter is available. Call Release when done.
func OpenWebGPU() (*WebGPUDevice, error) {
	return webgpu.New()
}

// WebGPUAvailable reports whether a WebGPU adapter can be opened.
func WebGPUAvailable() bool {
	return webgpu.IsAvailable()
}

// OpenDevice returns a WebGPU device when one is available and a Sim
// otherwise. The returned release function frees the WebGPU device.
func OpenDevice() (Device, func()) {
	gpu, err := webgpu.New()
	if err != nil {
		return device.NewSim(), func() {}
	}
	return gpu, gpu.Release
}
