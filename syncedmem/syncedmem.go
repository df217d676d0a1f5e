// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package syncedmem

import (
	"github.com/born-ml/syncedmem/internal/device/webgpu"
	"github.com/born-ml/syncedmem/internal/host"
	internal "github.com/born-ml/syncedmem/internal/syncedmem"
	"go.uber.org/zap"
)

// SyncedBuffer is a byte buffer mirrored lazily between host, device, and
// private-layout memory.
type SyncedBuffer = internal.SyncedBuffer

// Config controls allocation, logging, and the private layout backend.
type Config = internal.Config

// Converter materializes a private-layout buffer into host layout.
type Converter = internal.Converter

// ConverterFunc adapts a function to Converter.
type ConverterFunc = internal.ConverterFunc

// Head identifies which locations hold current data.
type Head = internal.Head

// Synchronization states.
const (
	Uninitialized = internal.Uninitialized
	HeadAtCPU     = internal.HeadAtCPU
	HeadAtGPU     = internal.HeadAtGPU
	Synced        = internal.Synced
	HeadAtPrv     = internal.HeadAtPrv
	SyncedPrv     = internal.SyncedPrv
)

// Ownership records whether a slot's memory is owned by the buffer.
type Ownership = internal.Ownership

// Slot ownership values.
const (
	NotAllocated     = internal.NotAllocated
	OwnedInternally  = internal.OwnedInternally
	BorrowedExternal = internal.BorrowedExternal
)

// Slot names one of the three memory locations.
type Slot = internal.Slot

// Memory slots.
const (
	HostSlot    = internal.HostSlot
	DeviceSlot  = internal.DeviceSlot
	PrivateSlot = internal.PrivateSlot
)

// Error is the panic value of a fatal failure.
type Error = internal.Error

// Kind classifies a fatal failure.
type Kind = internal.Kind

// Failure kinds.
const (
	KindAllocation   = internal.KindAllocation
	KindCopy         = internal.KindCopy
	KindPrecondition = internal.KindPrecondition
)

// Contract violations carried as Error.Cause.
var (
	ErrNegativeSize       = internal.ErrNegativeSize
	ErrNilData            = internal.ErrNilData
	ErrShortData          = internal.ErrShortData
	ErrNoPrivateBackend   = internal.ErrNoPrivateBackend
	ErrHalfPrivateBackend = internal.ErrHalfPrivateBackend
	ErrNoPrivateData      = internal.ErrNoPrivateData
	ErrPrivateHeld        = internal.ErrPrivateHeld
	ErrAliasedData        = internal.ErrAliasedData
)

// Allocator provides host memory.
type Allocator = host.Allocator

// GoAllocator allocates host memory on the Go heap.
type GoAllocator = host.GoAllocator

// PageAllocator maps host memory directly from the operating system.
type PageAllocator = host.PageAllocator

// New creates a buffer of size bytes with DefaultConfig.
// No memory is allocated until the first access. Call Release when done;
// the default page allocator is not garbage collected.
func New(size int) *SyncedBuffer {
	return internal.New(size)
}

// NewWithConfig creates a buffer of size bytes using cfg.
func NewWithConfig(size int, cfg Config) *SyncedBuffer {
	return internal.NewWithConfig(size, cfg)
}

// DefaultConfig returns the platform host allocator, no device, and the
// package logger. Use GoAllocator as Host for buffers that may be dropped
// without Release.
func DefaultConfig() Config {
	return internal.DefaultConfig()
}

// DefaultAllocator returns the platform page allocator.
func DefaultAllocator() Allocator {
	return host.Default()
}

// SetLogger installs l for buffers created afterwards with DefaultConfig
// and for the WebGPU device. A nil logger disables logging.
func SetLogger(l *zap.Logger) {
	internal.SetLogger(l)
	webgpu.SetLogger(l)
}

// View reinterprets b as a slice of T without copying.
func View[T any](b []byte) []T {
	return internal.View[T](b)
}

// Bytes reinterprets s as its underlying bytes without copying.
func Bytes[T any](s []T) []byte {
	return internal.Bytes(s)
}
