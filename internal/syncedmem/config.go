package syncedmem

import (
	"github.com/born-ml/syncedmem/internal/device"
	"github.com/born-ml/syncedmem/internal/host"
	"go.uber.org/zap"
)

// Config controls how a SyncedBuffer allocates and reports.
type Config struct {
	// Host allocates host and private-layout memory.
	Host host.Allocator
	// Device provides device memory. Nil means no device in this process;
	// construction still succeeds but device accessors are fatal.
	Device device.Device
	// Logger receives debug events and fatal reports.
	Logger *zap.Logger
	// Descriptor and Converter establish the private layout backend.
	// Both must be set or both left nil.
	Descriptor any
	Converter  Converter
}

// DefaultConfig returns the platform host allocator, no device, and the
// package logger. Memory from the platform allocator is not garbage
// collected; buffers must be released. Set Host to host.GoAllocator{} for
// buffers that may be dropped without Release.
func DefaultConfig() Config {
	return Config{
		Host:   host.Default(),
		Logger: Logger(),
	}
}
