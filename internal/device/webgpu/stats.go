package webgpu

// MemoryStats represents GPU memory usage statistics.
type MemoryStats struct {
	// Bytes currently held by live device buffers.
	AllocatedBytes uint64
	// Peak of AllocatedBytes since the device was created.
	PeakBytes uint64
	// Number of live device buffers.
	ActiveBuffers int64
	// Buffer pool statistics.
	Pool PoolStats
	// Completed transfers.
	Uploads   uint64
	Downloads uint64
}

// PoolStats describes buffer pool reuse.
type PoolStats struct {
	Created  uint64
	Returned uint64
	Hits     uint64
	Misses   uint64
	Pooled   int
}

// alignCopy rounds n up to the 4-byte granularity WebGPU requires for
// buffer sizes and copy ranges.
func alignCopy(n int) uint64 {
	return (uint64(n) + 3) &^ 3 //nolint:gosec // G115: n is a non-negative byte count
}
