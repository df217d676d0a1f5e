//go:build windows

package webgpu

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/born-ml/syncedmem/internal/device"
	"github.com/go-webgpu/webgpu/wgpu"
	"go.uber.org/zap"
)

var _ device.Device = (*Device)(nil)

// Buffer is a device buffer allocated by Device.
type Buffer struct {
	buffer *wgpu.Buffer
	size   int    // bytes requested by the caller
	alloc  uint64 // bytes backing the buffer (aligned, possibly pooled larger)
	owner  *Device
}

// Size returns the usable byte length.
func (b *Buffer) Size() int { return b.size }

// Raw returns the underlying WebGPU buffer for binding into compute passes.
func (b *Buffer) Raw() *wgpu.Buffer { return b.buffer }

// Device provides device memory on a WebGPU adapter.
type Device struct {
	instance    *wgpu.Instance
	adapter     *wgpu.Adapter
	device      *wgpu.Device
	queue       *wgpu.Queue
	adapterInfo *wgpu.AdapterInfo

	pool *bufferPool

	stats struct {
		allocated uint64
		peak      uint64
		active    int64
		uploads   uint64
		downloads uint64
		mu        sync.Mutex
	}
}

// New opens the default high-performance adapter.
// Returns an error if WebGPU is not available or initialization fails.
func New() (d *Device, err error) {
	// wgpu panics when the native library cannot be loaded.
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = fmt.Errorf("%w: webgpu native library not available: %v", device.ErrNoDevice, r)
		}
	}()

	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, fmt.Errorf("%w: webgpu: request adapter: %w", device.ErrNoDevice, err)
	}

	info := adapter.GetInfo()

	dev, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: webgpu: request device: %w", device.ErrNoDevice, err)
	}

	queue := dev.GetQueue()
	if queue == nil {
		dev.Release()
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("%w: webgpu: no queue", device.ErrNoDevice)
	}

	d = &Device{
		instance:    instance,
		adapter:     adapter,
		device:      dev,
		queue:       queue,
		adapterInfo: &info,
		pool:        newBufferPool(dev),
	}
	Logger().Debug("device opened", zap.String("adapter", d.Name()))
	return d, nil
}

// IsAvailable checks if a WebGPU adapter can be obtained on this system.
func IsAvailable() (available bool) {
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}

// Name returns the adapter name.
func (d *Device) Name() string {
	if d.adapterInfo != nil {
		return fmt.Sprintf("WebGPU (%s %s)", d.adapterInfo.Name, d.adapterInfo.VendorName)
	}
	return "WebGPU"
}

// Alloc returns a storage buffer of at least size bytes.
func (d *Device) Alloc(size int) (device.Buffer, error) {
	if d.device == nil {
		return nil, device.ErrReleased
	}
	if size < 0 {
		return nil, fmt.Errorf("webgpu: alloc of %d bytes", size)
	}
	want := max(alignCopy(size), 4)
	buffer, got := d.pool.acquire(want)
	if buffer == nil {
		return nil, fmt.Errorf("webgpu: CreateBuffer(%d) returned nil", want)
	}
	d.trackAlloc(got)
	return &Buffer{buffer: buffer, size: size, alloc: got, owner: d}, nil
}

// Free returns the buffer to the pool.
func (d *Device) Free(b device.Buffer) error {
	wb, err := d.own(b)
	if err != nil {
		return err
	}
	d.pool.release(wb.buffer, wb.alloc)
	d.trackRelease(wb.alloc)
	wb.buffer = nil
	return nil
}

// CopyHostToDevice uploads src into the start of dst through a mapped
// staging buffer. Queue ordering makes the upload visible to every later
// submission and read-back.
func (d *Device) CopyHostToDevice(dst device.Buffer, src []byte) error {
	wb, err := d.own(dst)
	if err != nil {
		return err
	}
	if err := checkRange(len(src), wb); err != nil {
		return err
	}
	if len(src) == 0 {
		return nil
	}

	size := alignCopy(len(src))
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageCopySrc,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})
	defer staging.Release()

	mapped := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice over the mapped range of exactly size bytes
	copy(unsafe.Slice((*byte)(mapped), size), src)
	staging.Unmap()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(staging, 0, wb.buffer, 0, size)
	d.queue.Submit(encoder.Finish(nil))

	d.stats.mu.Lock()
	d.stats.uploads++
	d.stats.mu.Unlock()
	return nil
}

// CopyDeviceToHost reads len(dst) bytes from the start of src.
// Storage buffers cannot be mapped, so the bytes go through a map-read
// staging buffer; the call returns once the mapping has completed.
func (d *Device) CopyDeviceToHost(dst []byte, src device.Buffer) error {
	wb, err := d.own(src)
	if err != nil {
		return err
	}
	if err := checkRange(len(dst), wb); err != nil {
		return err
	}
	if len(dst) == 0 {
		return nil
	}

	size := alignCopy(len(dst))
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(wb.buffer, 0, staging, 0, size)
	d.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(d.device, wgpu.MapModeRead, 0, size); err != nil {
		return fmt.Errorf("webgpu: map staging buffer: %w", err)
	}
	mapped := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice over the mapped range of exactly size bytes
	copy(dst, unsafe.Slice((*byte)(mapped), size))
	staging.Unmap()

	d.stats.mu.Lock()
	d.stats.downloads++
	d.stats.mu.Unlock()
	return nil
}

// MemoryStats returns current GPU memory usage statistics.
func (d *Device) MemoryStats() MemoryStats {
	d.stats.mu.Lock()
	s := MemoryStats{
		AllocatedBytes: d.stats.allocated,
		PeakBytes:      d.stats.peak,
		ActiveBuffers:  d.stats.active,
		Uploads:        d.stats.uploads,
		Downloads:      d.stats.downloads,
	}
	d.stats.mu.Unlock()

	if d.pool != nil {
		s.Pool = d.pool.snapshot()
	}
	return s
}

// Release releases all WebGPU resources.
// Buffers still held by callers become invalid.
func (d *Device) Release() {
	if d.pool != nil {
		d.pool.clear()
		d.pool = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

func (d *Device) own(b device.Buffer) (*Buffer, error) {
	wb, ok := b.(*Buffer)
	if !ok || wb.owner != d {
		return nil, device.ErrForeignBuffer
	}
	if wb.buffer == nil || d.device == nil {
		return nil, device.ErrReleased
	}
	return wb, nil
}

// checkRange rejects copies that would run past the buffer. Copies are
// rounded up to 4 bytes, so a partial copy must itself be 4-byte sized.
func checkRange(n int, wb *Buffer) error {
	if n > wb.size {
		return fmt.Errorf("%w: host %d > device %d", device.ErrSizeMismatch, n, wb.size)
	}
	if n != wb.size && n%4 != 0 {
		return fmt.Errorf("%w: partial copy of %d bytes is not 4-byte aligned", device.ErrSizeMismatch, n)
	}
	return nil
}

func (d *Device) trackAlloc(size uint64) {
	d.stats.mu.Lock()
	defer d.stats.mu.Unlock()

	d.stats.allocated += size
	d.stats.active++
	if d.stats.allocated > d.stats.peak {
		d.stats.peak = d.stats.allocated
	}
}

func (d *Device) trackRelease(size uint64) {
	d.stats.mu.Lock()
	defer d.stats.mu.Unlock()

	if d.stats.allocated >= size {
		d.stats.allocated -= size
	}
	d.stats.active--
}
