//go:build windows

package webgpu

import (
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// sizeClass buckets device buffers for reuse.
type sizeClass int

const (
	classSmall  sizeClass = iota // < 4KB
	classMedium                  // 4KB-1MB
	classLarge                   // >= 1MB
)

const (
	smallThreshold  = 4 * 1024
	mediumThreshold = 1024 * 1024
	maxPooled       = 100 // per class
)

const storageUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst

type pooledBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

// bufferPool recycles storage buffers freed by synced buffers so repeated
// allocate/free cycles of similar sizes do not reach the driver.
type bufferPool struct {
	device  *wgpu.Device
	classes [3][]pooledBuffer
	stats   PoolStats
	mu      sync.Mutex
}

func newBufferPool(device *wgpu.Device) *bufferPool {
	p := &bufferPool{device: device}
	for i := range p.classes {
		p.classes[i] = make([]pooledBuffer, 0, maxPooled)
	}
	return p
}

// acquire returns a buffer of at least size bytes, reusing a pooled one
// when the size class has a large enough entry.
func (p *bufferPool) acquire(size uint64) (*wgpu.Buffer, uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := classify(size)
	for i, pb := range p.classes[c] {
		if pb.size >= size {
			p.classes[c] = append(p.classes[c][:i], p.classes[c][i+1:]...)
			p.stats.Hits++
			p.stats.Pooled--
			return pb.buffer, pb.size
		}
	}

	p.stats.Misses++
	p.stats.Created++
	buffer := p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: storageUsage,
		Size:  size,
	})
	return buffer, size
}

// release returns a buffer to its class, or releases it when the class is full.
func (p *bufferPool) release(buffer *wgpu.Buffer, size uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Returned++
	c := classify(size)
	if len(p.classes[c]) >= maxPooled {
		buffer.Release()
		return
	}
	p.classes[c] = append(p.classes[c], pooledBuffer{buffer: buffer, size: size})
	p.stats.Pooled++
}

// clear releases every pooled buffer.
func (p *bufferPool) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for c := range p.classes {
		for _, pb := range p.classes[c] {
			pb.buffer.Release()
		}
		p.classes[c] = p.classes[c][:0]
	}
	p.stats.Pooled = 0
}

func (p *bufferPool) snapshot() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func classify(size uint64) sizeClass {
	switch {
	case size < smallThreshold:
		return classSmall
	case size < mediumThreshold:
		return classMedium
	default:
		return classLarge
	}
}
