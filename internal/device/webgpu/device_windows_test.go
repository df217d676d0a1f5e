//go:build windows

package webgpu

import (
	"testing"

	"github.com/born-ml/syncedmem/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T) *Device {
	t.Helper()
	if !IsAvailable() {
		t.Skip("WebGPU not available")
	}
	d, err := New()
	require.NoError(t, err)
	t.Cleanup(d.Release)
	return d
}

func TestDeviceRoundTrip(t *testing.T) {
	d := newTestDevice(t)

	buf, err := d.Alloc(10)
	require.NoError(t, err)
	assert.Equal(t, 10, buf.Size())

	src := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	require.NoError(t, d.CopyHostToDevice(buf, src))

	dst := make([]byte, 10)
	require.NoError(t, d.CopyDeviceToHost(dst, buf))
	assert.Equal(t, src, dst)

	stats := d.MemoryStats()
	assert.Equal(t, uint64(1), stats.Uploads)
	assert.Equal(t, uint64(1), stats.Downloads)
	assert.Equal(t, int64(1), stats.ActiveBuffers)

	require.NoError(t, d.Free(buf))
	assert.Equal(t, int64(0), d.MemoryStats().ActiveBuffers)
}

func TestDevicePoolReuse(t *testing.T) {
	d := newTestDevice(t)

	a, err := d.Alloc(1024)
	require.NoError(t, err)
	require.NoError(t, d.Free(a))

	b, err := d.Alloc(1000)
	require.NoError(t, err)
	defer func() { _ = d.Free(b) }()

	pool := d.MemoryStats().Pool
	assert.Equal(t, uint64(1), pool.Hits)
	assert.Equal(t, uint64(1), pool.Misses)
	assert.Equal(t, 1000, b.Size())
}

func TestDeviceRejectsOversizedCopy(t *testing.T) {
	d := newTestDevice(t)

	buf, err := d.Alloc(8)
	require.NoError(t, err)
	defer func() { _ = d.Free(buf) }()

	assert.ErrorIs(t, d.CopyHostToDevice(buf, make([]byte, 12)), device.ErrSizeMismatch)
	assert.ErrorIs(t, d.CopyDeviceToHost(make([]byte, 3), buf), device.ErrSizeMismatch)
}

func TestDeviceFreedBuffer(t *testing.T) {
	d := newTestDevice(t)

	buf, err := d.Alloc(8)
	require.NoError(t, err)
	require.NoError(t, d.Free(buf))
	assert.ErrorIs(t, d.Free(buf), device.ErrReleased)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, classSmall, classify(2048))
	assert.Equal(t, classMedium, classify(512*1024))
	assert.Equal(t, classLarge, classify(2*1024*1024))
}
