package syncedmem

import (
	"testing"

	"github.com/born-ml/syncedmem/internal/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingAllocator is a Go-heap allocator that records every call.
type recordingAllocator struct {
	allocs    int
	frees     [][]byte
	failAlloc error
	failFree  error
}

func (a *recordingAllocator) Alloc(size int) ([]byte, error) {
	if a.failAlloc != nil {
		return nil, a.failAlloc
	}
	a.allocs++
	return make([]byte, size), nil
}

func (a *recordingAllocator) Free(b []byte) error {
	if a.failFree != nil {
		return a.failFree
	}
	a.frees = append(a.frees, b)
	return nil
}

// freed reports whether p was passed to Free.
func (a *recordingAllocator) freed(p []byte) bool {
	for _, f := range a.frees {
		if len(f) > 0 && len(p) > 0 && &f[0] == &p[0] {
			return true
		}
	}
	return false
}

// reverseConverter declares host layout as the private bytes in reverse order.
type reverseConverter struct {
	calls int
	err   error
}

func (c *reverseConverter) Convert(private, host []byte, _ any) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	for i := range host {
		host[i] = private[len(private)-1-i]
	}
	return nil
}

type fixture struct {
	buf   *SyncedBuffer
	alloc *recordingAllocator
	sim   *device.Sim
	conv  *reverseConverter
}

func newFixture(t *testing.T, size int) *fixture {
	t.Helper()
	f := &fixture{
		alloc: &recordingAllocator{},
		sim:   device.NewSim(),
		conv:  &reverseConverter{},
	}
	f.buf = NewWithConfig(size, Config{
		Host:       f.alloc,
		Device:     f.sim,
		Descriptor: "reverse",
		Converter:  f.conv,
	})
	return f
}

// copies returns the total host/device transfers served by the sim device.
func (f *fixture) copies() int {
	s := f.sim.Stats()
	return s.HostToDevice + s.DeviceToHost
}

// fill writes a recognizable pattern through WriteHost.
func (f *fixture) fill(seed byte) []byte {
	h := f.buf.WriteHost()
	for i := range h {
		h[i] = seed + byte(i)
	}
	return append([]byte(nil), h...)
}

// requireFatal runs fn and returns the *Error it panics with.
func requireFatal(t *testing.T, kind Kind, fn func()) *Error {
	t.Helper()
	var got *Error
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r, "expected %s panic", kind)
			err, ok := r.(*Error)
			require.True(t, ok, "panic value %T is not *Error", r)
			got = err
		}()
		fn()
	}()
	assert.Equal(t, kind, got.Kind)
	return got
}
