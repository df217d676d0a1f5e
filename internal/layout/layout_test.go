package layout

import (
	"testing"

	"github.com/born-ml/syncedmem/internal/device"
	"github.com/born-ml/syncedmem/internal/host"
	"github.com/born-ml/syncedmem/internal/parallel"
	"github.com/born-ml/syncedmem/internal/syncedmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floats(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(i)
	}
	return out
}

func TestNewBlocked(t *testing.T) {
	d, err := NewBlocked(2, 16, 3, 3, 8)
	require.NoError(t, err)
	assert.Equal(t, 2*16*3*3, d.Elements())
	assert.Equal(t, 2*16*3*3*4, d.Bytes())
	assert.Equal(t, "nCHW8c[2 16 3 3]", d.String())

	_, err = NewBlocked(1, 6, 2, 2, 4)
	assert.ErrorIs(t, err, ErrShape)
	_, err = NewBlocked(0, 8, 2, 2, 4)
	assert.ErrorIs(t, err, ErrShape)
}

func TestPackOrder(t *testing.T) {
	d, err := NewBlocked(1, 4, 1, 2, 2)
	require.NoError(t, err)

	hostData := floats(8)
	blocked := make([]float32, 8)
	require.NoError(t, Pack(syncedmem.Bytes(hostData), syncedmem.Bytes(blocked), d, parallel.Sequential()))
	assert.Equal(t, []float32{0, 2, 1, 3, 4, 6, 5, 7}, blocked)
}

func TestPackUnpackRoundTrip(t *testing.T) {
	d, err := NewBlocked(3, 16, 5, 7, 8)
	require.NoError(t, err)

	src := floats(d.Elements())
	blocked := make([]byte, d.Bytes())
	back := make([]byte, d.Bytes())

	cfg := parallel.Config{Workers: 4, MinCells: 1}
	require.NoError(t, Pack(syncedmem.Bytes(src), blocked, d, cfg))
	assert.NotEqual(t, syncedmem.Bytes(src), blocked)
	require.NoError(t, Unpack(blocked, back, d, cfg))
	assert.Equal(t, src, syncedmem.View[float32](back))
}

func TestLengthMismatch(t *testing.T) {
	d, err := NewBlocked(1, 2, 2, 2, 2)
	require.NoError(t, err)
	err = Pack(make([]byte, d.Bytes()), make([]byte, 4), d, parallel.Sequential())
	assert.ErrorIs(t, err, ErrLength)
}

func TestBlockedConverterDescriptor(t *testing.T) {
	c := NewBlockedConverter()
	err := c.Convert(make([]byte, 16), make([]byte, 16), "not a layout")
	assert.ErrorIs(t, err, ErrDescriptor)

	var nilDesc *Blocked
	err = c.Convert(make([]byte, 16), make([]byte, 16), nilDesc)
	assert.ErrorIs(t, err, ErrDescriptor)
}

func TestIdentity(t *testing.T) {
	dst := make([]byte, 3)
	require.NoError(t, Identity{}.Convert([]byte{1, 2, 3}, dst, nil))
	assert.Equal(t, []byte{1, 2, 3}, dst)
	assert.ErrorIs(t, Identity{}.Convert([]byte{1}, dst, nil), ErrLength)
}

func TestBlockedPrivateSlot(t *testing.T) {
	d, err := NewBlocked(2, 8, 4, 4, 4)
	require.NoError(t, err)
	sim := device.NewSim()

	buf := syncedmem.NewWithConfig(d.Bytes(), syncedmem.Config{
		Host:       host.GoAllocator{},
		Device:     sim,
		Descriptor: d,
		Converter:  NewBlockedConverter(),
	})
	defer func() { require.NoError(t, buf.Release()) }()

	// The private backend computes its output directly in blocked layout.
	want := floats(d.Elements())
	prv := buf.InitPrivateData()
	require.NoError(t, Pack(syncedmem.Bytes(want), buf.WritePrivate(), d, parallel.Sequential()))
	assert.Equal(t, syncedmem.HeadAtPrv, buf.Head())
	assert.Len(t, prv, d.Bytes())

	assert.Equal(t, want, syncedmem.View[float32](buf.ReadHost()))
	assert.Equal(t, syncedmem.SyncedPrv, buf.Head())

	dev := buf.ReadDevice()
	assert.Equal(t, want, syncedmem.View[float32](sim.Bytes(dev)))
	assert.Equal(t, syncedmem.Synced, buf.Head())
}

func TestIdentityPrivateSlot(t *testing.T) {
	buf := syncedmem.NewWithConfig(4, syncedmem.Config{
		Host:       host.GoAllocator{},
		Descriptor: "host-layout",
		Converter:  Identity{},
	})

	buf.SetPrivateData([]byte{5, 6, 7, 8}, false)
	assert.Equal(t, []byte{5, 6, 7, 8}, buf.ReadHost())
	assert.Equal(t, syncedmem.SyncedPrv, buf.Head())
}
