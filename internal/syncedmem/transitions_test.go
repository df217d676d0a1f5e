package syncedmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var setups = map[Head]func(b *SyncedBuffer){
	Uninitialized: func(*SyncedBuffer) {},
	HeadAtCPU:     func(b *SyncedBuffer) { b.WriteHost() },
	HeadAtGPU:     func(b *SyncedBuffer) { b.WriteDevice() },
	Synced: func(b *SyncedBuffer) {
		b.WriteHost()
		b.ReadDevice()
	},
	HeadAtPrv: func(b *SyncedBuffer) {
		b.InitPrivateData()
		b.WritePrivate()
	},
	SyncedPrv: func(b *SyncedBuffer) {
		b.InitPrivateData()
		b.WritePrivate()
		b.ReadHost()
	},
}

var ops = map[string]func(b *SyncedBuffer){
	"ReadHost":    func(b *SyncedBuffer) { b.ReadHost() },
	"WriteHost":   func(b *SyncedBuffer) { b.WriteHost() },
	"ReadDevice":  func(b *SyncedBuffer) { b.ReadDevice() },
	"WriteDevice": func(b *SyncedBuffer) { b.WriteDevice() },
	"WritePrivate": func(b *SyncedBuffer) {
		b.InitPrivateData()
		b.WritePrivate()
	},
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from     Head
		op       string
		to       Head
		h2d, d2h int
		converts int
	}{
		{Uninitialized, "ReadHost", HeadAtCPU, 0, 0, 0},
		{Uninitialized, "WriteHost", HeadAtCPU, 0, 0, 0},
		{Uninitialized, "ReadDevice", HeadAtGPU, 0, 0, 0},
		{Uninitialized, "WriteDevice", HeadAtGPU, 0, 0, 0},
		{Uninitialized, "WritePrivate", HeadAtPrv, 0, 0, 0},

		{HeadAtCPU, "ReadHost", HeadAtCPU, 0, 0, 0},
		{HeadAtCPU, "WriteHost", HeadAtCPU, 0, 0, 0},
		{HeadAtCPU, "ReadDevice", Synced, 1, 0, 0},
		{HeadAtCPU, "WriteDevice", HeadAtGPU, 1, 0, 0},
		{HeadAtCPU, "WritePrivate", HeadAtPrv, 0, 0, 0},

		{HeadAtGPU, "ReadHost", Synced, 0, 1, 0},
		{HeadAtGPU, "WriteHost", HeadAtCPU, 0, 1, 0},
		{HeadAtGPU, "ReadDevice", HeadAtGPU, 0, 0, 0},
		{HeadAtGPU, "WriteDevice", HeadAtGPU, 0, 0, 0},
		{HeadAtGPU, "WritePrivate", HeadAtPrv, 0, 0, 0},

		{Synced, "ReadHost", Synced, 0, 0, 0},
		{Synced, "WriteHost", HeadAtCPU, 0, 0, 0},
		{Synced, "ReadDevice", Synced, 0, 0, 0},
		{Synced, "WriteDevice", HeadAtGPU, 0, 0, 0},
		{Synced, "WritePrivate", HeadAtPrv, 0, 0, 0},

		{HeadAtPrv, "ReadHost", SyncedPrv, 0, 0, 1},
		{HeadAtPrv, "WriteHost", HeadAtCPU, 0, 0, 1},
		{HeadAtPrv, "ReadDevice", Synced, 1, 0, 1},
		{HeadAtPrv, "WriteDevice", HeadAtGPU, 1, 0, 1},
		{HeadAtPrv, "WritePrivate", HeadAtPrv, 0, 0, 0},

		{SyncedPrv, "ReadHost", SyncedPrv, 0, 0, 0},
		{SyncedPrv, "WriteHost", HeadAtCPU, 0, 0, 0},
		{SyncedPrv, "ReadDevice", Synced, 1, 0, 0},
		{SyncedPrv, "WriteDevice", HeadAtGPU, 1, 0, 0},
		{SyncedPrv, "WritePrivate", HeadAtPrv, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.op, func(t *testing.T) {
			f := newFixture(t, 16)
			setups[tt.from](f.buf)
			require.Equal(t, tt.from, f.buf.Head())

			before := f.sim.Stats()
			calls := f.conv.calls
			ops[tt.op](f.buf)
			after := f.sim.Stats()

			assert.Equal(t, tt.to, f.buf.Head())
			assert.Equal(t, tt.h2d, after.HostToDevice-before.HostToDevice, "host to device copies")
			assert.Equal(t, tt.d2h, after.DeviceToHost-before.DeviceToHost, "device to host copies")
			assert.Equal(t, tt.converts, f.conv.calls-calls, "private conversions")
		})
	}
}

// Every write lands on a head owned solely by the written location.
func TestWritesNeverSettleSynced(t *testing.T) {
	writes := map[string]Head{
		"WriteHost":    HeadAtCPU,
		"WriteDevice":  HeadAtGPU,
		"WritePrivate": HeadAtPrv,
	}
	for from, setup := range setups {
		for op, want := range writes {
			f := newFixture(t, 8)
			setup(f.buf)
			ops[op](f.buf)
			assert.Equal(t, want, f.buf.Head(), "%s from %s", op, from)
		}
	}
}

func TestDataFollowsLatestWrite(t *testing.T) {
	f := newFixture(t, 4)

	copy(f.buf.WriteHost(), []byte{1, 1, 1, 1})
	copy(f.sim.Bytes(f.buf.WriteDevice()), []byte{2, 2, 2, 2})
	assert.Equal(t, []byte{2, 2, 2, 2}, f.buf.ReadHost())

	copy(f.buf.WriteHost(), []byte{3, 3, 3, 3})
	assert.Equal(t, []byte{3, 3, 3, 3}, f.sim.Bytes(f.buf.ReadDevice()))

	f.buf.InitPrivateData()
	copy(f.buf.WritePrivate(), []byte{4, 5, 6, 7})
	assert.Equal(t, []byte{7, 6, 5, 4}, f.sim.Bytes(f.buf.ReadDevice()))
	assert.Equal(t, []byte{7, 6, 5, 4}, f.buf.ReadHost())
}

func TestHeadString(t *testing.T) {
	assert.Equal(t, "UNINITIALIZED", Uninitialized.String())
	assert.Equal(t, "HEAD_AT_CPU", HeadAtCPU.String())
	assert.Equal(t, "HEAD_AT_GPU", HeadAtGPU.String())
	assert.Equal(t, "SYNCED", Synced.String())
	assert.Equal(t, "HEAD_AT_PRV", HeadAtPrv.String())
	assert.Equal(t, "SYNCED_PRV", SyncedPrv.String())
	assert.Equal(t, "UNKNOWN", Head(42).String())
	assert.Equal(t, "borrowed", BorrowedExternal.String())
	assert.Equal(t, "device", DeviceSlot.String())
}
