package syncedmem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestView(t *testing.T) {
	raw := make([]byte, 16)
	f := View[float32](raw)
	assert.Len(t, f, 4)

	f[1] = 1.5
	assert.Equal(t, []float32{0, 1.5, 0, 0}, View[float32](raw))
	assert.Len(t, View[float64](raw[:15]), 1, "partial trailing element is dropped")
	assert.Nil(t, View[int32](nil))
}

func TestBytes(t *testing.T) {
	s := []int32{1, 2}
	b := Bytes(s)
	assert.Len(t, b, 8)
	assert.Same(t, &b[0], &View[byte](b)[0])
	assert.Nil(t, Bytes([]float32{}))
}

func TestViewOverBuffer(t *testing.T) {
	f := newFixture(t, 4*8)
	copy(View[float32](f.buf.WriteHost()), []float32{1, 2, 3, 4, 5, 6, 7, 8})

	got := View[float32](f.sim.Bytes(f.buf.ReadDevice()))
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, got)
}
