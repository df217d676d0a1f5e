package webgpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlignCopy(t *testing.T) {
	tests := []struct {
		in   int
		want uint64
	}{
		{0, 0},
		{1, 4},
		{3, 4},
		{4, 4},
		{5, 8},
		{1023, 1024},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, alignCopy(tt.in), "alignCopy(%d)", tt.in)
	}
}
