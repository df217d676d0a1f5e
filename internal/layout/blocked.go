package layout

import (
	"errors"
	"fmt"

	"github.com/born-ml/syncedmem/internal/parallel"
	"github.com/born-ml/syncedmem/internal/syncedmem"
)

var (
	// ErrDescriptor is returned when a converter receives a descriptor of the wrong type.
	ErrDescriptor = errors.New("layout: unexpected descriptor")
	// ErrShape is returned for invalid dimensions.
	ErrShape = errors.New("layout: invalid shape")
	// ErrLength is returned when a buffer does not match the descriptor.
	ErrLength = errors.New("layout: buffer length mismatch")
)

const float32Size = 4

// Blocked describes an nCHWc float32 layout.
type Blocked struct {
	N, C, H, W int
	Block      int // channels per block; divides C
}

// NewBlocked validates and returns a blocked layout descriptor.
func NewBlocked(n, c, h, w, block int) (*Blocked, error) {
	if n <= 0 || c <= 0 || h <= 0 || w <= 0 || block <= 0 {
		return nil, fmt.Errorf("%w: [%d %d %d %d] block %d", ErrShape, n, c, h, w, block)
	}
	if c%block != 0 {
		return nil, fmt.Errorf("%w: %d channels not divisible by block %d", ErrShape, c, block)
	}
	return &Blocked{N: n, C: c, H: h, W: w, Block: block}, nil
}

// Elements returns the number of float32 values.
func (d *Blocked) Elements() int {
	return d.N * d.C * d.H * d.W
}

// Bytes returns the byte length shared by the host and blocked layouts.
func (d *Blocked) Bytes() int {
	return d.Elements() * float32Size
}

// String returns a compact form such as "nCHW8c[2 16 4 4]".
func (d *Blocked) String() string {
	return fmt.Sprintf("nCHW%dc[%d %d %d %d]", d.Block, d.N, d.C, d.H, d.W)
}

// reorder walks every (n, channel-block) pair and hands f the float32
// offsets of each element in host and blocked order.
func (d *Blocked) reorder(cfg parallel.Config, f func(hostIdx, blockedIdx int)) {
	blocks := d.C / d.Block
	plane := d.H * d.W
	parallel.ForGrid(d.N, blocks, cfg, func(n, cb int) {
		base := (n*blocks + cb) * plane * d.Block
		for ci := 0; ci < d.Block; ci++ {
			hostBase := (n*d.C + cb*d.Block + ci) * plane
			for p := 0; p < plane; p++ {
				f(hostBase+p, base+p*d.Block+ci)
			}
		}
	})
}

// Pack rearranges host NCHW bytes into the blocked layout.
// Private backends use it to fill a private buffer from host data.
func Pack(host, blocked []byte, d *Blocked, cfg parallel.Config) error {
	if err := d.check(host, blocked); err != nil {
		return err
	}
	src := syncedmem.View[float32](host)
	dst := syncedmem.View[float32](blocked)
	d.reorder(cfg, func(h, b int) { dst[b] = src[h] })
	return nil
}

// Unpack rearranges blocked bytes into host NCHW layout.
func Unpack(blocked, host []byte, d *Blocked, cfg parallel.Config) error {
	if err := d.check(host, blocked); err != nil {
		return err
	}
	src := syncedmem.View[float32](blocked)
	dst := syncedmem.View[float32](host)
	d.reorder(cfg, func(h, b int) { dst[h] = src[b] })
	return nil
}

func (d *Blocked) check(host, blocked []byte) error {
	want := d.Bytes()
	if len(host) != want || len(blocked) != want {
		return fmt.Errorf("%w: host %d, blocked %d, %s needs %d", ErrLength, len(host), len(blocked), d, want)
	}
	return nil
}
