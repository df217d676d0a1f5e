package layout

import (
	"fmt"

	"github.com/born-ml/syncedmem/internal/parallel"
	"github.com/born-ml/syncedmem/internal/syncedmem"
)

var (
	_ syncedmem.Converter = (*BlockedConverter)(nil)
	_ syncedmem.Converter = Identity{}
)

// BlockedConverter unpacks *Blocked private buffers into host layout.
type BlockedConverter struct {
	Parallel parallel.Config
}

// NewBlockedConverter returns a converter using parallel.DefaultConfig.
func NewBlockedConverter() *BlockedConverter {
	return &BlockedConverter{Parallel: parallel.DefaultConfig()}
}

// Convert implements syncedmem.Converter. descriptor must be a *Blocked.
func (c *BlockedConverter) Convert(private, host []byte, descriptor any) error {
	d, ok := descriptor.(*Blocked)
	if !ok || d == nil {
		return fmt.Errorf("%w: %T", ErrDescriptor, descriptor)
	}
	return Unpack(private, host, d, c.Parallel)
}

// Identity converts private buffers that already use host layout.
type Identity struct{}

// Convert copies private into host.
func (Identity) Convert(private, host []byte, _ any) error {
	if len(private) != len(host) {
		return fmt.Errorf("%w: private %d, host %d", ErrLength, len(private), len(host))
	}
	copy(host, private)
	return nil
}
