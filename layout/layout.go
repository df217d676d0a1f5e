// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package layout provides private memory layouts and converters for
// synced buffers.
//
// Example:
//
//	d, _ := layout.NewBlocked(1, 16, 8, 8, 8)
//	cfg := syncedmem.DefaultConfig()
//	cfg.Descriptor = d
//	cfg.Converter = layout.NewBlockedConverter()
//	buf := syncedmem.NewWithConfig(d.Bytes(), cfg)
package layout

import (
	"github.com/born-ml/syncedmem/internal/layout"
	"github.com/born-ml/syncedmem/internal/parallel"
)

// Blocked describes an nCHWc float32 layout.
type Blocked = layout.Blocked

// BlockedConverter unpacks blocked private buffers into host layout.
type BlockedConverter = layout.BlockedConverter

// Identity converts private buffers that already use host layout.
type Identity = layout.Identity

// ParallelConfig controls how reorders are split across goroutines.
type ParallelConfig = parallel.Config

// Layout errors.
var (
	ErrDescriptor = layout.ErrDescriptor
	ErrShape      = layout.ErrShape
	ErrLength     = layout.ErrLength
)

// NewBlocked validates and returns a blocked layout descriptor.
func NewBlocked(n, c, h, w, block int) (*Blocked, error) {
	return layout.NewBlocked(n, c, h, w, block)
}

// NewBlockedConverter returns a converter that reorders on all CPUs.
func NewBlockedConverter() *BlockedConverter {
	return layout.NewBlockedConverter()
}

// DefaultParallel returns a ParallelConfig sized to the CPU count.
func DefaultParallel() ParallelConfig {
	return parallel.DefaultConfig()
}

// Pack rearranges host NCHW bytes into the blocked layout.
func Pack(host, blocked []byte, d *Blocked, cfg ParallelConfig) error {
	return layout.Pack(host, blocked, d, cfg)
}

// Unpack rearranges blocked bytes into host NCHW layout.
func Unpack(blocked, host []byte, d *Blocked, cfg ParallelConfig) error {
	return layout.Unpack(blocked, host, d, cfg)
}
