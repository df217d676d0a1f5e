// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package syncedmem provides SyncedBuffer, a lazily synchronized byte
// buffer shared between host memory, device memory, and an optional
// backend-private layout.
//
// A buffer allocates nothing until first access. Read accessors copy data
// to the requested location only when that location is stale; write
// accessors make the written location the only current copy.
//
// Example:
//
//	import "github.com/born-ml/syncedmem/syncedmem"
//
//	func main() {
//	    cfg := syncedmem.DefaultConfig()
//	    cfg.Device = syncedmem.NewSim()
//
//	    buf := syncedmem.NewWithConfig(4096, cfg)
//	    defer buf.Release()
//
//	    data := syncedmem.View[float32](buf.WriteHost())
//	    data[0] = 1
//	    dev := buf.ReadDevice() // copies host to device once
//	    _ = dev
//	}
//
// Fatal failures (allocation, device copy, misuse) panic with an *Error.
package syncedmem
