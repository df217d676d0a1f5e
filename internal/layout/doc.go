// Package layout provides private memory layouts for synced buffers and
// the converters that materialize them back into host layout.
//
// Blocked stores a float32 NCHW activation as nCHWc: channels are split
// into blocks of Block consecutive channels and the block becomes the
// innermost dimension, the arrangement vectorized convolution kernels
// read. The byte length is the same as the NCHW host layout, so a blocked
// buffer can live in a SyncedBuffer private slot.
package layout
