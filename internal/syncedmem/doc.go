// Package syncedmem implements SyncedBuffer, a byte buffer that lives in up
// to three places at once (host memory, device memory, and a backend
// private layout) and copies between them only when an accessor needs it.
//
// Every accessor declares read or write intent. Reads bring the requested
// location up to date and may leave several locations valid; writes make
// the written location the only authoritative copy. The current
// authoritative location is reported by Head.
//
// A SyncedBuffer does no locking and must not be used from several
// goroutines at once without external synchronization.
//
// Slices and device buffers returned by accessors remain valid until the
// slot is replaced (SetHostData, SetPrivateData) or the buffer is released.
// Their contents are current only until a write accessor on another
// location.
//
// Allocation failures, device copy failures and contract violations are
// fatal: the buffer logs the failure and panics with an *Error naming the
// operation and the buffer size. A half-synchronized buffer is never
// handed back to the caller.
package syncedmem
