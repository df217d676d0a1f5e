package syncedmem

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal failure.
type Kind string

// Failure kinds.
const (
	KindAllocation   Kind = "allocation failure"
	KindCopy         Kind = "copy failure"
	KindPrecondition Kind = "precondition violation"
)

// Contract violations reported as the Cause of a KindPrecondition Error.
var (
	ErrNegativeSize       = errors.New("negative buffer size")
	ErrNilData            = errors.New("nil data")
	ErrShortData          = errors.New("data shorter than buffer size")
	ErrNoPrivateBackend   = errors.New("no private layout descriptor and converter established")
	ErrHalfPrivateBackend = errors.New("descriptor and converter must be set together")
	ErrNoPrivateData      = errors.New("no private buffer; call InitPrivateData or SetPrivateData first")
	ErrPrivateHeld        = errors.New("private layout holds the only current copy")
	ErrAliasedData        = errors.New("data overlaps the buffer's own allocation at another offset")
)

// Error is the panic value of a fatal SyncedBuffer failure.
type Error struct {
	Op    string // accessor that failed, e.g. "ReadDevice"
	Kind  Kind
	Size  int // buffer size in bytes
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("syncedmem: %s: %s (size %d)", e.Op, e.Kind, e.Size)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}
