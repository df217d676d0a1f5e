package syncedmem

// Head names the location(s) holding the authoritative bytes.
type Head int

// Head states.
const (
	// Uninitialized: nothing has been allocated or written yet.
	Uninitialized Head = iota
	// HeadAtCPU: host memory holds the only current copy.
	HeadAtCPU
	// HeadAtGPU: device memory holds the only current copy.
	HeadAtGPU
	// Synced: host and device hold identical current copies.
	Synced
	// HeadAtPrv: the private layout buffer holds the only current copy.
	HeadAtPrv
	// SyncedPrv: the private buffer and host memory are both current.
	SyncedPrv
)

// String returns the state name.
func (h Head) String() string {
	switch h {
	case Uninitialized:
		return "UNINITIALIZED"
	case HeadAtCPU:
		return "HEAD_AT_CPU"
	case HeadAtGPU:
		return "HEAD_AT_GPU"
	case Synced:
		return "SYNCED"
	case HeadAtPrv:
		return "HEAD_AT_PRV"
	case SyncedPrv:
		return "SYNCED_PRV"
	default:
		return "UNKNOWN"
	}
}

// hostValid reports whether host memory holds current bytes.
func (h Head) hostValid() bool {
	return h == HeadAtCPU || h == Synced || h == SyncedPrv
}
