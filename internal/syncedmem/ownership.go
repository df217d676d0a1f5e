package syncedmem

// Ownership records who is responsible for freeing a slot's memory.
type Ownership int

// Ownership states.
const (
	// NotAllocated: the slot holds no memory.
	NotAllocated Ownership = iota
	// OwnedInternally: the buffer allocated the memory and frees it on Release.
	OwnedInternally
	// BorrowedExternal: the caller supplied the memory and keeps ownership.
	BorrowedExternal
)

// String returns the ownership name.
func (o Ownership) String() string {
	switch o {
	case NotAllocated:
		return "not-allocated"
	case OwnedInternally:
		return "owned"
	case BorrowedExternal:
		return "borrowed"
	default:
		return "unknown"
	}
}

// Slot selects one of the three memory locations.
type Slot int

// Memory slots.
const (
	HostSlot Slot = iota
	DeviceSlot
	PrivateSlot
)

// String returns the slot name.
func (s Slot) String() string {
	switch s {
	case HostSlot:
		return "host"
	case DeviceSlot:
		return "device"
	case PrivateSlot:
		return "private"
	default:
		return "unknown"
	}
}

// slot pairs an allocation with its ownership tag.
type slot[T any] struct {
	mem T
	own Ownership
}

func (s *slot[T]) set(mem T, own Ownership) {
	s.mem = mem
	s.own = own
}

func (s *slot[T]) reset() {
	var zero T
	s.mem = zero
	s.own = NotAllocated
}
