package syncedmem

import (
	"fmt"
	"unsafe"

	"github.com/born-ml/syncedmem/internal/device"
	"github.com/born-ml/syncedmem/internal/host"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SyncedBuffer keeps host, device and private-layout copies of size bytes
// consistent, copying lazily on accessor calls.
type SyncedBuffer struct {
	size int
	head Head

	host    slot[[]byte]
	dev     slot[device.Buffer]
	private slot[[]byte]

	descriptor any
	converter  Converter
	sameLayout bool

	alloc  host.Allocator
	device device.Device
	log    *zap.Logger
}

// New creates a buffer of size bytes with DefaultConfig.
// Nothing is allocated until the first accessor call. Call Release when
// done: the default page allocator maps memory outside the Go heap, and
// the garbage collector never reclaims it.
func New(size int) *SyncedBuffer {
	return NewWithConfig(size, DefaultConfig())
}

// NewWithConfig creates a buffer of size bytes.
// A negative size or a half-set private backend is fatal.
func NewWithConfig(size int, cfg Config) *SyncedBuffer {
	b := &SyncedBuffer{
		size:   size,
		head:   Uninitialized,
		alloc:  cfg.Host,
		device: cfg.Device,
		log:    cfg.Logger,
	}
	if b.alloc == nil {
		b.alloc = host.Default()
	}
	if b.log == nil {
		b.log = Logger()
	}
	if size < 0 {
		b.fatal("New", KindPrecondition, ErrNegativeSize)
	}
	if cfg.Descriptor != nil || cfg.Converter != nil {
		b.SetPrivateBackend(cfg.Descriptor, cfg.Converter)
	}
	return b
}

// Size returns the byte length fixed at construction.
func (b *SyncedBuffer) Size() int { return b.size }

// Head returns the current authoritative location(s).
func (b *SyncedBuffer) Head() Head { return b.head }

// Ownership reports who owns the memory in the given slot.
func (b *SyncedBuffer) Ownership(s Slot) Ownership {
	switch s {
	case HostSlot:
		return b.host.own
	case DeviceSlot:
		return b.dev.own
	case PrivateSlot:
		return b.private.own
	default:
		return NotAllocated
	}
}

// Device returns the device capability, or nil when none is configured.
func (b *SyncedBuffer) Device() device.Device { return b.device }

// ReadHost returns host memory holding the current bytes.
// The caller must not modify the returned slice.
func (b *SyncedBuffer) ReadHost() []byte {
	b.toHost("ReadHost")
	return b.hostBytes()
}

// WriteHost returns host memory holding the current bytes and makes host
// memory the only authoritative copy.
func (b *SyncedBuffer) WriteHost() []byte {
	b.toHost("WriteHost")
	b.moveHead("WriteHost", HeadAtCPU)
	return b.hostBytes()
}

// ReadDevice returns device memory holding the current bytes.
// Fatal when no device is configured.
func (b *SyncedBuffer) ReadDevice() device.Buffer {
	b.toDevice("ReadDevice")
	return b.dev.mem
}

// WriteDevice returns device memory holding the current bytes and makes
// device memory the only authoritative copy.
// Fatal when no device is configured.
func (b *SyncedBuffer) WriteDevice() device.Buffer {
	b.toDevice("WriteDevice")
	b.moveHead("WriteDevice", HeadAtGPU)
	return b.dev.mem
}

// SetHostData makes data the host memory of the buffer. The buffer borrows
// data and never frees it; a previously owned host allocation is freed.
// data must hold at least Size bytes. Host becomes the only current copy.
func (b *SyncedBuffer) SetHostData(data []byte) {
	const op = "SetHostData"
	b.checkData(op, data)
	b.freeOwned(op, HostSlot)
	b.host.set(data, BorrowedExternal)
	b.moveHead(op, HeadAtCPU)
}

// SetPrivateBackend establishes the private layout descriptor and the
// converter that materializes private bytes into host layout. Passing
// nil for both clears the backend, which is fatal while the private
// buffer holds the only current copy.
func (b *SyncedBuffer) SetPrivateBackend(descriptor any, conv Converter) {
	const op = "SetPrivateBackend"
	if (descriptor == nil) != (conv == nil) {
		b.fatal(op, KindPrecondition, ErrHalfPrivateBackend)
	}
	if conv == nil && b.head == HeadAtPrv {
		b.fatal(op, KindPrecondition, ErrPrivateHeld)
	}
	b.descriptor = descriptor
	b.converter = conv
}

// PrivateDescriptor returns the opaque private layout descriptor.
func (b *SyncedBuffer) PrivateDescriptor() any { return b.descriptor }

// PrivateSameLayout reports the hint given to SetPrivateData: whether the
// private buffer uses the host byte layout.
func (b *SyncedBuffer) PrivateSameLayout() bool { return b.sameLayout }

// InitPrivateData allocates the private buffer, or returns the existing
// one. The buffer is Size bytes whose arrangement only the private backend
// interprets. Head is unchanged.
func (b *SyncedBuffer) InitPrivateData() []byte {
	const op = "InitPrivateData"
	b.requireBackend(op)
	if b.private.own == NotAllocated {
		mem, err := b.alloc.Alloc(b.size)
		if err != nil {
			b.fatal(op, KindAllocation, fmt.Errorf("private: %w", err))
		}
		b.private.set(mem, OwnedInternally)
		b.debug("alloc private", op)
	}
	return b.privateBytes()
}

// SetPrivateData makes data the private buffer. The buffer borrows data
// and never frees it; a previously owned private allocation is freed.
// sameLayoutAsHost tells the private backend the bytes already use host
// layout. When it is set and host memory is current, host and private
// copies are treated as synchronized; otherwise the private buffer becomes
// the only current copy. The buffer's own private allocation, as returned
// by InitPrivateData, stays owned.
func (b *SyncedBuffer) SetPrivateData(data []byte, sameLayoutAsHost bool) {
	const op = "SetPrivateData"
	b.requireBackend(op)
	b.checkData(op, data)
	if !b.keepOwned(op, PrivateSlot, data) {
		b.freeOwned(op, PrivateSlot)
		b.private.set(data, BorrowedExternal)
	}
	b.sameLayout = sameLayoutAsHost
	if sameLayoutAsHost && b.head.hostValid() {
		b.moveHead(op, SyncedPrv)
		return
	}
	b.moveHead(op, HeadAtPrv)
}

// ReadPrivate returns the private buffer when it holds current bytes and
// nil when it is stale. There is no conversion from host to private layout;
// the private backend refreshes the buffer itself and calls WritePrivate.
func (b *SyncedBuffer) ReadPrivate() []byte {
	const op = "ReadPrivate"
	b.requireBackend(op)
	b.requirePrivate(op)
	if b.head != HeadAtPrv && b.head != SyncedPrv {
		return nil
	}
	return b.privateBytes()
}

// WritePrivate returns the private buffer and makes it the only
// authoritative copy; host and device copies become stale.
func (b *SyncedBuffer) WritePrivate() []byte {
	const op = "WritePrivate"
	b.requireBackend(op)
	b.requirePrivate(op)
	b.moveHead(op, HeadAtPrv)
	return b.privateBytes()
}

// Release frees every owned allocation and resets the buffer to
// Uninitialized. Borrowed memory is left untouched. Previously returned
// slices and device buffers must not be used afterwards. Release is
// idempotent and the buffer may be used again.
func (b *SyncedBuffer) Release() error {
	var err error
	if b.host.own == OwnedInternally {
		err = multierr.Append(err, wrapFree(HostSlot, b.alloc.Free(b.host.mem)))
	}
	if b.dev.own == OwnedInternally {
		err = multierr.Append(err, wrapFree(DeviceSlot, b.device.Free(b.dev.mem)))
	}
	if b.private.own == OwnedInternally {
		err = multierr.Append(err, wrapFree(PrivateSlot, b.alloc.Free(b.private.mem)))
	}
	b.host.reset()
	b.dev.reset()
	b.private.reset()
	b.sameLayout = false
	b.head = Uninitialized

	if err != nil {
		b.log.Warn("release", zap.Int("size", b.size), zap.Error(err))
	} else {
		b.debug("release", "Release")
	}
	return err
}

// toHost makes host memory current.
func (b *SyncedBuffer) toHost(op string) {
	switch b.head {
	case Uninitialized:
		b.ensureHost(op)
		b.moveHead(op, HeadAtCPU)
	case HeadAtGPU:
		b.ensureHost(op)
		if err := b.device.CopyDeviceToHost(b.hostBytes(), b.dev.mem); err != nil {
			b.fatal(op, KindCopy, fmt.Errorf("device to host: %w", err))
		}
		b.debug("copy device to host", op)
		b.moveHead(op, Synced)
	case HeadAtPrv:
		b.requireBackend(op)
		b.ensureHost(op)
		if err := b.converter.Convert(b.privateBytes(), b.hostBytes(), b.descriptor); err != nil {
			b.fatal(op, KindCopy, fmt.Errorf("private to host: %w", err))
		}
		b.debug("convert private to host", op)
		b.moveHead(op, SyncedPrv)
	case HeadAtCPU, Synced, SyncedPrv:
	}
}

// toDevice makes device memory current.
func (b *SyncedBuffer) toDevice(op string) {
	if b.device == nil {
		b.fatal(op, KindPrecondition, device.ErrNoDevice)
	}
	if b.head == HeadAtPrv {
		b.toHost(op)
	}
	switch b.head {
	case Uninitialized:
		b.ensureDevice(op)
		b.moveHead(op, HeadAtGPU)
	case HeadAtCPU, SyncedPrv:
		// SyncedPrv vouches for host and private only; device memory
		// was never brought up to date.
		b.ensureDevice(op)
		if err := b.device.CopyHostToDevice(b.dev.mem, b.hostBytes()); err != nil {
			b.fatal(op, KindCopy, fmt.Errorf("host to device: %w", err))
		}
		b.debug("copy host to device", op)
		b.moveHead(op, Synced)
	case HeadAtGPU, Synced:
	}
}

func (b *SyncedBuffer) ensureHost(op string) {
	if b.host.own != NotAllocated {
		return
	}
	mem, err := b.alloc.Alloc(b.size)
	if err != nil {
		b.fatal(op, KindAllocation, fmt.Errorf("host: %w", err))
	}
	b.host.set(mem, OwnedInternally)
	b.debug("alloc host", op)
}

func (b *SyncedBuffer) ensureDevice(op string) {
	if b.dev.own != NotAllocated {
		return
	}
	mem, err := b.device.Alloc(b.size)
	if err != nil {
		b.fatal(op, KindAllocation, fmt.Errorf("device %s: %w", b.device.Name(), err))
	}
	b.dev.set(mem, OwnedInternally)
	b.debug("alloc device", op)
}

// byteSlot returns the host or private slot.
func (b *SyncedBuffer) byteSlot(s Slot) *slot[[]byte] {
	if s == PrivateSlot {
		return &b.private
	}
	return &b.host
}

// keepOwned reports whether data is the slot's own allocation, which must
// not be freed. Data overlapping that allocation at a different start is
// fatal: freeing it would unmap memory the caller still hands in.
func (b *SyncedBuffer) keepOwned(op string, s Slot, data []byte) bool {
	target := b.byteSlot(s)
	if target.own != OwnedInternally || !overlaps(target.mem, data) {
		return false
	}
	if unsafe.SliceData(data) != unsafe.SliceData(target.mem) {
		b.fatal(op, KindPrecondition, fmt.Errorf("%w: %s", ErrAliasedData, s))
	}
	b.debug("keep owned "+s.String(), op)
	return true
}

// overlaps reports whether data shares any byte with the capacity of mem.
func overlaps(mem, data []byte) bool {
	if cap(mem) == 0 || len(data) == 0 {
		return false
	}
	memStart := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	dataStart := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	return dataStart < memStart+uintptr(cap(mem)) && memStart < dataStart+uintptr(len(data))
}

// freeOwned frees an owned host or private allocation before the slot is
// replaced with borrowed memory.
func (b *SyncedBuffer) freeOwned(op string, s Slot) {
	target := b.byteSlot(s)
	if target.own != OwnedInternally {
		return
	}
	if err := b.alloc.Free(target.mem); err != nil {
		b.fatal(op, KindAllocation, wrapFree(s, err))
	}
	target.reset()
}

func (b *SyncedBuffer) checkData(op string, data []byte) {
	if data == nil {
		b.fatal(op, KindPrecondition, ErrNilData)
	}
	if len(data) < b.size {
		b.fatal(op, KindPrecondition, fmt.Errorf("%w: %d < %d", ErrShortData, len(data), b.size))
	}
}

func (b *SyncedBuffer) requireBackend(op string) {
	if b.converter == nil {
		b.fatal(op, KindPrecondition, ErrNoPrivateBackend)
	}
}

func (b *SyncedBuffer) requirePrivate(op string) {
	if b.private.own == NotAllocated {
		b.fatal(op, KindPrecondition, ErrNoPrivateData)
	}
}

func (b *SyncedBuffer) hostBytes() []byte {
	return b.host.mem[:b.size:b.size]
}

func (b *SyncedBuffer) privateBytes() []byte {
	return b.private.mem[:b.size:b.size]
}

func (b *SyncedBuffer) moveHead(op string, next Head) {
	if b.head == next {
		return
	}
	if ce := b.log.Check(zapcore.DebugLevel, "head"); ce != nil {
		ce.Write(zap.String("op", op), zap.Stringer("from", b.head), zap.Stringer("to", next))
	}
	b.head = next
}

func (b *SyncedBuffer) debug(msg, op string) {
	if ce := b.log.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(zap.String("op", op), zap.Int("size", b.size), zap.Stringer("head", b.head))
	}
}

// fatal logs the failure and panics with an *Error.
func (b *SyncedBuffer) fatal(op string, kind Kind, cause error) {
	err := &Error{Op: op, Kind: kind, Size: b.size, Cause: cause}
	b.log.Error("fatal",
		zap.String("op", op),
		zap.String("kind", string(kind)),
		zap.Int("size", b.size),
		zap.Error(cause),
	)
	panic(err)
}

func wrapFree(s Slot, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("free %s: %w", s, err)
}
