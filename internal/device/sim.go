package device

import (
	"fmt"
	"sync"
)

// Stats counts the operations a Sim device has served.
type Stats struct {
	Allocs       int
	Frees        int
	HostToDevice int
	DeviceToHost int
	LiveBytes    int
}

// Sim is a device whose memory lives in host RAM.
// It stands in for an accelerator on machines without one and lets tests
// observe every allocation and copy.
type Sim struct {
	mu      sync.Mutex
	stats   Stats
	failErr error
	failOps map[string]bool
}

type simBuffer struct {
	owner *Sim
	data  []byte
	freed bool
}

func (b *simBuffer) Size() int { return len(b.data) }

// NewSim creates a simulated device.
func NewSim() *Sim {
	return &Sim{}
}

// Name returns the device name.
func (s *Sim) Name() string { return "sim" }

// Alloc allocates size bytes of simulated device memory.
func (s *Sim) Alloc(size int) (Buffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("alloc"); err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("device: sim alloc of %d bytes", size)
	}
	s.stats.Allocs++
	s.stats.LiveBytes += size
	return &simBuffer{owner: s, data: make([]byte, size)}, nil
}

// Free releases a buffer returned by Alloc.
func (s *Sim) Free(b Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sb, err := s.own(b)
	if err != nil {
		return err
	}
	s.stats.Frees++
	s.stats.LiveBytes -= len(sb.data)
	sb.freed = true
	sb.data = nil
	return nil
}

// CopyHostToDevice copies src into dst.
func (s *Sim) CopyHostToDevice(dst Buffer, src []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("h2d"); err != nil {
		return err
	}
	sb, err := s.own(dst)
	if err != nil {
		return err
	}
	if len(src) > len(sb.data) {
		return fmt.Errorf("%w: host %d > device %d", ErrSizeMismatch, len(src), len(sb.data))
	}
	copy(sb.data, src)
	s.stats.HostToDevice++
	return nil
}

// CopyDeviceToHost copies len(dst) bytes of src into dst.
func (s *Sim) CopyDeviceToHost(dst []byte, src Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected("d2h"); err != nil {
		return err
	}
	sb, err := s.own(src)
	if err != nil {
		return err
	}
	if len(dst) > len(sb.data) {
		return fmt.Errorf("%w: host %d > device %d", ErrSizeMismatch, len(dst), len(sb.data))
	}
	copy(dst, sb.data)
	s.stats.DeviceToHost++
	return nil
}

// Stats returns a snapshot of the operation counters.
func (s *Sim) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Bytes exposes the simulated device memory behind b.
// Writes through the returned slice model a kernel mutating device memory.
func (s *Sim) Bytes(b Buffer) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	sb, err := s.own(b)
	if err != nil {
		panic("device: sim Bytes: " + err.Error())
	}
	return sb.data
}

// Fail makes the named operations ("alloc", "h2d", "d2h") return err until
// Fail is called again with a nil error.
func (s *Sim) Fail(err error, ops ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failErr = err
	s.failOps = make(map[string]bool, len(ops))
	for _, op := range ops {
		s.failOps[op] = true
	}
}

func (s *Sim) injected(op string) error {
	if s.failErr != nil && s.failOps[op] {
		return s.failErr
	}
	return nil
}

func (s *Sim) own(b Buffer) (*simBuffer, error) {
	sb, ok := b.(*simBuffer)
	if !ok || sb.owner != s {
		return nil, ErrForeignBuffer
	}
	if sb.freed {
		return nil, ErrReleased
	}
	return sb, nil
}
