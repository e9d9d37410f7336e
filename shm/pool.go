// Package shm implements the shared-memory pool a client attaches to
// hand pixel data to the compositor without a copy.
//
// The platform-specific attach step is isolated behind the Segment
// interface (spec.md §9's "Platform shims" note: "Shared-memory attach
// and the present blit are isolated behind a narrow trait"), so the
// core package never touches mmap directly.
package shm

import (
	"fmt"
	"sync/atomic"

	"github.com/Meulengracht/vioarr-sub000/internal/cerr"
)

// Segment is a mapped region of shared memory. Implementations are
// platform-specific (see pool_unix.go for the mmap-backed one).
type Segment interface {
	// Bytes returns the mapped region. The slice is valid until
	// Close is called.
	Bytes() []byte
	// Close unmaps the region.
	Close() error
}

// Attach maps the shared-memory object identified by handle, sized
// size bytes. handle is an opaque platform descriptor (a file
// descriptor on Linux); its meaning is defined by the transport that
// decoded the client's request.
var Attach func(handle int, size int) (Segment, error) = attachUnsupported

func attachUnsupported(int, int) (Segment, error) {
	return nil, fmt.Errorf("shm: no platform attach implementation linked in")
}

// Pool is a shared memory segment attached from a client handle,
// indexable by byte offset. Every Buffer drawn from a Pool holds a
// reference; the underlying Segment is only unmapped once the pool
// has been detached by the client AND the last Buffer referencing it
// has been released (spec.md §3's MemoryPool ownership rule).
type Pool struct {
	seg      Segment
	size     int
	refs     atomic.Int32
	detached atomic.Bool
}

// Create attaches a new Pool from handle, sized size bytes, with an
// initial reference count of 1 (the client's own hold on the pool
// until it calls Destroy).
func Create(handle int, size int) (*Pool, error) {
	if size <= 0 {
		return nil, cerr.InvalidArgumentf(0, "memory.create_pool: invalid size %d", size)
	}
	seg, err := Attach(handle, size)
	if err != nil {
		return nil, cerr.ResourceExhaustedf(0, "memory.create_pool: %v", err)
	}
	p := &Pool{seg: seg, size: size}
	p.refs.Store(1)
	return p, nil
}

// Acquire increments the pool's reference count. It is called once
// per Buffer drawn from the pool.
func (p *Pool) Acquire() {
	p.refs.Add(1)
}

// Slice returns a bounds-checked view into the pool's mapped memory.
// It enforces the invariant pool.size >= offset + size.
func (p *Pool) Slice(offset, size int) ([]byte, error) {
	if offset < 0 || size < 0 || offset+size > p.size {
		return nil, cerr.InvalidArgumentf(0, "memory_pool.create_buffer: out of bounds (offset=%d size=%d pool=%d)", offset, size, p.size)
	}
	return p.seg.Bytes()[offset : offset+size], nil
}

// Size returns the pool's mapped size in bytes.
func (p *Pool) Size() int { return p.size }

// Detached reports whether the client has called Destroy on this
// pool. A detached pool with outstanding Buffer references is still
// mapped, but will be unmapped as soon as the last one is released.
func (p *Pool) Detached() bool { return p.detached.Load() }

// RefCount returns the current reference count, for tests.
func (p *Pool) RefCount() int32 { return p.refs.Load() }

// Destroy is the client's memory_pool.destroy request: it releases
// the pool's own reference and marks it detached. The backing Segment
// is only actually unmapped once every Buffer carved from it has also
// released its reference (see Release).
func (p *Pool) Destroy() {
	p.detached.Store(true)
	p.Release()
}

// Release decrements the reference count, unmapping the segment when
// it reaches zero (and the pool has been detached).
func (p *Pool) Release() {
	if p.refs.Add(-1) == 0 {
		p.seg.Close()
	}
}
