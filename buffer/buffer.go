// Package buffer implements the reference-counted view over a shared
// memory pool region that a client hands to a Surface as its content.
package buffer

import (
	"sync/atomic"

	"github.com/Meulengracht/vioarr-sub000/internal/cerr"
	"github.com/Meulengracht/vioarr-sub000/pixfmt"
	"github.com/Meulengracht/vioarr-sub000/shm"
)

// Buffer is a reference-counted (pool-reference, width, height,
// stride, pixel-format, flags, data-pointer) tuple. It is created with
// a reference count of 1 on client creation; a Surface adopting it as
// pending content adds a reference, and releases it on replacement or
// on surface/client destroy.
type Buffer struct {
	ID     uint32
	pool   *shm.Pool
	Width  int
	Height int
	Stride int
	Format pixfmt.Format
	Flags  pixfmt.Flags
	data   []byte

	refs   atomic.Int32
	zombie atomic.Bool
}

// Create validates bounds against the pool (spec.md §3's invariant
// pool.size >= offset + stride*height) and slices the buffer's pixel
// data out of the pool. It acquires a reference on pool on success.
func Create(id uint32, pool *shm.Pool, offset, width, height, stride int, format pixfmt.Format, flags pixfmt.Flags) (*Buffer, error) {
	if width <= 0 || height <= 0 || stride <= 0 {
		return nil, cerr.InvalidArgumentf(id, "memory_pool.create_buffer: non-positive dimension (w=%d h=%d stride=%d)", width, height, stride)
	}
	if !format.Valid() {
		return nil, cerr.InvalidArgumentf(id, "memory_pool.create_buffer: invalid pixel format %d", format)
	}
	data, err := pool.Slice(offset, stride*height)
	if err != nil {
		return nil, err
	}
	pool.Acquire()
	b := &Buffer{
		ID:     id,
		pool:   pool,
		Width:  width,
		Height: height,
		Stride: stride,
		Format: format,
		Flags:  flags,
		data:   data,
	}
	b.refs.Store(1)
	return b, nil
}

// Data returns the buffer's pixel bytes, as currently visible through
// the shared mapping. Callers must not retain the slice past the
// buffer's last reference release.
func (b *Buffer) Data() []byte { return b.data }

// Acquire adds a reference, e.g. when a Surface adopts the buffer as
// pending content. It returns false if the buffer has already reached
// zero references (a destroyed buffer cannot be reacquired).
func (b *Buffer) Acquire() bool {
	for {
		cur := b.refs.Load()
		if cur <= 0 {
			return false
		}
		if b.refs.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

// Destroy handles the client's buffer.destroy request. Per spec.md
// §9's resolved Open Question, the client's reference is not dropped
// synchronously: the render thread may still be mid-upload of this
// buffer's contents for the in-flight frame, so Destroy only tags the
// buffer zombie. ReleaseZombie, called by the render thread on its
// next pass, performs the actual reference drop.
func (b *Buffer) Destroy() {
	b.zombie.Store(true)
}

// release drops one reference, freeing the pool reference once the
// count reaches zero. It returns true if this call freed the buffer.
func (b *Buffer) release() bool {
	if b.refs.Add(-1) != 0 {
		return false
	}
	b.pool.Release()
	return true
}

// Release drops one reference directly. Surfaces use this when
// replacing pending content or on their own destroy — paths that run
// on a request thread but, unlike client buffer.destroy, are not
// racing the render thread's use of this specific reference.
func (b *Buffer) Release() {
	b.release()
}

// IsZombie reports whether the client has called Destroy on this
// buffer; the render thread has not yet processed the pending release.
func (b *Buffer) IsZombie() bool { return b.zombie.Load() }

// ReleaseZombie drops the client's reference to a zombie buffer. It is
// a no-op if the buffer was never marked zombie. The render thread
// calls it once per frame for every pending zombie; tests can call it
// directly and poll RefCount alongside IsZombie to observe the
// contract without a real render thread.
func (b *Buffer) ReleaseZombie() {
	if !b.zombie.CompareAndSwap(true, false) {
		return
	}
	b.release()
}

// RefCount returns the current reference count, for tests and the
// zombie-release contract.
func (b *Buffer) RefCount() int32 { return b.refs.Load() }
