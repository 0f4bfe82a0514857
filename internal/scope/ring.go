// Package scope holds the lock-free single-producer/single-consumer sample
// ring that feeds the terminal scope widget. The audio callback is the only
// writer; the UI thread is the only reader, polled once per tick.
package scope

import (
	"sync/atomic"

	"github.com/kajmany/bytebeat/internal/invariant"
)

// Ring is a fixed-capacity circular buffer of the most recently written
// samples. Capacity must be a power of two so indexing can use a mask
// instead of a modulo, keeping Push branch-free on the audio thread.
//
// Push is wait-free: it never blocks, allocates, or takes a lock, which is
// the one hard requirement the audio callback places on anything it calls
// into. Snapshot is safe to call concurrently from exactly one reader
// goroutine; when the window spans the whole ring, a concurrent Push may
// overwrite the oldest slot before it is copied, so the leading sample can
// be newer than the rest, which is harmless for a visual scope and far
// cheaper than synchronizing every single sample.
type Ring struct {
	buf  []byte
	mask uint64
	head atomic.Uint64 // next write position, monotonically increasing
}

// NewRing returns a Ring of the smallest power of two >= capacity.
func NewRing(capacity int) *Ring {
	invariant.Precondition(capacity > 0, "ring capacity must be positive, got %d", capacity)
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Ring{
		buf:  make([]byte, size),
		mask: uint64(size - 1),
	}
}

// Push appends one sample, overwriting the oldest entry once the ring has
// wrapped. Called once per output sample from the audio callback.
func (r *Ring) Push(sample byte) {
	idx := r.head.Load()
	r.buf[idx&r.mask] = sample
	r.head.Store(idx + 1)
}

// Len reports total samples ever written (monotonic, not clamped to
// capacity). Useful for the UI to detect a fresh stream (len==0) and avoid
// drawing uninitialized trailing zeros as if they were real samples.
func (r *Ring) Len() uint64 {
	return r.head.Load()
}

// Cap returns the ring's fixed capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Snapshot copies the most recent min(n, Cap(), Len()) samples, oldest
// first, into dst and returns the slice actually filled. dst must have
// length >= n. The caller (the UI thread) owns dst exclusively; Snapshot
// never retains a reference to it.
func (r *Ring) Snapshot(dst []byte, n int) []byte {
	invariant.Precondition(len(dst) >= n, "dst too small for requested snapshot of %d samples", n)

	written := r.head.Load()
	if uint64(n) > written {
		n = int(written)
	}
	if n > len(r.buf) {
		n = len(r.buf)
	}
	start := written - uint64(n)
	for i := 0; i < n; i++ {
		dst[i] = r.buf[(start+uint64(i))&r.mask]
	}
	return dst[:n]
}
