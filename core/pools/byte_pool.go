package pools

import (
	"sync"
	"sync/atomic"
)

// BytePool hands out receive buffers of one fixed size.
type BytePool struct {
	pool sync.Pool
	size int
	gets atomic.Uint64
	puts atomic.Uint64
}

// NewBytePool creates a pool of size-byte buffers.
func NewBytePool(size int) *BytePool {
	bp := &BytePool{size: size}
	bp.pool.New = func() any {
		buf := make([]byte, size)
		return &buf
	}
	return bp
}

// Size returns the length of every buffer handed out.
func (bp *BytePool) Size() int {
	return bp.size
}

// Get returns a buffer of exactly Size bytes. Its contents are undefined.
func (bp *BytePool) Get() *[]byte {
	bp.gets.Add(1)
	return bp.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool. Buffers of another capacity are dropped.
func (bp *BytePool) Put(buf *[]byte) {
	if buf == nil || cap(*buf) != bp.size {
		return
	}
	*buf = (*buf)[:bp.size]
	bp.puts.Add(1)
	bp.pool.Put(buf)
}

// Stats returns how many buffers were handed out and returned.
func (bp *BytePool) Stats() (gets, puts uint64) {
	return bp.gets.Load(), bp.puts.Load()
}
