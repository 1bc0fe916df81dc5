package buffers

import (
	"sync"
)

const (
	// DefaultBufferSize is the size of the copy buffer used for one read/write round.
	DefaultBufferSize = 32 * 1024

	// MinBufferSize is the smallest buffer a pool will hand out.
	MinBufferSize = 1
)

// BufferPool maintains a pool of fixed-size byte slices to reduce GC pressure
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a new buffer pool with the specified buffer size.
// Sizes below MinBufferSize are raised to it.
func NewBufferPool(size int) *BufferPool {
	if size < MinBufferSize {
		size = MinBufferSize
	}
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buf := make([]byte, size)
				return &buf
			},
		},
		size: size,
	}
}

// Size returns the length of every buffer handed out by Get.
func (p *BufferPool) Size() int { return p.size }

// Get retrieves a buffer from the pool
func (p *BufferPool) Get() []byte {
	buffer := *(p.pool.Get().(*[]byte))

	if cap(buffer) < p.size {
		buffer = make([]byte, p.size)
	} else {
		// No need to zero the buffer - the caller should only read
		// the portions a Read call explicitly fills
		buffer = buffer[:p.size]
	}

	return buffer
}

// Put returns a buffer to the pool
func (p *BufferPool) Put(buffer []byte) {
	if buffer == nil || cap(buffer) < p.size {
		return // Don't keep undersized buffers
	}

	buffer = buffer[:p.size]
	p.pool.Put(&buffer)
}

var (
	poolsMu sync.Mutex
	pools   = map[int]*BufferPool{}

	// CopyBufferPool serves the default copy buffer size.
	CopyBufferPool = ForSize(DefaultBufferSize)
)

// ForSize returns the shared pool for buffers of the given size, creating it on first use.
func ForSize(size int) *BufferPool {
	if size < MinBufferSize {
		size = MinBufferSize
	}
	poolsMu.Lock()
	defer poolsMu.Unlock()
	if p, ok := pools[size]; ok {
		return p
	}
	p := NewBufferPool(size)
	pools[size] = p
	return p
}
