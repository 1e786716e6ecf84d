// SPDX-License-Identifier: EPL-2.0

package audio

import "sync/atomic"

// Buffer is one of the two output buffers of a Pipeline.
//
// A buffer handed to a consumer stays out of the mixer's reach until the
// consumer calls Release.
type Buffer struct {
	data  []byte
	index int
	ready chan struct{}
}

// Bytes is the rendered period. It is only valid until Release.
func (b *Buffer) Bytes() []byte { return b.data }

func (b *Buffer) Len() int { return len(b.data) }

// Index is 0 or 1.
func (b *Buffer) Index() int { return b.index }

// Release returns the buffer to the pipeline. Releasing a buffer twice
// panics.
func (b *Buffer) Release() {
	select {
	case b.ready <- struct{}{}:
	default:
		panic("audio: buffer released twice")
	}
}

// Pipeline is a strict double buffer: Acquire alternates between exactly two
// buffers and waits until the one it hands out has been released by its
// previous consumer.
//
// Acquire and Publish must be called from one goroutine; Release may be
// called from any.
type Pipeline struct {
	bufs      [2]*Buffer
	next      int
	published atomic.Uint64
}

// NewPipeline allocates two buffers of size bytes.
func NewPipeline(size int) *Pipeline {
	p := &Pipeline{}
	for i := range p.bufs {
		b := &Buffer{
			data:  make([]byte, size),
			index: i,
			ready: make(chan struct{}, 1),
		}
		b.ready <- struct{}{}
		p.bufs[i] = b
	}

	return p
}

// Acquire returns the next writable buffer, blocking while its previous
// consumer still holds it.
func (p *Pipeline) Acquire() *Buffer {
	b := p.bufs[p.next]
	<-b.ready
	p.next ^= 1

	return b
}

// Publish hands b to consume. With a nil consume the buffer is released
// at once.
func (p *Pipeline) Publish(b *Buffer, consume func(*Buffer)) {
	p.published.Add(1)
	if consume == nil {
		b.Release()
		return
	}
	consume(b)
}

// Size is the byte length of each buffer.
func (p *Pipeline) Size() int { return len(p.bufs[0].data) }

// Published counts buffers handed to consumers.
func (p *Pipeline) Published() uint64 { return p.published.Load() }
