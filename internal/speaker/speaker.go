// SPDX-License-Identifier: EPL-2.0

// Package speaker plays published mixer periods on the default sound device.
//
// The player pushes buffers through Consume; the device pulls bytes through
// Read on its own goroutine and each buffer is released once it has been
// fully copied out, which frees the player to render the next period.
package speaker

import (
	"encoding/binary"
	"errors"
	"math"
	"sync"
	"sync/atomic"

	"github.com/ik5/audmix/audio"
)

// ErrUnsupportedChannels is returned for layouts other than mono and stereo.
var ErrUnsupportedChannels = errors.New("speaker: device supports mono or stereo only")

// queueDepth matches the two buffers of the player pipeline.
const queueDepth = 2

// Speaker converts signed PCM to what the device accepts: unsigned 8-bit,
// signed 16-bit, or float32 for 24 and 32-bit output.
type Speaker struct {
	format audio.Format
	queue  chan *audio.Buffer

	// read side, owned by the device goroutine
	cur *audio.Buffer
	off int

	underruns atomic.Uint64
	closeOnce sync.Once
	backend   interface{ Close() error }
}

func newSpeaker(f audio.Format) *Speaker {
	return &Speaker{
		format: f,
		queue:  make(chan *audio.Buffer, queueDepth),
	}
}

// Consume queues b for playback. It has the shape of a player buffer
// callback and never blocks while the pipeline holds at most two buffers.
func (s *Speaker) Consume(b *audio.Buffer) {
	s.queue <- b
}

// outBytes is the device sample size for f.
func outBytes(d audio.BitDepth) int {
	switch d {
	case audio.Depth8:
		return 1
	case audio.Depth16:
		return 2
	default:
		return 4
	}
}

// Read implements io.Reader for the device. Missing periods are played as
// silence and counted as underruns.
func (s *Speaker) Read(p []byte) (int, error) {
	depth := s.format.BitDepth
	in := depth.Bytes()
	out := outBytes(depth)

	n := 0
	for n+out <= len(p) {
		if s.cur == nil {
			select {
			case b := <-s.queue:
				s.cur, s.off = b, 0
			default:
				s.underruns.Add(1)
				silence(p[n:], depth)
				return len(p), nil
			}
		}

		src := s.cur.Bytes()
		for n+out <= len(p) && s.off+in <= len(src) {
			convert(p[n:], src[s.off:], depth)
			n += out
			s.off += in
		}

		if s.off+in > len(src) {
			s.cur.Release()
			s.cur = nil
		}
	}

	return n, nil
}

func convert(dst, src []byte, d audio.BitDepth) {
	switch d {
	case audio.Depth8:
		dst[0] = src[0] ^ 0x80
	case audio.Depth16:
		dst[0], dst[1] = src[0], src[1]
	default:
		v := float32(float64(d.Sample(src)) / float64(int64(d.Max())+1))
		binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
	}
}

func silence(p []byte, d audio.BitDepth) {
	fill := byte(0)
	if d == audio.Depth8 {
		fill = 0x80
	}
	for i := range p {
		p[i] = fill
	}
}

// Underruns counts the device reads that found no queued period.
func (s *Speaker) Underruns() uint64 { return s.underruns.Load() }

// Close stops the device and releases queued buffers. Close must not race
// with Consume.
func (s *Speaker) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.backend != nil {
			err = s.backend.Close()
		}
		for {
			select {
			case b := <-s.queue:
				b.Release()
			default:
				if s.cur != nil {
					s.cur.Release()
					s.cur = nil
				}
				return
			}
		}
	})
	return err
}
