// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/go-audio/audio"

	"github.com/ik5/audmix/utils"
)

// Memory is a seekable reader over mono samples held in memory.
type Memory struct {
	samples []float32
	pos     int
	rate    int
}

// NewMemory wraps samples recorded at rate Hz. The slice is not copied.
func NewMemory(samples []float32, rate int) *Memory {
	return &Memory{samples: samples, rate: rate}
}

func (m *Memory) ReadSample() (float32, bool) {
	if m.pos >= len(m.samples) {
		return 0, false
	}
	x := m.samples[m.pos]
	m.pos++
	return x, true
}

// Seek moves to sample pos. Seeking to Len is allowed and leaves the reader
// at end of stream.
func (m *Memory) Seek(pos int64) error {
	if pos < 0 || pos > int64(len(m.samples)) {
		return fmt.Errorf("%w: %d of %d", ErrSeekOutOfRange, pos, len(m.samples))
	}
	m.pos = int(pos)
	return nil
}

func (m *Memory) Len() int           { return len(m.samples) }
func (m *Memory) Position() int64    { return int64(m.pos) }
func (m *Memory) SampleRate() int    { return m.rate }
func (m *Memory) Samples() []float32 { return m.samples }

// FromIntBuffer converts a go-audio PCM buffer to a mono Memory. Channels
// are averaged. 8-bit data is taken as unsigned, the way WAV stores it.
func FromIntBuffer(buf *audio.IntBuffer) (*Memory, error) {
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("stream: int buffer has no format")
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("stream: int buffer has %d channels", channels)
	}

	depth := buf.SourceBitDepth
	if depth == 0 {
		depth = 16
	}
	if depth < 8 || depth > 32 {
		return nil, fmt.Errorf("stream: int buffer has %d bit samples", depth)
	}

	frames := len(buf.Data) / channels
	out := make([]float32, frames)
	scale := 1 / float32(channels)

	for f := range frames {
		var sum float32
		for _, v := range buf.Data[f*channels : (f+1)*channels] {
			if depth == 8 {
				v -= 128
			}
			sum += utils.Normalize(int64(v), depth)
		}
		out[f] = sum * scale
	}

	return NewMemory(out, buf.Format.SampleRate), nil
}
