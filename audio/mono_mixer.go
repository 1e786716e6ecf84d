// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// MonoMixer averages every frame of an interleaved Source into one sample.
// A mono source passes through untouched.
type MonoMixer struct {
	src Source
	tmp []float32
}

func NewMonoMixer(src Source) *MonoMixer {
	return &MonoMixer{src: src}
}

func (m *MonoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *MonoMixer) Channels() int   { return 1 }
func (m *MonoMixer) BufSize() int    { return m.src.BufSize() }

func (m *MonoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("mono mixer: %w", err)
	}
	return nil
}

// Rewind forwards to the source.
func (m *MonoMixer) Rewind() error {
	rw, ok := m.src.(Rewinder)
	if !ok {
		return ErrNotRewindable
	}
	if err := rw.Rewind(); err != nil {
		return fmt.Errorf("mono mixer: %w", err)
	}
	return nil
}

// ReadSamples writes up to len(dst) mono samples.
func (m *MonoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 1 {
		return m.src.ReadSamples(dst)
	}

	need := len(dst) * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, max(need, 8192))
	}
	buf := m.tmp[:need]

	n, err := m.src.ReadSamples(buf)
	frames := n / channels
	if frames == 0 {
		return 0, err
	}

	switch channels {
	case 2:
		for f := range frames {
			dst[f] = (buf[2*f] + buf[2*f+1]) * 0.5
		}
	default:
		scale := 1 / float32(channels)
		for f := range frames {
			var sum float32
			for _, x := range buf[f*channels : (f+1)*channels] {
				sum += x
			}
			dst[f] = sum * scale
		}
	}

	return frames, err
}
