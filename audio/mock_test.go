// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
)

// mockSource generates totalFrames interleaved frames from waveform and can
// rewind to the first frame.
type mockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame, channel int) float32

	closed    bool
	rewindErr error
	rewinds   int
}

func newMockSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

func newSilentSource(sampleRate, channels, totalFrames int) *mockSource {
	return newConstantSource(sampleRate, channels, totalFrames, 0)
}

func newSineSource(sampleRate, channels, totalFrames int, frequency float64) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(frame) / float64(sampleRate)))
	})
}

func newConstantSource(sampleRate, channels, totalFrames int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(int, int) float32 { return value })
}

// newRampSource yields frame/totalFrames on every channel.
func newRampSource(sampleRate, channels, totalFrames int) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(frame, _ int) float32 {
		return float32(frame) / float32(totalFrames)
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

func (m *mockSource) Rewind() error {
	if m.rewindErr != nil {
		return m.rewindErr
	}
	m.rewinds++
	m.generated = 0
	return nil
}

func (m *mockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.totalFrames-m.generated)
	for f := range frames {
		for ch := range m.channels {
			dst[f*m.channels+ch] = m.waveform(m.generated+f, ch)
		}
	}
	m.generated += frames

	if m.generated >= m.totalFrames {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}

// plainSource hides the Rewind method of the wrapped source.
type plainSource struct{ Source }

var errBoom = errors.New("boom")

// failingSource returns err on every read.
type failingSource struct {
	*mockSource
	err error
}

func (f *failingSource) ReadSamples([]float32) (int, error) { return 0, f.err }

// countingVoice yields n samples of value, then reports exhaustion.
type countingVoice struct {
	value int32
	left  int
	calls int
}

func (v *countingVoice) Next() (int32, bool) {
	v.calls++
	if v.left == 0 {
		return 0, false
	}
	v.left--
	return v.value, true
}

// constVoice never runs dry.
type constVoice int32

func (c constVoice) Next() (int32, bool) { return int32(c), true }
