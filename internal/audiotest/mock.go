// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fakes shared by the tests of the audio packages.
package audiotest

import (
	"io"
	"math"
	"sync"
)

// MockSource generates interleaved frames from a waveform function. It
// satisfies audio.Source and audio.Rewinder without importing audio.
type MockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	generated   int
	waveform    func(frame, channel int) float32

	Closed  bool
	Rewinds int
}

func NewMockSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

func NewSilentSource(sampleRate, channels, totalFrames int) *MockSource {
	return NewConstantSource(sampleRate, channels, totalFrames, 0)
}

func NewSineSource(sampleRate, channels, totalFrames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(frame, _ int) float32 {
		return float32(math.Sin(2 * math.Pi * frequency * float64(frame) / float64(sampleRate)))
	})
}

func NewConstantSource(sampleRate, channels, totalFrames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, totalFrames, func(int, int) float32 { return value })
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.Closed = true
	return nil
}

func (m *MockSource) Rewind() error {
	m.Rewinds++
	m.generated = 0
	return nil
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
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

// Samples is a seekable sample-at-a-time reader over a fixed slice.
type Samples struct {
	Data  []float32
	Pos   int
	Reads int
	Seeks int
}

func (s *Samples) ReadSample() (float32, bool) {
	s.Reads++
	if s.Pos >= len(s.Data) {
		return 0, false
	}
	x := s.Data[s.Pos]
	s.Pos++
	return x, true
}

func (s *Samples) Seek(pos int64) error {
	s.Seeks++
	s.Pos = int(min(max(pos, 0), int64(len(s.Data))))
	return nil
}

// Sink records every flushed period and disable call.
type Sink struct {
	mu       sync.Mutex
	periods  [][]byte
	disabled int
}

// Flush copies p; callers reuse the buffer after it returns.
func (s *Sink) Flush(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.periods = append(s.periods, append([]byte(nil), p...))
}

func (s *Sink) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.disabled++
}

func (s *Sink) Periods() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.periods
}

func (s *Sink) Disabled() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.disabled
}
