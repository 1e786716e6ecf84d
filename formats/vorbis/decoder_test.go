// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audmix/audio"
)

// mockOggVorbisReader behaves like oggvorbis.Reader: Read fills whole frames
// and reports the number of values written.
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32
	offset     int
	readErr    error
	seekErr    error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.readErr != nil {
		return 0, m.readErr
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	frames := min(len(buf), len(m.samples)-m.offset) / m.channels
	n := copy(buf, m.samples[m.offset:m.offset+frames*m.channels])
	m.offset += n

	return n, nil
}

func (m *mockOggVorbisReader) SetPosition(pos int64) error {
	if m.seekErr != nil {
		return m.seekErr
	}
	m.offset = int(pos) * m.channels
	return nil
}

func newSource(channels int, samples []float32) (*source, *mockOggVorbisReader) {
	m := &mockOggVorbisReader{sampleRate: 8000, channels: channels, samples: samples}
	return &source{dec: m, sampleRate: 8000, channels: channels, frameBuf: make([]float32, 16)}, m
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("This is not Ogg Vorbis data")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) succeeded", data)
		}
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src, _ := newSource(2, nil)
	if src.SampleRate() != 8000 || src.Channels() != 2 {
		t.Errorf("metadata = %d Hz, %d ch", src.SampleRate(), src.Channels())
	}
	if src.BufSize() != 16 {
		t.Errorf("BufSize() = %d, want 16", src.BufSize())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		samples  int
		dst      int
		wantN    []int
	}{
		{"mono", 1, 5, 4, []int{4, 1, 0}},
		{"stereo", 2, 6, 4, []int{4, 2, 0}},
		{"stereo odd buffer", 2, 6, 5, []int{4, 2, 0}},
		{"5.1", 6, 24, 12, []int{12, 12, 0}},
		{"buffer smaller than a frame", 2, 4, 1, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := make([]float32, tt.samples)
			for i := range in {
				in[i] = float32(i+1) / 100
			}
			src, _ := newSource(tt.channels, in)

			var got []float32
			dst := make([]float32, tt.dst)
			for i, want := range tt.wantN {
				n, err := src.ReadSamples(dst)
				if err != nil && !errors.Is(err, io.EOF) {
					t.Fatalf("read %d: %v", i, err)
				}
				if n != want {
					t.Fatalf("read %d returned %d values, want %d", i, n, want)
				}
				got = append(got, dst[:n]...)
			}

			if tt.wantN[len(tt.wantN)-1] == 0 && tt.dst >= tt.channels {
				if len(got) != len(in) {
					t.Fatalf("read %d values, want %d", len(got), len(in))
				}
				for i := range got {
					if got[i] != in[i] {
						t.Errorf("value %d = %v, want %v", i, got[i], in[i])
					}
				}
			}
		})
	}
}

func TestSource_ReadSamples_EOF(t *testing.T) {
	t.Parallel()

	src, _ := newSource(2, []float32{0.1, 0.2})
	dst := make([]float32, 4)
	src.ReadSamples(dst)

	if n, err := src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("ReadSamples() at end = (%d, %v), want (0, EOF)", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src, m := newSource(1, []float32{0.1})
	m.readErr = io.ErrUnexpectedEOF

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want wrapped ErrUnexpectedEOF", err)
	}
}

func TestSource_Rewind(t *testing.T) {
	t.Parallel()

	src, m := newSource(2, []float32{0.1, 0.2, 0.3, 0.4})
	dst := make([]float32, 8)
	src.ReadSamples(dst)

	if err := src.Rewind(); err != nil {
		t.Fatal(err)
	}
	if n, _ := src.ReadSamples(dst); n != 4 || dst[0] != 0.1 {
		t.Errorf("after Rewind read %d values starting %v", n, dst[0])
	}

	m.seekErr = errors.New("oggvorbis: not an io.Seeker")
	if err := src.Rewind(); !errors.Is(err, audio.ErrNotRewindable) {
		t.Errorf("Rewind() = %v, want ErrNotRewindable", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	src, m := newSource(2, make([]float32, 1<<16))
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		if n, _ := src.ReadSamples(dst); n == 0 {
			m.offset = 0
		}
	}
}
