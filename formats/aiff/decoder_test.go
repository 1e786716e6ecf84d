// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/audio"
)

// mockAiffReader simulates the aiff.Decoder for testing
type mockAiffReader struct {
	sampleRate int
	channels   int
	samples    []int
	offset     int
	err        error
}

func (m *mockAiffReader) Format() *goaudio.Format {
	return &goaudio.Format{
		SampleRate:  m.sampleRate,
		NumChannels: m.channels,
	}
}

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n

	return n, nil
}

func newSource(bitDepth int, samples []int) *source {
	return &source{
		dec:        &mockAiffReader{sampleRate: 44100, channels: 1, samples: samples},
		sampleRate: 44100,
		channels:   1,
		bitDepth:   bitDepth,
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   io.Reader
	}{
		{"empty", bytes.NewReader(nil)},
		{"garbage", bytes.NewReader([]byte("This is not AIFF data"))},
		{"plain reader", io.LimitReader(bytes.NewReader([]byte("FORM")), 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := (Decoder{}).Decode(tt.in); err == nil {
				t.Error("Decode() error = nil, want error")
			}
		})
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := newSource(16, nil)
	if src.SampleRate() != 44100 || src.Channels() != 1 {
		t.Errorf("metadata = %d Hz, %d ch", src.SampleRate(), src.Channels())
	}
	if src.BufSize() != 4096 {
		t.Errorf("BufSize() = %d before first read, want 4096", src.BufSize())
	}
	if err := src.Close(); err != nil {
		t.Error(err)
	}

	src.ReadSamples(make([]float32, 100))
	if src.BufSize() != 100 {
		t.Errorf("BufSize() = %d after read, want 100", src.BufSize())
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := newSource(16, []int{0, 16384, -16384, 32767, -32768})
	want := []float32{0, 0.5, -0.5, 32767.0 / 32768, -1}

	dst := make([]float32, 3)
	var got []float32
	for {
		n, err := src.ReadSamples(dst)
		got = append(got, dst[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}

	if n, err := src.ReadSamples(dst); n != 0 || !errors.Is(err, io.EOF) {
		t.Errorf("read after end = (%d, %v)", n, err)
	}
}

func TestSource_ReadSamples_EmptyBuffer(t *testing.T) {
	t.Parallel()

	if n, err := newSource(16, []int{1}).ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := newSource(16, []int{1})
	src.dec.(*mockAiffReader).err = io.ErrUnexpectedEOF

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want wrapped ErrUnexpectedEOF", err)
	}
}

func TestSource_BitDepthNormalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		bitDepth int
		input    int
		expected float32
	}{
		{"8-bit max", 8, 127, 127.0 / 128.0},
		{"8-bit min", 8, -128, -1.0},
		{"16-bit max", 16, 32767, 32767.0 / 32768.0},
		{"16-bit min", 16, -32768, -1.0},
		{"24-bit", 24, 8388607, 8388607.0 / 8388608.0},
		{"32-bit", 32, 2147483647, 2147483647.0 / 2147483648.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dst := make([]float32, 1)
			n, _ := newSource(tt.bitDepth, []int{tt.input}).ReadSamples(dst)
			if n != 1 {
				t.Fatalf("ReadSamples() n = %d, want 1", n)
			}

			tolerance := float32(0.001)
			if dst[0] < tt.expected-tolerance || dst[0] > tt.expected+tolerance {
				t.Errorf("ReadSamples() dst[0] = %f, want ~%f", dst[0], tt.expected)
			}
		})
	}
}

func TestSource_Rewind(t *testing.T) {
	t.Parallel()

	src := newSource(16, []int{16384, 0})
	if err := src.Rewind(); !errors.Is(err, audio.ErrNotRewindable) {
		t.Errorf("Rewind() without reopen = %v, want ErrNotRewindable", err)
	}

	opened := 0
	src.reopen = func() (aiffReader, error) {
		opened++
		return &mockAiffReader{sampleRate: 44100, channels: 1, samples: []int{16384, 0}}, nil
	}

	dst := make([]float32, 4)
	src.ReadSamples(dst)
	if err := src.Rewind(); err != nil {
		t.Fatal(err)
	}
	if n, _ := src.ReadSamples(dst); n != 2 || dst[0] != 0.5 {
		t.Errorf("after Rewind read %d samples starting %v", n, dst[0])
	}
	if opened != 1 {
		t.Errorf("reopened %d times, want 1", opened)
	}

	src.reopen = func() (aiffReader, error) { return nil, io.ErrClosedPipe }
	if err := src.Rewind(); !errors.Is(err, io.ErrClosedPipe) {
		t.Errorf("Rewind() = %v, want wrapped ErrClosedPipe", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	src := newSource(16, make([]int, 1<<16))
	m := src.dec.(*mockAiffReader)
	dst := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		if n, _ := src.ReadSamples(dst); n == 0 {
			m.offset = 0
		}
	}
}
