// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// wavReader is the part of wav.Decoder the source uses.
type wavReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
	Rewind() error
}

type wavSource struct {
	dec        wavReader
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
}

func (s *wavSource) SampleRate() int { return s.sampleRate }
func (s *wavSource) Channels() int   { return s.channels }
func (s *wavSource) Close() error    { return nil }
func (s *wavSource) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *wavSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{Data: make([]int, len(dst))}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	// PCMBuffer reports the end of the data chunk as (0, nil).
	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("wav: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	for i := range n {
		v := int64(s.intBuf.Data[i])
		if s.bitDepth == 8 {
			v -= 128
		}
		dst[i] = utils.Normalize(v, s.bitDepth)
	}

	return n, nil
}

// Rewind seeks back to the start of the data chunk.
func (s *wavSource) Rewind() error {
	if err := s.dec.Rewind(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

type Decoder struct{}

// Decode parses the RIFF headers of a PCM WAV file. Input that is not an
// io.ReadSeeker is read fully into memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("wav: reading data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return nil, ErrNotWavFile
	}

	switch dec.WavAudioFormat {
	case formatPCM, formatExtensible:
	default:
		return nil, fmt.Errorf("%w: format tag %#x", ErrUnsupportedFormat, dec.WavAudioFormat)
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	return &wavSource{
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   int(dec.NumChans),
		bitDepth:   int(dec.BitDepth),
	}, nil
}
