// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audmix/audio"
)

// mp3Reader is the part of gomp3.Decoder the source uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
}

type source struct {
	dec        mp3Reader
	sampleRate int
	seekable   bool
	buf        []byte
}

// go-mp3 always produces 16-bit little-endian stereo.
const channels = 2

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	need := len(dst) * 2
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	s.buf = s.buf[:need]

	n, err := s.dec.Read(s.buf)
	samples := n / 2
	for i := range samples {
		v := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(v) / 32768
	}

	if err != nil && err != io.EOF {
		return samples, fmt.Errorf("mp3: %w", err)
	}
	return samples, err
}

// Rewind seeks back to the first sample. It needs the decoded reader to be
// an io.Seeker.
func (s *source) Rewind() error {
	if !s.seekable {
		return audio.ErrNotRewindable
	}
	if _, err := s.dec.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("mp3: rewind: %w", err)
	}
	return nil
}

type Decoder struct{}

// Decode reads MP3 frames from r. Sources built on an io.Seeker (such as
// *os.File) can be rewound for looping.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w", err)
	}

	_, seekable := r.(io.Seeker)

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		seekable:   seekable,
		buf:        make([]byte, 8192),
	}, nil
}
