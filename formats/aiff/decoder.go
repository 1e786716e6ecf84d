// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/utils"
)

// aiffReader is the part of aiff.Decoder the source uses.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        aiffReader
	reopen     func() (aiffReader, error)
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, len(dst)),
			Format: s.dec.Format(),
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		if err != nil && err != io.EOF {
			return 0, fmt.Errorf("aiff: %w", err)
		}
		return 0, io.EOF
	}

	for i := range n {
		dst[i] = utils.Normalize(int64(s.intBuf.Data[i]), s.bitDepth)
	}

	if err != nil && err != io.EOF {
		return n, fmt.Errorf("aiff: %w", err)
	}
	return n, err
}

// Rewind restarts decoding from the first frame.
func (s *source) Rewind() error {
	if s.reopen == nil {
		return audio.ErrNotRewindable
	}

	dec, err := s.reopen()
	if err != nil {
		return fmt.Errorf("aiff: rewind: %w", err)
	}
	s.dec = dec
	return nil
}

type Decoder struct{}

// Decode parses the COMM chunk of an AIFF file. Input that is not an
// io.ReadSeeker is read fully into memory first.
func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("aiff: reading data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w", err)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels < 1 {
		return nil, ErrUnsupportedAiffLayout
	}

	reopen := func() (aiffReader, error) {
		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return nil, err
		}
		d := aiff.NewDecoder(rs)
		d.ReadInfo()
		return d, nil
	}

	return &source{
		dec:        dec,
		reopen:     reopen,
		sampleRate: format.SampleRate,
		channels:   format.NumChannels,
		bitDepth:   int(dec.BitDepth),
	}, nil
}
