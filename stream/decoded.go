// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
)

// Decoded streams a decoder's output, converted to rate Hz and mono, one
// sample at a time. Reads refill an internal block from the source when it
// runs dry.
//
// Seek restarts the source through audio.Rewinder and skips forward, so it
// costs time proportional to pos.
type Decoded struct {
	src  audio.Source
	pipe audio.Source // resampled and downmixed src

	buf  []float32
	head int
	tail int
	pos  int64
	eof  bool
	err  error
}

// NewDecoded wraps src. bufSize is the block size pulled per refill.
func NewDecoded(src audio.Source, rate, bufSize int) (*Decoded, error) {
	if bufSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBufSize, bufSize)
	}

	var pipe audio.Source = src
	if src.SampleRate() != rate {
		r, err := audio.NewResampler(src, rate)
		if err != nil {
			return nil, fmt.Errorf("stream: %w", err)
		}
		pipe = r
	}
	if pipe.Channels() != 1 {
		pipe = audio.NewMonoMixer(pipe)
	}

	return &Decoded{
		src:  src,
		pipe: pipe,
		buf:  make([]float32, bufSize),
	}, nil
}

func (d *Decoded) ReadSample() (float32, bool) {
	if d.head == d.tail && !d.fill() {
		return 0, false
	}

	x := d.buf[d.head]
	d.head++
	d.pos++
	return x, true
}

func (d *Decoded) fill() bool {
	if d.eof {
		return false
	}

	n, err := d.pipe.ReadSamples(d.buf)
	d.head, d.tail = 0, n
	if err != nil {
		d.eof = true
		if !errors.Is(err, io.EOF) {
			d.err = err
		}
	}

	return n > 0
}

// Seek restarts the source and discards pos samples.
func (d *Decoded) Seek(pos int64) error {
	if pos < 0 {
		return fmt.Errorf("%w: %d", ErrSeekOutOfRange, pos)
	}

	rw, ok := d.pipe.(audio.Rewinder)
	if !ok {
		return fmt.Errorf("stream: %w", audio.ErrNotRewindable)
	}
	if err := rw.Rewind(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}

	d.head, d.tail = 0, 0
	d.pos = 0
	d.eof = false
	d.err = nil

	for d.pos < pos {
		if _, ok := d.ReadSample(); !ok {
			return fmt.Errorf("%w: %d past end %d", ErrSeekOutOfRange, pos, d.pos)
		}
	}

	return nil
}

// Position counts samples read since the start or the last Seek.
func (d *Decoded) Position() int64 { return d.pos }

// Err is the decode error that ended the stream, if any. A clean end of
// stream leaves it nil.
func (d *Decoded) Err() error { return d.err }

func (d *Decoded) SampleRate() int { return d.pipe.SampleRate() }

func (d *Decoded) Close() error {
	if err := d.src.Close(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	return nil
}
