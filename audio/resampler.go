// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Resampler converts an interleaved Source to another sample rate with
// Catmull-Rom interpolation over a four frame window. Downsampling runs the
// input through a one-pole low-pass first.
//
// Stream voices consume samples at the output rate, so sources decoded at a
// different rate go through a Resampler before they reach the mixer.
type Resampler struct {
	src      Source
	dstRate  int
	ratio    float64 // source frames per output frame
	channels int

	// window[0..3] hold frames t-1, t, t+1, t+2
	window [4][]float32
	real   int // real frames in window[1..3]; the rest repeat the last one
	primed bool
	eof    bool
	frac   float64

	lowpass bool
	alpha   float32
	state   []float32
	frame   []float32
}

// NewResampler resamples src to dstRate.
func NewResampler(src Source, dstRate int) (*Resampler, error) {
	if dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, dstRate)
	}
	if src.SampleRate() <= 0 {
		return nil, fmt.Errorf("%w: source reports %d", ErrInvalidSampleRate, src.SampleRate())
	}
	if src.Channels() <= 0 {
		return nil, fmt.Errorf("%w: source reports %d", ErrInvalidChannels, src.Channels())
	}

	ch := src.Channels()
	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		ratio:    float64(src.SampleRate()) / float64(dstRate),
		channels: ch,
		state:    make([]float32, ch),
		frame:    make([]float32, ch),
	}
	if r.ratio > 1 {
		r.lowpass = true
		r.alpha = 0.5
	}
	for i := range r.window {
		r.window[i] = make([]float32, ch)
	}

	return r, nil
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}
	return nil
}

// Rewind restarts the source and drops the interpolation window. It fails
// with ErrNotRewindable when the source cannot rewind.
func (r *Resampler) Rewind() error {
	rw, ok := r.src.(Rewinder)
	if !ok {
		return ErrNotRewindable
	}
	if err := rw.Rewind(); err != nil {
		return fmt.Errorf("resampler: %w", err)
	}

	r.real = 0
	r.primed = false
	r.eof = false
	r.frac = 0
	clear(r.state)

	return nil
}

// pull reads one frame from the source into r.frame.
func (r *Resampler) pull() (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.frame)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("resampler: %w", err)
	}
	if errors.Is(err, io.EOF) {
		r.eof = true
	}
	if n < r.channels {
		r.eof = true
		return false, nil
	}

	if r.lowpass {
		for c, x := range r.frame {
			y := r.alpha*x + (1-r.alpha)*r.state[c]
			r.state[c] = y
			r.frame[c] = y
		}
	}

	return true, nil
}

// shift drops window[0] and appends the next frame. When the source is dry
// the last frame is repeated so interpolation can finish the tail.
func (r *Resampler) shift() error {
	head := r.window[0]
	copy(r.window[:], r.window[1:])
	r.window[3] = head
	if r.real > 0 {
		r.real--
	}

	ok, err := r.pull()
	if err != nil {
		return err
	}
	if ok {
		r.real++
		copy(r.window[3], r.frame)
		return nil
	}

	copy(r.window[3], r.window[2])

	return nil
}

func (r *Resampler) prime() error {
	ok, err := r.pull()
	if err != nil || !ok {
		return err
	}
	if r.lowpass {
		copy(r.state, r.frame)
	}
	copy(r.window[0], r.frame)
	copy(r.window[1], r.frame)
	r.real = 1

	for i := 2; i < 4; i++ {
		ok, err = r.pull()
		if err != nil {
			return err
		}
		if !ok {
			copy(r.window[i], r.window[i-1])
			continue
		}
		copy(r.window[i], r.frame)
		r.real++
	}
	r.primed = true

	return nil
}

// ReadSamples fills dst with interleaved frames at the target rate. len(dst)
// must be a multiple of Channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
		if !r.primed {
			return 0, io.EOF
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.frac >= 1 {
			r.frac--
			if err := r.shift(); err != nil {
				return written * r.channels, err
			}
		}

		if r.real == 0 {
			return written * r.channels, io.EOF
		}

		t := float32(r.frac)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = cubic(r.window[0][c], r.window[1][c], r.window[2][c], r.window[3][c], t)
		}

		written++
		r.frac += r.ratio
	}

	return written * r.channels, nil
}

// cubic is the Catmull-Rom spline through y1 and y2 at t in [0,1).
func cubic(y0, y1, y2, y3, t float32) float32 {
	a := -0.5*y0 + 1.5*y1 - 1.5*y2 + 0.5*y3
	b := y0 - 2.5*y1 + 2*y2 - 0.5*y3
	c := -0.5*y0 + 0.5*y2

	return ((a*t+b)*t+c)*t + y1
}
