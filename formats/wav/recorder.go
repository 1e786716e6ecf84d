// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/audmix/audio"
)

// Recorder writes mixed periods to a PCM WAV file. Flush has the shape of a
// player flush callback, so a recorder can stand in for a sound card:
//
//	rec, _ := wav.NewRecorder(f, player.Format())
//	player.OnFlush(rec.Flush)
//
// Flush cannot report errors; the first one is kept and returned by Err and
// Close, and later periods are dropped.
type Recorder struct {
	mu sync.Mutex

	enc     *wav.Encoder
	depth   audio.BitDepth
	buf     *goaudio.IntBuffer
	frames  int
	started bool
	closed  bool
	err     error
}

// NewRecorder prepares a WAV stream in the player's output format. The
// header is completed by Close.
func NewRecorder(w io.WriteSeeker, f audio.Format) (*Recorder, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return &Recorder{
		enc:   wav.NewEncoder(w, f.SampleRate, int(f.BitDepth), f.Channels, formatPCM),
		depth: f.BitDepth,
		buf: &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
			Data:           make([]int, 0, f.BufferFrames*f.Channels),
			SourceBitDepth: int(f.BitDepth),
		},
	}, nil
}

// Flush appends one period of signed little-endian samples.
func (r *Recorder) Flush(period []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return
	}
	if r.closed {
		r.err = ErrRecorderClosed
		return
	}

	size := r.depth.Bytes()
	r.buf.Data = r.buf.Data[:0]
	for i := 0; i+size <= len(period); i += size {
		v := int(r.depth.Sample(period[i:]))
		// WAV stores 8-bit samples unsigned.
		if r.depth == audio.Depth8 {
			v += 128
		}
		r.buf.Data = append(r.buf.Data, v)
	}

	if err := r.enc.Write(r.buf); err != nil {
		r.err = fmt.Errorf("wav: writing period: %w", err)
		return
	}
	r.started = true
	r.frames += r.buf.NumFrames()
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.frames
}

// Err returns the first write error.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.err
}

// Close patches the RIFF and data chunk sizes. The underlying writer is
// left open.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return r.err
	}
	r.closed = true

	if r.err != nil {
		return r.err
	}

	if !r.started {
		r.buf.Data = r.buf.Data[:0]
		if err := r.enc.Write(r.buf); err != nil {
			r.err = fmt.Errorf("wav: writing header: %w", err)
			return r.err
		}
	}

	if err := r.enc.Close(); err != nil {
		r.err = fmt.Errorf("wav: %w", err)
	}
	return r.err
}
