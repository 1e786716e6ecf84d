// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
)

// maxEmptyReads bounds consecutive reads that return nothing without error.
const maxEmptyReads = 100

// Load decodes all of src into memory, resampled to rate Hz and mixed down
// to mono. src is not closed.
func Load(src audio.Source, rate, bufSize int) (*Memory, error) {
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

	// start with about two seconds and let append grow it
	out := make([]float32, 0, rate*2)
	buf := make([]float32, bufSize)
	empty := 0

	for {
		n, err := pipe.ReadSamples(buf)
		out = append(out, buf[:n]...)

		if errors.Is(err, io.EOF) {
			return NewMemory(out, rate), nil
		}
		if err != nil {
			return nil, fmt.Errorf("stream: decode: %w", err)
		}
		if n > 0 {
			empty = 0
			continue
		}
		if empty++; empty == maxEmptyReads {
			return nil, fmt.Errorf("stream: decode: %w", io.ErrNoProgress)
		}
	}
}
