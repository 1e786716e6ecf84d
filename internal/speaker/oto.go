// SPDX-License-Identifier: EPL-2.0

//go:build !headless

package speaker

import (
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/audmix/audio"
)

func otoFormat(d audio.BitDepth) oto.Format {
	switch d {
	case audio.Depth8:
		return oto.FormatUnsignedInt8
	case audio.Depth16:
		return oto.FormatSignedInt16LE
	default:
		return oto.FormatFloat32LE
	}
}

// New opens the default output device in format f and starts playback.
// Only one speaker may exist per process.
func New(f audio.Format) (*Speaker, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("speaker: %w", err)
	}
	if f.Channels > 2 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedChannels, f.Channels)
	}

	// Two periods of device buffering, matching the pipeline.
	period := time.Duration(f.BufferFrames) * time.Second / time.Duration(f.SampleRate)

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       otoFormat(f.BitDepth),
		BufferSize:   2 * period,
	})
	if err != nil {
		return nil, fmt.Errorf("speaker: %w", err)
	}
	<-ready

	s := newSpeaker(f)
	player := ctx.NewPlayer(s)
	player.Play()
	s.backend = player

	return s, nil
}
