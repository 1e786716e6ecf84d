// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	ErrInvalidSampleRate    = errors.New("sample rate must be positive")
	ErrInvalidChannels      = errors.New("channel count must be at least 1")
	ErrUnsupportedBitDepth  = errors.New("bit depth must be 8, 16, 24 or 32")
	ErrInvalidBufferFrames  = errors.New("buffer frames must be positive")
	ErrInvalidVoiceCapacity = errors.New("voices per channel must not be negative")

	ErrInvalidChannel   = errors.New("channel out of range")
	ErrRegistryFull     = errors.New("no free voice slot on channel")
	ErrInvalidFrequency = errors.New("frequency must be above 0 and at most half the sample rate")
	ErrMissingRead      = errors.New("stream voice needs a read function")
	ErrMissingSeek      = errors.New("looping stream voice needs a seek function")

	ErrNotRewindable = errors.New("source cannot rewind")
)
