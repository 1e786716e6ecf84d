// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into an audio.Registry.
package formats

import (
	"errors"
	"fmt"
	"os"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats/aiff"
	"github.com/ik5/audmix/formats/mp3"
	"github.com/ik5/audmix/formats/vorbis"
	"github.com/ik5/audmix/formats/wav"
)

// ErrUnknownFormat is returned by Open for extensions with no decoder.
var ErrUnknownFormat = errors.New("formats: no decoder for file extension")

// Default returns a registry with the wav, mp3, ogg and aiff decoders.
func Default() *audio.Registry {
	r := audio.NewRegistry()

	r.Register("wav", wav.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})

	return r
}

// fileSource closes the file along with the decoder.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Rewind() error {
	if r, ok := s.Source.(audio.Rewinder); ok {
		return r.Rewind()
	}
	return audio.ErrNotRewindable
}

func (s *fileSource) Close() error {
	return errors.Join(s.Source.Close(), s.f.Close())
}

// Open decodes path with the decoder registered for its extension. Closing
// the returned source closes the file.
func Open(r *audio.Registry, path string) (audio.Source, error) {
	dec, ok := r.ForPath(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &fileSource{Source: src, f: f}, nil
}
