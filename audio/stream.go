// SPDX-License-Identifier: EPL-2.0

package audio

// ReadFunc returns the next normalized sample in [-1,1]. ok is false at end
// of stream. State the function needs is captured by the closure and stays
// owned by the caller.
type ReadFunc func() (sample float32, ok bool)

// SeekFunc moves the source to a logical sample position.
type SeekFunc func(pos int64) error

// SampleReader is the interface form of a ReadFunc/SeekFunc pair.
type SampleReader interface {
	ReadSample() (sample float32, ok bool)
	Seek(pos int64) error
}

// StreamVoice plays samples pulled from a caller supplied source.
//
// At end of stream a looping voice seeks back to 0 and reads once more; if the
// source is still empty (or the seek fails) the voice is exhausted, so an
// empty looping source cannot spin forever.
type StreamVoice struct {
	read ReadFunc
	seek SeekFunc

	gain      float64
	loop      bool
	pos       int64
	depth     BitDepth
	exhausted bool
}

// NewStream builds a streaming voice. seek may be nil unless loop is set.
func NewStream(f Format, read ReadFunc, seek SeekFunc, gain float64, loop bool) (*StreamVoice, error) {
	if read == nil {
		return nil, ErrMissingRead
	}
	if loop && seek == nil {
		return nil, ErrMissingSeek
	}

	return &StreamVoice{
		read:  read,
		seek:  seek,
		gain:  sanitizeGain(gain),
		loop:  loop,
		depth: f.BitDepth,
	}, nil
}

// NewStreamFrom builds a streaming voice over a SampleReader.
func NewStreamFrom(f Format, src SampleReader, gain float64, loop bool) (*StreamVoice, error) {
	if src == nil {
		return nil, ErrMissingRead
	}
	return NewStream(f, src.ReadSample, src.Seek, gain, loop)
}

func (s *StreamVoice) Next() (int32, bool) {
	if s.exhausted {
		return 0, false
	}

	x, ok := s.read()
	if !ok && s.loop {
		if err := s.seek(0); err == nil {
			s.pos = 0
			x, ok = s.read()
		}
	}
	if !ok {
		s.exhausted = true
		return 0, false
	}

	s.pos++
	return s.depth.Quantize(float64(x) * s.gain), true
}

func (s *StreamVoice) SetGain(gain float64) { s.gain = sanitizeGain(gain) }

// Position counts samples produced since the start or the last loop.
func (s *StreamVoice) Position() int64 { return s.pos }

func (s *StreamVoice) Looping() bool   { return s.loop }
func (s *StreamVoice) Exhausted() bool { return s.exhausted }
