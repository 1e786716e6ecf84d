// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

// Waveform selects the oscillator shape of a tone voice.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
	Sawtooth
)

const twoPi = 2 * math.Pi

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Sawtooth:
		return "sawtooth"
	}
	return fmt.Sprintf("waveform(%d)", int(w))
}

// ParseWaveform is the inverse of Waveform.String.
func ParseWaveform(s string) (Waveform, error) {
	for _, w := range []Waveform{Sine, Square, Triangle, Sawtooth} {
		if w.String() == s {
			return w, nil
		}
	}
	return Sine, fmt.Errorf("unknown waveform %q", s)
}

// At evaluates the waveform at phase in [0, 2π), result in [-1,1].
func (w Waveform) At(phase float64) float64 {
	switch w {
	case Square:
		if phase < math.Pi {
			return 1
		}
		return -1
	case Triangle:
		return 2*math.Abs(2*(phase/twoPi)-1) - 1
	case Sawtooth:
		return phase/math.Pi - 1
	default:
		return math.Sin(phase)
	}
}

// ToneVoice is a free-running oscillator. It never exhausts.
type ToneVoice struct {
	waveform  Waveform
	frequency float64
	step      float64 // phase increment per frame
	phase     float64
	gain      float64
	depth     BitDepth
}

// NewTone builds an oscillator for format f. frequency must lie in
// (0, f.SampleRate/2].
func NewTone(f Format, waveform Waveform, frequency, gain float64) (*ToneVoice, error) {
	if !(frequency > 0) || frequency > float64(f.SampleRate)/2 {
		return nil, fmt.Errorf("%w: %v Hz at %d Hz", ErrInvalidFrequency, frequency, f.SampleRate)
	}

	return &ToneVoice{
		waveform:  waveform,
		frequency: frequency,
		step:      twoPi * frequency / float64(f.SampleRate),
		gain:      sanitizeGain(gain),
		depth:     f.BitDepth,
	}, nil
}

func (t *ToneVoice) Next() (int32, bool) {
	t.phase += t.step
	if t.phase >= twoPi {
		t.phase = math.Mod(t.phase, twoPi)
	}

	return t.depth.Quantize(t.gain * t.waveform.At(t.phase)), true
}

func (t *ToneVoice) SetGain(gain float64) { t.gain = sanitizeGain(gain) }

func (t *ToneVoice) Frequency() float64 { return t.frequency }
func (t *ToneVoice) Waveform() Waveform { return t.waveform }

// Phase is the current accumulator value, always in [0, 2π).
func (t *ToneVoice) Phase() float64 { return t.phase }
