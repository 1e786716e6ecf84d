// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Voice produces one channel's contribution, one sample per output frame.
//
// Next returns the next gain-scaled sample already quantized to the output
// bit depth. ok is false once the voice is exhausted; an exhausted voice stays
// exhausted. Next must not block on I/O for longer than a bounded read.
type Voice interface {
	Next() (sample int32, ok bool)
}

// GainSetter is implemented by voices whose gain can change while playing.
type GainSetter interface {
	SetGain(gain float64)
}

// Handle refers to a voice in a VoiceTable. The zero Handle never refers to a
// live voice. A handle outlives its voice safely: once the voice is removed
// the handle stops resolving, even after the slot is reused.
type Handle struct {
	table   uint64
	channel int
	slot    int
	gen     uint32
}

// Channel the voice was created on.
func (h Handle) Channel() int { return h.channel }

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

func (h Handle) String() string {
	return fmt.Sprintf("voice(%d:%d#%d)", h.channel, h.slot, h.gen)
}

// sanitizeGain maps NaN and negative gains to silence. Gains above 1 are kept;
// the mixer clips the result.
func sanitizeGain(g float64) float64 {
	if g != g || g < 0 {
		return 0
	}
	return g
}
