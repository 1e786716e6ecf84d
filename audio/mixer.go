// SPDX-License-Identifier: EPL-2.0

package audio

// RenderStats summarizes one Render call.
type RenderStats struct {
	Frames    int // frames written
	Exhausted int // voices removed after the period
	Clipped   int // samples that hit the clip range
}

// Mixer sums the voices of a VoiceTable into interleaved PCM.
type Mixer struct {
	format  Format
	voices  *VoiceTable
	pending []Handle
}

// NewMixer returns a mixer writing f-shaped frames from voices. The table
// must have f.Channels channels.
func NewMixer(f Format, voices *VoiceTable) *Mixer {
	return &Mixer{
		format:  f,
		voices:  voices,
		pending: make([]Handle, 0, voices.Channels()*voices.Capacity()),
	}
}

// Render fills dst with whole frames. Each output sample is the sum of the
// live voices on its channel, accumulated in 64 bits and hard clipped to the
// bit depth. A voice that reports exhaustion contributes zero from then on
// and is removed once dst is complete. Channels without voices are silent.
//
// Render does not allocate.
func (m *Mixer) Render(dst []byte) RenderStats {
	var (
		depth    = m.format.BitDepth
		width    = depth.Bytes()
		channels = m.voices.Channels()
		frames   = len(dst) / (width * channels)
		stats    = RenderStats{Frames: frames}
		off      int
	)

	m.pending = m.pending[:0]

	for range frames {
		for ch := range channels {
			var acc int64

			slots := m.voices.slots[ch]
			for _, idx := range m.voices.order[ch] {
				s := &slots[idx]
				if s.pending {
					continue
				}

				v, ok := s.voice.Next()
				if !ok {
					s.pending = true
					m.pending = append(m.pending, m.voices.handle(ch, idx))
					continue
				}
				acc += int64(v)
			}

			v, clipped := depth.Clip(acc)
			if clipped {
				stats.Clipped++
			}
			depth.Put(dst[off:], v)
			off += width
		}
	}

	for _, h := range m.pending {
		if m.voices.Remove(h) {
			stats.Exhausted++
		}
	}
	m.pending = m.pending[:0]

	return stats
}

func (m *Mixer) Format() Format { return m.format }
