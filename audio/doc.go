// SPDX-License-Identifier: EPL-2.0

// Package audio is the mixing core: voices, the voice table, the mixer and
// the double buffered output pipeline, plus the block Source primitives the
// file decoders plug into.
//
// # Voices
//
// A Voice yields one quantized sample per output frame:
//
//	type Voice interface {
//	    Next() (sample int32, ok bool)
//	}
//
// ToneVoice is a free-running oscillator (sine, square, triangle or sawtooth)
// that never runs dry. StreamVoice pulls normalized samples from a caller
// supplied read function and can loop through a seek function. Looping
// retries a read once after seeking to 0; a source that is still empty is
// treated as exhausted.
//
// # Voice table
//
// VoiceTable is a fixed arena of (channel, slot) pairs. Each slot carries a
// generation counter, so a Handle kept after its voice finished never
// resolves to a later voice in the same slot:
//
//	vt := audio.NewVoiceTable(channels, audio.DefaultVoicesPerChannel)
//	h, err := vt.Insert(0, tone)
//	vt.Remove(h) // no-op when h is stale
//
// # Mixing
//
// Mixer.Render sums the voices of each channel in a 64-bit accumulator, hard
// clips to the output bit depth and writes interleaved little-endian signed
// PCM. Voices that report exhaustion are removed once the period is
// complete.
//
// # Output pipeline
//
// Pipeline owns exactly two buffers. Acquire blocks until the buffer it is
// about to hand out has been released by whoever consumed it last:
//
//	b := pipe.Acquire()
//	mixer.Render(b.Bytes())
//	pipe.Publish(b, func(b *audio.Buffer) {
//	    go func() {
//	        write(b.Bytes())
//	        b.Release()
//	    }()
//	})
//
// # Sources
//
// Source is the block interface the format decoders return. Resampler and
// MonoMixer adapt a decoded file to the mixer's rate and to a single lane;
// both forward Rewind to sources implementing Rewinder.
//
// Decoded samples are float32 in [-1, 1]. Sources return io.EOF once they
// are drained, possibly together with the last samples.
package audio
