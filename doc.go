// SPDX-License-Identifier: EPL-2.0

// Package audmix is a real-time software audio mixer for a single output
// device fed one fixed-size buffer at a time.
//
// A Player mixes any number of voices into interleaved signed PCM at a fixed
// sample rate, channel count and bit depth, and hands every mixed period to a
// flush callback. When nothing is playing it calls a disable callback instead
// so the output path can go quiet without receiving zeros.
//
// # Quick Start
//
//	p := audmix.New()
//	err := p.Initialize(audio.Format{
//	    SampleRate:   44100,
//	    Channels:     1,
//	    BitDepth:     audio.Depth8,
//	    BufferFrames: 512,
//	})
//
//	p.OnFlush(func(period []byte) { dev.Write(period) })
//	p.OnDisable(func() { dev.Mute() })
//
//	h, err := p.CreateTone(0, 440, 0.2)
//
//	for range time.Tick(periodDuration) {
//	    p.Update()
//	}
//
// The caller owns the cadence: Update must run at least once per period.
//
// # Voices
//
// CreateTone and CreateWave start oscillators that play until destroyed.
// CreateStream plays samples pulled from a read closure; with loop set it
// seeks back to 0 at end of stream, otherwise the voice is dropped after its
// last sample and its handle stops resolving. CreateSource does the same for
// an audio.SampleReader such as the readers in the stream package:
//
//	dec, _ := formats.Open(formats.Default(), "beep.ogg")
//	clip, _ := stream.Load(dec, p.Format().SampleRate, 4096)
//	h, err := p.CreateSource(0, clip, 0.8, false)
//
// Each channel holds audio.DefaultVoicesPerChannel voices unless the format
// says otherwise; creating one more fails with audio.ErrRegistryFull.
//
// # Output
//
// OnFlush consumers run synchronously inside Update and must be done with the
// slice when they return. OnFlushBuffer consumers get the *audio.Buffer
// itself and release it when the device is finished with it, which lets a
// driver on another goroutine play one period while the next one is mixed.
// Update blocks when it needs a buffer that has not been released yet.
//
// The wav.Recorder in formats/wav and the speaker used by cmd/audmix are
// ready-made consumers.
//
// # Observability
//
// Players log lifecycle events through log/slog, tagged with a per-player
// id, and record OpenTelemetry metrics (flushed and silent periods, update
// time, clipping and voice counts) on the global meter provider unless
// WithMeterProvider is given.
package audmix
