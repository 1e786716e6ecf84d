// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and recording.
//
// It uses the github.com/go-audio/wav library for RIFF parsing and encoding.
//
// # Supported Formats
//
//   - PCM at 8 (unsigned), 16, 24 or 32 bits
//   - WAVE_FORMAT_EXTENSIBLE files carrying PCM
//   - Any channel count and sample rate
//
// Floating point and compressed files are rejected with ErrUnsupportedFormat.
//
// # Decoding WAV Files
//
//	f, _ := os.Open("door.wav")
//	src, err := wav.Decoder{}.Decode(f)
//	if errors.Is(err, wav.ErrNotWavFile) {
//	    // not RIFF/WAVE
//	}
//
// Samples are float32 in [-1.0, 1.0], interleaved as stored in the file.
// Sources implement audio.Rewinder and so can back looping voices.
//
// # Recording
//
// A Recorder turns the mixed output of a player into a WAV file in the
// player's format. Remember to Close it or the RIFF sizes stay unset:
//
//	out, _ := os.Create("session.wav")
//	rec, _ := wav.NewRecorder(out, player.Format())
//	player.OnFlush(rec.Flush)
//	defer rec.Close()
package wav
