// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: as stored in the file, interleaved [L0, R0, L1, R1, ...]
//   - Sample rate: as stored in the file
//
// ReadSamples only ever returns whole frames, so a destination whose length
// is not a multiple of the channel count is partially filled.
//
// # Looping
//
// Sources implement audio.Rewinder. Rewinding needs the reader passed to
// Decode to be an io.Seeker; otherwise Rewind reports audio.ErrNotRewindable
// and a looping stream voice built on it ends after its first pass:
//
//	f, _ := os.Open("theme.ogg")
//	src, _ := vorbis.Decoder{}.Decode(f)
//	music, _ := stream.NewDecoded(src, 22050, 4096)
//	h, _ := player.CreateSource(0, music, 0.8, true)
package vorbis
