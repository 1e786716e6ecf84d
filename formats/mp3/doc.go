// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// The decoder always yields two channels of float32 samples in [-1, 1], even
// for mono files:
//
//	f, _ := os.Open("jingle.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//
// Sources decoded from an io.Seeker implement audio.Rewinder, so they can
// back a looping stream voice through stream.NewDecoded.
package mp3
