// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff to decode AIFF files.
//
// # Supported Formats
//
//   - Uncompressed PCM at 8, 16, 24 or 32 bits
//   - Any channel count and sample rate
//
// AIFF-C (compressed) files are rejected with ErrUnsupportedBitDepth or
// ErrNotAiffFile.
//
// # Output Format
//
//   - Sample format: float32 in range [-1.0, 1.0]
//   - Channels: as stored in the file, interleaved
//   - Sample rate: as stored in the file
//
// # Looping
//
// Sources implement audio.Rewinder by seeking back to where decoding
// started and re-reading the headers. Readers that cannot seek are buffered
// in memory by Decode, so every AIFF source can loop.
//
//	f, _ := os.Open("loop.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // AIFF-C or an odd sample size
//	}
package aiff
