// SPDX-License-Identifier: EPL-2.0

// Package stream provides sample readers for streaming voices.
//
// Every type here satisfies audio.SampleReader, so it can be handed to
// Player.CreateSource or split into the read and seek closures that
// Player.CreateStream takes:
//
//	mem, err := stream.Load(src, 44100, 4096)
//	h, err := player.CreateSource(0, mem, 0.8, true)
//
// Memory holds a fully decoded clip and never blocks. Decoded pulls from a
// format decoder block by block and is suited to long files; its reads do
// I/O, which is bounded by the decoder's buffer size.
package stream
