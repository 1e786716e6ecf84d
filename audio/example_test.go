// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/audiotest"
)

func Example_resampler() {
	source := audiotest.NewSineSource(48000, 1, 48000, 440.0)

	resampler, err := audio.NewResampler(source, 16000)
	if err != nil {
		fmt.Println(err)
		return
	}

	buf := make([]float32, 4096)
	total := 0
	for {
		n, err := resampler.ReadSamples(buf)
		total += n
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	fmt.Printf("%d Hz, %d samples\n", resampler.SampleRate(), total)
	// Output:
	// 16000 Hz, 16000 samples
}

func Example_monoMixer() {
	source := audiotest.NewMockSource(16000, 2, 4, func(_, ch int) float32 {
		return []float32{1, 0}[ch]
	})
	mono := audio.NewMonoMixer(source)

	buf := make([]float32, 4)
	n, _ := mono.ReadSamples(buf)

	fmt.Println(mono.Channels(), buf[:n])
	// Output:
	// 1 [0.5 0.5 0.5 0.5]
}

func Example_mixer() {
	f := audio.Format{SampleRate: 8000, Channels: 1, BitDepth: audio.Depth8, BufferFrames: 4}
	vt := audio.NewVoiceTable(f.Channels, 2)
	mixer := audio.NewMixer(f, vt)

	low, _ := audio.NewTone(f, audio.Square, 700, 0.5)
	high, _ := audio.NewTone(f, audio.Square, 1400, 0.5)
	vt.Insert(0, low)
	vt.Insert(0, high)

	buf := make([]byte, f.BufferBytes())
	stats := mixer.Render(buf)

	samples := make([]int32, len(buf))
	for i := range buf {
		samples[i] = audio.Depth8.Sample(buf[i:])
	}
	fmt.Println(samples)
	fmt.Println(stats.Frames, "frames,", stats.Clipped, "clipped")
	// Output:
	// [127 127 0 0]
	// 4 frames, 2 clipped
}

func Example_streamVoice() {
	f := audio.Format{SampleRate: 8000, Channels: 1, BitDepth: audio.Depth16, BufferFrames: 8}
	src := &audiotest.Samples{Data: []float32{0.5, -0.5, 1}}

	voice, _ := audio.NewStreamFrom(f, src, 1, true)
	var out []int32
	for range 5 {
		s, _ := voice.Next()
		out = append(out, s)
	}
	fmt.Println(out)
	// Output:
	// [16384 -16384 32767 16384 -16384]
}

func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("WAV", nil)
	registry.Register("ogg", nil)

	_, ok := registry.ForPath("sounds/beep.wav")
	fmt.Println(registry.Formats(), ok)
	// Output:
	// [ogg wav] true
}

func Example_format() {
	f := audio.Format{SampleRate: 44100, Channels: 2, BitDepth: audio.Depth16, BufferFrames: 512}
	if err := f.Validate(); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(f, f.BufferBytes(), f.BytesPerSecond())

	bad := audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 12, BufferFrames: 512}
	fmt.Println(errors.Is(bad.Validate(), audio.ErrUnsupportedBitDepth))
	// Output:
	// 44100Hz/2ch/16bit/512frames 2048 176400
	// true
}
