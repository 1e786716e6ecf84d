// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
)

type mockDecoder struct {
	name string
}

func (d *mockDecoder) Decode(io.Reader) (Source, error) {
	return newSilentSource(44100, 2, 100), nil
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	wav := &mockDecoder{name: "wav"}
	mp3 := &mockDecoder{name: "mp3"}

	r := NewRegistry()
	r.Register("wav", wav)
	r.Register("MP3", mp3)

	tests := []struct {
		key    string
		want   Decoder
		wantOK bool
	}{
		{"wav", wav, true},
		{"WAV", wav, true},
		{"mp3", mp3, true},
		{"ogg", nil, false},
		{"", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			got, ok := r.Get(tt.key)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Get(%q) = (%v, %v), want (%v, %v)", tt.key, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRegistry_Overwrite(t *testing.T) {
	t.Parallel()

	first, second := &mockDecoder{name: "a"}, &mockDecoder{name: "b"}

	r := NewRegistry()
	r.Register("wav", first)
	r.Register("wav", second)

	if got, _ := r.Get("wav"); got != second {
		t.Errorf("Get() = %v, want the last registered decoder", got)
	}
	if got := r.Formats(); !slices.Equal(got, []string{"wav"}) {
		t.Errorf("Formats() = %v, want [wav]", got)
	}
}

func TestRegistry_ForPath(t *testing.T) {
	t.Parallel()

	wav := &mockDecoder{name: "wav"}
	r := NewRegistry()
	r.Register("wav", wav)

	tests := []struct {
		path   string
		wantOK bool
	}{
		{"beep.wav", true},
		{"/tmp/sounds/BEEP.WAV", true},
		{"beep.mp3", false},
		{"beep", false},
		{"dir.wav/beep", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got, ok := r.ForPath(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("ForPath(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && got != wav {
				t.Errorf("ForPath(%q) = %v, want wav decoder", tt.path, got)
			}
		})
	}
}

func TestRegistry_Formats(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	if got := r.Formats(); len(got) != 0 {
		t.Errorf("empty registry Formats() = %v", got)
	}

	for _, k := range []string{"ogg", "WAV", "aiff", "mp3"} {
		r.Register(k, &mockDecoder{name: k})
	}
	want := []string{"aiff", "mp3", "ogg", "wav"}
	if got := r.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Go(func() {
			key := fmt.Sprintf("fmt%d", i%4)
			r.Register(key, &mockDecoder{name: key})
			_, _ = r.Get(key)
			_ = r.Formats()
		})
	}
	wg.Wait()

	if got := len(r.Formats()); got != 4 {
		t.Errorf("len(Formats()) = %d, want 4", got)
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	r := NewRegistry()
	r.Register("wav", &mockDecoder{name: "wav"})

	b.ReportAllocs()
	for b.Loop() {
		_, _ = r.Get("wav")
	}
}
