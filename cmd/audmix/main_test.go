// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats"
	"github.com/ik5/audmix/formats/wav"
)

// run installs the default slog logger, so these tests are not parallel.
func restoreLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestRun_Null(t *testing.T) {
	restoreLogger(t)

	err := run(context.Background(), []string{"--output=null", "--duration=30ms", "--log-level=none"})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

func TestRun_WavOutput(t *testing.T) {
	restoreLogger(t)

	out := filepath.Join(t.TempDir(), "out.wav")
	err := run(context.Background(), []string{
		"--output", "wav",
		"--wav-path", out,
		"--sample-rate", "8000",
		"--bit-depth", "16",
		"--buffer-frames", "80",
		"--duration", "50ms",
		"--log-level", "none",
	})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	src, err := formats.Open(formats.Default(), out)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if src.SampleRate() != 8000 || src.Channels() != 1 {
		t.Errorf("recording is %d Hz, %d ch", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 8000)
	n, _ := src.ReadSamples(buf)
	if n < 80 || n%80 != 0 {
		t.Fatalf("recorded %d samples, want whole periods of 80", n)
	}

	var peak float32
	for _, v := range buf[:n] {
		peak = max(peak, v, -v)
	}
	// default voice: 440 Hz sine at gain 0.2
	if peak < 0.15 || peak > 0.21 {
		t.Errorf("peak = %v, want about 0.2", peak)
	}
}

func TestRun_FileVoiceEnds(t *testing.T) {
	restoreLogger(t)

	dir := t.TempDir()
	clip := filepath.Join(dir, "clip.wav")
	writeClip(t, clip, 160)

	cfg := filepath.Join(dir, "audmix.yaml")
	body := "output: null\nsample_rate: 8000\nbuffer_frames: 80\nduration: 10s\nlog_level: none\n" +
		"voices:\n  - kind: file\n    path: " + clip + "\n    gain: 1\n  - kind: file\n    path: " + clip + "\n    preload: true\n"
	if err := os.WriteFile(cfg, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	if err := run(context.Background(), []string{"-c", cfg}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	// two periods of audio, not the configured ten seconds
	if time.Since(start) > 5*time.Second {
		t.Errorf("run() did not stop when the file voices ended")
	}
}

func TestRun_Errors(t *testing.T) {
	restoreLogger(t)

	dir := t.TempDir()
	tests := []struct {
		name string
		args []string
	}{
		{"bad flag", []string{"--no-such-flag"}},
		{"bad output", []string{"--output=alsa"}},
		{"missing config", []string{"-c", filepath.Join(dir, "missing.yaml")}},
		{"bad log level", []string{"--output=null", "--log-level=loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(context.Background(), tt.args); err == nil {
				t.Error("run() succeeded")
			}
		})
	}
}

func TestRun_Interrupted(t *testing.T) {
	restoreLogger(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, []string{"--output=null", "--duration=0", "--log-level=none"}); err != nil {
		t.Fatalf("run() error = %v", err)
	}
}

// writeClip records a constant 8 kHz mono clip through the WAV recorder.
func writeClip(t *testing.T, path string, samples int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	format := audio.Format{SampleRate: 8000, Channels: 1, BitDepth: audio.Depth16, BufferFrames: samples}
	rec, err := wav.NewRecorder(f, format)
	if err != nil {
		t.Fatal(err)
	}

	period := make([]byte, format.BufferBytes())
	for i := range samples {
		audio.Depth16.Put(period[2*i:], 8192)
	}
	rec.Flush(period)

	if err := rec.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestServeMetrics_Shutdown(t *testing.T) {
	prev := otel.GetMeterProvider()
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stop, err := serveMetrics(context.Background(), "127.0.0.1:0", logger)
	if err != nil {
		t.Fatalf("serveMetrics() error = %v", err)
	}
	stop()

	out := buf.String()
	if !strings.Contains(out, "serving metrics") {
		t.Errorf("log missing start line:\n%s", out)
	}
	if strings.Contains(out, "shutdown") || strings.Contains(out, "level=ERROR") {
		t.Errorf("clean shutdown logged a problem:\n%s", out)
	}
}
