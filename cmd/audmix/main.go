// SPDX-License-Identifier: EPL-2.0

// Command audmix plays the voices described by its configuration through a
// single mixer, on the sound card, into a WAV file or nowhere.
//
//	audmix -c voices.yaml
//	audmix --output wav --wav-path out.wav --duration 10s --bit-depth 16
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel"

	"github.com/ik5/audmix"
	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/formats"
	"github.com/ik5/audmix/formats/wav"
	"github.com/ik5/audmix/internal/config"
	"github.com/ik5/audmix/internal/logging"
	"github.com/ik5/audmix/internal/observe"
	"github.com/ik5/audmix/internal/speaker"
	"github.com/ik5/audmix/stream"
)

var version = "dev"

// decodeChunk is the block size used when pulling from file decoders.
const decodeChunk = 4096

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "audmix:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("audmix", pflag.ContinueOnError)
	config.Flags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path, _ := fs.GetString("config")

	cfg, err := config.Load(path, fs)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.Configure(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	// --------------------------------------------------------------------------------

	if cfg.MetricsAddr != "" {
		shutdown, err := serveMetrics(ctx, cfg.MetricsAddr, logger)
		if err != nil {
			return err
		}
		defer shutdown()
	}

	player := audmix.New(
		audmix.WithLogger(logger),
		audmix.WithMeterProvider(otel.GetMeterProvider()),
	)
	if err := player.Initialize(cfg.Format()); err != nil {
		return err
	}

	// --------------------------------------------------------------------------------

	closeOutput, err := attachOutput(player, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeOutput(); err != nil {
			logger.Error("closing output", "output", cfg.Output, "err", err)
		}
	}()

	closeVoices, err := createVoices(player, cfg, logger)
	defer closeVoices()
	if err != nil {
		return err
	}

	// --------------------------------------------------------------------------------

	logger.Info("playing",
		"player", player.ID(),
		"format", player.Format().String(),
		"output", cfg.Output,
		"voices", player.Voices(),
		"duration", cfg.Duration,
	)

	return play(ctx, player, cfg.Duration, logger)
}

// play calls Update once per period until the context ends, the duration
// elapses or no voice is left.
func play(ctx context.Context, player *audmix.Player, d time.Duration, logger *slog.Logger) error {
	f := player.Format()
	period := time.Duration(f.BufferFrames) * time.Second / time.Duration(f.SampleRate)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		if err := player.Update(); err != nil {
			return err
		}
		if player.Voices() == 0 {
			logger.Info("all voices finished", "periods", player.Published())
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Info("interrupted", "periods", player.Published())
			return nil
		case <-deadline:
			logger.Info("done", "periods", player.Published())
			return nil
		case <-ticker.C:
		}
	}
}

func attachOutput(player *audmix.Player, cfg *config.Config) (func() error, error) {
	switch cfg.Output {
	case config.OutputSpeaker:
		spk, err := speaker.New(player.Format())
		if err != nil {
			return nil, err
		}
		player.OnFlushBuffer(spk.Consume)
		return spk.Close, nil

	case config.OutputWav:
		out, err := os.Create(cfg.WavPath)
		if err != nil {
			return nil, err
		}
		rec, err := wav.NewRecorder(out, player.Format())
		if err != nil {
			out.Close()
			return nil, err
		}
		player.OnFlush(rec.Flush)
		return func() error {
			return errors.Join(rec.Close(), out.Close())
		}, nil

	default:
		return func() error { return nil }, nil
	}
}

// createVoices builds every configured voice. The returned function closes
// the decoders of streamed files and is valid even when err is set.
func createVoices(player *audmix.Player, cfg *config.Config, logger *slog.Logger) (func(), error) {
	reg := formats.Default()
	rate := player.Format().SampleRate

	var closers []func() error
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("closing source", "err", err)
			}
		}
	}

	for i, vc := range cfg.Voices {
		var (
			h   audio.Handle
			err error
		)

		switch vc.Kind {
		case config.KindTone:
			w := audio.Sine
			if vc.Waveform != "" {
				if w, err = audio.ParseWaveform(vc.Waveform); err != nil {
					return closeAll, fmt.Errorf("voices[%d]: %w", i, err)
				}
			}
			h, err = player.CreateWave(vc.Channel, w, vc.Frequency, vc.Gain)

		case config.KindFile:
			var src audio.Source
			if src, err = formats.Open(reg, vc.Path); err != nil {
				return closeAll, fmt.Errorf("voices[%d]: %w", i, err)
			}

			if vc.Preload {
				var clip *stream.Memory
				clip, err = stream.Load(src, rate, decodeChunk)
				src.Close()
				if err != nil {
					return closeAll, fmt.Errorf("voices[%d]: %w", i, err)
				}
				h, err = player.CreateSource(vc.Channel, clip, vc.Gain, vc.Loop)
				break
			}

			var dec *stream.Decoded
			if dec, err = stream.NewDecoded(src, rate, decodeChunk); err != nil {
				src.Close()
				return closeAll, fmt.Errorf("voices[%d]: %w", i, err)
			}
			closers = append(closers, dec.Close)
			h, err = player.CreateSource(vc.Channel, dec, vc.Gain, vc.Loop)
		}

		if err != nil {
			return closeAll, fmt.Errorf("voices[%d]: %w", i, err)
		}
		logger.Debug("voice created", "index", i, "kind", vc.Kind, "channel", h.Channel())
	}

	return closeAll, nil
}

func serveMetrics(ctx context.Context, addr string, logger *slog.Logger) (func(), error) {
	shutdownProvider, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "audmix",
		ServiceVersion: version,
	})
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)

	return func() {
		sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("metrics server shutdown", "addr", addr, "err", err)
		}
		if err := shutdownProvider(sctx); err != nil {
			logger.Warn("metric provider shutdown", "err", err)
		}
	}, nil
}
