// SPDX-License-Identifier: EPL-2.0

// Package config loads the demo host settings from defaults, an optional
// config file, AUDMIX_* environment variables and command line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ik5/audmix/audio"
)

const (
	OutputSpeaker = "speaker"
	OutputWav     = "wav"
	OutputNull    = "null"
)

const (
	KindTone = "tone"
	KindFile = "file"
)

var (
	ErrInvalidOutput = errors.New("config: output must be speaker, wav or null")
	ErrMissingPath   = errors.New("config: path required")
	ErrInvalidVoice  = errors.New("config: invalid voice")
)

// Voice describes one voice created at startup.
type Voice struct {
	Kind      string  `mapstructure:"kind"`
	Channel   int     `mapstructure:"channel"`
	Gain      float64 `mapstructure:"gain"`
	Waveform  string  `mapstructure:"waveform"`
	Frequency float64 `mapstructure:"frequency"`
	Path      string  `mapstructure:"path"`
	Loop      bool    `mapstructure:"loop"`
	// Preload decodes the whole file before playback starts.
	Preload bool `mapstructure:"preload"`
}

type Config struct {
	SampleRate       int `mapstructure:"sample_rate"`
	Channels         int `mapstructure:"channels"`
	BitDepth         int `mapstructure:"bit_depth"`
	BufferFrames     int `mapstructure:"buffer_frames"`
	VoicesPerChannel int `mapstructure:"voices_per_channel"`

	Output   string        `mapstructure:"output"`
	WavPath  string        `mapstructure:"wav_path"`
	Duration time.Duration `mapstructure:"duration"`

	MetricsAddr string `mapstructure:"metrics_addr"`
	LogLevel    string `mapstructure:"log_level"`
	LogFile     string `mapstructure:"log_file"`

	Voices []Voice `mapstructure:"voices"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sample_rate", 44100)
	v.SetDefault("channels", 1)
	v.SetDefault("bit_depth", 8)
	v.SetDefault("buffer_frames", 512)
	v.SetDefault("voices_per_channel", audio.DefaultVoicesPerChannel)
	v.SetDefault("output", OutputSpeaker)
	v.SetDefault("wav_path", "")
	v.SetDefault("duration", 5*time.Second)
	v.SetDefault("metrics_addr", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("voices", []map[string]any{
		{"kind": KindTone, "channel": 0, "waveform": "sine", "frequency": 440.0, "gain": 0.2},
	})
}

// Flags registers the command line overrides on fs. Flag names use dashes
// where config keys use underscores.
func Flags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "path to a config file (yaml, json or toml)")
	fs.Int("sample-rate", 44100, "output sample rate in Hz")
	fs.Int("channels", 1, "output channel count")
	fs.Int("bit-depth", 8, "output bits per sample (8, 16, 24 or 32)")
	fs.Int("buffer-frames", 512, "frames per period")
	fs.Int("voices-per-channel", audio.DefaultVoicesPerChannel, "voice slots per channel")
	fs.StringP("output", "o", OutputSpeaker, "output sink: speaker, wav or null")
	fs.String("wav-path", "", "file written when output is wav")
	fs.DurationP("duration", "d", 5*time.Second, "run time, 0 runs until interrupted")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	fs.String("log-level", "info", "none, error, warn, info or debug")
	fs.String("log-file", "", "write JSON logs to this file instead of stdout")
}

// Load builds the configuration. fs may be nil; an empty path skips the
// config file.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("audmix")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if fs != nil {
		var errs []error
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" {
				return
			}
			errs = append(errs, v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f))
		})
		if err := errors.Join(errs...); err != nil {
			return nil, fmt.Errorf("config: binding flags: %w", err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Format is the player output format described by c.
func (c *Config) Format() audio.Format {
	return audio.Format{
		SampleRate:       c.SampleRate,
		Channels:         c.Channels,
		BitDepth:         audio.BitDepth(c.BitDepth),
		BufferFrames:     c.BufferFrames,
		VoicesPerChannel: c.VoicesPerChannel,
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Format().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: %w", err))
	}

	switch c.Output {
	case OutputSpeaker, OutputNull:
	case OutputWav:
		if c.WavPath == "" {
			errs = append(errs, fmt.Errorf("%w: wav_path", ErrMissingPath))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOutput, c.Output))
	}

	if c.Duration < 0 {
		errs = append(errs, fmt.Errorf("config: negative duration %s", c.Duration))
	}

	for i, vc := range c.Voices {
		if err := vc.validate(); err != nil {
			errs = append(errs, fmt.Errorf("voices[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func (vc Voice) validate() error {
	switch vc.Kind {
	case KindTone:
		if vc.Waveform == "" {
			return nil
		}
		if _, err := audio.ParseWaveform(vc.Waveform); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidVoice, err)
		}
	case KindFile:
		if vc.Path == "" {
			return fmt.Errorf("%w: file voice", ErrMissingPath)
		}
	default:
		return fmt.Errorf("%w: kind %q", ErrInvalidVoice, vc.Kind)
	}
	return nil
}
