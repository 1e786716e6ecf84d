// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/ik5/audmix/audio"
	"github.com/ik5/audmix/internal/observe"
)

// State of a Player.
type State int

const (
	Uninitialized State = iota
	Ready               // initialized, Update not called yet
	Running             // Update called at least once
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Running:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// FlushFunc receives one mixed period. The slice is reused after the
// function returns, so it must be consumed or copied before then.
type FlushFunc func(period []byte)

// BufferFunc receives one mixed period and must call Release once the data
// has been consumed. It may hand the buffer to another goroutine.
type BufferFunc func(*audio.Buffer)

// DisableFunc is called instead of a flush when no voice is live.
type DisableFunc func()

// Player owns the voices and output buffers of one audio output.
//
// Create, Destroy and Update must be called from a single goroutine. Only the
// consumer side (Buffer.Release) may run elsewhere.
type Player struct {
	id      string
	logger  *slog.Logger
	metrics *observe.Metrics

	state   State
	format  audio.Format
	voices  *audio.VoiceTable
	mixer   *audio.Mixer
	pipe    *audio.Pipeline
	consume BufferFunc
	disable DisableFunc
}

// New returns an uninitialized player.
func New(opts ...Option) *Player {
	p := &Player{
		id:     uuid.NewString(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		p.metrics = observe.DefaultMetrics()
	}
	p.logger = p.logger.With("player", p.id)

	return p
}

// Initialize validates f and allocates the voice table and both output
// buffers. On error the player stays uninitialized.
func (p *Player) Initialize(f audio.Format) error {
	if p.state != Uninitialized {
		return ErrAlreadyInitialized
	}
	if err := f.Validate(); err != nil {
		p.logger.Error("invalid output format", "format", f.String(), "error", err)
		return fmt.Errorf("initialize: %w", err)
	}

	f = f.WithDefaults()
	p.format = f
	p.voices = audio.NewVoiceTable(f.Channels, f.VoicesPerChannel)
	p.mixer = audio.NewMixer(f, p.voices)
	p.pipe = audio.NewPipeline(f.BufferBytes())
	p.state = Ready

	p.logger.Info("player initialized",
		"format", f.String(),
		"buffer_bytes", f.BufferBytes(),
		"voices_per_channel", f.VoicesPerChannel,
	)

	return nil
}

func (p *Player) ID() string           { return p.id }
func (p *Player) State() State         { return p.state }
func (p *Player) Format() audio.Format { return p.format }

// BytesPerSecond is sample rate × channels × bytes per sample, or 0 before
// Initialize.
func (p *Player) BytesPerSecond() int {
	if p.state == Uninitialized {
		return 0
	}
	return p.format.BytesPerSecond()
}

// BufferSize is the byte length of every flushed period, or 0 before
// Initialize.
func (p *Player) BufferSize() int {
	if p.state == Uninitialized {
		return 0
	}
	return p.format.BufferBytes()
}

// OnFlush registers a synchronous consumer, replacing any previous one.
// The buffer is released as soon as fn returns.
func (p *Player) OnFlush(fn FlushFunc) {
	if fn == nil {
		p.consume = nil
		return
	}
	p.consume = func(b *audio.Buffer) {
		defer b.Release()
		fn(b.Bytes())
	}
}

// OnFlushBuffer registers a consumer that releases buffers itself,
// replacing any previous one. Update blocks while both buffers are held.
func (p *Player) OnFlushBuffer(fn BufferFunc) { p.consume = fn }

// OnDisable registers the silent period callback, replacing any previous
// one.
func (p *Player) OnDisable(fn DisableFunc) { p.disable = fn }

// CreateTone starts a sine voice on channel.
func (p *Player) CreateTone(channel int, frequency, gain float64) (audio.Handle, error) {
	return p.CreateWave(channel, audio.Sine, frequency, gain)
}

// CreateWave starts an oscillator of the given shape on channel.
func (p *Player) CreateWave(channel int, w audio.Waveform, frequency, gain float64) (audio.Handle, error) {
	if p.state == Uninitialized {
		return audio.Handle{}, ErrNotInitialized
	}

	tone, err := audio.NewTone(p.format, w, frequency, gain)
	if err != nil {
		return audio.Handle{}, p.reject(channel, "tone", err)
	}

	return p.insert(channel, "tone", tone)
}

// CreateStream starts a voice fed by read. seek is only required when loop
// is set. The closures are called from Update and are never retained past
// the voice's removal.
func (p *Player) CreateStream(channel int, read audio.ReadFunc, gain float64, loop bool, seek audio.SeekFunc) (audio.Handle, error) {
	if p.state == Uninitialized {
		return audio.Handle{}, ErrNotInitialized
	}

	v, err := audio.NewStream(p.format, read, seek, gain, loop)
	if err != nil {
		return audio.Handle{}, p.reject(channel, "stream", err)
	}

	return p.insert(channel, "stream", v)
}

// CreateSource starts a voice that reads from src. A nil src, including a
// nil pointer stored in the interface, is rejected with audio.ErrMissingRead.
func (p *Player) CreateSource(channel int, src audio.SampleReader, gain float64, loop bool) (audio.Handle, error) {
	if isNil(src) {
		return p.CreateStream(channel, nil, gain, loop, nil)
	}
	return p.CreateStream(channel, src.ReadSample, gain, loop, src.Seek)
}

func isNil(src audio.SampleReader) bool {
	if src == nil {
		return true
	}
	switch v := reflect.ValueOf(src); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func (p *Player) insert(channel int, kind string, v audio.Voice) (audio.Handle, error) {
	h, err := p.voices.Insert(channel, v)
	if err != nil {
		return audio.Handle{}, p.reject(channel, kind, err)
	}

	p.metrics.RecordCreate(context.Background(), p.id, kind)
	p.logger.Debug("voice created", "voice", h.String(), "kind", kind)

	return h, nil
}

func (p *Player) reject(channel int, kind string, err error) error {
	reason := "invalid"
	switch {
	case errors.Is(err, audio.ErrRegistryFull):
		reason = "full"
	case errors.Is(err, audio.ErrInvalidChannel):
		reason = "channel"
	}

	p.metrics.RecordReject(context.Background(), p.id, reason)
	p.logger.Warn("voice rejected", "channel", channel, "kind", kind, "error", err)

	return fmt.Errorf("create %s: %w", kind, err)
}

// Destroy removes the voice h refers to. It reports false for stale
// handles, including voices already removed at end of stream.
func (p *Player) Destroy(h audio.Handle) bool {
	if p.state == Uninitialized || !p.voices.Remove(h) {
		return false
	}

	p.metrics.RecordDestroy(context.Background(), p.id)
	p.logger.Debug("voice destroyed", "voice", h.String())

	return true
}

// Live reports whether h still refers to a voice.
func (p *Player) Live(h audio.Handle) bool {
	if p.state == Uninitialized {
		return false
	}
	_, ok := p.voices.Get(h)
	return ok
}

// Voices is the number of live voices.
func (p *Player) Voices() int {
	if p.state == Uninitialized {
		return 0
	}
	return p.voices.Len()
}

// SetGain changes the gain of a live voice from the next sample on.
func (p *Player) SetGain(h audio.Handle, gain float64) error {
	if p.state == Uninitialized {
		return ErrNotInitialized
	}

	v, ok := p.voices.Get(h)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVoice, h)
	}
	gs, ok := v.(audio.GainSetter)
	if !ok {
		return fmt.Errorf("%w: %s", ErrGainNotSupported, h)
	}
	gs.SetGain(gain)

	return nil
}

// Update drives one period. With at least one live voice it mixes a buffer
// and hands it to the flush consumer, blocking while the consumer still
// holds the buffer it needs; otherwise it calls the disable callback.
func (p *Player) Update() error {
	if p.state == Uninitialized {
		return ErrNotInitialized
	}
	p.state = Running
	start := time.Now()

	if p.voices.Len() == 0 {
		if p.disable != nil {
			p.disable()
		}
		p.metrics.RecordUpdate(context.Background(), p.id, time.Since(start), false, 0, 0)
		return nil
	}

	b := p.pipe.Acquire()
	stats := p.mixer.Render(b.Bytes())
	p.pipe.Publish(b, p.consume)

	if stats.Exhausted > 0 {
		p.logger.Debug("voices exhausted", "count", stats.Exhausted, "live", p.voices.Len())
	}
	p.metrics.RecordUpdate(context.Background(), p.id, time.Since(start), true, stats.Clipped, stats.Exhausted)

	return nil
}

// Published is the number of periods handed to the flush consumer.
func (p *Player) Published() uint64 {
	if p.state == Uninitialized {
		return 0
	}
	return p.pipe.Published()
}
