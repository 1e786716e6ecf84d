// SPDX-License-Identifier: EPL-2.0

// Package observe holds the OpenTelemetry instruments of the mixer and the
// Prometheus bridge used by the demo host.
//
// Players record through a Metrics value built with NewMetrics. Tests should
// pass their own metric.MeterProvider instead of relying on the global one.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/ik5/audmix"

// Metrics holds the instruments recorded by a player. All fields are safe
// for concurrent use.
type Metrics struct {
	// PeriodsFlushed counts mixed periods handed to the flush consumer.
	PeriodsFlushed metric.Int64Counter

	// PeriodsSilent counts updates that found no live voice and invoked the
	// disable callback instead.
	PeriodsSilent metric.Int64Counter

	// UpdateDuration is the wall time of one Update, including any wait for
	// the consumer to release a buffer.
	UpdateDuration metric.Float64Histogram

	// ClippedSamples counts output samples that hit the bit depth rails.
	ClippedSamples metric.Int64Counter

	// VoicesCreated counts voices by kind:
	//   attribute.String("kind", "tone"|"stream")
	VoicesCreated metric.Int64Counter

	// VoicesRejected counts create calls that failed. Use with attribute:
	//   attribute.String("reason", ...)
	VoicesRejected metric.Int64Counter

	// VoicesExhausted counts stream voices removed at end of stream.
	VoicesExhausted metric.Int64Counter

	// ActiveVoices tracks live voices across all channels.
	ActiveVoices metric.Int64UpDownCounter
}

// periodBuckets are in seconds; a 512 frame period at 44.1 kHz is ~11.6 ms.
var periodBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1,
}

// NewMetrics creates every instrument on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.PeriodsFlushed, err = m.Int64Counter("audmix.periods.flushed",
		metric.WithDescription("Mixed periods handed to the output."),
	); err != nil {
		return nil, err
	}
	if met.PeriodsSilent, err = m.Int64Counter("audmix.periods.silent",
		metric.WithDescription("Periods skipped because no voice was live."),
	); err != nil {
		return nil, err
	}
	if met.UpdateDuration, err = m.Float64Histogram("audmix.update.duration",
		metric.WithDescription("Time spent in one Update call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(periodBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ClippedSamples, err = m.Int64Counter("audmix.samples.clipped",
		metric.WithDescription("Output samples limited to the bit depth range."),
	); err != nil {
		return nil, err
	}
	if met.VoicesCreated, err = m.Int64Counter("audmix.voices.created",
		metric.WithDescription("Voices created by kind."),
	); err != nil {
		return nil, err
	}
	if met.VoicesRejected, err = m.Int64Counter("audmix.voices.rejected",
		metric.WithDescription("Voice creations that failed, by reason."),
	); err != nil {
		return nil, err
	}
	if met.VoicesExhausted, err = m.Int64Counter("audmix.voices.exhausted",
		metric.WithDescription("Stream voices removed at end of stream."),
	); err != nil {
		return nil, err
	}
	if met.ActiveVoices, err = m.Int64UpDownCounter("audmix.voices.active",
		metric.WithDescription("Live voices across all channels."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a Metrics instance on otel.GetMeterProvider,
// created on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordUpdate records one Update call. flushed is false for silent periods.
func (m *Metrics) RecordUpdate(ctx context.Context, player string, d time.Duration, flushed bool, clipped, exhausted int) {
	attrs := metric.WithAttributes(attribute.String("player", player))

	m.UpdateDuration.Record(ctx, d.Seconds(), attrs)
	if !flushed {
		m.PeriodsSilent.Add(ctx, 1, attrs)
		return
	}

	m.PeriodsFlushed.Add(ctx, 1, attrs)
	if clipped > 0 {
		m.ClippedSamples.Add(ctx, int64(clipped), attrs)
	}
	if exhausted > 0 {
		m.VoicesExhausted.Add(ctx, int64(exhausted), attrs)
		m.ActiveVoices.Add(ctx, -int64(exhausted), attrs)
	}
}

// RecordCreate records a successful voice creation of the given kind.
func (m *Metrics) RecordCreate(ctx context.Context, player, kind string) {
	m.VoicesCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("player", player),
		attribute.String("kind", kind),
	))
	m.ActiveVoices.Add(ctx, 1, metric.WithAttributes(attribute.String("player", player)))
}

// RecordReject records a failed voice creation.
func (m *Metrics) RecordReject(ctx context.Context, player, reason string) {
	m.VoicesRejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("player", player),
		attribute.String("reason", reason),
	))
}

// RecordDestroy records an explicit voice removal.
func (m *Metrics) RecordDestroy(ctx context.Context, player string) {
	m.ActiveVoices.Add(ctx, -1, metric.WithAttributes(attribute.String("player", player)))
}
