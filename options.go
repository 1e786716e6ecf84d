// SPDX-License-Identifier: EPL-2.0

package audmix

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/ik5/audmix/internal/observe"
)

// Option configures a Player at construction.
type Option func(*Player)

// WithLogger sets the logger for lifecycle events. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithMeterProvider records player metrics on mp instead of the global
// provider. If the instruments cannot be created metrics are disabled.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(p *Player) {
		m, err := observe.NewMetrics(mp)
		if err != nil {
			p.logger.Warn("metrics disabled", "error", err)
			m, _ = observe.NewMetrics(noop.NewMeterProvider())
		}
		p.metrics = m
	}
}
