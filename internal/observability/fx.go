// Package observability assembles tracing and metrics from the
// application configuration.
package observability

import (
	"github.com/X-CodesTech/wassel-api/internal/config"
	"github.com/X-CodesTech/wassel-api/internal/observability/metrics"
	"github.com/X-CodesTech/wassel-api/internal/observability/tracing"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		provideTracingConfig,
		provideMetricsConfig,
		tracing.NewProvider,
		metrics.NewMeterProvider,
		metrics.NewHTTPMetrics,
	),
)

func provideTracingConfig(cfg *config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.Tracing.Enabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.ServiceVersion,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
		ExporterProtocol: cfg.Tracing.ExporterProtocol,
		SamplingRatio:    cfg.Tracing.SamplingRatio,
	}
}

func provideMetricsConfig(cfg *config.Config) metrics.Config {
	return metrics.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	}
}
