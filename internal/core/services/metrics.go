package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/custodia-labs/nutrisearch/internal/core/domain"
	"github.com/custodia-labs/nutrisearch/internal/logger"
)

const meterName = "github.com/custodia-labs/nutrisearch/internal/core/services"

// Metric names.
const (
	MetricSourceCalls    = "nutrisearch.source.calls"
	MetricSourceDuration = "nutrisearch.source.duration"
	MetricCacheLookups   = "nutrisearch.cache.lookups"
)

// Metric attribute keys.
var (
	attrSource = attribute.Key("source")
	attrStatus = attribute.Key("status")
	attrKind   = attribute.Key("kind")
	attrHit    = attribute.Key("hit")
)

// searchMetrics holds the aggregator instruments.
type searchMetrics struct {
	sourceCalls    metric.Int64Counter
	sourceDuration metric.Float64Histogram
	cacheLookups   metric.Int64Counter
}

func newSearchMetrics(mp metric.MeterProvider) *searchMetrics {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)

	m, err := buildSearchMetrics(meter)
	if err != nil {
		logger.Warn("metrics disabled: %v", err)
		m, _ = buildSearchMetrics(noop.NewMeterProvider().Meter(meterName))
	}
	return m
}

func buildSearchMetrics(meter metric.Meter) (*searchMetrics, error) {
	var (
		m   searchMetrics
		err error
	)
	m.sourceCalls, err = meter.Int64Counter(MetricSourceCalls,
		metric.WithDescription("Source calls by final status"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}
	m.sourceDuration, err = meter.Float64Histogram(MetricSourceDuration,
		metric.WithDescription("Source call duration including the retry"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(5, 10, 25, 50, 100, 250, 500, 1000, 2000, 3000, 5000),
	)
	if err != nil {
		return nil, err
	}
	m.cacheLookups, err = meter.Int64Counter(MetricCacheLookups,
		metric.WithDescription("Result cache lookups"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *searchMetrics) recordSource(ctx context.Context, status domain.SourceStatus) {
	attrs := metric.WithAttributes(
		attrSource.String(status.Name.String()),
		attrStatus.String(string(status.Status)),
	)
	m.sourceCalls.Add(ctx, 1, attrs)
	m.sourceDuration.Record(ctx, float64(status.DurationMs), attrs)
}

func (m *searchMetrics) recordCache(ctx context.Context, kind string, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attrKind.String(kind),
		attrHit.Bool(hit),
	))
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
