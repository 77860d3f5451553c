package validator

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meter is the validator's OpenTelemetry meter, recording per-kind outcome
// counts and latency rather than a bespoke counter type.
var meter = otel.Meter("tile-crawler/validator")

var (
	outcomeCounter metric.Int64Counter
	latencyHist    metric.Float64Histogram
)

func init() {
	var err error
	outcomeCounter, err = meter.Int64Counter(
		"validator_outcomes_total",
		metric.WithDescription("Count of validator pipeline outcomes by kind and result"),
	)
	if err != nil {
		outcomeCounter, _ = otel.GetMeterProvider().Meter("tile-crawler/validator").Int64Counter("validator_outcomes_total")
	}
	latencyHist, err = meter.Float64Histogram(
		"validator_latency_ms",
		metric.WithDescription("Validator pipeline latency in milliseconds by kind"),
	)
	if err != nil {
		latencyHist, _ = otel.GetMeterProvider().Meter("tile-crawler/validator").Float64Histogram("validator_latency_ms")
	}
}

func recordOutcome(ctx context.Context, kind string, result string, latencyMS float64) {
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("result", result),
	)
	if outcomeCounter != nil {
		outcomeCounter.Add(ctx, 1, attrs)
	}
	if latencyHist != nil {
		latencyHist.Record(ctx, latencyMS, attrs)
	}
}
