package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("chefvision/business")

	// Recipe metrics
	RecipeGenerationsTotal   metric.Int64Counter
	RecipeGenerationDuration metric.Float64Histogram

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// AI metrics
	AIGenerationDuration metric.Float64Histogram

	// Image model fallback metrics
	ModelFallbackTotal metric.Int64Counter

	// Orchestrator degradation metrics
	AdapterDegradedTotal metric.Int64Counter
)

func Init() error {
	var err error

	RecipeGenerationsTotal, err = meter.Int64Counter(
		"recipe.generations.total",
		metric.WithDescription("Total number of recipe generation requests"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeGenerationDuration, err = meter.Float64Histogram(
		"recipe.generation.duration",
		metric.WithDescription("End-to-end duration of recipe generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	AIGenerationDuration, err = meter.Float64Histogram(
		"ai.generation.duration",
		metric.WithDescription("Duration of AI text generation"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ModelFallbackTotal, err = meter.Int64Counter(
		"model.fallback.total",
		metric.WithDescription("Total number of image model fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	AdapterDegradedTotal, err = meter.Int64Counter(
		"adapter.degraded.total",
		metric.WithDescription("Total number of adapter failures replaced by a default value"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}

// RecordExternalCall records one upstream call. Safe to call before Init.
func RecordExternalCall(ctx context.Context, service, outcome string, start time.Time) {
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("outcome", outcome),
	)
	if ExternalAPICallsTotal != nil {
		ExternalAPICallsTotal.Add(ctx, 1, attrs)
	}
	if ExternalAPIDuration != nil {
		ExternalAPIDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}

// RecordAIGeneration records the duration of one text-model call. Safe to call before Init.
func RecordAIGeneration(ctx context.Context, model, kind string, start time.Time) {
	if AIGenerationDuration == nil {
		return
	}
	AIGenerationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("kind", kind),
	))
}

// RecordModelFallback counts one failed image model attempt. Safe to call before Init.
func RecordModelFallback(ctx context.Context, model, reason string) {
	if ModelFallbackTotal == nil {
		return
	}
	ModelFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("model", model),
		attribute.String("reason", reason),
	))
}

// RecordAdapterDegraded counts one adapter failure absorbed by a default value. Safe to call before Init.
func RecordAdapterDegraded(ctx context.Context, adapter string) {
	if AdapterDegradedTotal == nil {
		return
	}
	AdapterDegradedTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("adapter", adapter)))
}

// RecordRecipeGeneration records one orchestrator run. Safe to call before Init.
func RecordRecipeGeneration(ctx context.Context, status string, start time.Time) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	if RecipeGenerationsTotal != nil {
		RecipeGenerationsTotal.Add(ctx, 1, attrs)
	}
	if RecipeGenerationDuration != nil {
		RecipeGenerationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
