package database

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const slowQueryThreshold = 200 * time.Millisecond

// TraceQuery wraps a database call in an OTel span and logs it when it
// exceeds the slow-query threshold.
func TraceQuery(ctx context.Context, logger *slog.Logger, queryName string, fn func(ctx context.Context) error) error {
	tracer := otel.Tracer("database")

	ctx, span := tracer.Start(ctx, "db."+queryName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", queryName),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int64("db.duration_ms", elapsed.Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	if elapsed > slowQueryThreshold && logger != nil {
		logger.Warn("slow query",
			slog.String("query", queryName),
			slog.Duration("duration", elapsed),
		)
	}

	return err
}
