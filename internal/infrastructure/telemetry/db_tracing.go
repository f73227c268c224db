package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks queries slower than this on their span
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type queryStartKey struct{}

// RegisterDBTracing installs otelgorm on db and adds slow query and error
// annotations to the query spans. Query variables are never attached.
func RegisterDBTracing(db *gorm.DB, slowQueryThresh time.Duration, logger *zap.Logger) error {
	if slowQueryThresh <= 0 {
		slowQueryThresh = DefaultSlowQueryThreshold
	}
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("postgres"),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateQuerySpan(tx, slowQueryThresh) }

	cb := db.Callback()
	steps := []error{
		cb.Create().Before("gorm:create").Register("mead_timing:before_create", before),
		cb.Query().Before("gorm:query").Register("mead_timing:before_query", before),
		cb.Update().Before("gorm:update").Register("mead_timing:before_update", before),
		cb.Delete().Before("gorm:delete").Register("mead_timing:before_delete", before),
		cb.Row().Before("gorm:row").Register("mead_timing:before_row", before),
		cb.Raw().Before("gorm:raw").Register("mead_timing:before_raw", before),
		cb.Create().After("gorm:create").Register("mead_slow_query:create", after),
		cb.Query().After("gorm:query").Register("mead_slow_query:query", after),
		cb.Update().After("gorm:update").Register("mead_slow_query:update", after),
		cb.Delete().After("gorm:delete").Register("mead_slow_query:delete", after),
		cb.Row().After("gorm:row").Register("mead_slow_query:row", after),
		cb.Raw().After("gorm:raw").Register("mead_slow_query:raw", after),
	}
	if err := errors.Join(steps...); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", slowQueryThresh))
	return nil
}

func annotateQuerySpan(tx *gorm.DB, slowQueryThresh time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > slowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("threshold_ms", slowQueryThresh.Milliseconds()),
		))
	}
}
