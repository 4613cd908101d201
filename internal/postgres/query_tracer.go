package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ahamo-portal/portal/internal/logger"
	"github.com/getsentry/sentry-go"
)

// SlowQueryThreshold is the duration above which a query is logged at warn level
const SlowQueryThreshold = 250 * time.Millisecond

// queryTrace times one statement and reports it to the log and, when the
// request carries a sentry hub, as a db.sql.query span
type queryTrace struct {
	logger *logger.Logger
	query  string
	args   []interface{}
	start  time.Time
	span   *sentry.Span
}

func startQueryTrace(ctx context.Context, log *logger.Logger, query string, args []interface{}) *queryTrace {
	qt := &queryTrace{
		logger: log,
		query:  query,
		args:   args,
		start:  time.Now(),
	}

	if sentry.GetHubFromContext(ctx) != nil {
		qt.span = sentry.StartSpan(ctx, "db.sql.query")
		qt.span.Description = query
	}
	return qt
}

// done records the outcome. sql.ErrNoRows is a normal not-found result.
func (qt *queryTrace) done(err error) {
	elapsed := time.Since(qt.start)
	failed := err != nil && !errors.Is(err, sql.ErrNoRows)

	if qt.span != nil {
		qt.span.Status = sentry.SpanStatusOK
		if failed {
			qt.span.Status = sentry.SpanStatusInternalError
		}
		qt.span.Finish()
	}

	fields := []interface{}{
		"duration_ms", elapsed.Milliseconds(),
		"query", qt.query,
		"args", len(qt.args),
	}

	switch {
	case failed:
		qt.logger.Errorw("database query failed", append(fields, "error", err)...)
	case elapsed > SlowQueryThreshold:
		qt.logger.Warnw("slow database query", fields...)
	default:
		qt.logger.Debugw("database query completed", fields...)
	}
}

// TracedQuerier times every read the repositories issue
type TracedQuerier struct {
	Querier
	logger *logger.Logger
}

func NewTracedQuerier(q Querier, logger *logger.Logger) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
	}
}

func (tq *TracedQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	trace := startQueryTrace(ctx, tq.logger, query, args)
	rows, err := tq.Querier.QueryContext(ctx, query, args...)
	trace.done(err)
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace := startQueryTrace(ctx, tq.logger, query, args)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	trace := startQueryTrace(ctx, tq.logger, query, args)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	trace.done(err)
	return err
}
