package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	applogger "github.com/wonny/stockapp/internal/pkg/logger"
)

const slowQueryThreshold = 100 * time.Millisecond

type queryStartKey struct{}

// QueryLogger implements pgx.QueryTracer.
// Every query goes to the wrapped tracelog.TraceLog; failed and slow queries are
// additionally logged with the request ID.
type QueryLogger struct {
	logger zerolog.Logger
	trace  *tracelog.TraceLog
	slow   time.Duration
}

// NewQueryLogger creates a new query logger; trace may be nil
func NewQueryLogger(logger zerolog.Logger, trace *tracelog.TraceLog) *QueryLogger {
	return &QueryLogger{
		logger: logger,
		trace:  trace,
		slow:   slowQueryThreshold,
	}
}

// TraceQueryStart is called at the beginning of Query, QueryRow, and Exec calls
func (ql *QueryLogger) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	if ql.trace != nil {
		ctx = ql.trace.TraceQueryStart(ctx, conn, data)
	}
	return context.WithValue(ctx, queryStartKey{}, time.Now())
}

// TraceQueryEnd is called at the end of Query, QueryRow, and Exec calls
func (ql *QueryLogger) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	if ql.trace != nil {
		ql.trace.TraceQueryEnd(ctx, conn, data)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	duration := time.Since(start)

	var event *zerolog.Event
	switch {
	case data.Err != nil:
		event = ql.logger.Error().Err(data.Err)
	case duration > ql.slow:
		event = ql.logger.Warn()
	default:
		return
	}

	if requestID := applogger.RequestIDFrom(ctx); requestID != "" {
		event = event.Str("request_id", requestID)
	}

	event.
		Int64("duration_ms", duration.Milliseconds()).
		Str("command_tag", data.CommandTag.String()).
		Msg("Query failed or slow")
}

// PgxZerologAdapter adapts zerolog.Logger to pgx's tracelog.Logger interface
type PgxZerologAdapter struct {
	logger zerolog.Logger
}

// NewPgxZerologAdapter creates a new adapter
func NewPgxZerologAdapter(logger zerolog.Logger) *PgxZerologAdapter {
	return &PgxZerologAdapter{logger: logger}
}

// Log implements tracelog.Logger
func (l *PgxZerologAdapter) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]interface{}) {
	var event *zerolog.Event

	switch level {
	case tracelog.LogLevelTrace:
		event = l.logger.Trace()
	case tracelog.LogLevelDebug:
		event = l.logger.Debug()
	case tracelog.LogLevelInfo:
		event = l.logger.Info()
	case tracelog.LogLevelWarn:
		event = l.logger.Warn()
	case tracelog.LogLevelError:
		event = l.logger.Error()
	default:
		event = l.logger.Info()
	}

	if requestID := applogger.RequestIDFrom(ctx); requestID != "" {
		event = event.Str("request_id", requestID)
	}

	for key, value := range data {
		event = event.Interface(key, value)
	}

	event.Msg(msg)
}
