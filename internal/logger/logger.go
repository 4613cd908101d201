package logger

import (
	"context"

	"github.com/ahamo-portal/portal/internal/config"
	"github.com/ahamo-portal/portal/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger to provide logging functionality
type Logger struct {
	*zap.SugaredLogger
}

// Global logger for convenience
var L *Logger

// NewLogger creates and returns a new Logger instance
func NewLogger(cfg *config.Configuration) (*Logger, error) {
	zapConfig := zap.NewProductionConfig()
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapConfig.Level = zap.NewAtomicLevelAt(levelOf(cfg.Logging.Level))

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

// NewNoop returns a logger that discards everything. Used by tests.
func NewNoop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func levelOf(level types.LogLevel) zapcore.Level {
	switch level {
	case types.LogLevelDebug:
		return zapcore.DebugLevel
	case types.LogLevelWarn:
		return zapcore.WarnLevel
	case types.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// L is the default logger for scripts. Everything else gets its logger injected.
func init() {
	L, _ = NewLogger(config.GetDefaultConfig())
}

// WithContext returns a child logger carrying the request and subscriber ids of ctx
func (l *Logger) WithContext(ctx context.Context) *Logger {
	var fields []interface{}
	if requestID := types.GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}
	if subscriberID := types.GetSubscriberID(ctx); subscriberID != "" {
		fields = append(fields, "subscriber_id", subscriberID)
	}
	if len(fields) == 0 {
		return l
	}
	return &Logger{SugaredLogger: l.SugaredLogger.With(fields...)}
}
