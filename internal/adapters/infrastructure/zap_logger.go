package infrastructure

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"weatherbot.app/internal/ports"
)

// ZapLoggerAdapter implements the Logger port on top of zap
type ZapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter builds a JSON production logger at the given level
func NewZapLoggerAdapter(level string) (*ZapLoggerAdapter, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &ZapLoggerAdapter{logger: logger}, nil
}

// WrapZapLogger adapts an existing zap logger
func WrapZapLogger(logger *zap.Logger) *ZapLoggerAdapter {
	return &ZapLoggerAdapter{logger: logger}
}

func (l *ZapLoggerAdapter) Debug(msg string, fields ...ports.Field) {
	l.logger.Debug(msg, zapFields(fields)...)
}

func (l *ZapLoggerAdapter) Info(msg string, fields ...ports.Field) {
	l.logger.Info(msg, zapFields(fields)...)
}

func (l *ZapLoggerAdapter) Warn(msg string, fields ...ports.Field) {
	l.logger.Warn(msg, zapFields(fields)...)
}

func (l *ZapLoggerAdapter) Error(msg string, fields ...ports.Field) {
	l.logger.Error(msg, zapFields(fields)...)
}

// Sync flushes buffered entries
func (l *ZapLoggerAdapter) Sync() error {
	return l.logger.Sync()
}

func zapFields(fields []ports.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		if err, ok := field.Value.(error); ok {
			out = append(out, zap.NamedError(field.Key, err))
			continue
		}
		out = append(out, zap.Any(field.Key, field.Value))
	}
	return out
}

func zapLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
