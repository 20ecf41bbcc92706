package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileLoggerAdapter writes JSON log lines to an append-only file
type FileLoggerAdapter struct {
	*ZapLoggerAdapter
	file *os.File
}

func NewFileLoggerAdapter(logPath, level string) (*FileLoggerAdapter, error) {
	if logPath == "" {
		return nil, fmt.Errorf("log file path cannot be empty")
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.MessageKey = "message"
	encoderCfg.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(file)),
		zap.NewAtomicLevelAt(zapLevel(level)),
	)

	return &FileLoggerAdapter{
		ZapLoggerAdapter: WrapZapLogger(zap.New(core)),
		file:             file,
	}, nil
}

// Close flushes and closes the log file
func (f *FileLoggerAdapter) Close() error {
	_ = f.Sync()
	return f.file.Close()
}
