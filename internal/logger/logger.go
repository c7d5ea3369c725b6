package logger

import (
	"github.com/flexprice/console/internal/config"
	"github.com/flexprice/console/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger to provide logging functionality
type Logger struct {
	*zap.SugaredLogger
}

// L is the global logger, meant for scripts and tests.
// Everything wired through fx should take *Logger as a dependency instead.
var L *Logger

func init() {
	L, _ = newLogger(types.LogLevelDebug)
}

// NewLogger creates the logger for the configured level
func NewLogger(cfg *config.Configuration) (*Logger, error) {
	return newLogger(cfg.Logging.Level)
}

// GetLogger returns the global logger
func GetLogger() *Logger {
	if L == nil {
		L, _ = newLogger(types.LogLevelDebug)
	}
	return L
}

func newLogger(level types.LogLevel) (*Logger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(zapLevel(level))

	zapLogger, err := config.Build()
	if err != nil {
		return nil, err
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

func zapLevel(level types.LogLevel) zapcore.Level {
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

// With returns a child logger carrying the given key values on every entry
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(keysAndValues...)}
}
