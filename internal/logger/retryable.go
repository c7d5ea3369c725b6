package logger

import "github.com/hashicorp/go-retryablehttp"

// retryableLogger adapts our Logger to retryablehttp's leveled logger interface
type retryableLogger struct {
	logger *Logger
}

// GetRetryableHTTPLogger returns a retryablehttp compatible logger
func (l *Logger) GetRetryableHTTPLogger() retryablehttp.LeveledLogger {
	return &retryableLogger{logger: l}
}

func (r *retryableLogger) Debug(msg string, keyvals ...interface{}) {
	r.logger.Debugw(msg, keyvals...)
}

func (r *retryableLogger) Info(msg string, keyvals ...interface{}) {
	r.logger.Infow(msg, keyvals...)
}

func (r *retryableLogger) Warn(msg string, keyvals ...interface{}) {
	r.logger.Warnw(msg, keyvals...)
}

func (r *retryableLogger) Error(msg string, keyvals ...interface{}) {
	r.logger.Errorw(msg, keyvals...)
}
