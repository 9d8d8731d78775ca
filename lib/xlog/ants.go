package xlog

import (
	"fmt"

	"go.uber.org/zap"
)

// AntsLogger adapts a zap logger to the ants pool logger.
type AntsLogger struct {
	logger *zap.Logger
}

func (l *AntsLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func NewAntsLogger(logger *zap.Logger) *AntsLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AntsLogger{
		logger: logger.Named("Ants"),
	}
}
