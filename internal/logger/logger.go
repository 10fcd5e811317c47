// Package logger wraps zap behind a small leveled logging interface.
package logger

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the leveled, printf-style logger used across the application.
// It also satisfies the resty and cron logger contracts through adapters.
type Logger interface {
	With(args ...interface{}) Logger

	Debugf(template string, args ...interface{})
	Infof(template string, args ...interface{})
	Warnf(template string, args ...interface{})
	Errorf(template string, args ...interface{})
	Fatalf(template string, args ...interface{})
}

// ZapLogger implements Logger on a zap SugaredLogger.
type ZapLogger struct {
	logger *zap.SugaredLogger
}

type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
)

var zapLevels = map[LogLevel]zapcore.Level{
	Debug: zapcore.DebugLevel,
	Info:  zapcore.InfoLevel,
	Warn:  zapcore.WarnLevel,
	Error: zapcore.ErrorLevel,
}

// ParseLevel maps a LOG_LEVEL value onto a LogLevel. Empty means info.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "", "info":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

// NewZapLogger builds a JSON logger at the given level writing to stdout, or
// to outputPaths when given. The returned func flushes buffered entries and
// is meant to be deferred by main.
func NewZapLogger(level LogLevel, outputPaths ...string) (*ZapLogger, func(), error) {
	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}
	zl, ok := zapLevels[level]
	if !ok {
		return nil, nil, fmt.Errorf("can't init logger: unknown level %d", level)
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = outputPaths
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zl)

	l, err := cfg.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("can't init logger: %w", err)
	}
	logger := &ZapLogger{logger: l.Sugar()}

	// Syncing a terminal or pipe fails on most platforms; those errors are noise.
	syncFunc := func() {
		err := logger.logger.Sync()
		if err == nil || errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) {
			return
		}
		logger.Errorf("%s: can't sync logger", err)
	}

	return logger, syncFunc, nil
}

// NewNop returns a logger that discards everything.
func NewNop() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop().Sugar()}
}

func (l *ZapLogger) With(args ...interface{}) Logger {
	return &ZapLogger{logger: l.logger.With(args...)}
}

func (l *ZapLogger) Debugf(template string, args ...interface{}) {
	l.logger.Debugf(template, args...)
}

func (l *ZapLogger) Infof(template string, args ...interface{}) {
	l.logger.Infof(template, args...)
}

func (l *ZapLogger) Warnf(template string, args ...interface{}) {
	l.logger.Warnf(template, args...)
}

func (l *ZapLogger) Errorf(template string, args ...interface{}) {
	l.logger.Errorf(template, args...)
}

func (l *ZapLogger) Fatalf(template string, args ...interface{}) {
	l.logger.Fatalf(template, args...)
}
