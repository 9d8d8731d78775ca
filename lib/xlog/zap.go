package xlog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZapLogger builds a component logger. The level falls back to
// XLOG_LVL and then to DEBUG.
func NewZapLogger(opts ...LoggerOption) *zap.Logger {
	cfg := &loggerCfg{
		encoder: JSON,
		writer:  StdOut,
	}
	for _, o := range opts {
		o(cfg)
	}

	lvl := LogLevelDebug
	if cfg.level != nil {
		lvl = *cfg.level
	} else if envLvl, ok := parseLogLevel(os.Getenv(envLogLevel)); ok {
		lvl = envLvl
	}

	var ws zapcore.WriteSyncer
	if cfg.out != nil {
		ws = zapcore.AddSync(cfg.out)
	} else {
		ws = getOutWriterByType(cfg.writer)
	}

	config := zapcore.EncoderConfig{
		MessageKey:    "msg",
		LevelKey:      "lvl",
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		TimeKey:       "ts",
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		CallerKey:     coreKeyIgnored,
		FunctionKey:   coreKeyIgnored,
		NameKey:       "component",
		EncodeName:    zapcore.FullNameEncoder,
		StacktraceKey: coreKeyIgnored,
	}
	core := zapcore.NewCore(
		getEncoderByType(cfg.encoder)(config),
		ws,
		zap.NewAtomicLevelAt(lvl.zapLevel()),
	)
	l := zap.New(core)
	if cfg.name != "" {
		l = l.Named(cfg.name)
	}
	return l
}

// FromEnv returns a no-op logger unless XLOG_LVL is set to a known level.
func FromEnv(name string) *zap.Logger {
	lvl, ok := parseLogLevel(os.Getenv(envLogLevel))
	if !ok {
		return zap.NewNop()
	}
	return NewZapLogger(
		WithLoggerLevel(lvl),
		WithLoggerEncoder(PlainText),
		WithLoggerWriter(StdErr),
		WithLoggerName(name),
	)
}
