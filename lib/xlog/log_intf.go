package xlog

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

const envLogLevel = "XLOG_LVL"

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

func (lvl LogLevel) zapLevel() zapcore.Level {
	switch lvl {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	default:
	}
	return zapcore.DebugLevel
}

func (lvl LogLevel) String() string {
	return string(lvl)
}

func parseLogLevel(lvl string) (LogLevel, bool) {
	switch l := LogLevel(strings.ToUpper(strings.TrimSpace(lvl))); l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return l, true
	default:
	}
	return "", false
}

type LogEncoderType uint8

const (
	JSON LogEncoderType = iota
	PlainText
	_encMax
)

type LogOutWriterType uint8

const (
	StdOut LogOutWriterType = iota
	StdErr
	_writerMax
)

const coreKeyIgnored = ""

var encoderMap = map[LogEncoderType]func(cfg zapcore.EncoderConfig) zapcore.Encoder{
	JSON:      zapcore.NewJSONEncoder,
	PlainText: zapcore.NewConsoleEncoder,
}

func getEncoderByType(typ LogEncoderType) func(cfg zapcore.EncoderConfig) zapcore.Encoder {
	enc, ok := encoderMap[typ]
	if !ok {
		return zapcore.NewJSONEncoder
	}
	return enc
}

func getOutWriterByType(typ LogOutWriterType) zapcore.WriteSyncer {
	switch typ {
	case StdErr:
		return zapcore.Lock(os.Stderr)
	case StdOut:
		fallthrough
	default:
	}
	return zapcore.Lock(os.Stdout)
}

type loggerCfg struct {
	level   *LogLevel
	encoder LogEncoderType
	writer  LogOutWriterType
	out     io.Writer
	name    string
}

type LoggerOption func(cfg *loggerCfg)

func WithLoggerLevel(lvl LogLevel) LoggerOption {
	return func(cfg *loggerCfg) {
		cfg.level = &lvl
	}
}

func WithLoggerEncoder(enc LogEncoderType) LoggerOption {
	return func(cfg *loggerCfg) {
		if enc < _encMax {
			cfg.encoder = enc
		}
	}
}

func WithLoggerWriter(writer LogOutWriterType) LoggerOption {
	return func(cfg *loggerCfg) {
		if writer < _writerMax {
			cfg.writer = writer
		}
	}
}

// WithLoggerOutput overrides the writer type by an arbitrary writer.
func WithLoggerOutput(out io.Writer) LoggerOption {
	return func(cfg *loggerCfg) {
		cfg.out = out
	}
}

func WithLoggerName(name string) LoggerOption {
	return func(cfg *loggerCfg) {
		cfg.name = name
	}
}
