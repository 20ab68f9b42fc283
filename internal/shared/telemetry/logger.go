package telemetry

import (
	"os"
	"sort"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the process logger.
type Options struct {
	Level  string
	Format string // json | console
	File   string // optional rotated log file
}

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the process logger. It is safe to call more than once; the last
// call wins.
func Init(opts Options) *zap.Logger {
	level := parseLevel(opts.Level)

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		CallerKey:      "caller",
		StacktraceKey:  "stacktrace",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var stdoutEncoder zapcore.Encoder
	if opts.Format == "console" {
		consoleCfg := encoderCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		stdoutEncoder = zapcore.NewConsoleEncoder(consoleCfg)
	} else {
		stdoutEncoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEncoder, zapcore.Lock(os.Stdout), level),
	}
	if opts.File != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	Replace(logger)
	return logger
}

// Replace swaps the process logger, e.g. for an observer in tests.
func Replace(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	log = logger
	mu.Unlock()
}

// L returns the current process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	L().Info(msg, toFields(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	L().Warn(msg, toFields(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	L().Error(msg, toFields(fields)...)
}

func toFields(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(fields))
	for _, k := range keys {
		switch v := fields[k].(type) {
		case error:
			out = append(out, zap.NamedError(k, v))
		default:
			out = append(out, zap.Any(k, v))
		}
	}
	return out
}

func parseLevel(level string) zapcore.Level {
	switch level {
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
