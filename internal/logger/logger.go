// Package logger holds the process-wide zap logger. A TUI owns the
// terminal, so file logging is the default once a path is configured;
// without one, logs go to stderr.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	global *zap.Logger
	once   sync.Once
)

// Init sets up the global logger. With a non-empty path, logs are JSON
// lines in a size-rotated file; otherwise a console encoder on stderr.
// Safe to call more than once; only the first call wins.
func Init(path, level string) error {
	var err error
	once.Do(func() {
		err = initLogger(path, level)
	})
	return err
}

func initLogger(path, level string) error {
	lvl := parseLevel(level)

	if path == "" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		logger, err := cfg.Build()
		if err != nil {
			return err
		}
		global = logger
		return nil
	}

	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "timestamp"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(writer), lvl)
	global = zap.New(core, zap.AddCaller())
	return nil
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

// Get returns the global logger, or a no-op logger before Init. Tests
// rely on the no-op fallback.
func Get() *zap.Logger {
	if global != nil {
		return global
	}
	return zap.NewNop()
}

// Named returns a named child of the global logger.
func Named(name string) *zap.Logger {
	return Get().Named(name)
}

// Sync flushes buffered log entries. Called on shutdown.
func Sync() {
	if global != nil {
		_ = global.Sync()
	}
}
