package logger

import (
	"os"

	"lingolab/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.Logger

func newEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// Initialize builds the process-wide logger from LoggerConfig.
// Production emits JSON, everything else a human-readable console
// encoding. Call once at startup before Get.
func Initialize(loggerCfg config.LoggerConfig) error {
	logLevel := zapcore.InfoLevel
	if loggerCfg.Level == "debug" {
		logLevel = zapcore.DebugLevel
	}

	var enc zapcore.Encoder
	if loggerCfg.Env == "production" {
		enc = zapcore.NewJSONEncoder(newEncoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(newEncoderConfig())
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), logLevel)
	log = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// Get returns the shared logger. Nil until Initialize has run.
func Get() *zap.Logger {
	return log
}

// Sync flushes buffered entries, typically deferred from main.
func Sync() error {
	return log.Sync()
}
