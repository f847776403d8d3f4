package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	// debug, info, warn or error; anything else means info
	Level string
	// Optional file mirrored with rotation
	File string
}

// New builds a slog logger backed by a zap JSON core. The returned func
// flushes buffered entries and closes the log file.
func New(opts Options) (*slog.Logger, func() error) {
	return newLogger(opts, os.Stdout)
}

func newLogger(opts Options, stdout io.Writer) (*slog.Logger, func() error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderCfg)
	level := parseLevel(opts.Level)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(stdout), level)}
	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
	}
	zl := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	closeFn := func() error {
		// stdout can't be synced on some platforms, only the file matters
		_ = zl.Sync()
		if file != nil {
			return file.Close()
		}
		return nil
	}
	return slog.New(zapslog.NewHandler(zl.Core(), zapslog.WithCaller(true))), closeFn
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	}
	return zapcore.InfoLevel
}
