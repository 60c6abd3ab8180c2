package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger

// Options configures the zap core behind the global slog logger.
type Options struct {
	Level string // debug, info, warn, error
	// File, when set, receives a copy of every entry.
	File string
	// Dir, when set and File is empty, receives a per-run file risk_scoring_<timestamp>.log.
	Dir string
}

// Setup builds the zap logger, bridges it to slog through slog-zap and installs it as
// the default slog logger. The caller must Sync the returned logger before exit.
func Setup(opts Options) (*zap.Logger, error) {
	zapLevel, slogLevel := ParseLevel(opts.Level)

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zapLevel)} // всегда пишем в stdout

	path := opts.File
	if path == "" && opts.Dir != "" {
		path = filepath.Join(opts.Dir, fmt.Sprintf("risk_scoring_%s.log", time.Now().Format("20060102_150405")))
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), zapLevel))
	}

	zapLogger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	handler := slogzap.Option{
		Level:  slogLevel,
		Logger: zapLogger,
	}.NewZapHandler()

	// Устанавливаем как глобальный slog логгер
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return zapLogger, nil
}

// ParseLevel maps a level name to zap and slog levels. Unknown names fall back to info.
func ParseLevel(levelStr string) (zapcore.Level, slog.Level) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return zapcore.DebugLevel, slog.LevelDebug
	case "WARN", "WARNING":
		return zapcore.WarnLevel, slog.LevelWarn
	case "ERROR":
		return zapcore.ErrorLevel, slog.LevelError
	default:
		return zapcore.InfoLevel, slog.LevelInfo
	}
}

func current() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	current().Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	current().Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}
