package logger

import (
	"io"
	"log/slog"

	"wallet_risk_scorer/internal/app/port"
)

// slogAdapter implements port.Logger. A nil logger writes through the package-level functions,
// so it follows whatever Setup installed.
type slogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter returns a port.Logger backed by the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// NewAdapter returns a port.Logger backed by l.
func NewAdapter(l *slog.Logger) port.Logger {
	return &slogAdapter{l: l}
}

// NewDiscard returns a port.Logger that drops everything.
func NewDiscard() port.Logger {
	return &slogAdapter{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (a *slogAdapter) logger() *slog.Logger {
	if a.l != nil {
		return a.l
	}
	return current()
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger().Info(msg, args...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	a.logger().Debug(msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger().Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger().Error(msg, args...)
}

func (a *slogAdapter) With(args ...any) port.Logger {
	return &slogAdapter{l: a.logger().With(args...)}
}
