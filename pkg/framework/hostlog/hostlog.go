// Package hostlog owns the process-wide logger for host-facing diagnostics.
//
// Plugins run inside a host process with no console, so the default sink is
// a file under the user's log directory; when that cannot be opened the
// logger degrades to a nop. Nothing in this package may be called from the
// render thread: real-time code records failures in atomic flags that
// non-real-time code drains and logs afterwards.
package hostlog

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	logger *zap.Logger
)

// L returns the shared logger, initializing it on first use.
func L() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if logger == nil {
		logger = newDefault()
	}
	return logger
}

// Set replaces the shared logger. Intended for tests and for hosts that
// embed the framework and want log routing of their own.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// newDefault builds a file-backed logger, falling back to nop when the log
// directory is unavailable (sandboxed hosts commonly forbid it).
func newDefault() *zap.Logger {
	dir, err := os.UserCacheDir()
	if err != nil {
		return zap.NewNop()
	}
	path := filepath.Join(dir, "beamer", "plugin.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zap.NewNop()
	}
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(f), zap.InfoLevel)
	return zap.New(core)
}

// OnceFlag is a one-shot warning latch for real-time code. The render
// thread calls Trip (a single atomic store); a non-real-time thread calls
// Drain and emits the log line. Trip never allocates and never blocks.
type OnceFlag struct {
	mu      sync.Mutex
	tripped atomic.Bool
	logged  bool
}

// Trip latches the flag. Safe on the render thread.
func (f *OnceFlag) Trip() { f.tripped.Store(true) }

// Drain logs msg at Warn the first time it is called after a Trip.
func (f *OnceFlag) Drain(msg string, fields ...zap.Field) {
	if !f.tripped.Load() {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.logged {
		return
	}
	f.logged = true
	L().Warn(msg, fields...)
}
