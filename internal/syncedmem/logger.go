package syncedmem

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger   = zap.NewNop()
	loggerMu sync.RWMutex
)

// Logger returns the package logger used by buffers created without an
// explicit Config.Logger. It is a no-op logger by default.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger installs l as the package logger. A nil l restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l.Named("syncedmem")
	loggerMu.Unlock()
}
