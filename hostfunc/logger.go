package hostfunc

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// Logger returns the logger modules use when no WithLogger option is given.
// It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger replaces the default logger. Entries are named "hostfunc". A nil
// logger restores the no-op default.
//
// Modules and guards capture the default when they are built, so call this
// before building them. Guards that already exist keep their logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		logger.Store(nil)
		return
	}
	logger.Store(l.Named("hostfunc"))
}
