package diag

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
)

// PanicError is what Guard returns in place of a panic.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes a panicked error value to errors.Is / errors.As.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

var (
	bridgeMu     sync.Mutex
	bridgeLogger *slog.Logger
)

// Install attaches logger to the crash bridge. It reports false if a bridge
// was already installed, in which case nothing changes.
func Install(logger *slog.Logger) bool {
	bridgeMu.Lock()
	defer bridgeMu.Unlock()
	if bridgeLogger != nil {
		return false
	}
	if logger == nil {
		logger = slog.Default()
	}
	bridgeLogger = logger
	return true
}

// Uninstall detaches the bridge. Calling it when nothing is installed is a no-op.
func Uninstall() {
	bridgeMu.Lock()
	bridgeLogger = nil
	bridgeMu.Unlock()
}

// Installed reports whether a bridge logger is attached.
func Installed() bool {
	bridgeMu.Lock()
	defer bridgeMu.Unlock()
	return bridgeLogger != nil
}

func reporter() *slog.Logger {
	bridgeMu.Lock()
	defer bridgeMu.Unlock()
	if bridgeLogger == nil {
		return slog.Default()
	}
	return bridgeLogger
}

// Guard runs fn and converts a panic into a *PanicError. The panic is logged
// through the installed bridge, or the default logger when none is installed.
func Guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			reporter().Error("recovered panic",
				slog.Any("panic", r),
				slog.String("stack", string(buf[:n])),
			)
			err = &PanicError{Value: r, Stack: buf[:n]}
		}
	}()
	return fn()
}
