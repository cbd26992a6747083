package log

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	charmlog "github.com/charmbracelet/log"

	"x86color/internal/logging"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
	logger      *logging.Logger
)

// Setup installs the process-wide logger once. If the log file cannot be
// opened the logger stays on stderr and says so.
func Setup(opts logging.Options) *charmlog.Logger {
	initOnce.Do(func() {
		var err error
		if logger, err = logging.New(opts); err != nil {
			logger = logging.NewWithWriter(os.Stderr, opts)
			logger.Warn("Logging to stderr", "dir", opts.Dir, "error", err)
		}

		slog.SetDefault(slog.New(logger.Logger))
		initialized.Store(true)
	})
	return logger.Logger
}

func Initialized() bool {
	return initialized.Load()
}

// Close releases the log file, if any.
func Close() error {
	if logger == nil {
		return nil
	}
	return logger.Close()
}

func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
