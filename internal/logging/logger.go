// Package logging builds the charm logger behind slog. Level and destination
// come from the run configuration; this package reads no environment.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

const DefaultPrefix = "x86color "

// Options selects the level and destination of a Logger.
type Options struct {
	Level  log.Level
	Prefix string
	// Dir, when set, sends output to a timestamped file in that directory
	// instead of stderr.
	Dir string
}

// Logger is a charm logger that owns its output file, if any.
type Logger struct {
	*log.Logger
	closer io.Closer
}

// Close closes the log file. Loggers on stderr or stdout have nothing to close.
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// NewWithWriter returns a Logger writing to w. w is closed by Close unless it
// is one of the standard streams.
func NewWithWriter(w io.Writer, opts Options) *Logger {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    opts.Level <= log.DebugLevel,
		TimeFormat:      time.Kitchen,
		Level:           opts.Level,
		Prefix:          prefix,
	})

	var closer io.Closer
	if c, ok := w.(io.Closer); ok && w != os.Stderr && w != os.Stdout {
		closer = c
	}
	return &Logger{Logger: lg, closer: closer}
}

// New returns a Logger on stderr, or on x86color-<timestamp>.log in opts.Dir.
func New(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		return NewWithWriter(os.Stderr, opts), nil
	}

	name := fmt.Sprintf("x86color-%s.log", time.Now().Format("20060102-150405"))
	f, err := os.OpenFile(filepath.Join(opts.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return NewWithWriter(f, opts), nil
}
