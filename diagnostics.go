package promhist

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/ygrebnov/errorc"
)

var (
	diagOnce   sync.Once
	diagLogger atomic.Pointer[zerolog.Logger]
)

func init() {
	nop := zerolog.Nop()
	diagLogger.Store(&nop)
}

// diag returns the module-scoped diagnostic logger. Before InitDiagnostics it
// discards everything.
func diag() *zerolog.Logger {
	return diagLogger.Load()
}

// InitDiagnostics configures the module's diagnostic stream at the given
// severity level, one of "trace", "debug", "info", "warn", or "error".
// Anything else is a programming error reported as ErrInvalidLevel.
//
// The stream is configured at most once per process: repeat calls with a
// valid level are accepted no-ops, the first configuration wins. An invalid
// level fails even after initialization.
func InitDiagnostics(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	diagOnce.Do(func() {
		logger := zerolog.New(os.Stderr).
			Level(lvl).
			With().
			Timestamp().
			Str("module", Namespace).
			Logger()
		diagLogger.Store(&logger)
	})
	return nil
}

func parseLevel(level string) (zerolog.Level, error) {
	switch level {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info":
		return zerolog.InfoLevel, nil
	case "warn":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, errorc.With(ErrInvalidLevel, errorc.String("level", level))
	}
}
