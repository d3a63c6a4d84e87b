package reporter

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const flushTimeout = 2 * time.Second

// Reporter forwards operator-facing anomalies to the external error tracker.
// With an empty DSN it degrades to a no-op so local and test runs need no
// tracker at all.
type Reporter struct {
	enabled bool
}

func New(dsn string) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return nil, fmt.Errorf("initializing error tracker: %w", err)
	}
	zap.S().Info("running with error tracking enabled")
	return &Reporter{enabled: true}, nil
}

// Message records a one-off operator message, e.g. credential expiry warnings
// or remote-side anomalies. Logging is the caller's responsibility.
func (r *Reporter) Message(format string, args ...any) {
	if !r.enabled {
		return
	}
	sentry.CaptureMessage(fmt.Sprintf(format, args...))
}

func (r *Reporter) Error(err error) {
	if !r.enabled || err == nil {
		return
	}
	sentry.CaptureException(err)
}

func (r *Reporter) Close() {
	if !r.enabled {
		return
	}
	sentry.Flush(flushTimeout)
}
