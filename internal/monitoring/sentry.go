package monitoring

import (
	"fmt"

	"github.com/getsentry/sentry-go"
)

// InitSentry is a no-op without a DSN. Callers flush on shutdown.
func InitSentry(dsn, env string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          "seucuidado-api",
		TracesSampleRate: 0.2,
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}

	return nil
}

func CaptureError(err error, context map[string]interface{}) {
	if hub := sentry.CurrentHub(); hub != nil && hub.Client() != nil {
		hub.WithScope(func(scope *sentry.Scope) {
			for k, v := range context {
				scope.SetExtra(k, v)
			}
			hub.CaptureException(err)
		})
	}
}
