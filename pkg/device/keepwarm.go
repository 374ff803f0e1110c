package device

import (
	"context"
	"log/slog"
	"time"
)

// DefaultKeepWarmInterval is how often the backend is pinged to keep
// free-tier hosting from idling it out.
const DefaultKeepWarmInterval = 10 * time.Minute

// KeepWarm pings the backend health endpoint on a fixed interval until
// the context is cancelled. Ping failures are logged and ignored.
func KeepWarm(ctx context.Context, backend Backend, interval time.Duration, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "keepwarm")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := backend.Health(ctx); err != nil {
				logger.Debug("keep-warm ping failed", "error", err)
			}
		}
	}
}
