package news

import (
	"context"
	"time"

	"ringstats-backend/logger"
)

// StartPolling runs an ingest immediately and then every interval until ctx
// is cancelled. A non-positive interval disables polling.
func StartPolling(ctx context.Context, ing *Ingester, interval time.Duration) {
	if interval <= 0 {
		return
	}
	log := logger.Log.WithFields(map[string]interface{}{
		"service":  "poller",
		"interval": interval.String(),
	})

	run := func() {
		runCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if _, err := ing.Run(runCtx, nil); err != nil && ctx.Err() == nil {
			log.Errorf("Polling cycle failed: %v", err)
		}
	}

	log.Info("Starting poller")
	run()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			log.Info("Starting new polling cycle")
			run()
		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return
		}
	}
}
