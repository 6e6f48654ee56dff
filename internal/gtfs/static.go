package gtfs

import (
	"context"
	"log/slog"
	"time"

	"nextstop.transit.dev/internal/logging"
)

// loadFeed imports the configured feed. Unchanged feeds are skipped by the store; a new feed
// clears every cached active-service day.
func (manager *Manager) loadFeed(ctx context.Context) (bool, error) {
	start := time.Now()

	var imported bool
	var err error
	if manager.config.isLocalFile() {
		imported, err = manager.GtfsDB.ImportFromFile(ctx, manager.config.GtfsURL)
	} else {
		imported, err = manager.GtfsDB.DownloadAndStore(ctx, manager.config.GtfsURL)
	}
	duration := time.Since(start)

	if err != nil {
		manager.metrics.ObserveImport("error", duration)
		return false, err
	}

	if !imported {
		manager.metrics.ObserveImport("unchanged", duration)
		if manager.LastUpdated().IsZero() {
			manager.markUpdated(time.Now())
		}
		return false, nil
	}

	manager.metrics.ObserveImport("imported", duration)
	manager.markUpdated(time.Now())

	if err := manager.resolver.Invalidate(ctx); err != nil {
		logging.LogError(manager.logger, "failed to clear active service cache", err)
	}

	if counts, err := manager.GtfsDB.TableCounts(ctx); err == nil {
		manager.metrics.SetStopsLoaded(counts["stops"])
	}

	if manager.config.Verbose {
		logging.LogOperation(manager.logger, "gtfs_feed_loaded",
			slog.String("source", manager.config.GtfsURL),
			slog.Duration("duration", duration))
	}

	return true, nil
}

// updateStaticGTFS refreshes a remote feed on a fixed interval until Shutdown.
func (manager *Manager) updateStaticGTFS() {
	defer manager.wg.Done()

	ticker := time.NewTicker(manager.config.refreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			_, err := manager.loadFeed(ctx)
			cancel()

			if err != nil {
				// Keep serving the previous feed.
				logging.LogError(manager.logger, "error updating GTFS data", err,
					slog.String("source", manager.config.GtfsURL))
			}
		case <-manager.shutdownChan:
			logging.LogOperation(manager.logger, "static_gtfs_updates_stopped")
			return
		}
	}
}
