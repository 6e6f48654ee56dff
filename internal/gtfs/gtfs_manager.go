package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/calendar"
	"nextstop.transit.dev/internal/logging"
	"nextstop.transit.dev/internal/metrics"
)

// Manager owns the schedule store and answers nearest-stop and departure questions against it.
type Manager struct {
	GtfsDB       *gtfsdb.Client
	resolver     *calendar.Resolver
	redis        *redis.Client
	config       Config
	logger       *slog.Logger
	metrics      *metrics.Collector
	lastUpdated  time.Time
	updateMutex  sync.RWMutex
	shutdownChan chan struct{}
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// InitGTFSManager opens the store, imports the feed at config.GtfsURL and, for http(s) sources,
// starts a background refresh.
func InitGTFSManager(config Config) (*Manager, error) {
	logger := logging.OrDefault(config.Logger).With(slog.String("component", "gtfs_manager"))

	dbConfig := gtfsdb.NewConfig(config.GTFSDataPath, config.Env, config.Verbose).WithLogger(config.Logger)
	client, err := gtfsdb.NewClient(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GTFS database client: %w", err)
	}

	config.Logger = logger
	manager := NewManager(client, config)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if _, err := manager.loadFeed(ctx); err != nil {
		manager.Shutdown()
		return nil, fmt.Errorf("error building GTFS database: %w", err)
	}

	if !config.isLocalFile() {
		manager.wg.Add(1)
		go manager.updateStaticGTFS()
	}

	return manager, nil
}

// NewManager wraps an already populated store. It never imports or refreshes.
func NewManager(client *gtfsdb.Client, config Config) *Manager {
	manager := &Manager{
		GtfsDB:       client,
		config:       config,
		logger:       logging.OrDefault(config.Logger),
		metrics:      config.Metrics,
		shutdownChan: make(chan struct{}),
	}

	var cache calendar.Cache
	if config.Redis.Addr != "" {
		rdb, err := calendar.NewRedisClient(context.Background(), config.Redis)
		if err != nil {
			logging.LogError(manager.logger, "redis unavailable, using in-memory active service cache", err,
				slog.String("addr", config.Redis.Addr))
		} else {
			manager.redis = rdb
			cache = calendar.NewRedisCache(rdb)
		}
	}

	resolverConfig := calendar.ResolverConfig{
		Options:  calendar.Options{ApplyRemovals: config.ApplyCalendarRemovals},
		Location: config.location(),
		Cache:    cache,
		Logger:   manager.logger,
	}
	if config.Metrics != nil {
		resolverConfig.Metrics = config.Metrics
	}
	manager.resolver = calendar.NewResolver(client, resolverConfig)

	return manager
}

// Shutdown stops background refreshes and closes the store.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		close(manager.shutdownChan)
		manager.wg.Wait()
		if manager.redis != nil {
			logging.SafeCloseWithLogging(manager.redis, manager.logger, "redis_client")
		}
		if manager.GtfsDB != nil {
			logging.SafeCloseWithLogging(manager.GtfsDB, manager.logger, "gtfs_database")
		}
	})
}

// Location is the zone used for "today" and "now".
func (manager *Manager) Location() *time.Location {
	return manager.config.location()
}

// LastUpdated is when the store last took in a new feed.
func (manager *Manager) LastUpdated() time.Time {
	manager.updateMutex.RLock()
	defer manager.updateMutex.RUnlock()
	return manager.lastUpdated
}

func (manager *Manager) markUpdated(t time.Time) {
	manager.updateMutex.Lock()
	defer manager.updateMutex.Unlock()
	manager.lastUpdated = t
}
