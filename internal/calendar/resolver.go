package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/logging"
)

// loadTimeout bounds a store load that no caller can cancel.
const loadTimeout = 30 * time.Second

// Store is the schedule data the resolver reads.
type Store interface {
	ListCalendars(ctx context.Context) ([]gtfsdb.Calendar, error)
	ListCalendarDates(ctx context.Context, date string) ([]gtfsdb.CalendarDate, error)
}

// Recorder receives resolver metrics. A nil Recorder is allowed.
type Recorder interface {
	ActiveServiceLookup(source string)
	MalformedRecords(kind string, count int)
}

// ResolverConfig configures a Resolver. Zero values give an in-memory cache in time.Local.
type ResolverConfig struct {
	Options  Options
	Location *time.Location
	Cache    Cache
	Logger   *slog.Logger
	Metrics  Recorder
}

// Resolver resolves active services from the store and caches them per local day.
type Resolver struct {
	store    Store
	cache    Cache
	options  Options
	location *time.Location
	logger   *slog.Logger
	metrics  Recorder
	group    singleflight.Group
	now      func() time.Time
}

func NewResolver(store Store, config ResolverConfig) *Resolver {
	r := &Resolver{
		store:    store,
		cache:    config.Cache,
		options:  config.Options,
		location: config.Location,
		logger:   logging.OrDefault(config.Logger),
		metrics:  config.Metrics,
		now:      time.Now,
	}
	if r.cache == nil {
		r.cache = NewMemoryCache()
	}
	if r.location == nil {
		r.location = time.Local
	}
	return r
}

// Location is the zone "today" is computed in.
func (r *Resolver) Location() *time.Location {
	return r.location
}

// Today returns the local calendar day of now.
func (r *Resolver) Today(now time.Time) Date {
	return DateOf(now.In(r.location))
}

// ActiveServices resolves the services running on now's local day.
func (r *Resolver) ActiveServices(ctx context.Context, now time.Time) (Result, error) {
	return r.Resolve(ctx, r.Today(now))
}

// Resolve returns the services running on day, from the cache when possible.
func (r *Resolver) Resolve(ctx context.Context, day Date) (Result, error) {
	cached, ok, err := r.cache.Get(ctx, day)
	if err != nil {
		logging.LogError(r.logger, "active service cache read failed", err,
			slog.String("date", day.String()))
	}
	if ok {
		cached.Cached = true
		r.recordLookup("cache")
		return cached, nil
	}

	// The load is shared by every caller waiting on day, so it must not end when the
	// first caller's context does. Each caller still stops waiting on its own ctx.
	ch := r.group.DoChan(day.String(), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		result, err := r.load(loadCtx, day)
		if err != nil {
			return Result{}, err
		}

		if ttl := day.AddDays(1).Midnight(r.location).Sub(r.now()); ttl > 0 {
			if err := r.cache.Set(loadCtx, day, result, ttl); err != nil {
				logging.LogError(r.logger, "active service cache write failed", err,
					slog.String("date", day.String()))
			}
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Result{}, res.Err
		}
		r.recordLookup("store")
		return res.Val.(Result), nil
	}
}

// Invalidate drops every cached day, e.g. after a feed import.
func (r *Resolver) Invalidate(ctx context.Context) error {
	return r.cache.Clear(ctx)
}

func (r *Resolver) load(ctx context.Context, day Date) (Result, error) {
	calendarRows, err := r.store.ListCalendars(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load calendar: %w", err)
	}
	dateRows, err := r.store.ListCalendarDates(ctx, day.String())
	if err != nil {
		return Result{}, fmt.Errorf("failed to load calendar dates: %w", err)
	}

	entries, skippedEntries := EntriesFromRows(calendarRows)
	exceptions, skippedExceptions := ExceptionsFromRows(dateRows)

	result := ResolveActiveServices(day, exceptions, entries, r.options)
	result.Skipped += skippedEntries + skippedExceptions

	if result.Skipped > 0 {
		logging.LogSkippedRecords(r.logger, "calendar", result.Skipped, slog.String("date", day.String()))
		if r.metrics != nil {
			r.metrics.MalformedRecords("calendar", result.Skipped)
		}
	}

	logging.LogOperation(r.logger, "active_services_resolved",
		slog.String("date", day.String()),
		slog.Int("services", len(result.Services)),
		slog.Bool("overridden", result.Overridden))

	return result, nil
}

func (r *Resolver) recordLookup(source string) {
	if r.metrics != nil {
		r.metrics.ActiveServiceLookup(source)
	}
}
