package gtfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/calendar"
	"nextstop.transit.dev/internal/departures"
	"nextstop.transit.dev/internal/locator"
	"nextstop.transit.dev/internal/logging"
	"nextstop.transit.dev/internal/models"
)

// DepartureBoard is the schedule of one stop at one moment.
type DepartureBoard struct {
	Stop       gtfsdb.Stop
	Date       calendar.Date
	Now        departures.TimeOfDay
	Services   calendar.Result
	Departures departures.Result
}

// Notice is the rider-facing message for an empty board, or "".
func (b DepartureBoard) Notice() string {
	switch {
	case b.Services.Empty():
		return models.NoticeNoService
	case b.Departures.Empty():
		return models.NoticeNoDepartures
	default:
		return ""
	}
}

// NearbyDepartures is the board of the stop nearest the rider.
type NearbyDepartures struct {
	Location locator.Location
	Stop     *locator.RankedStop // nil when no stop is known
	Board    DepartureBoard
}

func (n NearbyDepartures) Notice() string {
	if n.Stop == nil {
		return models.NoticeNoStops
	}
	return n.Board.Notice()
}

func toLocatorStops(stops []gtfsdb.Stop) []locator.Stop {
	out := make([]locator.Stop, len(stops))
	for i, s := range stops {
		out[i] = locator.Stop{ID: s.ID, Code: s.Code, Name: s.Name, Lat: s.Lat, Lon: s.Lon}
	}
	return out
}

// NearbyStops ranks every stop by distance from loc. maxCount <= 0 returns them all.
func (manager *Manager) NearbyStops(ctx context.Context, loc locator.Location, maxCount int) ([]locator.RankedStop, error) {
	stops, err := manager.GtfsDB.ListStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stops: %w", err)
	}
	return locator.Limit(locator.Rank(loc, toLocatorStops(stops)), maxCount), nil
}

// ActiveServices resolves the services running on now's local day.
func (manager *Manager) ActiveServices(ctx context.Context, now time.Time) (calendar.Result, error) {
	return manager.resolver.ActiveServices(ctx, now)
}

// ActiveServicesOn resolves the services running on day.
func (manager *Manager) ActiveServicesOn(ctx context.Context, day calendar.Date) (calendar.Result, error) {
	return manager.resolver.Resolve(ctx, day)
}

// DeparturesForStop builds the board for stopID at now. An unknown stop gives
// gtfsdb.ErrStopNotFound.
func (manager *Manager) DeparturesForStop(ctx context.Context, stopID string, now time.Time) (DepartureBoard, error) {
	local := now.In(manager.Location())
	board := DepartureBoard{
		Date: calendar.DateOf(local),
		Now:  departures.ClockTime(local),
	}

	var rows []gtfsdb.DepartureRecord
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stop, err := manager.GtfsDB.GetStop(gctx, stopID)
		if err != nil {
			return err
		}
		board.Stop = stop
		return nil
	})
	g.Go(func() error {
		services, err := manager.resolver.Resolve(gctx, board.Date)
		if err != nil {
			return err
		}
		board.Services = services
		return nil
	})
	g.Go(func() error {
		records, err := manager.GtfsDB.ListDepartureRecords(gctx, stopID)
		if err != nil {
			return err
		}
		rows = records
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, gtfsdb.ErrStopNotFound) {
			return DepartureBoard{}, err
		}
		return DepartureBoard{}, fmt.Errorf("failed to load departures for stop %q: %w", stopID, err)
	}

	board.Departures = departures.Schedule(stopID, board.Services.Services, board.Now,
		departures.RecordsFromRows(rows), departures.Options{Limit: manager.config.MaxDepartures})

	if board.Departures.Skipped > 0 {
		logging.LogSkippedRecords(manager.logger, "departure", board.Departures.Skipped,
			slog.String("stop_id", stopID))
		manager.metrics.MalformedRecords("departure", board.Departures.Skipped)
	}

	return board, nil
}

// NextDepartures shows the board of the stop nearest loc. No known stops is not an error.
func (manager *Manager) NextDepartures(ctx context.Context, loc locator.Location, now time.Time) (NearbyDepartures, error) {
	result := NearbyDepartures{Location: loc}

	ranked, err := manager.NearbyStops(ctx, loc, 1)
	if err != nil {
		return result, err
	}
	if len(ranked) == 0 {
		return result, nil
	}
	result.Stop = &ranked[0]

	board, err := manager.DeparturesForStop(ctx, ranked[0].Stop.ID, now)
	if err != nil {
		return result, err
	}
	result.Board = board
	return result, nil
}

// NextDeparturesFrom asks provider for the rider's position first. A provider failure is
// reported as locator.ErrLocationUnavailable and nothing is computed.
func (manager *Manager) NextDeparturesFrom(ctx context.Context, provider locator.Provider, now time.Time) (NearbyDepartures, error) {
	loc, err := provider.CurrentLocation(ctx)
	if err != nil {
		if errors.Is(err, locator.ErrLocationUnavailable) {
			return NearbyDepartures{}, err
		}
		return NearbyDepartures{}, fmt.Errorf("%w: %v", locator.ErrLocationUnavailable, err)
	}
	return manager.NextDepartures(ctx, loc, now)
}
