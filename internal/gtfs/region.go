package gtfs

import (
	"context"
	"fmt"
)

// Region is the bounding box of the feed's stops.
type Region struct {
	Lat, Lon         float64 // centre
	LatSpan, LonSpan float64
}

// RegionBounds covers every stored stop. ok is false when the store has no stops.
func (manager *Manager) RegionBounds(ctx context.Context) (region Region, ok bool, err error) {
	stops, err := manager.GtfsDB.ListStops(ctx)
	if err != nil {
		return Region{}, false, fmt.Errorf("failed to load stops: %w", err)
	}
	if len(stops) == 0 {
		return Region{}, false, nil
	}

	minLat, maxLat := stops[0].Lat, stops[0].Lat
	minLon, maxLon := stops[0].Lon, stops[0].Lon
	for _, stop := range stops[1:] {
		if stop.Lat < minLat {
			minLat = stop.Lat
		}
		if stop.Lat > maxLat {
			maxLat = stop.Lat
		}
		if stop.Lon < minLon {
			minLon = stop.Lon
		}
		if stop.Lon > maxLon {
			maxLon = stop.Lon
		}
	}

	return Region{
		Lat:     (minLat + maxLat) / 2,
		Lon:     (minLon + maxLon) / 2,
		LatSpan: maxLat - minLat,
		LonSpan: maxLon - minLon,
	}, true, nil
}
