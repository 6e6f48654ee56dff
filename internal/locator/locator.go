// Package locator ranks stops by great-circle distance from the rider.
package locator

import (
	"context"
	"errors"
	"math"
	"sort"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// ErrLocationUnavailable is returned by a Provider that cannot produce a position.
var ErrLocationUnavailable = errors.New("location unavailable")

// Location is the rider's position in decimal degrees.
type Location struct {
	Lat float64
	Lon float64
}

// Stop is the subset of a schedule stop needed for ranking.
type Stop struct {
	ID   string
	Code string
	Name string
	Lat  float64
	Lon  float64
}

// RankedStop pairs a stop with its distance from the rider. The stop itself is never modified.
type RankedStop struct {
	Stop       Stop
	DistanceKm float64
}

// DistanceMeters is DistanceKm in metres.
func (r RankedStop) DistanceMeters() float64 {
	return r.DistanceKm * 1000
}

// Provider supplies the rider's current best-effort position.
type Provider interface {
	CurrentLocation(ctx context.Context) (Location, error)
}

// StaticProvider always reports the same position.
type StaticProvider struct {
	Location Location
}

func (p StaticProvider) CurrentLocation(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	return p.Location, nil
}

// Haversine returns the great-circle distance in kilometres between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// Rank returns every stop ordered by distance from current, nearest first.
// Stops at equal distance keep their input order. An empty input gives an empty, non-nil result.
func Rank(current Location, stops []Stop) []RankedStop {
	ranked := make([]RankedStop, 0, len(stops))
	for _, stop := range stops {
		ranked = append(ranked, RankedStop{
			Stop:       stop,
			DistanceKm: Haversine(current.Lat, current.Lon, stop.Lat, stop.Lon),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	return ranked
}

// Nearest returns the closest stop, or false when there are no stops.
func Nearest(current Location, stops []Stop) (RankedStop, bool) {
	ranked := Rank(current, stops)
	if len(ranked) == 0 {
		return RankedStop{}, false
	}
	return ranked[0], true
}

// Limit truncates ranked to at most maxCount entries. maxCount <= 0 means no limit.
func Limit(ranked []RankedStop, maxCount int) []RankedStop {
	if maxCount <= 0 || len(ranked) <= maxCount {
		return ranked
	}
	return ranked[:maxCount]
}
