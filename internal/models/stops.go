package models

import (
	"math"

	"nextstop.transit.dev/gtfsdb"
	"nextstop.transit.dev/internal/locator"
)

type Stop struct {
	Code string  `json:"code"`
	ID   string  `json:"id"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

func NewStop(s gtfsdb.Stop) Stop {
	return Stop{Code: s.Code, ID: s.ID, Lat: s.Lat, Lon: s.Lon, Name: s.Name}
}

// NearbyStop is a stop ranked by distance from the rider.
type NearbyStop struct {
	Stop
	Direction      string  `json:"direction"` // compass point from rider to stop, "" at the stop
	DistanceKm     float64 `json:"distanceKm"`
	DistanceMeters int     `json:"distanceMeters"`
}

// NewNearbyStop converts a ranked stop. direction is computed by the caller.
func NewNearbyStop(r locator.RankedStop, direction string) NearbyStop {
	return NearbyStop{
		Stop: Stop{
			Code: r.Stop.Code,
			ID:   r.Stop.ID,
			Lat:  r.Stop.Lat,
			Lon:  r.Stop.Lon,
			Name: r.Stop.Name,
		},
		Direction:      direction,
		DistanceKm:     math.Round(r.DistanceKm*1000) / 1000,
		DistanceMeters: int(math.Round(r.DistanceMeters())),
	}
}
