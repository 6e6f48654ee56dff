package models

import (
	"nextstop.transit.dev/internal/calendar"
	"nextstop.transit.dev/internal/departures"
)

type Departure struct {
	TripID           string `json:"tripId"`
	RouteShortName   string `json:"routeShortName"`
	Headsign         string `json:"headsign"`
	ServiceID        string `json:"serviceId"`
	DepartureTime    string `json:"departureTime"`
	HoursRemaining   int    `json:"hoursRemaining"`
	MinutesRemaining int    `json:"minutesRemaining"`
	Display          string `json:"display"`
}

func NewDeparture(d departures.RankedDeparture) Departure {
	return Departure{
		TripID:           d.TripID,
		RouteShortName:   d.RouteShortName,
		Headsign:         d.Headsign,
		ServiceID:        d.ServiceID,
		DepartureTime:    d.DepartureTime.String(),
		HoursRemaining:   d.HoursRemaining,
		MinutesRemaining: d.MinutesRemaining,
		Display:          d.String(),
	}
}

// DepartureBoard is the departures-for-stop entry.
type DepartureBoard struct {
	StopID         string      `json:"stopId"`
	ServiceDate    string      `json:"serviceDate"` // YYYY-MM-DD
	Time           string      `json:"time"`        // HH:MM:SS the board was computed for
	ActiveServices []string    `json:"activeServiceIds"`
	Departures     []Departure `json:"departures"`
	SkippedRecords int         `json:"skippedRecords"`
}

func NewDepartureBoard(stopID string, day calendar.Date, now departures.TimeOfDay, services calendar.Result, result departures.Result) DepartureBoard {
	list := make([]Departure, len(result.Departures))
	for i, d := range result.Departures {
		list[i] = NewDeparture(d)
	}
	return DepartureBoard{
		StopID:         stopID,
		ServiceDate:    day.ISO(),
		Time:           now.String(),
		ActiveServices: services.Services.IDs(),
		Departures:     list,
		SkippedRecords: result.Skipped + services.Skipped,
	}
}

// NearbyDepartures is the departures-for-location entry. Stop is nil when no stop is known.
type NearbyDepartures struct {
	Stop  *NearbyStop     `json:"stop"`
	Board *DepartureBoard `json:"board"`
}

// ActiveServices is the active-services entry.
type ActiveServices struct {
	ServiceDate string   `json:"serviceDate"`
	ServiceIDs  []string `json:"serviceIds"`
	Overridden  bool     `json:"overridden"`
	Skipped     int      `json:"skippedRecords"`
}

func NewActiveServices(r calendar.Result) ActiveServices {
	return ActiveServices{
		ServiceDate: r.Date.ISO(),
		ServiceIDs:  r.Services.IDs(),
		Overridden:  r.Overridden,
		Skipped:     r.Skipped,
	}
}
