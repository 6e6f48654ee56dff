package gtfsdb

// GTFS calendar_dates.txt exception_type values
const (
	ExceptionTypeAdded   = 1
	ExceptionTypeRemoved = 2
)

// Agency represents a transit agency in the GTFS feed
type Agency struct {
	ID       string // agency_id
	Name     string // agency_name
	URL      string // agency_url
	Timezone string // agency_timezone
}

// Route represents a transit route in the GTFS feed
type Route struct {
	ID        string // route_id
	AgencyID  string // agency_id
	ShortName string // route_short_name
	LongName  string // route_long_name
	Type      int    // route_type
}

// Stop represents a transit stop or station in the GTFS feed
type Stop struct {
	ID   string  // stop_id
	Code string  // stop_code
	Name string  // stop_name
	Lat  float64 // stop_lat
	Lon  float64 // stop_lon
}

// Calendar represents the weekly service pattern of a service_id
type Calendar struct {
	ServiceID string // service_id
	Monday    int    // monday
	Tuesday   int    // tuesday
	Wednesday int    // wednesday
	Thursday  int    // thursday
	Friday    int    // friday
	Saturday  int    // saturday
	Sunday    int    // sunday
	StartDate string // start_date (YYYYMMDD)
	EndDate   string // end_date (YYYYMMDD)
}

// CalendarDate is a single-date exception to a service's weekly pattern
type CalendarDate struct {
	ServiceID     string // service_id
	Date          string // date (YYYYMMDD)
	ExceptionType int    // exception_type
}

// Trip represents a journey made by a vehicle in the GTFS feed
type Trip struct {
	ID          string // trip_id
	RouteID     string // route_id
	ServiceID   string // service_id
	Headsign    string // trip_headsign
	DirectionID int    // direction_id
}

// StopTime represents a vehicle arrival/departure at a specific stop in the GTFS feed
type StopTime struct {
	TripID        string // trip_id
	ArrivalTime   string // arrival_time (HH:MM:SS)
	DepartureTime string // departure_time (HH:MM:SS, hours may exceed 23)
	StopID        string // stop_id
	StopSequence  int    // stop_sequence
	StopHeadsign  string // stop_headsign
}

// DepartureRecord is a stop_times row joined with its trip and route.
type DepartureRecord struct {
	TripID         string
	StopID         string
	RouteShortName string
	Headsign       string
	ServiceID      string
	DepartureTime  string
}

// ImportMetadata describes the feed currently held in the database.
type ImportMetadata struct {
	FileHash   string
	FileSource string
	ImportTime int64 // unix milliseconds
}
