// Package testutil builds small GTFS feeds for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"sort"
	"strings"
	"testing"
)

// SampleFeedFiles is a two-stop, one-route feed. Service WKDY runs Monday to Friday in 2026,
// HOL runs only on 2026-10-12 (a Monday) where WKDY is removed. Stop S3 has no coordinates.
var SampleFeedFiles = map[string]string{
	"agency.txt": `agency_id,agency_name,agency_url,agency_timezone
BCT,BC Transit,http://bctransit.com,America/Vancouver
`,
	"routes.txt": `route_id,agency_id,route_short_name,route_long_name,route_type
R4,BCT,4,UVic via Downtown,3
R14,BCT,14,Vic General,3
`,
	"stops.txt": `stop_id,stop_name,stop_lat,stop_lon
S1,Main,49.0,-123.0
S2,Oak,49.1,-123.1
S3,Nowhere,,
`,
	"calendar.txt": `service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date
WKDY,1,1,1,1,1,0,0,20260101,20261231
`,
	"calendar_dates.txt": `service_id,date,exception_type
HOL,20261012,1
WKDY,20261012,2
`,
	"trips.txt": `route_id,service_id,trip_id,trip_headsign
R4,WKDY,T1,Downtown
R14,WKDY,T2,
R4,HOL,T3,Downtown
`,
	"stop_times.txt": `trip_id,arrival_time,departure_time,stop_id,stop_sequence
T1,09:15:00,09:15:00,S1,1
T1,09:25:00,09:25:00,S2,2
T2,10:05:00,10:05:00,S1,1
T3,25:10:00,25:10:00,S1,1
`,
}

// BuildFeed zips files into an in-memory GTFS feed.
func BuildFeed(t *testing.T, files map[string]string) []byte {
	t.Helper()

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s to feed: %v", name, err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close feed: %v", err)
	}
	return buf.Bytes()
}

// SampleFeed returns SampleFeedFiles zipped.
func SampleFeed(t *testing.T) []byte {
	return BuildFeed(t, SampleFeedFiles)
}

// WithFile returns a copy of files with name replaced by content.
func WithFile(files map[string]string, name, content string) map[string]string {
	out := make(map[string]string, len(files))
	for k, v := range files {
		out[k] = v
	}
	out[name] = strings.TrimLeft(content, "\n")
	return out
}
