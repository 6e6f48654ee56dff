package gtfsdb

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// calendarWindow is a service's start_date and end_date exactly as calendar.txt states them.
type calendarWindow struct {
	startDate string
	endDate   string
}

// readCalendarWindows reads calendar.txt from the feed zip. The GTFS parser stretches a
// service's dates to cover its calendar_dates exceptions, which would let the weekly pattern
// run on days outside the published window. A feed without calendar.txt gives an empty map.
func readCalendarWindows(feed []byte) (map[string]calendarWindow, error) {
	archive, err := zip.NewReader(bytes.NewReader(feed), int64(len(feed)))
	if err != nil {
		return nil, fmt.Errorf("error opening feed archive: %w", err)
	}

	windows := make(map[string]calendarWindow)
	for _, file := range archive.File {
		if path.Base(file.Name) != "calendar.txt" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("error opening calendar.txt: %w", err)
		}
		defer func() { _ = rc.Close() }()
		if err := parseCalendarWindows(rc, windows); err != nil {
			return nil, fmt.Errorf("error reading calendar.txt: %w", err)
		}
		break
	}
	return windows, nil
}

func parseCalendarWindows(r io.Reader, windows map[string]calendarWindow) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		id := field(record, "service_id")
		if id == "" {
			continue
		}
		windows[id] = calendarWindow{
			startDate: field(record, "start_date"),
			endDate:   field(record, "end_date"),
		}
	}
}
