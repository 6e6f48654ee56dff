package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// ParseFloatParam reads key from params. A missing key yields 0 with no error; an unparsable
// value is recorded in fieldErrors, which is allocated when nil.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return f, fieldErrors
}

// ParseIntParam is ParseFloatParam for integers.
func ParseIntParam(params url.Values, key string, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return n, fieldErrors
}

// HasLocationParams reports whether both lat and lon were supplied.
func HasLocationParams(params url.Values) bool {
	return params.Get("lat") != "" && params.Get("lon") != ""
}

// ParseMoment combines the optional "date" (YYYY-MM-DD) and "time" (HH:MM) parameters into an
// instant in loc. Missing parts default to now.
func ParseMoment(params url.Values, now time.Time, loc *time.Location) (time.Time, map[string][]string) {
	fieldErrors := make(map[string][]string)
	local := now.In(loc)

	dateParam := params.Get("date")
	if err := ValidateDate(dateParam); err != nil {
		fieldErrors["date"] = append(fieldErrors["date"], err.Error())
	}
	timeParam := params.Get("time")
	if err := ValidateTimeOfDay(timeParam); err != nil {
		fieldErrors["time"] = append(fieldErrors["time"], err.Error())
	}
	if len(fieldErrors) > 0 {
		return time.Time{}, fieldErrors
	}

	year, month, day := local.Date()
	if dateParam != "" {
		d, _ := time.Parse("2006-01-02", dateParam)
		year, month, day = d.Date()
	}

	hour, minute, second := local.Clock()
	if timeParam != "" {
		t, _ := time.Parse("15:04", timeParam)
		hour, minute, second = t.Hour(), t.Minute(), 0
	}

	return time.Date(year, month, day, hour, minute, second, 0, loc), fieldErrors
}
