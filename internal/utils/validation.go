package utils

import (
	"errors"
	"regexp"
	"time"
)

// GTFS ids in the wild use letters, digits, underscore, hyphen and dot.
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateID validates that an ID is safe and within reasonable limits
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}

	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}

	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}

	return nil
}

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateDate validates date strings in YYYY-MM-DD format
func ValidateDate(date string) error {
	// Empty dates are allowed (will default to current date)
	if date == "" {
		return nil
	}

	_, err := time.Parse("2006-01-02", date)
	if err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}

	return nil
}

// ValidateTimeOfDay validates HH:MM clock strings. Empty values are allowed (current time).
func ValidateTimeOfDay(value string) error {
	if value == "" {
		return nil
	}

	if _, err := time.Parse("15:04", value); err != nil {
		return errors.New("invalid time format, use HH:MM")
	}

	return nil
}

// ValidateMaxCount validates result limits. Zero means no limit.
func ValidateMaxCount(maxCount int) error {
	if maxCount < 0 {
		return errors.New("maxCount must be non-negative")
	}
	if maxCount > 1000 {
		return errors.New("maxCount too large (max 1000)")
	}
	return nil
}

// ValidateLocationParams validates a rider position
func ValidateLocationParams(lat, lon float64) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}

	return fieldErrors
}
