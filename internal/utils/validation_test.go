package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id     string
		errMsg string
	}{
		{id: "S1"},
		{id: "stop_49-123"},
		{id: "bay.4.north"},
		{id: "", errMsg: "id cannot be empty"},
		{id: strings.Repeat("a", 101), errMsg: "id too long (max 100 characters)"},
		{id: "S1<script>", errMsg: "id contains invalid characters"},
		{id: "S1'; DROP TABLE stops; --", errMsg: "id contains invalid characters"},
		{id: "../../../etc/passwd", errMsg: "id contains invalid characters"},
		{id: "Main St & 4th", errMsg: "id contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.errMsg)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	for _, lat := range []float64{49.0, 0, 90, -90} {
		assert.NoError(t, ValidateLatitude(lat), "lat %v", lat)
	}
	for _, lat := range []float64{90.1, -90.1, 180} {
		assert.EqualError(t, ValidateLatitude(lat), "latitude must be between -90 and 90", "lat %v", lat)
	}

	for _, lon := range []float64{-123.0, 0, 180, -180} {
		assert.NoError(t, ValidateLongitude(lon), "lon %v", lon)
	}
	for _, lon := range []float64{180.1, -180.1, 360} {
		assert.EqualError(t, ValidateLongitude(lon), "longitude must be between -180 and 180", "lon %v", lon)
	}
}

func TestValidateDate(t *testing.T) {
	for _, date := range []string{"", "2026-10-12", "2024-02-29"} {
		assert.NoError(t, ValidateDate(date), "date %q", date)
	}
	for _, date := range []string{"10/12/2026", "20261012", "2026-13-01", "2026-02-29", "2026-10-12<script>"} {
		assert.EqualError(t, ValidateDate(date), "invalid date format, use YYYY-MM-DD", "date %q", date)
	}
}

func TestValidateTimeOfDay(t *testing.T) {
	valid := []string{"", "00:00", "09:15", "23:59"}
	for _, v := range valid {
		assert.NoError(t, ValidateTimeOfDay(v), "time %q", v)
	}
	invalid := []string{"24:00", "9:15:00", "09:60", "noon", "09-15"}
	for _, v := range invalid {
		err := ValidateTimeOfDay(v)
		assert.Error(t, err, "time %q", v)
	}
}

func TestValidateMaxCount(t *testing.T) {
	assert.NoError(t, ValidateMaxCount(0))
	assert.NoError(t, ValidateMaxCount(10))
	assert.Error(t, ValidateMaxCount(-1))
	assert.Error(t, ValidateMaxCount(1001))
}

func TestValidateLocationParams(t *testing.T) {
	assert.Empty(t, ValidateLocationParams(49.0, -123.0))
	fieldErrors := ValidateLocationParams(91, -181)
	assert.Contains(t, fieldErrors, "lat")
	assert.Contains(t, fieldErrors, "lon")
}
