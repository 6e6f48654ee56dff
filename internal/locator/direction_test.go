package locator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearing(t *testing.T) {
	tests := []struct {
		name      string
		from, to  Location
		expected  float64
		tolerance float64
	}{
		{name: "north", from: Location{40, -122}, to: Location{41, -122}, expected: 0, tolerance: 1},
		{name: "east", from: Location{40, -122}, to: Location{40, -121}, expected: 90, tolerance: 1},
		{name: "northeast", from: Location{40, -122}, to: Location{40.7, -121.3}, expected: 45, tolerance: 10},
		{name: "west stays positive", from: Location{40, -122}, to: Location{40, -123}, expected: 270, tolerance: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Bearing(tt.from, tt.to), tt.tolerance)
		})
	}
}

func TestCompass(t *testing.T) {
	tests := []struct {
		bearing  float64
		expected string
	}{
		{0, "N"}, {45, "NE"}, {90, "E"}, {135, "SE"},
		{180, "S"}, {225, "SW"}, {270, "W"}, {315, "NW"},
		{359.9, "N"}, {22, "N"}, {23, "NE"}, {67, "NE"}, {68, "E"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.1f degrees", tt.bearing), func(t *testing.T) {
			assert.Equal(t, tt.expected, Compass(tt.bearing))
		})
	}
}

func TestDirection(t *testing.T) {
	rider := Location{Lat: 49, Lon: -123}

	assert.Equal(t, "NW", Direction(rider, Stop{ID: "S2", Lat: 49.1, Lon: -123.1}))
	assert.Equal(t, "S", Direction(rider, Stop{ID: "S9", Lat: 48.9, Lon: -123}))
	assert.Equal(t, "", Direction(rider, Stop{ID: "S1", Lat: 49, Lon: -123}))
}
