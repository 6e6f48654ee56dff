package locator

import "math"

var compassPoints = [8]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Bearing is the initial great-circle bearing from one point to another, in degrees [0, 360).
func Bearing(from, to Location) float64 {
	phi1 := from.Lat * math.Pi / 180
	phi2 := to.Lat * math.Pi / 180
	deltaLon := (to.Lon - from.Lon) * math.Pi / 180

	y := math.Sin(deltaLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(deltaLon)

	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}

// Compass names the 8-point sector a bearing falls in.
func Compass(bearing float64) string {
	return compassPoints[int((bearing+22.5)/45.0)%8]
}

// Direction is the compass point from the rider to stop, or "" when the rider is standing on it.
func Direction(from Location, stop Stop) string {
	to := Location{Lat: stop.Lat, Lon: stop.Lon}
	if from == to {
		return ""
	}
	return Compass(Bearing(from, to))
}
