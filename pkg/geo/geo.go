// Package geo provides the small set of geodesy routines the aiming
// solver needs: initial bearing, haversine distance, a flat-earth
// local ENU projection and its inverse, and a great-circle destination
// point. All angles cross the package boundary in degrees; radians
// stay internal.
package geo

import "math"

// EarthRadiusM is the mean Earth radius used by every routine here.
const EarthRadiusM = 6371000.0

func toRad(d float64) float64 { return d * math.Pi / 180.0 }
func toDeg(r float64) float64 { return r * 180.0 / math.Pi }

// Bearing returns the initial great-circle bearing from point 1 to
// point 2 in degrees [0,360), 0=North 90=East.
func Bearing(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := toRad(lat1), toRad(lat2)
	dlam := toRad(lon2 - lon1)
	y := math.Sin(dlam) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dlam)
	return math.Mod(toDeg(math.Atan2(y, x))+360.0, 360.0)
}

// Haversine returns the great-circle distance between two points in
// meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1, phi2 := toRad(lat1), toRad(lat2)
	dphi := toRad(lat2 - lat1)
	dlam := toRad(lon2 - lon1)
	s1 := math.Sin(dphi / 2)
	s2 := math.Sin(dlam / 2)
	a := s1*s1 + math.Cos(phi1)*math.Cos(phi2)*s2*s2
	return 2 * EarthRadiusM * math.Asin(math.Sqrt(a))
}

// ToENU projects (lat,lon) into a flat-earth East/North frame centered
// at (lat0,lon0), in meters. The approximation is good to a few km and
// is not valid near the poles or across the antimeridian; that is the
// caller's responsibility.
func ToENU(lat0, lon0, lat, lon float64) (east, north float64) {
	dlat := toRad(lat - lat0)
	dlon := toRad(lon - lon0)
	latm := toRad((lat + lat0) / 2.0)
	east = EarthRadiusM * dlon * math.Cos(latm)
	north = EarthRadiusM * dlat
	return east, north
}

// FromENU is the inverse of ToENU. The returned longitude is
// normalized to [-180,180).
func FromENU(lat0, lon0, east, north float64) (lat, lon float64) {
	lat = lat0 + toDeg(north/EarthRadiusM)
	lon = lon0 + toDeg(east/(EarthRadiusM*math.Cos(toRad(lat0))))
	return lat, NormalizeLon(lon)
}

// Destination returns the point reached by traveling distanceM along
// the given bearing from (lat,lon) on a great circle.
func Destination(lat, lon, bearingDeg, distanceM float64) (lat2, lon2 float64) {
	d := distanceM / EarthRadiusM
	br := toRad(bearingDeg)
	phi1 := toRad(lat)
	lam1 := toRad(lon)

	phi2 := math.Asin(math.Sin(phi1)*math.Cos(d) + math.Cos(phi1)*math.Sin(d)*math.Cos(br))
	lam2 := lam1 + math.Atan2(math.Sin(br)*math.Sin(d)*math.Cos(phi1),
		math.Cos(d)-math.Sin(phi1)*math.Sin(phi2))
	return toDeg(phi2), NormalizeLon(toDeg(lam2))
}

// NormalizeBearing wraps an angle into [0,360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// NormalizeLon wraps a longitude into [-180,180).
func NormalizeLon(deg float64) float64 {
	return math.Mod(deg+540.0, 360.0) - 180.0
}

// AngleDiff returns the shortest signed difference target-current in
// degrees, in [-180,180).
func AngleDiff(target, current float64) float64 {
	return math.Mod(target-current+540.0, 360.0) - 180.0
}
