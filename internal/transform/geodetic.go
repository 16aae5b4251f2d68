package transform

import "math"

// WGS-84 ellipsoid, kilometers.
const (
	wgs84A  = 6378.137
	wgs84F  = 1 / 298.257223563
	wgs84E2 = wgs84F * (2 - wgs84F)
)

// Geodetic is a point on or above the WGS-84 ellipsoid.
type Geodetic struct {
	Latitude   float64 // degrees, [-90, 90]
	Longitude  float64 // degrees, [-180, 180]
	AltitudeKm float64 // height above the ellipsoid
}

// primeVertical returns the prime-vertical radius of curvature for sin(latitude).
func primeVertical(sinLat float64) float64 {
	return wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
}

// ECEFToGeodetic converts an Earth-fixed position in km to WGS-84 latitude,
// longitude and altitude. Latitude is found by fixed-point iteration, which
// settles within a few passes for anything in Earth orbit.
func ECEFToGeodetic(v Vector) Geodetic {
	lon := math.Atan2(v.Y, v.X)
	p := math.Hypot(v.X, v.Y)

	lat := math.Atan2(v.Z, p*(1-wgs84E2))
	for i := 0; i < 6; i++ {
		lat = math.Atan2(v.Z+wgs84E2*primeVertical(math.Sin(lat))*math.Sin(lat), p)
	}

	sinLat, cosLat := math.Sincos(lat)
	n := primeVertical(sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = p/cosLat - n
	} else {
		alt = math.Abs(v.Z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return Geodetic{
		Latitude:   degrees(lat),
		Longitude:  degrees(lon),
		AltitudeKm: alt,
	}
}

// GeodeticToECEF is the closed-form inverse of ECEFToGeodetic.
func GeodeticToECEF(g Geodetic) Vector {
	sinLat, cosLat := math.Sincos(radians(g.Latitude))
	sinLon, cosLon := math.Sincos(radians(g.Longitude))
	n := primeVertical(sinLat)

	return Vector{
		X: (n + g.AltitudeKm) * cosLat * cosLon,
		Y: (n + g.AltitudeKm) * cosLat * sinLon,
		Z: (n*(1-wgs84E2) + g.AltitudeKm) * sinLat,
	}
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
func radians(deg float64) float64 { return deg * math.Pi / 180 }
