// Package transform converts SGP4 output into Earth-fixed and geodetic
// coordinates.
//
// SGP4 reports positions in TEME (True Equator Mean Equinox). Rotating by
// Greenwich Mean Sidereal Time gives a pseudo Earth-fixed frame that is close
// enough to ITRF for ground tracks; polar motion and the equation of the
// equinoxes are ignored (tens of meters).
package transform

import (
	"math"
	"time"
)

// julianJ2000 is the Julian Date of 2000-01-01 12:00 TT.
const julianJ2000 = 2451545.0

// Vector is a Cartesian position in kilometers.
type Vector struct {
	X, Y, Z float64
}

// Norm returns the vector magnitude.
func (v Vector) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Finite reports whether every component is a real number.
func (v Vector) Finite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// JulianDate converts a UTC instant to a Julian Date.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	year := float64(t.Year())
	month := float64(t.Month())
	frac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		(float64(t.Second())+float64(t.Nanosecond())/1e9)/3600) / 24

	if month <= 2 {
		year--
		month += 12
	}
	century := math.Floor(year / 100)
	leap := 2 - century + math.Floor(century/4)

	return math.Floor(365.25*(year+4716)) +
		math.Floor(30.6001*(month+1)) +
		float64(t.Day()) + leap - 1524.5 + frac
}

// GMST returns Greenwich Mean Sidereal Time in radians, in [0, 2π), using the
// IAU-82 polynomial.
func GMST(t time.Time) float64 {
	tu := (JulianDate(t) - julianJ2000) / 36525

	// Seconds of time; 876600h expressed in seconds.
	sec := 67310.54841 +
		(876600*3600+8640184.812866)*tu +
		0.093104*tu*tu -
		6.2e-6*tu*tu*tu

	sec = math.Mod(sec, 86400)
	if sec < 0 {
		sec += 86400
	}
	return sec / 86400 * 2 * math.Pi
}

// TEMEToECEF rotates a TEME position about the Z axis by the sidereal angle
// gmst (radians). Units are preserved.
func TEMEToECEF(teme Vector, gmst float64) Vector {
	sin, cos := math.Sincos(gmst)
	return Vector{
		X: cos*teme.X + sin*teme.Y,
		Y: -sin*teme.X + cos*teme.Y,
		Z: teme.Z,
	}
}

const (
	minOrbitRadiusKm = 6200.0
	maxOrbitRadiusKm = 50000.0
)

// PlausibleOrbit reports whether a geocentric position (km) lies between just
// inside the Earth's surface and beyond GEO. Decayed or diverged element sets
// fall outside this band.
func PlausibleOrbit(v Vector) bool {
	if !v.Finite() {
		return false
	}
	r := v.Norm()
	return r >= minOrbitRadiusKm && r <= maxOrbitRadiusKm
}
