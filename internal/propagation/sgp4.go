package propagation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/ADITYAK333/satellite-tracker/internal/tle"
	"github.com/ADITYAK333/satellite-tracker/internal/transform"
)

// go-satellite calls log.Fatal on element lines it cannot parse and hides
// SGP4 error codes from Propagate, so lines are checked before they reach it
// and the output vector is checked after.

// Elements is an initialised SGP4 model for one element set. It is immutable
// and safe to share between goroutines.
type Elements struct {
	sat satellite.Satellite
}

// NewElements validates a record's orbital lines and initialises SGP4 with
// WGS-84 constants.
func NewElements(rec tle.RawRecord) (*Elements, error) {
	line1 := strings.TrimSpace(rec.Line1)
	line2 := strings.TrimSpace(rec.Line2)

	if err := validateLines(line1, line2); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrPropagation, rec.Name, err)
	}

	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS84)
	if sat.Error != 0 {
		return nil, fmt.Errorf("%w: %s: sgp4 init code=%d %s", ErrPropagation, rec.Name, sat.Error, sat.ErrorStr)
	}
	return &Elements{sat: sat}, nil
}

// TEME returns the position in km in the TEME frame at t, truncated to whole
// seconds.
func (e *Elements) TEME(t time.Time) (transform.Vector, error) {
	t = t.UTC()
	pos, _ := satellite.Propagate(e.sat, t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	v := transform.Vector{X: pos.X, Y: pos.Y, Z: pos.Z}
	if !v.Finite() {
		return transform.Vector{}, fmt.Errorf("%w: state vector is NaN/Inf", ErrPropagation)
	}
	if !transform.PlausibleOrbit(v) {
		return transform.Vector{}, fmt.Errorf("%w: implausible radius %.1f km", ErrPropagation, v.Norm())
	}
	return v, nil
}

// SubPoint returns the geodetic sub-point of e at t, given the sidereal angle
// for t. Batches compute gmst once per instant.
func (e *Elements) SubPoint(t time.Time, gmst float64) (Position, error) {
	teme, err := e.TEME(t)
	if err != nil {
		return Position{}, err
	}
	g := transform.ECEFToGeodetic(transform.TEMEToECEF(teme, gmst))
	return Position{
		Latitude:   g.Latitude,
		Longitude:  g.Longitude,
		AltitudeKm: math.Round(g.AltitudeKm*10) / 10,
	}, nil
}

// SubPoint propagates a single record to at and returns its sub-point.
func SubPoint(rec tle.RawRecord, at time.Time) (Position, error) {
	at = at.UTC().Truncate(time.Second)
	el, err := NewElements(rec)
	if err != nil {
		return Position{}, err
	}
	pos, err := el.SubPoint(at, transform.GMST(at))
	if err != nil {
		return Position{}, fmt.Errorf("%s: %w", rec.Name, err)
	}
	return pos, nil
}

// elementField is one string go-satellite's ParseTLE hands to strconv.
type elementField struct {
	name  string
	value string
	isInt bool
}

// elementFields rebuilds every field exactly as ParseTLE slices and joins it,
// including its habit of removing at most two spaces.
func elementFields(line1, line2 string) []elementField {
	squeeze := func(s string) string { return strings.Replace(s, " ", "", 2) }
	return []elementField{
		{"catalog number", strings.TrimSpace(line1[2:7]), true},
		{"epoch year", line1[18:20], true},
		{"epoch day", line1[20:32], false},
		{"mean motion dot", squeeze(line1[33:43]), false},
		{"mean motion ddot", squeeze(line1[44:45] + "." + line1[45:50] + "e" + line1[50:52]), false},
		{"bstar", squeeze(line1[53:54] + "." + line1[54:59] + "e" + line1[59:61]), false},
		{"inclination", squeeze(line2[8:16]), false},
		{"raan", squeeze(line2[17:25]), false},
		{"eccentricity", "." + line2[26:33], false},
		{"argument of perigee", squeeze(line2[34:42]), false},
		{"mean anomaly", squeeze(line2[43:51]), false},
		{"mean motion", squeeze(line2[52:63]), false},
	}
}

// validateLines checks length and line numbers, then runs the same strconv
// calls go-satellite will run on each field.
func validateLines(line1, line2 string) error {
	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got '%c'", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got '%c'", line2[0])
	}

	for _, f := range elementFields(line1, line2) {
		var err error
		if f.isInt {
			_, err = strconv.ParseInt(f.value, 10, 0)
		} else {
			_, err = strconv.ParseFloat(f.value, 64)
		}
		if err != nil {
			return fmt.Errorf("%s %q is not numeric", f.name, f.value)
		}
	}
	return nil
}
