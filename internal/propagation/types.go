package propagation

import (
	"errors"
	"time"
)

// ErrPropagation marks a record that could not be placed at the requested
// instant: rejected element lines, an SGP4 initialisation error, or a
// non-finite or implausible state vector.
var ErrPropagation = errors.New("propagation failed")

// Position is a satellite's geodetic sub-point.
type Position struct {
	Latitude   float64 // degrees
	Longitude  float64 // degrees
	AltitudeKm float64 // rounded to 0.1 km
}

// Outcome is the result for one input record. Exactly one of Position or Err
// is meaningful.
type Outcome struct {
	Name     string
	Position Position
	Err      error
}

// OK reports whether the record was propagated.
func (o Outcome) OK() bool { return o.Err == nil }

// Result holds one Outcome per input record, in input order.
type Result struct {
	At        time.Time
	Outcomes  []Outcome
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Config holds propagation settings.
type Config struct {
	Workers int // worker pool size; values below 1 mean 1
}
