// Package bodies reads the le-systeme-solaire catalog of solar system bodies
// and flattens it into table rows.
package bodies

import (
	"math"
	"sort"

	"github.com/goccy/go-json"
)

// Mass is a value in kilograms expressed as massValue × 10^massExponent.
type Mass struct {
	Value    float64 `json:"massValue"`
	Exponent int     `json:"massExponent"`

	empty bool
}

// UnmarshalJSON decodes a mass object, remembering whether it was "{}".
func (m *Mass) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	type plain Mass
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Mass(p)
	m.empty = len(fields) == 0
	return nil
}

// Known reports whether the feed carried any mass fields.
func (m *Mass) Known() bool {
	return m != nil && !m.empty
}

// Kg returns the mass in kilograms.
func (m Mass) Kg() float64 {
	return m.Value * math.Pow10(m.Exponent)
}

// Volume is a value in km³ expressed as volValue × 10^volExponent.
type Volume struct {
	Value    float64 `json:"volValue"`
	Exponent int     `json:"volExponent"`
}

// Orbiting names the body a moon revolves around.
type Orbiting struct {
	Planet string `json:"planet"`
	Rel    string `json:"rel"`
}

// Moon is a reference to a satellite of a body.
type Moon struct {
	Moon string `json:"moon"`
	Rel  string `json:"rel"`
}

// Body is one entry of the feed's "bodies" array.
type Body struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	EnglishName     string    `json:"englishName"`
	IsPlanet        bool      `json:"isPlanet"`
	BodyType        string    `json:"bodyType,omitempty"`
	Moons           []Moon    `json:"moons,omitempty"`
	SemimajorAxis   float64   `json:"semimajorAxis"`
	Perihelion      float64   `json:"perihelion"`
	Aphelion        float64   `json:"aphelion"`
	Eccentricity    float64   `json:"eccentricity"`
	Inclination     float64   `json:"inclination"`
	Mass            *Mass     `json:"mass,omitempty"`
	Vol             *Volume   `json:"vol,omitempty"`
	Density         float64   `json:"density"`
	Gravity         float64   `json:"gravity"`
	Escape          float64   `json:"escape"`
	MeanRadius      float64   `json:"meanRadius"`
	EquaRadius      float64   `json:"equaRadius"`
	PolarRadius     float64   `json:"polarRadius"`
	SideralOrbit    float64   `json:"sideralOrbit"`
	SideralRotation float64   `json:"sideralRotation"`
	AroundPlanet    *Orbiting `json:"aroundPlanet,omitempty"`
	DiscoveredBy    string    `json:"discoveredBy,omitempty"`
	DiscoveryDate   string    `json:"discoveryDate,omitempty"`
	AxialTilt       float64   `json:"axialTilt"`
	AvgTemp         float64   `json:"avgTemp"`
}

// UnknownType is the row type for bodies that carry no bodyType.
const UnknownType = "Unknown"

// Row is the tabular view of a Body.
type Row struct {
	Name             string   `json:"name" yaml:"name"`
	Type             string   `json:"type" yaml:"type"`
	MassKg           *float64 `json:"mass_kg" yaml:"mass_kg"`
	Gravity          float64  `json:"gravity" yaml:"gravity"`
	MeanRadiusKm     float64  `json:"mean_radius_km" yaml:"mean_radius_km"`
	SideralOrbitDays float64  `json:"sideral_orbit_days" yaml:"sideral_orbit_days"`
}

// Rows converts bodies to table rows, skipping bodies without an English name.
func Rows(bodies []Body) []Row {
	rows := make([]Row, 0, len(bodies))
	for _, b := range bodies {
		if b.EnglishName == "" {
			continue
		}
		row := Row{
			Name:             b.EnglishName,
			Type:             b.BodyType,
			Gravity:          b.Gravity,
			MeanRadiusKm:     b.MeanRadius,
			SideralOrbitDays: b.SideralOrbit,
		}
		if row.Type == "" {
			row.Type = UnknownType
		}
		if b.Mass.Known() {
			kg := b.Mass.Kg()
			row.MassKg = &kg
		}
		rows = append(rows, row)
	}
	return rows
}

// FilterRows keeps rows of the given type. An empty type or "All" keeps everything.
func FilterRows(rows []Row, typ string) []Row {
	if typ == "" || typ == "All" {
		return rows
	}
	var out []Row
	for _, r := range rows {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

// Types returns the distinct row types, sorted.
func Types(rows []Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rows {
		if !seen[r.Type] {
			seen[r.Type] = true
			out = append(out, r.Type)
		}
	}
	sort.Strings(out)
	return out
}

// Find returns the first body whose English name equals name.
func Find(bodies []Body, name string) (Body, bool) {
	for _, b := range bodies {
		if b.EnglishName == name {
			return b, true
		}
	}
	return Body{}, false
}
