// Package classify tags satellites with an operator country and a mission
// type derived from keywords in the catalog name.
package classify

import "strings"

// Unknown is returned when no rule matches.
const Unknown = "Unknown"

// rule maps any of its keywords to a tag. Rules are tried in order and the
// first match wins.
type rule struct {
	tag      string
	keywords []string
}

// Matched against the upper-cased name.
var countryRules = []rule{
	{"USA", []string{"USA", "NAVSTAR", "GPS"}},
	{"India", []string{"ISRO", "INDIA"}},
	{"China", []string{"CHINA", "CZ-"}},
	{"Russia", []string{"COSMOS", "RUSS"}},
	{"EU", []string{"ESA", "EUROPE"}},
	{"Japan", []string{"JAXA", "JAPAN"}},
}

// Matched against the lower-cased name.
var typeRules = []rule{
	{"GPS", []string{"gps"}},
	{"Weather", []string{"weather", "meteo"}},
	{"Communications", []string{"comm", "satcom", "telecom"}},
	{"Military", []string{"mil", "spy", "nro"}},
	{"Earth Observation", []string{"resourc", "eo-"}},
	{"Science", []string{"science", "research"}},
}

func match(rules []rule, s string) string {
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(s, k) {
				return r.tag
			}
		}
	}
	return Unknown
}

// Country returns the operator country suggested by name, or Unknown.
// Matching is a case-insensitive substring test, so short keywords can hit
// unrelated names (any name containing "ESA" is tagged EU).
func Country(name string) string {
	return match(countryRules, strings.ToUpper(name))
}

// Type returns the mission type suggested by name, or Unknown.
func Type(name string) string {
	return match(typeRules, strings.ToLower(name))
}

// Countries lists every tag Country can return, Unknown last.
func Countries() []string { return tags(countryRules) }

// Types lists every tag Type can return, Unknown last.
func Types() []string { return tags(typeRules) }

func tags(rules []rule) []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.tag)
	}
	return append(out, Unknown)
}
